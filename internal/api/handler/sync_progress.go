package handler

import (
	"fmt"
	"net/http"

	"github.com/sirupsen/logrus"
	"github.com/vendalytics/sales-sync-api/internal/progress"
	"github.com/vendalytics/sales-sync-api/pkg/apiErrors"
	"github.com/vendalytics/sales-sync-api/pkg/middleware"
)

// SyncProgress abre um stream SSE com os eventos de progresso da
// sincronização do usuário autenticado. O stream encerra quando o motor
// fecha o canal do dono (sincronização concluída sem continuação) ou quando
// o cliente desconecta.
func SyncProgress(broker *progress.Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.UserFromContext(r.Context())
		if !ok {
			apiErrors.WriteError(w, apiErrors.ErrInvalidToken, "Autenticação necessária", nil)
			return
		}

		flusher, ok := w.(http.Flusher)
		if !ok {
			apiErrors.WriteError(w, apiErrors.ErrProgressStreamClosed, "Streaming não suportado pela conexão", nil)
			return
		}

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.WriteHeader(http.StatusOK)
		flusher.Flush()

		sub := broker.Subscribe(claims.UserID)
		defer broker.Unsubscribe(claims.UserID, sub)

		logrus.WithField("user_id", claims.UserID).Debug("Stream de progresso aberto")

		for {
			select {
			case event, open := <-sub.Events():
				if !open {
					return
				}

				payload, err := json.Marshal(event)
				if err != nil {
					logrus.WithError(err).Warn("Erro ao serializar evento de progresso")
					continue
				}

				if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Type, payload); err != nil {
					return
				}
				flusher.Flush()

			case <-r.Context().Done():
				return
			}
		}
	}
}

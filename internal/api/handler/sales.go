package handler

import (
	"net/http"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vendalytics/sales-sync-api/internal/usecases/syncing"
	"github.com/vendalytics/sales-sync-api/pkg/apiErrors"
	"github.com/vendalytics/sales-sync-api/pkg/middleware"
)

type SyncSalesRequest struct {
	AccountIDs []string `json:"accountIds"`
	FullSync   bool     `json:"fullSync"`

	// Ponteiro para distinguir "omitido" de "false": o modo rápido é o
	// padrão, quem quiser a busca recente sem teto pede explicitamente.
	QuickMode    *bool      `json:"quickMode"`
	ResumeBefore *time.Time `json:"resumeBefore"`
}

func syncRequestFromBody(body *SyncSalesRequest) syncing.Request {
	req := syncing.Request{QuickMode: true}
	if body == nil {
		return req
	}

	req.AccountIDs = body.AccountIDs
	req.FullSync = body.FullSync
	req.ResumeBefore = body.ResumeBefore
	if body.QuickMode != nil {
		req.QuickMode = *body.QuickMode
	}

	return req
}

// Uma sincronização em andamento por usuário. A idempotência da persistência
// tolera execuções concorrentes, mas duas invocações simultâneas do mesmo
// usuário só queimam rate limit à toa.
var inFlightSyncs sync.Map

// SyncSales dispara uma invocação do motor de sincronização e responde o
// resumo quando ela termina (ou quando o orçamento da invocação acaba, o
// que vier primeiro).
func SyncSales(service *syncing.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body *SyncSalesRequest

		if r.Body != nil && r.ContentLength != 0 {
			body = &SyncSalesRequest{}
			if err := json.NewDecoder(r.Body).Decode(body); err != nil {
				apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Corpo da requisição inválido", nil)
				return
			}
		}

		req := syncRequestFromBody(body)

		claims, authenticated := middleware.UserFromContext(r.Context())
		switch {
		case authenticated:
			req.UserID = claims.UserID
		case middleware.IsCronRequest(r.Context()):
			// Sem usuário: o motor resolve todas as contas ativas
		default:
			apiErrors.WriteError(w, apiErrors.ErrInvalidToken, "Autenticação necessária", nil)
			return
		}

		if _, running := inFlightSyncs.LoadOrStore(req.UserID, true); running {
			apiErrors.WriteError(w, apiErrors.ErrSyncAlreadyRunning, "Sincronização já em andamento para este usuário", nil)
			return
		}
		defer inFlightSyncs.Delete(req.UserID)

		response, err := service.Sync(r.Context(), req)
		if err != nil {
			logrus.WithError(err).Error("Erro ao executar sincronização de vendas")
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro ao executar a sincronização", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(response); err != nil {
			logrus.WithError(err).Error("Erro ao enviar resposta da sincronização")
		}
	}
}

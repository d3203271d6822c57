package handler

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/sirupsen/logrus"
	"github.com/vendalytics/sales-sync-api/infrastructure/repository"
	"github.com/vendalytics/sales-sync-api/internal/domain"
	"github.com/vendalytics/sales-sync-api/pkg/apiErrors"
	"github.com/vendalytics/sales-sync-api/pkg/middleware"
)

// ListAccounts retorna as contas de marketplace do usuário autenticado, com
// o estado de conexão de cada uma (tokens nunca saem daqui).
func ListAccounts(accountRepo repository.AccountRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.UserFromContext(r.Context())
		if !ok {
			apiErrors.WriteError(w, apiErrors.ErrInvalidToken, "Autenticação necessária", nil)
			return
		}

		accounts, err := accountRepo.ListByUser(claims.UserID)
		if err != nil {
			logrus.WithError(err).Error("Erro ao buscar contas do usuário")
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao buscar contas", nil)
			return
		}

		responses := make([]*domain.AccountResponse, 0, len(accounts))
		for _, account := range accounts {
			responses = append(responses, account.ToResponse())
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(responses); err != nil {
			logrus.WithError(err).Error("Erro ao enviar lista de contas")
		}
	}
}

// ClearAccountInvalid remove o marcador de reconexão de uma conta, após o
// usuário refazer o OAuth no frontend.
func ClearAccountInvalid(accountRepo repository.AccountRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.UserFromContext(r.Context())
		if !ok {
			apiErrors.WriteError(w, apiErrors.ErrInvalidToken, "Autenticação necessária", nil)
			return
		}

		accountID := httprouter.ParamsFromContext(r.Context()).ByName("id")
		if accountID == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "ID da conta não fornecido", nil)
			return
		}

		account, err := accountRepo.GetByID(accountID)
		if err != nil {
			logrus.WithError(err).Error("Erro ao buscar conta")
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao buscar conta", nil)
			return
		}

		if account == nil || account.UserID != claims.UserID {
			apiErrors.WriteError(w, apiErrors.ErrAccountNotFound, "Conta não encontrada", nil)
			return
		}

		if err := accountRepo.ClearInvalid(accountID); err != nil {
			logrus.WithError(err).Error("Erro ao limpar marcador de reconexão")
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao atualizar conta", nil)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

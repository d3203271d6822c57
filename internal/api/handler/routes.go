package handler

import (
	"net/http"

	"github.com/vendalytics/sales-sync-api/infrastructure/repository"
	"github.com/vendalytics/sales-sync-api/internal/api/handler/router"
	"github.com/vendalytics/sales-sync-api/internal/progress"
	"github.com/vendalytics/sales-sync-api/internal/usecases/syncing"
)

func Healthcheck() []router.Route {
	return []router.Route{
		{
			Path:    "/healthcheck",
			Method:  http.MethodGet,
			Handler: HealthcheckHandler(),
		},
	}
}

func Sales(service *syncing.Service, broker *progress.Broker) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/sales/sync",
			Method:  http.MethodPost,
			Handler: SyncSales(service),
		},
		{
			Path:    "/v1/sales/sync/progress",
			Method:  http.MethodGet,
			Handler: SyncProgress(broker),
		},
	}
}

func Accounts(accountRepo repository.AccountRepository) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/accounts",
			Method:  http.MethodGet,
			Handler: ListAccounts(accountRepo),
		},
		{
			Path:    "/v1/accounts/:id/clear-invalid",
			Method:  http.MethodPost,
			Handler: ClearAccountInvalid(accountRepo),
		},
	}
}

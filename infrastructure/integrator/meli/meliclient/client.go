package meliclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/vendalytics/sales-sync-api/infrastructure/integrator"
	melidomain "github.com/vendalytics/sales-sync-api/infrastructure/integrator/meli/domain"
	"github.com/vendalytics/sales-sync-api/internal/config"
)

type Client interface {
	SearchOrders(ctx context.Context, accessToken, sellerID string, from, to time.Time, offset, limit int) (*melidomain.OrderSearchResponse, error)
	GetShipment(ctx context.Context, accessToken string, shipmentID int64) (*melidomain.Shipment, error)
	RefreshToken(ctx context.Context, refreshToken string) (*TokenResponse, error)
}

type MeliClient struct {
	cfg        config.Meli
	httpClient *http.Client
}

func NewClient(cfg config.Meli) Client {
	return &MeliClient{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: cfg.Timeout(),
		},
	}
}

// doRequest executa a requisição e decodifica a resposta em out. Respostas
// não-2xx viram *integrator.APIError com o status preservado, para o
// classificador de retry.
func (c *MeliClient) doRequest(req *http.Request, out interface{}) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &integrator.APIError{
			StatusCode: resp.StatusCode,
			URL:        req.URL.Path,
			Body:       truncateBody(body),
		}
	}

	if out == nil {
		return nil
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("erro ao decodificar resposta de %s: %w", req.URL.Path, err)
	}

	return nil
}

func truncateBody(body []byte) string {
	const max = 512
	if len(body) > max {
		return string(body[:max])
	}
	return string(body)
}

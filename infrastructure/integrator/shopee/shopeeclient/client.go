package shopeeclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/vendalytics/sales-sync-api/infrastructure/integrator"
	shopeedomain "github.com/vendalytics/sales-sync-api/infrastructure/integrator/shopee/domain"
	"github.com/vendalytics/sales-sync-api/internal/config"
)

type Client interface {
	GetOrderList(ctx context.Context, accessToken, shopID string, from, to time.Time, pageSize int, cursor string) (*shopeedomain.OrderListResponse, error)
	GetOrderDetail(ctx context.Context, accessToken, shopID string, orderSNList []string) (*shopeedomain.OrderDetailResponse, error)
	GetEscrowDetail(ctx context.Context, accessToken, shopID, orderSN string) (*shopeedomain.EscrowDetail, error)
	RefreshToken(ctx context.Context, refreshToken, shopID string) (*TokenResponse, error)
}

type ShopeeClient struct {
	cfg        config.Shopee
	httpClient *http.Client
	now        func() time.Time
}

func NewClient(cfg config.Shopee) Client {
	return &ShopeeClient{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: cfg.Timeout(),
		},
		now: time.Now,
	}
}

// signedURL monta a URL assinada de um endpoint da Open API v2. A Shopee
// exige partner_id, timestamp e a assinatura HMAC em toda chamada; chamadas
// de loja levam também access_token e shop_id na base da assinatura.
func (c *ShopeeClient) signedURL(path, accessToken, shopID string, extra url.Values) string {
	timestamp := c.now().Unix()

	params := url.Values{}
	params.Set("partner_id", fmt.Sprintf("%d", c.cfg.PartnerID))
	params.Set("timestamp", fmt.Sprintf("%d", timestamp))
	params.Set("sign", Sign(c.cfg.PartnerID, c.cfg.PartnerKey, path, accessToken, shopID, timestamp))

	if accessToken != "" {
		params.Set("access_token", accessToken)
		params.Set("shop_id", shopID)
	}

	for key, values := range extra {
		for _, value := range values {
			params.Add(key, value)
		}
	}

	return fmt.Sprintf("%s%s?%s", c.cfg.URL, path, params.Encode())
}

type baseResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// doGet executa a requisição e decodifica o envelope da Shopee. Além do
// status HTTP, a Shopee sinaliza erro no campo "error" do corpo mesmo com
// 200; token inválido vira APIError 401 para o classificador de retry.
func (c *ShopeeClient) doGet(ctx context.Context, requestURL string, response interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return err
	}

	return c.do(req, response)
}

func (c *ShopeeClient) doPost(ctx context.Context, requestURL string, payload, response interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, requestURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, response)
}

func (c *ShopeeClient) do(req *http.Request, response interface{}) error {
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

	base := baseResponse{}
	if err := json.Unmarshal(body, &base); err != nil {
		return fmt.Errorf("erro ao decodificar resposta de %s: %w", req.URL.Path, err)
	}

	if base.Error != "" {
		statusCode := http.StatusBadRequest
		if base.Error == "invalid_access_token" || base.Error == "invalid_acceess_token" || base.Error == "error_auth" {
			statusCode = http.StatusUnauthorized
		}
		return &integrator.APIError{
			StatusCode: statusCode,
			URL:        req.URL.Path,
			Body:       fmt.Sprintf("%s: %s", base.Error, base.Message),
		}
	}

	if response == nil {
		return nil
	}

	if err := json.Unmarshal(body, response); err != nil {
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

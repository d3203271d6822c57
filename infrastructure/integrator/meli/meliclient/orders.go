package meliclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	melidomain "github.com/vendalytics/sales-sync-api/infrastructure/integrator/meli/domain"
)

// SearchOrders busca uma página de pedidos do vendedor ordenada da venda
// mais recente para a mais antiga. O total reportado em paging.total vale
// para o intervalo inteiro, não só para a página.
func (c *MeliClient) SearchOrders(ctx context.Context, accessToken, sellerID string, from, to time.Time, offset, limit int) (*melidomain.OrderSearchResponse, error) {
	params := url.Values{}
	params.Add("seller", sellerID)
	params.Add("order.date_created.from", from.UTC().Format(time.RFC3339))
	params.Add("order.date_created.to", to.UTC().Format(time.RFC3339))
	params.Add("sort", "date_desc")
	params.Add("offset", strconv.Itoa(offset))
	params.Add("limit", strconv.Itoa(limit))

	requestURL := fmt.Sprintf("%s/orders/search?%s", c.cfg.URL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	// Decodificado em duas passadas: uma para os campos mapeados e outra
	// crua, para preservar o payload completo de cada pedido no snapshot.
	var raw struct {
		Results []json.RawMessage `json:"results"`
		Paging  melidomain.Paging `json:"paging"`
	}
	if err := c.doRequest(req, &raw); err != nil {
		return nil, err
	}

	response := &melidomain.OrderSearchResponse{
		Results: make([]*melidomain.Order, 0, len(raw.Results)),
		Paging:  raw.Paging,
	}

	for _, rawOrder := range raw.Results {
		order := &melidomain.Order{}
		if err := json.Unmarshal(rawOrder, order); err != nil {
			return nil, fmt.Errorf("erro ao decodificar pedido: %w", err)
		}
		order.Raw = rawOrder
		response.Results = append(response.Results, order)
	}

	return response, nil
}

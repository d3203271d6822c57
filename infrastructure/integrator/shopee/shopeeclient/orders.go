package shopeeclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	shopeedomain "github.com/vendalytics/sales-sync-api/infrastructure/integrator/shopee/domain"
)

const orderDetailFields = "buyer_username,item_list,package_list,recipient_address,total_amount,shipping_carrier"

// GetOrderList lista os order_sn criados no intervalo. A API limita o
// intervalo a 15 dias por chamada; janelas maiores devem ser divididas pelo
// chamador. O cursor devolvido em next_cursor é um offset numérico opaco.
func (c *ShopeeClient) GetOrderList(ctx context.Context, accessToken, shopID string, from, to time.Time, pageSize int, cursor string) (*shopeedomain.OrderListResponse, error) {
	params := url.Values{}
	params.Set("time_range_field", "create_time")
	params.Set("time_from", strconv.FormatInt(from.Unix(), 10))
	params.Set("time_to", strconv.FormatInt(to.Unix(), 10))
	params.Set("page_size", strconv.Itoa(pageSize))
	if cursor != "" {
		params.Set("cursor", cursor)
	}

	requestURL := c.signedURL("/api/v2/order/get_order_list", accessToken, shopID, params)

	var response struct {
		Response shopeedomain.OrderListResponse `json:"response"`
	}
	if err := c.doGet(ctx, requestURL, &response); err != nil {
		return nil, err
	}

	return &response.Response, nil
}

// GetOrderDetail busca o detalhe de até 50 pedidos por chamada.
func (c *ShopeeClient) GetOrderDetail(ctx context.Context, accessToken, shopID string, orderSNList []string) (*shopeedomain.OrderDetailResponse, error) {
	params := url.Values{}
	params.Set("order_sn_list", strings.Join(orderSNList, ","))
	params.Set("response_optional_fields", orderDetailFields)

	requestURL := c.signedURL("/api/v2/order/get_order_detail", accessToken, shopID, params)

	var response struct {
		Response struct {
			OrderList []json.RawMessage `json:"order_list"`
		} `json:"response"`
	}
	if err := c.doGet(ctx, requestURL, &response); err != nil {
		return nil, err
	}

	result := &shopeedomain.OrderDetailResponse{
		OrderList: make([]*shopeedomain.Order, 0, len(response.Response.OrderList)),
	}
	for _, rawOrder := range response.Response.OrderList {
		order := &shopeedomain.Order{}
		if err := json.Unmarshal(rawOrder, order); err != nil {
			return nil, fmt.Errorf("erro ao decodificar pedido: %w", err)
		}
		order.Raw = rawOrder
		result.OrderList = append(result.OrderList, order)
	}

	return result, nil
}

package shopeeclient

import (
	"context"
	"net/url"

	shopeedomain "github.com/vendalytics/sales-sync-api/infrastructure/integrator/shopee/domain"
)

func (c *ShopeeClient) GetEscrowDetail(ctx context.Context, accessToken, shopID, orderSN string) (*shopeedomain.EscrowDetail, error) {
	params := url.Values{}
	params.Set("order_sn", orderSN)

	requestURL := c.signedURL("/api/v2/payment/get_escrow_detail", accessToken, shopID, params)

	var response struct {
		Response shopeedomain.EscrowResponse `json:"response"`
	}
	if err := c.doGet(ctx, requestURL, &response); err != nil {
		return nil, err
	}

	return response.Response.EscrowDetail, nil
}

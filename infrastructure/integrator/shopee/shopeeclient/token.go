package shopeeclient

import (
	"context"
	"strconv"
)

type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpireIn     int64  `json:"expire_in"`
}

// RefreshToken troca o refresh token por um novo par. A assinatura deste
// fluxo não leva access_token nem shop_id na base.
func (c *ShopeeClient) RefreshToken(ctx context.Context, refreshToken, shopID string) (*TokenResponse, error) {
	requestURL := c.signedURL("/api/v2/auth/access_token/get", "", "", nil)

	shopIDNum, err := strconv.ParseInt(shopID, 10, 64)
	if err != nil {
		return nil, err
	}

	payload := map[string]interface{}{
		"refresh_token": refreshToken,
		"partner_id":    c.cfg.PartnerID,
		"shop_id":       shopIDNum,
	}

	tokenResp := &TokenResponse{}
	if err := c.doPost(ctx, requestURL, payload, tokenResp); err != nil {
		return nil, err
	}

	return tokenResp, nil
}

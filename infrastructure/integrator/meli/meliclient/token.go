package meliclient

import (
	"context"
	"net/http"
	"net/url"
	"strings"
)

// TokenResponse é a resposta do fluxo OAuth de refresh do Mercado Livre.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
	RefreshToken string `json:"refresh_token"`
	UserID       int64  `json:"user_id"`
}

// RefreshToken troca o refresh token por um novo par de tokens. O Mercado
// Livre invalida o refresh token antigo a cada troca, então o chamador deve
// persistir o par novo imediatamente.
func (c *MeliClient) RefreshToken(ctx context.Context, refreshToken string) (*TokenResponse, error) {
	form := url.Values{}
	form.Add("grant_type", "refresh_token")
	form.Add("client_id", c.cfg.AppID)
	form.Add("client_secret", c.cfg.AppSecret)
	form.Add("refresh_token", refreshToken)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.URL+"/oauth/token", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	tokenResp := &TokenResponse{}
	if err := c.doRequest(req, tokenResp); err != nil {
		return nil, err
	}

	return tokenResp, nil
}

package domain

import (
	"time"
)

type Platform string

const (
	PlatformMeli   Platform = "meli"
	PlatformShopee Platform = "shopee"
)

// Account é uma credencial de vendedor conectada a um marketplace.
// O motor de sincronização nunca remove contas; apenas marca/desmarca
// o estado de reconexão via InvalidSince.
type Account struct {
	ID               string     `json:"id"`
	UserID           int        `json:"user_id"`
	Platform         Platform   `json:"platform"`
	ExternalSellerID string     `json:"external_seller_id"`
	Nickname         string     `json:"nickname"`
	AccessToken      string     `json:"-"`
	RefreshToken     string     `json:"-"`
	TokenExpiresAt   time.Time  `json:"token_expires_at"`
	InvalidSince     *time.Time `json:"invalid_since"`
	CreatedAt        time.Time  `json:"created_at"`
}

// NeedsReconnection indica se a conta foi marcada como inválida
// (refresh token rejeitado pelo marketplace).
func (a *Account) NeedsReconnection() bool {
	return a.InvalidSince != nil
}

// TokenNearExpiry indica se o access token expira dentro da margem dada.
func (a *Account) TokenNearExpiry(margin time.Duration) bool {
	return time.Until(a.TokenExpiresAt) < margin
}

type AccountResponse struct {
	ID               string     `json:"id"`
	Platform         Platform   `json:"platform"`
	ExternalSellerID string     `json:"external_seller_id"`
	Nickname         string     `json:"nickname"`
	InvalidSince     *time.Time `json:"invalid_since"`
	CreatedAt        time.Time  `json:"created_at"`
}

func (a *Account) ToResponse() *AccountResponse {
	return &AccountResponse{
		ID:               a.ID,
		Platform:         a.Platform,
		ExternalSellerID: a.ExternalSellerID,
		Nickname:         a.Nickname,
		InvalidSince:     a.InvalidSince,
		CreatedAt:        a.CreatedAt,
	}
}

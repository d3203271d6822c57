package integrator

import (
	"fmt"
)

// APIError carrega o status HTTP devolvido pelo marketplace, para que o
// classificador de retry distinga falhas fatais (401/403), transientes
// (429/5xx) e erros de cliente.
type APIError struct {
	StatusCode int
	URL        string
	Body       string
}

func (e *APIError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("marketplace respondeu %d em %s: %s", e.StatusCode, e.URL, e.Body)
	}
	return fmt.Sprintf("marketplace respondeu %d em %s", e.StatusCode, e.URL)
}

// IsAuthError indica falha de credencial (reconexão necessária).
func (e *APIError) IsAuthError() bool {
	return e.StatusCode == 401 || e.StatusCode == 403
}

// IsRetryable indica erro transiente (rate limit ou falha de servidor).
func (e *APIError) IsRetryable() bool {
	switch e.StatusCode {
	case 429, 500, 502, 503, 504:
		return true
	}
	return false
}

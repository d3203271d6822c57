package syncing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vendalytics/sales-sync-api/infrastructure/integrator"
)

func TestExecutor_Do(t *testing.T) {
	t.Run("Sucesso na primeira tentativa não dispara retry", func(t *testing.T) {
		warnings := 0
		exec := NewExecutor(3, time.Millisecond, func(string, int, error) { warnings++ })

		calls := 0
		err := exec.Do(context.Background(), "busca", func() error {
			calls++
			return nil
		})

		require.NoError(t, err)
		assert.Equal(t, 1, calls)
		assert.Zero(t, warnings)
	})

	t.Run("Erro transiente é tentado até o limite e o último erro volta", func(t *testing.T) {
		exec := NewExecutor(3, time.Millisecond, nil)

		calls := 0
		err := exec.Do(context.Background(), "busca", func() error {
			calls++
			return &integrator.APIError{StatusCode: 503, URL: "/orders/search"}
		})

		require.Error(t, err)
		assert.Equal(t, 3, calls)

		var apiErr *integrator.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, 503, apiErr.StatusCode)
	})

	t.Run("Aviso é emitido uma única vez, no primeiro retry", func(t *testing.T) {
		var attempts []int
		exec := NewExecutor(3, time.Millisecond, func(_ string, attempt int, _ error) {
			attempts = append(attempts, attempt)
		})

		_ = exec.Do(context.Background(), "busca", func() error {
			return &integrator.APIError{StatusCode: 429}
		})

		assert.Equal(t, []int{1}, attempts)
	})

	t.Run("Rate limit se recupera quando a chamada volta a funcionar", func(t *testing.T) {
		exec := NewExecutor(3, time.Millisecond, nil)

		calls := 0
		err := exec.Do(context.Background(), "busca", func() error {
			calls++
			if calls < 3 {
				return &integrator.APIError{StatusCode: 429}
			}
			return nil
		})

		require.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("Tentativa única falha sem aviso de retry", func(t *testing.T) {
		warnings := 0
		exec := NewExecutor(1, time.Millisecond, func(string, int, error) { warnings++ })

		calls := 0
		err := exec.Do(context.Background(), "busca", func() error {
			calls++
			return &integrator.APIError{StatusCode: 503}
		})

		// Sem retry por vir, a falha é terminal: erro, não aviso
		require.Error(t, err)
		assert.Equal(t, 1, calls)
		assert.Zero(t, warnings)
	})

	t.Run("Erro de credencial desiste de imediato", func(t *testing.T) {
		exec := NewExecutor(3, time.Millisecond, nil)

		calls := 0
		err := exec.Do(context.Background(), "busca", func() error {
			calls++
			return &integrator.APIError{StatusCode: 401}
		})

		require.Error(t, err)
		assert.Equal(t, 1, calls)
		assert.True(t, IsAuthError(err))
	})

	t.Run("4xx comum não é retentado nem tratado como credencial", func(t *testing.T) {
		exec := NewExecutor(3, time.Millisecond, nil)

		calls := 0
		err := exec.Do(context.Background(), "busca", func() error {
			calls++
			return &integrator.APIError{StatusCode: 400}
		})

		require.Error(t, err)
		assert.Equal(t, 1, calls)
		assert.False(t, IsAuthError(err))
	})

	t.Run("Contexto cancelado interrompe sem retry", func(t *testing.T) {
		exec := NewExecutor(3, time.Millisecond, nil)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		calls := 0
		err := exec.Do(ctx, "busca", func() error {
			calls++
			return errors.New("falha de rede")
		})

		require.Error(t, err)
		assert.Equal(t, 1, calls)
	})
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"Rate limit", &integrator.APIError{StatusCode: 429}, true},
		{"Erro de servidor", &integrator.APIError{StatusCode: 500}, true},
		{"Gateway indisponível", &integrator.APIError{StatusCode: 502}, true},
		{"Credencial expirada", &integrator.APIError{StatusCode: 401}, false},
		{"Acesso negado", &integrator.APIError{StatusCode: 403}, false},
		{"Requisição inválida", &integrator.APIError{StatusCode: 422}, false},
		{"Falha de rede", errors.New("connection reset"), true},
		{"Contexto expirado", context.DeadlineExceeded, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsRetryable(tt.err))
		})
	}
}

package syncing

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/pkg/errors"
	"github.com/vendalytics/sales-sync-api/infrastructure/integrator"
)

// RetryFunc é chamada no primeiro retry de uma operação, para que um
// observador humano veja a degradação transiente sem esperar o esgotamento.
type RetryFunc func(operation string, attempt int, err error)

// Executor aplica a política única de retry do motor a qualquer chamada
// remota: backoff exponencial com jitter para 429/5xx e falhas de rede,
// desistência imediata para erros de credencial e demais 4xx.
type Executor struct {
	maxAttempts int
	baseDelay   time.Duration
	onRetry     RetryFunc
}

func NewExecutor(maxAttempts int, baseDelay time.Duration, onRetry RetryFunc) *Executor {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &Executor{
		maxAttempts: maxAttempts,
		baseDelay:   baseDelay,
		onRetry:     onRetry,
	}
}

// Do executa fn com a política de retry. O erro devolvido após o
// esgotamento é o último erro observado; nunca um panic.
func (e *Executor) Do(ctx context.Context, operation string, fn func() error) error {
	attempt := 0

	wrapped := func() error {
		err := fn()
		if err == nil {
			return nil
		}

		if !IsRetryable(err) {
			return backoff.Permanent(err)
		}

		attempt++

		// Aviso só quando ainda haverá retry: com uma única tentativa
		// permitida a falha é terminal e vira erro, não aviso.
		if attempt == 1 && attempt < e.maxAttempts && e.onRetry != nil {
			e.onRetry(operation, attempt, err)
		}

		return err
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = e.baseDelay
	policy.Multiplier = 2
	policy.RandomizationFactor = 0.5
	policy.MaxElapsedTime = 0

	err := backoff.Retry(wrapped, backoff.WithContext(
		backoff.WithMaxRetries(policy, uint64(e.maxAttempts-1)),
		ctx,
	))
	if err != nil {
		return errors.Wrapf(err, "operação %q falhou", operation)
	}

	return nil
}

// IsAuthError indica falha de credencial (401/403): fatal para a conta,
// que precisa ser reconectada pelo usuário.
func IsAuthError(err error) bool {
	var apiErr *integrator.APIError
	if errors.As(err, &apiErr) {
		return apiErr.IsAuthError()
	}
	return false
}

// IsRetryable classifica o erro: rate limit e erros de servidor são
// transientes, assim como falhas de rede (qualquer erro que não seja uma
// resposta HTTP do marketplace). Erros de credencial e demais 4xx não.
func IsRetryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var apiErr *integrator.APIError
	if errors.As(err, &apiErr) {
		return apiErr.IsRetryable()
	}

	// Erro de rede ou de decodificação: vale tentar de novo
	return true
}

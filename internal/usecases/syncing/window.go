package syncing

import (
	"context"
	"sort"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vendalytics/sales-sync-api/internal/domain"
)

const (
	// Teto de resultados por janela: o limite duro de offset da API é
	// 10.000; trabalhar 50 abaixo evita a borda.
	DefaultCeiling = 9950

	// Intervalos densos (> 50.000 pedidos) são divididos em fatias de 7
	// dias; os demais em fatias de 14.
	denseThreshold  = 50000
	denseSplitDays  = 7
	normalSplitDays = 14

	// Proteção contra contagens inconsistentes da API: abaixo desta
	// profundidade a janela é aceita mesmo acima do teto.
	maxSplitDepth = 8
)

// Window é um intervalo de datas consultado contra a API como uma unidade.
// Efêmera: nunca persistida.
type Window struct {
	From           time.Time
	To             time.Time
	EstimatedCount int
	Depth          int
}

func (w Window) Days() int {
	return int(w.To.Sub(w.From).Hours() / 24)
}

// Planner transforma um período pedido em janelas que respeitam o teto de
// resultados da API, dividindo recursivamente os intervalos densos. A
// recursão é modelada como uma pilha explícita de janelas pendentes, o que
// permite interromper o laço pelo orçamento de tempo em qualquer ponto.
type Planner struct {
	exec    *Executor
	ceiling int
}

func NewPlanner(exec *Executor, ceiling int) *Planner {
	if ceiling <= 0 {
		ceiling = DefaultCeiling
	}
	return &Planner{
		exec:    exec,
		ceiling: ceiling,
	}
}

// Plan cobre [from, to] com janelas contíguas, cada uma com contagem
// estimada abaixo do teto, ordenadas da mais recente para a mais antiga.
// Janela cuja sondagem falha após os retries é pulada com aviso, não
// derruba o plano; janela com contagem zero é descartada.
func (p *Planner) Plan(ctx context.Context, mkt Marketplace, acc *domain.Account, from, to time.Time) ([]Window, error) {
	if !from.Before(to) {
		return nil, nil
	}

	stack := p.seed(mkt, from, to)
	planned := make([]Window, 0, len(stack))

	for len(stack) > 0 {
		if err := ctx.Err(); err != nil {
			return planned, err
		}

		window := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		count, err := p.probe(ctx, mkt, acc, window)
		if err != nil {
			if IsAuthError(err) {
				return planned, err
			}

			logrus.WithError(err).WithFields(logrus.Fields{
				"account_id": acc.ID,
				"from":       window.From,
				"to":         window.To,
			}).Warn("Sondagem de janela falhou após retries, janela pulada")
			continue
		}

		if count == 0 {
			continue
		}

		window.EstimatedCount = count

		if count <= p.ceiling || window.Depth >= maxSplitDepth {
			if count > p.ceiling {
				logrus.WithFields(logrus.Fields{
					"account_id": acc.ID,
					"count":      count,
					"depth":      window.Depth,
				}).Warn("Profundidade máxima de divisão atingida, janela aceita acima do teto")
			}
			planned = append(planned, window)
			continue
		}

		stack = append(stack, split(window, count)...)
	}

	sort.Slice(planned, func(i, j int) bool {
		return planned[i].From.After(planned[j].From)
	})

	return planned, nil
}

// seed monta a pilha inicial. Marketplaces com limite de intervalo por
// consulta têm o período pré-dividido antes de qualquer sondagem.
func (p *Planner) seed(mkt Marketplace, from, to time.Time) []Window {
	maxDays := 0
	if limiter, ok := mkt.(WindowLimiter); ok {
		maxDays = limiter.MaxWindowDays()
	}

	if maxDays <= 0 || to.Sub(from) <= time.Duration(maxDays)*24*time.Hour {
		return []Window{{From: from, To: to}}
	}

	return sliceByDays(Window{From: from, To: to}, maxDays)
}

func (p *Planner) probe(ctx context.Context, mkt Marketplace, acc *domain.Account, w Window) (int, error) {
	count := 0
	err := p.exec.Do(ctx, "sondagem de contagem de pedidos", func() error {
		c, err := mkt.CountOrders(ctx, acc, w.From, w.To)
		if err != nil {
			return err
		}
		count = c
		return nil
	})
	return count, err
}

// split fatia a janela densa em sub-intervalos de tamanho fixo. As filhas
// cobrem exatamente o intervalo da mãe: cada fatia termina um segundo antes
// do início da seguinte, sem lacuna nem sobreposição.
func split(w Window, count int) []Window {
	days := normalSplitDays
	if count > denseThreshold {
		days = denseSplitDays
	}

	children := sliceByDays(w, days)
	for i := range children {
		children[i].Depth = w.Depth + 1
	}
	return children
}

func sliceByDays(w Window, days int) []Window {
	span := time.Duration(days) * 24 * time.Hour
	children := make([]Window, 0, int(w.To.Sub(w.From)/span)+1)

	for cursor := w.From; cursor.Before(w.To); {
		next := cursor.Add(span)
		childTo := next.Add(-time.Second)
		if !next.Before(w.To) {
			childTo = w.To
			next = w.To
		}

		children = append(children, Window{From: cursor, To: childTo, Depth: w.Depth})
		cursor = next
	}

	return children
}

package syncing

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vendalytics/sales-sync-api/internal/domain"
)

// stubMarketplace implementa Marketplace com campos de função, para os
// testes do motor controlarem cada resposta. maxWindow > 0 também o torna
// um WindowLimiter.
type stubMarketplace struct {
	platform    domain.Platform
	maxWindow   int
	countFn     func(from, to time.Time) (int, error)
	searchFn    func(from, to time.Time, offset, limit int) (*domain.OrderPage, error)
	enrichFn    func(order domain.RawOrder) error
	transformFn func(acc *domain.Account, order domain.RawOrder) (*domain.Sale, error)
	refreshFn   func(acc *domain.Account) error
}

func (s *stubMarketplace) Platform() domain.Platform {
	if s.platform == "" {
		return domain.PlatformMeli
	}
	return s.platform
}

func (s *stubMarketplace) MaxWindowDays() int {
	return s.maxWindow
}

func (s *stubMarketplace) CountOrders(_ context.Context, _ *domain.Account, from, to time.Time) (int, error) {
	if s.countFn == nil {
		return 0, nil
	}
	return s.countFn(from, to)
}

func (s *stubMarketplace) SearchOrders(_ context.Context, _ *domain.Account, from, to time.Time, offset, limit int) (*domain.OrderPage, error) {
	if s.searchFn == nil {
		return &domain.OrderPage{}, nil
	}
	return s.searchFn(from, to, offset, limit)
}

func (s *stubMarketplace) EnrichOrder(_ context.Context, _ *domain.Account, order domain.RawOrder) error {
	if s.enrichFn == nil {
		return nil
	}
	return s.enrichFn(order)
}

func (s *stubMarketplace) Transform(acc *domain.Account, order domain.RawOrder) (*domain.Sale, error) {
	if s.transformFn == nil {
		return &domain.Sale{
			OrderID:  order.OrderID(),
			Platform: s.Platform(),
			SoldAt:   order.SoldAt(),
		}, nil
	}
	return s.transformFn(acc, order)
}

func (s *stubMarketplace) RefreshToken(_ context.Context, acc *domain.Account) error {
	if s.refreshFn == nil {
		return nil
	}
	return s.refreshFn(acc)
}

type stubOrder struct {
	id     string
	soldAt time.Time
}

func (o stubOrder) OrderID() string   { return o.id }
func (o stubOrder) SoldAt() time.Time { return o.soldAt }

// stubSaleRepo guarda as vendas em memória, chaveadas por order_id.
type stubSaleRepo struct {
	mu    sync.Mutex
	sales map[string]*domain.Sale

	insertErr error
	updateErr error

	inserts int
	updates int
}

func newStubSaleRepo() *stubSaleRepo {
	return &stubSaleRepo{sales: make(map[string]*domain.Sale)}
}

func (r *stubSaleRepo) ExistingOrderIDs(_ domain.Platform, orderIDs []string) (map[string]struct{}, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing := make(map[string]struct{})
	for _, id := range orderIDs {
		if _, ok := r.sales[id]; ok {
			existing[id] = struct{}{}
		}
	}
	return existing, nil
}

func (r *stubSaleRepo) InsertSkipDuplicates(sales []*domain.Sale) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.insertErr != nil {
		return 0, r.insertErr
	}

	created := 0
	for _, sale := range sales {
		if _, ok := r.sales[sale.OrderID]; ok {
			continue
		}
		r.sales[sale.OrderID] = sale
		created++
	}
	r.inserts++
	return created, nil
}

func (r *stubSaleRepo) UpdateBatch(_ context.Context, sales []*domain.Sale) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.updateErr != nil {
		return r.updateErr
	}

	for _, sale := range sales {
		r.sales[sale.OrderID] = sale
	}
	r.updates++
	return nil
}

func (r *stubSaleRepo) OldestSaleDate(_ string) (*time.Time, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var oldest *time.Time
	for _, sale := range r.sales {
		soldAt := sale.SoldAt
		if oldest == nil || soldAt.Before(*oldest) {
			oldest = &soldAt
		}
	}
	return oldest, nil
}

func (r *stubSaleRepo) CountByAccount(_ string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sales), nil
}

type stubAccountRepo struct {
	accounts []*domain.Account

	invalidated  []string
	tokenUpdates int
}

func (r *stubAccountRepo) GetByID(accountID string) (*domain.Account, error) {
	for _, acc := range r.accounts {
		if acc.ID == accountID {
			return acc, nil
		}
	}
	return nil, nil
}

func (r *stubAccountRepo) ListByUser(userID int) ([]*domain.Account, error) {
	matched := make([]*domain.Account, 0)
	for _, acc := range r.accounts {
		if acc.UserID == userID {
			matched = append(matched, acc)
		}
	}
	return matched, nil
}

func (r *stubAccountRepo) ListByIDs(accountIDs []string) ([]*domain.Account, error) {
	matched := make([]*domain.Account, 0)
	for _, id := range accountIDs {
		for _, acc := range r.accounts {
			if acc.ID == id {
				matched = append(matched, acc)
			}
		}
	}
	return matched, nil
}

func (r *stubAccountRepo) ListActive() ([]*domain.Account, error) {
	matched := make([]*domain.Account, 0)
	for _, acc := range r.accounts {
		if acc.InvalidSince == nil {
			matched = append(matched, acc)
		}
	}
	return matched, nil
}

func (r *stubAccountRepo) UpdateTokens(_ *domain.Account) error {
	r.tokenUpdates++
	return nil
}

func (r *stubAccountRepo) MarkInvalid(accountID string, _ time.Time) error {
	r.invalidated = append(r.invalidated, accountID)
	return nil
}

func (r *stubAccountRepo) ClearInvalid(_ string) error {
	return nil
}

type stubSKURepo struct {
	costs map[string]decimal.Decimal
}

func (r *stubSKURepo) UnitCostsByUser(_ int, codes []string) (map[string]decimal.Decimal, error) {
	matched := make(map[string]decimal.Decimal)
	for _, code := range codes {
		if cost, ok := r.costs[code]; ok {
			matched[code] = cost
		}
	}
	return matched, nil
}

type stubJobRepo struct {
	enqueued []*domain.SyncJob
}

func (r *stubJobRepo) Enqueue(job *domain.SyncJob) error {
	r.enqueued = append(r.enqueued, job)
	return nil
}

func (r *stubJobRepo) DuePending(_ int) ([]*domain.SyncJob, error) {
	return nil, nil
}

func (r *stubJobRepo) MarkRunning(_ string) error { return nil }
func (r *stubJobRepo) MarkDone(_ string) error    { return nil }
func (r *stubJobRepo) MarkFailed(_ string) error  { return nil }

// stubProgress captura os eventos publicados, por dono.
type stubProgress struct {
	mu     sync.Mutex
	events []domain.ProgressEvent
	closed []int
}

func (p *stubProgress) Publish(_ int, event domain.ProgressEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

func (p *stubProgress) CloseOwner(ownerID int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = append(p.closed, ownerID)
}

func (p *stubProgress) byType(eventType domain.ProgressEventType) []domain.ProgressEvent {
	p.mu.Lock()
	defer p.mu.Unlock()

	matched := make([]domain.ProgressEvent, 0)
	for _, event := range p.events {
		if event.Type == eventType {
			matched = append(matched, event)
		}
	}
	return matched
}

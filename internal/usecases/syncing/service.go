package syncing

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vendalytics/sales-sync-api/infrastructure/repository"
	"github.com/vendalytics/sales-sync-api/internal/config"
	"github.com/vendalytics/sales-sync-api/internal/domain"
	"github.com/vendalytics/sales-sync-api/pkg/apiErrors"
	"github.com/vendalytics/sales-sync-api/pkg/utils"
)

// Data mais antiga plausível de histórico em uma sincronização completa.
var earliestSyncDate = time.Date(2015, 1, 1, 0, 0, 0, 0, time.UTC)

// ProgressSink é o canal de progresso visto pelo orquestrador.
type ProgressSink interface {
	Publish(ownerID int, event domain.ProgressEvent)
	CloseOwner(ownerID int)
}

// Request descreve uma invocação do orquestrador.
type Request struct {
	UserID     int
	AccountIDs []string
	FullSync   bool
	QuickMode  bool

	// Checkpoint explícito carregado por um job de continuação; quando
	// nil, o backfill retoma da venda mais antiga já persistida.
	ResumeBefore *time.Time
}

type Totals struct {
	Expected int `json:"expected"`
	Fetched  int `json:"fetched"`
	Saved    int `json:"saved"`
}

type AccountSummary struct {
	AccountID string          `json:"accountId"`
	Nickname  string          `json:"nickname"`
	Platform  domain.Platform `json:"platform"`
	Expected  int             `json:"expected"`
	Fetched   int             `json:"fetched"`
	Saved     int             `json:"saved"`
	HasMore   bool            `json:"hasMore"`

	resumeBefore *time.Time
}

type AccountError struct {
	AccountID string `json:"accountId"`
	Code      string `json:"code"`
	Message   string `json:"message"`
}

type Response struct {
	SyncedAt          time.Time        `json:"syncedAt"`
	Accounts          []AccountSummary `json:"accounts"`
	Errors            []AccountError   `json:"errors"`
	Totals            Totals           `json:"totals"`
	HasMoreToSync     bool             `json:"hasMoreToSync"`
	AutoSyncTriggered bool             `json:"autoSyncTriggered"`
}

// Service é o orquestrador: dirige planejador, buscador, enriquecedor,
// transformador e persistidor sob um orçamento de relógio por invocação, e
// enfileira uma continuação durável quando sobra trabalho.
type Service struct {
	cfg          config.SaleSync
	marketplaces map[domain.Platform]Marketplace
	accountRepo  repository.AccountRepository
	saleRepo     repository.SaleRepository
	skuRepo      repository.SKURepository
	jobRepo      repository.SyncJobRepository
	progress     ProgressSink
	now          func() time.Time
}

func NewService(
	cfg config.SaleSync,
	marketplaces []Marketplace,
	accountRepo repository.AccountRepository,
	saleRepo repository.SaleRepository,
	skuRepo repository.SKURepository,
	jobRepo repository.SyncJobRepository,
	progressSink ProgressSink,
) *Service {
	byPlatform := make(map[domain.Platform]Marketplace, len(marketplaces))
	for _, mkt := range marketplaces {
		byPlatform[mkt.Platform()] = mkt
	}

	return &Service{
		cfg:          cfg,
		marketplaces: byPlatform,
		accountRepo:  accountRepo,
		saleRepo:     saleRepo,
		skuRepo:      skuRepo,
		jobRepo:      jobRepo,
		progress:     progressSink,
		now:          time.Now,
	}
}

// Sync processa as contas pedidas, uma por vez, dentro do orçamento da
// invocação. Falha de uma conta nunca aborta as demais: vai para a lista
// de erros da resposta e o laço segue.
func (s *Service) Sync(ctx context.Context, req Request) (*Response, error) {
	syncedAt := s.now()
	deadline := syncedAt.Add(s.cfg.InvocationBudget())

	ctx, cancel := context.WithDeadline(ctx, deadline)
	defer cancel()

	accounts, err := s.resolveAccounts(req)
	if err != nil {
		return nil, err
	}

	response := &Response{
		SyncedAt: syncedAt,
		Accounts: make([]AccountSummary, 0, len(accounts)),
		Errors:   make([]AccountError, 0),
	}

	if len(accounts) == 0 {
		return response, nil
	}

	s.publish(accounts[0].UserID, domain.ProgressEvent{
		Type:    domain.ProgressSyncStart,
		Message: fmt.Sprintf("Sincronizando %d conta(s)", len(accounts)),
		Total:   len(accounts),
	})

	for _, account := range accounts {
		summary, accErr := s.syncAccount(ctx, account, req, deadline)
		if accErr != nil {
			response.Errors = append(response.Errors, *accErr)

			s.publish(account.UserID, domain.ProgressEvent{
				Type:            domain.ProgressSyncWarning,
				Message:         accErr.Message,
				AccountID:       account.ID,
				AccountNickname: account.Nickname,
				ErrorCode:       accErr.Code,
			})
			continue
		}

		response.Accounts = append(response.Accounts, *summary)
		response.Totals.Expected += summary.Expected
		response.Totals.Fetched += summary.Fetched
		response.Totals.Saved += summary.Saved

		if summary.HasMore {
			response.HasMoreToSync = true
		}
	}

	if response.HasMoreToSync {
		response.AutoSyncTriggered = s.enqueueContinuations(accounts, response, req)
	}

	s.finish(accounts, response)

	return response, nil
}

func (s *Service) resolveAccounts(req Request) ([]*domain.Account, error) {
	if len(req.AccountIDs) > 0 {
		return s.accountRepo.ListByIDs(req.AccountIDs)
	}
	if req.UserID != 0 {
		return s.accountRepo.ListByUser(req.UserID)
	}
	return s.accountRepo.ListActive()
}

func (s *Service) syncAccount(ctx context.Context, acc *domain.Account, req Request, deadline time.Time) (*AccountSummary, *AccountError) {
	if acc.NeedsReconnection() {
		return nil, &AccountError{
			AccountID: acc.ID,
			Code:      apiErrors.ErrAccountReconnection,
			Message:   fmt.Sprintf("Conta %s precisa ser reconectada", acc.Nickname),
		}
	}

	mkt, ok := s.marketplaces[acc.Platform]
	if !ok {
		return nil, &AccountError{
			AccountID: acc.ID,
			Code:      apiErrors.ErrAccountNotFound,
			Message:   fmt.Sprintf("Plataforma %s não suportada", acc.Platform),
		}
	}

	exec := NewExecutor(s.cfg.MaxRetryAttempts, s.cfg.RetryBaseDelay(), func(operation string, attempt int, err error) {
		s.publish(acc.UserID, domain.ProgressEvent{
			Type:            domain.ProgressSyncWarning,
			Message:         fmt.Sprintf("Instabilidade na API (%s), tentando novamente", operation),
			AccountID:       acc.ID,
			AccountNickname: acc.Nickname,
		})
	})

	if accErr := s.refreshToken(ctx, exec, mkt, acc); accErr != nil {
		return nil, accErr
	}

	summary := &AccountSummary{
		AccountID: acc.ID,
		Nickname:  acc.Nickname,
		Platform:  acc.Platform,
	}

	fetcher := NewFetcher(exec, s.cfg.PageSize, s.cfg.PageConcurrency, DefaultCeiling)
	enricher := NewEnricher(exec, s.cfg.EnrichBatchSize)
	persister := NewPersister(s.saleRepo, s.cfg.PersistBatchSize)
	planner := NewPlanner(exec, DefaultCeiling)

	upper := s.now()
	lower := s.historyLowerBound(acc, req)

	// Fase recente: os pedidos mais novos primeiro, com teto de pedidos e
	// sub-orçamento próprios, para a UI ter dado fresco mesmo quando o
	// histórico é profundo. Marketplaces com limite de intervalo por
	// consulta têm a janela recente encurtada ao limite; o que ficar de
	// fora é coberto pelo backfill, que passa pelo planejador.
	recentFrom := lower
	if limiter, ok := mkt.(WindowLimiter); ok {
		if maxDays := limiter.MaxWindowDays(); maxDays > 0 {
			if clamped := upper.AddDate(0, 0, -maxDays); clamped.After(recentFrom) {
				recentFrom = clamped
			}
		}
	}

	expected, err := s.probeTotal(ctx, exec, mkt, acc, recentFrom, upper)
	if err != nil {
		if accErr := s.classifyAccountFailure(acc, err, "sondagem do total de pedidos"); accErr != nil {
			return nil, accErr
		}
	}
	summary.Expected = expected

	fetchDeadline := s.now().Add(s.cfg.FetchBudget())
	if fetchDeadline.After(deadline) {
		fetchDeadline = deadline
	}

	maxOrders := 0
	if req.QuickMode {
		maxOrders = s.cfg.RecentOrdersCap
	}

	recentWindow := Window{From: recentFrom, To: upper, EstimatedCount: expected}
	orders, remoteTotal, fetchErr := fetcher.FetchWindow(ctx, mkt, acc, recentWindow, fetchDeadline, maxOrders, s.reporter(acc, "Buscando pedidos recentes"))
	if fetchErr != nil {
		if accErr := s.classifyAccountFailure(acc, fetchErr, "busca de pedidos recentes"); accErr != nil {
			return nil, accErr
		}
	}
	if remoteTotal > summary.Expected {
		summary.Expected = remoteTotal
	}

	oldestFetched := oldestSoldAt(orders)
	if oldestFetched == nil && recentFrom.After(lower) {
		// Janela recente encurtada e vazia: o backfill ainda precisa
		// varrer o restante do período, a partir do corte.
		oldestFetched = &recentFrom
	}
	summary.Fetched += len(orders)

	saved := s.processOrders(ctx, mkt, acc, enricher, persister, orders)
	summary.Saved += saved

	// Backfill histórico: caminha para trás a partir do checkpoint, um mês
	// por vez, até esgotar o histórico ou o orçamento.
	s.backfill(ctx, mkt, acc, req, planner, fetcher, enricher, persister, lower, deadline, oldestFetched, summary)

	// Persistido aquém do total remoto (teto da fase rápida, orçamento,
	// janelas puladas): a próxima invocação continua de onde parou.
	if persisted, err := s.saleRepo.CountByAccount(acc.ID); err == nil && persisted < summary.Expected {
		summary.HasMore = true
	}

	return summary, nil
}

func (s *Service) refreshToken(ctx context.Context, exec *Executor, mkt Marketplace, acc *domain.Account) *AccountError {
	err := exec.Do(ctx, "renovação de token", func() error {
		return mkt.RefreshToken(ctx, acc)
	})
	if err != nil {
		if IsAuthError(err) {
			s.markInvalid(acc)
			return &AccountError{
				AccountID: acc.ID,
				Code:      apiErrors.ErrAccountReconnection,
				Message:   fmt.Sprintf("Credenciais da conta %s expiraram, reconexão necessária", acc.Nickname),
			}
		}

		return &AccountError{
			AccountID: acc.ID,
			Code:      apiErrors.ErrExternalService,
			Message:   fmt.Sprintf("Falha ao renovar token da conta %s: %v", acc.Nickname, err),
		}
	}

	if err := s.accountRepo.UpdateTokens(acc); err != nil {
		logrus.WithError(err).WithField("account_id", acc.ID).
			Error("Falha ao persistir tokens renovados")
	}

	return nil
}

// classifyAccountFailure decide se a falha derruba a conta (credencial) ou
// vira só um aviso com continuação por dado parcial.
func (s *Service) classifyAccountFailure(acc *domain.Account, err error, operation string) *AccountError {
	if IsAuthError(err) {
		s.markInvalid(acc)
		return &AccountError{
			AccountID: acc.ID,
			Code:      apiErrors.ErrAccountReconnection,
			Message:   fmt.Sprintf("Credenciais da conta %s expiraram, reconexão necessária", acc.Nickname),
		}
	}

	logrus.WithError(err).WithFields(logrus.Fields{
		"account_id": acc.ID,
		"operation":  operation,
	}).Warn("Falha não-fatal durante a sincronização, seguindo com dados parciais")

	s.publish(acc.UserID, domain.ProgressEvent{
		Type:            domain.ProgressSyncWarning,
		Message:         fmt.Sprintf("Falha em %s, seguindo com dados parciais", operation),
		AccountID:       acc.ID,
		AccountNickname: acc.Nickname,
	})

	return nil
}

func (s *Service) probeTotal(ctx context.Context, exec *Executor, mkt Marketplace, acc *domain.Account, from, to time.Time) (int, error) {
	total := 0
	err := exec.Do(ctx, "sondagem do total de pedidos", func() error {
		count, countErr := mkt.CountOrders(ctx, acc, from, to)
		if countErr != nil {
			return countErr
		}
		total = count
		return nil
	})
	return total, err
}

// processOrders enriquece, transforma, aplica custos de SKU e persiste um
// lote de pedidos. Erros por pedido são contados e avisados, nunca abortam
// o lote. Devolve quantos registros foram gravados.
func (s *Service) processOrders(ctx context.Context, mkt Marketplace, acc *domain.Account, enricher *Enricher, persister *Persister, orders []domain.RawOrder) int {
	if len(orders) == 0 {
		return 0
	}

	enricher.Enrich(ctx, mkt, acc, orders)

	sales := make([]*domain.Sale, 0, len(orders))
	transformFailures := 0
	for _, order := range orders {
		sale, err := mkt.Transform(acc, order)
		if err != nil {
			logrus.WithError(err).WithFields(logrus.Fields{
				"account_id": acc.ID,
				"order_id":   order.OrderID(),
			}).Warn("Falha ao transformar pedido")
			transformFailures++
			continue
		}
		sales = append(sales, sale)
	}

	if transformFailures > 0 {
		s.publish(acc.UserID, domain.ProgressEvent{
			Type:            domain.ProgressSyncWarning,
			Message:         fmt.Sprintf("%d pedido(s) não puderam ser transformados", transformFailures),
			AccountID:       acc.ID,
			AccountNickname: acc.Nickname,
		})
	}

	s.applySKUCosts(acc, sales)

	result, err := persister.Persist(ctx, acc.Platform, sales, s.reporter(acc, "Salvando vendas"))
	if err != nil {
		logrus.WithError(err).WithField("account_id", acc.ID).
			Warn("Falha ao persistir lote de vendas")
		return result.Saved
	}

	return result.Saved
}

// applySKUCosts troca margem estimada por margem real onde o usuário tem
// custo unitário cadastrado para o SKU.
func (s *Service) applySKUCosts(acc *domain.Account, sales []*domain.Sale) {
	codes := make([]string, 0, len(sales))
	seen := make(map[string]struct{}, len(sales))
	for _, sale := range sales {
		if sale.SKU == "" {
			continue
		}
		if _, ok := seen[sale.SKU]; ok {
			continue
		}
		seen[sale.SKU] = struct{}{}
		codes = append(codes, sale.SKU)
	}

	if len(codes) == 0 {
		return
	}

	costs, err := s.skuRepo.UnitCostsByUser(acc.UserID, codes)
	if err != nil {
		logrus.WithError(err).WithField("account_id", acc.ID).
			Warn("Falha ao buscar custos de SKU, margens ficam estimadas")
		return
	}

	for _, sale := range sales {
		if cost, ok := costs[sale.SKU]; ok && cost.IsPositive() {
			sale.RecomputeMargin(cost)
		}
	}
}

// backfill caminha o histórico para trás a partir do checkpoint, um mês por
// vez. Cada mês passa pelo planejador de janelas (intervalos densos são
// divididos antes de paginar). Para quando um mês volta vazio (histórico
// esgotado), quando alcança o limite inferior ou quando o orçamento acaba.
func (s *Service) backfill(
	ctx context.Context,
	mkt Marketplace,
	acc *domain.Account,
	req Request,
	planner *Planner,
	fetcher *Fetcher,
	enricher *Enricher,
	persister *Persister,
	lower time.Time,
	deadline time.Time,
	oldestFetched *time.Time,
	summary *AccountSummary,
) {
	checkpoint := s.resolveCheckpoint(acc, req, oldestFetched)
	if checkpoint == nil || !checkpoint.After(lower) {
		return
	}

	cursor := *checkpoint

	for cursor.After(lower) {
		if time.Until(deadline) < fetchSafetyMargin || ctx.Err() != nil {
			summary.HasMore = true
			break
		}

		windowTo := cursor.Add(-time.Second)
		windowFrom := utils.MonthStart(windowTo)
		if windowFrom.Before(lower) {
			windowFrom = lower
		}

		windows, err := planner.Plan(ctx, mkt, acc, windowFrom, windowTo)
		if err != nil {
			if accErr := s.classifyAccountFailure(acc, err, "planejamento de janelas"); accErr != nil {
				summary.HasMore = true
				return
			}
		}

		monthOrders := make([]domain.RawOrder, 0)
		for _, window := range windows {
			if time.Until(deadline) < fetchSafetyMargin {
				summary.HasMore = true
				break
			}

			orders, _, fetchErr := fetcher.FetchWindow(ctx, mkt, acc, window, deadline, 0, s.reporter(acc, "Buscando histórico"))
			if fetchErr != nil {
				if accErr := s.classifyAccountFailure(acc, fetchErr, "busca de histórico"); accErr != nil {
					summary.HasMore = true
					return
				}
			}
			monthOrders = append(monthOrders, orders...)
		}

		// Mês sem nenhum pedido: o histórico acabou
		if len(monthOrders) == 0 && !summary.HasMore {
			break
		}

		summary.Fetched += len(monthOrders)
		summary.Saved += s.processOrders(ctx, mkt, acc, enricher, persister, monthOrders)

		if oldest := oldestSoldAt(monthOrders); oldest != nil {
			summary.resumeBefore = oldest
		}

		cursor = windowFrom
	}
}

// resolveCheckpoint decide de onde o backfill retoma: o cursor explícito do
// job de continuação quando presente, senão a venda mais antiga já
// persistida, senão o pedido mais antigo buscado nesta invocação.
func (s *Service) resolveCheckpoint(acc *domain.Account, req Request, oldestFetched *time.Time) *time.Time {
	if req.ResumeBefore != nil {
		return req.ResumeBefore
	}

	oldest, err := s.saleRepo.OldestSaleDate(acc.ID)
	if err != nil {
		logrus.WithError(err).WithField("account_id", acc.ID).
			Warn("Falha ao ler checkpoint, usando o lote atual")
		return oldestFetched
	}
	if oldest != nil {
		return oldest
	}

	return oldestFetched
}

func (s *Service) historyLowerBound(acc *domain.Account, req Request) time.Time {
	if req.FullSync {
		return earliestSyncDate
	}
	if !acc.CreatedAt.IsZero() {
		return acc.CreatedAt.AddDate(-1, 0, 0)
	}
	return earliestSyncDate
}

func (s *Service) enqueueContinuations(accounts []*domain.Account, response *Response, req Request) bool {
	triggered := false

	for i := range response.Accounts {
		summary := &response.Accounts[i]
		if !summary.HasMore {
			continue
		}

		acc := findAccount(accounts, summary.AccountID)
		if acc == nil {
			continue
		}

		job := &domain.SyncJob{
			AccountID:    acc.ID,
			UserID:       acc.UserID,
			Platform:     acc.Platform,
			FullSync:     req.FullSync,
			QuickMode:    req.QuickMode,
			ResumeBefore: summary.resumeBefore,
			RunAfter:     s.now().Add(5 * time.Second),
		}

		if err := s.jobRepo.Enqueue(job); err != nil {
			logrus.WithError(err).WithField("account_id", acc.ID).
				Error("Falha ao enfileirar continuação da sincronização")
			continue
		}

		triggered = true

		s.publish(acc.UserID, domain.ProgressEvent{
			Type:            domain.ProgressSyncContinue,
			Message:         "Histórico pendente, continuação agendada",
			AccountID:       acc.ID,
			AccountNickname: acc.Nickname,
		})
	}

	return triggered
}

// finish publica o desfecho e, quando não há continuação pendente, derruba
// os assinantes de progresso de cada dono envolvido.
func (s *Service) finish(accounts []*domain.Account, response *Response) {
	owners := make(map[int]struct{})
	for _, acc := range accounts {
		owners[acc.UserID] = struct{}{}
	}

	for ownerID := range owners {
		if response.HasMoreToSync {
			continue
		}

		s.publish(ownerID, domain.ProgressEvent{
			Type:    domain.ProgressSyncComplete,
			Message: fmt.Sprintf("Sincronização concluída: %d venda(s) salvas", response.Totals.Saved),
			Current: response.Totals.Saved,
			Total:   response.Totals.Expected,
		})
		s.progress.CloseOwner(ownerID)
	}
}

func (s *Service) reporter(acc *domain.Account, message string) ReportFunc {
	return func(current, total int) {
		s.publish(acc.UserID, domain.ProgressEvent{
			Type:            domain.ProgressSyncProgress,
			Message:         message,
			Current:         current,
			Total:           total,
			AccountID:       acc.ID,
			AccountNickname: acc.Nickname,
		})
	}
}

func (s *Service) publish(ownerID int, event domain.ProgressEvent) {
	if s.progress == nil {
		return
	}
	s.progress.Publish(ownerID, event)
}

func (s *Service) markInvalid(acc *domain.Account) {
	if err := s.accountRepo.MarkInvalid(acc.ID, s.now()); err != nil {
		logrus.WithError(err).WithField("account_id", acc.ID).
			Error("Falha ao marcar conta como inválida")
	}
}

func oldestSoldAt(orders []domain.RawOrder) *time.Time {
	var oldest *time.Time
	for _, order := range orders {
		soldAt := order.SoldAt()
		if oldest == nil || soldAt.Before(*oldest) {
			oldest = &soldAt
		}
	}
	return oldest
}

func findAccount(accounts []*domain.Account, accountID string) *domain.Account {
	for _, acc := range accounts {
		if acc.ID == accountID {
			return acc
		}
	}
	return nil
}

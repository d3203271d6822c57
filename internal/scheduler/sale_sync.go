package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"
	"github.com/vendalytics/sales-sync-api/infrastructure/repository"
	"github.com/vendalytics/sales-sync-api/internal/config"
	"github.com/vendalytics/sales-sync-api/internal/domain"
	"github.com/vendalytics/sales-sync-api/internal/usecases/syncing"
)

// SaleSyncConfig representa a configuração do agendador de sincronização de vendas
type SaleSyncConfig struct {
	NightlyCron    string
	NightlyEnabled bool
	JobPollEvery   time.Duration
	JobBatchSize   int
}

// SaleSyncScheduler gerencia os dois gatilhos automáticos do motor de
// sincronização: o cron noturno, que enfileira um job por conta ativa, e o
// laço de polling que consome a fila durável de jobs (incluindo as
// continuações que o próprio motor agenda quando estoura o orçamento).
type SaleSyncScheduler struct {
	scheduler   *gocron.Scheduler
	config      SaleSyncConfig
	syncService *syncing.Service
	accountRepo repository.AccountRepository
	jobRepo     repository.SyncJobRepository
	running     bool
	runMutex    sync.Mutex
}

func NewSaleSyncScheduler(
	syncService *syncing.Service,
	accountRepo repository.AccountRepository,
	jobRepo repository.SyncJobRepository,
	appConfig *config.Config,
) *SaleSyncScheduler {
	syncConfig := SaleSyncConfig{
		NightlyCron:    appConfig.SaleSync.NightlyCron,
		NightlyEnabled: appConfig.SaleSync.NightlyEnabled,
		JobPollEvery:   appConfig.SaleSync.JobPollInterval(),
		JobBatchSize:   5,
	}

	logrus.WithFields(logrus.Fields{
		"nightly_cron":    syncConfig.NightlyCron,
		"nightly_enabled": syncConfig.NightlyEnabled,
		"job_poll_every":  syncConfig.JobPollEvery,
	}).Info("Configuração do agendador de sincronização de vendas carregada")

	return &SaleSyncScheduler{
		scheduler:   gocron.NewScheduler(time.Local),
		config:      syncConfig,
		syncService: syncService,
		accountRepo: accountRepo,
		jobRepo:     jobRepo,
	}
}

// Start agenda o cron noturno e o polling da fila de jobs, e encerra os
// dois quando o contexto for cancelado.
func (s *SaleSyncScheduler) Start(ctx context.Context) error {
	if s.config.NightlyEnabled {
		logrus.WithField("cron", s.config.NightlyCron).
			Info("Iniciando cron noturno de sincronização de vendas")

		_, err := s.scheduler.Cron(s.config.NightlyCron).Do(func() {
			s.enqueueActiveAccounts()
		})
		if err != nil {
			return fmt.Errorf("erro ao agendar sincronização noturna de vendas: %w", err)
		}
	} else {
		logrus.Info("Sincronização noturna de vendas desabilitada por configuração")
	}

	_, err := s.scheduler.Every(s.config.JobPollEvery).Do(func() {
		s.drainJobQueue(ctx)
	})
	if err != nil {
		return fmt.Errorf("erro ao agendar polling da fila de sincronização: %w", err)
	}

	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		logrus.Info("Parando agendador de sincronização de vendas")
		s.scheduler.Stop()
	}()

	return nil
}

// enqueueActiveAccounts enfileira um job de sincronização por conta ativa.
// O trabalho pesado fica todo no laço de polling: o cron só semeia a fila,
// então uma execução longa nunca atrasa o disparo seguinte.
func (s *SaleSyncScheduler) enqueueActiveAccounts() {
	accounts, err := s.accountRepo.ListActive()
	if err != nil {
		logrus.WithError(err).Error("Erro ao buscar contas ativas para sincronização noturna")
		return
	}

	if len(accounts) == 0 {
		logrus.Info("Nenhuma conta ativa para a sincronização noturna")
		return
	}

	enqueued := 0
	for _, account := range accounts {
		// Modo rápido: a rodada noturna prioriza o dado fresco de todas
		// as contas; o histórico pendente segue pelas continuações.
		job := &domain.SyncJob{
			AccountID: account.ID,
			UserID:    account.UserID,
			Platform:  account.Platform,
			QuickMode: true,
		}

		if err := s.jobRepo.Enqueue(job); err != nil {
			logrus.WithError(err).WithField("account_id", account.ID).
				Error("Erro ao enfileirar sincronização noturna da conta")
			continue
		}
		enqueued++
	}

	logrus.WithField("jobs", enqueued).Info("Sincronização noturna enfileirada")
}

// drainJobQueue consome os jobs vencidos da fila, um por vez. Cada job é
// uma invocação completa do motor, com orçamento próprio; se sobrar
// trabalho o motor enfileira a própria continuação.
func (s *SaleSyncScheduler) drainJobQueue(ctx context.Context) {
	s.runMutex.Lock()
	if s.running {
		s.runMutex.Unlock()
		return
	}
	s.running = true
	s.runMutex.Unlock()

	defer func() {
		s.runMutex.Lock()
		s.running = false
		s.runMutex.Unlock()
	}()

	jobs, err := s.jobRepo.DuePending(s.config.JobBatchSize)
	if err != nil {
		logrus.WithError(err).Error("Erro ao buscar jobs de sincronização pendentes")
		return
	}

	for _, job := range jobs {
		if ctx.Err() != nil {
			return
		}

		s.runJob(ctx, job)
	}
}

func (s *SaleSyncScheduler) runJob(ctx context.Context, job *domain.SyncJob) {
	if err := s.jobRepo.MarkRunning(job.ID); err != nil {
		logrus.WithError(err).WithField("job_id", job.ID).
			Error("Erro ao marcar job de sincronização como em execução")
		return
	}

	logrus.WithFields(logrus.Fields{
		"job_id":     job.ID,
		"account_id": job.AccountID,
		"platform":   job.Platform,
	}).Info("Executando job de sincronização de vendas")

	response, err := s.syncService.Sync(ctx, syncing.Request{
		UserID:       job.UserID,
		AccountIDs:   []string{job.AccountID},
		FullSync:     job.FullSync,
		QuickMode:    job.QuickMode,
		ResumeBefore: job.ResumeBefore,
	})
	if err != nil {
		logrus.WithError(err).WithField("job_id", job.ID).
			Error("Job de sincronização de vendas falhou")

		if markErr := s.jobRepo.MarkFailed(job.ID); markErr != nil {
			logrus.WithError(markErr).WithField("job_id", job.ID).
				Error("Erro ao marcar job de sincronização como falho")
		}
		return
	}

	if err := s.jobRepo.MarkDone(job.ID); err != nil {
		logrus.WithError(err).WithField("job_id", job.ID).
			Error("Erro ao marcar job de sincronização como concluído")
	}

	logrus.WithFields(logrus.Fields{
		"job_id":       job.ID,
		"account_id":   job.AccountID,
		"fetched":      response.Totals.Fetched,
		"saved":        response.Totals.Saved,
		"has_more":     response.HasMoreToSync,
		"continuation": response.AutoSyncTriggered,
	}).Info("Job de sincronização de vendas concluído")
}

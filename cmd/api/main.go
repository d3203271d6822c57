package main

import (
	"context"
	"os"
	"path"
	"runtime"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vendalytics/sales-sync-api/infrastructure/database/postgres"
	"github.com/vendalytics/sales-sync-api/infrastructure/integrator/meli"
	"github.com/vendalytics/sales-sync-api/infrastructure/integrator/meli/meliclient"
	"github.com/vendalytics/sales-sync-api/infrastructure/integrator/shopee"
	"github.com/vendalytics/sales-sync-api/infrastructure/integrator/shopee/shopeeclient"
	"github.com/vendalytics/sales-sync-api/infrastructure/repository"
	"github.com/vendalytics/sales-sync-api/internal/api"
	"github.com/vendalytics/sales-sync-api/internal/auth"
	"github.com/vendalytics/sales-sync-api/internal/config"
	"github.com/vendalytics/sales-sync-api/internal/progress"
	"github.com/vendalytics/sales-sync-api/internal/scheduler"
	"github.com/vendalytics/sales-sync-api/internal/usecases/syncing"
)

func main() {
	configureLogger()

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}

	logLevel, err := logrus.ParseLevel(cfg.App.LogLevel)
	if err != nil {
		logrus.Warnf("Nível de log inválido: %s, usando 'info'", cfg.App.LogLevel)
		logLevel = logrus.InfoLevel
	}
	logrus.SetLevel(logLevel)
	logrus.Infof("Nível de log configurado para: %s", logLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pgConn := pgconn(ctx, cfg.Database)
	defer pgConn.Close()

	accountRepo := repository.NewAccountRepository(pgConn)
	saleRepo := repository.NewSaleRepository(pgConn)
	skuRepo := repository.NewSKURepository(pgConn)
	jobRepo := repository.NewSyncJobRepository(pgConn)

	meliClient := meliclient.NewClient(cfg.Meli)
	meliIntegrator := meli.New(cfg, meliClient)

	shopeeClient := shopeeclient.NewClient(cfg.Shopee)
	shopeeIntegrator := shopee.New(cfg, shopeeClient)

	progressBroker := progress.NewBroker()

	syncService := syncing.NewService(
		cfg.SaleSync,
		[]syncing.Marketplace{meliIntegrator, shopeeIntegrator},
		accountRepo,
		saleRepo,
		skuRepo,
		jobRepo,
		progressBroker,
	)

	saleSyncScheduler := scheduler.NewSaleSyncScheduler(syncService, accountRepo, jobRepo, cfg)
	if err := saleSyncScheduler.Start(ctx); err != nil {
		logrus.WithError(err).Error("Erro ao iniciar o agendador de sincronização de vendas")
	} else {
		logrus.Info("Agendador de sincronização de vendas iniciado com sucesso")
	}

	tokenValidator := auth.NewService(cfg.Auth.Secret)

	server, err := api.New(
		cfg,
		syncService,
		progressBroker,
		accountRepo,
		tokenValidator,
	)
	if err != nil {
		logrus.Fatal(err)
	}

	if err := server.Run(ctx); err != nil {
		logrus.Error(err)
	}
}

// configureLogger configura o formato e comportamento dos logs
func configureLogger() {
	_, file, _, _ := runtime.Caller(0)
	dir := path.Dir(file)
	os.Chdir(dir)

	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
}

// pgconn cria uma conexão com o banco de dados
func pgconn(ctx context.Context, dbConfig config.Database) *postgres.Connection {
	conn, err := postgres.NewConnection(ctx, dbConfig)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao conectar ao PostgreSQL")
	}

	if err := conn.Ping(ctx); err != nil {
		logrus.WithError(err).Fatal("Erro ao testar conexão com PostgreSQL")
	}

	logrus.Info("Conexão com PostgreSQL estabelecida com sucesso")
	return conn
}

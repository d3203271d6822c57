package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	App      App      `mapstructure:",squash"`
	Server   Server   `mapstructure:",squash"`
	Database Database `mapstructure:",squash"`
	Auth     Auth     `mapstructure:",squash"`
	Meli     Meli     `mapstructure:",squash"`
	Shopee   Shopee   `mapstructure:",squash"`
	SaleSync SaleSync `mapstructure:",squash"`
}

type App struct {
	LogLevel string `mapstructure:"log_level"`
}

type Server struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
}

type Database struct {
	DSN      string `mapstructure:"-"`
	Driver   string `mapstructure:"database_driver"`
	Password string `mapstructure:"database_password"`
	URL      string `mapstructure:"database_url"`
	User     string `mapstructure:"database_user"`
}

type Auth struct {
	Secret     string `mapstructure:"auth_secret"`
	CronSecret string `mapstructure:"cron_secret"`
}

type Meli struct {
	URL            string `mapstructure:"meli_url"`
	AppID          string `mapstructure:"meli_app_id"`
	AppSecret      string `mapstructure:"meli_app_secret"`
	RedirectURI    string `mapstructure:"meli_redirect_uri"`
	SiteID         string `mapstructure:"meli_site_id"`
	TimeoutSeconds int    `mapstructure:"meli_http_timeout_seconds"`
}

type Shopee struct {
	URL            string `mapstructure:"shopee_url"`
	PartnerID      int64  `mapstructure:"shopee_partner_id"`
	PartnerKey     string `mapstructure:"shopee_partner_key"`
	TimeoutSeconds int    `mapstructure:"shopee_http_timeout_seconds"`
}

// SaleSync reúne os parâmetros de orçamento e concorrência do motor de
// sincronização. Os valores padrão reproduzem os limites praticados em
// produção; só ajustar se a API do marketplace mudar de comportamento.
type SaleSync struct {
	NightlyCron          string `mapstructure:"sale_sync_nightly_cron"`
	NightlyEnabled       bool   `mapstructure:"sale_sync_nightly_enabled"`
	JobPollSeconds       int    `mapstructure:"sale_sync_job_poll_seconds"`
	InvocationBudgetSecs int    `mapstructure:"sale_sync_invocation_budget_seconds"`
	FetchBudgetSecs      int    `mapstructure:"sale_sync_fetch_budget_seconds"`
	PageSize             int    `mapstructure:"sale_sync_page_size"`
	PageConcurrency      int    `mapstructure:"sale_sync_page_concurrency"`
	EnrichBatchSize      int    `mapstructure:"sale_sync_enrich_batch_size"`
	PersistBatchSize     int    `mapstructure:"sale_sync_persist_batch_size"`
	RecentOrdersCap      int    `mapstructure:"sale_sync_recent_orders_cap"`
	MaxRetryAttempts     int    `mapstructure:"sale_sync_max_retry_attempts"`
	RetryBaseDelayMs     int    `mapstructure:"sale_sync_retry_base_delay_ms"`
}

func SetDefaults() {
	viper.SetDefault("HOST", "localhost")
	viper.SetDefault("PORT", 8000)

	viper.SetDefault("DATABASE_DRIVER", "postgres")
	viper.SetDefault("DATABASE_URL", "localhost:5432/vendalytics")
	viper.SetDefault("DATABASE_USER", "postgres")
	viper.SetDefault("DATABASE_PASSWORD", "root")

	viper.SetDefault("AUTH_SECRET", "your_auth_secret")
	viper.SetDefault("CRON_SECRET", "")

	viper.SetDefault("MELI_URL", "https://api.mercadolibre.com")
	viper.SetDefault("MELI_APP_ID", "your_app_id")
	viper.SetDefault("MELI_APP_SECRET", "your_app_secret")
	viper.SetDefault("MELI_REDIRECT_URI", "")
	viper.SetDefault("MELI_SITE_ID", "MLB")
	viper.SetDefault("MELI_HTTP_TIMEOUT_SECONDS", 25)

	viper.SetDefault("SHOPEE_URL", "https://partner.shopeemobile.com")
	viper.SetDefault("SHOPEE_PARTNER_ID", 0)
	viper.SetDefault("SHOPEE_PARTNER_KEY", "your_partner_key")
	viper.SetDefault("SHOPEE_HTTP_TIMEOUT_SECONDS", 25)

	// Defaults do motor de sincronização de vendas
	viper.SetDefault("SALE_SYNC_NIGHTLY_CRON", "0 3 * * *") // Todos os dias às 3h da manhã
	viper.SetDefault("SALE_SYNC_NIGHTLY_ENABLED", false)
	viper.SetDefault("SALE_SYNC_JOB_POLL_SECONDS", 5)
	viper.SetDefault("SALE_SYNC_INVOCATION_BUDGET_SECONDS", 55)
	viper.SetDefault("SALE_SYNC_FETCH_BUDGET_SECONDS", 30)
	viper.SetDefault("SALE_SYNC_PAGE_SIZE", 50)
	viper.SetDefault("SALE_SYNC_PAGE_CONCURRENCY", 2)
	viper.SetDefault("SALE_SYNC_ENRICH_BATCH_SIZE", 10)
	viper.SetDefault("SALE_SYNC_PERSIST_BATCH_SIZE", 50)
	viper.SetDefault("SALE_SYNC_RECENT_ORDERS_CAP", 100)
	viper.SetDefault("SALE_SYNC_MAX_RETRY_ATTEMPTS", 3)
	viper.SetDefault("SALE_SYNC_RETRY_BASE_DELAY_MS", 1000)

	viper.SetDefault("LOG_LEVEL", "debug")
}

func NewConfig() (*Config, error) {
	// Primeiro carregar o arquivo .env usando godotenv
	loadEnvFile() // ONLY LOCAL

	config := &Config{}

	SetDefaults()

	viper.SetConfigType("env")
	viper.SetConfigFile(".env")
	viper.AutomaticEnv() // Isso permite que o Viper leia variáveis de ambiente

	if err := viper.ReadInConfig(); err != nil {
		logrus.Info("Usando variáveis carregadas pelo godotenv (viper não conseguiu ler .env):", err)
	} else {
		logrus.Info("Arquivo .env lido pelo Viper com sucesso")
	}

	err := viper.Unmarshal(&config, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return nil, err
	}

	config.Database.DSN = fmt.Sprintf(
		"%s://%s:%s@%s",
		config.Database.Driver,
		config.Database.User,
		config.Database.Password,
		config.Database.URL,
	)

	return config, nil
}

// Timeout retorna o timeout HTTP do cliente Mercado Livre.
func (m Meli) Timeout() time.Duration {
	return time.Duration(m.TimeoutSeconds) * time.Second
}

// Timeout retorna o timeout HTTP do cliente Shopee.
func (s Shopee) Timeout() time.Duration {
	return time.Duration(s.TimeoutSeconds) * time.Second
}

// InvocationBudget retorna o orçamento total de uma invocação do orquestrador.
func (s SaleSync) InvocationBudget() time.Duration {
	return time.Duration(s.InvocationBudgetSecs) * time.Second
}

// FetchBudget retorna o sub-orçamento reservado à fase de busca de páginas.
func (s SaleSync) FetchBudget() time.Duration {
	return time.Duration(s.FetchBudgetSecs) * time.Second
}

// RetryBaseDelay retorna o atraso base da política de retry exponencial.
func (s SaleSync) RetryBaseDelay() time.Duration {
	return time.Duration(s.RetryBaseDelayMs) * time.Millisecond
}

func (s SaleSync) JobPollInterval() time.Duration {
	return time.Duration(s.JobPollSeconds) * time.Second
}

func loadEnvFile() {
	// Tentar carregar .env do diretório atual
	if err := godotenv.Load(); err == nil {
		logrus.Info("Arquivo .env carregado do diretório atual")
		return
	}

	// Tentar carregar .env do diretório do executável
	if execPath, err := os.Executable(); err == nil {
		envPath := filepath.Join(filepath.Dir(execPath), ".env")
		if err := godotenv.Load(envPath); err == nil {
			logrus.Info("Arquivo .env carregado de: ", envPath)
			return
		}
	}

	logrus.Info("Arquivo .env não encontrado, usando variáveis de ambiente do sistema")
}

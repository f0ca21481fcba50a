package config

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

const (
	StoreFile     = "file"
	StorePostgres = "postgres"
)

type Config struct {
	TelegramBotToken    string `env:"TELEGRAM_BOT_TOKEN,required"`
	TelegramChatID      int64  `env:"TELEGRAM_CHAT_ID,required"`
	TelegramPollTimeout int    `env:"TELEGRAM_POLL_TIMEOUT,default=60"`

	EthRPCAPIKey  string        `env:"ETH_RPC_API_KEY,required"`
	EthRPCBaseURL string        `env:"ETH_RPC_BASE_URL,default=https://mainnet.infura.io/v3/"`
	EthRPCTimeout time.Duration `env:"ETH_RPC_TIMEOUT,default=10s"`

	ThresholdsFile      string `env:"THRESHOLDS_FILE,required"`
	ThresholdStore      string `env:"THRESHOLD_STORE,default=file"`
	DefaultThresholdWei string `env:"DEFAULT_THRESHOLD_WEI,default=100000000"`

	AlertsEnabled      bool          `env:"ALERTS_ENABLED,default=true"`
	AlertCheckInterval time.Duration `env:"ALERT_CHECK_INTERVAL,default=1m"`

	DBHost            string        `env:"DB_HOST"`
	DBPort            int           `env:"DB_PORT,default=5432"`
	DBUser            string        `env:"DB_USER"`
	DBPassword        string        `env:"DB_PASSWORD"`
	DBName            string        `env:"DB_NAME"`
	DBSSLMode         string        `env:"DB_SSLMODE,default=disable"`
	DBMaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS,default=2"`
	DBMaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS,default=5"`
	DBConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME,default=30m"`

	LogLevel string `env:"LOG_LEVEL,default=info"`
}

func Load(ctx context.Context) (Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: lookuper}); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.ThresholdStore {
	case StoreFile:
	case StorePostgres:
		var missing []string
		if c.DBHost == "" {
			missing = append(missing, "DB_HOST")
		}
		if c.DBUser == "" {
			missing = append(missing, "DB_USER")
		}
		if c.DBName == "" {
			missing = append(missing, "DB_NAME")
		}
		if len(missing) > 0 {
			return fmt.Errorf("postgres threshold store requires %s", strings.Join(missing, ", "))
		}
	default:
		return fmt.Errorf("unknown THRESHOLD_STORE %q (want %s or %s)", c.ThresholdStore, StoreFile, StorePostgres)
	}

	if _, err := c.DefaultThreshold(); err != nil {
		return err
	}
	if c.AlertsEnabled && c.AlertCheckInterval <= 0 {
		return errors.New("ALERT_CHECK_INTERVAL must be positive")
	}
	if c.EthRPCTimeout <= 0 {
		return errors.New("ETH_RPC_TIMEOUT must be positive")
	}
	return nil
}

func (c Config) DefaultThreshold() (*big.Int, error) {
	wei, ok := new(big.Int).SetString(strings.TrimSpace(c.DefaultThresholdWei), 10)
	if !ok || wei.Sign() <= 0 {
		return nil, fmt.Errorf("DEFAULT_THRESHOLD_WEI must be a positive integer, got %q", c.DefaultThresholdWei)
	}
	return wei, nil
}

func (c Config) EthRPCURL() string {
	return c.EthRPCBaseURL + c.EthRPCAPIKey
}

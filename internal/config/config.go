package config

import (
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/tooba16/real-states/internal/utils"
)

// Config holds everything the engine reads from the environment. It is
// built once at startup and injected; nothing here is lazily initialized.
type Config struct {
	AppName string `env:"APP_NAME" envDefault:"inventory-core"`

	DBUrl string `env:"DATABASE_URL,required"`

	DefaultHoldTTL   time.Duration `env:"DEFAULT_HOLD_TTL" envDefault:"168h"`
	MaxHoldExtension time.Duration `env:"MAX_HOLD_EXTENSION" envDefault:"336h"`

	TransferFeePercent float64 `env:"TRANSFER_FEE_PERCENT" envDefault:"2.0"`

	MaxProjectsDefault int `env:"MAX_PROJECTS_DEFAULT" envDefault:"10"`

	// LockTimeout bounds each storage transaction; on expiry the operation
	// surfaces a retryable busy error instead of blocking.
	LockTimeout time.Duration `env:"LOCK_TIMEOUT" envDefault:"5s"`

	ExpirySweepSchedule string `env:"EXPIRY_SWEEP_CRON" envDefault:"@every 1m"`

	SeedDevData bool `env:"SEED_DEV_DATA" envDefault:"false"`
}

func LoadConfig() *Config {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		utils.Logger.WithError(err).Fatal("Failed to parse environment config")
	}
	return cfg
}

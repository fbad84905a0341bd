package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v6"

	"valuecraft/server/internal/valuation"
)

type Config struct {
	Server struct {
		Port string `env:"PORT" envDefault:"5250"`

		// Path to the sqlite database holding analysis records
		DBPath string `env:"DB_PATH" envDefault:"database/valuecraft.db"`

		CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"http://localhost:5173"`

		LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	}

	// Valuation constants, overridable per field
	Valuation valuation.Heuristics `envPrefix:"VALUATION_"`

	// Optional JSON or Hjson file applied over the env heuristics
	HeuristicsFile string `env:"HEURISTICS_FILE"`

	Providers struct {
		CompsURL         string `env:"PROVIDER_COMPS_URL"`
		VerifiedSalesURL string `env:"PROVIDER_VERIFIED_SALES_URL"`
		PublicRecordsURL string `env:"PROVIDER_PUBLIC_RECORDS_URL"`
		TrendURL         string `env:"PROVIDER_TREND_URL"`
		EnrichmentURL    string `env:"PROVIDER_ENRICHMENT_URL"`
		ConditionURL     string `env:"PROVIDER_CONDITION_URL"`

		Timeout time.Duration `env:"PROVIDER_TIMEOUT" envDefault:"45s"`

		CacheEnabled bool          `env:"PROVIDER_CACHE_ENABLED" envDefault:"true"`
		CacheDir     string        `env:"PROVIDER_CACHE_DIR" envDefault:"cache"`
		CacheTTL     time.Duration `env:"PROVIDER_CACHE_TTL" envDefault:"24h"`

		// Default search radius for comparable sales, 0 disables filtering
		CompRadiusMiles float64 `env:"COMP_RADIUS_MILES" envDefault:"0"`
	}

	BatchProcessing struct {
		// Number of record batches the queue buffers
		QueueSize int `env:"BATCH_QUEUE_SIZE" envDefault:"100"`

		// Number of concurrent batch processors
		ProcessorCount int `env:"BATCH_PROCESSOR_COUNT" envDefault:"2"`

		// Maximum number of retries for failed batches
		MaxRetries int `env:"BATCH_MAX_RETRIES" envDefault:"3"`

		// Delay between retries in seconds
		RetryDelay int `env:"BATCH_RETRY_DELAY" envDefault:"5"`
	}

	Maintenance struct {
		Interval time.Duration `env:"MAINTENANCE_INTERVAL" envDefault:"1h"`

		// Analyses older than this are deleted, 0 keeps everything
		AnalysisRetention time.Duration `env:"ANALYSIS_RETENTION" envDefault:"0"`
	}
}

func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	if cfg.HeuristicsFile != "" {
		h, err := LoadHeuristicsFile(cfg.HeuristicsFile, cfg.Valuation)
		if err != nil {
			return nil, err
		}
		cfg.Valuation = h
	}
	if err := cfg.Valuation.Validate(); err != nil {
		return nil, fmt.Errorf("invalid valuation heuristics: %w", err)
	}
	return cfg, nil
}

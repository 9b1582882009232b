package config

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/dhg/docflow/internal/core/domain"
)

type Config struct {
	LogLevel string

	PostgresDSN      string
	DriveAccessToken string
	DriveBaseURL     string
	LLMAPIKey        string
	LLMBaseURL       string
	LLMModel         string

	NATSURL     string
	NATSSubject string

	ExtractBatchSize    int
	ClassifyBatchSize   int
	PromotionWindowDays int
	ClassifyRatePerSec  float64

	WorkerMetricsPort string

	PipelineConfigPath string
}

// Load reads the environment. The three credentials are hard requirements:
// a missing one aborts startup with every absent variable named, so an
// operator fixes them all in one pass.
func Load() (Config, error) {
	var missing []string
	require := func(key string) string {
		v := strings.TrimSpace(os.Getenv(key))
		if v == "" {
			missing = append(missing, key)
		}
		return v
	}

	cfg := Config{
		LogLevel: envOr("LOG_LEVEL", "info"),

		PostgresDSN:      require("POSTGRES_DSN"),
		DriveAccessToken: require("DRIVE_ACCESS_TOKEN"),
		DriveBaseURL:     envOr("DRIVE_BASE_URL", "https://www.googleapis.com/drive/v3"),
		LLMAPIKey:        require("LLM_API_KEY"),
		LLMBaseURL:       envOr("LLM_BASE_URL", "https://api.anthropic.com"),
		LLMModel:         envOr("LLM_MODEL", "claude-3-5-sonnet-latest"),

		NATSURL:     envOr("NATS_URL", "nats://localhost:4222"),
		NATSSubject: envOr("NATS_SUBJECT", "documents.classify"),

		ExtractBatchSize:    envOrInt("EXTRACT_BATCH_SIZE", 100),
		ClassifyBatchSize:   envOrInt("CLASSIFY_BATCH_SIZE", 50),
		PromotionWindowDays: envOrInt("PROMOTION_WINDOW_DAYS", 30),
		ClassifyRatePerSec:  envOrFloat("CLASSIFY_RATE_PER_SEC", 0.5),

		WorkerMetricsPort: envOr("WORKER_METRICS_PORT", "9090"),

		PipelineConfigPath: os.Getenv("PIPELINE_CONFIG"),
	}

	if len(missing) > 0 {
		sort.Strings(missing)
		return Config{}, domain.WrapError(
			domain.ErrConfig,
			"load environment",
			fmt.Errorf("missing required variables: %s", strings.Join(missing, ", ")),
		)
	}
	return cfg, nil
}

func envOr(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func envOrInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func envOrFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}

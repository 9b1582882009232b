package config

import (
	"strings"
	"testing"

	"github.com/dhg/docflow/internal/core/domain"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("POSTGRES_DSN", "postgres://localhost/docflow")
	t.Setenv("DRIVE_ACCESS_TOKEN", "tok")
	t.Setenv("LLM_API_KEY", "key")
}

func TestLoadReportsAllMissingVariables(t *testing.T) {
	t.Setenv("POSTGRES_DSN", "")
	t.Setenv("DRIVE_ACCESS_TOKEN", "")
	t.Setenv("LLM_API_KEY", "key")

	_, err := Load()
	if !domain.IsKind(err, domain.ErrConfig) {
		t.Fatalf("expected ErrConfig, got %v", err)
	}
	msg := err.Error()
	for _, want := range []string{"DRIVE_ACCESS_TOKEN", "POSTGRES_DSN"} {
		if !strings.Contains(msg, want) {
			t.Errorf("error must name %s, got %q", want, msg)
		}
	}
	if strings.Contains(msg, "LLM_API_KEY") {
		t.Errorf("error must not name variables that are set: %q", msg)
	}
}

func TestLoadAppliesDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.DriveBaseURL != "https://www.googleapis.com/drive/v3" {
		t.Errorf("unexpected drive base url %q", cfg.DriveBaseURL)
	}
	if cfg.NATSSubject != "documents.classify" {
		t.Errorf("unexpected nats subject %q", cfg.NATSSubject)
	}
	if cfg.ExtractBatchSize != 100 || cfg.ClassifyBatchSize != 50 {
		t.Errorf("unexpected batch sizes %d/%d", cfg.ExtractBatchSize, cfg.ClassifyBatchSize)
	}
	if cfg.PromotionWindowDays != 30 {
		t.Errorf("unexpected promotion window %d", cfg.PromotionWindowDays)
	}
	if cfg.ClassifyRatePerSec != 0.5 {
		t.Errorf("unexpected classify rate %v", cfg.ClassifyRatePerSec)
	}
}

func TestLoadReadsOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("EXTRACT_BATCH_SIZE", "25")
	t.Setenv("CLASSIFY_RATE_PER_SEC", "2.5")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.ExtractBatchSize != 25 || cfg.ClassifyRatePerSec != 2.5 || cfg.LogLevel != "debug" {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
}

func TestLoadFallsBackOnUnparsableNumbers(t *testing.T) {
	setRequired(t)
	t.Setenv("EXTRACT_BATCH_SIZE", "not-a-number")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.ExtractBatchSize != 100 {
		t.Fatalf("expected default batch size, got %d", cfg.ExtractBatchSize)
	}
}

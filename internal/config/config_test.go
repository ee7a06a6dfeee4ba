package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.CSFloatBaseURL != "https://csfloat.com/api/v1" {
		t.Fatalf("unexpected csfloat base url: %s", cfg.CSFloatBaseURL)
	}
	if cfg.BatchSize != 5 {
		t.Fatalf("expected default batch size 5, got %d", cfg.BatchSize)
	}
	if cfg.BatchPause != time.Second {
		t.Fatalf("expected default batch pause 1s, got %v", cfg.BatchPause)
	}
	if cfg.ManualPause != 10*time.Second {
		t.Fatalf("expected default manual pause 10s, got %v", cfg.ManualPause)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PRICE_BATCH_SIZE", "10")
	t.Setenv("PRICE_BATCH_PAUSE", "250ms")
	t.Setenv("CRON_SECRET", "s3cret")
	t.Setenv("PRICE_UPDATE_SCHEDULE", "0 12 * * *")

	cfg := Load()

	if cfg.BatchSize != 10 {
		t.Fatalf("expected batch size 10, got %d", cfg.BatchSize)
	}
	if cfg.BatchPause != 250*time.Millisecond {
		t.Fatalf("expected batch pause 250ms, got %v", cfg.BatchPause)
	}
	if cfg.CronSecret != "s3cret" {
		t.Fatalf("expected cron secret override, got %q", cfg.CronSecret)
	}
	if cfg.PriceUpdateSchedule != "0 12 * * *" {
		t.Fatalf("expected schedule override, got %q", cfg.PriceUpdateSchedule)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("PRICE_BATCH_SIZE", "-3")
	t.Setenv("PRICE_BATCH_PAUSE", "soon")

	cfg := Load()

	if cfg.BatchSize != 5 {
		t.Fatalf("expected fallback batch size 5, got %d", cfg.BatchSize)
	}
	if cfg.BatchPause != time.Second {
		t.Fatalf("expected fallback pause 1s, got %v", cfg.BatchPause)
	}
}

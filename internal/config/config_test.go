package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATA_SOURCE", "")
	t.Setenv("POLL_INTERVAL", "")
	t.Setenv("EXPORT_BASE_URL", "")
	t.Setenv("KILIMO_BASE_URL", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DataSource != DataSourceMock {
		t.Fatalf("expected mock data source, got %q", cfg.DataSource)
	}
	if cfg.Worker.PollInterval != 5*time.Minute {
		t.Fatalf("expected 5m poll interval, got %v", cfg.Worker.PollInterval)
	}
	if cfg.Market.HighlightsSize != 3 || cfg.Market.TopSellingLimit != 3 {
		t.Fatalf("unexpected market defaults: %+v", cfg.Market)
	}
	if cfg.Market.ExportBaseURL != "https://statistics.kilimo.go.ke/api/v1" {
		t.Fatalf("export base should default to kilimo base, got %q", cfg.Market.ExportBaseURL)
	}
}

func TestLoadPostgresRequiresDB(t *testing.T) {
	t.Setenv("DATA_SOURCE", "postgres")
	t.Setenv("DB_HOST", "")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for incomplete database config")
	}

	t.Setenv("DB_HOST", "localhost")
	t.Setenv("DB_USER", "kilimo")
	t.Setenv("DB_NAME", "kilimo")
	if _, err := Load(); err != nil {
		t.Fatalf("load: %v", err)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	cases := map[string][2]string{
		"unknown source": {"DATA_SOURCE", "sqlite"},
		"bad interval":   {"POLL_INTERVAL", "soon"},
		"zero interval":  {"POLL_INTERVAL", "0s"},
		"zero highlight": {"HIGHLIGHTS_SIZE", "0"},
	}
	for name, kv := range cases {
		t.Run(name, func(t *testing.T) {
			t.Setenv(kv[0], kv[1])
			if _, err := Load(); err == nil {
				t.Fatalf("expected error for %s=%s", kv[0], kv[1])
			}
		})
	}
}

func TestSplitList(t *testing.T) {
	got := splitList(" Localhost:3000, ,example.com ")
	if len(got) != 2 || got[0] != "localhost:3000" || got[1] != "example.com" {
		t.Fatalf("unexpected list: %v", got)
	}
}

package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.HTTP.Host != "0.0.0.0" {
		t.Errorf("unexpected host %q", cfg.HTTP.Host)
	}
	if cfg.HTTP.Port != 8080 {
		t.Errorf("unexpected port %d", cfg.HTTP.Port)
	}
	if cfg.Data.CSVPath != "data/transactions.csv" {
		t.Errorf("unexpected csv path %q", cfg.Data.CSVPath)
	}
	if cfg.Data.Environment != "dev" {
		t.Errorf("unexpected environment %q", cfg.Data.Environment)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "text" {
		t.Errorf("unexpected logging config %+v", cfg.Logging)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("SERVER_HOST", "127.0.0.1")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("SERVER_READ_TIMEOUT", "5s")
	t.Setenv("SERVER_ALLOWED_ORIGINS", "http://localhost:3000")
	t.Setenv("DATA_CSV_PATH", "/data/tx.csv")
	t.Setenv("APP_ENV", "prod")
	t.Setenv("APP_VERSION", "2.1.0")
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("GRAPH_URI", "neo4j://localhost:7687")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.HTTP.Host != "127.0.0.1" || cfg.HTTP.Port != 9090 {
		t.Errorf("unexpected http config %+v", cfg.HTTP)
	}
	if cfg.HTTP.ReadTimeout != 5*time.Second {
		t.Errorf("unexpected read timeout %v", cfg.HTTP.ReadTimeout)
	}
	if cfg.HTTP.AllowedOriginsCSV != "http://localhost:3000" {
		t.Errorf("unexpected origins %q", cfg.HTTP.AllowedOriginsCSV)
	}
	if cfg.Data.CSVPath != "/data/tx.csv" || cfg.Data.Environment != "prod" || cfg.Data.Version != "2.1.0" {
		t.Errorf("unexpected data config %+v", cfg.Data)
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("unexpected log format %q", cfg.Logging.Format)
	}
	if cfg.Graph.URI != "neo4j://localhost:7687" {
		t.Errorf("unexpected graph uri %q", cfg.Graph.URI)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Run("bad environment", func(t *testing.T) {
		t.Setenv("APP_ENV", "staging")
		if _, err := Load(); err == nil {
			t.Fatal("expected error for unknown APP_ENV")
		}
	})

	t.Run("bad port", func(t *testing.T) {
		t.Setenv("SERVER_PORT", "99999")
		if _, err := Load(); err == nil {
			t.Fatal("expected error for out-of-range port")
		}
	})

	t.Run("bad timeout", func(t *testing.T) {
		t.Setenv("SERVER_WRITE_TIMEOUT", "fast")
		if _, err := Load(); err == nil {
			t.Fatal("expected error for malformed timeout")
		}
	})
}

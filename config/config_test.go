package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "key")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Model != "gemini-2.5-flash" || cfg.Addr != "0.0.0.0:9779" || cfg.DBPath != "hunter.db" {
		t.Fatalf("cfg = %+v", cfg)
	}
	if cfg.AwakeningRollDelay != 4500*time.Millisecond || cfg.ReawakeningRankDelay != 5*time.Second || cfg.GenerationTimeout != time.Minute {
		t.Fatalf("delays = %+v", cfg)
	}
}

func TestLoadRequiresAPIKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")

	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "parse env:") {
		t.Fatalf("expected parse env prefix, got %v", err)
	}
}

func TestLoadReadsDotenv(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "from-env")
	t.Setenv("DB_PATH", "")
	os.Unsetenv("DB_PATH")

	path := filepath.Join(t.TempDir(), "test.env")
	if err := os.WriteFile(path, []byte("DB_PATH=saves.db\nGEMINI_API_KEY=from-file\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Unsetenv("DB_PATH") })

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DBPath != "saves.db" {
		t.Fatalf("db path = %q", cfg.DBPath)
	}
	if cfg.APIKey != "from-env" {
		t.Fatalf("dotenv overrode the environment: %q", cfg.APIKey)
	}
}

func TestLoadRejectsBadDuration(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "key")
	t.Setenv("GENERATION_TIMEOUT", "soon")

	if _, err := Load(filepath.Join(t.TempDir(), "missing.env")); err == nil {
		t.Fatal("expected error")
	}
}

package config

import (
	"os"
	"testing"

	"github.com/spf13/viper"
)

func TestLoadDefaults(t *testing.T) {
	viper.Reset()
	chdirTemp(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("Expected port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Completion.Provider != "openai" {
		t.Errorf("Expected openai provider, got %s", cfg.Completion.Provider)
	}
	if cfg.Completion.Model != "" {
		t.Errorf("Expected provider default model, got %s", cfg.Completion.Model)
	}
	if cfg.Translation.ProxyURL != "http://localhost:8080" {
		t.Errorf("Expected proxy url to follow the port, got %s", cfg.Translation.ProxyURL)
	}
	if cfg.Translation.StrictValidation {
		t.Error("Strict validation should be off by default")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	viper.Reset()
	chdirTemp(t)
	t.Setenv("LINGUAVOX_SERVER_PORT", "9191")
	t.Setenv("LINGUAVOX_TRANSLATION_STRICT_VALIDATION", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Server.Port != 9191 {
		t.Errorf("Expected port 9191, got %d", cfg.Server.Port)
	}
	if !cfg.Translation.StrictValidation {
		t.Error("Expected strict validation from env")
	}
}

func TestCompletionKeyReadAtCallTime(t *testing.T) {
	viper.Reset()
	chdirTemp(t)
	t.Setenv("LINGUAVOX_COMPLETION_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "first")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if got := cfg.CompletionKey(); got != "first" {
		t.Fatalf("Expected key 'first', got %q", got)
	}

	t.Setenv("OPENAI_API_KEY", "rotated")
	if got := cfg.CompletionKey(); got != "rotated" {
		t.Errorf("Expected rotated key, got %q", got)
	}
}

// chdirTemp moves into an empty directory so no config_dev.yaml is picked up.
func chdirTemp(t *testing.T) {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

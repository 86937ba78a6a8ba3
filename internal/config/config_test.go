package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":8080" || cfg.DBPath != "brdstudio.db" {
		t.Errorf("unexpected defaults %+v", cfg)
	}
	if time.Duration(cfg.SuggestionTimeout) != 5*time.Minute {
		t.Errorf("unexpected default timeout %v", cfg.SuggestionTimeout)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `addr: ":9090"
db_path: /var/lib/brdstudio/brd.db
ollama_base_url: http://ollama.internal:11434
suggestion_timeout: 30s
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":9090" {
		t.Errorf("addr not overridden: %q", cfg.Addr)
	}
	if cfg.DBPath != "/var/lib/brdstudio/brd.db" {
		t.Errorf("db_path not overridden: %q", cfg.DBPath)
	}
	if cfg.OllamaBaseURL != "http://ollama.internal:11434" {
		t.Errorf("ollama_base_url not overridden: %q", cfg.OllamaBaseURL)
	}
	if time.Duration(cfg.SuggestionTimeout) != 30*time.Second {
		t.Errorf("suggestion_timeout not overridden: %v", cfg.SuggestionTimeout)
	}
	if cfg.RPCSocket != "/tmp/brdstudio.sock" {
		t.Errorf("untouched field lost its default: %q", cfg.RPCSocket)
	}
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("addr: [broken"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected malformed config to fail")
	}
}

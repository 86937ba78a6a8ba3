// Package config loads the server configuration from a YAML file.
// Every field has a working default so the server runs with no file at
// all; command-line flags override whatever the file says.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration accepts Go duration strings ("30s", "5m") in YAML.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var raw string
	if err := node.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

type Config struct {
	Addr              string   `yaml:"addr"`
	RPCSocket         string   `yaml:"rpc_socket"`
	DBPath            string   `yaml:"db_path"`
	ExportsDir        string   `yaml:"exports_dir"`
	OllamaBaseURL     string   `yaml:"ollama_base_url"`
	SuggestionTimeout Duration `yaml:"suggestion_timeout"`
}

func Default() Config {
	return Config{
		Addr:              ":8080",
		RPCSocket:         "/tmp/brdstudio.sock",
		DBPath:            "brdstudio.db",
		ExportsDir:        "exports",
		OllamaBaseURL:     "http://localhost:11434",
		SuggestionTimeout: Duration(5 * time.Minute),
	}
}

// Load reads the YAML file at path on top of the defaults. A missing
// file is not an error; a malformed one is.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}

	if cfg.SuggestionTimeout <= 0 {
		cfg.SuggestionTimeout = Duration(5 * time.Minute)
	}
	return cfg, nil
}

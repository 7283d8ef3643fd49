package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	defaultURL     = "http://localhost:8081"
	defaultPerPage = 10
)

// config is read from the YAML file, then BACKOFFICE_URL and
// BACKOFFICE_TOKEN_FILE override it.
type config struct {
	URL       string `yaml:"url"`
	TokenFile string `yaml:"token_file"`
	PerPage   int    `yaml:"per_page"`
}

func configDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "."
	}
	return filepath.Join(dir, "backoffice")
}

func defaultConfigPath() string { return filepath.Join(configDir(), "config.yaml") }

// loadConfig tolerates a missing file; a malformed one is an error.
func loadConfig(path string) (config, error) {
	var c config
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return c, fmt.Errorf("read config %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, &c); err != nil {
			return c, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if v := os.Getenv("BACKOFFICE_URL"); v != "" {
		c.URL = v
	}
	if v := os.Getenv("BACKOFFICE_TOKEN_FILE"); v != "" {
		c.TokenFile = v
	}
	if c.URL == "" {
		c.URL = defaultURL
	}
	if c.TokenFile == "" {
		c.TokenFile = filepath.Join(configDir(), "session.json")
	}
	if c.PerPage <= 0 {
		c.PerPage = defaultPerPage
	}
	return c, nil
}

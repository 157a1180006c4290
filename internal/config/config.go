// Package config handles loading and parsing application configuration.
// It supports two sources (in priority order):
//  1. An environment variable:  CONFIG_PATH=/path/to/config.yaml
//  2. A command-line flag:      --config=/path/to/config.yaml
//
// Both binaries read the same file: the console client uses the client
// section, the development server everything else.
package config

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config is the root configuration structure.
// Every field maps to a key in the YAML file AND can be overridden
// by the corresponding environment variable (env:"...").
type Config struct {
	// Env controls log format and verbosity.
	// Valid values: "dev", "staging", "prod"
	Env string `yaml:"env" env:"ENV" env-default:"dev"`

	// StoragePath is the filesystem path to the dev server's SQLite file.
	StoragePath string `yaml:"storage_path" env:"STORAGE_PATH" env-default:"storage/portal.db"`

	HTTPServer `yaml:"http_server"`
	Client     `yaml:"client"`
	Seed       `yaml:"seed"`
}

// HTTPServer holds settings specific to the dev server.
type HTTPServer struct {
	// Addr is the TCP address the server listens on, e.g. "localhost:3000".
	Addr string `yaml:"address" env:"HTTP_SERVER_ADDR" env-default:"localhost:3000"`
}

// Client holds settings of the console client.
type Client struct {
	// BaseURL is the API origin every request is sent to.
	BaseURL string `yaml:"base_url" env:"API_BASE_URL" env-default:"http://localhost:3000"`
}

// Seed is the super-admin account the dev server creates at boot when
// no account with that username exists.
type Seed struct {
	SuperAdminUsername string `yaml:"superadmin_username" env:"SEED_SUPERADMIN_USERNAME" env-default:"superadmin"`
	SuperAdminPassword string `yaml:"superadmin_password" env:"SEED_SUPERADMIN_PASSWORD"`
}

// Load reads the config file at path, applies env overrides and defaults.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file does not exist: %s", path)
	}

	var cfg Config
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, fmt.Errorf("cannot read config: %w", err)
	}
	return &cfg, nil
}

// MustLoad reads, validates, and returns the application config.
//
// Functions prefixed with "Must" are allowed to fatal on failure: if this
// returns, the config is valid.
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")

	if configPath == "" {
		flags := flag.String("config", "", "Path to the configuration YAML file")
		flag.Parse()
		configPath = *flags
	}

	if configPath == "" {
		log.Fatal("config path is not set: use --config flag or CONFIG_PATH env var")
	}

	cfg, err := Load(configPath)
	if err != nil {
		log.Fatal(err)
	}
	return cfg
}

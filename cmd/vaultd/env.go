package main

import (
	"os"
	"path/filepath"

	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
)

// Env is the configuration read from VAULT_* environment variables.
type Env struct {
	Home      string `envconfig:"HOME"`
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	CacheSize int    `envconfig:"CACHE_SIZE" default:"10000"`
	Backend   string `envconfig:"BACKEND" default:"goleveldb"`
	Debug     bool   `envconfig:"DEBUG"`
}

func loadEnv() (Env, error) {
	var env Env
	if err := envconfig.Process("vault", &env); err != nil {
		return env, errors.Wrap(err, "parse environment")
	}
	if env.Home == "" {
		env.Home = filepath.Join(os.ExpandEnv("$HOME"), ".vaultd")
	}
	return env, nil
}

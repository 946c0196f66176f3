// Package config holds run settings for wordlestats.
package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/pable/wordle-stats/internal/model"
)

const (
	DefaultGlob   = "history_dump/messages*.html"
	DefaultFirst  = "Hugo Ledoux"
	DefaultSecond = "Sylvain Roy"
)

// Config is the resolved configuration of one run. Only the input glob may
// come from the environment; the head-to-head pair is set by flags.
type Config struct {
	Glob string `env:"WORDLESTATS_GLOB" envDefault:"history_dump/messages*.html"`
	Pair model.Pair
}

// Load reads an optional .env file, then the environment. A missing .env is
// not an error.
func Load(dotenv string) (Config, error) {
	if dotenv != "" {
		if err := godotenv.Load(dotenv); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", dotenv, err)
		}
	}
	cfg := Config{Pair: model.Pair{First: DefaultFirst, Second: DefaultSecond}}
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

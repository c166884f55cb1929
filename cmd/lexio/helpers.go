package main

import (
	"fmt"

	"github.com/at-ishikawa/lexio/internal/config"
)

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

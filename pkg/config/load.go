package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Load reads configuration from the environment, layering envFile underneath
// when it exists. A missing env file is not an error; unset required
// variables are.
func Load(envFile string) (*App, error) {
	if envFile != "" {
		_ = godotenv.Load(envFile)
	}
	var cfg App
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("process environment: %w", err)
	}
	return &cfg, nil
}

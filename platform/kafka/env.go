package kafka

import (
	"fmt"

	"github.com/caarlos0/env/v10"
)

// LoadEnv загружает конфигурацию из переменных окружения (caarlos0/env/v10) и проверяет её
func LoadEnv() (Config, error) {
	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("kafka config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

package observability

import (
	"fmt"

	"github.com/caarlos0/env/v10"
)

// Config конфигурация OpenTelemetry (traces + metrics + propagator)
type Config struct {
	// Enabled включить экспорт в OTLP collector
	Enabled bool `env:"OTEL_ENABLED" envDefault:"false"`
	// OTLPEndpoint адрес OTLP gRPC (traces + metrics), например "127.0.0.1:4317" или "otel-collector:4317"
	OTLPEndpoint string `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:"127.0.0.1:4317"`
	// SamplingRatio доля трасс для семплирования (0..1), 1.0 = все
	SamplingRatio float64 `env:"OTEL_SAMPLING_RATIO" envDefault:"1.0"`
	// ServiceName имя сервиса (order, assistant, notification)
	ServiceName string
	// DeploymentEnvironment окружение (local, docker)
	DeploymentEnvironment string
	// ServiceVersion опционально, например из build
	ServiceVersion string `env:"SERVICE_VERSION"`
}

// LoadEnv читает OTEL_* переменные окружения поверх переданных значений
func LoadEnv(serviceName, deploymentEnv string) (Config, error) {
	cfg := Config{
		ServiceName:           serviceName,
		DeploymentEnvironment: deploymentEnv,
	}
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("observability config: %w", err)
	}
	if cfg.SamplingRatio < 0 || cfg.SamplingRatio > 1 {
		return Config{}, fmt.Errorf("OTEL_SAMPLING_RATIO must be in [0, 1], got %v", cfg.SamplingRatio)
	}
	return cfg, nil
}

package main

import (
	"log"

	"github.com/hubersonokou-collab/okousmarthub-sub002/services/order/internal/app"
	"github.com/hubersonokou-collab/okousmarthub-sub002/services/order/internal/config"
)

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	cfg.Log()

	// Build собирает граф зависимостей и инициализирует все компоненты
	application, err := app.Build(cfg)
	if err != nil {
		log.Fatalf("Failed to build app: %v", err)
	}

	// Run блокируется до graceful shutdown
	if err := application.Run(); err != nil {
		log.Fatalf("Service error: %v", err)
	}
}

package kafka

import "errors"

// Config содержит конфигурацию для подключения к Kafka
type Config struct {
	// Brokers - список брокеров Kafka через запятую:
	//   - локальная разработка (go run): localhost:19092
	//   - запуск в Docker: kafka:9092
	Brokers []string `env:"KAFKA_BROKERS" envSeparator:"," envDefault:"localhost:19092"`
	// PaymentCompletedTopic - топик событий успешной оплаты заказа
	PaymentCompletedTopic string `env:"PAYMENT_COMPLETED_TOPIC" envDefault:"payment.completed"`
	// DLQTopic - топик для сообщений, которые не удалось обработать
	DLQTopic string `env:"KAFKA_DLQ_TOPIC" envDefault:"payment.completed.dlq"`
}

// DefaultConfig возвращает конфигурацию с дефолтными значениями для локальной разработки.
func DefaultConfig() Config {
	return Config{
		Brokers:               []string{"localhost:19092"},
		PaymentCompletedTopic: "payment.completed",
		DLQTopic:              "payment.completed.dlq",
	}
}

// Validate проверяет, что заданы брокеры и топики
func (c Config) Validate() error {
	if len(c.Brokers) == 0 {
		return errors.New("KAFKA_BROKERS is required")
	}
	if c.PaymentCompletedTopic == "" {
		return errors.New("PAYMENT_COMPLETED_TOPIC is required")
	}
	return nil
}

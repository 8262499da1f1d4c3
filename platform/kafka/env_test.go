package kafka

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadEnv_Defaults(t *testing.T) {
	// t.Setenv восстановит исходные значения после теста
	for _, key := range []string{"KAFKA_BROKERS", "PAYMENT_COMPLETED_TOPIC", "KAFKA_DLQ_TOPIC"} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}

	cfg, err := LoadEnv()
	require.NoError(t, err)
	require.Equal(t, DefaultConfig(), cfg)
}

func TestLoadEnv_Overrides(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092,kafka-2:9092")
	t.Setenv("PAYMENT_COMPLETED_TOPIC", "orders.paid")

	cfg, err := LoadEnv()
	require.NoError(t, err)
	require.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Brokers)
	require.Equal(t, "orders.paid", cfg.PaymentCompletedTopic)
}

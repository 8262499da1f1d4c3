package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ErrUnauthenticated возвращается, когда сессия отсутствует, истекла или пуста
var ErrUnauthenticated = errors.New("unauthenticated")

// hashFieldUserID поле hash, которое заполняет провайдер авторизации
const hashFieldUserID = "user_id"

// Store резолвит session_id в user_id
type Store interface {
	Lookup(ctx context.Context, sessionID string) (userID string, err error)
}

// RedisStore читает сессии из Redis hash session:<id>.
// Сессии заводит внешний провайдер авторизации, сервис их только читает.
type RedisStore struct {
	client *redis.Client
	logger *zap.Logger
}

// NewRedisStore создаёт store поверх go-redis клиента
func NewRedisStore(client *redis.Client, logger *zap.Logger) *RedisStore {
	return &RedisStore{client: client, logger: logger}
}

func sessionKey(sessionID string) string {
	return fmt.Sprintf("session:%s", sessionID)
}

// Lookup возвращает user_id; ErrUnauthenticated если ключа нет или user_id пустой
func (s *RedisStore) Lookup(ctx context.Context, sessionID string) (string, error) {
	if sessionID == "" {
		return "", ErrUnauthenticated
	}

	userID, err := s.client.HGet(ctx, sessionKey(sessionID), hashFieldUserID).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrUnauthenticated
		}
		s.logger.Error("failed to read session from redis",
			zap.Error(err),
			zap.String("session_id", sessionID),
		)
		return "", fmt.Errorf("lookup session: %w", err)
	}
	if userID == "" {
		return "", ErrUnauthenticated
	}

	return userID, nil
}

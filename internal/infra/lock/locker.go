// Package lock serializes writers of the same bedspace across service instances.
package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/m04kA/SMC-AccommodationService/internal/domain"
)

var (
	// ErrNotAcquired возвращается, если блокировку держит другой писатель дольше времени ожидания
	ErrNotAcquired = fmt.Errorf("%w: lock: bedspace is locked by another writer", domain.ErrConcurrencyConflict)

	// ErrRedis возвращается при ошибке обращения к Redis
	ErrRedis = errors.New("lock: redis error")
)

// Release снимает блокировку
type Release func(ctx context.Context) error

// Client часть *redis.Client, которой пользуется блокировка
type Client interface {
	redis.Scripter
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
}

// Удаляем ключ, только если он все еще принадлежит нам: блокировка могла истечь
// и быть захвачена другим писателем
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
  return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisLocker блокировка на SET NX PX с токеном владельца
type RedisLocker struct {
	client     Client
	prefix     string
	ttl        time.Duration
	wait       time.Duration
	retryDelay time.Duration
	newToken   func() string
}

// NewRedisLocker создает блокировку
// ttl ограничивает время жизни ключа, wait - сколько ждать освобождения чужой блокировки
func NewRedisLocker(client Client, prefix string, ttl, wait time.Duration) *RedisLocker {
	if prefix == "" {
		prefix = "accommodation:lock"
	}
	if ttl <= 0 {
		ttl = 10 * time.Second
	}
	if wait < 0 {
		wait = 0
	}
	return &RedisLocker{
		client:     client,
		prefix:     prefix,
		ttl:        ttl,
		wait:       wait,
		retryDelay: 25 * time.Millisecond,
		newToken:   uuid.NewString,
	}
}

// BedspaceKey ключ блокировки койко-места
func BedspaceKey(bedspaceID int64) string {
	return fmt.Sprintf("bedspace:%d", bedspaceID)
}

// Acquire захватывает блокировку key, повторяя попытки до истечения времени ожидания
func (l *RedisLocker) Acquire(ctx context.Context, key string) (Release, error) {
	fullKey := l.prefix + ":" + key
	token := l.newToken()
	deadline := time.Now().Add(l.wait)

	for {
		ok, err := l.client.SetNX(ctx, fullKey, token, l.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("%w: Acquire %s: %v", ErrRedis, fullKey, err)
		}
		if ok {
			return l.release(fullKey, token), nil
		}

		if !time.Now().Before(deadline) {
			return nil, fmt.Errorf("%w: %s", ErrNotAcquired, key)
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %s: %v", ErrNotAcquired, key, ctx.Err())
		case <-time.After(l.retryDelay):
		}
	}
}

func (l *RedisLocker) release(fullKey, token string) Release {
	return func(ctx context.Context) error {
		if err := releaseScript.Run(ctx, l.client, []string{fullKey}, token).Err(); err != nil {
			return fmt.Errorf("%w: Release %s: %v", ErrRedis, fullKey, err)
		}
		return nil
	}
}

// NoopLocker используется, когда Redis не настроен: сериализацию обеспечивает только БД
type NoopLocker struct{}

func (NoopLocker) Acquire(context.Context, string) (Release, error) {
	return func(context.Context) error { return nil }, nil
}

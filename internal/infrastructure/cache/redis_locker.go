package cache

import (
	"context"
	"errors"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/ferreteria-api/internal/application/ports"
)

var _ ports.Locker = (*RedisLocker)(nil)

// RedisLocker candados distribuidos con redislock.
type RedisLocker struct {
	client *redislock.Client
}

// NewRedisLocker construye el locker sobre un cliente existente.
func NewRedisLocker(rdb *redis.Client) *RedisLocker {
	return &RedisLocker{client: redislock.New(rdb)}
}

// TryLock intenta tomar key sin reintentos. ok=false si otra instancia lo tiene.
func (l *RedisLocker) TryLock(ctx context.Context, key string, ttl time.Duration) (ports.Lock, bool, error) {
	lock, err := l.client.Obtain(ctx, key, ttl, nil)
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return redisLock{lock: lock}, true, nil
}

type redisLock struct {
	lock *redislock.Lock
}

func (r redisLock) Release(ctx context.Context) error {
	err := r.lock.Release(ctx)
	if errors.Is(err, redislock.ErrLockNotHeld) {
		return nil
	}
	return err
}

package ports

import (
	"context"
	"time"
)

// Lock candado distribuido adquirido.
type Lock interface {
	Release(ctx context.Context) error
}

// Locker obtiene candados distribuidos con expiración.
// ok=false (sin error) significa que otra instancia ya tiene el candado.
type Locker interface {
	TryLock(ctx context.Context, key string, ttl time.Duration) (lock Lock, ok bool, err error)
}

// LocalLocker Locker trivial para una sola instancia: siempre obtiene el candado.
type LocalLocker struct{}

func (LocalLocker) TryLock(context.Context, string, time.Duration) (Lock, bool, error) {
	return localLock{}, true, nil
}

type localLock struct{}

func (localLock) Release(context.Context) error { return nil }

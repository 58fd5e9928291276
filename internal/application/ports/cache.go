package ports

import (
	"context"
	"time"
)

// Cache define el puerto de salida para un caché clave-valor (Redis u otro).
// Los valores se serializan como JSON. Un fallo del caché nunca debe impedir la operación:
// los casos de uso lo tratan como un miss.
type Cache interface {
	// Get carga el valor en dest. found=false si la clave no existe.
	Get(ctx context.Context, key string, dest any) (found bool, err error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	Ping(ctx context.Context) error
}

// NoopCache caché deshabilitado: nunca encuentra nada.
type NoopCache struct{}

func (NoopCache) Get(context.Context, string, any) (bool, error)        { return false, nil }
func (NoopCache) Set(context.Context, string, any, time.Duration) error { return nil }
func (NoopCache) Delete(context.Context, ...string) error               { return nil }
func (NoopCache) Ping(context.Context) error                            { return nil }

// Claves de caché compartidas entre casos de uso.
const (
	CacheKeyProductDropdown  = "ferreteria:products:dropdown"
	CacheKeyDashboardSummary = "ferreteria:dashboard:summary"
)

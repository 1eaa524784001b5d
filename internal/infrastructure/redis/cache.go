package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/jhoicas/Almacen-api/pkg/config"
)

const (
	idempotencyKeyPrefix = "transfer:idem:"
	idempotencyKeyTTL    = 24 * time.Hour
	aggregateKeyPrefix   = "aggregates:"
	aggregateTTL         = time.Hour
)

// Cache adaptador Redis para el cache de agregados y las llaves de
// idempotencia de transferencias. El cache es una optimización: quien lo
// consulta debe tolerar miss y recomputar desde el Ledger.
type Cache struct {
	client *redis.Client
}

// New construye el adaptador y verifica conectividad.
func New(ctx context.Context, cfg config.RedisConfig) (*Cache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return &Cache{client: client}, nil
}

// ClaimIdempotencyKey reclama la llave con SETNX y TTL. false si ya fue usada
// (la petición es una repetición y no debe re-ejecutarse).
func (c *Cache) ClaimIdempotencyKey(ctx context.Context, key string) (bool, error) {
	return c.client.SetNX(ctx, idempotencyKeyPrefix+key, 1, idempotencyKeyTTL).Result()
}

// GetAggregate devuelve el JSON cacheado bajo la llave, o ok=false en miss.
func (c *Cache) GetAggregate(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := c.client.Get(ctx, aggregateKeyPrefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return val, true, nil
}

// SetAggregate guarda el JSON del agregado con TTL de respaldo (la
// invalidación explícita es el mecanismo principal).
func (c *Cache) SetAggregate(ctx context.Context, key string, value []byte) error {
	return c.client.Set(ctx, aggregateKeyPrefix+key, value, aggregateTTL).Err()
}

// InvalidateAggregates borra todos los agregados cacheados. Se llama de forma
// síncrona en cada mutación del Ledger, antes de responder al cliente.
func (c *Cache) InvalidateAggregates(ctx context.Context, keys ...string) error {
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = aggregateKeyPrefix + k
	}
	return c.client.Del(ctx, full...).Err()
}

// Close libera la conexión.
func (c *Cache) Close() error {
	return c.client.Close()
}

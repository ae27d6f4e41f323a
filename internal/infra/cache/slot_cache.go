package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	domain "github.com/BruksfildServices01/barber-slots/internal/domain/appointment"
)

const (
	keyPrefix = "slots:"
	genPrefix = "slots:gen:"

	genTTL = 7 * 24 * time.Hour
)

var errStaleGeneration = errors.New("slot cache generation moved")

// RedisSlotCache stores free-slot lists per date. Redis failures degrade to
// cache misses; the store stays the source of truth.
type RedisSlotCache struct {
	client *redis.Client
	ttl    time.Duration
	log    *zap.Logger
}

func NewRedisSlotCache(client *redis.Client, ttl time.Duration, log *zap.Logger) *RedisSlotCache {
	return &RedisSlotCache{client: client, ttl: ttl, log: log.Named("slot_cache")}
}

func (c *RedisSlotCache) Get(ctx context.Context, date string) ([]domain.TimeSlot, bool) {
	raw, err := c.client.Get(ctx, keyPrefix+date).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		c.log.Warn("cache get failed", zap.String("date", date), zap.Error(err))
		return nil, false
	}

	var slots []domain.TimeSlot
	if err := json.Unmarshal(raw, &slots); err != nil {
		c.log.Warn("cache entry unreadable", zap.String("date", date), zap.Error(err))
		return nil, false
	}
	return slots, true
}

func (c *RedisSlotCache) Generation(ctx context.Context, date string) (int64, bool) {
	gen, err := c.client.Get(ctx, genPrefix+date).Int64()
	if err == redis.Nil {
		return 0, true
	}
	if err != nil {
		c.log.Warn("cache generation read failed", zap.String("date", date), zap.Error(err))
		return 0, false
	}
	return gen, true
}

// Set stores slots only while the date's generation still equals gen. The
// generation key is watched so an Invalidate racing the write aborts it.
func (c *RedisSlotCache) Set(ctx context.Context, date string, gen int64, slots []domain.TimeSlot) {
	raw, err := json.Marshal(slots)
	if err != nil {
		return
	}

	genKey := genPrefix + date
	err = c.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, genKey).Int64()
		if err != nil && err != redis.Nil {
			return err
		}
		if current != gen {
			return errStaleGeneration
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, keyPrefix+date, raw, c.ttl)
			return nil
		})
		return err
	}, genKey)

	switch {
	case err == nil, errors.Is(err, errStaleGeneration), errors.Is(err, redis.TxFailedErr):
	default:
		c.log.Warn("cache set failed", zap.String("date", date), zap.Error(err))
	}
}

// Invalidate bumps the generation before dropping the entry.
func (c *RedisSlotCache) Invalidate(ctx context.Context, date string) {
	genKey := genPrefix + date
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, genKey)
		pipe.Expire(ctx, genKey, genTTL)
		pipe.Del(ctx, keyPrefix+date)
		return nil
	})
	if err != nil {
		c.log.Warn("cache invalidate failed", zap.String("date", date), zap.Error(err))
	}
}

var _ domain.SlotCache = (*RedisSlotCache)(nil)

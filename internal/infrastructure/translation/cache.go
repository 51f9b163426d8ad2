package translation

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"github.com/freelansire/hrh/internal/domain"
	"github.com/freelansire/hrh/pkg/logging"
	"github.com/freelansire/hrh/pkg/metrics"
)

const (
	DefaultCacheTTL = 24 * time.Hour
	cacheKeyPrefix  = "hrh:translation:"
)

// Store is the key-value store behind CachedTranslator
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}

// RedisStore implements Store on Redis
type RedisStore struct {
	client redis.UniversalClient
}

// NewRedisStore creates a new RedisStore
func NewRedisStore(client redis.UniversalClient) *RedisStore {
	return &RedisStore{client: client}
}

// Get returns the cached value. A missing key is not an error.
func (s *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

// Set stores value with an expiry
func (s *RedisStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return s.client.Set(ctx, key, value, ttl).Err()
}

// CacheKey returns the cache key of a translation request
func CacheKey(text string, target domain.TargetLanguage) string {
	sum := sha256.Sum256([]byte(text))
	return fmt.Sprintf("%s%s:%s", cacheKeyPrefix, target, hex.EncodeToString(sum[:]))
}

// CachedTranslator is a read-through cache in front of a Translator.
// Concurrent misses for the same key share one upstream call. Store
// failures are logged and never fail a translation.
type CachedTranslator struct {
	next    domain.Translator
	store   Store
	ttl     time.Duration
	group   singleflight.Group
	logger  *logging.Logger
	metrics *metrics.Metrics
}

// NewCachedTranslator wraps next with a cache
func NewCachedTranslator(next domain.Translator, store Store, ttl time.Duration, logger *logging.Logger, m *metrics.Metrics) *CachedTranslator {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &CachedTranslator{
		next:    next,
		store:   store,
		ttl:     ttl,
		logger:  logger.WithComponent("translation-cache"),
		metrics: m,
	}
}

// Translate returns a cached translation or asks the wrapped translator
func (c *CachedTranslator) Translate(ctx context.Context, text string, target domain.TargetLanguage) (string, error) {
	key := CacheKey(text, target)

	cached, ok, err := c.store.Get(ctx, key)
	if err != nil {
		c.logger.WithContext(ctx).WithError(err).Warn("Translation cache read failed", "language", string(target))
	}
	c.recordLookup(ok)
	if ok {
		return cached, nil
	}

	// The shared call outlives any single caller: one cancelled request must
	// not fail the others waiting on the same key.
	ch := c.group.DoChan(key, func() (interface{}, error) {
		callCtx, cancel := detach(ctx)
		defer cancel()

		translated, err := c.next.Translate(callCtx, text, target)
		if err != nil {
			return "", err
		}
		if err := c.store.Set(callCtx, key, translated, c.ttl); err != nil {
			c.logger.WithContext(callCtx).WithError(err).Warn("Translation cache write failed", "language", string(target))
		}
		return translated, nil
	})

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		if res.Shared {
			c.logger.WithContext(ctx).Debug("Translation shared with concurrent request", "language", string(target))
		}
		return res.Val.(string), nil
	}
}

// detach keeps the values and deadline of ctx but not its cancellation
func detach(ctx context.Context) (context.Context, context.CancelFunc) {
	base := context.WithoutCancel(ctx)
	if deadline, ok := ctx.Deadline(); ok {
		return context.WithDeadline(base, deadline)
	}
	return context.WithCancel(base)
}

func (c *CachedTranslator) recordLookup(hit bool) {
	if c.metrics != nil {
		c.metrics.RecordTranslationCacheLookup(hit)
	}
}

package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"blogapi/internal/observability"

	"github.com/redis/go-redis/v9"
)

// versionTTL outlives any in-flight read so a bump is still visible when
// that read tries to store its result.
const versionTTL = time.Hour

// ErrStale is returned by StoreIfCurrent when the key was invalidated after
// the caller read its version.
var ErrStale = errors.New("cache: key invalidated during fetch")

func versionKey(key string) string {
	return key + ":v"
}

// GetJSON attempts to get the key from Redis and unmarshal into dest.
// Returns (true, nil) if found and unmarshaled, (false, nil) if not found.
func GetJSON(ctx context.Context, key string, dest any) (bool, error) {
	if client == nil {
		return false, nil
	}
	s, err := client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal([]byte(s), dest); err != nil {
		return false, err
	}
	return true, nil
}

// SetJSON marshals v and sets the key with TTL.
func SetJSON(ctx context.Context, key string, v any, ttl time.Duration) error {
	if client == nil {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return client.Set(ctx, key, b, ttl).Err()
}

// Version returns the invalidation counter of key ("" when never bumped).
func Version(ctx context.Context, key string) (string, error) {
	if client == nil {
		return "", nil
	}
	v, err := client.Get(ctx, versionKey(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	return v, err
}

// StoreIfCurrent sets key to v only while its version still equals seen.
// The check and the write run under WATCH, so an Invalidate that lands in
// between aborts the write.
func StoreIfCurrent(ctx context.Context, key, seen string, v any, ttl time.Duration) error {
	if client == nil {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}

	vk := versionKey(key)
	err = client.Watch(ctx, func(tx *redis.Tx) error {
		cur, err := tx.Get(ctx, vk).Result()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if cur != seen {
			return ErrStale
		}
		_, err = tx.TxPipelined(ctx, func(p redis.Pipeliner) error {
			p.Set(ctx, key, b, ttl)
			return nil
		})
		return err
	}, vk)
	if errors.Is(err, redis.TxFailedErr) {
		return ErrStale
	}
	return err
}

// Aside tries Redis first; on a miss it calls fetch, which must populate
// dest, then stores dest with ttl unless the key was invalidated while
// fetch ran. Redis failures fall through to fetch.
func Aside(ctx context.Context, key string, dest any, ttl time.Duration, fetch func() error) error {
	found, err := GetJSON(ctx, key, dest)
	switch {
	case err != nil:
		observability.CacheLookups.WithLabelValues("error").Inc()
	case found:
		observability.CacheLookups.WithLabelValues("hit").Inc()
		return nil
	case client != nil:
		observability.CacheLookups.WithLabelValues("miss").Inc()
	}

	seen, verErr := Version(ctx, key)

	if err := fetch(); err != nil {
		return err
	}

	if verErr != nil {
		return nil
	}
	if err := StoreIfCurrent(ctx, key, seen, dest, ttl); errors.Is(err, ErrStale) {
		observability.CacheLookups.WithLabelValues("stale").Inc()
	}
	return nil
}

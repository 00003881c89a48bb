package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"bookrag/internal/port"
)

// ContentCache is a write-once cache keyed by a content hash plus exact
// discriminant parameters. Identical (content, discriminants) pairs always
// return the first computed value; there is no invalidation. Concurrent
// misses for the same key may both compute; the last writer wins.
//
// The personalization and translation caches are two instances of this
// type over different buckets.
type ContentCache struct {
	kv     port.KV
	bucket string
	log    *slog.Logger
}

type entry struct {
	Value     string    `json:"value"`
	CreatedAt time.Time `json:"created_at"`
}

func NewContentCache(kv port.KV, bucket string, log *slog.Logger) *ContentCache {
	if log == nil {
		log = slog.Default()
	}
	return &ContentCache{kv: kv, bucket: bucket, log: log}
}

// Key derives the composite cache key. It is a pure function of the
// content bytes and the discriminants; no clock or random state.
func Key(content string, discriminants ...string) string {
	sum := sha256.Sum256([]byte(content))
	if len(discriminants) == 0 {
		return hex.EncodeToString(sum[:])
	}
	return hex.EncodeToString(sum[:]) + "|" + strings.Join(discriminants, "|")
}

// GetOrCompute returns the cached value for (content, discriminants) or
// invokes compute, stores the result, and returns it. compute is never
// invoked on a hit. Backend read failures degrade to a miss; backend write
// failures are logged and the computed value is still returned, since the
// response must not depend on the cache succeeding.
func (c *ContentCache) GetOrCompute(ctx context.Context, content string, discriminants []string, compute func(context.Context) (string, error)) (string, bool, error) {
	key := Key(content, discriminants...)

	data, ok, err := c.kv.Get(c.bucket, key)
	if err != nil {
		c.log.Warn("cache read failed, treating as miss", "bucket", c.bucket, "error", err)
	} else if ok {
		var e entry
		if err := json.Unmarshal(data, &e); err != nil {
			c.log.Warn("cache entry corrupt, recomputing", "bucket", c.bucket, "error", err)
		} else {
			return e.Value, true, nil
		}
	}

	value, err := compute(ctx)
	if err != nil {
		return "", false, fmt.Errorf("compute failed: %w", err)
	}

	data, err = json.Marshal(entry{Value: value, CreatedAt: time.Now().UTC()})
	if err == nil {
		err = c.kv.Put(c.bucket, key, data)
	}
	if err != nil {
		c.log.Warn("cache write failed, returning computed value", "bucket", c.bucket, "error", err)
	}
	return value, false, nil
}

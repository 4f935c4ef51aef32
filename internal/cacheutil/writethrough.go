// Package cacheutil provides the read-through caching pattern shared by
// every component that fronts a recompute with a TTL-cached value in the
// external KV store (the reputation engine today; any future cached
// derivation tomorrow).
package cacheutil

import (
	"context"
	"encoding/json"
	"time"

	"github.com/oraclabs/trustscore/internal/kvstore"
)

// KVReadThrough consults store under key; on a hit it JSON-decodes and
// returns the cached value. On a miss, or on any decode/store error, it
// calls compute, writes the fresh value back with ttl, and returns it.
//
// Usage:
//
//	v := cacheutil.KVReadThrough(ctx, store, "reputation:vector:v1", 8*time.Hour, func() Vector {
//	    return Compute(snap)
//	})
func KVReadThrough[T any](ctx context.Context, store kvstore.Store, key string, ttl time.Duration, compute func() T) T {
	if raw, ok, err := store.Get(ctx, key); err == nil && ok {
		var cached T
		if json.Unmarshal(raw, &cached) == nil {
			return cached
		}
	}

	value := compute()

	if raw, err := json.Marshal(value); err == nil {
		_ = store.Put(ctx, key, raw, ttl)
	}
	return value
}

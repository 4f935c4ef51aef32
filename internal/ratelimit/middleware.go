// Package ratelimit enforces a rolling per-IP hourly request quota backed
// by the shared external KV store, so it counts correctly across any number
// of service replicas rather than per-process.
package ratelimit

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/oraclabs/trustscore/internal/errors"
	"github.com/oraclabs/trustscore/internal/kvstore"
	"github.com/oraclabs/trustscore/internal/metrics"
)

// Config holds the per-IP rate limit.
type Config struct {
	Limit     int64
	Window    time.Duration
	BypassIPs []string
	Metrics   *metrics.Metrics
}

// Middleware enforces Config's quota using store as the counter backend.
// A client's IP is exempt entirely when listed in BypassIPs.
func Middleware(cfg Config, store kvstore.Store) func(http.Handler) http.Handler {
	bypass := make(map[string]struct{}, len(cfg.BypassIPs))
	for _, ip := range cfg.BypassIPs {
		bypass[ip] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r)
			if _, ok := bypass[ip]; ok {
				next.ServeHTTP(w, r)
				return
			}

			key := "ratelimit:" + ip

			// Peek the running count first: once a key is already at or past
			// the limit, reject without incrementing further, so a client
			// hammering past its quota doesn't keep driving the counter up.
			if raw, ok, err := store.Get(r.Context(), key); err == nil && ok {
				if count, perr := strconv.ParseInt(string(raw), 10, 64); perr == nil && count >= cfg.Limit {
					reject(w, cfg)
					return
				}
			}

			count, err := store.Increment(r.Context(), key, cfg.Window)
			if err != nil {
				// The store is unavailable for counting; fail open rather than
				// block traffic on a rate-limiter outage.
				next.ServeHTTP(w, r)
				return
			}

			if count > cfg.Limit {
				reject(w, cfg)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func reject(w http.ResponseWriter, cfg Config) {
	if cfg.Metrics != nil {
		cfg.Metrics.ObserveRateLimit()
	}
	errors.Write(w, errors.RateLimited, "rate limit exceeded", nil, map[string]string{
		"Retry-After": "3600",
	})
}

// clientIP extracts the caller's address as reported by the edge proxy via
// X-Forwarded-For, taking the first hop. A request with no such header has
// no attributable client identity for rate-limiting purposes, so it is
// bucketed under the literal "unknown" key rather than RemoteAddr.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		parts := strings.Split(fwd, ",")
		if ip := strings.TrimSpace(parts[0]); ip != "" {
			return ip
		}
	}
	return "unknown"
}

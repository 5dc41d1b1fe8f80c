// Copyright 2023 - 2025, the SelfossFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package limiter

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"codeberg.org/selfossfe/selfossfe/config"
)

const (
	LimiterExpiryDuration = time.Hour       // How long to keep limiters in memory before cleanup.
	CleanupInterval       = 5 * time.Minute // Interval between limiter cleanup runs.
)

var (
	limiters sync.Map   // network string -> *limiterWrapper
	timeNow  = time.Now // Wrapper for time.Now, which allows us to mock it in tests.
)

// limiterWrapper holds a rate limiter and additional metadata.
//
// Limiters are associated with an IP network and persist in the limiters sync.Map.
type limiterWrapper struct {
	limiter    *rate.Limiter
	network    string
	lastAccess time.Time
	mu         sync.Mutex
}

// allow attempts to consume 1 token. It reports the delay until the next
// token becomes available when the request is refused.
func (l *limiterWrapper) allow() (bool, time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := timeNow()
	l.lastAccess = now

	if l.limiter.AllowN(now, 1) {
		return true, 0
	}

	// Reserve-then-cancel tells us how long a caller would have to wait
	// without actually consuming the token.
	res := l.limiter.ReserveN(now, 1)
	if !res.OK() {
		return false, time.Minute
	}

	delay := res.DelayFrom(now)
	res.CancelAt(now)

	return false, delay
}

// getOrCreateLimiter returns the limiterWrapper for the given network,
// creating one with the configured rate and burst when none exists.
func getOrCreateLimiter(networkStr string) *limiterWrapper {
	if value, ok := limiters.Load(networkStr); ok {
		if limWrapper, ok := value.(*limiterWrapper); ok {
			return limWrapper
		}
	}

	limWrapper := &limiterWrapper{
		limiter: rate.NewLimiter(
			rate.Limit(config.Global.Limiter.Rate),
			config.Global.Limiter.Burst,
		),
		network:    networkStr,
		lastAccess: timeNow(),
	}

	actual, _ := limiters.LoadOrStore(networkStr, limWrapper)

	return actual.(*limiterWrapper)
}

// cleanupExpiredLimiters removes limiters that haven't been accessed for the expiry duration.
func cleanupExpiredLimiters() int {
	now := timeNow()

	var keysToDelete []any

	// Collect keys to delete in a slice to avoid deleting during Range()
	limiters.Range(func(key, value any) bool {
		limWrapper, ok := value.(*limiterWrapper)
		if !ok {
			log.Warn().Any("key", key).
				Msg("Found invalid limiter type in map")

			keysToDelete = append(keysToDelete, key)

			return true
		}

		limWrapper.mu.Lock()
		lastAccess := limWrapper.lastAccess
		limWrapper.mu.Unlock()

		if now.Sub(lastAccess) > LimiterExpiryDuration {
			keysToDelete = append(keysToDelete, key)
		}

		return true
	})

	for _, key := range keysToDelete {
		limiters.Delete(key)
	}

	if len(keysToDelete) > 0 {
		log.Info().Int("count", len(keysToDelete)).
			Msg("Cleaned up expired limiters")
	}

	return len(keysToDelete)
}

// Len returns the number of networks currently tracked.
func Len() int {
	n := 0

	limiters.Range(func(_, _ any) bool {
		n++

		return true
	})

	return n
}

// Reset drops every tracked network.
func Reset() {
	limiters.Range(func(key, _ any) bool {
		limiters.Delete(key)

		return true
	})

	cleanupMu.Lock()
	lastCleanupAt = time.Time{}
	cleanupMu.Unlock()
}

// Copyright 2023 - 2025, the SelfossFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package limiter

import (
	"math"
	"net"
	"net/http"
	"slices"
	"strconv"

	"github.com/rs/zerolog/log"

	"codeberg.org/selfossfe/selfossfe/config"
	"codeberg.org/selfossfe/selfossfe/i18n"
)

// Rate limiting header names.
//
// ref: https://www.ietf.org/archive/id/draft-polli-ratelimit-headers-02.html
const (
	HeaderRateLimitLimit     string = "RateLimit-Limit" // This is intended.
	HeaderRateLimitRemaining string = "RateLimit-Remaining"
	HeaderRateLimitReset     string = "RateLimit-Reset"
)

// limitedPaths are the form endpoints that carry credentials.
var limitedPaths = []string{
	"/sign/in",
	"/password",
}

func isLimited(r *http.Request) bool {
	return r.Method == http.MethodPost && slices.Contains(limitedPaths, r.URL.Path)
}

// Evaluate is the entrypoint to the limiter middleware.
func Evaluate(w http.ResponseWriter, r *http.Request, next http.Handler) {
	if !config.Global.Limiter.Enabled || !isLimited(r) {
		next.ServeHTTP(w, r)

		return
	}

	defer DoCleanup()

	ip := net.ParseIP(getClientIP(r))
	if ip == nil {
		log.Warn().
			Str("remote_addr", r.RemoteAddr).
			Msg("Could not parse client IP, skipping rate limit")
		next.ServeHTTP(w, r)

		return
	}

	network := getNetwork(ip, config.Global.Limiter.IPv4Prefix, config.Global.Limiter.IPv6Prefix).String()
	limWrapper := getOrCreateLimiter(network)

	allowed, delay := limWrapper.allow()

	w.Header().Set(HeaderRateLimitLimit, strconv.Itoa(config.Global.Limiter.Burst))
	w.Header().Set(HeaderRateLimitRemaining, strconv.Itoa(remainingTokens(limWrapper)))

	if !allowed {
		retryAfter := strconv.Itoa(int(math.Ceil(delay.Seconds())))

		log.Warn().
			Str("network", network).
			Str("path", r.URL.Path).
			Dur("retry_after", delay).
			Msg("Rate limit exceeded")

		w.Header().Set(HeaderRateLimitReset, retryAfter)
		w.Header().Set("Retry-After", retryAfter)
		w.Header().Set("Cache-Control", "no-store")
		http.Error(w, i18n.Tr(r.Context(), "error_rate_limited"), http.StatusTooManyRequests)

		return
	}

	next.ServeHTTP(w, r)
}

func remainingTokens(l *limiterWrapper) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return max(0, int(l.limiter.TokensAt(timeNow())))
}

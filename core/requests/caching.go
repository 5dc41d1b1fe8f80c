// Copyright 2023 - 2025, the SelfossFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package requests

import (
	"bytes"
	"context"
	"encoding/gob"
	"hash/fnv"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"codeberg.org/selfossfe/selfossfe/config"
	"codeberg.org/selfossfe/selfossfe/core/requests/lrucache"
)

// SessionCookieName is the backend's session cookie. Cached responses are
// scoped to its value.
const SessionCookieName = "PHPSESSID"

var (
	cache *lrucache.Compressed

	// excludedCachePaths are never cached: they change on every call.
	excludedCachePaths = []string{
		"/items/sync",
		"/api/about",
		"/update",
		"/login",
		"/logout",
	}
)

// cachedItem is a backend response as stored in the cache.
type cachedItem struct {
	StatusCode int
	Header     http.Header
	Body       []byte
	ExpiresAt  time.Time
	URL        string
}

type cachePolicy struct {
	// store an OK response once received
	shouldUseCache bool

	cachedItem *cachedItem
}

// Setup creates the response cache when caching is enabled.
func Setup() error {
	if !config.Global.Cache.Enabled {
		cache = nil

		log.Info().Msg("Cache is disabled, skipping cache initialization")

		return nil
	}

	c, err := lrucache.NewCompressed(config.Global.Cache.Size)
	if err != nil {
		return err
	}

	cache = c

	log.Info().
		Int("size", config.Global.Cache.Size).
		Dur("ttl", config.Global.Cache.TTL).
		Msg("Initialized API response cache")

	return nil
}

// generateCacheKey hashes the URL together with the whole backend session,
// so a response is only ever served to the session that fetched it.
func generateCacheKey(url, session string) string {
	hasher := fnv.New64a()

	_, _ = hasher.Write([]byte(url + "\x00" + session))

	return strconv.FormatUint(hasher.Sum64(), 16)
}

func determineCachePolicy(rawURL, session string, headers http.Header) cachePolicy {
	if cache == nil {
		return cachePolicy{}
	}

	for _, excluded := range excludedCachePaths {
		if strings.Contains(rawURL, excluded) {
			return cachePolicy{}
		}
	}

	cacheControl := strings.ToLower(headers.Get("Cache-Control"))
	if strings.Contains(cacheControl, "no-cache") {
		return cachePolicy{}
	}

	key := generateCacheKey(rawURL, session)

	if data, ok := cache.Get(key); ok {
		var item cachedItem

		switch err := gob.NewDecoder(bytes.NewReader(data)).Decode(&item); {
		case err != nil:
			log.Warn().Err(err).Str("key", key).Msg("Failed to decode cached item; removing")
			cache.Remove(key)
		case item.URL != rawURL:
			// hash collision
			cache.Remove(key)
		case time.Now().Before(item.ExpiresAt):
			return cachePolicy{shouldUseCache: true, cachedItem: &item}
		default:
			cache.Remove(key)
		}
	}

	return cachePolicy{shouldUseCache: !strings.Contains(cacheControl, "no-store")}
}

func store(ctx context.Context, url, session string, resp *Response) {
	var buf bytes.Buffer

	if err := gob.NewEncoder(&buf).Encode(cachedItem{
		StatusCode: resp.StatusCode,
		Header:     resp.Header.Clone(),
		Body:       resp.Body,
		ExpiresAt:  time.Now().Add(config.Global.Cache.TTL),
		URL:        url,
	}); err != nil {
		log.Ctx(ctx).Warn().Err(err).Msg("Failed to serialize item for cache")

		return
	}

	cache.Add(generateCacheKey(url, session), buf.Bytes())
}

// InvalidateURLs drops cached responses whose URL starts with one of the
// prefixes, for every session. It returns the dropped URLs.
func InvalidateURLs(prefixes ...string) []string {
	if cache == nil || len(prefixes) == 0 {
		return nil
	}

	var invalidated []string

	for _, key := range cache.Keys() {
		data, ok := cache.Peek(key)
		if !ok {
			continue
		}

		var item cachedItem
		if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&item); err != nil {
			continue
		}

		for _, prefix := range prefixes {
			if strings.HasPrefix(item.URL, prefix) {
				cache.Remove(key)

				invalidated = append(invalidated, item.URL)

				break
			}
		}
	}

	log.Debug().
		Int("count", len(invalidated)).
		Strs("urls", invalidated).
		Msg("Invalidated URLs")

	return invalidated
}

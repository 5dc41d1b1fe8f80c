// Copyright 2023 - 2025, the SelfossFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package lrucache

import (
	"fmt"

	"github.com/klauspost/compress/zstd"
)

type blob struct {
	data       []byte
	compressed bool
}

// Compressed is an LRU cache of byte slices stored zstd-compressed when that
// saves space. Callers always get decompressed copies, so they may mutate them.
type Compressed struct {
	cache *Cache[blob]
	enc   *zstd.Encoder
	dec   *zstd.Decoder
}

// NewCompressed creates a compressed cache holding at most size entries.
func NewCompressed(size int) (*Compressed, error) {
	cache, err := New[blob](size)
	if err != nil {
		return nil, err
	}

	// nil writer/reader: only the stateless EncodeAll/DecodeAll are used.
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd encoder: %w", err)
	}

	dec, err := zstd.NewReader(nil, zstd.WithDecoderConcurrency(0))
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd decoder: %w", err)
	}

	return &Compressed{cache: cache, enc: enc, dec: dec}, nil
}

// Add stores a copy of value under key. It reports whether an entry was evicted.
func (c *Compressed) Add(key string, value []byte) bool {
	b := blob{data: c.enc.EncodeAll(value, nil), compressed: true}
	if len(b.data) >= len(value) {
		b = blob{data: append([]byte(nil), value...)}
	}

	return c.cache.Add(key, b)
}

// Get returns the value for key and marks it most recently used. A value
// that fails to decompress is dropped and reported as missing.
func (c *Compressed) Get(key string) ([]byte, bool) {
	b, ok := c.cache.Get(key)
	if !ok {
		return nil, false
	}

	return c.open(key, b)
}

// Peek is Get without touching the LRU order.
func (c *Compressed) Peek(key string) ([]byte, bool) {
	b, ok := c.cache.Peek(key)
	if !ok {
		return nil, false
	}

	return c.open(key, b)
}

// Remove deletes key and reports whether it was present.
func (c *Compressed) Remove(key string) bool {
	return c.cache.Remove(key)
}

// Keys returns the keys from the oldest to the newest.
func (c *Compressed) Keys() []string {
	return c.cache.Keys()
}

// Len returns the number of entries.
func (c *Compressed) Len() int {
	return c.cache.Len()
}

func (c *Compressed) open(key string, b blob) ([]byte, bool) {
	if !b.compressed {
		return append([]byte(nil), b.data...), true
	}

	out, err := c.dec.DecodeAll(b.data, nil)
	if err != nil {
		c.cache.Remove(key)

		return nil, false
	}

	return out, true
}

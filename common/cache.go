// Copyright 2021-2023
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package common

import (
	"bytes"
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/go-redis/redis/v8"
	lru "github.com/hashicorp/golang-lru"
	"github.com/pierrec/lz4/v4"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
	"github.com/zeebo/blake3"
)

const defaultLocalCacheSize = 256

// Cache stores lz4 compressed result payloads in a process-local LRU and,
// when configured, in a shared redis tier
type Cache struct {
	local *lru.Cache
	rdb   *redis.Client
	ttl   time.Duration
}

// NewCache creates a cache with the given number of local entries. If redisURL
// is non-empty entries are also written to redis with the given ttl.
func NewCache(localSize int, redisURL string, ttl time.Duration) (*Cache, error) {
	if localSize <= 0 {
		localSize = defaultLocalCacheSize
	}

	local, err := lru.New(localSize)
	if err != nil {
		return nil, fmt.Errorf("could not create LRU cache: %w", err)
	}

	c := &Cache{
		local: local,
		ttl:   ttl,
	}

	if redisURL != "" {
		opt, err := redis.ParseURL(redisURL)
		if err != nil {
			return nil, fmt.Errorf("could not parse redis URL: %w", err)
		}
		c.rdb = redis.NewClient(opt)
	}

	return c, nil
}

// NewCacheFromConfig builds a cache from the cache.* config keys
func NewCacheFromConfig() (*Cache, error) {
	redisURL := ""
	if viper.GetBool("cache.redis") {
		redisURL = viper.GetString("cache.redis_url")
	}
	return NewCache(viper.GetInt("cache.local_size"), redisURL, time.Duration(viper.GetInt("cache.ttl"))*time.Second)
}

// Key hashes the parts into a stable cache key
func Key(parts ...[]byte) string {
	h := blake3.New()
	for _, p := range parts {
		// length prefix keeps ("ab","c") and ("a","bc") distinct
		fmt.Fprintf(h, "%d:", len(p))
		h.Write(p)
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Set compresses val and stores it under key
func (c *Cache) Set(ctx context.Context, key string, val []byte) error {
	compressed, err := compress(val)
	if err != nil {
		return err
	}

	c.local.Add(key, compressed)

	if c.rdb != nil {
		return c.rdb.Set(ctx, key, compressed, c.ttl).Err()
	}
	return nil
}

// Get returns the decompressed value stored under key; ok is false on a miss
func (c *Cache) Get(ctx context.Context, key string) (val []byte, ok bool, err error) {
	if v, found := c.local.Get(key); found {
		val, err = decompress(v.([]byte))
		return val, err == nil, err
	}

	if c.rdb == nil {
		return nil, false, nil
	}

	compressed, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		log.Warn().Err(err).Str("Key", key).Msg("redis cache lookup failed")
		return nil, false, err
	}

	// promote into the local tier
	c.local.Add(key, compressed)

	val, err = decompress(compressed)
	return val, err == nil, err
}

// Purge drops all locally cached entries
func (c *Cache) Purge() {
	c.local.Purge()
}

// Len returns the number of entries in the local tier
func (c *Cache) Len() int {
	return c.local.Len()
}

func compress(in []byte) ([]byte, error) {
	w := &bytes.Buffer{}
	zw := lz4.NewWriter(w)
	if _, err := zw.Write(in); err != nil {
		return nil, fmt.Errorf("lz4 compress: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("lz4 compress: %w", err)
	}
	return w.Bytes(), nil
}

func decompress(in []byte) ([]byte, error) {
	w := &bytes.Buffer{}
	if _, err := io.Copy(w, lz4.NewReader(bytes.NewReader(in))); err != nil {
		return nil, fmt.Errorf("lz4 decompress: %w", err)
	}
	return w.Bytes(), nil
}

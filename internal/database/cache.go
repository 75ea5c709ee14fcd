package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/valkey-io/valkey-go"
)

var ErrCacheUnavailable = errors.New("cache client is not configured")

type CacheBuilder struct {
	cache   CacheClient
	key     string
	value   any
	ttl     time.Duration
	pattern string
	ctx     context.Context
}

// NewCacheBuilder starts a cache operation on key. A nil client yields
// ErrCacheUnavailable from every terminal call.
func NewCacheBuilder(cache CacheClient, key any) *CacheBuilder {
	return &CacheBuilder{
		cache: cache,
		key:   fmt.Sprint(key),
		ctx:   context.Background(),
	}
}

func (b *CacheBuilder) WithStruct(value any) *CacheBuilder {
	b.value = value
	return b
}

func (b *CacheBuilder) WithTTL(ttl time.Duration) *CacheBuilder {
	b.ttl = ttl
	return b
}

// WithHashPattern namespaces the key, e.g. "spec_template:%s".
func (b *CacheBuilder) WithHashPattern(pattern string) *CacheBuilder {
	b.pattern = pattern
	return b
}

func (b *CacheBuilder) WithContext(ctx context.Context) *CacheBuilder {
	if ctx != nil {
		b.ctx = ctx
	}
	return b
}

func (b *CacheBuilder) Key() string {
	if b.pattern == "" {
		return b.key
	}
	return fmt.Sprintf(b.pattern, b.key)
}

func (b *CacheBuilder) Set() error {
	if b.cache == nil {
		return ErrCacheUnavailable
	}

	payload, err := json.Marshal(b.value)
	if err != nil {
		return fmt.Errorf("failed to marshal cache value: %w", err)
	}

	cmd := b.cache.B().Set().Key(b.Key()).Value(string(payload))
	if b.ttl > 0 {
		seconds := max(int64(b.ttl/time.Second), 1)
		return b.cache.Do(b.ctx, cmd.ExSeconds(seconds).Build()).Error()
	}
	return b.cache.Do(b.ctx, cmd.Build()).Error()
}

// Get decodes the cached value into dest. found is false on a miss.
func (b *CacheBuilder) Get(dest any) (found bool, err error) {
	if b.cache == nil {
		return false, ErrCacheUnavailable
	}

	raw, err := b.cache.Do(b.ctx, b.cache.B().Get().Key(b.Key()).Build()).ToString()
	if valkey.IsValkeyNil(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to get cache value: %w", err)
	}

	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		return false, fmt.Errorf("failed to unmarshal cache value: %w", err)
	}

	return true, nil
}

func (b *CacheBuilder) Delete() error {
	if b.cache == nil {
		return ErrCacheUnavailable
	}
	return b.cache.Do(b.ctx, b.cache.B().Del().Key(b.Key()).Build()).Error()
}

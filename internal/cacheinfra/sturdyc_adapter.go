package cacheinfra

import (
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	goerrors "github.com/goliatone/go-errors"
	"github.com/viccon/sturdyc"
)

// Config holds the configuration for the sturdyc cache adapter.
type Config struct {
	// Capacity defines the maximum number of entries that the cache can store.
	// Must be greater than 0.
	Capacity int

	// NumShards determines the number of cache shards for concurrent access.
	// Higher values improve concurrency but increase memory overhead.
	// Must be greater than 0. Default: 256
	NumShards int

	// TTL is the time-to-live for cached entries. An expired entry reads as a
	// miss, which the repository treats as a stale cache.
	// Must be greater than 0.
	TTL time.Duration

	// EvictionPercentage specifies what percentage of entries to evict
	// when the cache reaches its capacity. Must be between 1-100.
	// Default: 10 (evict 10% of entries)
	EvictionPercentage int

	// EvictionInterval sets how often the cache checks for expired entries.
	// Zero value uses the default interval.
	EvictionInterval time.Duration
}

// DefaultConfig returns a Config with sensible defaults for a task list.
func DefaultConfig() Config {
	return Config{
		Capacity:           10000,
		NumShards:          16,
		TTL:                24 * time.Hour,
		EvictionPercentage: 10,
		EvictionInterval:   0, // Use default
	}
}

// ToSturdycOptions converts the Config to sturdyc.Option slice.
// Capacity, NumShards, TTL, and EvictionPercentage are passed directly
// to sturdyc.New() and are not included in the options.
func (c Config) ToSturdycOptions() []sturdyc.Option {
	var options []sturdyc.Option

	if c.EvictionInterval > 0 {
		options = append(options, sturdyc.WithEvictionInterval(c.EvictionInterval))
	}

	return options
}

// Validate checks if the configuration values are valid.
// The returned error is a go-errors validation error listing every bad field.
func (c Config) Validate() error {
	positive := func(msg string) []validation.Rule {
		return []validation.Rule{validation.Required.Error(msg), validation.Min(1).Error(msg)}
	}

	err := validation.ValidateStruct(&c,
		validation.Field(&c.Capacity, positive("must be greater than 0")...),
		validation.Field(&c.NumShards, positive("must be greater than 0")...),
		validation.Field(&c.TTL, positive("must be greater than 0")...),
		validation.Field(&c.EvictionPercentage,
			append(positive("must be between 1 and 100"), validation.Max(100).Error("must be between 1 and 100"))...,
		),
		validation.Field(&c.EvictionInterval, validation.Min(0).Error("must be non-negative")),
	)
	if err != nil {
		return goerrors.FromOzzoValidation(err, "invalid cache config")
	}
	return nil
}

// sturdycStore wraps a sturdyc client providing the cache.Store behaviour.
type sturdycStore[T any] struct {
	client *sturdyc.Client[T]
}

// NewSturdycStore creates a new sturdyc backed store.
// It validates the configuration and initializes a sturdyc client with the provided settings.
//
// Version compatibility note: This implementation assumes sturdyc v1.x API.
func NewSturdycStore[T any](cfg Config) (*sturdycStore[T], error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	client := sturdyc.New[T](
		cfg.Capacity,
		cfg.NumShards,
		cfg.TTL,
		cfg.EvictionPercentage,
		cfg.ToSturdycOptions()...,
	)

	return &sturdycStore[T]{client: client}, nil
}

// Get returns the cached value for key. Expired and evicted entries report false.
func (s *sturdycStore[T]) Get(key string) (T, bool) {
	return s.client.Get(key)
}

// Set stores value under key, replacing any previous entry.
func (s *sturdycStore[T]) Set(key string, value T) {
	s.client.Set(key, value)
}

// Delete removes a single entry from the cache.
func (s *sturdycStore[T]) Delete(key string) {
	s.client.Delete(key)
}

// DeleteByPrefix removes all entries whose key starts with prefix.
func (s *sturdycStore[T]) DeleteByPrefix(prefix string) {
	for _, key := range s.client.ScanKeys() {
		if strings.HasPrefix(key, prefix) {
			s.client.Delete(key)
		}
	}
}

// Len returns the number of entries currently held by the cache.
func (s *sturdycStore[T]) Len() int {
	return s.client.Size()
}

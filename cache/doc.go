// Package cache provides the key/value store and key serialization used by the
// task repository cache.
//
// # Overview
//
// This package exports two interfaces and their default implementations:
//
//   - Store: a generic key/value store whose entries may expire or be evicted
//   - KeySerializer: builds stable cache keys from method names and arguments
//
// The default Store is backed by sturdyc (see internal/cacheinfra). It is
// sharded, bounded by Capacity and expires entries after TTL.
//
// # Basic Usage
//
//	store, err := cache.NewStore[task.Task](cache.DefaultConfig())
//	if err != nil {
//		return err
//	}
//	keys := cache.NewNamespacedKeySerializer("todo")
//	store.Set(keys.SerializeKey("task", t.ID), t)
//
// # Eviction
//
// A Store is allowed to forget entries. Components that need a complete
// listing (such as repositorycache.TasksRepository) keep their own index of
// expected keys and treat a missing entry as a stale cache rather than as a
// deleted record.
//
// # Configuration
//
// Config mirrors the sturdyc options. Validate reports every invalid field at
// once as a go-errors validation error:
//
//	cfg := cache.DefaultConfig()
//	cfg.TTL = 0
//	err := cfg.Validate() // [validation] invalid cache config ... TTL: must be greater than 0
package cache

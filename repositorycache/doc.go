// Package repositorycache provides TasksRepository, the single entry point for
// reading and writing tasks held by a local and a remote task.DataSource.
//
// # Reads
//
// GetTasks answers from the cache while the cache is valid. A forced or dirty
// read goes to the remote source, replaces the cache with the result and
// mirrors the same tasks into the local source in the background. When the
// remote source fails the local contents are returned and the cache stays
// dirty until a later remote fetch succeeds.
//
// GetTask looks in the cache, then the local source, then the remote source.
//
// # Writes
//
// Every write goes to the remote source, then the local source, then the
// cache. Writes run detached from the caller's context once started, so an
// abandoned request still leaves the cache consistent with the stores.
//
// # Cache state
//
//	EMPTY --fetch--> VALID --write--> VALID
//	VALID --refresh, force, remote failure--> DIRTY --fetch--> VALID
//
// Entries can also leave the underlying cache.Store on their own (TTL,
// capacity eviction). A listing never returns a partial result; a missing
// entry marks the cache dirty instead.
//
// # Usage
//
//	store, err := cache.NewStore[task.Task](cache.DefaultConfig())
//	if err != nil {
//		return err
//	}
//	repo := repositorycache.New(local, remote, store,
//		repositorycache.WithLogger(logger),
//		repositorycache.WithStoreTimeout(5*time.Second),
//	)
//	defer repo.Close()
//
//	tasks, err := repo.GetTasks(ctx, false)
//
// Applications normally obtain repositories from pkg/di, which hands out one
// repository per (local, remote) pair.
package repositorycache

package di

import (
	"errors"
	"sync"

	"github.com/goliatone/go-task-repository/cache"
	"github.com/goliatone/go-task-repository/repositorycache"
	"github.com/goliatone/go-task-repository/task"
	"github.com/goliatone/go-task-repository/usecase"
)

// Container is the composition root for task repositories.
// It owns a single cache store and key serializer and hands out exactly one
// TasksRepository per (local, remote) pair, so two repositories never cache
// the same stores independently.
//
// Data sources are used as map keys and must be comparable, which holds for
// the pointer types in the datasource packages.
type Container struct {
	store         cache.Store[task.Task]
	keySerializer cache.KeySerializer
	config        cache.Config
	options       []repositorycache.Option

	mu    sync.Mutex
	repos map[sourcePair]*repositorycache.TasksRepository
}

type sourcePair struct {
	local  task.DataSource
	remote task.DataSource
}

// NewContainer creates a container with the provided cache configuration.
// opts are applied to every repository the container creates.
func NewContainer(config cache.Config, opts ...repositorycache.Option) (*Container, error) {
	store, err := cache.NewStore[task.Task](config)
	if err != nil {
		return nil, err
	}

	return &Container{
		store:         store,
		keySerializer: cache.NewDefaultKeySerializer(),
		config:        config,
		options:       opts,
		repos:         make(map[sourcePair]*repositorycache.TasksRepository),
	}, nil
}

// NewContainerWithDefaults creates a container using cache.DefaultConfig.
func NewContainerWithDefaults(opts ...repositorycache.Option) (*Container, error) {
	return NewContainer(cache.DefaultConfig(), opts...)
}

// Store returns the shared cache store.
func (c *Container) Store() cache.Store[task.Task] {
	return c.store
}

// KeySerializer returns the serializer that names each repository's namespace.
func (c *Container) KeySerializer() cache.KeySerializer {
	return c.keySerializer
}

// Config returns a copy of the cache configuration.
func (c *Container) Config() cache.Config {
	return c.config
}

// Repository returns the repository for the (local, remote) pair, creating it
// on first use. Every repository keys its entries under its own namespace in
// the shared store.
func (c *Container) Repository(local, remote task.DataSource) *repositorycache.TasksRepository {
	c.mu.Lock()
	defer c.mu.Unlock()

	pair := sourcePair{local: local, remote: remote}
	if repo, ok := c.repos[pair]; ok {
		return repo
	}

	namespace := c.keySerializer.SerializeKey("tasks", len(c.repos))
	opts := append([]repositorycache.Option{
		repositorycache.WithKeySerializer(cache.NewNamespacedKeySerializer(namespace)),
	}, c.options...)

	repo := repositorycache.New(local, remote, c.store, opts...)
	c.repos[pair] = repo
	return repo
}

// UseCases builds the command set over repo.
func (c *Container) UseCases(repo usecase.Repository, background, delivery usecase.Scheduler) *usecase.UseCases {
	return usecase.New(repo, background, delivery)
}

// Close waits for every repository's background work.
func (c *Container) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var errs []error
	for _, repo := range c.repos {
		if err := repo.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

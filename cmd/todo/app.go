package main

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"github.com/goliatone/go-task-repository/datasource/remote"
	"github.com/goliatone/go-task-repository/datasource/sqlite"
	"github.com/goliatone/go-task-repository/pkg/di"
	"github.com/goliatone/go-task-repository/repositorycache"
	"github.com/goliatone/go-task-repository/usecase"
)

// app wires the repository stack for one CLI invocation.
type app struct {
	local     *sqlite.Store
	container *di.Container
	repo      *repositorycache.TasksRepository
	uc        *usecase.UseCases
}

func openApp(ctx context.Context, cfg Config, logger *slog.Logger) (*app, error) {
	local, err := sqlite.Open(ctx, cfg.Local.Path)
	if err != nil {
		return nil, err
	}

	container, err := di.NewContainer(cfg.Cache,
		repositorycache.WithLogger(logger),
		repositorycache.WithStoreTimeout(cfg.Store.Timeout),
	)
	if err != nil {
		local.Close()
		return nil, err
	}

	client := remote.NewClient(cfg.Remote.URL, remote.WithTimeout(cfg.Remote.Timeout))
	repo := container.Repository(local, client)

	return &app{
		local:     local,
		container: container,
		repo:      repo,
		uc:        container.UseCases(repo, usecase.Immediate{}, usecase.Immediate{}),
	}, nil
}

// Close waits for pending mirror writes before closing the local store.
func (a *app) Close() error {
	return errors.Join(a.container.Close(), a.local.Close())
}

func newLogger(cfg Config) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
}

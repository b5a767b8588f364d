package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-task-repository/datasource/remote"
	"github.com/goliatone/go-task-repository/datasource/sqlite"
	"github.com/goliatone/go-task-repository/task"
	"github.com/goliatone/go-task-repository/usecase"
)

const shutdownTimeout = 5 * time.Second

// cli carries state shared by the subcommands of one invocation.
type cli struct {
	configPath string
	cfg        Config
	logger     *slog.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:   "todo",
		Short: "Manage tasks through a cached repository",
		Long: `Manage tasks through a cached repository.

Reads are served from an in-memory cache, then the remote API, then the
local SQLite mirror. Writes go to both the local and the remote store.

Configuration is read from $HOME/.todo/config.yaml (or --config) and can be
overridden with TODO_* environment variables, e.g. TODO_REMOTE_URL.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := LoadConfig(c.configPath)
			if err != nil {
				return err
			}
			c.cfg = cfg
			c.logger = newLogger(cfg)
			return nil
		},
	}
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $HOME/.todo/config.yaml)")

	root.AddCommand(
		c.listCmd(),
		c.showCmd(),
		c.addCmd(),
		c.byIDCmd("complete", "Mark a task as completed", func(uc *usecase.UseCases) *usecase.Command[usecase.TaskIDRequest, usecase.Empty] {
			return uc.CompleteTask
		}),
		c.byIDCmd("activate", "Mark a task as active", func(uc *usecase.UseCases) *usecase.Command[usecase.TaskIDRequest, usecase.Empty] {
			return uc.ActivateTask
		}),
		c.byIDCmd("delete", "Delete a task", func(uc *usecase.UseCases) *usecase.Command[usecase.TaskIDRequest, usecase.Empty] {
			return uc.DeleteTask
		}),
		c.clearCompletedCmd(),
		c.statsCmd(),
		c.serveCmd(),
	)
	return root
}

// withApp opens the repository stack, runs fn and closes the stack.
func (c *cli) withApp(ctx context.Context, fn func(*app) error) (err error) {
	a, err := openApp(ctx, c.cfg, c.logger)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, a.Close())
	}()
	return fn(a)
}

func (c *cli) listCmd() *cobra.Command {
	var active, completed, refresh bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			filter := task.AllTasks
			switch {
			case active:
				filter = task.ActiveTasks
			case completed:
				filter = task.CompletedTasks
			}

			return c.withApp(cmd.Context(), func(a *app) error {
				resp, err := a.uc.GetTasks.Run(cmd.Context(), usecase.GetTasksRequest{
					ForceUpdate: refresh,
					Filter:      filter,
				})
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(resp.Tasks) == 0 {
					if filter == task.AllTasks {
						fmt.Fprintln(out, "No tasks")
					} else {
						fmt.Fprintf(out, "No %s tasks\n", filter)
					}
					return nil
				}
				for _, t := range resp.Tasks {
					printTask(out, t)
				}
				return nil
			})
		},
	}
	cmd.Flags().Bool("all", false, "show all tasks (default)")
	cmd.Flags().BoolVar(&active, "active", false, "show active tasks only")
	cmd.Flags().BoolVar(&completed, "completed", false, "show completed tasks only")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "bypass the cache and reload from the remote store")
	cmd.MarkFlagsMutuallyExclusive("all", "active", "completed")
	return cmd
}

func (c *cli) showCmd() *cobra.Command {
	var refresh bool

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a single task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withApp(cmd.Context(), func(a *app) error {
				resp, err := a.uc.GetTask.Run(cmd.Context(), usecase.GetTaskRequest{ID: args[0], ForceUpdate: refresh})
				if err != nil {
					return err
				}
				t := resp.Task
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "ID:          %s\n", t.ID)
				fmt.Fprintf(out, "Title:       %s\n", t.Title)
				fmt.Fprintf(out, "Description: %s\n", t.Description)
				fmt.Fprintf(out, "Status:      %s\n", status(t))
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&refresh, "refresh", false, "bypass the cache and read from the data sources")
	return cmd
}

func (c *cli) addCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <title> [description]",
		Short: "Add a task",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var description string
			if len(args) == 2 {
				description = args[1]
			}
			return c.withApp(cmd.Context(), func(a *app) error {
				resp, err := a.uc.SaveTask.Run(cmd.Context(), usecase.SaveTaskRequest{Task: task.New(args[0], description)})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added %s\n", resp.Task.ID)
				return nil
			})
		},
	}
}

func (c *cli) byIDCmd(use, short string, pick func(*usecase.UseCases) *usecase.Command[usecase.TaskIDRequest, usecase.Empty]) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withApp(cmd.Context(), func(a *app) error {
				if _, err := pick(a.uc).Run(cmd.Context(), usecase.TaskIDRequest{ID: args[0]}); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", use, args[0])
				return nil
			})
		},
	}
}

func (c *cli) clearCompletedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear-completed",
		Short: "Delete every completed task",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withApp(cmd.Context(), func(a *app) error {
				if _, err := a.uc.ClearCompletedTasks.Run(cmd.Context(), usecase.Empty{}); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Cleared completed tasks")
				return nil
			})
		},
	}
}

func (c *cli) statsCmd() *cobra.Command {
	var refresh bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show active and completed counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withApp(cmd.Context(), func(a *app) error {
				resp, err := a.uc.GetStatistics.Run(cmd.Context(), usecase.GetStatisticsRequest{ForceUpdate: refresh})
				if err != nil {
					return err
				}
				s := resp.Statistics
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Active:    %d\n", s.Active)
				fmt.Fprintf(out, "Completed: %d (%.1f%%)\n", s.Completed, s.CompletedPercent())
				fmt.Fprintf(out, "Total:     %d\n", s.Total())
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&refresh, "refresh", false, "bypass the cache and reload from the remote store")
	return cmd
}

func (c *cli) serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the task API over a SQLite store",
		Long: `Serve the task API that the other commands use as their remote store.
Tasks are kept in the SQLite database at serve.path.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := openServeStore(ctx, c.cfg.Serve.Path, c.logger)
			if err != nil {
				return err
			}
			defer store.Close()

			gin.SetMode(gin.ReleaseMode)
			srv := &http.Server{
				Addr:    c.cfg.Serve.Addr,
				Handler: remote.NewHandler(store, requestLogger(c.logger)),
			}

			errc := make(chan error, 1)
			go func() {
				c.logger.Info("serving task API", "addr", srv.Addr)
				errc <- srv.ListenAndServe()
			}()

			select {
			case err := <-errc:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}
}

// openServeStore opens the database behind the served API and logs its size.
func openServeStore(ctx context.Context, path string, logger *slog.Logger) (*sqlite.Store, error) {
	store, err := sqlite.Open(ctx, path)
	if err != nil {
		return nil, err
	}
	n, err := store.Count(ctx)
	if err != nil {
		store.Close()
		return nil, err
	}
	logger.Info("opened task store", "path", path, "tasks", n)
	return store, nil
}

// requestLogger logs one line per API request.
func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}

func printTask(w io.Writer, t task.Task) {
	mark := " "
	if t.Completed {
		mark = "x"
	}
	fmt.Fprintf(w, "[%s] %s  %s\n", mark, t.ID, t.DisplayTitle())
}

func status(t task.Task) string {
	if t.Completed {
		return "completed"
	}
	return "active"
}

// Command todo manages tasks through the cached repository. Reads come from
// the cache, then the remote API, then the local SQLite mirror.
//
// Usage:
//
//	todo add "Buy milk" "2 litres"
//	todo list --active --refresh
//	todo complete <id>
//	todo serve
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

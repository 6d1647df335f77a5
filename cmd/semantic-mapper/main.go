// Package main provides the CLI entrypoint for semantic-mapper.
//
// semantic-mapper reads a YAML description of heterogeneous resources
// (CSV, JSON, YAML), plans how their attributes align, and writes the
// described records as N-Triples:
//   - check validates a description
//   - plan shows the class order and per-class execution plans
//   - map runs the mapping
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := NewRootCmd().ExecuteContext(ctx)

	stop()

	if err != nil {
		slog.Error("semantic-mapper failed", "error", err)
		os.Exit(1)
	}
}

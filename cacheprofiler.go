package main

import (
	"cacheprofiler/cmd"
	"context"
	"os"
	"os/signal"
	"syscall"
)

// Overview:
// - profile: pointer chase buffers of growing size and write the median latency per size to measurements/
// - no subcommand (or visualize): take the newest file in measurements/ and plot it to graphs/
func main() {
	// Ctrl+C stops a long profile run between test sizes
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	cmd.Execute(ctx)
}

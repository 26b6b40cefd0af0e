package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/karupanerura/async-image/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rootCmd := cli.New(os.Stdout, os.Stderr)
	if cmd, err := rootCmd.ExecuteContextC(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		if cli.IsUsageError(err) {
			cmd.Println("")
			cmd.Println(cmd.UsageString())
		}
		stop()
		os.Exit(1)
	}
}

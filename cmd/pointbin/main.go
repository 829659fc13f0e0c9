// Command pointbin loads raw binary point files into a workspace catalog and
// exports catalog datasets back to raw binary files.
package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/justapithecus/pointbin/cmd/pointbin/commands"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := commands.NewRootCommand().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

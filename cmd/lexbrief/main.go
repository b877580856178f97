// lexbrief mirrors labor-law consultation archives into local vector
// collections and composes weekly HR newsletters from news, consultation
// cases and policy announcements.
//
// Usage:
//
//	lexbrief sync          # crawl and index every source
//	lexbrief newsletter    # compose a newsletter in the terminal
//	lexbrief tui           # full-screen interface
//	lexbrief mcp serve     # expose search to AI assistants
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/custodia-labs/lexbrief/internal/adapters/driving/cli"
	"github.com/custodia-labs/lexbrief/internal/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	cli.SetInitializer(buildServices)
	err := cli.Execute(ctx)

	stop()
	logger.Sync()
	if err != nil {
		// cobra has already printed the error.
		os.Exit(1)
	}
}

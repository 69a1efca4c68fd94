// Command topicgap finds the topics competitor pages cover that a target
// page does not.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/custodia-labs/topicgap/internal/adapters/driving/cli"
	"github.com/custodia-labs/topicgap/internal/app"
	"github.com/custodia-labs/topicgap/internal/logger"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = ""

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cli.SetVersion(version)
	cli.SetBootstrap(bootstrap)

	if err := cli.Execute(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}

func bootstrap(ctx context.Context, configDir string) (cli.Services, func() error, error) {
	a, err := app.New(ctx, app.Options{ConfigDir: configDir})
	if err != nil {
		return cli.Services{}, nil, err
	}
	for _, w := range a.Warnings {
		logger.Warn("%s", w)
	}

	svcs := cli.Services{
		Topic:       a.Topics,
		Reports:     a.Reports,
		Settings:    a.Settings,
		AnalysisErr: a.AnalysisErr,
	}
	// Keep the interface nil rather than holding a nil pointer.
	if a.Analysis != nil {
		svcs.Analysis = a.Analysis
	}
	return svcs, a.Close, nil
}

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"socialpost-ai/internal/app"
	"socialpost-ai/internal/config"
	"socialpost-ai/pkg/log"
	"socialpost-ai/pkg/log/transporters"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, cfgErr := config.Load()

	logger := log.New(log.LevelOr(cfg.LogLevel, log.Info), transporters.NewConsole())
	log.SetDefault(logger)
	defer logger.Close()

	if cfgErr != nil {
		log.GlobalWarn("invalid configuration values, using defaults", "error", cfgErr)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	build := func() (PostGenerator, func(), error) {
		a, err := app.New(cfg)
		if err != nil {
			return nil, nil, err
		}
		return a.Generator, a.Close, nil
	}

	if err := newRootCmd(cfg, build).ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "postgen: %v\n", err)
		return 1
	}
	return 0
}

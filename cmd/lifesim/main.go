// Package main is the interactive terminal player.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/MRamiBalles/LifeSimulator/internal/backend"
	"github.com/MRamiBalles/LifeSimulator/internal/cli"
	"github.com/MRamiBalles/LifeSimulator/internal/engine"
	"github.com/MRamiBalles/LifeSimulator/internal/gateway"
	"github.com/MRamiBalles/LifeSimulator/internal/platform/config"
	"github.com/MRamiBalles/LifeSimulator/internal/platform/logger"
)

func main() {
	seed := flag.Uint64("seed", 0, "Seed the random source for a reproducible run (0 = random)")
	remote := flag.Bool("remote", false, "Use the remote simulation service when signed in")
	flag.Parse()

	if err := run(*seed, *remote); err != nil {
		fmt.Fprintf(os.Stderr, "lifesim: %v\n", err)
		os.Exit(1)
	}
}

func run(seed uint64, remote bool) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	// Keep the terminal clean: only warnings and errors reach stderr.
	log := logger.New(os.Stderr, "warn")

	if seed == 0 {
		seed = cfg.Seed
	}
	opts := engine.Options{Logger: log}
	if seed != 0 {
		opts.Random = engine.SeededRandom(seed)
	}
	demo := engine.NewEngine(opts)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	var driver gateway.Driver = gateway.NewLocalDriver(demo)
	if remote {
		selectCtx, done := context.WithTimeout(ctx, 10*time.Second)
		driver, err = gateway.Select(selectCtx, backend.NewClient(cfg.BackendURL), demo, log)
		done()
		if err != nil {
			fmt.Fprintf(os.Stderr, "remote unavailable, playing the demo: %v\n", err)
		}
	}

	return cli.NewREPL(driver, os.Stdin, os.Stdout).Run(ctx)
}

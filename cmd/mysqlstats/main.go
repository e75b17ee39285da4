// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/automaxprocs/maxprocs"

	"github.com/netdata/netdata/go/mysqlstats/agent"
	"github.com/netdata/netdata/go/mysqlstats/cli"
	"github.com/netdata/netdata/go/mysqlstats/logger"
	"github.com/netdata/netdata/go/mysqlstats/pkg/buildinfo"
	"github.com/netdata/netdata/go/mysqlstats/pkg/executable"
)

func main() {
	_, _ = maxprocs.Set(maxprocs.Logger(func(s string, args ...interface{}) {}))

	opts := parseCLI()

	if opts.Version {
		fmt.Printf("%s, version: %s\n", executable.Name, buildinfo.Version)
		return
	}

	if opts.Debug {
		logger.Level.Set(slog.LevelDebug)
	}

	cfg, err := agent.LoadConfig(opts.Config)
	if err != nil {
		logger.New().Errorf("error on loading config '%s': %v", opts.Config, err)
		os.Exit(1)
	}
	opts.ApplyTo(&cfg)

	log := logger.New()
	if cfg.LogFile != "" {
		log = logger.NewWithFile(cfg.LogFile)
	}
	if err := logger.Level.SetByName(cfg.LogLevel); err != nil {
		log.Errorf("config: %v", err)
		os.Exit(1)
	}
	if cfg.Debug {
		logger.Level.Set(slog.LevelDebug)
	}

	os.Exit(run(cfg, log))
}

func run(cfg agent.Config, log *logger.Logger) int {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	log.Debugf("%s %s, host '%s'", executable.Name, buildinfo.Version, cfg.Host)

	line, err := agent.New(cfg, log).Run(ctx)
	if err != nil {
		log.Error(err)
		return 1
	}

	fmt.Println(line)
	return 0
}

func parseCLI() *cli.Option {
	opt, err := cli.Parse(os.Args[1:])
	if err != nil {
		if cli.IsHelp(err) {
			fmt.Println(err)
			os.Exit(0)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	return opt
}

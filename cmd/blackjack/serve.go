package main

import (
	"os"
	"time"

	"github.com/lox/blackjack/cmd/blackjack/shared"
	"github.com/lox/blackjack/internal/server"
)

// ServeCmd serves rounds over websockets
type ServeCmd struct {
	Addr        string        `help:"Server address (overrides config)"`
	IdleTimeout time.Duration `help:"Close sessions idle for this long (overrides config)"`
	MaxSessions int           `help:"Maximum concurrent sessions (overrides config)"`
	Seed        *int64        `help:"Deterministic seed stream for rounds started without a seed (optional)"`
}

func (c *ServeCmd) Run(g *Globals) error {
	cfg, err := g.load()
	if err != nil {
		return err
	}
	if c.Addr != "" {
		cfg.Server.Address = c.Addr
	}
	if c.IdleTimeout > 0 {
		cfg.Server.IdleTimeout = int(c.IdleTimeout / time.Second)
	}
	if c.MaxSessions > 0 {
		cfg.Server.MaxSessions = c.MaxSessions
	}
	if c.Seed != nil {
		cfg.Game.Seed = c.Seed
	}
	if err := validate(cfg); err != nil {
		return err
	}

	logger, err := shared.SetupLogger(os.Stderr, cfg.UI.LogLevel)
	if err != nil {
		return err
	}

	var opts []server.Option
	if cfg.Game.Seed != nil {
		logger.Info("Using deterministic seed", "seed", *cfg.Game.Seed)
		opts = append(opts, server.WithSeed(*cfg.Game.Seed))
	}

	srv := server.NewServer(server.Config{
		Addr:        cfg.Server.Address,
		IdleTimeout: time.Duration(cfg.Server.IdleTimeout) * time.Second,
		MaxSessions: cfg.Server.MaxSessions,
	}, logger, opts...)

	ctx, cancel := shared.SetupSignalHandler(logger)
	defer cancel()

	return srv.ListenAndServe(ctx)
}

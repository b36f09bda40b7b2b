// Command deskgame is the interactive desk: inspect each card and press
// accept or reject.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/hajimehoshi/ebiten/v2"
	"golang.org/x/sync/errgroup"

	"github.com/zeusync/deskcheck/internal/config"
	"github.com/zeusync/deskcheck/internal/core/observability/log"
	"github.com/zeusync/deskcheck/internal/desk/round"
	"github.com/zeusync/deskcheck/internal/injector"
	"github.com/zeusync/deskcheck/internal/ledger"
	"github.com/zeusync/deskcheck/internal/server"
)

type app struct {
	ctx    context.Context
	game   *injector.Game
	render *renderer
	width  int
	height int
}

func (a *app) Update() error {
	if a.ctx.Err() != nil || ebiten.IsKeyPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	a.game.Loop.Step(1 / float64(ebiten.TPS()))
	return nil
}

func (a *app) Draw(screen *ebiten.Image) { a.render.draw(screen) }

func (a *app) Layout(int, int) (int, int) { return a.width, a.height }

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "deskgame:", err)
		os.Exit(1)
	}
}

func run() error {
	path := flag.String("config", "", "path to a YAML config file")
	seed := flag.Uint64("seed", 0, "trial seed; 0 keeps the configured one")
	flag.Parse()

	cfg, err := config.LoadFile(*path)
	if err != nil {
		return err
	}
	if *seed != 0 {
		cfg.Trial.Seed = *seed
	}
	logger, err := log.New(cfg.Log)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	g, ctx := errgroup.WithContext(ctx)

	var extras injector.Extras
	var feed *server.Feed
	if cfg.Server.Enabled {
		feed = server.NewFeed(cfg.Server, logger)
		extras.Score = feed
	}
	if cfg.Ledger.Enabled {
		store, err := ledger.Open(cfg.Ledger.Path)
		if err != nil {
			return fmt.Errorf("open ledger: %w", err)
		}
		defer func() { _ = store.Close() }()
		sess, err := store.NewSession("deskgame", cfg.Trial.Seed)
		if err != nil {
			return err
		}
		extras.Recorder = store.Recorder(sess.ID)
		logger.Info("ledger session", log.String("session", sess.ID), log.String("path", cfg.Ledger.Path))
	}

	src, err := newSampler(cfg.Bindings)
	if err != nil {
		return err
	}
	game, err := injector.InitializeGame(cfg, src, cursorBackend{}, extras, logger)
	if err != nil {
		return fmt.Errorf("wire desk: %w", err)
	}
	if feed != nil {
		if err := feed.Attach(game.Events, round.TopicDesk); err != nil {
			return err
		}
		g.Go(func() error { return feed.ListenAndServe(ctx) })
	}

	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	ebiten.SetWindowTitle(cfg.Window.Title)
	game.Loop.Start()

	a := &app{ctx: ctx, game: game, render: newRenderer(game, cfg), width: cfg.Window.Width, height: cfg.Window.Height}
	runErr := ebiten.RunGame(a)
	stop()
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	if runErr != nil && !errors.Is(runErr, ebiten.Termination) {
		return runErr
	}
	t := game.Loop.Desk().Sequencer().Tally()
	logger.Info("desk closed", log.Int("correct", t.Correct), log.Int("mistakes", t.Mistakes))
	return nil
}

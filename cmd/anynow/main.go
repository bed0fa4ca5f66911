package main

import (
	"context"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/sync/errgroup"

	"anynow/internal/bridge"
	"anynow/internal/config"
	"anynow/internal/http/handlers"
	"anynow/internal/http/server"
	applog "anynow/internal/log"
	"anynow/internal/storage"
	"anynow/internal/watch"
)

func main() {
	cfg := config.Load()

	// Optional file logging
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			log.Printf("[warn] could not open log file %s: %v", cfg.LogFile, err)
		} else {
			defer f.Close()
			mw := io.MultiWriter(os.Stdout, f)
			log.SetOutput(mw)
			applog.SetOutput(mw)
		}
	}
	applog.SetLevel(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, cfg config.Config) error {
	store, err := storage.Open(ctx, cfg.Backend, cfg.DBDSN, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisPrefix)
	if err != nil {
		return err
	}
	defer store.Close()

	b, err := bridge.New(ctx, store, bridge.DefaultSeed())
	if err != nil {
		return err
	}
	hub := watch.NewHub(store)
	defer hub.Close()

	svc, err := handlers.NewServices(store, b, hub, cfg)
	if err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)

	watcher := svc.Sync(ctx, cfg.PollInterval)
	defer watcher.Stop()

	if sq, ok := store.Backend().(*storage.SQLiteBackend); ok && sq.Path() != "" {
		n, err := watch.NewFileNotifier(sq.Path(), watcher)
		if err != nil {
			applog.Component("main").WithError(err).Warn("watch.file.disabled")
		} else {
			g.Go(func() error { return n.Run(ctx) })
		}
	}

	opts := server.DefaultOptions()
	if cfg.RunStorefront() {
		serve(ctx, g, server.NewStorefront(handlers.NewStorefront(svc), opts), cfg.StorefrontAddr, hub.Close)
	}
	if cfg.RunAdmin() {
		serve(ctx, g, server.NewAdmin(handlers.NewAdmin(svc), opts), cfg.AdminAddr, hub.Close)
	}

	err = g.Wait()
	applog.Component("main").Info("shutdown.complete")
	return err
}

// serve runs app on addr until ctx ends, then shuts it down gracefully.
// endStreams runs first so open update streams do not hold the shutdown.
func serve(ctx context.Context, g *errgroup.Group, app *fiber.App, addr string, endStreams func()) {
	lg := applog.Component("main").WithField("app", app.Config().AppName).WithField("addr", addr)
	g.Go(func() error {
		lg.Info("server.start")
		return app.Listen(addr)
	})
	g.Go(func() error {
		<-ctx.Done()
		lg.Info("server.stop")
		endStreams()
		return app.ShutdownWithTimeout(10 * time.Second)
	})
}

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	cvhttp "github.com/goliatone/go-cvbuilder/adapters/http"
	"github.com/goliatone/go-cvbuilder/app"
	"github.com/goliatone/go-cvbuilder/config"
	"github.com/goliatone/go-cvbuilder/logging"
)

type cli struct {
	Serve serveCmd `cmd:"" default:"1" help:"Run the local CV editor."`
}

type serveCmd struct{}

func (serveCmd) Run(a *app.App) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := a.Start(ctx); err != nil {
		return err
	}

	server := cvhttp.NewServer(a.HTTP,
		recover.New(),
		logger.New(logger.Config{
			Format: "[${time}] ${status} ${method} ${path} ${latency}\n",
		}),
	)

	errCh := make(chan error, 1)
	go func() {
		a.Logger.Infof("cvbuilder listening on http://%s", a.Config.Server.Addr)
		errCh <- server.Serve(a.Config.Server.Addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	a.Logger.Infof("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	zl, err := logging.New(cfg.Log.Level, cfg.Log.File)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer zl.Sync()
	log := logging.Sugar(zl)

	ctx := context.Background()
	application, err := app.New(ctx, cfg, log)
	if err != nil {
		log.Errorf("startup failed: %v", err)
		os.Exit(1)
	}

	options := []kong.Option{
		kong.Name("cvbuilder"),
		kong.Description("Local CV builder with live preview and PDF export."),
		kong.UsageOnError(),
		kong.Bind(application),
	}
	if prune := application.Handlers.PruneHistory; prune != nil {
		opts := prune.CLIOptions()
		options = append(options, kong.DynamicCommand(opts.Path[0], opts.Description, opts.Group, prune.CLIHandler()))
	}
	if batch := application.Handlers.BatchExport; batch != nil {
		opts := batch.CLIOptions()
		options = append(options, kong.DynamicCommand(opts.Path[0], opts.Description, opts.Group, batch.CLIHandler()))
	}

	var root cli
	kctx := kong.Parse(&root, options...)
	runErr := kctx.Run()
	if err := application.Close(ctx); err != nil {
		log.Warnf("close: %v", err)
	}
	if runErr != nil {
		log.Errorf("%v", runErr)
		os.Exit(1)
	}
}

package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/desertthunder/smarterz/internal/server"
	"github.com/desertthunder/smarterz/internal/shared"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"
)

// Serve runs the HTTP server until interrupted.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireUpstream(); err != nil {
		return err
	}

	cfg := r.config.Server
	if cmd.IsSet("port") {
		port := cmd.Int("port")
		if port <= 0 || port > 65535 {
			return fmt.Errorf("%w: port %d out of range", shared.ErrInvalidArgument, port)
		}
		cfg.Port = port
	}

	store, closeStore, err := r.openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	srv, err := server.New(server.Options{
		Addr:       cfg.Addr(),
		Upstream:   r.upstream,
		Aggregator: r.aggregator,
		Store:      store,
		Logger:     r.logger,
		PlayerURL:  cfg.PlayerURL,
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.ListenAndServe(gctx)
	})

	if cmd.Bool("open") {
		url := dashboardURL(cfg)
		g.Go(func() error {
			select {
			case <-time.After(250 * time.Millisecond):
			case <-gctx.Done():
				return nil
			}
			r.logger.Info("opening dashboard", "url", url)
			if err := shared.OpenBrowser(url); err != nil {
				r.logger.Warn("could not open browser", "url", url, "error", err)
			}
			return nil
		})
	}

	return g.Wait()
}

// dashboardURL is the address a local browser should use to reach the server.
func dashboardURL(cfg shared.ServerConfig) string {
	host := cfg.Host
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "localhost"
	}
	return "http://" + net.JoinHostPort(host, strconv.Itoa(cfg.Port)) + "/"
}

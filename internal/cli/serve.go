package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/igloo/penguin/pkg/cache"
	"github.com/igloo/penguin/pkg/live"
	"github.com/igloo/penguin/pkg/session"
)

const shutdownTimeout = 5 * time.Second

func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the live editing service",
		Long: `Serve scenes over HTTP with live WebSocket editing.

Create a session by POSTing a scene document to /sessions, then connect to
/sessions/{id}/live and send input events. Every client attached to a session
receives the new state after each event.`,
		Example: `  penguin serve
  penguin serve --addr 127.0.0.1:9000`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = c.Config.Server.Addr
			}
			return c.runServe(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr string) error {
	logger := loggerFromContext(ctx)
	cfg := c.Config

	store := session.NewStore(cfg.Server.SessionTTL.Duration)
	defer store.Close()
	go store.Run(ctx, time.Minute)

	artifacts, err := c.artifactCache(ctx)
	if err != nil {
		return err
	}
	defer artifacts.Close()

	srv := live.NewServer(store, live.Options{
		Logger:       logger,
		Editor:       c.editorOptions(),
		PingInterval: cfg.Server.PingInterval.Duration,
		Cache:        artifacts,
		CacheTTL:     cfg.Cache.TTL.Duration,
	})
	defer srv.Close()

	hs := &http.Server{
		Addr:              addr,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info("Listening", "addr", addr)
		errc <- hs.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	srv.Close()
	if err := hs.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return ctx.Err()
}

// artifactCache returns the shared Redis cache when one is configured and an
// in-memory cache otherwise.
func (c *CLI) artifactCache(ctx context.Context) (cache.Cache, error) {
	url := c.Config.Cache.RedisURL
	if url == "" {
		return cache.NewMemory(cache.DefaultMemoryEntries), nil
	}
	r, err := cache.NewRedis(ctx, url)
	if err != nil {
		return nil, err
	}
	loggerFromContext(ctx).Info("Using redis export cache")
	return r, nil
}

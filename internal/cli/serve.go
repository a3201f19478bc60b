package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/hweiss/calcgraph/internal/server"
	"github.com/hweiss/calcgraph/pkg/cache"
	"github.com/hweiss/calcgraph/pkg/store"
)

// serveCommand creates the serve command for running the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr         string
		cacheBackend string
		configFile   string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		Long: `Run the HTTP API server.

The server exposes evaluation and DOT export endpoints plus a named
graph store. Settings come from ~/.config/calcgraph/config.toml and can
be overridden with flags. The graph store backend is "memory" by
default; configure "mongo" in the config file for persistence across
restarts.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configFile)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Addr = addr
			}
			if cacheBackend != "" {
				cfg.CacheBackend = cacheBackend
			}
			return c.runServe(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, then :8080)")
	cmd.Flags().StringVar(&cacheBackend, "cache", "", "result cache backend: file, redis, none")
	cmd.Flags().StringVar(&configFile, "config", "", "config file path")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, cfg Config) error {
	resultCache, err := c.buildCache(ctx, cfg)
	if err != nil {
		return err
	}
	defer resultCache.Close()

	graphStore, err := c.buildStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer graphStore.Close(context.Background())

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           server.New(graphStore, resultCache, c.Logger).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		c.Logger.Info("listening", "addr", cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		c.Logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return ctx.Err()
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	}
}

func (c *CLI) buildCache(ctx context.Context, cfg Config) (cache.Cache, error) {
	switch cfg.CacheBackend {
	case "none":
		return cache.NewNullCache(), nil
	case "redis":
		rc, err := cache.NewRedisCache(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		c.Logger.Debug("using redis cache", "addr", cfg.Redis.Addr)
		return rc, nil
	case "file", "":
		return newCache(false)
	}
	return nil, fmt.Errorf("unknown cache backend %q (want file, redis, or none)", cfg.CacheBackend)
}

func (c *CLI) buildStore(ctx context.Context, cfg Config) (store.Store, error) {
	switch cfg.StoreBackend {
	case "mongo":
		ms, err := store.NewMongoStore(ctx, cfg.Mongo)
		if err != nil {
			return nil, fmt.Errorf("connect mongo %s: %w", cfg.Mongo.URI, err)
		}
		c.Logger.Debug("using mongo store", "uri", cfg.Mongo.URI)
		return ms, nil
	case "memory", "":
		return store.NewMemoryStore(), nil
	}
	return nil, fmt.Errorf("unknown store backend %q (want memory or mongo)", cfg.StoreBackend)
}

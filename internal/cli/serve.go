package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/canopy/pkg/api"
	"github.com/matzehuels/canopy/pkg/catalog"
)

// shutdownTimeout bounds how long in-flight requests get after a signal.
const shutdownTimeout = 15 * time.Second

// serveCommand runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		dsn     string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the symbol API over HTTP",
		Long: `Serve the symbol API over HTTP.

Routes:
  GET  /healthz
  POST /v1/symbols        render one symbol (JSON or PNG)
  POST /v1/packs          render all 16 styles and seasons
  GET  /v1/plants         list catalog plants
  GET  /v1/plants/{name}  one catalog plant

The cache backend (file, redis, mongo) and catalog come from the config
file or CANOPY_* variables. Interrupt to shut down gracefully.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), addr, dsn, noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().StringVar(&dsn, "catalog", "", "catalog directory, sqlite: path or postgres:// URL")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr, dsn string, noCache bool) error {
	cfg, err := c.config()
	if err != nil {
		return err
	}
	if addr == "" {
		addr = cfg.Server.Addr
	}
	timeout, err := cfg.ServerTimeout()
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	var src catalog.Source
	if dsn != "" || cfg.Catalog.DSN != "" {
		if src, err = c.openCatalog(ctx, dsn); err != nil {
			return err
		}
		defer src.Close()
		shown := dsn
		if shown == "" {
			shown = cfg.Catalog.DSN
		}
		c.Logger.Info("catalog opened", "dsn", trimDSN(shown))
	} else {
		c.Logger.Warn("no catalog configured, plant routes will return 404")
	}

	srv := api.NewServer(runner, src, c.Logger)
	srv.Timeout = timeout
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		errc <- httpServer.ListenAndServe()
	}()
	printSuccess("Listening on %s", StyleLink.Render("http://"+displayAddr(addr)))
	c.Logger.Info("server started", "addr", addr, "cache", cfg.Cache.Backend, "raster", runner.Rasterizer.Name())

	select {
	case err := <-errc:
		if !stderrors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	c.Logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// displayAddr turns ":8080" into "localhost:8080".
func displayAddr(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "localhost" + addr
	}
	return addr
}

package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/climatiqq/climatiqq/internal/api"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Serve entries, statistics and suggestions over HTTP:

  GET    /health
  GET    /api/entries?user=&metric=&days=&limit=
  POST   /api/entries
  GET    /api/entries/:id?user=
  PUT    /api/entries/:id?user=
  DELETE /api/entries/:id?user=
  GET    /api/stats?user=
  GET    /api/suggestions?user=
  GET    /api/suggestions/history?user=&limit=
  POST   /api/suggestions/predict

The listen address defaults to api.addr in config.yaml (CLIMATIQQ_API_ADDR).`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (overrides api.addr)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	env, err := loadEnv()
	if err != nil {
		return err
	}
	defer env.Close()

	addr := env.cfg.API.Addr
	if serveAddr != "" {
		addr = serveAddr
	}

	ctx, stop := signalContext(cmd.Context())
	defer stop()

	app := api.New(env.db, env.engine, env.cfg, env.log)

	errCh := make(chan error, 1)
	go func() {
		env.log.Info().Str("addr", addr).Msg("api listening")
		errCh <- app.Listen(addr)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("listening on %s: %w", addr, err)
	case <-ctx.Done():
	}

	env.log.Info().Msg("shutting down")
	return app.ShutdownWithTimeout(5 * time.Second)
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

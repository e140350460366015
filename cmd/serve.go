package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/pable/go-match-stats/internal/aggregator"
	"github.com/pable/go-match-stats/internal/server"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve dashboards as a JSON API",
	Long: `Load the match table once and serve it read-only over HTTP:

  GET /api/competitions
  GET /api/competitions/{competition}/stages
  GET /api/dashboard?competition=...&stage=...&top=...

An empty filter selection answers 404 with {"error":"no matches for selected filters"}.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default listen_addr from config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	table, err := loadTable()
	if err != nil {
		return err
	}
	addr := serveAddr
	if addr == "" {
		addr = cfg.ListenAddr
	}

	opts := aggregator.DefaultDashboardOptions()
	opts.TopTeams, opts.TopMatches, opts.TopReferees = cfg.TopTeams, cfg.TopMatches, cfg.TopReferees
	srv := &http.Server{
		Addr:              addr,
		Handler:           server.New(table, opts, log),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", addr).Info("listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

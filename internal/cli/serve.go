package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/spf13/cobra"

	"github.com/okian/standings/internal/adapters/http/api"
	"github.com/okian/standings/internal/adapters/http/site"
	"github.com/okian/standings/internal/adapters/http/swagger"
	service "github.com/okian/standings/internal/app"
	"github.com/okian/standings/pkg/logger"
	"github.com/okian/standings/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 30 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second
)

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	flags := &engineFlags{}
	var (
		addr  string
		every time.Duration
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve standings over HTTP",
		Long: `Serve computes the standings once at startup and then serves the
latest snapshot over HTTP. POST /standings/recompute replays the data
directory again; --recompute-every does so on a timer.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := rootOpts.Config
			if err := flags.apply(cmd, cfg); err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				cfg.Addr = addr
			}
			ctx := cmd.Context()
			log := logger.Get()

			opts, err := engineOptions(cfg)
			if err != nil {
				return err
			}
			sinks, err := sinkOptions(ctx, cfg, log)
			if err != nil {
				return err
			}
			opts = append(opts, sinks...)
			opts = append(opts, service.WithLogger(log))

			svc := service.New(opts...)
			if err := svc.Start(ctx); err != nil {
				return fmt.Errorf("failed to start service: %w", err)
			}
			defer svc.Stop()

			// A bad rule set or data directory must not keep the server down;
			// readers get 503 until a recompute succeeds.
			if snap, err := svc.Recompute(ctx); err != nil {
				log.Error(ctx, "initial computation failed", logger.Error(err))
			} else {
				log.Info(ctx, "initial standings computed",
					logger.String("snapshot", snap.ID), logger.Int("teams", snap.Table.Len()))
			}

			go startSystemMetricsUpdater(ctx)
			if every > 0 {
				go startRecomputeLoop(ctx, svc, every)
			}

			srv := &http.Server{
				Addr:              cfg.Addr,
				Handler:           newHandler(svc, cfg.MaxTableRows, cmd),
				ReadTimeout:       readTimeout,
				WriteTimeout:      writeTimeout,
				IdleTimeout:       idleTimeout,
				ReadHeaderTimeout: readHeaderTimeout,
			}
			return listenAndServe(ctx, srv, log)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (config addr)")
	cmd.Flags().DurationVar(&every, "recompute-every", 0, "recompute on this interval (0 disables)")
	return cmd
}

// newHandler builds the router: API, docs and the standings page, wrapped
// in panic recovery and an access log on stderr.
func newHandler(svc *service.Service, maxRows int, cmd *cobra.Command) http.Handler {
	r := mux.NewRouter()
	api.NewServer(svc, svc, api.WithMaxRows(maxRows)).Register(r)
	swagger.Register(r)
	site.Register(r)

	var h http.Handler = r
	h = handlers.RecoveryHandler(handlers.PrintRecoveryStack(true))(h)
	return handlers.LoggingHandler(cmd.ErrOrStderr(), h)
}

// listenAndServe runs srv until ctx is cancelled, then shuts it down.
func listenAndServe(ctx context.Context, srv *http.Server, log logger.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("HTTP server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}
	log.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
		return err
	}
	log.Info(ctx, "server stopped")
	return nil
}

// startRecomputeLoop recomputes standings every interval until ctx ends.
func startRecomputeLoop(ctx context.Context, svc *service.Service, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			// Failures are already logged and counted by the service.
			_, _ = svc.Recompute(ctx)
		}
	}
}

// startSystemMetricsUpdater starts a background goroutine that updates system metrics.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(metrics.RefreshInterval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
		}
	}
}

func updateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)
	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())
}

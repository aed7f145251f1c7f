// Command webserver serves static files from a directory, handing every
// accepted connection to a fixed pool of workers.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/utkarsh5026/webpool/internal/config"
	"github.com/utkarsh5026/webpool/internal/logger"
	"github.com/utkarsh5026/webpool/internal/server"
	"github.com/utkarsh5026/webpool/pool"
)

const metricsNamespace = "webpool"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()

	if err != nil && !errors.Is(err, flag.ErrHelp) {
		fmt.Printf("Finished with error: %v\n", err)
	}
	fmt.Println("Shutting down!")

	if err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cfg, err := loadConfig(args, stderr)
	if err != nil {
		return err
	}
	logger.Default.SetLevel(cfg.Level())
	log := logger.Default.With("main")

	var (
		reg     *prometheus.Registry
		metrics *pool.Metrics
	)
	if cfg.MetricsAddr != "" {
		reg = prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		metrics = pool.NewMetrics(reg, metricsNamespace)
	}

	opts := append(cfg.PoolOptions(),
		pool.WithLogger(logger.Default.With("pool")),
		pool.WithMetrics(metrics),
	)
	p, err := pool.New(cfg.Workers, opts...)
	if err != nil {
		return err
	}

	ln, err := net.Listen("tcp", cfg.Addr())
	if err != nil {
		_ = p.Close()
		return fmt.Errorf("listen on %s: %w", cfg.Addr(), err)
	}
	fmt.Fprintf(stdout, "Listening on http://%s\n", ln.Addr())

	srv := server.New(serverConfig(cfg), p, logger.Default.With("server"))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Serve(gctx, ln)
	})
	if reg != nil {
		g.Go(func() error {
			return serveMetrics(gctx, cfg.MetricsAddr, reg, log)
		})
	}

	serveErr := g.Wait()

	log.Infof("draining %d pending jobs", p.Pending())
	shutdownErr := p.Shutdown(cfg.ShutdownTimeout.Std())

	stats := p.Stats()
	log.Infof("served %d connections (%d panicked)", stats.Completed, stats.Panicked)

	return errors.Join(serveErr, shutdownErr)
}

func serverConfig(cfg config.Config) server.Config {
	return server.Config{
		Addr:          cfg.Addr(),
		Root:          cfg.Root,
		Index:         cfg.Index,
		NotFound:      cfg.NotFound,
		ReadTimeout:   cfg.ReadTimeout.Std(),
		AcceptBackoff: cfg.Backoff(),
		AcceptJitter:  cfg.AcceptJitter,
	}
}

// serveMetrics exposes reg over HTTP until ctx is done.
func serveMetrics(ctx context.Context, addr string, reg *prometheus.Registry, log *logger.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))

	hs := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = hs.Shutdown(shutdownCtx)
	}()

	log.Infof("metrics on http://%s/metrics", addr)
	if err := hs.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("metrics server: %w", err)
	}
	return nil
}

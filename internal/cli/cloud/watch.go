package cloud

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Will-L07/scheduler/internal/cli"
	"github.com/Will-L07/scheduler/internal/logger"
	"github.com/Will-L07/scheduler/internal/metrics"
)

// WatchCmd keeps a sync session open: local writes, including those made
// by other processes on this machine, are pushed after the debounce and
// changes from other devices are merged and saved.
type WatchCmd struct {
	MetricsAddr   string        `help:"Serve Prometheus metrics on this address, e.g. :9090."`
	FlushInterval time.Duration `default:"5s" help:"How often merged remote changes are written to local storage."`
}

func (c *WatchCmd) Run(appCtx context.Context, ctx *cli.Context) error {
	sigCtx, stop := signal.NotifyContext(appCtx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return c.watch(sigCtx, ctx)
}

func (c *WatchCmd) watch(runCtx context.Context, ctx *cli.Context) error {
	s, closeFn, err := connect(runCtx, ctx)
	if err != nil {
		return err
	}
	defer closeFn()

	ctx.Printf("✓ %s. Watching for changes, press Ctrl+C to stop.\n", s.Status())

	interval := c.FlushInterval
	if interval <= 0 {
		interval = 5 * time.Second
	}

	log := logger.With("cmd", "sync watch", "user", s.UserID())

	// Each tick retries failed writes and picks up records changed by other
	// processes. A reload emits local change events, so those edits are pushed.
	g, gctx := errgroup.WithContext(runCtx)
	g.Go(func() error {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return ctx.Store.Flush()
			case <-ticker.C:
				if err := ctx.Store.Flush(); err != nil {
					log.Error("Failed to save synced changes", "error", err)
				}
				changed, err := ctx.Store.Reload()
				if err != nil {
					log.Error("Failed to reload storage", "error", err)
				} else if changed {
					log.Info("Picked up changes from another process")
				}
			}
		}
	})

	if c.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", metrics.Handler())
		srv := &http.Server{Addr: c.MetricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		g.Go(func() error {
			log.Info("Serving metrics", "addr", c.MetricsAddr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("metrics server: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
	}

	err = g.Wait()
	ctx.Printf("Stopped. Last status: %s\n", s.Status())
	return err
}

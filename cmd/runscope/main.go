package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/okian/runscope/internal/adapters/http/api"
	"github.com/okian/runscope/internal/adapters/http/swagger"
	"github.com/okian/runscope/internal/adapters/repository"
	"github.com/okian/runscope/internal/adapters/tui"
	app "github.com/okian/runscope/internal/app"
	"github.com/okian/runscope/internal/config"
	"github.com/okian/runscope/internal/domain/model"
	"github.com/okian/runscope/internal/domain/pager"
	"github.com/okian/runscope/internal/domain/scrub"
	"github.com/okian/runscope/internal/domain/series"
	"github.com/okian/runscope/internal/feed"
	"github.com/okian/runscope/internal/viewer"
	"github.com/okian/runscope/pkg/logger"
	"github.com/okian/runscope/pkg/metrics"
	"golang.org/x/sync/errgroup"
)

// HTTP server timeout constants.
const (
	readTimeout            = 10 * time.Second
	writeTimeout           = 10 * time.Second
	idleTimeout            = 60 * time.Second
	readHeaderTimeout      = 5 * time.Second
	shutdownTimeout        = 5 * time.Second
	serviceMetricsInterval = 5 * time.Second
)

// graphPixels is the logical graph size used until the terminal reports its
// dimensions.
var graphPixels = series.Rect{W: 120, H: 60} //nolint:gochecknoglobals // startup default

func main() {
	if err := run(); err != nil {
		// The logger may not be available yet.
		fmt.Fprintln(os.Stderr, "runscope:", err)
		os.Exit(1)
	}
}

func run() error {
	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	// The terminal belongs to the UI, so logs go to a file.
	logFile, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer func() { _ = logFile.Close() }()

	if err := logger.Init(logger.WithOutput(logFile), logger.WithLevel(cfg.LogLevel)); err != nil {
		return fmt.Errorf("initialize logging: %w", err)
	}
	log := logger.Get().Named("main")

	host, err := newHost(cfg)
	if err != nil {
		return err
	}

	svc := app.New(
		app.WithLogger(logger.Get()),
		app.WithQueueSize(cfg.InboxSize),
		app.WithProfile(model.Profile(cfg.Profile)),
		app.WithHost(host),
	)

	v := newViewer(cfg, svc)
	v.Start(time.Now())

	program := tea.NewProgram(
		tui.New(v,
			tui.WithFrameInterval(cfg.FrameInterval()),
			tui.WithKeyRelease(cfg.KeyRelease()),
			tui.WithContext(ctx),
		),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)
	svc.Subscribe(func(out repository.Outcome) {
		program.Send(tui.OutcomeMsg{Outcome: out})
	})

	if err := svc.Start(ctx); err != nil {
		return fmt.Errorf("start service: %w", err)
	}
	defer svc.Stop()

	g, gctx := errgroup.WithContext(ctx)

	if cfg.Addr != "" {
		srv := newHTTPServer(ctx, cfg.Addr, svc)
		g.Go(func() error {
			log.Info(gctx, "starting diagnostics server", logger.String("addr", cfg.Addr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("diagnostics server: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
	}

	g.Go(func() error {
		startServiceMetricsUpdater(gctx, svc)
		return nil
	})

	g.Go(func() error {
		// Leaving the UI ends the process.
		defer stop()
		if _, err := program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
			return fmt.Errorf("terminal ui: %w", err)
		}
		return nil
	})

	host.Start(ctx, svc)

	err = g.Wait()
	host.Wait()
	log.Info(context.Background(), "runscope stopped")
	return err
}

// newHost builds the mock host from a fixture file or generated data.
func newHost(cfg *config.Config) (*feed.Host, error) {
	opts := []feed.Option{
		feed.WithRuns(cfg.FeedRuns),
		feed.WithLatency(cfg.FeedLatency()),
		feed.WithSeed(cfg.FeedSeed),
	}
	if cfg.FeedFixture != "" {
		fx, err := feed.LoadFixture(cfg.FeedFixture)
		if err != nil {
			return nil, err
		}
		opts = append(opts, feed.WithFixture(fx))
	}
	return feed.New(opts...), nil
}

func newViewer(cfg *config.Config, svc *app.Service) *viewer.Viewer {
	return viewer.New(svc.Store(), svc,
		viewer.WithLoadTimeout(cfg.LoadTimeout()),
		viewer.WithPagerOptions(pager.WithDuration(cfg.AnimDuration())),
		viewer.WithScrubOptions(
			scrub.WithStepDuration(cfg.ScrubAnimDuration()),
			scrub.WithWiggleDuration(cfg.WiggleDuration()),
			scrub.WithRepeatInterval(cfg.ScrubRepeatInterval()),
		),
		viewer.WithGraph(graphPixels, series.Geometry{Margin: cfg.GraphMargin, Padding: cfg.GraphPadding}),
		viewer.WithLogger(logger.Get().Named("viewer")),
	)
}

func newHTTPServer(ctx context.Context, addr string, svc *app.Service) *http.Server {
	mux := http.NewServeMux()
	swagger.Register(ctx, mux)
	api.NewServer(svc.Store(), svc).Register(ctx, mux)

	return &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}
}

// startServiceMetricsUpdater periodically refreshes service gauges.
func startServiceMetricsUpdater(ctx context.Context, svc *app.Service) {
	ticker := time.NewTicker(serviceMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateServiceMetrics(svc)
		}
	}
}

// updateServiceMetrics updates service-level metrics.
func updateServiceMetrics(svc *app.Service) {
	stats := svc.GetStats()

	if queueLen, ok := stats["queueLength"].(int); ok {
		metrics.UpdateInboxSize(queueLen)
	}
}

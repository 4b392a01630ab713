package main

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/okian/runscope/internal/adapters/repository"
	app "github.com/okian/runscope/internal/app"
	"github.com/okian/runscope/internal/config"
	"github.com/okian/runscope/internal/feed"
	"github.com/okian/runscope/internal/viewer"
	"github.com/okian/runscope/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

func TestMainFunction(t *testing.T) {
	convey.Convey("Given the main application", t, func() {
		_ = logger.Init(logger.WithOutput(io.Discard))

		convey.Convey("When testing configuration loading", func() {
			_ = os.Setenv("RUNSCOPE_ADDR", ":8080")
			_ = os.Setenv("RUNSCOPE_INBOX_SIZE", "64")
			_ = os.Setenv("RUNSCOPE_FEED_RUNS", "3")
			defer func() {
				_ = os.Unsetenv("RUNSCOPE_ADDR")
				_ = os.Unsetenv("RUNSCOPE_INBOX_SIZE")
				_ = os.Unsetenv("RUNSCOPE_FEED_RUNS")
			}()

			convey.Convey("Then configuration should be loadable", func() {
				cfg, err := config.Load(context.Background())
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.InboxSize, convey.ShouldEqual, 64)
				convey.So(cfg.FeedRuns, convey.ShouldEqual, 3)
			})
		})

		convey.Convey("When building the host", func() {
			cfg := config.New(context.Background())
			cfg.FeedRuns = 4
			cfg.FeedSeed = 7

			convey.Convey("Then generated runs follow the configuration", func() {
				host, err := newHost(cfg)
				convey.So(err, convey.ShouldBeNil)
				convey.So(len(host.Fixture().Runs), convey.ShouldEqual, 4)
			})

			convey.Convey("Then a fixture file replaces generated runs", func() {
				path := filepath.Join(t.TempDir(), "fixture.yaml")
				f, err := os.Create(path)
				convey.So(err, convey.ShouldBeNil)
				convey.So(feed.EncodeFixture(f, feed.Fixture{Runs: []feed.FixtureRun{
					{Name: "one", Owner: "me", Status: "finished"},
				}}), convey.ShouldBeNil)
				convey.So(f.Close(), convey.ShouldBeNil)

				cfg.FeedFixture = path
				host, err := newHost(cfg)
				convey.So(err, convey.ShouldBeNil)
				convey.So(host.Fixture().Runs[0].Name, convey.ShouldEqual, "one")
			})

			convey.Convey("Then a missing fixture is an error", func() {
				cfg.FeedFixture = filepath.Join(t.TempDir(), "missing.yaml")
				_, err := newHost(cfg)
				convey.So(err, convey.ShouldNotBeNil)
			})
		})

		convey.Convey("When building the viewer", func() {
			cfg := config.New(context.Background())
			cfg.LoadTimeoutMS = 50
			svc := app.New()
			v := newViewer(cfg, svc)
			start := time.Now()
			v.Start(start)

			convey.Convey("Then the configured load timeout applies", func() {
				v.Tick(start.Add(40 * time.Millisecond))
				convey.So(v.MenuState(), convey.ShouldEqual, viewer.Loading)
				v.Tick(start.Add(50 * time.Millisecond))
				convey.So(v.MenuState(), convey.ShouldEqual, viewer.Failed)
			})
		})
	})
}

func TestMainApplicationIntegration(t *testing.T) {
	convey.Convey("Given the wired application without a terminal", t, func() {
		_ = logger.Init(logger.WithOutput(io.Discard))
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		cfg := config.New(ctx)
		cfg.FeedRuns = 3
		cfg.FeedSeed = 11
		cfg.FeedLatencyMS = 0

		host, err := newHost(cfg)
		convey.So(err, convey.ShouldBeNil)

		svc := app.New(app.WithQueueSize(cfg.InboxSize), app.WithHost(host))
		v := newViewer(cfg, svc)
		v.Start(time.Now())

		outcomes := make(chan repository.Outcome, 64)
		svc.Subscribe(func(out repository.Outcome) { outcomes <- out })
		convey.So(svc.Start(ctx), convey.ShouldBeNil)
		defer svc.Stop()

		host.Start(ctx, svc)
		host.Wait()

		convey.Convey("Then the runs reach the viewer", func() {
			deadline := time.After(2 * time.Second)
			for v.MenuState() != viewer.Loaded {
				select {
				case out := <-outcomes:
					v.HandleOutcome(ctx, time.Now(), out)
				case <-deadline:
					convey.So(v.MenuState(), convey.ShouldEqual, viewer.Loaded)
					return
				}
			}
			convey.So(len(v.Frame().Sections), convey.ShouldBeGreaterThan, 0)
		})

		convey.Convey("Then the diagnostics server serves the snapshot", func() {
			srv := newHTTPServer(ctx, ":0", svc)
			req := httptest.NewRequest("GET", "/snapshot", nil)
			w := httptest.NewRecorder()
			srv.Handler.ServeHTTP(w, req)
			convey.So(w.Code, convey.ShouldEqual, http.StatusOK)

			req = httptest.NewRequest("GET", "/openapi.yaml", nil)
			w = httptest.NewRecorder()
			srv.Handler.ServeHTTP(w, req)
			convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
		})

		convey.Convey("Then service metrics update without panicking", func() {
			convey.So(func() { updateServiceMetrics(svc) }, convey.ShouldNotPanic)
		})
	})
}

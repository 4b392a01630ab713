package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/okian/runscope/internal/adapters/repository"
	service "github.com/okian/runscope/internal/app"
	"github.com/okian/runscope/internal/domain/message"
	"github.com/okian/runscope/internal/domain/model"
	"github.com/okian/runscope/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Initialize logging for tests
	err := logger.Init()
	if err != nil {
		panic(err)
	}
}

func TestService_New(t *testing.T) {
	Convey("Given a new service with default options", t, func() {
		svc := service.New()

		Convey("Then it should have sensible defaults", func() {
			So(svc, ShouldNotBeNil)
			So(svc.Store(), ShouldNotBeNil)
			So(svc.GetStats()["profile"], ShouldEqual, "standard")
		})
	})

	Convey("Given a new service with custom options", t, func() {
		svc := service.New(
			service.WithQueueSize(16),
			service.WithProfile(model.ProfileCompact),
		)

		Convey("Then the options are applied", func() {
			stats := svc.GetStats()
			So(stats["queueSize"], ShouldEqual, 16)
			So(stats["profile"], ShouldEqual, "compact")
		})
	})
}

func TestService_StartStop(t *testing.T) {
	Convey("Given a new service", t, func() {
		svc := service.New()
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		Convey("Delivering before start is refused", func() {
			So(svc.Deliver(ctx, message.RunsCount(1)), ShouldBeFalse)
		})

		Convey("When starting the service", func() {
			err := svc.Start(ctx)
			defer svc.Stop()

			Convey("Then it should start successfully", func() {
				So(err, ShouldBeNil)
				So(svc.GetStats()["started"], ShouldEqual, true)
				So(svc.Start(ctx), ShouldBeNil)
			})
		})

		Convey("When stopping a started service", func() {
			So(svc.Start(ctx), ShouldBeNil)
			svc.Stop()

			Convey("Then it should be marked as stopped", func() {
				So(svc.GetStats()["started"], ShouldEqual, false)
				So(svc.Deliver(ctx, message.RunsCount(1)), ShouldBeFalse)
			})
		})
	})
}

func TestService_RequestMetrics(t *testing.T) {
	Convey("Given a started service with one run", t, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		host := &fakeHost{}
		svc := service.New(service.WithHost(host))
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		done := make(chan repository.Outcome, 4)
		svc.Subscribe(func(o repository.Outcome) {
			if o.RunsCompleted {
				done <- o
			}
		})
		So(svc.Deliver(ctx, message.RunsCount(1)), ShouldBeTrue)
		So(svc.Deliver(ctx, message.Run("a", "alice", "running")), ShouldBeTrue)
		So(waitOutcome(done), ShouldBeTrue)

		Convey("When metrics are requested for the run", func() {
			err := svc.RequestMetrics(ctx, 0)

			Convey("Then the host is asked and the store targets it", func() {
				So(err, ShouldBeNil)
				So(host.requested(), ShouldResemble, []int{0})
				So(svc.Store().Stats(ctx).Target, ShouldEqual, 0)
			})
		})

		Convey("When metrics are requested for a missing run", func() {
			err := svc.RequestMetrics(ctx, 4)

			Convey("Then it fails without asking the host", func() {
				So(errors.Is(err, repository.ErrNoSuchRun), ShouldBeTrue)
				So(host.requested(), ShouldBeEmpty)
			})
		})

		Convey("When the host fails", func() {
			host.setErr(errors.New("link down"))
			err := svc.RequestMetrics(ctx, 0)

			Convey("Then the error is wrapped", func() {
				So(err, ShouldNotBeNil)
				So(err.Error(), ShouldContainSubstring, "link down")
			})
		})
	})

	Convey("Given a service without a host", t, func() {
		ctx := context.Background()
		svc := service.New()
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		done := make(chan repository.Outcome, 4)
		svc.Subscribe(func(o repository.Outcome) {
			if o.RunsCompleted {
				done <- o
			}
		})
		svc.Deliver(ctx, message.RunsCount(1))
		svc.Deliver(ctx, message.Run("a", "alice", "running"))
		So(waitOutcome(done), ShouldBeTrue)

		Convey("Requesting metrics reports the missing host", func() {
			So(errors.Is(svc.RequestMetrics(ctx, 0), service.ErrNoHost), ShouldBeTrue)
		})
	})
}

func TestService_GetStats(t *testing.T) {
	Convey("Given a new service", t, func() {
		svc := service.New()

		Convey("When getting stats before starting", func() {
			stats := svc.GetStats()

			Convey("Then it should return basic stats", func() {
				So(stats, ShouldNotBeNil)
				So(stats["started"], ShouldEqual, false)
				So(stats, ShouldNotContainKey, "queueLength")
			})
		})
	})
}

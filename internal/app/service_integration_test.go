package service_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/okian/runscope/internal/adapters/repository"
	service "github.com/okian/runscope/internal/app"
	"github.com/okian/runscope/internal/domain/grouping"
	"github.com/okian/runscope/internal/domain/message"
	"github.com/okian/runscope/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

// fakeHost answers metric requests by recording them; the integration test
// plays the host itself through Deliver.
type fakeHost struct {
	mu   sync.Mutex
	reqs []int
	err  error
}

func (h *fakeHost) RequestMetrics(_ context.Context, index int) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.err != nil {
		return h.err
	}
	h.reqs = append(h.reqs, index)
	return nil
}

func (h *fakeHost) requested() []int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]int{}, h.reqs...)
}

func (h *fakeHost) setErr(err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.err = err
}

func waitOutcome(ch <-chan repository.Outcome) bool {
	select {
	case <-ch:
		return true
	case <-time.After(2 * time.Second):
		return false
	}
}

func TestServiceIntegration(t *testing.T) {
	Convey("Given a service with full integration", t, func() {
		svc := service.New(service.WithQueueSize(64), service.WithHost(&fakeHost{}))
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		outcomes := make(chan repository.Outcome, 64)
		svc.Subscribe(func(o repository.Outcome) { outcomes <- o })

		Convey("When the host delivers runs of mixed status", func() {
			statuses := []string{"running", "finished", "running", "crashed"}
			So(svc.Deliver(ctx, message.RunsCount(len(statuses))), ShouldBeTrue)
			for i, st := range statuses {
				So(svc.Deliver(ctx, message.Run(fmt.Sprintf("run-%d", i), "team", st)), ShouldBeTrue)
			}

			var completed bool
			for !completed {
				o, ok := next(outcomes)
				So(ok, ShouldBeTrue)
				completed = o.RunsCompleted
			}

			Convey("Then the snapshot groups them by first appearance", func() {
				svc.Store().View(func(snap *model.Snapshot, _ repository.Delivery) {
					So(grouping.SectionCount(snap), ShouldEqual, 3)
					st, ok := grouping.StatusFor(snap, 0)
					So(ok, ShouldBeTrue)
					So(st, ShouldEqual, "running")
					So(grouping.RowCount(snap, 0), ShouldEqual, 2)
				})
			})

			Convey("And metrics are delivered for a requested run", func() {
				So(svc.RequestMetrics(ctx, 2), ShouldBeNil)
				So(svc.Deliver(ctx, message.MetricsCount(2)), ShouldBeTrue)
				So(svc.Deliver(ctx, message.Metric("loss", "0.05", []int64{900, 50})), ShouldBeTrue)
				So(svc.Deliver(ctx, message.Metric("acc", "0.9523", []int64{10, 9523})), ShouldBeTrue)

				var metricsDone repository.Outcome
				for !metricsDone.MetricsCompleted {
					o, ok := next(outcomes)
					So(ok, ShouldBeTrue)
					metricsDone = o
				}

				So(metricsDone.Run, ShouldEqual, 2)
				svc.Store().View(func(snap *model.Snapshot, d repository.Delivery) {
					So(d.Complete, ShouldBeTrue)
					So(snap.Run(2).MetricCount, ShouldEqual, 2)
					So(snap.Run(2).Metric(1).Value, ShouldEqual, "0.9523")
				})
			})
		})
	})
}

func next(ch <-chan repository.Outcome) (repository.Outcome, bool) {
	select {
	case o := <-ch:
		return o, true
	case <-time.After(2 * time.Second):
		return repository.Outcome{}, false
	}
}

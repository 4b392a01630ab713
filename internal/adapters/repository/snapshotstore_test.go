package repository_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/okian/runscope/internal/adapters/repository"
	"github.com/okian/runscope/internal/domain/message"
	"github.com/okian/runscope/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestRunsDelivery(t *testing.T) {
	Convey("Given an empty snapshot store", t, func() {
		ctx := context.Background()
		now := time.Unix(2000, 0)
		s := repository.NewSnapshotStore()

		Convey("A run tuple before any announcement is dropped", func() {
			out := s.Apply(ctx, message.Run("a", "alice", "running"), now)
			So(out.Dropped, ShouldEqual, 1)
			So(s.Stats(ctx).Runs, ShouldEqual, 0)
		})

		Convey("An empty message is dropped", func() {
			out := s.Apply(ctx, message.Message{}, now)
			So(out.Dropped, ShouldEqual, 1)
			So(out.Changed(), ShouldBeFalse)
		})

		Convey("When three runs are announced and delivered", func() {
			out := s.Apply(ctx, message.RunsCount(3), now)
			So(out.RunsStarted, ShouldBeTrue)
			So(out.RunsCompleted, ShouldBeFalse)

			So(s.Apply(ctx, message.Run("a", "alice", "running"), now).RunsCompleted, ShouldBeFalse)
			So(s.Apply(ctx, message.Run("b", "bob", "finished"), now).RunsCompleted, ShouldBeFalse)
			out = s.Apply(ctx, message.Run("c", "carol", "running"), now.Add(time.Second))

			Convey("Then the last tuple completes the delivery", func() {
				So(out.RunsCompleted, ShouldBeTrue)
				s.View(func(snap *model.Snapshot, _ repository.Delivery) {
					So(snap.RunCount, ShouldEqual, 3)
					So(snap.Complete, ShouldBeTrue)
					So(snap.CompletedAt, ShouldEqual, now.Add(time.Second))
					So(snap.Run(1).Owner, ShouldEqual, "bob")
				})
			})

			Convey("And a late run tuple is dropped", func() {
				late := s.Apply(ctx, message.Run("d", "dan", "crashed"), now)
				So(late.Dropped, ShouldEqual, 1)
				So(late.RunsCompleted, ShouldBeFalse)
				So(s.Stats(ctx).Runs, ShouldEqual, 3)
			})

			Convey("And a new announcement discards the runs", func() {
				again := s.Apply(ctx, message.RunsCount(1), now)
				So(again.RunsStarted, ShouldBeTrue)
				So(s.Stats(ctx).Runs, ShouldEqual, 0)
				So(s.Stats(ctx).RunsComplete, ShouldBeFalse)
			})
		})

		Convey("When zero runs are announced", func() {
			out := s.Apply(ctx, message.RunsCount(0), now)

			Convey("Then the delivery completes at once", func() {
				So(out.RunsStarted, ShouldBeTrue)
				So(out.RunsCompleted, ShouldBeTrue)
				So(s.Stats(ctx).RunsComplete, ShouldBeTrue)
			})
		})

		Convey("When more runs are announced than fit", func() {
			s.Apply(ctx, message.RunsCount(model.MaxRuns+5), now)
			completions := 0
			for i := 0; i < model.MaxRuns+5; i++ {
				out := s.Apply(ctx, message.Run(fmt.Sprintf("r%d", i), "o", "running"), now)
				if out.RunsCompleted {
					completions++
				}
			}

			Convey("Then the delivery completes once at capacity", func() {
				So(completions, ShouldEqual, 1)
				st := s.Stats(ctx)
				So(st.Runs, ShouldEqual, model.MaxRuns)
				So(st.Dropped, ShouldEqual, 5)
			})
		})

		Convey("A single message carrying a count and a run applies both", func() {
			msg := message.RunsCount(1)
			msg.Run = &message.RunTuple{Name: "solo", Owner: "me", Status: "finished"}
			out := s.Apply(ctx, msg, now)
			So(out.RunsStarted, ShouldBeTrue)
			So(out.RunsCompleted, ShouldBeTrue)
			So(s.Stats(ctx).Runs, ShouldEqual, 1)
		})
	})
}

func TestMetricsDelivery(t *testing.T) {
	Convey("Given a store holding two runs", t, func() {
		ctx := context.Background()
		now := time.Unix(3000, 0)
		s := repository.NewSnapshotStore()
		s.Apply(ctx, message.RunsCount(2), now)
		s.Apply(ctx, message.Run("a", "alice", "running"), now)
		s.Apply(ctx, message.Run("b", "bob", "running"), now)

		Convey("Metric tuples without a target are dropped", func() {
			out := s.Apply(ctx, message.MetricsCount(1), now)
			So(out.Dropped, ShouldEqual, 1)
			So(out.MetricsStarted, ShouldBeFalse)
		})

		Convey("Targeting an unknown run fails", func() {
			err := s.Target(ctx, 2)
			So(errors.Is(err, repository.ErrNoSuchRun), ShouldBeTrue)
		})

		Convey("When run 1 is targeted and two metrics are delivered", func() {
			So(s.Target(ctx, 1), ShouldBeNil)
			out := s.Apply(ctx, message.MetricsCount(2), now)
			So(out.MetricsStarted, ShouldBeTrue)
			So(out.Run, ShouldEqual, 1)

			So(s.Apply(ctx, message.Metric("loss", "0.05", []int64{900, 500}), now).MetricsCompleted, ShouldBeFalse)
			out = s.Apply(ctx, message.Metric("acc", "0.9523", []int64{1, 2, 3}), now)

			Convey("Then the metrics land on that run", func() {
				So(out.MetricsCompleted, ShouldBeTrue)
				s.View(func(snap *model.Snapshot, d repository.Delivery) {
					So(d.Run, ShouldEqual, 1)
					So(d.Complete, ShouldBeTrue)
					So(snap.Run(0).MetricCount, ShouldEqual, 0)
					run := snap.Run(1)
					So(run.MetricCount, ShouldEqual, 2)
					So(run.Metric(0).Name, ShouldEqual, "loss")
					So(run.Metric(1).Samples(), ShouldResemble, []int64{1, 2, 3})
				})
			})

			Convey("And a new count for the same run replaces its metrics", func() {
				s.Apply(ctx, message.MetricsCount(1), now)
				s.Apply(ctx, message.Metric("lr", "0.001", nil), now)
				So(s.Stats(ctx).Metrics, ShouldEqual, 1)
			})

			Convey("And a late metric is dropped", func() {
				late := s.Apply(ctx, message.Metric("extra", "1", nil), now)
				So(late.Dropped, ShouldEqual, 1)
				So(s.Stats(ctx).Metrics, ShouldEqual, 2)
			})
		})

		Convey("When zero metrics are announced", func() {
			So(s.Target(ctx, 0), ShouldBeNil)
			out := s.Apply(ctx, message.MetricsCount(0), now)

			Convey("Then the delivery completes with no metrics", func() {
				So(out.MetricsCompleted, ShouldBeTrue)
				So(s.Stats(ctx).Metrics, ShouldEqual, 0)
			})
		})

		Convey("When more metrics are announced than the run holds", func() {
			So(s.Target(ctx, 0), ShouldBeNil)
			s.Apply(ctx, message.MetricsCount(model.MaxMetricsPerRun+3), now)
			completions := 0
			for i := 0; i < model.MaxMetricsPerRun+3; i++ {
				out := s.Apply(ctx, message.Metric(fmt.Sprintf("m%d", i), "1", []int64{1}), now)
				if out.MetricsCompleted {
					completions++
				}
			}

			Convey("Then it completes once when the run is full", func() {
				So(completions, ShouldEqual, 1)
				So(s.Stats(ctx).Metrics, ShouldEqual, model.MaxMetricsPerRun)
			})
		})
	})
}

func TestCompactProfile(t *testing.T) {
	Convey("Given a compact store", t, func() {
		ctx := context.Background()
		now := time.Unix(0, 0)
		s := repository.NewSnapshotStore(repository.WithProfile(model.ProfileCompact))
		s.Apply(ctx, message.RunsCount(1), now)
		s.Apply(ctx, message.Run("a", "alice", "running"), now)
		So(s.Target(ctx, 0), ShouldBeNil)
		s.Apply(ctx, message.MetricsCount(12), now)

		Convey("Metrics stop at the compact limit", func() {
			var completed bool
			for i := 0; i < 12 && !completed; i++ {
				completed = s.Apply(ctx, message.Metric(fmt.Sprintf("m%d", i), "1", nil), now).MetricsCompleted
			}
			So(completed, ShouldBeTrue)
			st := s.Stats(ctx)
			So(st.Profile, ShouldEqual, "compact")
			So(st.Metrics, ShouldEqual, model.ProfileCompact.MetricLimit())
		})
	})
}

func TestConcurrentReads(t *testing.T) {
	Convey("Given a writer and several readers", t, func() {
		ctx := context.Background()
		s := repository.NewSnapshotStore()
		now := time.Unix(0, 0)

		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				s.Apply(ctx, message.RunsCount(2), now)
				s.Apply(ctx, message.Run("a", "o", "running"), now)
				s.Apply(ctx, message.Run("b", "o", "finished"), now)
			}
		}()
		for r := 0; r < 4; r++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := 0; i < 100; i++ {
					s.View(func(snap *model.Snapshot, _ repository.Delivery) {
						_ = snap.RunCount
					})
				}
			}()
		}
		wg.Wait()

		So(s.Stats(ctx).Runs, ShouldEqual, 2)
		So(s.Stats(ctx).Applied, ShouldEqual, 300)
	})
}

package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/okian/runscope/internal/adapters/http/api"
	"github.com/okian/runscope/internal/adapters/repository"
	"github.com/okian/runscope/internal/domain/message"
	"github.com/okian/runscope/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

type mockStatsProvider struct {
	stats map[string]interface{}
}

func (m *mockStatsProvider) GetStats() map[string]interface{} {
	return m.stats
}

func seededStore() *repository.SnapshotStore {
	ctx := context.Background()
	now := time.Now()
	s := repository.NewSnapshotStore()
	s.Apply(ctx, message.RunsCount(3), now)
	s.Apply(ctx, message.Run("a", "alice", "running"), now)
	s.Apply(ctx, message.Run("b", "bob", "finished"), now)
	s.Apply(ctx, message.Run("c", "carol", "running"), now)
	_ = s.Target(ctx, 2)
	s.Apply(ctx, message.MetricsCount(1), now)
	s.Apply(ctx, message.Metric("loss", "0.05", []int64{900, 500}), now)
	return s
}

func TestServer_Register(t *testing.T) {
	Convey("Given a new API server", t, func() {
		store := seededStore()
		statsProvider := &mockStatsProvider{stats: map[string]interface{}{"started": true}}
		server := api.NewServer(store, statsProvider)
		mux := http.NewServeMux()

		Convey("When registering routes", func() {
			server.Register(context.Background(), mux)

			Convey("And health endpoint should serve metrics", func() {
				req := httptest.NewRequest("GET", "/healthz", nil)
				w := httptest.NewRecorder()
				mux.ServeHTTP(w, req)
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldContainSubstring, "runscope_viewer_")
			})

			Convey("And stats endpoint should be accessible", func() {
				req := httptest.NewRequest("GET", "/stats", nil)
				w := httptest.NewRecorder()
				mux.ServeHTTP(w, req)
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldContainSubstring, `"started":true`)
			})

			Convey("And stats rejects other methods", func() {
				req := httptest.NewRequest("POST", "/stats", nil)
				w := httptest.NewRecorder()
				mux.ServeHTTP(w, req)
				So(w.Code, ShouldEqual, http.StatusNotFound)
			})

			Convey("And unknown paths are not found", func() {
				req := httptest.NewRequest("GET", "/unknown", nil)
				w := httptest.NewRecorder()
				mux.ServeHTTP(w, req)
				So(w.Code, ShouldEqual, http.StatusNotFound)
			})
		})
	})
}

func TestSnapshotHandler(t *testing.T) {
	Convey("Given a snapshot handler over three runs", t, func() {
		h := api.NewSnapshotHandler(seededStore())

		Convey("When fetching the whole snapshot", func() {
			req := httptest.NewRequest("GET", "/snapshot", nil)
			w := httptest.NewRecorder()
			h.HandleGetSnapshot(w, req)

			var snap types.Snapshot
			So(json.Unmarshal(w.Body.Bytes(), &snap), ShouldBeNil)

			Convey("Then runs are grouped by status in first-appearance order", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(snap.Complete, ShouldBeTrue)
				So(snap.Age, ShouldNotBeEmpty)
				So(len(snap.Sections), ShouldEqual, 2)
				So(snap.Sections[0].Status, ShouldEqual, "running")
				So(len(snap.Sections[0].Runs), ShouldEqual, 2)
				So(snap.Sections[0].Runs[1].Index, ShouldEqual, 2)
				So(snap.Sections[1].Runs[0].Name, ShouldEqual, "b")
			})

			Convey("Then delivered metrics are included", func() {
				m := snap.Sections[0].Runs[1].Metrics
				So(len(m), ShouldEqual, 1)
				So(m[0].Scaled, ShouldEqual, 500)
				So(m[0].History, ShouldResemble, []int64{900, 500})
			})
		})

		Convey("When fetching a single run", func() {
			req := httptest.NewRequest("GET", "/snapshot?run=1", nil)
			w := httptest.NewRecorder()
			h.HandleGetSnapshot(w, req)

			var run types.Run
			So(json.Unmarshal(w.Body.Bytes(), &run), ShouldBeNil)
			So(w.Code, ShouldEqual, http.StatusOK)
			So(run.Owner, ShouldEqual, "bob")
		})

		Convey("When the run index is not a number", func() {
			req := httptest.NewRequest("GET", "/snapshot?run=x", nil)
			w := httptest.NewRecorder()
			h.HandleGetSnapshot(w, req)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When the run index is out of range", func() {
			req := httptest.NewRequest("GET", "/snapshot?run=9", nil)
			w := httptest.NewRecorder()
			h.HandleGetSnapshot(w, req)
			So(w.Code, ShouldEqual, http.StatusNotFound)
			So(w.Body.String(), ShouldContainSubstring, `"code":"not_found"`)
		})
	})

	Convey("Given an empty store", t, func() {
		h := api.NewSnapshotHandler(repository.NewSnapshotStore())
		req := httptest.NewRequest("GET", "/snapshot", nil)
		w := httptest.NewRecorder()
		h.HandleGetSnapshot(w, req)

		Convey("Then sections is an empty array and no age is reported", func() {
			So(w.Body.String(), ShouldContainSubstring, `"sections":[]`)
			So(w.Body.String(), ShouldNotContainSubstring, `"age"`)
			So(w.Body.String(), ShouldNotContainSubstring, `"completed_at"`)
		})
	})
}

func TestMetricsMiddleware(t *testing.T) {
	Convey("Given a handler wrapped in the metrics middleware", t, func() {
		wrapped := api.MetricsMiddleware(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusTeapot)
		}, "teapot")

		Convey("Then the status code passes through", func() {
			w := httptest.NewRecorder()
			wrapped(w, httptest.NewRequest("GET", "/", nil))
			So(w.Code, ShouldEqual, http.StatusTeapot)
		})
	})
}

func TestOpError(t *testing.T) {
	Convey("Given an operation error", t, func() {
		cause := errors.New("parse failure")
		err := api.Wrap("api.op", api.ErrBadRequest, cause)

		Convey("Then both the kind and the cause match", func() {
			So(errors.Is(err, api.ErrBadRequest), ShouldBeTrue)
			So(errors.Is(err, cause), ShouldBeTrue)
			So(err.Error(), ShouldEqual, "api.op: bad request: parse failure")
		})

		Convey("Then a bare kind formats without a cause", func() {
			So(api.NewKind("api.op", api.ErrNotFound).Error(), ShouldEqual, "api.op: not found")
		})
	})
}

package main

import (
	"path/filepath"
	"testing"

	"github.com/okian/runscope/internal/feed"
	"github.com/smartystreets/goconvey/convey"
)

func TestGenerate(t *testing.T) {
	convey.Convey("Given an output path", t, func() {
		path := filepath.Join(t.TempDir(), "runs.yaml")

		convey.Convey("When generating a seeded fixture", func() {
			err := generate(4, 42, path)

			convey.Convey("Then it loads back with the requested runs", func() {
				convey.So(err, convey.ShouldBeNil)
				fx, err := feed.LoadFixture(path)
				convey.So(err, convey.ShouldBeNil)
				convey.So(len(fx.Runs), convey.ShouldEqual, 4)
			})
		})

		convey.Convey("When too many runs are requested", func() {
			convey.So(generate(99, 1, path), convey.ShouldNotBeNil)
		})
	})
}

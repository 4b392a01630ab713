package main

import (
	"flag"
	"fmt"
	"io"
	"math/rand"
	"os"
	"time"

	"github.com/okian/runscope/internal/domain/model"
	"github.com/okian/runscope/internal/feed"
)

const defaultRuns = 6

func main() {
	var (
		runs   = flag.Int("runs", defaultRuns, "Number of runs to generate")
		seed   = flag.Int64("seed", 0, "Random seed (0 uses the clock)")
		output = flag.String("output", "", "Output file (default: stdout)")
	)
	flag.Parse()

	if err := generate(*runs, *seed, *output); err != nil {
		os.Stderr.WriteString("fixture-gen: " + err.Error() + "\n")
		os.Exit(1)
	}
}

func generate(runs int, seed int64, output string) error {
	if runs < 0 || runs > model.MaxRuns {
		return fmt.Errorf("runs must be in [0, %d]", model.MaxRuns)
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	fx := feed.Generate(rand.New(rand.NewSource(seed)), runs)

	var w io.Writer = os.Stdout
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("create %s: %w", output, err)
		}
		defer func() { _ = f.Close() }()
		w = f
	}

	return feed.EncodeFixture(w, fx)
}

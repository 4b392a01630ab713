package feed

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/google/uuid"
	"github.com/okian/runscope/internal/domain/fixedpoint"
	"github.com/okian/runscope/internal/domain/model"
)

// Statuses a generated run can have.
const (
	StatusRunning  = "running"
	StatusFinished = "finished"
	StatusCrashed  = "crashed"
)

var (
	adjectives = []string{"fluent", "brisk", "quiet", "amber", "lucid", "polar", "vivid", "solar"} //nolint:gochecknoglobals // word list
	nouns      = []string{"sun", "river", "field", "comet", "pine", "meadow", "spark", "tide"}     //nolint:gochecknoglobals // word list
	owners     = []string{"vision", "speech", "ranker", "rl-agent", "tabular"}                     //nolint:gochecknoglobals // word list
)

// metricShape describes a random walk in display units.
type metricShape struct {
	name     string
	start    float64
	drift    float64
	noise    float64
	decimals int
	floor    float64
}

var shapes = []metricShape{ //nolint:gochecknoglobals // generator table
	{name: "loss", start: 2.4, drift: -0.09, noise: 0.04, decimals: 4, floor: 0.0001},
	{name: "val_loss", start: 2.6, drift: -0.08, noise: 0.07, decimals: 4, floor: 0.0001},
	{name: "accuracy", start: 0.31, drift: 0.03, noise: 0.015, decimals: 4},
	{name: "val_accuracy", start: 0.28, drift: 0.028, noise: 0.02, decimals: 4},
	{name: "lr", start: 0.001, drift: -0.00004, decimals: 4},
	{name: "epoch", start: 0, drift: 1, decimals: 0},
	{name: "grad_norm", start: 6, drift: -0.2, noise: 0.6, decimals: 2, floor: 0.01},
	{name: "gpu_util", start: 82, noise: 4, decimals: 1},
	{name: "throughput", start: 1180, drift: 6, noise: 40, decimals: 0},
	{name: "reward", start: -120, drift: 9, noise: 12, decimals: 1},
	{name: "perplexity", start: 48, drift: -1.9, noise: 0.8, decimals: 2, floor: 1},
	{name: "f1", start: 0.2, drift: 0.03, noise: 0.02, decimals: 4},
	{name: "precision", start: 0.25, drift: 0.028, noise: 0.02, decimals: 4},
	{name: "recall", start: 0.22, drift: 0.031, noise: 0.02, decimals: 4},
	{name: "kl", start: 0.8, drift: -0.03, noise: 0.05, decimals: 4},
	{name: "entropy", start: 2.1, drift: -0.05, noise: 0.04, decimals: 3},
	{name: "mem_gb", start: 14.2, drift: 0.05, noise: 0.3, decimals: 2},
	{name: "step_time", start: 0.41, noise: 0.03, decimals: 3, floor: 0.001},
	{name: "tokens", start: 0, drift: 2048, decimals: 0},
	{name: "wer", start: 0.6, drift: -0.02, noise: 0.02, decimals: 4},
}

// Generate builds a fixture of n runs from rng. The same seed yields the same
// fixture.
func Generate(rng *rand.Rand, n int) Fixture {
	fx := Fixture{Runs: make([]FixtureRun, 0, n)}
	for i := 0; i < n; i++ {
		fx.Runs = append(fx.Runs, generateRun(rng))
	}
	return fx
}

func generateRun(rng *rand.Rand) FixtureRun {
	run := FixtureRun{
		Name:   runName(rng),
		Owner:  owners[rng.Intn(len(owners))],
		Status: status(rng),
	}

	count := 2 + rng.Intn(model.MaxMetricsPerRun-1)
	if run.Status == StatusCrashed && rng.Intn(3) == 0 {
		count = 0
	}

	order := rng.Perm(len(shapes))
	for _, k := range order[:min(count, len(shapes))] {
		run.Metrics = append(run.Metrics, walk(rng, shapes[k]))
	}

	return run
}

func runName(rng *rand.Rand) string {
	suffix := fmt.Sprintf("%06x", rng.Intn(1<<24))
	if id, err := uuid.NewRandomFromReader(rng); err == nil {
		suffix = id.String()[:6]
	}
	return fmt.Sprintf("%s-%s-%s", adjectives[rng.Intn(len(adjectives))], nouns[rng.Intn(len(nouns))], suffix)
}

func status(rng *rand.Rand) string {
	switch r := rng.Intn(10); {
	case r < 5:
		return StatusRunning
	case r < 9:
		return StatusFinished
	default:
		return StatusCrashed
	}
}

// walk produces between 1 and model.MaxHistoryPoints samples. Every sample is
// a multiple of the shape's precision so the value text round-trips.
func walk(rng *rand.Rand, s metricShape) FixtureMetric {
	points := 1 + rng.Intn(model.MaxHistoryPoints)
	quantum := int64(math.Pow10(fixedpoint.MaxDecimals - s.decimals))

	history := make([]int64, points)
	v := s.start
	for i := range history {
		if i > 0 {
			v += s.drift + rng.NormFloat64()*s.noise
		}
		if s.floor != 0 && v < s.floor {
			v = s.floor
		}
		scaled := int64(math.Round(v * fixedpoint.Scale))
		history[i] = scaled / quantum * quantum
	}

	return FixtureMetric{
		Name:    s.name,
		Value:   fixedpoint.Format(history[points-1], s.decimals),
		History: history,
	}
}

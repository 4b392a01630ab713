package feed

import (
	"fmt"
	"io"
	"os"

	"github.com/okian/runscope/internal/domain/message"
	"gopkg.in/yaml.v3"
)

// Fixture is a canned host data set: the runs announced on start and the
// metrics served for each run on request.
type Fixture struct {
	Runs []FixtureRun `yaml:"runs"`
}

// FixtureRun is one run of a fixture.
type FixtureRun struct {
	Name    string          `yaml:"name"`
	Owner   string          `yaml:"owner"`
	Status  string          `yaml:"status"`
	Metrics []FixtureMetric `yaml:"metrics,omitempty"`
}

// FixtureMetric is one metric page. History holds values scaled by 10^4.
type FixtureMetric struct {
	Name    string  `yaml:"name"`
	Value   string  `yaml:"value"`
	History []int64 `yaml:"history,flow"`
}

// Tuple converts the run to its host message.
func (r FixtureRun) Tuple() message.Message {
	return message.Run(r.Name, r.Owner, r.Status)
}

// Tuple converts the metric to its host message.
func (m FixtureMetric) Tuple() message.Message {
	return message.Metric(m.Name, m.Value, m.History)
}

// LoadFixture reads a YAML fixture from path.
func LoadFixture(path string) (Fixture, error) {
	f, err := os.Open(path)
	if err != nil {
		return Fixture{}, fmt.Errorf("%w: %w", ErrFixture, err)
	}
	defer func() { _ = f.Close() }()

	return DecodeFixture(f)
}

// DecodeFixture parses a YAML fixture.
func DecodeFixture(r io.Reader) (Fixture, error) {
	var fx Fixture
	if err := yaml.NewDecoder(r).Decode(&fx); err != nil {
		return Fixture{}, fmt.Errorf("%w: decode: %w", ErrFixture, err)
	}
	for i, run := range fx.Runs {
		if run.Name == "" {
			return Fixture{}, fmt.Errorf("%w: run %d has no name", ErrFixture, i)
		}
	}
	return fx, nil
}

// EncodeFixture writes fx as YAML.
func EncodeFixture(w io.Writer, fx Fixture) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(fx); err != nil {
		return fmt.Errorf("%w: encode: %w", ErrFixture, err)
	}
	return enc.Close()
}

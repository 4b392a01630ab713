package logger

import "io"

type config struct {
	output io.Writer
	json   bool
	level  string
}

// Option configures Init.
type Option func(*config)

// WithOutput writes log records to w instead of stdout.
func WithOutput(w io.Writer) Option {
	return func(c *config) {
		c.output = w
	}
}

// WithJSON switches the handler to JSON records.
func WithJSON() Option {
	return func(c *config) {
		c.json = true
	}
}

// WithLevel sets the initial level (debug, info, warn, error).
func WithLevel(level string) Option {
	return func(c *config) {
		c.level = level
	}
}

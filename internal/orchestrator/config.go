package orchestrator

import (
	"errors"
	"fmt"

	"github.com/dusk-indust/reassemble/internal/concat"
	"github.com/dusk-indust/reassemble/internal/discovery"
)

const (
	// DefaultBatchSize is the fan-in of every merge step.
	DefaultBatchSize = 32

	// MinBatchSize and MaxBatchSize bound BatchSize inclusively.
	MinBatchSize = 2
	MaxBatchSize = 100
)

// ErrBatchSize is returned by Validate for an out-of-range batch size.
var ErrBatchSize = errors.New("batch size out of range")

// Config holds runtime configuration for a reconstruction run. It is passed
// by value into every constructor and never mutated afterwards.
type Config struct {
	// Root is the directory searched for fragments.
	Root string

	// Marker separates a fragment's target path from its ordinal.
	Marker string

	// BatchSize is the maximum number of fragments, or child tasks, folded
	// into one task.
	BatchSize int

	// Retry governs how a failing concatenation is repeated.
	Retry concat.Policy

	// Workers caps how many concatenations run at once across one
	// scheduler. Zero means no cap.
	Workers int
}

// DefaultConfig returns the configuration used when nothing is overridden.
func DefaultConfig() Config {
	return Config{
		Root:      ".",
		Marker:    discovery.DefaultMarker,
		BatchSize: DefaultBatchSize,
		Retry:     concat.DefaultPolicy(),
	}
}

// Validate checks every field. It runs before any reconstruction starts.
func (c Config) Validate() error {
	if c.BatchSize < MinBatchSize || c.BatchSize > MaxBatchSize {
		return fmt.Errorf("%w: %d (want %d-%d)", ErrBatchSize, c.BatchSize, MinBatchSize, MaxBatchSize)
	}
	if c.Marker == "" {
		return errors.New("fragment marker must not be empty")
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", c.Workers)
	}
	if err := c.Retry.Validate(); err != nil {
		return err
	}
	return nil
}

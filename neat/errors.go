package neat

import (
	"fmt"

	"github.com/pkg/errors"
)

// ConfigError reports a problem loading or validating a Parameters file —
// a missing key, an out-of-range value, or an unrecognized enum option.
// Callers can recover the underlying section/key via errors.As.
type ConfigError struct {
	Section string
	Key     string
	cause   error
}

func (e *ConfigError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("config error in section %q: %v", e.Section, e.cause)
	}
	return fmt.Sprintf("config error in section %q, key %q: %v", e.Section, e.Key, e.cause)
}

func (e *ConfigError) Unwrap() error { return e.cause }

func newConfigError(section, key string, cause error) *ConfigError {
	return &ConfigError{Section: section, Key: key, cause: cause}
}

func newConfigErrorf(section, key, format string, args ...interface{}) *ConfigError {
	return newConfigError(section, key, errors.Errorf(format, args...))
}

// ShapeMismatch is returned when a network is activated with an input slice
// whose length does not equal the number of input nodes it was built from.
type ShapeMismatch struct {
	Want int
	Got  int
	What string
}

func (e *ShapeMismatch) Error() string {
	return fmt.Sprintf("shape mismatch: %s expected %d, got %d", e.What, e.Want, e.Got)
}

// ExtinctionError is returned by Reproduce when every species has stagnated,
// leaving no eligible parent population. Population.Run passes it on to its
// caller only when ResetOnExtinction is false; otherwise it re-seeds.
type ExtinctionError struct {
	Generation int
}

func (e *ExtinctionError) Error() string {
	return fmt.Sprintf("population extinct at generation %d: all species stagnant", e.Generation)
}

// EvalTimeoutError is returned by the ParallelEvaluator when a genome's
// fitness function does not complete within its per-task deadline.
type EvalTimeoutError struct {
	Genome GenomeID
}

func (e *EvalTimeoutError) Error() string {
	return fmt.Sprintf("fitness evaluation timed out for genome %d", e.Genome)
}

// errCycleDetected is an unexported sentinel naming the cycle-detected error
// kind. Structural mutation does not return it: mutateAddLink checks
// createsCycle's boolean result and silently skips a cycle-closing
// candidate, so callers never see an error for it.
var errCycleDetected = errors.New("cycle detected")

// NoEvolutionError is returned by Population.Run when it exits having never
// evaluated a single genome — currently only when called with a nil fitness
// function, since a non-positive generation budget now means "unbounded"
// rather than "none" (§4.G/§6: max_generations is optional).
type NoEvolutionError struct {
	Reason string
}

func (e *NoEvolutionError) Error() string {
	return fmt.Sprintf("no evolution performed: %s", e.Reason)
}

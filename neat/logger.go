package neat

import (
	"log"
	"os"
)

// Logger is the minimal logging surface Population and StatisticalData
// write progress through. The teacher logs the evolutionary loop with bare
// fmt.Printf/fmt.Println calls in population.go/reproduction.go/species.go;
// this keeps that texture for the hot path but routes it through an
// interface so callers can silence or redirect it instead of it going
// straight to stdout.
type Logger interface {
	Printf(format string, args ...interface{})
}

// stdLogger backs the default Logger with the standard library's
// log.Logger, the same destination the teacher's fmt.Printf calls wrote to.
type stdLogger struct {
	*log.Logger
}

// DefaultLogger returns a Logger writing to stderr with no timestamp
// prefix, matching the teacher's unadorned fmt.Printf output.
func DefaultLogger() Logger {
	return &stdLogger{log.New(os.Stderr, "", 0)}
}

// nopLogger discards everything written to it.
type nopLogger struct{}

func (nopLogger) Printf(string, ...interface{}) {}

// NopLogger returns a Logger that discards all output.
func NopLogger() Logger {
	return nopLogger{}
}

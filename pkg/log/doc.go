// Package log provides the logging abstraction used across primebench.
//
// Components accept a [Logger] so they can be driven by zerolog in the CLI
// and by [NoopLogger] in tests:
//
//	logger := log.NewZerologAdapter(zerolog.InfoLevel)
//	logger.Info("benchmark finished", log.Duration("parallel", d))
//
// Implement the Logger interface to plug in another logging library.
package log

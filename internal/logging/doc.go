// Package logging constructs slog loggers for the CLI and pipeline.
//
// Two output formats are supported: a human-oriented console handler and a
// JSON handler for machine consumption. Output fans out to stdout plus the
// configured log directory. Attr helpers and context-derived fields keep
// structured keys consistent across packages.
package logging

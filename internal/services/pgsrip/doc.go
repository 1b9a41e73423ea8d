// Package pgsrip wraps the external pgsrip CLI that extracts PGS subtitle
// streams from video containers and OCRs them into SRT files.
//
// The wrapper builds the argument list from rip options, spawns one process
// at a time with an explicit per-invocation environment (tool directories
// prepended to PATH, TESSDATA_PREFIX set on the child only), and streams
// the tool's output line by line to the caller. Process-global environment
// is never mutated, so concurrent use elsewhere cannot observe leakage.
package pgsrip

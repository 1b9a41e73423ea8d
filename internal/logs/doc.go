// Package logs provides bounded-memory log file tailing for the CLI.
// It supports "last N lines" reads and a polling follow mode that powers
// `subocr logs --follow` while a batch or watcher runs elsewhere.
package logs

// Package preflight validates the environment before a rip run: directory
// permissions, external binaries, and Tesseract language coverage. Checks
// return results instead of errors so callers can render all findings at
// once rather than failing on the first problem.
package preflight

// Package watch monitors the input directory and feeds newly arrived
// videos into a handler once their writes have settled.
package watch

// Package pipeline orchestrates subtitle extraction: it spawns pgsrip per
// video, locates the SRT it produced, moves it to the output directory,
// and grades it with the analysis package. Batch runs are serialized by a
// file lock and persisted to the results store.
package pipeline

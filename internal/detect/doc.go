// Package detect identifies which .srt file an external ripping tool
// produced by diffing directory snapshots taken before and after the run.
//
// The ripping tool's output location and naming vary between versions and
// working directories, so there is no fixed path contract. Instead, callers
// snapshot the candidate directories, run the tool, snapshot again, and ask
// this package for the new or modified files. Selection prefers a candidate
// whose name starts with the source video's stem, which disambiguates
// leftovers from prior runs.
package detect

// Package analysis produces heuristic quality reports for SRT files.
//
// The analyzer is a cheap proxy for "did the OCR pass plausibly succeed".
// It counts sequence-index lines and timestamp ranges, estimates duration
// from the last timestamp, and classifies the file into a status label via
// an ordered rule list. It never fails: unreadable or malformed input is
// encoded into the Status field so batch processing can continue and a
// human can review flagged items later.
//
// Reports are advisory, not load-bearing; false positives and negatives are
// acceptable because an operator reviews anything suspicious.
package analysis

// Package results persists rip run outcomes in SQLite and exports them as
// JSON or CSV reports. Each batch run gets a row in runs; every processed
// video gets a row in results carrying the SRT quality analysis.
package results

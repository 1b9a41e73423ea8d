// Package services defines the shared error taxonomy and context helpers
// used by the pipeline and the external tool wrappers.
//
// Errors are tagged with sentinel markers (external tool, validation,
// configuration, not found, transient) so callers can classify a failure
// without string matching. Context helpers carry the batch run ID and the
// video under processing into structured logs.
package services

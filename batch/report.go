// Package batch runs extraction-and-submission jobs over many items with
// per-item failure isolation: one bad document never aborts the run.
package batch

// Failure records one item that did not make it to the sink.
type Failure struct {
	// ID identifies the item (URL, file path, or section title).
	ID string
	// Reason is a short human-readable cause for the run summary.
	Reason string
	// Err is the underlying error, kept so callers can classify failures
	// with errors.Is.
	Err error
}

// Report summarizes one batch run.
type Report struct {
	Total     int
	Succeeded int
	Failures  []Failure
}

// Failed reports how many items did not succeed.
func (r *Report) Failed() int { return len(r.Failures) }

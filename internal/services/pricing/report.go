package pricing

import "sync"

// Summary is the serializable counter set for one ingestion run.
type Summary struct {
	Total   int      `json:"total"`
	Success int      `json:"success"`
	Failed  int      `json:"failed"`
	Skipped int      `json:"skipped"`
	Errors  []string `json:"errors,omitempty"`
}

// Report accumulates per-item outcomes across one ingestion run. It is
// scoped to a single invocation and never persisted.
type Report struct {
	mu sync.Mutex
	Summary
}

func NewReport(total int) *Report {
	return &Report{Summary: Summary{Total: total}}
}

func (r *Report) AddSuccess() {
	r.mu.Lock()
	r.Success++
	r.mu.Unlock()
}

func (r *Report) AddSkipped() {
	r.mu.Lock()
	r.Skipped++
	r.mu.Unlock()
}

// AddFailure records a failed item together with its labelled error message.
func (r *Report) AddFailure(msg string) {
	r.mu.Lock()
	r.Failed++
	r.Errors = append(r.Errors, msg)
	r.mu.Unlock()
}

// Snapshot returns a copy safe to serialize after the run has finished.
func (r *Report) Snapshot() Summary {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.Summary
	out.Errors = append([]string(nil), r.Errors...)
	return out
}

package lookup

import "sync"

// Tracker orders the lookups made for one session so that the most recently
// started one decides what is displayed, whatever order responses arrive in.
type Tracker struct {
	mu      sync.Mutex
	next    uint64
	applied uint64
	current *Report
}

// Begin reserves the sequence number for a new lookup.
func (t *Tracker) Begin() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.next++
	return t.next
}

// Complete records the outcome of lookup seq. report is nil when the lookup
// failed; a failure still retires every older lookup but leaves the current
// report in place. Complete returns false if a newer lookup already finished.
func (t *Tracker) Complete(seq uint64, report *Report) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if seq <= t.applied {
		return false
	}
	t.applied = seq
	if report != nil {
		t.current = report
	}
	return true
}

// Current returns a copy of the applied report, or nil before any lookup
// has succeeded.
func (t *Tracker) Current() *Report {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.current == nil {
		return nil
	}
	r := *t.current
	return &r
}

// SetSaved updates the saved flag of the applied report.
func (t *Tracker) SetSaved(saved bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.current == nil {
		return
	}
	r := *t.current
	r.IsSaved = saved
	t.current = &r
}

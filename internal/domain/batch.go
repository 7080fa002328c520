package domain

// Outcome is the result of one item of a batch remediation.
type Outcome string

const (
	OutcomeApplied Outcome = "applied"
	OutcomeFailed  Outcome = "failed"
	OutcomeSkipped Outcome = "skipped"
)

// BatchItem reports what happened to one violation of a batch.
type BatchItem struct {
	Violation Violation `json:"violation"`
	Outcome   Outcome   `json:"outcome"`
	Reason    string    `json:"reason,omitempty"`
	Message   string    `json:"message,omitempty"`
}

// BatchReport lists per-item outcomes in input order.
type BatchReport struct {
	Items      []BatchItem `json:"items"`
	RefreshErr error       `json:"-"`
}

// Count returns how many items ended with outcome o.
func (r BatchReport) Count(o Outcome) int {
	n := 0
	for _, it := range r.Items {
		if it.Outcome == o {
			n++
		}
	}
	return n
}

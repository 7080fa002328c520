package domain

// JournalEntry records one fix applied through this client.
type JournalEntry struct {
	ID        string `json:"id"`
	Timestamp string `json:"timestamp"`
	File      string `json:"file"`
	Path      string `json:"path"`
	RuleID    string `json:"rule_id"`
	Message   string `json:"message"`
	// Diff is the previewed diff when the fix was confirmed from a preview.
	Diff string `json:"diff,omitempty"`
}

package domain

// FixRequest is the body of POST /api/v1/compliance/fix.
type FixRequest struct {
	FilePath string `json:"file_path"`
	RuleID   string `json:"rule_id"`
	DryRun   bool   `json:"dry_run"`
}

// FixResult is the server's answer to a fix request. A dry run carries the
// diff and the content the file would have after the fix.
type FixResult struct {
	Success    bool   `json:"success"`
	Message    string `json:"message"`
	Diff       string `json:"diff,omitempty"`
	NewContent string `json:"new_content,omitempty"`
}

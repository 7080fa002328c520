package domain

import "context"

// ComplianceClient issues the two remote operations of the remediation workflow.
type ComplianceClient interface {
	// FetchSnapshot runs validation on the server and returns a normalized snapshot.
	FetchSnapshot(ctx context.Context) (*ComplianceSnapshot, error)
	// Fix requests a fix for one rule in one file. A dry run never mutates server state.
	Fix(ctx context.Context, path, ruleID string, dryRun bool) (*FixResult, error)
}

// ScoreHistory persists the local score trend.
type ScoreHistory interface {
	Save(projectPath string, entry ScoreEntry) error
	Load(projectPath string) ([]ScoreEntry, error)
}

// FixJournal records fixes applied through this client.
type FixJournal interface {
	Append(projectPath string, entry JournalEntry) error
	Load(projectPath string) ([]JournalEntry, error)
}

// GitInfo reads revision metadata from a local checkout.
type GitInfo interface {
	CommitHash(projectPath string) (string, error)
}

// ConfigLoader loads project configuration.
type ConfigLoader interface {
	Load(projectPath string) (Config, error)
}

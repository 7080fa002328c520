package domain

import "time"

// ScoreEntry is one point of the local score history.
type ScoreEntry struct {
	Timestamp  string  `json:"timestamp"`
	CommitHash string  `json:"commit_hash,omitempty"`
	Score      float64 `json:"score"`
	Grade      string  `json:"grade"`
	Violations int     `json:"violations"`
	Compliant  bool    `json:"compliant"`
}

// EntryFor builds a history entry from a snapshot.
func EntryFor(s *ComplianceSnapshot, commitHash string) ScoreEntry {
	return ScoreEntry{
		Timestamp:  s.FetchedAt.UTC().Format(time.RFC3339),
		CommitHash: commitHash,
		Score:      s.Score,
		Grade:      s.Grade(),
		Violations: len(s.Violations),
		Compliant:  s.IsCompliant,
	}
}

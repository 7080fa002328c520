package domain

import (
	"math"
	"time"
)

// Severity levels reported by the compliance backend. Ordering is for display only.
const (
	SeverityCritical = "critical"
	SeverityHigh     = "high"
	SeverityMedium   = "medium"
	SeverityLow      = "low"
)

// SeverityRank returns a numeric rank for sorting severities (lower is more severe).
func SeverityRank(s string) int {
	switch s {
	case SeverityCritical:
		return 0
	case SeverityHigh:
		return 1
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 3
	default:
		return 4
	}
}

// Violation is one detected non-compliance finding tied to a file and rule.
type Violation struct {
	File     string `json:"file"`
	Path     string `json:"path,omitempty"`
	RuleID   string `json:"rule_id"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
}

// ValidationPayload is the raw body of GET /api/v1/compliance/validate.
type ValidationPayload struct {
	ComplianceRate float64     `json:"compliance_rate"`
	Violations     []Violation `json:"violations"`
	TotalFiles     int         `json:"total_files"`
	ValidFiles     int         `json:"valid_files"`
}

// ComplianceSnapshot is the aggregate compliance view. It is never mutated
// after construction; a refresh replaces it wholesale.
type ComplianceSnapshot struct {
	Score       float64     `json:"score"`
	IsCompliant bool        `json:"is_compliant"`
	Violations  []Violation `json:"violations"`
	TotalFiles  int         `json:"total_files"`
	ValidFiles  int         `json:"valid_files"`
	FetchedAt   time.Time   `json:"fetched_at"`
}

// NewSnapshot normalizes a validation payload. IsCompliant is always derived
// from the rate, whatever the server sent alongside it.
func NewSnapshot(p ValidationPayload, fetchedAt time.Time) *ComplianceSnapshot {
	violations := make([]Violation, len(p.Violations))
	copy(violations, p.Violations)
	return &ComplianceSnapshot{
		Score:       p.ComplianceRate,
		IsCompliant: p.ComplianceRate == 100,
		Violations:  violations,
		TotalFiles:  p.TotalFiles,
		ValidFiles:  p.ValidFiles,
		FetchedAt:   fetchedAt,
	}
}

// Rounded returns the score as an integer percentage.
func (s *ComplianceSnapshot) Rounded() int {
	return int(math.Round(s.Score))
}

func (s *ComplianceSnapshot) Grade() string { return GradeFor(s.Rounded()) }

// Keys returns the set of remediation keys present in the snapshot.
func (s *ComplianceSnapshot) Keys() map[string]bool {
	keys := make(map[string]bool, len(s.Violations))
	for _, v := range s.Violations {
		keys[Key(v)] = true
	}
	return keys
}

// Find returns the violation of ruleID whose file or full path equals file.
func (s *ComplianceSnapshot) Find(file, ruleID string) (Violation, bool) {
	for _, v := range s.Violations {
		if v.RuleID == ruleID && (v.File == file || (v.Path != "" && v.Path == file)) {
			return v, true
		}
	}
	return Violation{}, false
}

// Fixable returns the violations eligible for automated remediation, in snapshot order.
func (s *ComplianceSnapshot) Fixable(policy FixabilityPolicy) []Violation {
	var out []Violation
	for _, v := range s.Violations {
		if policy.IsFixable(v.RuleID) {
			out = append(out, v)
		}
	}
	return out
}

func GradeFor(score int) string {
	switch {
	case score >= 90:
		return "A+"
	case score >= 80:
		return "A"
	case score >= 70:
		return "B"
	case score >= 60:
		return "C"
	case score >= 50:
		return "D"
	default:
		return "F"
	}
}

func BadgeColor(score int) string {
	switch {
	case score >= 90:
		return "brightgreen"
	case score >= 80:
		return "green"
	case score >= 70:
		return "yellow"
	case score >= 60:
		return "orange"
	case score >= 50:
		return "red"
	default:
		return "critical"
	}
}

package tui_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/abdidvp/docqms/internal/adapters/outbound/tui"
	"github.com/abdidvp/docqms/internal/domain"
)

var (
	vA = domain.Violation{File: "docs/adr/a.md", Path: "/repo/docs/adr/a.md", RuleID: "missing_required_field", Severity: "high", Message: "missing branch_name"}
	vB = domain.Violation{File: "docs/b.md", RuleID: "broken_link", Severity: "critical", Message: "link to nowhere"}
)

func sampleSnapshot() *domain.ComplianceSnapshot {
	return domain.NewSnapshot(domain.ValidationPayload{
		ComplianceRate: 67.5,
		Violations:     []domain.Violation{vA, vB},
		TotalFiles:     10,
		ValidFiles:     8,
	}, time.Now())
}

func TestRenderSnapshot_ContainsScoreAndGrade(t *testing.T) {
	output := tui.RenderSnapshot(sampleSnapshot(), nil, domain.DefaultFixabilityPolicy())
	assert.Contains(t, output, "67.5%")
	assert.Contains(t, output, "C")
	assert.Contains(t, output, "non-compliant")
	assert.Contains(t, output, "8/10 files valid")
}

func TestRenderSnapshot_ListsViolations(t *testing.T) {
	output := tui.RenderSnapshot(sampleSnapshot(), nil, domain.DefaultFixabilityPolicy())
	assert.Contains(t, output, "docs/adr/a.md")
	assert.Contains(t, output, "missing branch_name")
	assert.Contains(t, output, "1 critical")
	assert.Contains(t, output, "1 high")
	assert.Contains(t, output, "fixable")
}

func TestRenderSnapshot_CriticalFirst(t *testing.T) {
	output := tui.RenderSnapshot(sampleSnapshot(), nil, domain.DefaultFixabilityPolicy())
	assert.Less(t, indexOf(output, "link to nowhere"), indexOf(output, "missing branch_name"))
}

func TestRenderSnapshot_ShowsRowPhase(t *testing.T) {
	states := map[string]domain.RemediationState{
		domain.Key(vA): domain.ApplyFailed(vA, "file locked"),
	}
	output := tui.RenderSnapshot(sampleSnapshot(), states, domain.DefaultFixabilityPolicy())
	assert.Contains(t, output, "fix failed")
	assert.Contains(t, output, "file locked")
}

func TestRenderSnapshot_Compliant(t *testing.T) {
	snap := domain.NewSnapshot(domain.ValidationPayload{ComplianceRate: 100, TotalFiles: 3, ValidFiles: 3}, time.Now())
	output := tui.RenderSnapshot(snap, nil, domain.DefaultFixabilityPolicy())
	assert.Contains(t, output, "100%")
	assert.Contains(t, output, "compliant")
	assert.Contains(t, output, "No violations found.")
}

func TestRenderHistory_Trend(t *testing.T) {
	output := tui.RenderHistory([]domain.ScoreEntry{
		{Timestamp: "2026-02-25T10:00:00Z", CommitHash: "abc1234def", Score: 60, Grade: "C", Violations: 4},
		{Timestamp: "2026-02-26T10:00:00Z", Score: 80, Grade: "A", Violations: 2},
	})
	assert.Contains(t, output, "2026-02-25")
	assert.Contains(t, output, "abc1234")
	assert.NotContains(t, output, "abc1234d")
	assert.Contains(t, output, "↑20")
}

func TestRenderHistory_Empty(t *testing.T) {
	assert.Contains(t, tui.RenderHistory(nil), "No score history found.")
}

func indexOf(s, sub string) int {
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return i
		}
	}
	return -1
}

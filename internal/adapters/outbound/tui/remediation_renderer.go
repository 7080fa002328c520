package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/abdidvp/docqms/internal/domain"
)

var (
	sectionHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(accent)
	hintStyle          = lipgloss.NewStyle().Foreground(dim).Italic(true)
	addStyle           = lipgloss.NewStyle().Foreground(success)
	delStyle           = lipgloss.NewStyle().Foreground(danger)
	hunkStyle          = lipgloss.NewStyle().Foreground(info)
)

// RenderPhase renders a one-line badge for a remediation state.
func RenderPhase(st domain.RemediationState) string {
	switch st.Phase {
	case domain.PhasePreviewPending:
		return infoTagStyle.Render("◌ generating preview…")
	case domain.PhasePreviewReady:
		return passStyle.Render("● preview ready") + dimStyle.Render(" (confirm or cancel)")
	case domain.PhasePreviewFailed:
		return failStyle.Render("✗ preview failed: ") + dimStyle.Render(st.Reason)
	case domain.PhaseApplyPending:
		return warnStyle.Render("◌ applying fix…")
	case domain.PhaseApplyFailed:
		return failStyle.Render("✗ fix failed: ") + dimStyle.Render(st.Reason)
	default:
		return ""
	}
}

// RenderDiff colours a unified diff line by line.
func RenderDiff(diff string) string {
	if strings.TrimSpace(diff) == "" {
		return "  " + dimStyle.Render("(no changes)") + "\n"
	}
	var b strings.Builder
	for _, line := range strings.Split(strings.TrimRight(diff, "\n"), "\n") {
		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
			b.WriteString("  " + titleStyle.Render(line))
		case strings.HasPrefix(line, "@@"):
			b.WriteString("  " + hunkStyle.Render(line))
		case strings.HasPrefix(line, "+"):
			b.WriteString("  " + addStyle.Render(line))
		case strings.HasPrefix(line, "-"):
			b.WriteString("  " + delStyle.Render(line))
		default:
			b.WriteString("  " + dimStyle.Render(line))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// RenderPreview renders a ready preview with its diff and the follow-up hint.
func RenderPreview(st domain.RemediationState) string {
	var b strings.Builder
	b.WriteString("\n")
	fmt.Fprintf(&b, "  %s %s  %s\n",
		sectionHeaderStyle.Render("Preview"),
		fileStyle.Render(st.Violation.File),
		dimStyle.Render(st.Violation.RuleID))
	b.WriteString("  " + separatorLine + "\n")
	b.WriteString(RenderDiff(st.Diff))
	return b.String()
}

// RenderStates lists every non-idle remediation state, ordered by key.
func RenderStates(states map[string]domain.RemediationState) string {
	if len(states) == 0 {
		return "  " + dimStyle.Render("No remediation in progress.") + "\n"
	}
	keys := make([]string, 0, len(states))
	for k := range states {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString("\n")
	fmt.Fprintf(&b, "  %s %s\n", sectionHeaderStyle.Render("Remediation"), dimStyle.Render(fmt.Sprintf("(%d)", len(keys))))
	for _, k := range keys {
		fmt.Fprintf(&b, "    %s  %s\n", fileStyle.Render(domain.DisplayKey(k)), RenderPhase(states[k]))
	}
	return b.String()
}

// RenderBatch renders the per-item outcome of a batch remediation.
func RenderBatch(report domain.BatchReport) string {
	var b strings.Builder
	b.WriteString("\n")

	applied := report.Count(domain.OutcomeApplied)
	failed := report.Count(domain.OutcomeFailed)
	skipped := report.Count(domain.OutcomeSkipped)
	fmt.Fprintf(&b, "  %s  %s  %s  %s\n",
		sectionHeaderStyle.Render("Batch fix"),
		passStyle.Render(fmt.Sprintf("%d applied", applied)),
		failStyle.Render(fmt.Sprintf("%d failed", failed)),
		skipStyle.Render(fmt.Sprintf("%d skipped", skipped)))
	b.WriteString("  " + separatorLine + "\n")

	for _, it := range report.Items {
		target := fileStyle.Render(it.Violation.File) + "  " + dimStyle.Render(it.Violation.RuleID)
		switch it.Outcome {
		case domain.OutcomeApplied:
			fmt.Fprintf(&b, "    %s %s\n", passStyle.Render("✓"), target)
		case domain.OutcomeFailed:
			fmt.Fprintf(&b, "    %s %s  %s\n", failStyle.Render("✗"), target, failStyle.Render(it.Reason))
		default:
			fmt.Fprintf(&b, "    %s %s  %s\n", skipStyle.Render("○"), target, skipStyle.Render(it.Reason))
		}
	}

	if report.RefreshErr != nil {
		b.WriteString("\n  " + warnTagStyle.Render("warn") + " " + dimStyle.Render(report.RefreshErr.Error()) + "\n")
	}
	if len(report.Items) == 0 {
		b.WriteString("    " + dimStyle.Render("Nothing to fix.") + "\n")
	}
	return b.String()
}

// RenderJournal lists fixes applied through this client, most recent last.
func RenderJournal(entries []domain.JournalEntry) string {
	if len(entries) == 0 {
		return "  " + dimStyle.Render("No fixes recorded.") + "\n"
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString("  " + titleStyle.Render("Fix Journal") + "\n")
	b.WriteString("  " + faintStyle.Render(strings.Repeat("─", 50)) + "\n\n")
	for _, e := range entries {
		id := e.ID
		if len(id) > 8 {
			id = id[:8]
		}
		fmt.Fprintf(&b, "  %s  %s  %s  %s\n",
			dimStyle.Render(e.Timestamp),
			faintStyle.Render(id),
			fileStyle.Render(e.File),
			dimStyle.Render(e.RuleID))
		if e.Message != "" {
			fmt.Fprintf(&b, "      %s\n", dimStyle.Render(e.Message))
		}
	}
	return b.String()
}

// RenderHint renders an italic hint line.
func RenderHint(text string) string {
	return "  " + hintStyle.Render(text) + "\n"
}

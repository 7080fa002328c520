package tui

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/abdidvp/docqms/internal/domain"
)

// ── Warm palette ──
var (
	accent    = lipgloss.Color("#D97706") // amber
	fg        = lipgloss.Color("#E8E6E3") // warm light gray
	dim       = lipgloss.Color("#6B7280") // muted gray
	faint     = lipgloss.Color("#3F3F46") // very dim
	success   = lipgloss.Color("#22C55E") // green
	danger    = lipgloss.Color("#EF4444") // red
	warning   = lipgloss.Color("#F59E0B") // amber-yellow
	info      = lipgloss.Color("#8B949E") // soft blue-gray
	skipColor = lipgloss.Color("#4B5563") // dark gray
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accent).
			Align(lipgloss.Center)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(1, 4).
			Align(lipgloss.Center).
			Width(68)

	gradeColors = map[string]lipgloss.Color{
		"A+": success,
		"A":  success,
		"B":  lipgloss.Color("#A3E635"), // lime
		"C":  warning,
		"D":  lipgloss.Color("#FB923C"), // orange
		"F":  danger,
	}

	dimStyle      = lipgloss.NewStyle().Foreground(dim)
	faintStyle    = lipgloss.NewStyle().Foreground(faint)
	passStyle     = lipgloss.NewStyle().Foreground(success)
	failStyle     = lipgloss.NewStyle().Foreground(danger)
	warnStyle     = lipgloss.NewStyle().Foreground(warning)
	skipStyle     = lipgloss.NewStyle().Foreground(skipColor)
	errorTagStyle = lipgloss.NewStyle().Foreground(danger).Bold(true)
	warnTagStyle  = lipgloss.NewStyle().Foreground(warning).Bold(true)
	infoTagStyle  = lipgloss.NewStyle().Foreground(info)
	fileStyle     = lipgloss.NewStyle().Foreground(dim)
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(fg)
	separatorLine = faintStyle.Render(strings.Repeat("─", 64))
)

// RenderSnapshot renders the score box followed by the violation list. Each
// row shows its remediation phase from states, keyed by domain.Key.
func RenderSnapshot(snap *domain.ComplianceSnapshot, states map[string]domain.RemediationState, policy domain.FixabilityPolicy) string {
	var b strings.Builder

	// ── Header ──
	grade := snap.Grade()
	title := headerStyle.Render("docqms")
	subtitle := dimStyle.Render("Documentation Compliance")
	scoreStyled := lipgloss.NewStyle().
		Bold(true).
		Foreground(gradeColor(grade)).
		Render(fmt.Sprintf("%s%%", formatScore(snap.Score)))
	gradeStyled := lipgloss.NewStyle().
		Bold(true).
		Foreground(gradeColor(grade)).
		Render(grade)

	status := failStyle.Render("non-compliant")
	if snap.IsCompliant {
		status = passStyle.Render("compliant")
	}
	files := dimStyle.Render(fmt.Sprintf("%d/%d files valid", snap.ValidFiles, snap.TotalFiles))

	b.WriteString(boxStyle.Render(title + "\n" + subtitle + "\n\n" +
		scoreStyled + "  " + gradeStyled + "\n" +
		coloredBar(snap.Rounded(), 30) + "\n" +
		status + "  " + files))
	b.WriteString("\n\n")

	// ── Violations ──
	if len(snap.Violations) == 0 {
		b.WriteString("  " + passStyle.Render("No violations found.") + "\n\n")
		return b.String()
	}

	violations := sortedViolations(snap.Violations)
	critical, high, other := countSeverities(violations)
	b.WriteString("  ")
	b.WriteString(titleStyle.Render("Violations"))
	b.WriteString("  ")
	if critical > 0 {
		b.WriteString(errorTagStyle.Render(fmt.Sprintf("%d critical", critical)))
		b.WriteString("  ")
	}
	if high > 0 {
		b.WriteString(warnTagStyle.Render(fmt.Sprintf("%d high", high)))
		b.WriteString("  ")
	}
	if other > 0 {
		b.WriteString(infoTagStyle.Render(fmt.Sprintf("%d other", other)))
	}
	b.WriteString("\n  " + separatorLine + "\n\n")

	for _, v := range violations {
		renderViolation(&b, v, states[domain.Key(v)], policy.IsFixable(v.RuleID))
	}

	b.WriteString("\n")
	return b.String()
}

func renderViolation(b *strings.Builder, v domain.Violation, st domain.RemediationState, fixable bool) {
	tag := severityTag(v.Severity)
	rule := dimStyle.Render(v.RuleID)
	if fixable {
		rule += " " + passStyle.Render("fixable")
	}
	fmt.Fprintf(b, "    %s %s  %s\n", tag, fileStyle.Render(shortenPath(v.File)), rule)
	fmt.Fprintf(b, "             %s\n", dimStyle.Render(v.Message))
	if st.Phase != "" && st.Phase != domain.PhaseIdle {
		fmt.Fprintf(b, "             %s\n", RenderPhase(st))
	}
}

func severityTag(severity string) string {
	switch severity {
	case domain.SeverityCritical:
		return errorTagStyle.Render("critical")
	case domain.SeverityHigh:
		return warnTagStyle.Render("high    ")
	case domain.SeverityMedium:
		return warnStyle.Render("medium  ")
	default:
		return infoTagStyle.Render(padRight(severityOrLow(severity), 8))
	}
}

func severityOrLow(s string) string {
	if s == "" {
		return domain.SeverityLow
	}
	return s
}

func countSeverities(vs []domain.Violation) (critical, high, other int) {
	for _, v := range vs {
		switch v.Severity {
		case domain.SeverityCritical:
			critical++
		case domain.SeverityHigh:
			high++
		default:
			other++
		}
	}
	return
}

// sortedViolations orders by severity, then file. The input is not modified.
func sortedViolations(vs []domain.Violation) []domain.Violation {
	out := append([]domain.Violation(nil), vs...)
	sort.SliceStable(out, func(i, j int) bool {
		ri, rj := domain.SeverityRank(out[i].Severity), domain.SeverityRank(out[j].Severity)
		if ri != rj {
			return ri < rj
		}
		return out[i].File < out[j].File
	})
	return out
}

func coloredBar(score, width int) string {
	filled := max(0, min(score*width/100, width))
	empty := width - filled

	color := scoreColor(score)
	filledStr := lipgloss.NewStyle().Foreground(color).Render(strings.Repeat("█", filled))
	emptyStr := lipgloss.NewStyle().Foreground(faint).Render(strings.Repeat("░", empty))
	return filledStr + emptyStr
}

func scoreColor(score int) lipgloss.Color {
	switch {
	case score >= 80:
		return success
	case score >= 60:
		return lipgloss.Color("#A3E635") // lime
	case score >= 40:
		return warning
	default:
		return danger
	}
}

func formatScore(score float64) string {
	if score == float64(int(score)) {
		return fmt.Sprintf("%d", int(score))
	}
	return fmt.Sprintf("%.1f", score)
}

func shortenPath(path string) string {
	if idx := strings.Index(path, "docs/"); idx >= 0 {
		return path[idx:]
	}
	parts := strings.Split(filepath.ToSlash(path), "/")
	if len(parts) > 3 {
		return strings.Join(parts[len(parts)-3:], "/")
	}
	return path
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

// RenderHistory formats score history for terminal output.
func RenderHistory(entries []domain.ScoreEntry) string {
	if len(entries) == 0 {
		return "  " + dimStyle.Render("No score history found.") + "\n"
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString("  " + titleStyle.Render("Score History") + "\n")
	b.WriteString("  " + faintStyle.Render(strings.Repeat("─", 50)) + "\n\n")

	for i, e := range entries {
		hash := e.CommitHash
		if len(hash) > 7 {
			hash = hash[:7]
		}
		if hash == "" {
			hash = "·······"
		}

		scoreStyled := lipgloss.NewStyle().
			Foreground(scoreColor(int(e.Score))).
			Render(padRight(formatScore(e.Score)+"%", 6))

		day := e.Timestamp
		if len(day) > 10 {
			day = day[:10]
		}
		line := fmt.Sprintf("  %s  %s  %s  %s  %s",
			dimStyle.Render(padRight(day, 10)),
			faintStyle.Render(hash),
			scoreStyled,
			padRight(e.Grade, 2),
			dimStyle.Render(fmt.Sprintf("%d violations", e.Violations)),
		)

		if i > 0 {
			diff := e.Score - entries[i-1].Score
			if diff > 0 {
				line += "  " + passStyle.Render("↑"+formatScore(diff))
			} else if diff < 0 {
				line += "  " + failStyle.Render("↓"+formatScore(-diff))
			}
		}

		b.WriteString(line)
		b.WriteString("\n")
	}

	return b.String()
}

func gradeColor(grade string) lipgloss.Color {
	if c, ok := gradeColors[grade]; ok {
		return c
	}
	return fg
}

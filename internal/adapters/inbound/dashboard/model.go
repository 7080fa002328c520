// Package dashboard is the interactive terminal UI for remediating violations.
// It only reads remediation state; every change goes through RemediationService.
package dashboard

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/abdidvp/docqms/internal/adapters/outbound/tui"
	"github.com/abdidvp/docqms/internal/application"
	"github.com/abdidvp/docqms/internal/domain"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#D97706")).
			PaddingLeft(1).
			PaddingRight(1)
	cursorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#D97706")).Bold(true)
	rowStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#E8E6E3"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#22C55E"))
	diffBox     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#3F3F46"))
)

const helpLine = "↑/↓ move • p preview • f quick fix • y confirm • n/esc cancel • r refresh • q quit"

type snapshotMsg struct {
	snap *domain.ComplianceSnapshot
	err  error
}

type opDoneMsg struct {
	verb string
	v    domain.Violation
	res  *domain.FixResult
	err  error
}

// Model is the bubbletea model of the dashboard.
type Model struct {
	ctx         context.Context
	snapshots   *application.SnapshotService
	remediation *application.RemediationService

	snap     *domain.ComplianceSnapshot
	rows     []domain.Violation
	states   map[string]domain.RemediationState
	cursor   int
	selected string

	spinner  spinner.Model
	viewport viewport.Model
	loading  bool
	status   string
	failed   bool
	width    int
}

// New creates the dashboard model. Operations run under ctx.
func New(ctx context.Context, snapshots *application.SnapshotService, remediation *application.RemediationService) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	vp := viewport.New(80, 8)
	return Model{
		ctx:         ctx,
		snapshots:   snapshots,
		remediation: remediation,
		states:      map[string]domain.RemediationState{},
		spinner:     sp,
		viewport:    vp,
		loading:     true,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.refresh())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	m.states = m.remediation.States()

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.viewport.Width = max(20, msg.Width-4)
		m.viewport.Height = max(4, msg.Height/3)
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case snapshotMsg:
		m.loading = false
		if msg.err != nil {
			m.setStatus("refresh failed: "+domain.Reason(msg.err), true)
			return m, nil
		}
		m.setSnapshot(msg.snap)
		m.setStatus(fmt.Sprintf("snapshot refreshed at %s", msg.snap.FetchedAt.Format("15:04:05")), false)
		return m, nil

	case opDoneMsg:
		m.finish(msg)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		m.move(-1)
	case "down", "j":
		m.move(1)
	case "r":
		m.loading = true
		return m, m.refresh()
	case "p":
		return m, m.run(func(ctx context.Context, v domain.Violation) opDoneMsg {
			_, err := m.remediation.RequestPreview(ctx, v)
			return opDoneMsg{verb: "preview", v: v, err: err}
		})
	case "f":
		return m, m.run(func(ctx context.Context, v domain.Violation) opDoneMsg {
			res, err := m.remediation.RequestApply(ctx, v)
			return opDoneMsg{verb: "fix", v: v, res: res, err: err}
		})
	case "y":
		return m, m.run(func(ctx context.Context, v domain.Violation) opDoneMsg {
			res, err := m.remediation.Confirm(ctx, v)
			return opDoneMsg{verb: "confirm", v: v, res: res, err: err}
		})
	case "n", "esc":
		if v, ok := m.current(); ok {
			if err := m.remediation.Cancel(v); err != nil {
				m.setStatus(err.Error(), true)
			} else {
				m.states = m.remediation.States()
				m.setStatus("preview discarded", false)
			}
		}
	default:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}
	m.syncViewport()
	return m, nil
}

// run executes op for the selected violation as a tea.Cmd, so other rows
// stay interactive while it is in flight.
func (m Model) run(op func(context.Context, domain.Violation) opDoneMsg) tea.Cmd {
	v, ok := m.current()
	if !ok {
		return nil
	}
	ctx := m.ctx
	return func() tea.Msg { return op(ctx, v) }
}

func (m Model) refresh() tea.Cmd {
	ctx := m.ctx
	snapshots := m.snapshots
	return func() tea.Msg {
		snap, err := snapshots.Refresh(ctx)
		return snapshotMsg{snap: snap, err: err}
	}
}

func (m *Model) finish(msg opDoneMsg) {
	key := domain.DisplayKey(domain.Key(msg.v))
	applied := msg.res != nil && msg.res.Success
	switch {
	case applied && msg.err != nil:
		m.setStatus(fmt.Sprintf("%s fixed, but %s", key, msg.err), true)
	case msg.err != nil:
		m.setStatus(fmt.Sprintf("%s %s: %s", msg.verb, key, domain.Reason(msg.err)), true)
	case applied:
		m.setStatus(fmt.Sprintf("%s fixed: %s", key, msg.res.Message), false)
	default:
		m.setStatus(fmt.Sprintf("%s ready for %s", msg.verb, key), false)
	}
	if snap := m.snapshots.Current(); snap != nil && snap != m.snap {
		m.setSnapshot(snap)
	}
	m.syncViewport()
}

func (m *Model) setSnapshot(snap *domain.ComplianceSnapshot) {
	m.snap = snap
	m.rows = append([]domain.Violation(nil), snap.Violations...)
	sort.SliceStable(m.rows, func(i, j int) bool {
		return domain.SeverityRank(m.rows[i].Severity) < domain.SeverityRank(m.rows[j].Severity)
	})

	m.cursor = min(m.cursor, max(0, len(m.rows)-1))
	for i, v := range m.rows {
		if domain.RowKey(v, i) == m.selected {
			m.cursor = i
			break
		}
	}
	m.remember()
	m.syncViewport()
}

func (m *Model) move(delta int) {
	if len(m.rows) == 0 {
		return
	}
	m.cursor = (m.cursor + delta + len(m.rows)) % len(m.rows)
	m.remember()
}

func (m *Model) remember() {
	if v, ok := m.current(); ok {
		m.selected = domain.RowKey(v, m.cursor)
	}
}

func (m Model) current() (domain.Violation, bool) {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return domain.Violation{}, false
	}
	return m.rows[m.cursor], true
}

func (m *Model) syncViewport() {
	v, ok := m.current()
	if !ok {
		m.viewport.SetContent("")
		return
	}
	if st := m.states[domain.Key(v)]; st.Phase == domain.PhasePreviewReady {
		m.viewport.SetContent(tui.RenderDiff(st.Diff))
		m.viewport.GotoTop()
		return
	}
	m.viewport.SetContent("")
}

func (m *Model) setStatus(s string, failed bool) {
	m.status = s
	m.failed = failed
}

func (m Model) View() string {
	var b strings.Builder

	if m.snap == nil {
		if m.loading {
			return fmt.Sprintf("%s fetching compliance snapshot…\n\n%s\n", m.spinner.View(), dimStyle.Render(helpLine))
		}
		return errStyle.Render(m.status) + "\n\n" + dimStyle.Render(helpLine) + "\n"
	}

	compliance := errStyle.Render("non-compliant")
	if m.snap.IsCompliant {
		compliance = okStyle.Render("compliant")
	}
	header := headerStyle.Render(fmt.Sprintf("docqms  %.1f%%  %s", m.snap.Score, m.snap.Grade()))
	b.WriteString(header + "  " + compliance)
	if m.loading {
		b.WriteString("  " + m.spinner.View())
	}
	b.WriteString("\n\n")

	if len(m.rows) == 0 {
		b.WriteString(okStyle.Render("  No violations.") + "\n")
	}
	policy := m.remediation.Policy()
	for i, v := range m.rows {
		b.WriteString(m.renderRow(i, v, policy.IsFixable(v.RuleID)))
	}

	if content := m.viewport.View(); strings.TrimSpace(content) != "" {
		b.WriteString("\n" + diffBox.Render(content) + "\n")
	}

	if m.status != "" {
		style := dimStyle
		if m.failed {
			style = errStyle
		}
		b.WriteString("\n" + style.Render(m.status) + "\n")
	}
	b.WriteString("\n" + dimStyle.Render(helpLine) + "\n")
	return b.String()
}

func (m Model) renderRow(i int, v domain.Violation, fixable bool) string {
	marker := "  "
	if i == m.cursor {
		marker = cursorStyle.Render("▸ ")
	}
	tag := dimStyle.Render("       ")
	if fixable {
		tag = okStyle.Render("fixable")
	}
	line := fmt.Sprintf("%s%-8s %s  %s  %s", marker, v.Severity, tag, rowStyle.Render(v.File), dimStyle.Render(v.RuleID))

	st, ok := m.states[domain.Key(v)]
	if ok {
		phase := tui.RenderPhase(st)
		if st.Phase.IsPending() {
			phase = m.spinner.View() + " " + phase
		}
		line += "  " + phase
	}
	return line + "\n"
}

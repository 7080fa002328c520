package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/abdidvp/docqms/internal/domain"
)

// registerTools registers all docqms MCP tools on the given server.
func registerTools(s *server.MCPServer, svc Services) {
	// 1. docqms_validate
	s.AddTool(
		mcplib.NewTool("docqms_validate",
			mcplib.WithDescription("Fetches a fresh compliance snapshot: score, compliance flag and violations with their fixability"),
		),
		handleValidate(svc),
	)

	// 2. docqms_preview_fix
	s.AddTool(
		mcplib.NewTool("docqms_preview_fix",
			mcplib.WithDescription("Dry-runs the automatic fix for one violation and returns the diff. Nothing is written."),
			mcplib.WithString("file", mcplib.Required(), mcplib.Description("File (or full path) of the violation")),
			mcplib.WithString("rule_id", mcplib.Required(), mcplib.Description("Rule identifier of the violation")),
		),
		handlePreviewFix(svc),
	)

	// 3. docqms_apply_fix
	s.AddTool(
		mcplib.NewTool("docqms_apply_fix",
			mcplib.WithDescription("Applies the automatic fix for one violation. Confirms a ready preview when one exists, otherwise fixes directly."),
			mcplib.WithString("file", mcplib.Required(), mcplib.Description("File (or full path) of the violation")),
			mcplib.WithString("rule_id", mcplib.Required(), mcplib.Description("Rule identifier of the violation")),
		),
		handleApplyFix(svc),
	)

	// 4. docqms_cancel_fix
	s.AddTool(
		mcplib.NewTool("docqms_cancel_fix",
			mcplib.WithDescription("Discards a ready preview without applying it"),
			mcplib.WithString("file", mcplib.Required(), mcplib.Description("File (or full path) of the violation")),
			mcplib.WithString("rule_id", mcplib.Required(), mcplib.Description("Rule identifier of the violation")),
		),
		handleCancelFix(svc),
	)

	// 5. docqms_remediation_states
	s.AddTool(
		mcplib.NewTool("docqms_remediation_states",
			mcplib.WithDescription("Lists every violation with a preview or fix in progress, ready or failed"),
		),
		handleStates(svc),
	)
}

type violationView struct {
	domain.Violation
	Fixable bool `json:"fixable"`
}

type snapshotView struct {
	Score       float64         `json:"score"`
	Grade       string          `json:"grade"`
	IsCompliant bool            `json:"is_compliant"`
	TotalFiles  int             `json:"total_files"`
	ValidFiles  int             `json:"valid_files"`
	FetchedAt   string          `json:"fetched_at"`
	Violations  []violationView `json:"violations"`
}

func viewOf(snap *domain.ComplianceSnapshot, policy domain.FixabilityPolicy) snapshotView {
	v := snapshotView{
		Score:       snap.Score,
		Grade:       snap.Grade(),
		IsCompliant: snap.IsCompliant,
		TotalFiles:  snap.TotalFiles,
		ValidFiles:  snap.ValidFiles,
		FetchedAt:   snap.FetchedAt.UTC().Format(time.RFC3339),
		Violations:  make([]violationView, 0, len(snap.Violations)),
	}
	for _, viol := range snap.Violations {
		v.Violations = append(v.Violations, violationView{Violation: viol, Fixable: policy.IsFixable(viol.RuleID)})
	}
	return v
}

type stateView struct {
	Key    string `json:"key"`
	Phase  string `json:"phase"`
	File   string `json:"file"`
	RuleID string `json:"rule_id"`
	Diff   string `json:"diff,omitempty"`
	Reason string `json:"reason,omitempty"`
}

func stateOf(key string, st domain.RemediationState) stateView {
	return stateView{
		Key:    domain.DisplayKey(key),
		Phase:  string(st.Phase),
		File:   st.Violation.File,
		RuleID: st.Violation.RuleID,
		Diff:   st.Diff,
		Reason: st.Reason,
	}
}

func handleValidate(svc Services) server.ToolHandlerFunc {
	return func(ctx context.Context, _ mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		snap, err := svc.Snapshots.Refresh(ctx)
		if err != nil {
			return errorResult(fmt.Sprintf("validation failed: %s", domain.Reason(err))), nil
		}
		return jsonResult(viewOf(snap, svc.Remediation.Policy()))
	}
}

func handlePreviewFix(svc Services) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		v, res := lookup(ctx, svc, request)
		if res != nil {
			return res, nil
		}
		st, err := svc.Remediation.RequestPreview(ctx, v)
		if err != nil {
			svc.Logger.Debug("preview via mcp failed", zap.String("rule_id", v.RuleID), zap.Error(err))
			return errorResult(fmt.Sprintf("preview failed: %s", domain.Reason(err))), nil
		}
		return jsonResult(stateOf(domain.Key(v), st))
	}
}

func handleApplyFix(svc Services) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		v, res := lookup(ctx, svc, request)
		if res != nil {
			return res, nil
		}

		apply := svc.Remediation.RequestApply
		if svc.Remediation.State(domain.Key(v)).Phase == domain.PhasePreviewReady {
			apply = svc.Remediation.Confirm
		}
		result, err := apply(ctx, v)
		if err != nil && (result == nil || !result.Success) {
			return errorResult(fmt.Sprintf("fix failed: %s", domain.Reason(err))), nil
		}

		out := map[string]any{
			"success": true,
			"message": result.Message,
		}
		if snap := svc.Snapshots.Current(); snap != nil {
			out["score"] = snap.Score
			out["is_compliant"] = snap.IsCompliant
		}
		if err != nil {
			out["warning"] = err.Error()
		}
		return jsonResult(out)
	}
}

func handleCancelFix(svc Services) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		v, res := lookup(ctx, svc, request)
		if res != nil {
			return res, nil
		}
		if err := svc.Remediation.Cancel(v); err != nil {
			return errorResult(err.Error()), nil
		}
		return textResult(fmt.Sprintf("preview for %s discarded", domain.DisplayKey(domain.Key(v)))), nil
	}
}

func handleStates(svc Services) server.ToolHandlerFunc {
	return func(_ context.Context, _ mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		states := svc.Remediation.States()
		out := make([]stateView, 0, len(states))
		for k, st := range states {
			out = append(out, stateOf(k, st))
		}
		sortStates(out)
		return jsonResult(out)
	}
}

// lookup resolves the file and rule_id arguments against the current
// snapshot, fetching one first if none exists.
func lookup(ctx context.Context, svc Services, request mcplib.CallToolRequest) (domain.Violation, *mcplib.CallToolResult) {
	file, err := request.RequireString("file")
	if err != nil {
		return domain.Violation{}, errorResult(err.Error())
	}
	ruleID, err := request.RequireString("rule_id")
	if err != nil {
		return domain.Violation{}, errorResult(err.Error())
	}

	snap := svc.Snapshots.Current()
	if snap == nil {
		if snap, err = svc.Snapshots.Refresh(ctx); err != nil {
			return domain.Violation{}, errorResult(fmt.Sprintf("validation failed: %s", domain.Reason(err)))
		}
	}
	v, ok := snap.Find(file, ruleID)
	if !ok {
		return domain.Violation{}, errorResult(fmt.Sprintf("no %s violation for %s in the current snapshot", ruleID, file))
	}
	return v, nil
}

func sortStates(states []stateView) {
	sort.Slice(states, func(i, j int) bool { return states[i].Key < states[j].Key })
}

// jsonResult marshals v as indented JSON text content.
func jsonResult(v interface{}) (*mcplib.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling result: %w", err)
	}
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(string(data))},
	}, nil
}

// textResult returns a plain text content result.
func textResult(text string) *mcplib.CallToolResult {
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(text)},
	}
}

func errorResult(msg string) *mcplib.CallToolResult {
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(msg)},
		IsError: true,
	}
}

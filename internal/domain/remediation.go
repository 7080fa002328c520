package domain

// Phase is the remediation phase of one violation key.
type Phase string

const (
	PhaseIdle           Phase = "idle"
	PhasePreviewPending Phase = "preview_pending"
	PhasePreviewReady   Phase = "preview_ready"
	PhasePreviewFailed  Phase = "preview_failed"
	PhaseApplyPending   Phase = "apply_pending"
	PhaseApplyFailed    Phase = "apply_failed"
)

// IsPending reports whether a request is outstanding in this phase.
func (p Phase) IsPending() bool {
	return p == PhasePreviewPending || p == PhaseApplyPending
}

// IsFailed reports whether the phase carries a failure reason.
func (p Phase) IsFailed() bool {
	return p == PhasePreviewFailed || p == PhaseApplyFailed
}

// RemediationState is the tagged state of one key. Diff is set only in
// PhasePreviewReady and Reason only in the failed phases. Values are replaced
// whole, never patched.
type RemediationState struct {
	Phase     Phase     `json:"phase"`
	Violation Violation `json:"violation"`
	Diff      string    `json:"diff,omitempty"`
	Reason    string    `json:"reason,omitempty"`
}

func Idle() RemediationState { return RemediationState{Phase: PhaseIdle} }

func PreviewPending(v Violation) RemediationState {
	return RemediationState{Phase: PhasePreviewPending, Violation: v}
}

func PreviewReady(v Violation, diff string) RemediationState {
	return RemediationState{Phase: PhasePreviewReady, Violation: v, Diff: diff}
}

func PreviewFailed(v Violation, reason string) RemediationState {
	return RemediationState{Phase: PhasePreviewFailed, Violation: v, Reason: reason}
}

func ApplyPending(v Violation) RemediationState {
	return RemediationState{Phase: PhaseApplyPending, Violation: v}
}

func ApplyFailed(v Violation, reason string) RemediationState {
	return RemediationState{Phase: PhaseApplyFailed, Violation: v, Reason: reason}
}

package domain

import (
	"fmt"

	"github.com/felixgeelhaar/statekit"
)

// State constants for statekit integration. They must stay untyped string
// constants for statekit.StateID compatibility and match the Phase values.
const (
	StateIdle           = "idle"
	StatePreviewPending = "preview_pending"
	StatePreviewReady   = "preview_ready"
	StatePreviewFailed  = "preview_failed"
	StateApplyPending   = "apply_pending"
	StateApplyFailed    = "apply_failed"
	// StateApplied is the sink of a successful apply. It is never stored:
	// reaching it removes the key and triggers a snapshot refresh.
	StateApplied = "applied"
)

// Remediation events.
const (
	EventPreview = "preview"
	EventApply   = "apply"
	EventConfirm = "confirm"
	EventCancel  = "cancel"
	EventSucceed = "succeed"
	EventFail    = "fail"
)

// PhaseApplied mirrors StateApplied.
const PhaseApplied Phase = StateApplied

func init() {
	stateMap := map[string]Phase{
		StateIdle:           PhaseIdle,
		StatePreviewPending: PhasePreviewPending,
		StatePreviewReady:   PhasePreviewReady,
		StatePreviewFailed:  PhasePreviewFailed,
		StateApplyPending:   PhaseApplyPending,
		StateApplyFailed:    PhaseApplyFailed,
	}
	for fsmState, phase := range stateMap {
		if fsmState != string(phase) {
			panic(fmt.Sprintf("FSM state %q does not match Phase %q - constants are out of sync", fsmState, phase))
		}
	}
}

// RemediationContext carries the key the machine is evaluated for.
type RemediationContext struct {
	Key string
}

// RemediationMachine holds the legal transitions of one violation key.
type RemediationMachine struct {
	interpreter *statekit.Interpreter[RemediationContext]
}

func NewRemediationMachine(initial Phase, key string) (*RemediationMachine, error) {
	builder := statekit.NewMachine[RemediationContext]("remediation-machine").
		WithInitial(statekit.StateID(initial)).
		WithContext(RemediationContext{Key: key})

	builder.State(StateIdle).
		On(EventPreview).Target(StatePreviewPending).
		On(EventApply).Target(StateApplyPending).
		Done()

	builder.State(StatePreviewPending).
		On(EventSucceed).Target(StatePreviewReady).
		On(EventFail).Target(StatePreviewFailed).
		Done()

	// Leaving preview_ready discards the diff.
	builder.State(StatePreviewReady).
		On(EventConfirm).Target(StateApplyPending).
		On(EventCancel).Target(StateIdle).
		Done()

	builder.State(StatePreviewFailed).
		On(EventPreview).Target(StatePreviewPending).
		Done()

	builder.State(StateApplyPending).
		On(EventSucceed).Target(StateApplied).
		On(EventFail).Target(StateApplyFailed).
		Done()

	// Quick Fix retry goes straight back to apply_pending.
	builder.State(StateApplyFailed).
		On(EventApply).Target(StateApplyPending).
		Done()

	builder.State(StateApplied).
		Done()

	machine, err := builder.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build remediation machine: %w", err)
	}

	interpreter := statekit.NewInterpreter(machine)
	interpreter.Start()

	return &RemediationMachine{interpreter: interpreter}, nil
}

// Transition sends event and reports a TransitionError when the phase did not change.
func (m *RemediationMachine) Transition(event string) error {
	before := m.Current()
	m.interpreter.Send(statekit.Event{Type: statekit.EventType(event)})
	if m.Current() != before {
		return nil
	}
	return &TransitionError{Event: event, From: before}
}

func (m *RemediationMachine) Current() Phase {
	return Phase(m.interpreter.State().Value)
}

// NextPhase evaluates a single transition from a phase.
func NextPhase(from Phase, key, event string) (Phase, error) {
	m, err := NewRemediationMachine(from, key)
	if err != nil {
		return from, err
	}
	if err := m.Transition(event); err != nil {
		return from, err
	}
	return m.Current(), nil
}

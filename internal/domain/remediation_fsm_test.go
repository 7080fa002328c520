package domain_test

import (
	"testing"

	"github.com/abdidvp/docqms/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextPhase_LegalTransitions(t *testing.T) {
	tests := []struct {
		from  domain.Phase
		event string
		to    domain.Phase
	}{
		{domain.PhaseIdle, domain.EventPreview, domain.PhasePreviewPending},
		{domain.PhaseIdle, domain.EventApply, domain.PhaseApplyPending},
		{domain.PhasePreviewPending, domain.EventSucceed, domain.PhasePreviewReady},
		{domain.PhasePreviewPending, domain.EventFail, domain.PhasePreviewFailed},
		{domain.PhasePreviewReady, domain.EventConfirm, domain.PhaseApplyPending},
		{domain.PhasePreviewReady, domain.EventCancel, domain.PhaseIdle},
		{domain.PhasePreviewFailed, domain.EventPreview, domain.PhasePreviewPending},
		{domain.PhaseApplyPending, domain.EventSucceed, domain.PhaseApplied},
		{domain.PhaseApplyPending, domain.EventFail, domain.PhaseApplyFailed},
		{domain.PhaseApplyFailed, domain.EventApply, domain.PhaseApplyPending},
	}
	for _, tt := range tests {
		got, err := domain.NextPhase(tt.from, "k", tt.event)
		require.NoError(t, err, "%s --%s-->", tt.from, tt.event)
		assert.Equal(t, tt.to, got, "%s --%s-->", tt.from, tt.event)
	}
}

func TestNextPhase_IllegalTransitions(t *testing.T) {
	tests := []struct {
		from  domain.Phase
		event string
	}{
		{domain.PhasePreviewPending, domain.EventPreview},
		{domain.PhasePreviewPending, domain.EventApply},
		{domain.PhaseApplyPending, domain.EventPreview},
		{domain.PhaseApplyPending, domain.EventApply},
		{domain.PhaseIdle, domain.EventConfirm},
		{domain.PhaseIdle, domain.EventCancel},
		{domain.PhasePreviewFailed, domain.EventConfirm},
		{domain.PhaseApplyFailed, domain.EventCancel},
		{domain.PhaseApplied, domain.EventApply},
	}
	for _, tt := range tests {
		got, err := domain.NextPhase(tt.from, "k", tt.event)
		require.Error(t, err, "%s --%s-->", tt.from, tt.event)
		var te *domain.TransitionError
		require.ErrorAs(t, err, &te)
		assert.Equal(t, tt.from, te.From)
		assert.Equal(t, tt.from, got)
	}
}

func TestRemediationMachine_PreviewThenConfirmPath(t *testing.T) {
	m, err := domain.NewRemediationMachine(domain.PhaseIdle, "a.md:invalid_status")
	require.NoError(t, err)

	require.NoError(t, m.Transition(domain.EventPreview))
	require.NoError(t, m.Transition(domain.EventSucceed))
	assert.Equal(t, domain.PhasePreviewReady, m.Current())
	require.NoError(t, m.Transition(domain.EventConfirm))
	require.NoError(t, m.Transition(domain.EventSucceed))
	assert.Equal(t, domain.PhaseApplied, m.Current())
}

func TestPhase_Predicates(t *testing.T) {
	assert.True(t, domain.PhasePreviewPending.IsPending())
	assert.True(t, domain.PhaseApplyPending.IsPending())
	assert.False(t, domain.PhasePreviewReady.IsPending())
	assert.True(t, domain.PhaseApplyFailed.IsFailed())
	assert.True(t, domain.PhasePreviewFailed.IsFailed())
	assert.False(t, domain.PhaseIdle.IsFailed())
}

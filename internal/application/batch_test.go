package application_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abdidvp/docqms/internal/domain"
)

func TestApplyAll_PerItemOutcomes(t *testing.T) {
	notFixable := domain.Violation{File: "c.md", Path: "/docs/c.md", RuleID: "broken_link"}
	noPath := domain.Violation{File: "d.md", RuleID: domain.RuleInvalidStatus}
	dup := violationA
	dup.Message = "reported again"

	client := &fakeClient{
		snapshots: []domain.ValidationPayload{payload(60, violationA, violationB), payload(100)},
		apply:     ok("", "fixed"),
	}
	snaps, svc, journal := newServices(t, client)
	_, err := snaps.Refresh(context.Background())
	require.NoError(t, err)

	report := svc.ApplyAll(context.Background(), []domain.Violation{violationA, notFixable, dup, violationB, noPath}, 2)
	require.NoError(t, report.RefreshErr)
	require.Len(t, report.Items, 5)

	assert.Equal(t, domain.OutcomeApplied, report.Items[0].Outcome)
	assert.Equal(t, "fixed", report.Items[0].Message)
	assert.Equal(t, domain.OutcomeSkipped, report.Items[1].Outcome)
	assert.Equal(t, "rule is not fixable: broken_link", report.Items[1].Reason)
	assert.Equal(t, domain.OutcomeSkipped, report.Items[2].Outcome)
	assert.Equal(t, "duplicate of a.md:missing_required_field", report.Items[2].Reason)
	assert.Equal(t, domain.OutcomeApplied, report.Items[3].Outcome)
	assert.Equal(t, domain.OutcomeFailed, report.Items[4].Outcome)
	assert.Equal(t, "cannot fix: file path missing", report.Items[4].Reason)

	assert.Equal(t, 2, report.Count(domain.OutcomeApplied))
	assert.Equal(t, int32(2), client.fixes.Load(), "only items with a path reach the server")
	assert.Equal(t, int32(2), client.fetches.Load(), "one refresh for the whole batch")
	assert.Equal(t, 100.0, snaps.Current().Score)
	assert.Len(t, mustLoad(t, journal), 2)

	// noPath is not in the refreshed snapshot, so its failed state is pruned.
	assert.Empty(t, svc.States())
}

func TestApplyAll_FailureDoesNotStopBatch(t *testing.T) {
	client := &fakeClient{
		snapshots: []domain.ValidationPayload{payload(60, violationA, violationB)},
		apply:     fixReply{err: &domain.ServerError{Op: "fix", StatusCode: 423, Detail: "file locked"}},
	}
	snaps, svc, _ := newServices(t, client)
	_, err := snaps.Refresh(context.Background())
	require.NoError(t, err)

	report := svc.ApplyAll(context.Background(), []domain.Violation{violationA, violationB}, 4)

	assert.Equal(t, 2, report.Count(domain.OutcomeFailed))
	for _, it := range report.Items {
		assert.Equal(t, "file locked", it.Reason)
	}
	assert.Equal(t, int32(1), client.fetches.Load(), "nothing applied, no refresh")
	assert.Equal(t, domain.PhaseApplyFailed, svc.State(domain.Key(violationA)).Phase)
	assert.Equal(t, domain.PhaseApplyFailed, svc.State(domain.Key(violationB)).Phase)
}

func TestApplyAll_SkipsKeyWithPreviewReady(t *testing.T) {
	client := &fakeClient{preview: ok("+x", ""), apply: ok("", "fixed"),
		snapshots: []domain.ValidationPayload{payload(90)}}
	_, svc, _ := newServices(t, client)

	_, err := svc.RequestPreview(context.Background(), violationA)
	require.NoError(t, err)

	report := svc.ApplyAll(context.Background(), []domain.Violation{violationA}, 0)
	require.Len(t, report.Items, 1)
	assert.Equal(t, domain.OutcomeSkipped, report.Items[0].Outcome)
	assert.Contains(t, report.Items[0].Reason, "preview_ready")
}

func TestApplyAll_RefreshErrorReported(t *testing.T) {
	client := &fakeClient{apply: ok("", "fixed")}
	client.setFetchErr(errors.New("backend down"))
	_, svc, _ := newServices(t, client)

	report := svc.ApplyAll(context.Background(), []domain.Violation{violationA}, 1)
	assert.Equal(t, 1, report.Count(domain.OutcomeApplied))
	require.Error(t, report.RefreshErr)
	assert.Contains(t, report.RefreshErr.Error(), "backend down")
}

package application

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/abdidvp/docqms/internal/domain"
)

// SnapshotRefresher is the part of SnapshotService the remediation workflow depends on.
type SnapshotRefresher interface {
	Refresh(ctx context.Context) (*domain.ComplianceSnapshot, error)
	Subscribe(fn func(*domain.ComplianceSnapshot))
}

// Transition is one committed change of a key's remediation state. To is
// Idle when the key was removed.
type Transition struct {
	Key  string
	From domain.RemediationState
	To   domain.RemediationState
}

// RemediationService owns the per-violation remediation states. At most one
// request is outstanding per key; different keys never wait on each other.
// The mutex only guards the map and is never held across a network call.
type RemediationService struct {
	client      domain.ComplianceClient
	snapshots   SnapshotRefresher
	policy      domain.FixabilityPolicy
	journal     domain.FixJournal
	projectPath string
	logger      *zap.Logger
	now         func() time.Time

	mu        sync.Mutex
	states    map[string]domain.RemediationState
	observers []func(Transition)
}

// NewRemediationService creates the service and subscribes it to snapshot
// refreshes so states of vanished violations are discarded. journal may be nil.
func NewRemediationService(
	client domain.ComplianceClient,
	snapshots SnapshotRefresher,
	policy domain.FixabilityPolicy,
	journal domain.FixJournal,
	projectPath string,
	logger *zap.Logger,
) *RemediationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &RemediationService{
		client:      client,
		snapshots:   snapshots,
		policy:      policy,
		journal:     journal,
		projectPath: projectPath,
		logger:      logger,
		now:         time.Now,
		states:      make(map[string]domain.RemediationState),
	}
	snapshots.Subscribe(s.prune)
	return s
}

// OnTransition registers fn to observe every committed transition.
func (s *RemediationService) OnTransition(fn func(Transition)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, fn)
}

// Policy returns the fixability policy in effect.
func (s *RemediationService) Policy() domain.FixabilityPolicy { return s.policy }

// State returns the state of key, Idle when nothing is recorded.
func (s *RemediationService) State(key string) domain.RemediationState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked(key)
}

// States returns a copy of every non-idle state.
func (s *RemediationService) States() map[string]domain.RemediationState {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]domain.RemediationState, len(s.states))
	for k, v := range s.states {
		out[k] = v
	}
	return out
}

// RequestPreview asks the server for a dry-run fix of v. On success the key
// holds the diff in PhasePreviewReady until it is confirmed or cancelled.
func (s *RemediationService) RequestPreview(ctx context.Context, v domain.Violation) (domain.RemediationState, error) {
	if err := s.checkFixable(v); err != nil {
		return domain.Idle(), err
	}
	key := domain.Key(v)
	if _, err := s.begin(key, domain.EventPreview, domain.PreviewPending(v)); err != nil {
		return s.State(key), err
	}

	res, err := s.dispatch(ctx, v, true)
	if err == nil && (!res.Success || res.Diff == "") {
		err = previewRejection(res)
	}
	if err != nil {
		failed := domain.PreviewFailed(v, domain.Reason(err))
		s.settle(key, domain.EventFail, failed)
		return failed, err
	}

	ready := domain.PreviewReady(v, res.Diff)
	s.settle(key, domain.EventSucceed, ready)
	return ready, nil
}

// RequestApply performs the real fix without a preview (Quick Fix). It is
// accepted from idle and from apply_failed.
func (s *RemediationService) RequestApply(ctx context.Context, v domain.Violation) (*domain.FixResult, error) {
	if err := s.checkFixable(v); err != nil {
		return nil, err
	}
	key := domain.Key(v)
	if _, err := s.begin(key, domain.EventApply, domain.ApplyPending(v)); err != nil {
		return nil, err
	}
	return s.apply(ctx, key, v, "", true)
}

// Confirm applies the fix previewed for v's key. The previewed diff is
// discarded from state as soon as the request starts.
func (s *RemediationService) Confirm(ctx context.Context, v domain.Violation) (*domain.FixResult, error) {
	key := domain.Key(v)
	s.mu.Lock()
	previewed := s.stateLocked(key)
	s.mu.Unlock()

	prev, err := s.begin(key, domain.EventConfirm, domain.ApplyPending(previewed.Violation))
	if err != nil {
		return nil, err
	}
	return s.apply(ctx, key, prev.Violation, prev.Diff, true)
}

// Cancel discards an unconfirmed preview, returning the key to idle.
func (s *RemediationService) Cancel(v domain.Violation) error {
	key := domain.Key(v)
	s.mu.Lock()
	cur := s.stateLocked(key)
	if _, err := domain.NextPhase(cur.Phase, key, domain.EventCancel); err != nil {
		s.mu.Unlock()
		return err
	}
	delete(s.states, key)
	observers := s.observersLocked()
	s.mu.Unlock()

	s.notify(observers, Transition{Key: key, From: cur, To: domain.Idle()})
	return nil
}

func (s *RemediationService) checkFixable(v domain.Violation) error {
	if !s.policy.IsFixable(v.RuleID) {
		return &domain.ValidationError{RuleID: v.RuleID, Reason: domain.ReasonNotFixable}
	}
	return nil
}

// begin checks the per-key guard and moves key into its pending state in one
// step. It returns the state that was replaced.
func (s *RemediationService) begin(key, event string, pending domain.RemediationState) (domain.RemediationState, error) {
	s.mu.Lock()
	cur := s.stateLocked(key)
	if cur.Phase.IsPending() {
		s.mu.Unlock()
		return cur, domain.ErrOperationInFlight
	}
	next, err := domain.NextPhase(cur.Phase, key, event)
	if err != nil {
		s.mu.Unlock()
		return cur, err
	}
	pending.Phase = next
	s.states[key] = pending
	observers := s.observersLocked()
	s.mu.Unlock()

	s.notify(observers, Transition{Key: key, From: cur, To: pending})
	return cur, nil
}

// settle commits the outcome of the outstanding request for key. Reaching
// idle or applied removes the entry.
func (s *RemediationService) settle(key, event string, to domain.RemediationState) {
	s.mu.Lock()
	cur := s.stateLocked(key)
	next, err := domain.NextPhase(cur.Phase, key, event)
	if err != nil {
		s.mu.Unlock()
		s.logger.Error("dropping illegal settle", zap.String("key", domain.DisplayKey(key)), zap.Error(err))
		return
	}
	if next == domain.PhaseApplied || next == domain.PhaseIdle {
		delete(s.states, key)
		to = domain.Idle()
	} else {
		to.Phase = next
		s.states[key] = to
	}
	observers := s.observersLocked()
	s.mu.Unlock()

	s.notify(observers, Transition{Key: key, From: cur, To: to})
}

// dispatch sends the fix request. An empty path is rejected here so that no
// client implementation is ever asked to fix it.
func (s *RemediationService) dispatch(ctx context.Context, v domain.Violation, dryRun bool) (*domain.FixResult, error) {
	if v.Path == "" {
		return nil, &domain.ValidationError{RuleID: v.RuleID, Reason: domain.ReasonPathMissing}
	}
	return s.client.Fix(ctx, v.Path, v.RuleID, dryRun)
}

// apply runs the non-dry-run request for a key already in apply_pending.
func (s *RemediationService) apply(ctx context.Context, key string, v domain.Violation, diff string, refresh bool) (*domain.FixResult, error) {
	res, err := s.dispatch(ctx, v, false)
	if err == nil && !res.Success {
		err = &domain.RejectedError{Message: res.Message}
	}
	if err != nil {
		s.settle(key, domain.EventFail, domain.ApplyFailed(v, domain.Reason(err)))
		return res, err
	}

	s.settle(key, domain.EventSucceed, domain.RemediationState{})
	s.recordFix(v, res, diff)

	if refresh {
		if _, err := s.snapshots.Refresh(ctx); err != nil {
			return res, fmt.Errorf("refreshing snapshot after fix: %w", err)
		}
	}
	return res, nil
}

func (s *RemediationService) recordFix(v domain.Violation, res *domain.FixResult, diff string) {
	if s.journal == nil {
		return
	}
	entry := domain.JournalEntry{
		Timestamp: s.now().UTC().Format(time.RFC3339),
		File:      v.File,
		Path:      v.Path,
		RuleID:    v.RuleID,
		Message:   res.Message,
		Diff:      diff,
	}
	if err := s.journal.Append(s.projectPath, entry); err != nil {
		s.logger.Warn("appending fix journal", zap.Error(err))
	}
}

// prune drops settled states whose violation is absent from snap.
func (s *RemediationService) prune(snap *domain.ComplianceSnapshot) {
	present := snap.Keys()

	s.mu.Lock()
	var pruned []Transition
	for key, st := range s.states {
		if st.Phase.IsPending() || present[key] {
			continue
		}
		delete(s.states, key)
		pruned = append(pruned, Transition{Key: key, From: st, To: domain.Idle()})
	}
	observers := s.observersLocked()
	s.mu.Unlock()

	for _, t := range pruned {
		s.notify(observers, t)
	}
}

func (s *RemediationService) stateLocked(key string) domain.RemediationState {
	if st, ok := s.states[key]; ok {
		return st
	}
	return domain.Idle()
}

func (s *RemediationService) observersLocked() []func(Transition) {
	return append([]func(Transition){}, s.observers...)
}

func (s *RemediationService) notify(observers []func(Transition), t Transition) {
	s.logger.Debug("remediation transition",
		zap.String("key", domain.DisplayKey(t.Key)),
		zap.String("from", string(t.From.Phase)),
		zap.String("to", string(t.To.Phase)),
		zap.String("reason", t.To.Reason))
	for _, fn := range observers {
		fn(t)
	}
}

func previewRejection(res *domain.FixResult) error {
	if res.Success || res.Message == "" {
		msg := "no changes generated"
		if res.Message != "" {
			msg += ": " + res.Message
		}
		return &domain.RejectedError{Message: msg}
	}
	return &domain.RejectedError{Message: res.Message}
}

package application

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/abdidvp/docqms/internal/domain"
)

// ApplyAll applies every fixable violation with at most limit requests in
// flight. One failure never stops the others. The snapshot is refreshed once
// at the end when at least one fix was applied.
func (s *RemediationService) ApplyAll(ctx context.Context, violations []domain.Violation, limit int) domain.BatchReport {
	if limit < 1 {
		limit = domain.DefaultConcurrency
	}
	report := domain.BatchReport{Items: make([]domain.BatchItem, len(violations))}
	seen := make(map[string]bool, len(violations))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, v := range violations {
		report.Items[i] = domain.BatchItem{Violation: v}
		key := domain.Key(v)
		if seen[key] {
			report.Items[i].Outcome = domain.OutcomeSkipped
			report.Items[i].Reason = "duplicate of " + domain.DisplayKey(key)
			continue
		}
		seen[key] = true
		if err := s.checkFixable(v); err != nil {
			report.Items[i].Outcome = domain.OutcomeSkipped
			report.Items[i].Reason = domain.Reason(err)
			continue
		}

		item := &report.Items[i]
		g.Go(func() error {
			item.Outcome, item.Reason, item.Message = s.applyOne(gctx, key, v)
			return nil
		})
	}
	_ = g.Wait()

	if report.Count(domain.OutcomeApplied) > 0 {
		if _, err := s.snapshots.Refresh(ctx); err != nil {
			report.RefreshErr = fmt.Errorf("refreshing snapshot after batch: %w", err)
		}
	}
	s.logger.Info("batch finished",
		zap.Int("applied", report.Count(domain.OutcomeApplied)),
		zap.Int("failed", report.Count(domain.OutcomeFailed)),
		zap.Int("skipped", report.Count(domain.OutcomeSkipped)))
	return report
}

func (s *RemediationService) applyOne(ctx context.Context, key string, v domain.Violation) (domain.Outcome, string, string) {
	if _, err := s.begin(key, domain.EventApply, domain.ApplyPending(v)); err != nil {
		var te *domain.TransitionError
		if errors.Is(err, domain.ErrOperationInFlight) || errors.As(err, &te) {
			return domain.OutcomeSkipped, err.Error(), ""
		}
		return domain.OutcomeFailed, domain.Reason(err), ""
	}
	res, err := s.apply(ctx, key, v, "", false)
	if err != nil {
		return domain.OutcomeFailed, domain.Reason(err), ""
	}
	return domain.OutcomeApplied, "", res.Message
}

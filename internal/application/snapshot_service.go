package application

import (
	"context"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/abdidvp/docqms/internal/domain"
)

// SnapshotService owns the current compliance snapshot. A snapshot is only
// ever replaced as a whole, and a failed refresh keeps the previous one.
type SnapshotService struct {
	client      domain.ComplianceClient
	history     domain.ScoreHistory
	git         domain.GitInfo
	projectPath string
	logger      *zap.Logger

	current atomic.Pointer[domain.ComplianceSnapshot]
	seq     atomic.Uint64

	mu        sync.Mutex
	stored    uint64
	listeners []func(*domain.ComplianceSnapshot)
}

// NewSnapshotService creates a SnapshotService. history and git may be nil,
// in which case refreshes are not recorded.
func NewSnapshotService(
	client domain.ComplianceClient,
	history domain.ScoreHistory,
	git domain.GitInfo,
	projectPath string,
	logger *zap.Logger,
) *SnapshotService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SnapshotService{
		client: client, history: history, git: git,
		projectPath: projectPath, logger: logger,
	}
}

// Current returns the last successfully fetched snapshot, or nil before the first refresh.
func (s *SnapshotService) Current() *domain.ComplianceSnapshot {
	return s.current.Load()
}

// Subscribe registers fn to be called with every snapshot that replaces the current one.
func (s *SnapshotService) Subscribe(fn func(*domain.ComplianceSnapshot)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Refresh fetches a new snapshot and swaps it in. On failure the previous
// snapshot stays current and the error is returned. When refreshes overlap,
// a response never replaces one from a later request.
func (s *SnapshotService) Refresh(ctx context.Context) (*domain.ComplianceSnapshot, error) {
	ticket := s.seq.Add(1)

	snap, err := s.client.FetchSnapshot(ctx)
	if err != nil {
		s.logger.Warn("snapshot refresh failed", zap.Error(err))
		return nil, err
	}

	s.mu.Lock()
	if ticket < s.stored {
		s.mu.Unlock()
		s.logger.Debug("discarding out-of-order snapshot", zap.Uint64("ticket", ticket))
		return s.current.Load(), nil
	}
	s.stored = ticket
	s.current.Store(snap)
	listeners := append([]func(*domain.ComplianceSnapshot){}, s.listeners...)
	s.mu.Unlock()

	s.logger.Info("snapshot refreshed",
		zap.Float64("score", snap.Score),
		zap.Bool("compliant", snap.IsCompliant),
		zap.Int("violations", len(snap.Violations)))

	for _, fn := range listeners {
		fn(snap)
	}
	s.record(snap)
	return snap, nil
}

// record appends the snapshot to the score history. Best-effort.
func (s *SnapshotService) record(snap *domain.ComplianceSnapshot) {
	if s.history == nil {
		return
	}
	var commit string
	if s.git != nil {
		if hash, err := s.git.CommitHash(s.projectPath); err == nil {
			commit = hash
		}
	}
	if err := s.history.Save(s.projectPath, domain.EntryFor(snap, commit)); err != nil {
		s.logger.Warn("saving score history", zap.Error(err))
	}
}

package application_test

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/abdidvp/docqms/internal/domain"
)

type fixCall struct {
	Path   string
	RuleID string
	DryRun bool
}

type fixReply struct {
	res *domain.FixResult
	err error
}

// fakeClient is a scripted ComplianceClient. Snapshots are served in order,
// the last one repeating. Fix replies are looked up by dry-run flag.
type fakeClient struct {
	mu        sync.Mutex
	snapshots []domain.ValidationPayload
	fetchErr  error
	preview   fixReply
	apply     fixReply
	calls     []fixCall

	fetches atomic.Int32
	fixes   atomic.Int32

	// Fix calls for blockPath wait on block before returning.
	blockPath string
	block     chan struct{}
	started   chan struct{}
}

func (f *fakeClient) FetchSnapshot(_ context.Context) (*domain.ComplianceSnapshot, error) {
	n := int(f.fetches.Add(1))
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	idx := n - 1
	if idx >= len(f.snapshots) {
		idx = len(f.snapshots) - 1
	}
	return domain.NewSnapshot(f.snapshots[idx], fixedNow), nil
}

func (f *fakeClient) Fix(_ context.Context, path, ruleID string, dryRun bool) (*domain.FixResult, error) {
	f.fixes.Add(1)
	f.mu.Lock()
	f.calls = append(f.calls, fixCall{Path: path, RuleID: ruleID, DryRun: dryRun})
	reply := f.apply
	if dryRun {
		reply = f.preview
	}
	wait := f.block != nil && path == f.blockPath
	f.mu.Unlock()
	if wait {
		if f.started != nil {
			f.started <- struct{}{}
		}
		<-f.block
	}
	return reply.res, reply.err
}

func (f *fakeClient) setFetchErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetchErr = err
}

func (f *fakeClient) fixCalls() []fixCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]fixCall(nil), f.calls...)
}

type memJournal struct {
	mu      sync.Mutex
	entries []domain.JournalEntry
}

func (j *memJournal) Append(_ string, e domain.JournalEntry) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.entries = append(j.entries, e)
	return nil
}

func (j *memJournal) Load(string) ([]domain.JournalEntry, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	return append([]domain.JournalEntry(nil), j.entries...), nil
}

type memHistory struct {
	mu      sync.Mutex
	entries []domain.ScoreEntry
}

func (h *memHistory) Save(_ string, e domain.ScoreEntry) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = append(h.entries, e)
	return nil
}

func (h *memHistory) Load(string) ([]domain.ScoreEntry, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]domain.ScoreEntry(nil), h.entries...), nil
}

type stubGit struct{ hash string }

func (g stubGit) CommitHash(string) (string, error) { return g.hash, nil }

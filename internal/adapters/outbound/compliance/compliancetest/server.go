// Package compliancetest provides an in-process compliance backend for tests.
package compliancetest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/abdidvp/docqms/internal/domain"
)

// Reply is a canned response.
type Reply struct {
	Status int
	Body   any
}

// Server serves /api/v1/compliance/validate and /api/v1/compliance/fix.
// Queued snapshots are served in order; the last one repeats.
type Server struct {
	*httptest.Server

	mu        sync.Mutex
	snapshots []domain.ValidationPayload
	preview   Reply
	apply     Reply
	fixes     []domain.FixRequest
	validates int
}

// NewServer starts a backend that is closed when the test ends.
func NewServer(t testing.TB, snapshots ...domain.ValidationPayload) *Server {
	t.Helper()
	s := &Server{
		snapshots: snapshots,
		preview:   Reply{Status: http.StatusOK, Body: domain.FixResult{Success: true, Message: "preview"}},
		apply:     Reply{Status: http.StatusOK, Body: domain.FixResult{Success: true, Message: "fixed"}},
	}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/compliance/validate", s.handleValidate)
	mux.HandleFunc("POST /api/v1/compliance/fix", s.handleFix)
	s.Server = httptest.NewServer(mux)
	t.Cleanup(s.Close)
	return s
}

// Queue appends snapshots to serve after the current ones.
func (s *Server) Queue(snapshots ...domain.ValidationPayload) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots = append(s.snapshots, snapshots...)
}

// OnPreview sets the response to dry-run fix requests.
func (s *Server) OnPreview(status int, body any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.preview = Reply{Status: status, Body: body}
}

// OnApply sets the response to real fix requests.
func (s *Server) OnApply(status int, body any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.apply = Reply{Status: status, Body: body}
}

// FixRequests returns the decoded fix requests received so far.
func (s *Server) FixRequests() []domain.FixRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.FixRequest(nil), s.fixes...)
}

// ValidateCalls returns the number of validate requests received.
func (s *Server) ValidateCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.validates
}

func (s *Server) handleValidate(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	s.validates++
	if len(s.snapshots) == 0 {
		s.mu.Unlock()
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"detail": "no snapshot queued"})
		return
	}
	p := s.snapshots[0]
	if len(s.snapshots) > 1 {
		s.snapshots = s.snapshots[1:]
	}
	s.mu.Unlock()

	if p.Violations == nil {
		p.Violations = []domain.Violation{}
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleFix(w http.ResponseWriter, r *http.Request) {
	var req domain.FixRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"detail": err.Error()})
		return
	}

	s.mu.Lock()
	s.fixes = append(s.fixes, req)
	reply := s.apply
	if req.DryRun {
		reply = s.preview
	}
	s.mu.Unlock()

	writeJSON(w, reply.Status, reply.Body)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

package debug

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// SnapshotSource supplies the most recent pass snapshot. Implementations
// must be safe to call from the server's goroutines; hosts typically guard
// the stored snapshot with a mutex and replace it after every pass.
type SnapshotSource interface {
	LatestSnapshot() (TreeSnapshot, bool)
}

// Server exposes pass snapshots over HTTP for inspection tooling:
//
//	GET /views        resolved view tree as JSON
//	GET /views.yaml   resolved view tree as YAML
//	GET /metrics      pass counters as JSON
//	GET /health       liveness probe
type Server struct {
	source SnapshotSource
	logger *log.Logger

	mu       sync.Mutex
	server   *http.Server
	listener net.Listener
}

// NewServer creates a server reading from the given source. A nil logger
// falls back to the package default.
func NewServer(source SnapshotSource, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{source: source, logger: logger}
}

// Start begins serving on the port, or an ephemeral one when port is 0, and
// returns the bound port. Starting an already-running server returns its
// current port.
func (s *Server) Start(port int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.server != nil {
		return s.listener.Addr().(*net.TCPAddr).Port, nil
	}

	// Bind first so a port conflict fails synchronously.
	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return 0, fmt.Errorf("debug server listen: %w", err)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/views", s.handleViews)
	mux.HandleFunc("/views.yaml", s.handleViewsYAML)
	mux.HandleFunc("/metrics", s.handleMetrics)
	mux.HandleFunc("/health", s.handleHealth)

	server := &http.Server{Handler: mux}
	s.server = server
	s.listener = listener

	go func() {
		if err := server.Serve(listener); err != nil && err != http.ErrServerClosed {
			s.mu.Lock()
			s.server = nil
			s.listener = nil
			s.mu.Unlock()
			s.logger.Error("debug server stopped", "err", err)
		}
	}()

	return listener.Addr().(*net.TCPAddr).Port, nil
}

// Stop shuts the server down, waiting briefly for in-flight requests.
func (s *Server) Stop() {
	s.mu.Lock()
	server := s.server
	s.server = nil
	s.listener = nil
	s.mu.Unlock()

	if server == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	server.Shutdown(ctx)
}

func (s *Server) snapshot(w http.ResponseWriter, r *http.Request) (TreeSnapshot, bool) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return TreeSnapshot{}, false
	}
	snapshot, ok := s.source.LatestSnapshot()
	if !ok {
		http.Error(w, "no pass completed yet", http.StatusServiceUnavailable)
		return TreeSnapshot{}, false
	}
	return snapshot, true
}

func (s *Server) handleViews(w http.ResponseWriter, r *http.Request) {
	snapshot, ok := s.snapshot(w, r)
	if !ok {
		return
	}

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		http.Error(w, fmt.Sprintf("json encode error: %v", err), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

func (s *Server) handleViewsYAML(w http.ResponseWriter, r *http.Request) {
	snapshot, ok := s.snapshot(w, r)
	if !ok {
		return
	}

	data, err := snapshot.ToYAML()
	if err != nil {
		http.Error(w, fmt.Sprintf("yaml encode error: %v", err), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/yaml")
	w.Write(data)
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	snapshot, ok := s.snapshot(w, r)
	if !ok {
		return
	}
	if snapshot.Metrics == nil {
		http.Error(w, "metrics not recorded", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(snapshot.Metrics)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

// StoredSnapshot is a SnapshotSource holding the latest snapshot behind a
// mutex. Hosts call Record after each pass.
type StoredSnapshot struct {
	mu       sync.RWMutex
	snapshot TreeSnapshot
	recorded bool
}

// Record replaces the stored snapshot.
func (s *StoredSnapshot) Record(snapshot TreeSnapshot) {
	s.mu.Lock()
	s.snapshot = snapshot
	s.recorded = true
	s.mu.Unlock()
}

// LatestSnapshot returns the stored snapshot, if any pass was recorded.
func (s *StoredSnapshot) LatestSnapshot() (TreeSnapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot, s.recorded
}

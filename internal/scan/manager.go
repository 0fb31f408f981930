package scan

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"dupgroup/internal/models"
)

// Manager runs scans in the background and cancels them by ID
type Manager struct {
	scanner *Scanner

	mu     sync.Mutex
	active map[string]context.CancelFunc
}

// NewManager creates a new Manager
func NewManager(scanner *Scanner) *Manager {
	return &Manager{
		scanner: scanner,
		active:  make(map[string]context.CancelFunc),
	}
}

// Run is a handle to a scan started by a Manager
type Run struct {
	ID string

	done   chan struct{}
	result *models.ScanResult
	err    error
}

// Done is closed when the scan finishes
func (r *Run) Done() <-chan struct{} {
	return r.done
}

// Wait blocks until the scan finishes and returns its outcome
func (r *Run) Wait() (*models.ScanResult, error) {
	<-r.done
	return r.result, r.err
}

// Start begins scanning cfg in the background
func (m *Manager) Start(ctx context.Context, cfg models.ScanConfig, onProgress ProgressFunc) *Run {
	scanCtx, cancel := context.WithCancel(ctx)
	run := &Run{
		ID:   uuid.NewString(),
		done: make(chan struct{}),
	}

	m.mu.Lock()
	m.active[run.ID] = cancel
	m.mu.Unlock()

	go func() {
		defer func() {
			m.mu.Lock()
			delete(m.active, run.ID)
			m.mu.Unlock()
			cancel()
			close(run.done)
		}()
		run.result, run.err = m.scanner.Scan(scanCtx, cfg, onProgress)
	}()

	return run
}

// Cancel stops the scan with the given ID. It reports whether the scan was
// still running.
func (m *Manager) Cancel(id string) bool {
	m.mu.Lock()
	cancel, ok := m.active[id]
	m.mu.Unlock()

	if ok {
		cancel()
	}
	return ok
}

// Active returns the number of running scans
func (m *Manager) Active() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.active)
}

package loader

import (
	"LotusPond/internal/logger"
	"sync"

	"go.uber.org/zap"
)

// Progress is a snapshot of the loading state after an item changed.
type Progress struct {
	URL    string
	Loaded int
	Total  int
	Failed int
}

// Ratio is Loaded/Total, 1 when nothing was requested.
func (p Progress) Ratio() float64 {
	if p.Total == 0 {
		return 1
	}
	return float64(p.Loaded) / float64(p.Total)
}

// Manager tracks every asset request of a loading session. Items may start
// and finish from any goroutine. Ready closes once the manager is sealed and
// every started item has finished, failed ones included.
type Manager struct {
	mu        sync.Mutex
	progress  Progress
	sealed    bool
	listeners []func(Progress)

	ready     chan struct{}
	readyOnce sync.Once
}

func NewManager() *Manager {
	return &Manager{ready: make(chan struct{})}
}

func (m *Manager) OnProgress(fn func(Progress)) {
	m.mu.Lock()
	m.listeners = append(m.listeners, fn)
	m.mu.Unlock()
}

func (m *Manager) ItemStart(url string) {
	m.update(url, func(p *Progress) { p.Total++ })
}

func (m *Manager) ItemEnd(url string) {
	m.update(url, func(p *Progress) { p.Loaded++ })
}

// ItemError marks url finished without a result.
func (m *Manager) ItemError(url string, err error) {
	logger.Log.Error("Asset failed to load", zap.String("url", url), zap.Error(err))
	m.update(url, func(p *Progress) {
		p.Loaded++
		p.Failed++
	})
}

// Seal declares that no further items will start.
func (m *Manager) Seal() {
	m.mu.Lock()
	m.sealed = true
	done := m.progress.Loaded >= m.progress.Total
	m.mu.Unlock()
	if done {
		m.markReady()
	}
}

func (m *Manager) Ready() <-chan struct{} {
	return m.ready
}

func (m *Manager) Progress() Progress {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.progress
}

func (m *Manager) Ratio() float64 {
	return m.Progress().Ratio()
}

func (m *Manager) update(url string, fn func(*Progress)) {
	m.mu.Lock()
	fn(&m.progress)
	m.progress.URL = url
	snapshot := m.progress
	done := m.sealed && snapshot.Loaded >= snapshot.Total
	listeners := m.listeners
	m.mu.Unlock()

	for _, l := range listeners {
		l(snapshot)
	}
	if done {
		m.markReady()
	}
}

func (m *Manager) markReady() {
	m.readyOnce.Do(func() {
		p := m.Progress()
		logger.Log.Info("Loading complete",
			zap.Int("items", p.Total),
			zap.Int("failed", p.Failed))
		close(m.ready)
	})
}

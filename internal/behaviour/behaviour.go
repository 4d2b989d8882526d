// Package behaviour drives the per frame idle motion of the pond: slow spins,
// the floating lotus and the skeletal clips of animated models.
package behaviour

// Behaviour is advanced once per frame on the render goroutine. delta is the
// time since the previous frame and elapsed the time since the loop started,
// both in seconds.
type Behaviour interface {
	Start()
	Update(delta, elapsed float64)
}

type wrapper struct {
	behaviour Behaviour
	started   bool
}

type Manager struct {
	behaviours []wrapper
}

func NewManager() *Manager {
	return &Manager{}
}

func (m *Manager) Add(b Behaviour) {
	m.behaviours = append(m.behaviours, wrapper{behaviour: b})
}

func (m *Manager) Remove(b Behaviour) {
	for i := range m.behaviours {
		if m.behaviours[i].behaviour == b {
			// swap with last and truncate, order is not significant
			m.behaviours[i] = m.behaviours[len(m.behaviours)-1]
			m.behaviours = m.behaviours[:len(m.behaviours)-1]
			return
		}
	}
}

func (m *Manager) Clear() {
	m.behaviours = m.behaviours[:0]
}

func (m *Manager) Len() int {
	return len(m.behaviours)
}

// UpdateAll starts behaviours added since the last frame and then updates all
// of them.
func (m *Manager) UpdateAll(delta, elapsed float64) {
	for i := range m.behaviours {
		if !m.behaviours[i].started {
			m.behaviours[i].behaviour.Start()
			m.behaviours[i].started = true
		}
		m.behaviours[i].behaviour.Update(delta, elapsed)
	}
}

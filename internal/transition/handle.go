package transition

// Handle owns the two lanes of one running program.
type Handle struct {
	dir     Direction
	state   State
	descent *lane
	ascent  *lane
}

func (h *Handle) Direction() Direction {
	return h.dir
}

func (h *Handle) State() State {
	return h.state
}

// Stop cancels both lanes. Calling it on a settled or already stopped
// handle does nothing.
func (h *Handle) Stop() {
	if h == nil {
		return
	}
	if h.state != Settled {
		h.state = Cancelled
	}
	h.descent.stop()
	h.ascent.stop()
}

func (h *Handle) handoff() {
	if h.state == Descending {
		h.state = WaitingForHandoff
	}
}

// gate reports whether the ascent lane may act, moving the handle into
// Ascending on the first step after the handoff.
func (h *Handle) gate() bool {
	switch h.state {
	case WaitingForHandoff:
		h.state = Ascending
		return true
	case Ascending:
		return true
	default:
		return false
	}
}

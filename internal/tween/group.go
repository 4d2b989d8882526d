package tween

import "time"

// Group advances a set of tweens from one clock and forgets them once they
// complete.
type Group struct {
	tweens []*Tween
}

func NewGroup() *Group {
	return &Group{}
}

func (g *Group) Add(t *Tween) {
	g.tweens = append(g.tweens, t)
}

func (g *Group) Remove(t *Tween) {
	for i, tw := range g.tweens {
		if tw == t {
			g.tweens = append(g.tweens[:i], g.tweens[i+1:]...)
			return
		}
	}
}

func (g *Group) RemoveAll() {
	g.tweens = nil
}

func (g *Group) Len() int {
	return len(g.tweens)
}

// Update advances every tween to now. Tweens added by completion callbacks
// start on the next Update.
func (g *Group) Update(now time.Duration) {
	current := g.tweens
	kept := current[:0:0]
	for _, t := range current {
		if t.Update(now) {
			kept = append(kept, t)
		}
	}
	// keep anything added while iterating
	if len(g.tweens) > len(current) {
		kept = append(kept, g.tweens[len(current):]...)
	}
	g.tweens = kept
}

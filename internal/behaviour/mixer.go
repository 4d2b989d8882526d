package behaviour

import (
	"LotusPond/internal/renderer"

	"github.com/chewxy/math32"
)

// Mixer plays every clip of a model at once, looping each on its own
// duration.
type Mixer struct {
	clips []*renderer.AnimationClip
	time  float32
	// TimeScale multiplies delta, 1 plays in real time
	TimeScale float32
}

func NewMixer(clips ...*renderer.AnimationClip) *Mixer {
	return &Mixer{clips: clips, TimeScale: 1}
}

func (m *Mixer) Add(clip *renderer.AnimationClip) {
	m.clips = append(m.clips, clip)
}

func (m *Mixer) Clips() int {
	return len(m.clips)
}

func (m *Mixer) Time() float32 {
	return m.time
}

func (m *Mixer) Start() {
	m.sample()
}

func (m *Mixer) Update(delta, elapsed float64) {
	m.time += float32(delta) * m.TimeScale
	m.sample()
}

func (m *Mixer) sample() {
	for _, c := range m.clips {
		if c.Duration <= 0 {
			c.Sample(0)
			continue
		}
		c.Sample(math32.Mod(m.time, c.Duration))
	}
}

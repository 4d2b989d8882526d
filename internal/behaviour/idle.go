package behaviour

import (
	"LotusPond/internal/renderer"

	"github.com/chewxy/math32"
)

// Spin turns a node around its local Y axis by Speed radians every frame.
type Spin struct {
	Node  *renderer.Node
	Speed float32
}

func (s *Spin) Start() {}

func (s *Spin) Update(delta, elapsed float64) {
	if s.Node == nil {
		return
	}
	s.Node.Rotation[1] += s.Speed
}

// Bob floats a node on the water: y = sin(ms * Speed) * Amplitude + Rest,
// where ms is the elapsed time in milliseconds.
type Bob struct {
	Node      *renderer.Node
	Speed     float32
	Amplitude float32
	Rest      float32
}

const (
	LotusBobAmplitude = 0.2
	LotusRestHeight   = 9.9
)

func NewLotusBob(node *renderer.Node, speed float32) *Bob {
	return &Bob{Node: node, Speed: speed, Amplitude: LotusBobAmplitude, Rest: LotusRestHeight}
}

func (b *Bob) Start() {
	if b.Node != nil {
		b.Node.Position[1] = b.Rest
	}
}

func (b *Bob) Update(delta, elapsed float64) {
	if b.Node == nil {
		return
	}
	t := float32(elapsed*1000) * b.Speed
	b.Node.Position[1] = math32.Sin(t)*b.Amplitude + b.Rest
}

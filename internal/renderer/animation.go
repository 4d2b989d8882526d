package renderer

import (
	"sort"

	"github.com/go-gl/mathgl/mgl32"
)

type AnimationPath int

const (
	PathTranslation AnimationPath = iota
	PathRotation
	PathScale
)

type Interpolation int

const (
	InterpolateLinear Interpolation = iota
	InterpolateStep
	InterpolateCubic
)

// AnimationChannel animates one property of one node. Values holds xyz for
// translation and scale, xyzw for rotation. Cubic channels also carry the
// in and out tangent of every keyframe.
type AnimationChannel struct {
	Node          *Node
	Path          AnimationPath
	Interpolation Interpolation
	Times         []float32
	Values        [][4]float32
	InTangents    [][4]float32
	OutTangents   [][4]float32
}

type AnimationClip struct {
	Name     string
	Duration float32
	Channels []AnimationChannel
}

// Sample writes the pose at time t (seconds) to the channel targets.
func (c *AnimationClip) Sample(t float32) {
	for i := range c.Channels {
		c.Channels[i].sample(t)
	}
}

func (ch *AnimationChannel) sample(t float32) {
	n := len(ch.Times)
	if n == 0 || len(ch.Values) < n || ch.Node == nil {
		return
	}
	cubic := ch.Interpolation == InterpolateCubic && len(ch.InTangents) >= n && len(ch.OutTangents) >= n

	var v [4]float32
	switch {
	case t <= ch.Times[0]:
		v = ch.Values[0]
	case t >= ch.Times[n-1]:
		v = ch.Values[n-1]
	default:
		i := sort.Search(n, func(i int) bool { return ch.Times[i] > t }) - 1
		if ch.Interpolation == InterpolateStep {
			v = ch.Values[i]
			break
		}
		span := ch.Times[i+1] - ch.Times[i]
		k := float32(0)
		if span > 0 {
			k = (t - ch.Times[i]) / span
		}
		a, b := ch.Values[i], ch.Values[i+1]
		switch {
		case cubic:
			v = hermite(a, ch.OutTangents[i], b, ch.InTangents[i+1], span, k)
		case ch.Path == PathRotation:
			q := mgl32.QuatSlerp(quat(a), quat(b), k)
			v = [4]float32{q.V.X(), q.V.Y(), q.V.Z(), q.W}
		default:
			for j := 0; j < 3; j++ {
				v[j] = a[j] + (b[j]-a[j])*k
			}
		}
	}

	switch ch.Path {
	case PathTranslation:
		ch.Node.Position = mgl32.Vec3{v[0], v[1], v[2]}
	case PathRotation:
		ch.Node.Orientation = quat(v).Normalize()
	case PathScale:
		ch.Node.Scale = mgl32.Vec3{v[0], v[1], v[2]}
	}
}

// hermite evaluates the cubic spline between keyframes v0 and v1, with
// tangents scaled by the keyframe span.
func hermite(v0, out0, v1, in1 [4]float32, span, s float32) [4]float32 {
	s2 := s * s
	s3 := s2 * s
	h00 := 2*s3 - 3*s2 + 1
	h10 := s3 - 2*s2 + s
	h01 := -2*s3 + 3*s2
	h11 := s3 - s2
	var v [4]float32
	for j := range v {
		v[j] = h00*v0[j] + h10*span*out0[j] + h01*v1[j] + h11*span*in1[j]
	}
	return v
}

func quat(v [4]float32) mgl32.Quat {
	return mgl32.Quat{W: v[3], V: mgl32.Vec3{v[0], v[1], v[2]}}
}

package renderer

import (
	"sort"

	"github.com/go-gl/mathgl/mgl32"
)

// UniformSet is the CPU side copy of a shader's custom parameters. Scene code
// writes it freely; the renderer uploads it through a UniformCache when the
// owning node is drawn.
type UniformSet struct {
	floats map[string]float32
	vec3s  map[string]mgl32.Vec3
}

func NewUniformSet() *UniformSet {
	return &UniformSet{
		floats: make(map[string]float32),
		vec3s:  make(map[string]mgl32.Vec3),
	}
}

func (u *UniformSet) SetFloat(name string, value float32) {
	u.floats[name] = value
}

func (u *UniformSet) SetVec3(name string, value mgl32.Vec3) {
	u.vec3s[name] = value
}

func (u *UniformSet) Float(name string) (float32, bool) {
	v, ok := u.floats[name]
	return v, ok
}

func (u *UniformSet) Vec3(name string) (mgl32.Vec3, bool) {
	v, ok := u.vec3s[name]
	return v, ok
}

// AddFloat increments a float uniform, starting from zero when unset.
func (u *UniformSet) AddFloat(name string, delta float32) float32 {
	u.floats[name] += delta
	return u.floats[name]
}

// Names returns every uniform name in sorted order.
func (u *UniformSet) Names() []string {
	names := make([]string, 0, len(u.floats)+len(u.vec3s))
	for n := range u.floats {
		names = append(names, n)
	}
	for n := range u.vec3s {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func (u *UniformSet) Clone() *UniformSet {
	c := NewUniformSet()
	for k, v := range u.floats {
		c.floats[k] = v
	}
	for k, v := range u.vec3s {
		c.vec3s[k] = v
	}
	return c
}

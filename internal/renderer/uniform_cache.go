package renderer

import (
	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

// UniformCache remembers uniform locations of one shader program.
type UniformCache struct {
	locations map[string]int32
	program   uint32
}

func NewUniformCache(program uint32) *UniformCache {
	return &UniformCache{
		locations: make(map[string]int32),
		program:   program,
	}
}

func (uc *UniformCache) location(name string) int32 {
	if loc, ok := uc.locations[name]; ok {
		return loc
	}
	loc := gl.GetUniformLocation(uc.program, gl.Str(name+"\x00"))
	uc.locations[name] = loc
	return loc
}

func (uc *UniformCache) SetFloat(name string, value float32) {
	if loc := uc.location(name); loc != -1 {
		gl.Uniform1f(loc, value)
	}
}

func (uc *UniformCache) SetVec3(name string, v mgl32.Vec3) {
	if loc := uc.location(name); loc != -1 {
		gl.Uniform3f(loc, v.X(), v.Y(), v.Z())
	}
}

func (uc *UniformCache) SetInt(name string, value int32) {
	if loc := uc.location(name); loc != -1 {
		gl.Uniform1i(loc, value)
	}
}

func (uc *UniformCache) SetMat4(name string, m mgl32.Mat4) {
	if loc := uc.location(name); loc != -1 {
		gl.UniformMatrix4fv(loc, 1, false, &m[0])
	}
}

// Upload pushes every value of set to the bound program.
func (uc *UniformCache) Upload(set *UniformSet) {
	if set == nil {
		return
	}
	for _, name := range set.Names() {
		if f, ok := set.Float(name); ok {
			uc.SetFloat(name, f)
			continue
		}
		if v, ok := set.Vec3(name); ok {
			uc.SetVec3(name, v)
		}
	}
}

// Clear forgets cached locations, needed after the program is relinked.
func (uc *UniformCache) Clear() {
	uc.locations = make(map[string]int32)
}

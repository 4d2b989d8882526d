package renderer

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestUniformSetValues(t *testing.T) {
	u := NewUniformSet()
	u.SetFloat("turbidity", 10)
	u.SetVec3("sunPosition", mgl32.Vec3{0, 1, 0})

	if v, ok := u.Float("turbidity"); !ok || v != 10 {
		t.Errorf("Expected turbidity 10, got %v (%v)", v, ok)
	}
	if v, ok := u.Vec3("sunPosition"); !ok || v != (mgl32.Vec3{0, 1, 0}) {
		t.Errorf("Expected sunPosition (0,1,0), got %v (%v)", v, ok)
	}
	if _, ok := u.Float("missing"); ok {
		t.Error("Missing uniform should not be found")
	}
}

func TestUniformSetAddFloat(t *testing.T) {
	u := NewUniformSet()
	u.AddFloat("time", 0.5)
	if got := u.AddFloat("time", 0.25); got != 0.75 {
		t.Errorf("Expected 0.75, got %v", got)
	}
}

func TestUniformSetNamesSorted(t *testing.T) {
	u := NewUniformSet()
	u.SetFloat("rayleigh", 2)
	u.SetVec3("b", mgl32.Vec3{})
	u.SetFloat("a", 1)

	names := u.Names()
	want := []string{"a", "b", "rayleigh"}
	if len(names) != len(want) {
		t.Fatalf("Expected %d names, got %d", len(want), len(names))
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("Expected names[%d] = %s, got %s", i, want[i], names[i])
		}
	}
}

func TestUniformSetCloneIsIndependent(t *testing.T) {
	u := NewUniformSet()
	u.SetFloat("time", 1)
	c := u.Clone()
	c.SetFloat("time", 2)

	if v, _ := u.Float("time"); v != 1 {
		t.Errorf("Original changed by clone write, got %v", v)
	}
}

package renderer

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Node is an element of the scene graph. Geometry (Mesh, Points) is shared
// between clones, transforms are not.
type Node struct {
	// HOT DATA - read every frame by the renderer and the behaviours
	Position    mgl32.Vec3 // Local translation
	Rotation    mgl32.Vec3 // Local Euler rotation in radians, applied X then Y then Z
	Orientation mgl32.Quat // Rest orientation from the asset, applied before Rotation
	Scale       mgl32.Vec3 // Local scale
	Visible     bool
	Mesh        *Mesh
	Points      *Points
	Children    []*Node

	// COLD DATA
	Name        string
	Shader      *Shader     // Custom shader, nil uses the default one
	Uniforms    *UniformSet // Custom uniforms uploaded with Shader
	RenderOrder int         // Lower draws first; the sky dome uses -1
	parent      *Node
}

func NewNode(name string) *Node {
	return &Node{
		Name:        name,
		Scale:       mgl32.Vec3{1, 1, 1},
		Orientation: mgl32.QuatIdent(),
		Visible:     true,
	}
}

func (n *Node) Add(child *Node) {
	if child.parent != nil {
		child.parent.Remove(child)
	}
	child.parent = n
	n.Children = append(n.Children, child)
}

func (n *Node) Remove(child *Node) {
	for i, c := range n.Children {
		if c == child {
			n.Children = append(n.Children[:i], n.Children[i+1:]...)
			child.parent = nil
			return
		}
	}
}

func (n *Node) Parent() *Node {
	return n.parent
}

// Clone copies the subtree. The copy is detached from any parent.
func (n *Node) Clone() *Node {
	c := *n
	c.parent = nil
	c.Children = nil
	if n.Uniforms != nil {
		c.Uniforms = n.Uniforms.Clone()
	}
	for _, child := range n.Children {
		c.Add(child.Clone())
	}
	return &c
}

// Traverse visits n and all its descendants depth first.
func (n *Node) Traverse(fn func(*Node)) {
	fn(n)
	for _, c := range n.Children {
		c.Traverse(fn)
	}
}

// Find returns the first descendant (or n itself) with the given name.
func (n *Node) Find(name string) *Node {
	if n.Name == name {
		return n
	}
	for _, c := range n.Children {
		if found := c.Find(name); found != nil {
			return found
		}
	}
	return nil
}

func (n *Node) LocalMatrix() mgl32.Mat4 {
	t := mgl32.Translate3D(n.Position.X(), n.Position.Y(), n.Position.Z())
	r := mgl32.HomogRotate3DZ(n.Rotation.Z()).
		Mul4(mgl32.HomogRotate3DY(n.Rotation.Y())).
		Mul4(mgl32.HomogRotate3DX(n.Rotation.X())).
		Mul4(n.Orientation.Mat4())
	s := mgl32.Scale3D(n.Scale.X(), n.Scale.Y(), n.Scale.Z())
	return t.Mul4(r).Mul4(s)
}

func (n *Node) WorldMatrix() mgl32.Mat4 {
	if n.parent == nil {
		return n.LocalMatrix()
	}
	return n.parent.WorldMatrix().Mul4(n.LocalMatrix())
}

func (n *Node) SetScalar(s float32) {
	n.Scale = mgl32.Vec3{s, s, s}
}

func (n *Node) GetPosition() mgl32.Vec3 {
	return n.Position
}

func (n *Node) SetPositionVec(p mgl32.Vec3) {
	n.Position = p
}

func (n *Node) SetVisible(v bool) {
	n.Visible = v
}

// Scene is the root of everything drawn in a frame.
type Scene struct {
	Root       *Node
	Background mgl32.Vec3

	environment *EnvironmentMap
}

func NewScene() *Scene {
	return &Scene{Root: NewNode("scene")}
}

func (s *Scene) Add(n *Node) {
	s.Root.Add(n)
}

func (s *Scene) Remove(n *Node) {
	s.Root.Remove(n)
}

// SetEnvironment assigns the ambient environment map. The scene does not own
// the map; whoever baked it disposes it.
func (s *Scene) SetEnvironment(env *EnvironmentMap) {
	s.environment = env
}

func (s *Scene) Environment() *EnvironmentMap {
	return s.environment
}

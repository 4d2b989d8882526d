package loader

import (
	"LotusPond/internal/renderer"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

// Model is a decoded glTF scene with its animation clips bound to the
// decoded nodes.
type Model struct {
	Root  *renderer.Node
	Clips []*renderer.AnimationClip
}

// LoadGLB decodes a .glb or .gltf file.
func LoadGLB(path string) (*Model, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("gltf open %q: %w", path, err)
	}
	return decodeDocument(doc, path)
}

func decodeDocument(doc *gltf.Document, name string) (*Model, error) {
	meshes := make([][]*renderer.Mesh, len(doc.Meshes))
	for mi, gm := range doc.Meshes {
		for pi, prim := range gm.Primitives {
			m, err := decodePrimitive(doc, prim)
			if err != nil {
				return nil, fmt.Errorf("%s: mesh %d primitive %d: %w", name, mi, pi, err)
			}
			meshes[mi] = append(meshes[mi], m)
		}
	}

	nodes := make([]*renderer.Node, len(doc.Nodes))
	for i, gn := range doc.Nodes {
		nodeName := gn.Name
		if nodeName == "" {
			nodeName = fmt.Sprintf("node_%d", i)
		}
		n := renderer.NewNode(nodeName)

		t := gn.TranslationOrDefault()
		n.Position = mgl32.Vec3{float32(t[0]), float32(t[1]), float32(t[2])}
		s := gn.ScaleOrDefault()
		n.Scale = mgl32.Vec3{float32(s[0]), float32(s[1]), float32(s[2])}
		r := gn.RotationOrDefault() // x, y, z, w
		n.Orientation = mgl32.Quat{W: float32(r[3]), V: mgl32.Vec3{float32(r[0]), float32(r[1]), float32(r[2])}}

		if gn.Mesh != nil && *gn.Mesh < len(meshes) {
			prims := meshes[*gn.Mesh]
			if len(prims) == 1 {
				n.Mesh = prims[0]
			} else {
				for pi, p := range prims {
					child := renderer.NewNode(fmt.Sprintf("%s_prim%d", nodeName, pi))
					child.Mesh = p
					n.Add(child)
				}
			}
		}
		nodes[i] = n
	}

	hasParent := make([]bool, len(nodes))
	for i, gn := range doc.Nodes {
		for _, c := range gn.Children {
			if c < len(nodes) {
				nodes[i].Add(nodes[c])
				hasParent[c] = true
			}
		}
	}

	root := renderer.NewNode(name)
	if doc.Scene != nil && *doc.Scene < len(doc.Scenes) {
		for _, idx := range doc.Scenes[*doc.Scene].Nodes {
			if idx < len(nodes) {
				root.Add(nodes[idx])
			}
		}
	} else {
		for i, n := range nodes {
			if !hasParent[i] {
				root.Add(n)
			}
		}
	}

	clips, err := decodeAnimations(doc, nodes)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return &Model{Root: root, Clips: clips}, nil
}

func decodePrimitive(doc *gltf.Document, prim *gltf.Primitive) (*renderer.Mesh, error) {
	posIdx, ok := prim.Attributes["POSITION"]
	if !ok {
		return nil, fmt.Errorf("no POSITION attribute")
	}
	acc, err := accessorAt(doc, posIdx)
	if err != nil {
		return nil, fmt.Errorf("positions: %w", err)
	}
	positions, err := modeler.ReadPosition(doc, acc, nil)
	if err != nil {
		return nil, fmt.Errorf("positions: %w", err)
	}

	mesh := &renderer.Mesh{
		Positions: make([]float32, 0, len(positions)*3),
		Color:     mgl32.Vec3{0.8, 0.8, 0.8},
	}
	for _, p := range positions {
		mesh.Positions = append(mesh.Positions, p[0], p[1], p[2])
	}

	if prim.Indices != nil {
		acc, err := accessorAt(doc, *prim.Indices)
		if err != nil {
			return nil, fmt.Errorf("indices: %w", err)
		}
		mesh.Indices, err = modeler.ReadIndices(doc, acc, nil)
		if err != nil {
			return nil, fmt.Errorf("indices: %w", err)
		}
	}

	if idx, ok := prim.Attributes["NORMAL"]; ok {
		acc, err := accessorAt(doc, idx)
		if err != nil {
			return nil, fmt.Errorf("normals: %w", err)
		}
		normals, err := modeler.ReadNormal(doc, acc, nil)
		if err != nil {
			return nil, fmt.Errorf("normals: %w", err)
		}
		mesh.Normals = make([]float32, 0, len(normals)*3)
		for _, n := range normals {
			mesh.Normals = append(mesh.Normals, n[0], n[1], n[2])
		}
	} else if len(mesh.Indices) > 0 {
		mesh.Normals = RecalculateNormals(mesh.Positions, mesh.Indices)
	}

	if prim.Material != nil && *prim.Material < len(doc.Materials) {
		if pbr := doc.Materials[*prim.Material].PBRMetallicRoughness; pbr != nil {
			cf := pbr.BaseColorFactorOrDefault()
			mesh.Color = mgl32.Vec3{float32(cf[0]), float32(cf[1]), float32(cf[2])}
		}
	}
	return mesh, nil
}

func decodeAnimations(doc *gltf.Document, nodes []*renderer.Node) ([]*renderer.AnimationClip, error) {
	if len(doc.Animations) == 0 {
		return nil, nil
	}
	clips := make([]*renderer.AnimationClip, 0, len(doc.Animations))
	for ai, a := range doc.Animations {
		clip := &renderer.AnimationClip{Name: a.Name}
		if clip.Name == "" {
			clip.Name = fmt.Sprintf("clip_%d", ai)
		}
		for _, ch := range a.Channels {
			if ch.Target.Node == nil || *ch.Target.Node >= len(nodes) || ch.Sampler < 0 || ch.Sampler >= len(a.Samplers) {
				continue
			}
			var path renderer.AnimationPath
			switch ch.Target.Path {
			case gltf.TRSTranslation:
				path = renderer.PathTranslation
			case gltf.TRSRotation:
				path = renderer.PathRotation
			case gltf.TRSScale:
				path = renderer.PathScale
			default:
				// morph weights are not supported
				continue
			}
			sampler := a.Samplers[ch.Sampler]
			times, err := readFloats(doc, sampler.Input)
			if err != nil {
				return nil, fmt.Errorf("clip %s input: %w", clip.Name, err)
			}
			values, err := readVectors(doc, sampler.Output)
			if err != nil {
				return nil, fmt.Errorf("clip %s output: %w", clip.Name, err)
			}
			if len(times) > 0 && times[len(times)-1] > clip.Duration {
				clip.Duration = times[len(times)-1]
			}
			channel := renderer.AnimationChannel{
				Node:  nodes[*ch.Target.Node],
				Path:  path,
				Times: times,
			}
			switch sampler.Interpolation {
			case gltf.InterpolationStep:
				channel.Interpolation = renderer.InterpolateStep
				channel.Values = values
			case gltf.InterpolationCubicSpline:
				// each keyframe is an in-tangent, value, out-tangent triplet
				if len(values) != 3*len(times) {
					return nil, fmt.Errorf("clip %s: cubic output has %d elements for %d keyframes", clip.Name, len(values), len(times))
				}
				channel.Interpolation = renderer.InterpolateCubic
				channel.InTangents = make([][4]float32, len(times))
				channel.Values = make([][4]float32, len(times))
				channel.OutTangents = make([][4]float32, len(times))
				for k := range times {
					channel.InTangents[k] = values[3*k]
					channel.Values[k] = values[3*k+1]
					channel.OutTangents[k] = values[3*k+2]
				}
			default:
				channel.Values = values
			}
			clip.Channels = append(clip.Channels, channel)
		}
		clips = append(clips, clip)
	}
	return clips, nil
}

func accessorAt(doc *gltf.Document, idx int) (*gltf.Accessor, error) {
	if idx < 0 || idx >= len(doc.Accessors) {
		return nil, fmt.Errorf("accessor %d out of range", idx)
	}
	return doc.Accessors[idx], nil
}

func readFloats(doc *gltf.Document, accessor int) ([]float32, error) {
	acc, err := accessorAt(doc, accessor)
	if err != nil {
		return nil, err
	}
	data, err := modeler.ReadAccessor(doc, acc, nil)
	if err != nil {
		return nil, err
	}
	f, ok := data.([]float32)
	if !ok {
		return nil, fmt.Errorf("accessor %d: unexpected type %T", accessor, data)
	}
	return f, nil
}

func readVectors(doc *gltf.Document, accessor int) ([][4]float32, error) {
	acc, err := accessorAt(doc, accessor)
	if err != nil {
		return nil, err
	}
	data, err := modeler.ReadAccessor(doc, acc, nil)
	if err != nil {
		return nil, err
	}
	switch v := data.(type) {
	case [][3]float32:
		out := make([][4]float32, len(v))
		for i, e := range v {
			out[i] = [4]float32{e[0], e[1], e[2], 0}
		}
		return out, nil
	case [][4]float32:
		return v, nil
	default:
		return nil, fmt.Errorf("accessor %d: unexpected type %T", accessor, data)
	}
}

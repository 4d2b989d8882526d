package renderer

import (
	"LotusPond/internal/logger"
	"fmt"
	"image"
	"image/color"
	"math"
	"sort"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

var defaultAmbient = mgl32.Vec3{0.1, 0.1, 0.1}

// envStrength scales the environment map's contribution to ambient light.
const envStrength = 0.6

// environment is the ambient term of one frame. texture is 0 when no map is
// bound to unit 1.
type environment struct {
	ambient mgl32.Vec3
	average mgl32.Vec3
	texture uint32
}

type drawItem struct {
	node  *Node
	world mgl32.Mat4
}

type OpenGLRenderer struct {
	textures             *TextureManager
	currentShaderProgram uint32
	env                  *EnvironmentMap
	envTexture           uint32
	meshes               []*Mesh
	points               []*Points
	whiteSprite          image.Image
	drawList             []drawItem
	shaders              []*Shader
}

func NewOpenGLRenderer() *OpenGLRenderer {
	white := image.NewRGBA(image.Rect(0, 0, 1, 1))
	white.SetRGBA(0, 0, color.RGBA{255, 255, 255, 255})
	return &OpenGLRenderer{
		textures:    NewTextureManager(),
		whiteSprite: white,
	}
}

func (rend *OpenGLRenderer) Init(width, height int32) {
	if err := gl.Init(); err != nil {
		logger.Log.Error("OpenGL initialization failed", zap.Error(err))
		return
	}
	if Debug {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.LINE)
	}
	gl.Enable(gl.PROGRAM_POINT_SIZE)
	gl.Viewport(0, 0, width, height)

	for _, s := range []*Shader{DefaultShader, PointsShader} {
		if !s.Compile() {
			logger.Log.Error("Built-in shader failed to compile", zap.String("shader", s.Name))
		}
	}
	logger.Log.Info("OpenGL render initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))))
}

func (rend *OpenGLRenderer) Render(scene *Scene, camera *Camera, light *Light) {
	bg := scene.Background
	gl.ClearColor(bg.X(), bg.Y(), bg.Z(), 1.0)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	if DepthTestEnabled {
		gl.Enable(gl.DEPTH_TEST)
		gl.DepthFunc(gl.LEQUAL)
	} else {
		gl.Disable(gl.DEPTH_TEST)
	}

	ambient := rend.bindEnvironment(scene.Environment())
	if ambient.texture != 0 {
		gl.ActiveTexture(gl.TEXTURE1)
		gl.BindTexture(gl.TEXTURE_2D, ambient.texture)
		gl.ActiveTexture(gl.TEXTURE0)
	}
	viewProjection := camera.GetViewProjection()

	rend.drawList = rend.drawList[:0]
	collectVisible(scene.Root, mgl32.Ident4(), &rend.drawList)
	sort.SliceStable(rend.drawList, func(i, j int) bool {
		return rend.drawList[i].node.RenderOrder < rend.drawList[j].node.RenderOrder
	})

	for _, item := range rend.drawList {
		switch {
		case item.node.Mesh != nil:
			rend.drawMesh(item, viewProjection, camera, light, ambient)
		case item.node.Points != nil:
			rend.drawPoints(item, viewProjection)
		}
	}
	gl.BindVertexArray(0)
	gl.Disable(gl.DEPTH_TEST)
}

func collectVisible(n *Node, parent mgl32.Mat4, out *[]drawItem) {
	if !n.Visible {
		return
	}
	world := parent.Mul4(n.LocalMatrix())
	if n.Mesh != nil || n.Points != nil {
		*out = append(*out, drawItem{node: n, world: world})
	}
	for _, c := range n.Children {
		collectVisible(c, world, out)
	}
}

// bindEnvironment uploads a newly assigned environment map and returns the
// ambient term it contributes.
func (rend *OpenGLRenderer) bindEnvironment(env *EnvironmentMap) environment {
	if env == nil || env.Disposed() {
		return environment{ambient: defaultAmbient}
	}
	if env != rend.env {
		id := rend.textures.Acquire(fmt.Sprintf("env-%p", env), env.Image)
		env.OnDispose(func() {
			rend.textures.Release(id)
			if rend.envTexture == id {
				rend.envTexture = 0
			}
		})
		rend.env, rend.envTexture = env, id
	}
	return environment{
		ambient: env.Average().Mul(envStrength).Add(defaultAmbient),
		average: env.Average(),
		texture: rend.envTexture,
	}
}

func (rend *OpenGLRenderer) useShader(shader *Shader) bool {
	if !shader.IsCompiled() {
		if !shader.Compile() {
			return false
		}
		rend.shaders = append(rend.shaders, shader)
	}
	if rend.currentShaderProgram != shader.program {
		shader.Use()
		rend.currentShaderProgram = shader.program
	}
	return true
}

func (rend *OpenGLRenderer) drawMesh(item drawItem, viewProjection mgl32.Mat4, camera *Camera, light *Light, ambient environment) {
	node, mesh := item.node, item.node.Mesh
	shader := node.Shader
	if shader == nil {
		shader = DefaultShader
	}
	if !rend.useShader(shader) {
		return
	}
	if !mesh.uploaded {
		rend.uploadMesh(mesh)
	}

	u := shader.uniforms
	u.SetMat4("model", item.world)
	u.SetMat4("viewProjection", viewProjection)
	u.SetVec3("viewPos", camera.Position)
	u.SetVec3("diffuseColor", mesh.Color)
	u.SetVec3("ambientColor", ambient.ambient)
	if ambient.texture != 0 {
		u.SetInt("envMap", 1)
		u.SetVec3("envAverage", ambient.average)
		u.SetFloat("envStrength", envStrength)
		u.SetFloat("useEnvMap", 1)
	} else {
		u.SetFloat("useEnvMap", 0)
	}
	if light != nil {
		u.SetVec3("lightPos", light.Position)
		u.SetVec3("lightColor", light.Color)
		u.SetVec3("lightDirection", light.Direction)
		u.SetFloat("lightIntensity", light.Intensity)
		u.SetFloat("lightCutoff", float32(math.Cos(float64(light.Angle))))
		u.SetVec3("sunColor", light.Color)
	}
	if mesh.Texture != nil && mesh.textureID == 0 {
		// maps may arrive from the loader after the geometry was uploaded
		mesh.textureID = rend.textures.Acquire(fmt.Sprintf("map-%p", mesh.Texture), mesh.Texture)
	}
	if mesh.textureID != 0 {
		gl.ActiveTexture(gl.TEXTURE0)
		gl.BindTexture(gl.TEXTURE_2D, mesh.textureID)
		u.SetInt("normalSampler", 0)
		u.SetFloat("useNormalMap", 1)
	} else {
		u.SetFloat("useNormalMap", 0)
	}
	u.Upload(node.Uniforms)

	if node.RenderOrder < 0 {
		gl.DepthMask(false)
	}
	gl.BindVertexArray(mesh.vao)
	if len(mesh.Indices) > 0 {
		gl.DrawElements(gl.TRIANGLES, int32(len(mesh.Indices)), gl.UNSIGNED_INT, nil)
	} else {
		gl.DrawArrays(gl.TRIANGLES, 0, int32(mesh.VertexCount()))
	}
	if node.RenderOrder < 0 {
		gl.DepthMask(true)
	}
}

func (rend *OpenGLRenderer) drawPoints(item drawItem, viewProjection mgl32.Mat4) {
	points := item.node.Points
	if !rend.useShader(PointsShader) {
		return
	}
	if !points.uploaded {
		rend.uploadPoints(points)
	}
	rend.bindSprite(points)

	u := PointsShader.uniforms
	u.SetMat4("model", item.world)
	u.SetMat4("viewProjection", viewProjection)
	u.SetFloat("pointSize", points.Size)
	u.SetVec3("pointColor", points.Color)
	u.SetFloat("alphaTest", points.AlphaTest)
	u.SetInt("sprite", 0)

	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	gl.DepthMask(false)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, points.textureID)
	gl.BindVertexArray(points.vao)
	gl.DrawArrays(gl.POINTS, 0, int32(points.Count()))
	gl.DepthMask(true)
	gl.Disable(gl.BLEND)
}

func (rend *OpenGLRenderer) uploadMesh(mesh *Mesh) {
	gl.GenVertexArrays(1, &mesh.vao)
	gl.BindVertexArray(mesh.vao)

	gl.GenBuffers(1, &mesh.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, mesh.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(mesh.Positions)*4, gl.Ptr(mesh.Positions), gl.STATIC_DRAW)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, 3*4, nil)
	gl.EnableVertexAttribArray(0)

	if len(mesh.Normals) == len(mesh.Positions) {
		gl.GenBuffers(1, &mesh.nbo)
		gl.BindBuffer(gl.ARRAY_BUFFER, mesh.nbo)
		gl.BufferData(gl.ARRAY_BUFFER, len(mesh.Normals)*4, gl.Ptr(mesh.Normals), gl.STATIC_DRAW)
		gl.VertexAttribPointer(1, 3, gl.FLOAT, false, 3*4, nil)
		gl.EnableVertexAttribArray(1)
	}

	if len(mesh.Indices) > 0 {
		gl.GenBuffers(1, &mesh.ebo)
		gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, mesh.ebo)
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(mesh.Indices)*4, gl.Ptr(mesh.Indices), gl.STATIC_DRAW)
	}
	gl.BindVertexArray(0)
	mesh.uploaded = true
	rend.meshes = append(rend.meshes, mesh)
}

func (rend *OpenGLRenderer) uploadPoints(points *Points) {
	gl.GenVertexArrays(1, &points.vao)
	gl.BindVertexArray(points.vao)
	gl.GenBuffers(1, &points.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, points.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(points.Positions)*4, gl.Ptr(points.Positions), gl.STATIC_DRAW)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, 3*4, nil)
	gl.EnableVertexAttribArray(0)
	gl.BindVertexArray(0)

	points.uploaded = true
	rend.points = append(rend.points, points)
}

// bindSprite swaps in the sprite texture when the sprite changed since the
// last draw, falling back to a plain white disc until one is loaded.
func (rend *OpenGLRenderer) bindSprite(points *Points) {
	sprite := points.Sprite
	if sprite == nil {
		sprite = rend.whiteSprite
	}
	if points.textureID != 0 && points.bound == sprite {
		return
	}
	if points.textureID != 0 {
		rend.textures.Release(points.textureID)
	}
	points.textureID = rend.textures.Acquire(fmt.Sprintf("sprite-%p", sprite), sprite)
	points.bound = sprite
}

func (rend *OpenGLRenderer) UpdateViewport(width, height int32) {
	gl.Viewport(0, 0, width, height)
}

func (rend *OpenGLRenderer) Cleanup() {
	for _, m := range rend.meshes {
		gl.DeleteVertexArrays(1, &m.vao)
		gl.DeleteBuffers(1, &m.vbo)
		if m.nbo != 0 {
			gl.DeleteBuffers(1, &m.nbo)
		}
		if m.ebo != 0 {
			gl.DeleteBuffers(1, &m.ebo)
		}
		m.uploaded, m.textureID = false, 0
	}
	for _, p := range rend.points {
		gl.DeleteVertexArrays(1, &p.vao)
		gl.DeleteBuffers(1, &p.vbo)
		p.uploaded, p.textureID, p.bound = false, 0, nil
	}
	rend.meshes, rend.points = nil, nil
	rend.env, rend.envTexture = nil, 0
	rend.textures.Clear()
	for _, s := range rend.shaders {
		s.Delete()
	}
	rend.shaders = nil
	DefaultShader.Delete()
	PointsShader.Delete()
}

func GenShader(source string, shaderType uint32) (uint32, bool) {
	shader := gl.CreateShader(shaderType)
	cSources, free := gl.Strs(source)
	gl.ShaderSource(shader, 1, cSources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(log))
		logger.Log.Error("Failed to compile", zap.Uint32("shader type", shaderType), zap.String("log", log))
		return shader, false
	}
	return shader, true
}

func GenShaderProgram(vertexShader, fragmentShader uint32) (uint32, bool) {
	program := gl.CreateProgram()
	gl.AttachShader(program, vertexShader)
	gl.AttachShader(program, fragmentShader)
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	ok := status != gl.FALSE
	if !ok {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(program, logLength, nil, gl.Str(log))
		logger.Log.Error("Failed to link program", zap.String("log", log))
	}
	gl.DetachShader(program, vertexShader)
	gl.DeleteShader(vertexShader)
	gl.DetachShader(program, fragmentShader)
	gl.DeleteShader(fragmentShader)
	return program, ok
}

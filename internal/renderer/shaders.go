package renderer

import (
	"github.com/go-gl/gl/v4.1-core/gl"
)

// =============================================================
//
//	Shaders
//
// =============================================================

// Shader is a GLSL program compiled lazily on first use by the renderer.
// One Shader value is shared by every node drawn with it.
type Shader struct {
	Name           string
	vertexSource   string
	fragmentSource string
	program        uint32
	compiled       bool
	uniforms       *UniformCache
}

func (shader *Shader) Use() {
	gl.UseProgram(shader.program)
}

func (shader *Shader) IsCompiled() bool {
	return shader.compiled
}

// Compile builds the program. It reports false when compilation or linking
// failed; the renderer then skips nodes using it.
func (shader *Shader) Compile() bool {
	vs, ok := GenShader(shader.vertexSource, gl.VERTEX_SHADER)
	if !ok {
		gl.DeleteShader(vs)
		return false
	}
	fs, ok := GenShader(shader.fragmentSource, gl.FRAGMENT_SHADER)
	if !ok {
		gl.DeleteShader(vs)
		gl.DeleteShader(fs)
		return false
	}
	program, ok := GenShaderProgram(vs, fs)
	if !ok {
		gl.DeleteProgram(program)
		return false
	}
	shader.program = program
	shader.uniforms = NewUniformCache(program)
	shader.compiled = true
	return true
}

func (shader *Shader) Delete() {
	if shader.compiled {
		gl.DeleteProgram(shader.program)
		shader.compiled = false
	}
}

var meshVertexShaderSource = `#version 330 core

layout(location = 0) in vec3 inPosition;
layout(location = 1) in vec3 inNormal;

uniform mat4 model;
uniform mat4 viewProjection;

out vec3 Normal;
out vec3 FragPos;

void main() {
    FragPos = vec3(model * vec4(inPosition, 1.0));
    Normal = mat3(model) * inNormal;
    gl_Position = viewProjection * vec4(FragPos, 1.0);
}` + "\x00"

var meshFragmentShaderSource = `#version 330 core

in vec3 Normal;
in vec3 FragPos;

uniform vec3 diffuseColor;
uniform vec3 lightPos;
uniform vec3 lightColor;
uniform vec3 lightDirection;
uniform float lightIntensity;
uniform float lightCutoff;
uniform vec3 ambientColor;
uniform vec3 viewPos;
uniform vec3 envAverage;
uniform float envStrength;

uniform sampler2D envMap;
uniform float useEnvMap;

// inverse of EquirectDirection
vec2 equirectUV(vec3 d) {
    d = normalize(d);
    return vec2(atan(d.x, d.z) / 6.28318531 + 0.5, acos(clamp(d.y, -1.0, 1.0)) / 3.14159265);
}

out vec4 FragColor;

void main() {
    vec3 norm = length(Normal) > 0.0 ? normalize(Normal) : vec3(0.0, 1.0, 0.0);
    vec3 toLight = normalize(lightPos - FragPos);

    float theta = dot(-toLight, normalize(lightDirection));
    float spot = smoothstep(lightCutoff, lightCutoff + 0.05, theta);

    float diff = max(dot(norm, toLight), 0.0);
    vec3 viewDir = normalize(viewPos - FragPos);
    vec3 halfway = normalize(toLight + viewDir);
    float spec = pow(max(dot(norm, halfway), 0.0), 32.0) * 0.3;

    vec3 ambient = ambientColor;
    if (useEnvMap > 0.5) {
        // diffuse light from the sky in the direction of the normal
        ambient += (texture(envMap, equirectUV(norm)).rgb - envAverage) * envStrength;
        ambient = max(ambient, vec3(0.0));
    }

    vec3 lit = (diff + spec) * spot * lightIntensity * lightColor;
    FragColor = vec4(diffuseColor * (ambient + lit), 1.0);
}` + "\x00"

var pointsVertexShaderSource = `#version 330 core

layout(location = 0) in vec3 inPosition;

uniform mat4 model;
uniform mat4 viewProjection;
uniform float pointSize;

void main() {
    vec4 world = model * vec4(inPosition, 1.0);
    gl_Position = viewProjection * world;
    gl_PointSize = pointSize * 300.0 / max(gl_Position.w, 1.0);
}` + "\x00"

var pointsFragmentShaderSource = `#version 330 core

uniform sampler2D sprite;
uniform vec3 pointColor;
uniform float alphaTest;

out vec4 FragColor;

void main() {
    vec4 texel = texture(sprite, gl_PointCoord);
    if (texel.a < alphaTest) {
        discard;
    }
    FragColor = vec4(pointColor * texel.rgb, texel.a);
}` + "\x00"

var skyVertexShaderSource = `#version 330 core

layout(location = 0) in vec3 inPosition;

uniform mat4 model;
uniform mat4 viewProjection;

out vec3 WorldPos;

void main() {
    vec4 world = model * vec4(inPosition, 1.0);
    WorldPos = world.xyz;
    gl_Position = (viewProjection * world).xyww;
}` + "\x00"

// Preetham style analytic sky, reduced to the parameters the scene drives.
var skyFragmentShaderSource = `#version 330 core

in vec3 WorldPos;

uniform vec3 sunPosition;
uniform float turbidity;
uniform float rayleigh;
uniform float mieCoefficient;
uniform float mieDirectionalG;
uniform vec3 viewPos;

out vec4 FragColor;

const float PI = 3.141592653589793;
const vec3 totalRayleigh = vec3(5.804542996261093e-6, 1.3562911419845635e-5, 3.0265902468824876e-5);
const vec3 mieConst = vec3(1.8399918514433978e14, 2.7798023919660528e14, 4.0790479543861094e14);

float rayleighPhase(float cosTheta) {
    return (3.0 / (16.0 * PI)) * (1.0 + cosTheta * cosTheta);
}

float hgPhase(float cosTheta, float g) {
    float g2 = g * g;
    return (1.0 / (4.0 * PI)) * ((1.0 - g2) / pow(1.0 - 2.0 * g * cosTheta + g2, 1.5));
}

void main() {
    vec3 sunDir = normalize(sunPosition);
    vec3 dir = normalize(WorldPos - viewPos);

    float sunE = 1000.0 * max(0.0, 1.0 - exp(-((PI / 1.95) - acos(clamp(sunDir.y, -1.0, 1.0))) / 1.5));
    float sunFade = 1.0 - clamp(1.0 - exp(sunDir.y / 450000.0), 0.0, 1.0);
    float rayleighCoefficient = rayleigh - (1.0 * (1.0 - sunFade));

    vec3 betaR = totalRayleigh * rayleighCoefficient;
    float c = (0.2 * turbidity) * 10e-18;
    vec3 betaM = 0.434 * c * mieConst * mieCoefficient;

    float zenith = acos(max(0.0, dir.y));
    float inverse = 1.0 / (cos(zenith) + 0.15 * pow(93.885 - degrees(zenith), -1.253));
    vec3 fex = exp(-(betaR * 8.4e3 * inverse + betaM * 1.25e3 * inverse));

    float cosTheta = dot(dir, sunDir);
    vec3 betaRTheta = betaR * rayleighPhase(cosTheta * 0.5 + 0.5);
    vec3 betaMTheta = betaM * hgPhase(cosTheta, mieDirectionalG);
    vec3 lin = pow(sunE * ((betaRTheta + betaMTheta) / (betaR + betaM)) * (1.0 - fex), vec3(1.5));
    lin *= mix(vec3(1.0), pow(sunE * ((betaRTheta + betaMTheta) / (betaR + betaM)) * fex, vec3(0.5)),
        clamp(pow(1.0 - dot(vec3(0.0, 1.0, 0.0), sunDir), 5.0), 0.0, 1.0));

    vec3 texColor = (lin + vec3(0.1) * fex) * 0.04;
    texColor += vec3(0.0003, 0.00075, 0.0003);
    vec3 color = texColor / (texColor + vec3(1.0));
    FragColor = vec4(pow(color, vec3(1.0 / 2.2)), 1.0);
}` + "\x00"

var waterVertexShaderSource = `#version 330 core

layout(location = 0) in vec3 inPosition;

uniform mat4 model;
uniform mat4 viewProjection;

out vec3 WorldPos;

void main() {
    vec4 world = model * vec4(inPosition, 1.0);
    WorldPos = world.xyz;
    gl_Position = viewProjection * world;
}` + "\x00"

var waterFragmentShaderSource = `#version 330 core

in vec3 WorldPos;

uniform float time;
uniform float distortionScale;
uniform sampler2D normalSampler;
uniform float useNormalMap;
uniform vec3 sunDirection;
uniform vec3 sunColor;
uniform vec3 waterColor;
uniform vec3 ambientColor;
uniform vec3 viewPos;

uniform sampler2D envMap;
uniform float useEnvMap;

// inverse of EquirectDirection
vec2 equirectUV(vec3 d) {
    d = normalize(d);
    return vec2(atan(d.x, d.z) / 6.28318531 + 0.5, acos(clamp(d.y, -1.0, 1.0)) / 3.14159265);
}

out vec4 FragColor;

vec3 rippleNormal(vec2 p) {
    float t = time * 0.5;
    float dx = sin(p.x * 0.05 + t) * 0.5 + sin(p.y * 0.031 - t * 1.3) * 0.3;
    float dz = cos(p.y * 0.043 + t * 0.7) * 0.5 + cos(p.x * 0.027 + t * 1.1) * 0.3;
    return normalize(vec3(dx * distortionScale * 0.05, 1.0, dz * distortionScale * 0.05));
}

void main() {
    vec3 n = rippleNormal(WorldPos.xz);
    if (useNormalMap > 0.5) {
        vec2 uv = WorldPos.xz * 0.002;
        vec3 a = texture(normalSampler, uv + vec2(time * 0.010, time * 0.013)).rgb * 2.0 - 1.0;
        vec3 b = texture(normalSampler, uv * 1.7 - vec2(time * 0.008, 0.0)).rgb * 2.0 - 1.0;
        vec2 d = (a.xy + b.xy) * distortionScale * 0.05;
        n = normalize(n + vec3(d.x, 0.0, d.y));
    }
    vec3 viewDir = normalize(viewPos - WorldPos);
    vec3 sunDir = normalize(sunDirection);

    float diff = max(dot(n, sunDir), 0.0);
    vec3 halfway = normalize(sunDir + viewDir);
    float spec = pow(max(dot(n, halfway), 0.0), 100.0);
    float fresnel = pow(1.0 - max(dot(n, viewDir), 0.0), 3.0);

    vec3 reflection = ambientColor;
    if (useEnvMap > 0.5) {
        reflection = texture(envMap, equirectUV(reflect(-viewDir, n))).rgb;
    }
    vec3 color = waterColor * (ambientColor + diff * 0.5) + sunColor * spec * 2.0 + reflection * fresnel * 0.5;
    FragColor = vec4(color, 1.0);
}` + "\x00"

// DefaultShader draws lit meshes with a flat diffuse colour.
var DefaultShader = &Shader{Name: "default", vertexSource: meshVertexShaderSource, fragmentSource: meshFragmentShaderSource}

// PointsShader draws sprite point clouds.
var PointsShader = &Shader{Name: "points", vertexSource: pointsVertexShaderSource, fragmentSource: pointsFragmentShaderSource}

func NewSkyShader() *Shader {
	return &Shader{Name: "sky", vertexSource: skyVertexShaderSource, fragmentSource: skyFragmentShaderSource}
}

func NewWaterShader() *Shader {
	return &Shader{Name: "water", vertexSource: waterVertexShaderSource, fragmentSource: waterFragmentShaderSource}
}

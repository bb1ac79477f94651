package tide

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
)

// --- Kage shader source ---
// The water pass traces a view ray per pixel, intersects it with the plane
// y = 0 and sums the packed ripples there, the same wave RippleField.HeightAt
// evaluates on the CPU.

const waterShaderTmpl = `//kage:unit pixels
package main

var Ripples [%[1]d]float
var Dirs [%[2]d]float
var Speed float
var Freq float
var Thickness float
var Trail float
var Falloff float
var Displace float
var BloomBoost float

var CamPos vec3
var CamRight vec3
var CamUp vec3
var CamForward vec3
var TanHalf float
var Resolution vec2
var Glow float

func Fragment(dst vec4, src vec2, color vec4) vec4 {
	uv := dst.xy / Resolution
	nx := uv.x*2 - 1
	ny := 1 - uv.y*2
	aspect := Resolution.x / Resolution.y
	dir := normalize(CamForward + CamRight*(nx*TanHalf*aspect) + CamUp*(ny*TanHalf))

	sky := mix(vec3(0.01, 0.03, 0.08), vec3(0.05, 0.12, 0.22), clamp(dir.y*4, 0, 1))
	if dir.y > -0.0005 {
		return vec4(sky, 1)
	}
	t := -CamPos.y / dir.y
	p := CamPos + dir*t

	h := 0.0
	ring := 0.0
	for i := 0; i < %[3]d; i++ {
		c := vec2(Ripples[i*4], Ripples[i*4+1])
		age := Ripples[i*4+2]
		strength := Ripples[i*4+3]
		d := p.xz - c
		dist := length(d)
		behind := age*Speed - dist
		if behind > 0 && strength > 0 {
			osc := sin(behind * Freq)
			trail := exp(-behind * Trail)
			fall := exp(-dist * Falloff)
			heading := vec2(Dirs[i*2], Dirs[i*2+1])
			bias := 1 + 0.35*dot(d/max(dist, 0.0001), heading)
			w := trail * fall * strength * bias
			h += osc * w
			ring += smoothstep(Thickness, 0, abs(osc)-1+Thickness) * w
		}
	}

	depth := clamp(t/400, 0, 1)
	base := mix(vec3(0.02, 0.16, 0.26), vec3(0.01, 0.05, 0.10), depth)
	lit := base + vec3(0.25, 0.55, 0.7)*(h*Displace*4) + vec3(0.6, 0.9, 1)*(ring*BloomBoost*0.15*Glow)
	col := mix(lit, sky, depth*depth)
	return vec4(col, 1)
}
`

// WaterShaderSource returns the Kage source of the water pass for a ripple
// field with the given slot capacity.
func WaterShaderSource(capacity int) []byte {
	if capacity < 1 {
		capacity = 1
	}
	return []byte(fmt.Sprintf(waterShaderTmpl, capacity*4, capacity*2, capacity))
}

// WaterShader renders the water plane and its ripples from a FollowCamera.
type WaterShader struct {
	shader   *ebiten.Shader
	capacity int
	op       ebiten.DrawRectShaderOptions
	uniforms map[string]any
}

// NewWaterShader compiles the water pass for a field of the given capacity.
func NewWaterShader(capacity int) (*WaterShader, error) {
	s, err := ebiten.NewShader(WaterShaderSource(capacity))
	if err != nil {
		return nil, fmt.Errorf("compile water shader: %w", err)
	}
	return &WaterShader{shader: s, capacity: capacity}, nil
}

// Draw fills dst with the water seen from cam. glow scales the ring highlight,
// typically from the bloom handle.
func (w *WaterShader) Draw(dst *ebiten.Image, f *RippleField, cam *FollowCamera, glow float64) {
	if f.Capacity() != w.capacity {
		return
	}
	w.uniforms = f.Uniforms()
	w.uniforms["CamPos"] = vec3Uniform(cam.Position)
	w.uniforms["CamRight"] = vec3Uniform(cam.right)
	w.uniforms["CamUp"] = vec3Uniform(cam.up)
	w.uniforms["CamForward"] = vec3Uniform(cam.forward)
	w.uniforms["TanHalf"] = float32(cam.tanHalfFOV())
	w.uniforms["Resolution"] = []float32{float32(cam.Width), float32(cam.Height)}
	w.uniforms["Glow"] = float32(glow)

	b := dst.Bounds()
	w.op.Uniforms = w.uniforms
	dst.DrawRectShader(b.Dx(), b.Dy(), w.shader, &w.op)
}

func vec3Uniform(v Vec3) []float32 {
	return []float32{float32(v.X), float32(v.Y), float32(v.Z)}
}

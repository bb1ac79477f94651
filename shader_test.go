package tide

import (
	"strings"
	"testing"
)

func TestWaterShaderSourceSizes(t *testing.T) {
	src := string(WaterShaderSource(12))
	for _, want := range []string{
		"//kage:unit pixels",
		"var Ripples [48]float",
		"var Dirs [24]float",
		"for i := 0; i < 12; i++",
	} {
		if !strings.Contains(src, want) {
			t.Errorf("source missing %q", want)
		}
	}
}

func TestWaterShaderSourceMatchesUniforms(t *testing.T) {
	f := NewRippleField(DefaultRippleConfig())
	src := string(WaterShaderSource(f.Capacity()))
	for name := range f.Uniforms() {
		if !strings.Contains(src, "var "+name+" ") {
			t.Errorf("uniform %s is not declared by the shader", name)
		}
	}
}

func TestWaterShaderSourceMinimumCapacity(t *testing.T) {
	src := string(WaterShaderSource(0))
	if !strings.Contains(src, "var Ripples [4]float") {
		t.Error("capacity below 1 should build a one-slot shader")
	}
}

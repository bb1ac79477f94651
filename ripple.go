package tide

import (
	"iter"
	"math"
)

// Sentinel written into unused uniform slots. An age this far past any lifetime
// makes the shader's decay math contribute nothing.
const rippleSentinelAge = 9999

// Movement below this squared length has no usable direction.
const minDirLenSq = 1e-6

// RippleConfig controls ripple spawning, lifetime, and the shaping constants
// handed to the water shader alongside the packed slots.
type RippleConfig struct {
	// Capacity is the number of uniform slots. Fixed once the field is built.
	Capacity int `yaml:"capacity"`
	// SpawnInterval is the minimum time between spawns in seconds.
	SpawnInterval float64 `yaml:"spawnInterval"`
	// MinSpawnDistance is the pointer travel in world units required to spawn.
	MinSpawnDistance float64 `yaml:"minSpawnDistance"`
	// NudgeDistance is the travel above which the reference point is smoothed
	// toward the pointer without spawning.
	NudgeDistance float64 `yaml:"nudgeDistance"`
	// NudgeFactor is the smoothing factor for that nudge.
	NudgeFactor float64 `yaml:"nudgeFactor"`
	// MaxLife is the ripple lifetime in seconds.
	MaxLife float64 `yaml:"maxLife"`
	// MinIntensity evicts ripples that have faded below it.
	MinIntensity float64 `yaml:"minIntensity"`

	// Shaping constants. They do not affect the simulation, only what a
	// renderer (or HeightAt) derives from the slots.
	Speed         float64 `yaml:"speed"`
	RingFreq      float64 `yaml:"ringFreq"`
	RingThickness float64 `yaml:"ringThickness"`
	TrailDecay    float64 `yaml:"trailDecay"`
	DistFalloff   float64 `yaml:"distFalloff"`
	Displace      float64 `yaml:"displace"`
	BloomBoost    float64 `yaml:"bloomBoost"`
}

// DefaultRippleConfig returns the reference tuning.
func DefaultRippleConfig() RippleConfig {
	return RippleConfig{
		Capacity:         12,
		SpawnInterval:    0.035,
		MinSpawnDistance: 1.2,
		NudgeDistance:    0.25,
		NudgeFactor:      0.35,
		MaxLife:          1.25,
		MinIntensity:     0.02,
		Speed:            10.5,
		RingFreq:         0.65,
		RingThickness:    0.10,
		TrailDecay:       0.22,
		DistFalloff:      0.012,
		Displace:         0.18,
		BloomBoost:       2.2,
	}
}

func (c *RippleConfig) normalize() {
	if c.Capacity < 1 {
		c.Capacity = 1
	}
	if c.MaxLife <= 0 {
		c.MaxLife = DefaultRippleConfig().MaxLife
	}
	if c.SpawnInterval < 0 {
		c.SpawnInterval = 0
	}
	if c.MinSpawnDistance < 0 {
		c.MinSpawnDistance = 0
	}
	c.NudgeFactor = clamp(c.NudgeFactor, 0, 1)
}

// Ripple is a transient disturbance on the water surface.
type Ripple struct {
	// Center is the spawn point on the water plane (X = world x, Y = world z).
	Center Vec2
	// Age is the time since spawn in seconds.
	Age float64
	// Intensity is the decaying strength in [0, 1].
	Intensity float64
	// Dir is the unit pointer direction at spawn, used for asymmetric shaping.
	Dir Vec2
}

// RippleField owns a bounded set of ripples and packs them into fixed-size
// uniform arrays once per tick.
type RippleField struct {
	config    RippleConfig
	ripples   []Ripple // arrival order, oldest first
	lastSpawn float64

	slots []float32 // 4 per ripple: centerX, centerZ, age, intensity
	dirs  []float32 // 2 per ripple: dirX, dirZ
}

// NewRippleField creates a field with cfg.Capacity uniform slots, all holding
// the inactive sentinel.
func NewRippleField(cfg RippleConfig) *RippleField {
	cfg.normalize()
	f := &RippleField{
		config:    cfg,
		ripples:   make([]Ripple, 0, cfg.Capacity),
		lastSpawn: math.Inf(-1),
		slots:     make([]float32, 4*cfg.Capacity),
		dirs:      make([]float32, 2*cfg.Capacity),
	}
	f.pack()
	return f
}

// Config returns a copy of the field's configuration.
func (f *RippleField) Config() RippleConfig {
	return f.config
}

// SetConfig replaces the tuning. Capacity cannot change after construction and
// is kept as is.
func (f *RippleField) SetConfig(cfg RippleConfig) {
	cfg.Capacity = f.config.Capacity
	cfg.normalize()
	f.config = cfg
}

// Capacity returns the fixed slot count.
func (f *RippleField) Capacity() int {
	return f.config.Capacity
}

// Len returns the number of live ripples.
func (f *RippleField) Len() int {
	return len(f.ripples)
}

// All iterates over the live ripples in arrival order. The values are copies.
func (f *RippleField) All() iter.Seq[Ripple] {
	return func(yield func(Ripple) bool) {
		for _, r := range f.ripples {
			if !yield(r) {
				return
			}
		}
	}
}

// ConsiderSpawn decides whether pointer movement from prev (the last accepted
// reference point) to pointer at time now produces a ripple. It returns whether
// a ripple spawned and the reference point to pass as prev on the next call.
func (f *RippleField) ConsiderSpawn(pointer, prev Vec2, now float64) (bool, Vec2) {
	delta := pointer.Sub(prev)
	if delta.LenSq() < minDirLenSq {
		return false, prev
	}
	dist := delta.Len()
	dir := delta.Scale(1 / dist)

	if dist >= f.config.MinSpawnDistance && now-f.lastSpawn >= f.config.SpawnInterval {
		f.Spawn(pointer, dir)
		f.lastSpawn = now
		return true, pointer
	}
	if dist > f.config.NudgeDistance {
		return false, prev.Lerp(pointer, f.config.NudgeFactor)
	}
	return false, prev
}

// Spawn inserts a fresh ripple at center. At capacity the oldest ripple is
// evicted first.
func (f *RippleField) Spawn(center, dir Vec2) {
	if len(f.ripples) >= f.config.Capacity {
		copy(f.ripples, f.ripples[1:])
		f.ripples = f.ripples[:len(f.ripples)-1]
	}
	f.ripples = append(f.ripples, Ripple{
		Center:    center,
		Intensity: 1,
		Dir:       dir,
	})
	f.pack()
}

// Tick ages every ripple by dt, recomputes intensity as a quadratic ease-out of
// the remaining life, evicts expired ripples, and repacks the slots.
func (f *RippleField) Tick(dt float64) {
	maxLife := f.config.MaxLife
	n := 0
	for _, r := range f.ripples {
		r.Age += dt
		fade := 1 - math.Min(1, r.Age/maxLife)
		r.Intensity = fade * fade
		if r.Age > maxLife || r.Intensity < f.config.MinIntensity {
			continue
		}
		f.ripples[n] = r
		n++
	}
	clear(f.ripples[n:])
	f.ripples = f.ripples[:n]
	f.pack()
}

// Clear drops every ripple and resets the spawn throttle.
func (f *RippleField) Clear() {
	f.ripples = f.ripples[:0]
	f.lastSpawn = math.Inf(-1)
	f.pack()
}

// pack writes live ripples into slots 0..len-1 and the sentinel everywhere else.
func (f *RippleField) pack() {
	for i := 0; i < f.config.Capacity; i++ {
		s := f.slots[i*4 : i*4+4]
		d := f.dirs[i*2 : i*2+2]
		if i < len(f.ripples) {
			r := &f.ripples[i]
			s[0] = float32(r.Center.X)
			s[1] = float32(r.Center.Y)
			s[2] = float32(r.Age)
			s[3] = float32(r.Intensity)
			d[0] = float32(r.Dir.X)
			d[1] = float32(r.Dir.Y)
			continue
		}
		s[0], s[1], s[2], s[3] = 0, 0, rippleSentinelAge, 0
		d[0], d[1] = 0, 0
	}
}

// Slot returns the packed values of slot i.
func (f *RippleField) Slot(i int) (x, z, age, intensity float32) {
	s := f.slots[i*4 : i*4+4]
	return s[0], s[1], s[2], s[3]
}

// SlotDir returns the packed direction of slot i.
func (f *RippleField) SlotDir(i int) (dx, dz float32) {
	d := f.dirs[i*2 : i*2+2]
	return d[0], d[1]
}

// Uniforms returns the shader uniform map: the packed Ripples and Dirs arrays
// plus the shaping constants. The slices alias the field's buffers and are
// rewritten on the next Tick or Spawn.
func (f *RippleField) Uniforms() map[string]any {
	c := &f.config
	return map[string]any{
		"Ripples":    f.slots,
		"Dirs":       f.dirs,
		"Speed":      float32(c.Speed),
		"Freq":       float32(c.RingFreq),
		"Thickness":  float32(c.RingThickness),
		"Trail":      float32(c.TrailDecay),
		"Falloff":    float32(c.DistFalloff),
		"Displace":   float32(c.Displace),
		"BloomBoost": float32(c.BloomBoost),
	}
}

package tide

import "math"

// BubbleConfig holds the per-bubble values rolled once at creation. It is
// stored by value and never recomputed; re-rolling mid-flight makes bubbles
// visibly jump.
type BubbleConfig struct {
	Radius     float64
	Speed      float64 // base rise speed, world units per second
	Drift      Vec2    // horizontal drift per second (X = x, Y = z)
	StartDelay float64 // seconds before the bubble starts to move
	Phase      float64 // bob phase offset in radians
}

// BubbleMotion carries the shared kinematic constants for every bubble of a
// spawner.
type BubbleMotion struct {
	FloorY    float64 `yaml:"floorY"`
	CeilingY  float64 `yaml:"ceilingY"`
	BobAmount float64 `yaml:"bobAmount"`

	// VelocityDamping and BoostDamping are the exponential decay rates of the
	// hover impulse and the rise boost.
	VelocityDamping float64 `yaml:"velocityDamping"`
	BoostDamping    float64 `yaml:"boostDamping"`

	RepelImpulse float64 `yaml:"repelImpulse"`
	RepelLift    float64 `yaml:"repelLift"`
	BoostStep    float64 `yaml:"boostStep"`
	BoostMax     float64 `yaml:"boostMax"`
}

// DefaultBubbleMotion returns the reference tuning.
func DefaultBubbleMotion() BubbleMotion {
	return BubbleMotion{
		FloorY:          0,
		CeilingY:        80,
		BobAmount:       0.004,
		VelocityDamping: 4.5,
		BoostDamping:    3.0,
		RepelImpulse:    2.8,
		RepelLift:       0.8,
		BoostStep:       0.35,
		BoostMax:        1.2,
	}
}

// Bubble is a traveling particle that rises from the floor plane to the ceiling.
type Bubble struct {
	id  uint64
	cfg BubbleConfig

	// Pos is the current world position.
	Pos Vec3

	vel       Vec3
	riseBoost float64
	age       float64
	bob       Vec2 // bob offset currently applied to Pos

	progress float64
	tracked  bool // progress has been recorded at least once
}

// newBubble places a bubble on the floor plane at (x, z).
func newBubble(id uint64, x, z, floorY float64, cfg BubbleConfig) *Bubble {
	return &Bubble{
		id:  id,
		cfg: cfg,
		Pos: Vec3{X: x, Y: floorY, Z: z},
	}
}

// ID returns the bubble's identifier, unique within its spawner.
func (b *Bubble) ID() uint64 { return b.id }

// Config returns the bubble's creation-time configuration.
func (b *Bubble) Config() BubbleConfig { return b.cfg }

// Velocity returns the current hover impulse velocity.
func (b *Bubble) Velocity() Vec3 { return b.vel }

// RiseBoost returns the current extra rise multiplier.
func (b *Bubble) RiseBoost() float64 { return b.riseBoost }

// Age returns the time since the bubble was created.
func (b *Bubble) Age() float64 { return b.age }

// Progress returns the height fraction between floor and ceiling, and whether
// it has been recorded yet. A bubble that has not been advanced has no progress.
func (b *Bubble) Progress() (float64, bool) { return b.progress, b.tracked }

// Advance integrates the bubble by dt at global time t. It reports true once the
// bubble reaches the ceiling and should be removed.
func (b *Bubble) Advance(dt, t float64, m *BubbleMotion) bool {
	b.age += dt
	if b.age < b.cfg.StartDelay {
		b.progress = 0
		b.tracked = true
		return false
	}

	b.Pos.Y += b.cfg.Speed * (1 + b.riseBoost) * dt
	b.Pos.X += b.cfg.Drift.X * dt
	b.Pos.Z += b.cfg.Drift.Y * dt

	b.Pos = b.Pos.Add(b.vel.Scale(dt))
	b.vel = b.vel.Scale(math.Exp(-dt * m.VelocityDamping))
	b.riseBoost *= math.Exp(-dt * m.BoostDamping)

	if m.BobAmount > 0 {
		bob := Vec2{
			X: math.Sin(t*1.2+b.cfg.Phase) * m.BobAmount,
			Y: math.Cos(t*1.1+b.cfg.Phase) * m.BobAmount,
		}
		b.Pos.X += bob.X - b.bob.X
		b.Pos.Z += bob.Y - b.bob.Y
		b.bob = bob
	}

	span := m.CeilingY - m.FloorY
	if span > 0 {
		b.progress = clamp01((b.Pos.Y - m.FloorY) / span)
	} else {
		b.progress = 1
	}
	b.tracked = true

	return b.Pos.Y >= m.CeilingY
}

// HoverRepel pushes the bubble away from a pointer hit in the XZ plane, adds a
// small upward kick, and raises the rise boost. Both decay through Advance, so
// the bubble swerves rather than jumps.
func (b *Bubble) HoverRepel(hit Vec3, m *BubbleMotion) {
	away := b.Pos.Sub(hit)
	away.Y = 0
	if l := away.Len(); l > 1e-4 {
		away = away.Scale(1 / l)
	} else {
		away = Vec3{}
	}

	b.vel = b.vel.Add(away.Scale(m.RepelImpulse))
	b.vel.Y += m.RepelLift
	b.riseBoost = math.Min(m.BoostMax, b.riseBoost+m.BoostStep)
}

// Contains reports whether p lies inside the bubble's sphere.
func (b *Bubble) Contains(p Vec3) bool {
	d := p.Sub(b.Pos)
	return d.X*d.X+d.Y*d.Y+d.Z*d.Z <= b.cfg.Radius*b.cfg.Radius
}

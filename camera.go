package tide

import "math"

// FollowConfig tunes the pointer-follow camera.
type FollowConfig struct {
	// Intensity scales how far the pointer pushes the camera off its target.
	Intensity float64 `yaml:"intensity"`
	// Smoothness is the per-frame lerp factor toward the pointer offset.
	Smoothness float64 `yaml:"smoothness"`
	// FloorY is the lowest height the camera may reach.
	FloorY float64 `yaml:"floorY"`
	// FOV is the vertical field of view in degrees.
	FOV float64 `yaml:"fov"`
	// Near is the near clip distance used by Project.
	Near float64 `yaml:"near"`
}

// DefaultFollowConfig returns the reference tuning.
func DefaultFollowConfig() FollowConfig {
	return FollowConfig{
		Intensity:  0.04,
		Smoothness: 0.1,
		FloorY:     0.55,
		FOV:        45,
		Near:       1,
	}
}

func (c *FollowConfig) normalize() {
	c.Smoothness = clamp(c.Smoothness, 0, 1)
	if c.FOV <= 0 || c.FOV >= 180 {
		c.FOV = 45
	}
	if c.Near <= 0 {
		c.Near = 1
	}
}

var worldUp = Vec3{Y: 1}

// FollowCamera is the rendering camera. Each frame it takes the sequencer's
// CameraTarget and layers a smoothed pointer-driven offset and roll on top,
// never dropping below FloorY.
type FollowCamera struct {
	// Position is the final camera position.
	Position Vec3
	// Roll is the extra rotation about the view axis in radians.
	Roll float64
	// Width and Height are the viewport size in pixels.
	Width, Height float64

	config  FollowConfig
	pointer Vec2 // normalized device coordinates, +Y up
	offset  Vec3

	right, up, forward Vec3
}

// NewFollowCamera creates a camera for a width×height viewport.
func NewFollowCamera(cfg FollowConfig, width, height float64) *FollowCamera {
	cfg.normalize()
	return &FollowCamera{
		config:  cfg,
		Width:   width,
		Height:  height,
		right:   Vec3{X: 1},
		up:      worldUp,
		forward: Vec3{Z: -1},
	}
}

// Config returns a copy of the camera configuration.
func (c *FollowCamera) Config() FollowConfig { return c.config }

// SetConfig replaces the camera tuning.
func (c *FollowCamera) SetConfig(cfg FollowConfig) {
	cfg.normalize()
	c.config = cfg
}

// SetPointer records the pointer in normalized device coordinates, each axis
// in [-1, 1] with +Y up.
func (c *FollowCamera) SetPointer(nx, ny float64) {
	c.pointer = Vec2{X: clamp(nx, -1, 1), Y: clamp(ny, -1, 1)}
}

// Offset returns the current smoothed pointer offset.
func (c *FollowCamera) Offset() Vec3 { return c.offset }

// Update eases the pointer offset, positions the camera relative to target and
// rebuilds the view basis. With useLookAt the camera aims at target.LookAt,
// otherwise it takes target.Rotation as Euler angles.
func (c *FollowCamera) Update(target CameraTarget, useLookAt bool) {
	k := c.config.Intensity
	want := Vec3{
		X: c.pointer.X * k * 50,
		Y: c.pointer.Y * k * 30,
		Z: c.pointer.X * k * 20,
	}
	c.offset = c.offset.Add(want.Sub(c.offset).Scale(c.config.Smoothness))

	c.Position = target.Position.Add(c.offset)
	c.Position.Y = math.Max(c.Position.Y, c.config.FloorY)
	c.Roll = c.pointer.X * k * 0.1

	if useLookAt {
		c.aim(target.LookAt)
	} else {
		c.orient(target.Rotation)
	}
}

// aim points the camera at p, then applies the roll.
func (c *FollowCamera) aim(p Vec3) {
	f := p.Sub(c.Position).Normalize()
	if f.Len() == 0 {
		f = Vec3{Z: -1}
	}
	r := f.Cross(worldUp).Normalize()
	if r.Len() == 0 {
		r = Vec3{X: 1}
	}
	u := r.Cross(f)

	sin, cos := math.Sincos(c.Roll)
	c.forward = f
	c.right = r.Scale(cos).Add(u.Scale(sin))
	c.up = u.Scale(cos).Sub(r.Scale(sin))
}

// orient applies XYZ Euler angles (plus roll on Z) to the default basis, which
// looks down -Z.
func (c *FollowCamera) orient(e Vec3) {
	e.Z += c.Roll
	c.right = rotateXYZ(Vec3{X: 1}, e)
	c.up = rotateXYZ(worldUp, e)
	c.forward = rotateXYZ(Vec3{Z: -1}, e)
}

func rotateXYZ(v, e Vec3) Vec3 {
	s, co := math.Sincos(e.Z)
	v = Vec3{v.X*co - v.Y*s, v.X*s + v.Y*co, v.Z}
	s, co = math.Sincos(e.Y)
	v = Vec3{v.X*co + v.Z*s, v.Y, -v.X*s + v.Z*co}
	s, co = math.Sincos(e.X)
	return Vec3{v.X, v.Y*co - v.Z*s, v.Y*s + v.Z*co}
}

// Forward returns the unit view direction.
func (c *FollowCamera) Forward() Vec3 { return c.forward }

func (c *FollowCamera) aspect() float64 {
	if c.Height <= 0 {
		return 1
	}
	return c.Width / c.Height
}

func (c *FollowCamera) tanHalfFOV() float64 {
	return math.Tan(degToRad(c.config.FOV) / 2)
}

// Project maps a world point to screen pixels. ok is false when the point is
// closer than the near plane or behind the camera. depth is the distance along
// the view axis.
func (c *FollowCamera) Project(p Vec3) (sx, sy, depth float64, ok bool) {
	d := p.Sub(c.Position)
	depth = d.Dot(c.forward)
	if depth < c.config.Near {
		return 0, 0, depth, false
	}
	t := c.tanHalfFOV()
	nx := d.Dot(c.right) / (depth * t * c.aspect())
	ny := d.Dot(c.up) / (depth * t)
	sx = (nx + 1) / 2 * c.Width
	sy = (1 - ny) / 2 * c.Height
	return sx, sy, depth, true
}

// ProjectRadius returns the on-screen radius in pixels of a sphere of radius r
// seen at depth.
func (c *FollowCamera) ProjectRadius(r, depth float64) float64 {
	if depth <= 0 {
		return 0
	}
	return r / (depth * c.tanHalfFOV()) * c.Height / 2
}

// HasViewport reports whether Width and Height describe a drawable screen.
func (c *FollowCamera) HasViewport() bool { return c.Width > 0 && c.Height > 0 }

// Ray returns the unit direction of the view ray through screen pixel (sx, sy).
// The ray starts at Position. Without a viewport every pixel maps to the
// forward axis.
func (c *FollowCamera) Ray(sx, sy float64) Vec3 {
	if !c.HasViewport() {
		return c.forward
	}
	t := c.tanHalfFOV()
	nx := 2*sx/c.Width - 1
	ny := 1 - 2*sy/c.Height
	return c.forward.
		Add(c.right.Scale(nx * t * c.aspect())).
		Add(c.up.Scale(ny * t)).
		Normalize()
}

// ScreenToWater intersects the view ray through (sx, sy) with the water plane
// y = 0. The result is in water-plane coordinates (X = world x, Y = world z).
func (c *FollowCamera) ScreenToWater(sx, sy float64) (Vec2, bool) {
	if !c.HasViewport() {
		return Vec2{}, false
	}
	dir := c.Ray(sx, sy)
	if dir.Y >= -1e-9 {
		return Vec2{}, false
	}
	t := -c.Position.Y / dir.Y
	hit := c.Position.Add(dir.Scale(t))
	return Vec2{X: hit.X, Y: hit.Z}, true
}

// raySphere returns the distance along a unit ray to its first hit with the
// sphere, if any.
func raySphere(origin, dir, center Vec3, radius float64) (float64, bool) {
	oc := origin.Sub(center)
	b := oc.Dot(dir)
	c := oc.Dot(oc) - radius*radius
	disc := b*b - c
	if disc < 0 {
		return 0, false
	}
	sq := math.Sqrt(disc)
	t := -b - sq
	if t < 0 {
		t = -b + sq
	}
	if t < 0 {
		return 0, false
	}
	return t, true
}

// PickBubble returns the nearest bubble under screen pixel (sx, sy) and the
// world point where the view ray enters it.
func (c *FollowCamera) PickBubble(sp *WaveSpawner, sx, sy float64) (*Bubble, Vec3, bool) {
	if !c.HasViewport() {
		return nil, Vec3{}, false
	}
	dir := c.Ray(sx, sy)
	var best *Bubble
	bestT := math.Inf(1)
	for b := range sp.All() {
		if t, ok := raySphere(c.Position, dir, b.Pos, b.Config().Radius); ok && t < bestT {
			best, bestT = b, t
		}
	}
	if best == nil {
		return nil, Vec3{}, false
	}
	return best, c.Position.Add(dir.Scale(bestT)), true
}

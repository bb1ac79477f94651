package tide

// Material is the opacity channel of the hero bubble's material.
type Material struct {
	Opacity     float64
	Transparent bool
}

// Transform is a position and an Euler rotation in radians.
type Transform struct {
	Position Vec3
	Rotation Vec3
}

// Bloom is the post-processing glow the explore transition ramps.
type Bloom struct {
	Levels    float64
	Intensity float64
}

// CameraTarget is the composition the sequencer steers the camera toward. A
// follow camera reads it each frame and layers its own offsets on top.
type CameraTarget struct {
	Position Vec3 `yaml:"position"`
	Rotation Vec3 `yaml:"rotation"`
	LookAt   Vec3 `yaml:"lookAt"`
}

// Handles are the externally owned objects the sequencer animates. Any of them
// may be nil; tracks on a missing handle are skipped.
type Handles struct {
	Material  *Material
	Primary   *Transform
	Companion *Transform
	Bloom     *Bloom
}

// snapshot records handle values so a later transition can return to them.
// Entries for handles that were missing at capture time are left unset.
type snapshot struct {
	material    Material
	hasMaterial bool

	primary    Transform
	hasPrimary bool

	companion    Vec3
	hasCompanion bool

	camera CameraTarget
}

func captureSnapshot(h Handles, cam CameraTarget) *snapshot {
	s := &snapshot{camera: cam}
	if h.Material != nil {
		s.material = *h.Material
		s.hasMaterial = true
	}
	if h.Primary != nil {
		s.primary = *h.Primary
		s.hasPrimary = true
	}
	if h.Companion != nil {
		s.companion = h.Companion.Position
		s.hasCompanion = true
	}
	return s
}

// fill records handles that were mounted after the snapshot was taken.
func (s *snapshot) fill(h Handles) {
	if !s.hasMaterial && h.Material != nil {
		s.material = *h.Material
		s.hasMaterial = true
	}
	if !s.hasPrimary && h.Primary != nil {
		s.primary = *h.Primary
		s.hasPrimary = true
	}
	if !s.hasCompanion && h.Companion != nil {
		s.companion = h.Companion.Position
		s.hasCompanion = true
	}
}

// unwindAngles reduces each component of v so it lies within half a turn of
// the matching component of target. Tweening from the result never winds
// through extra full turns.
func unwindAngles(v *Vec3, target Vec3) {
	v.X = target.X + normalizeAngle(v.X-target.X)
	v.Y = target.Y + normalizeAngle(v.Y-target.Y)
	v.Z = target.Z + normalizeAngle(v.Z-target.Z)
}

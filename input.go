package tide

import "math"

// --- Constants ---

const (
	defaultWheelThreshold = 2.0 // wheel units
	defaultTouchDeadZone  = 8.0 // pixels
)

// --- Gestures ---

// Gesture is the direction a scroll-like input asks the sequencer to go.
type Gesture uint8

const (
	GestureNone Gesture = iota
	GestureForward
	GestureReverse
)

func (g Gesture) String() string {
	switch g {
	case GestureForward:
		return "forward"
	case GestureReverse:
		return "reverse"
	}
	return "none"
}

// GestureConfig tunes GestureMapper.
type GestureConfig struct {
	// WheelThreshold is the smallest wheel delta that counts as a gesture.
	WheelThreshold float64 `yaml:"wheelThreshold"`
	// TouchDeadZone is the vertical finger travel in pixels needed before a
	// touch counts as a gesture.
	TouchDeadZone float64 `yaml:"touchDeadZone"`
}

// DefaultGestureConfig returns the reference thresholds.
func DefaultGestureConfig() GestureConfig {
	return GestureConfig{
		WheelThreshold: defaultWheelThreshold,
		TouchDeadZone:  defaultTouchDeadZone,
	}
}

func (c *GestureConfig) normalize() {
	c.WheelThreshold = math.Max(0, c.WheelThreshold)
	c.TouchDeadZone = math.Max(0, c.TouchDeadZone)
}

// GestureMapper turns raw wheel and touch input into Gestures. Positive wheel
// deltas (scrolling down) and upward finger motion map to GestureForward.
type GestureMapper struct {
	config     GestureConfig
	touchStart float64
	touching   bool
}

// NewGestureMapper creates a mapper with cfg.
func NewGestureMapper(cfg GestureConfig) *GestureMapper {
	cfg.normalize()
	return &GestureMapper{config: cfg}
}

// Config returns a copy of the mapper's thresholds.
func (m *GestureMapper) Config() GestureConfig { return m.config }

// SetConfig replaces the thresholds.
func (m *GestureMapper) SetConfig(cfg GestureConfig) {
	cfg.normalize()
	m.config = cfg
}

// Wheel maps a vertical wheel delta. Deltas below the threshold are noise.
func (m *GestureMapper) Wheel(dy float64) Gesture {
	if math.Abs(dy) < m.config.WheelThreshold {
		return GestureNone
	}
	if dy > 0 {
		return GestureForward
	}
	return GestureReverse
}

// TouchStart records where a touch began, in screen pixels.
func (m *GestureMapper) TouchStart(y float64) {
	m.touchStart = y
	m.touching = true
}

// TouchMove maps the finger's travel since TouchStart. Travel inside the dead
// zone, or a move with no touch started, maps to GestureNone.
func (m *GestureMapper) TouchMove(y float64) Gesture {
	if !m.touching {
		return GestureNone
	}
	dy := y - m.touchStart
	if math.Abs(dy) < m.config.TouchDeadZone {
		return GestureNone
	}
	if dy < 0 {
		return GestureForward
	}
	return GestureReverse
}

// TouchEnd forgets the current touch.
func (m *GestureMapper) TouchEnd() {
	m.touching = false
}

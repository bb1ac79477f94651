package tide

import (
	"math"

	"github.com/tanema/gween/ease"
)

// Easing names an easing curve in tuning files.
type Easing string

const (
	EaseLinear     Easing = "linear"
	EaseInOutQuad  Easing = "inOutQuad"
	EaseOutCubic   Easing = "outCubic"
	EaseInOutCubic Easing = "inOutCubic"
	EaseInOutSine  Easing = "inOutSine"
)

var easings = map[Easing]ease.TweenFunc{
	EaseLinear:     ease.Linear,
	"none":         ease.Linear,
	"inQuad":       ease.InQuad,
	"outQuad":      ease.OutQuad,
	EaseInOutQuad:  ease.InOutQuad,
	"inCubic":      ease.InCubic,
	EaseOutCubic:   ease.OutCubic,
	EaseInOutCubic: ease.InOutCubic,
	"inSine":       ease.InSine,
	"outSine":      ease.OutSine,
	EaseInOutSine:  ease.InOutSine,
	"outExpo":      ease.OutExpo,
	"outBack":      ease.OutBack,
}

// Func returns the curve for e. Unknown names fall back to linear.
func (e Easing) Func() ease.TweenFunc {
	if fn, ok := easings[e]; ok {
		return fn
	}
	return ease.Linear
}

// Keyframe is one absolute stop on a camera path.
type Keyframe struct {
	To       Vec3    `yaml:"to"`
	Duration float64 `yaml:"duration"`
	Ease     Easing  `yaml:"ease"`
}

func keysOf(kfs []Keyframe) []Key {
	keys := make([]Key, len(kfs))
	for i, kf := range kfs {
		keys[i] = Key3(kf.To, kf.Duration, kf.Ease.Func())
	}
	return keys
}

// Profile is the device-class dependent part of the forward choreography.
type Profile struct {
	// PrimaryX is where the primary object slides on x: right of center on
	// desktop to leave room for content, slightly left on narrow screens.
	PrimaryX float64    `yaml:"primaryX"`
	Camera   []Keyframe `yaml:"camera"`
	LookAt   []Keyframe `yaml:"lookAt"`
}

// ExploreConfig holds the targets of the explore transition.
type ExploreConfig struct {
	PrimaryY       float64 `yaml:"primaryY"`
	BloomLevels    float64 `yaml:"bloomLevels"`
	BloomIntensity float64 `yaml:"bloomIntensity"`
}

// SequencerConfig tunes the cinematic sequencer. Durations are in seconds and
// angles in radians.
type SequencerConfig struct {
	// NarrowMaxWidth is the widest viewport, in pixels, that uses the Narrow
	// profile. A zero viewport width always selects Desktop.
	NarrowMaxWidth float64 `yaml:"narrowMaxWidth"`
	Desktop        Profile `yaml:"desktop"`
	Narrow         Profile `yaml:"narrow"`

	// AimWithRotation drives the camera's base rotation instead of its look-at
	// point, using AimRotation.
	AimWithRotation bool       `yaml:"aimWithRotation"`
	AimRotation     []Keyframe `yaml:"aimRotation"`

	CameraFloor float64 `yaml:"cameraFloor"`
	SpinDelay   float64 `yaml:"spinDelay"`
	SpinPeriod  float64 `yaml:"spinPeriod"`
	SwayAngle   float64 `yaml:"swayAngle"`
	SwayPeriod  float64 `yaml:"swayPeriod"`
	RevealAt    float64 `yaml:"revealAt"`

	InitialCamera CameraTarget  `yaml:"initialCamera"`
	Explore       ExploreConfig `yaml:"explore"`
}

// Fixed parts of the forward choreography.
const (
	fadeDuration      = 1.15
	tiltAt            = 1.2
	tiltDuration      = 0.9
	slideAt           = 2.4
	slideXDuration    = 0.85 / 1.4
	riseDuration      = 1.5 / 1.4
	primaryRiseY      = 31.0
	companionAt       = 2.2
	companionDuration = 0.99 / 1.4
	companionY        = -3.0
	cameraAt          = 1.15
	aimAt             = 1.35
)

var tiltAngle = degToRad(12)

// Fixed parts of the reverse choreography.
const (
	restoreFadeDuration     = 0.85
	restoreTransparentAt    = 0.86
	restoreBodyDuration     = 1.05
	restoreRotationDuration = 1.0
	restoreCameraDuration   = 1.2
)

// Explore and return timings.
const (
	recenterDuration     = 1.2
	faceFrontDuration    = 1.1
	bloomLevelsDuration  = 1.2
	bloomRampDuration    = 1.4
	returnCameraDuration = 1.0
	returnBodyDuration   = 0.9
)

// DefaultSequencerConfig returns the reference choreography.
func DefaultSequencerConfig() SequencerConfig {
	const leg = 1.4
	cameraPath := func(x1, x2, x3 float64) []Keyframe {
		return []Keyframe{
			{To: Vec3{X: 0, Y: 4.8, Z: 132}, Duration: 0.45 / leg, Ease: EaseLinear},
			{To: Vec3{X: x1, Y: 4.4, Z: 110}, Duration: 0.55 / leg, Ease: EaseLinear},
			{To: Vec3{X: x2, Y: 4.0, Z: 92}, Duration: 0.55 / leg, Ease: EaseLinear},
			{To: Vec3{X: x3, Y: 3.6, Z: 78}, Duration: 0.50 / leg, Ease: EaseLinear},
		}
	}
	aimPath := func(x1, x2, x3 float64) []Keyframe {
		return []Keyframe{
			{To: Vec3{X: x1, Y: 15.8, Z: 48}, Duration: 0.8, Ease: EaseLinear},
			{To: Vec3{X: x2, Y: 16.3, Z: 50}, Duration: 0.9, Ease: EaseLinear},
			{To: Vec3{X: x3, Y: 16.8, Z: 52}, Duration: 0.75, Ease: EaseInOutQuad},
		}
	}

	return SequencerConfig{
		NarrowMaxWidth: 768,
		Desktop: Profile{
			PrimaryX: 2.0,
			Camera:   cameraPath(2.5, 6.0, 9.0),
			LookAt:   aimPath(3.5, 7.5, 10.0),
		},
		Narrow: Profile{
			PrimaryX: -1.2,
			Camera:   cameraPath(0, 0, 0),
			LookAt:   aimPath(-1.2, -0.6, 0),
		},
		AimRotation: []Keyframe{
			{To: Vec3{}, Duration: 0.6, Ease: EaseLinear},
			{To: Vec3{X: degToRad(-6), Y: degToRad(1.2)}, Duration: 0.9, Ease: EaseLinear},
			{To: Vec3{X: degToRad(-12), Y: degToRad(2.4)}, Duration: 0.9, Ease: EaseInOutQuad},
		},
		CameraFloor: 0.9,
		SpinDelay:   1.55,
		SpinPeriod:  6,
		SwayAngle:   degToRad(8),
		SwayPeriod:  1.6,
		RevealAt:    3.1,
		InitialCamera: CameraTarget{
			Position: Vec3{X: 0, Y: 5, Z: 150},
			LookAt:   Vec3{X: 0, Y: 18, Z: 50},
		},
		Explore: ExploreConfig{
			PrimaryY:       28,
			BloomLevels:    10,
			BloomIntensity: 100,
		},
	}
}

func (c *SequencerConfig) normalize() {
	if c.NarrowMaxWidth < 0 {
		c.NarrowMaxWidth = 0
	}
	if c.SpinPeriod <= 0 {
		c.SpinPeriod = 6
	}
	if c.SwayPeriod <= 0 {
		c.SwayPeriod = 1.6
	}
	c.SpinDelay = math.Max(0, c.SpinDelay)
	c.RevealAt = math.Max(0, c.RevealAt)
}

// profile selects the keyframe table for a viewport width.
func (c *SequencerConfig) profile(width float64) *Profile {
	if width > 0 && width <= c.NarrowMaxWidth {
		return &c.Narrow
	}
	return &c.Desktop
}

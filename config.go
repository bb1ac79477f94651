package tide

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Tuning aggregates the configuration of every component. It is what tuning
// files describe; keys a file omits keep their default value.
//
// Example file:
//
//	ripple:
//	  capacity: 12
//	  maxLife: 1.25
//	spawner:
//	  count: 100
//	  spawnCenter: {x: 0, y: 120}
//	sequencer:
//	  narrowMaxWidth: 768
type Tuning struct {
	Ripple    RippleConfig    `yaml:"ripple"`
	Spawner   SpawnerConfig   `yaml:"spawner"`
	Sequencer SequencerConfig `yaml:"sequencer"`
	Follow    FollowConfig    `yaml:"follow"`
	Gesture   GestureConfig   `yaml:"gesture"`
	SFX       SFXConfig       `yaml:"sfx"`
}

// DefaultTuning returns the reference configuration for every component.
func DefaultTuning() Tuning {
	return Tuning{
		Ripple:    DefaultRippleConfig(),
		Spawner:   DefaultSpawnerConfig(),
		Sequencer: DefaultSequencerConfig(),
		Follow:    DefaultFollowConfig(),
		Gesture:   DefaultGestureConfig(),
		SFX:       DefaultSFXConfig(),
	}
}

// ParseTuning decodes YAML over DefaultTuning and validates the result.
func ParseTuning(data []byte) (Tuning, error) {
	t := DefaultTuning()
	if err := yaml.Unmarshal(data, &t); err != nil {
		return Tuning{}, fmt.Errorf("parse tuning: %w", err)
	}
	if err := t.Validate(); err != nil {
		return Tuning{}, fmt.Errorf("invalid tuning: %w", err)
	}
	return t, nil
}

// LoadTuning reads and parses a tuning file.
func LoadTuning(path string) (Tuning, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Tuning{}, fmt.Errorf("read tuning %s: %w", path, err)
	}
	t, err := ParseTuning(data)
	if err != nil {
		return Tuning{}, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// Validate reports authoring mistakes that normalization cannot repair:
// inverted ranges, unknown spawn axes and unknown easing names. Out-of-range
// scalars are not errors; each component clamps them when it takes the
// config.
func (t *Tuning) Validate() error {
	var errs []error
	sp := &t.Spawner
	for _, r := range []struct {
		name string
		Range
	}{
		{"spawner.pairSeparation", sp.PairSeparation},
		{"spawner.riseSpeed", sp.RiseSpeed},
		{"spawner.radius", sp.Radius},
		{"spawner.startDelay", sp.StartDelay},
	} {
		if r.Min > r.Max {
			errs = append(errs, fmt.Errorf("%s: min %g > max %g", r.name, r.Min, r.Max))
		}
	}
	if sp.Direction != AxisX && sp.Direction != AxisZ {
		errs = append(errs, fmt.Errorf("spawner.direction: unknown axis %q", sp.Direction))
	}

	sq := &t.Sequencer
	check := func(path string, kfs []Keyframe) {
		for i, kf := range kfs {
			if _, ok := easings[kf.Ease]; !ok && kf.Ease != "" {
				errs = append(errs, fmt.Errorf("%s[%d]: unknown ease %q", path, i, kf.Ease))
			}
			if kf.Duration < 0 {
				errs = append(errs, fmt.Errorf("%s[%d]: negative duration", path, i))
			}
		}
	}
	check("sequencer.desktop.camera", sq.Desktop.Camera)
	check("sequencer.desktop.lookAt", sq.Desktop.LookAt)
	check("sequencer.narrow.camera", sq.Narrow.Camera)
	check("sequencer.narrow.lookAt", sq.Narrow.LookAt)
	check("sequencer.aimRotation", sq.AimRotation)

	return errors.Join(errs...)
}

package tide

import (
	"log"
	"math"
)

// Voice is one playable instance of a sound. *audio.Player from
// github.com/hajimehoshi/ebiten/v2/audio satisfies it.
type Voice interface {
	Play()
	Rewind() error
	IsPlaying() bool
	SetVolume(volume float64)
}

// VoiceFactory creates a new voice for the pool.
type VoiceFactory func() (Voice, error)

// SFXConfig tunes the hover sound pool.
type SFXConfig struct {
	// PoolSize caps the number of voices that can overlap.
	PoolSize int `yaml:"poolSize"`
	// MinInterval is the shortest time between two plays, in seconds.
	MinInterval float64 `yaml:"minInterval"`
	// Volume is the initial playback volume in [0, 1].
	Volume float64 `yaml:"volume"`
}

// DefaultSFXConfig returns the reference tuning.
func DefaultSFXConfig() SFXConfig {
	return SFXConfig{
		PoolSize:    8,
		MinInterval: 0.12,
		Volume:      0.55,
	}
}

func (c *SFXConfig) normalize() {
	if c.PoolSize < 1 {
		c.PoolSize = 1
	}
	c.MinInterval = math.Max(0, c.MinInterval)
	c.Volume = clamp01(c.Volume)
}

// SFX plays a short sound from a small pool of voices so rapid hovers overlap
// without allocating a voice per bubble. When every voice is busy the first one
// is restarted.
type SFX struct {
	config   SFXConfig
	newVoice VoiceFactory
	pool     []Voice
	lastPlay float64
	volume   float64
	muted    bool
}

// NewSFX creates an empty pool. Voices are created on demand by factory.
func NewSFX(cfg SFXConfig, factory VoiceFactory) *SFX {
	cfg.normalize()
	return &SFX{
		config:   cfg,
		newVoice: factory,
		lastPlay: math.Inf(-1),
		volume:   cfg.Volume,
	}
}

// SetConfig replaces the tuning. Existing voices are kept even if the new pool
// is smaller. The current volume is left alone.
func (s *SFX) SetConfig(cfg SFXConfig) {
	cfg.normalize()
	s.config = cfg
}

// Volume returns the playback volume.
func (s *SFX) Volume() float64 { return s.volume }

// SetVolume sets the playback volume, clamped to [0, 1]. Non-finite values
// become 0.
func (s *SFX) SetVolume(v float64) {
	s.volume = clamp01(v)
}

// Muted reports whether playback is silenced.
func (s *SFX) Muted() bool { return s.muted }

// SetMuted silences or restores playback.
func (s *SFX) SetMuted(muted bool) {
	s.muted = muted
}

// Len returns the number of voices created so far.
func (s *SFX) Len() int { return len(s.pool) }

// Play starts the sound at time now (seconds). It reports false when muted,
// throttled, or no voice could be obtained.
func (s *SFX) Play(now float64) bool {
	if s.muted {
		return false
	}
	if now-s.lastPlay < s.config.MinInterval {
		return false
	}
	s.lastPlay = now

	v := s.voice()
	if v == nil {
		return false
	}
	v.SetVolume(s.volume)
	if err := v.Rewind(); err != nil {
		log.Printf("tide: rewind sfx voice: %v", err)
	}
	v.Play()
	return true
}

// voice returns an idle voice, a new one while the pool has room, or the
// first voice.
func (s *SFX) voice() Voice {
	for _, v := range s.pool {
		if !v.IsPlaying() {
			return v
		}
	}
	if len(s.pool) < s.config.PoolSize && s.newVoice != nil {
		v, err := s.newVoice()
		if err != nil {
			log.Printf("tide: create sfx voice: %v", err)
			return nil
		}
		s.pool = append(s.pool, v)
		return v
	}
	if len(s.pool) == 0 {
		return nil
	}
	return s.pool[0]
}

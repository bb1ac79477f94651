package tide

import (
	"iter"
	"math"
	"math/rand/v2"
	"slices"
)

// Probability that pairing stops after each emitted pair.
const pairStopChance = 0.35

// SpawnerConfig controls wave emission and the per-bubble random ranges.
type SpawnerConfig struct {
	// TotalCount is the number of bubbles released per cycle.
	TotalCount int `yaml:"count"`
	// MaxSpawnPerWave caps the size of a single wave.
	MaxSpawnPerWave int `yaml:"maxSpawnPerWave"`
	// SpawnAtProgress is the mean height fraction the newest wave must reach
	// before the next wave is admitted.
	SpawnAtProgress float64 `yaml:"spawnAtProgress"`
	// MinWaveGap is the minimum time between waves in seconds.
	MinWaveGap float64 `yaml:"minWaveGap"`
	// CycleDelay is the idle time between a drained cycle and the next one.
	CycleDelay float64 `yaml:"cycleDelay"`

	PairChance     float64 `yaml:"pairChance"`
	PairSeparation Range   `yaml:"pairSeparation"`

	SpawnCenter         Vec2    `yaml:"spawnCenter"`
	Spacing             float64 `yaml:"spacing"`
	Direction           Axis    `yaml:"direction"`
	Jitter              float64 `yaml:"jitter"`
	PerpendicularSpread float64 `yaml:"perpendicularSpread"`

	RiseSpeed  Range `yaml:"riseSpeed"`
	Radius     Range `yaml:"radius"`
	Drift      Vec2  `yaml:"drift"` // max |drift| on x and z
	StartDelay Range `yaml:"startDelay"`

	Motion BubbleMotion `yaml:"motion"`
}

// DefaultSpawnerConfig returns the reference tuning.
func DefaultSpawnerConfig() SpawnerConfig {
	return SpawnerConfig{
		TotalCount:          20,
		MaxSpawnPerWave:     6,
		SpawnAtProgress:     0.5,
		MinWaveGap:          0.35,
		CycleDelay:          0.35,
		PairChance:          0.6,
		PairSeparation:      Range{1.2, 2.8},
		SpawnCenter:         Vec2{10, 30},
		Spacing:             10,
		Direction:           AxisX,
		Jitter:              0.15,
		PerpendicularSpread: 0.35,
		RiseSpeed:           Range{0.9, 1.6},
		Radius:              Range{0.8, 2.0},
		Drift:               Vec2{0.06, 0.08},
		StartDelay:          Range{0, 0.3},
		Motion:              DefaultBubbleMotion(),
	}
}

func (c *SpawnerConfig) normalize() {
	if c.TotalCount < 0 {
		c.TotalCount = 0
	}
	if c.MaxSpawnPerWave < 1 {
		c.MaxSpawnPerWave = 1
	}
	if c.Spacing < 0 {
		c.Spacing = 0
	}
	if c.PerpendicularSpread < 0 {
		c.PerpendicularSpread = 0
	}
	if c.Jitter < 0 {
		c.Jitter = 0
	}
	if c.MinWaveGap < 0 {
		c.MinWaveGap = 0
	}
	if c.CycleDelay < 0 {
		c.CycleDelay = 0
	}
	if c.Direction != AxisZ {
		c.Direction = AxisX
	}
	c.PairChance = clamp01(c.PairChance)
}

// SpawnCycle is a snapshot of the spawner's wave-emission state.
type SpawnCycle struct {
	Running      bool
	Target       int
	Spawned      int
	Gate         []uint64
	WaveTimer    float64
	RestartTimer float64
}

// WaveSpawner releases bubbles in progressive waves. Each wave waits for the
// previous one to climb far enough before it is emitted; once a full cycle has
// been released and has drained, the spawner idles and then starts over.
type WaveSpawner struct {
	config SpawnerConfig
	rng    Source

	bubbles []*Bubble
	byID    map[uint64]*Bubble
	nextID  uint64

	running        bool
	spawned        int
	gate           []uint64
	waveTimer      float64
	restartTimer   float64
	restartPending bool

	// OnSpawn, when set, is called for every bubble as it is created.
	OnSpawn func(b *Bubble)
}

// NewWaveSpawner creates an idle spawner. A nil rng uses a randomly seeded
// PCG source. Call StartCycle to release the first wave.
func NewWaveSpawner(cfg SpawnerConfig, rng Source) *WaveSpawner {
	cfg.normalize()
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &WaveSpawner{
		config: cfg,
		rng:    rng,
		byID:   make(map[uint64]*Bubble),
	}
}

// Config returns a copy of the spawner configuration.
func (s *WaveSpawner) Config() SpawnerConfig {
	return s.config
}

// SetConfig replaces the tuning. Counts apply from the next wave; bubbles in
// flight keep their creation-time config.
func (s *WaveSpawner) SetConfig(cfg SpawnerConfig) {
	cfg.normalize()
	s.config = cfg
}

// Len returns the number of live bubbles.
func (s *WaveSpawner) Len() int {
	return len(s.bubbles)
}

// All iterates over the live bubbles in spawn order. Callers must treat them as
// read-only; use Repel to push one.
func (s *WaveSpawner) All() iter.Seq[*Bubble] {
	return func(yield func(*Bubble) bool) {
		for _, b := range s.bubbles {
			if !yield(b) {
				return
			}
		}
	}
}

// Bubble returns the live bubble with the given id.
func (s *WaveSpawner) Bubble(id uint64) (*Bubble, bool) {
	b, ok := s.byID[id]
	return b, ok
}

// Cycle returns a snapshot of the current cycle state.
func (s *WaveSpawner) Cycle() SpawnCycle {
	return SpawnCycle{
		Running:      s.running,
		Target:       s.config.TotalCount,
		Spawned:      s.spawned,
		Gate:         slices.Clone(s.gate),
		WaveTimer:    s.waveTimer,
		RestartTimer: s.restartTimer,
	}
}

// StartCycle resets the cycle and immediately releases the first wave, which
// becomes the gate set.
func (s *WaveSpawner) StartCycle() {
	s.running = true
	s.spawned = 0
	s.gate = s.gate[:0]
	s.waveTimer = 0
	s.restartTimer = 0
	s.restartPending = false

	limit := min(s.config.MaxSpawnPerWave, s.config.TotalCount)
	s.emit(s.spawnWave(limit))
}

// Tick advances every live bubble, removes those that reached the ceiling, and
// then runs the wave logic. Bubbles emitted by this call are not advanced until
// the next one.
func (s *WaveSpawner) Tick(dt, t float64) {
	s.advance(dt, t)

	if !s.running {
		if s.restartPending {
			s.restartTimer -= dt
			if s.restartTimer <= 0 {
				s.StartCycle()
			}
		}
		return
	}

	target := s.config.TotalCount
	if s.spawned >= target && len(s.bubbles) == 0 {
		s.running = false
		s.restartTimer = s.config.CycleDelay
		s.restartPending = true
		return
	}
	if s.spawned >= target {
		return
	}

	s.waveTimer += dt
	if s.waveTimer < s.config.MinWaveGap {
		return
	}
	if !s.gateOpen() {
		return
	}

	s.waveTimer = 0
	limit := min(s.config.MaxSpawnPerWave, target-s.spawned)
	s.emit(s.spawnWave(limit))
}

// Repel applies a hover impulse to bubble id from the world-space hit point.
// It reports false if no such bubble is live.
func (s *WaveSpawner) Repel(id uint64, hit Vec3) bool {
	b, ok := s.byID[id]
	if !ok {
		return false
	}
	b.HoverRepel(hit, &s.config.Motion)
	return true
}

// HitTest returns the most recently spawned bubble whose sphere contains p.
func (s *WaveSpawner) HitTest(p Vec3) (*Bubble, bool) {
	for i := len(s.bubbles) - 1; i >= 0; i-- {
		if s.bubbles[i].Contains(p) {
			return s.bubbles[i], true
		}
	}
	return nil, false
}

// Reset removes every bubble and leaves the spawner idle with no restart armed.
func (s *WaveSpawner) Reset() {
	clear(s.bubbles)
	s.bubbles = s.bubbles[:0]
	clear(s.byID)
	s.gate = s.gate[:0]
	s.running = false
	s.spawned = 0
	s.waveTimer = 0
	s.restartTimer = 0
	s.restartPending = false
}

// advance integrates every bubble and swap-free removes finished ones,
// preserving spawn order.
func (s *WaveSpawner) advance(dt, t float64) {
	n := 0
	for _, b := range s.bubbles {
		if b.Advance(dt, t, &s.config.Motion) {
			delete(s.byID, b.id)
			continue
		}
		s.bubbles[n] = b
		n++
	}
	clear(s.bubbles[n:])
	s.bubbles = s.bubbles[:n]
}

// gateOpen reports whether the newest wave has climbed far enough. Gate members
// without recorded progress are left out of the mean; if none of them are
// still live the wave has finished and the gate is open.
func (s *WaveSpawner) gateOpen() bool {
	if len(s.gate) == 0 {
		return true
	}
	var sum float64
	var n, live int
	for _, id := range s.gate {
		b, ok := s.byID[id]
		if !ok {
			continue
		}
		live++
		if p, tracked := b.Progress(); tracked {
			sum += p
			n++
		}
	}
	if n == 0 {
		return live == 0
	}
	return sum/float64(n) >= s.config.SpawnAtProgress
}

// emit registers a freshly spawned wave and makes it the gate set.
func (s *WaveSpawner) emit(wave []*Bubble) {
	s.gate = s.gate[:0]
	for _, b := range wave {
		s.bubbles = append(s.bubbles, b)
		s.byID[b.id] = b
		s.gate = append(s.gate, b.id)
		if s.OnSpawn != nil {
			s.OnSpawn(b)
		}
	}
	s.spawned += len(wave)
}

// spawnWave composes a wave of exactly limit bubbles: pairs first while the
// pair coin keeps landing, then singles for whatever capacity is left.
func (s *WaveSpawner) spawnWave(limit int) []*Bubble {
	if limit <= 0 {
		return nil
	}
	wave := make([]*Bubble, 0, limit)
	remaining := limit

	for remaining >= 2 && s.rng.Float64() < s.config.PairChance {
		a, b := s.spawnPair()
		wave = append(wave, a, b)
		remaining -= 2
		if s.rng.Float64() < pairStopChance {
			break
		}
	}
	for range remaining {
		p := s.spawnPoint()
		wave = append(wave, s.newBubble(p))
	}
	return wave
}

// spawnPair places two bubbles a random separation apart at a random angle.
func (s *WaveSpawner) spawnPair() (*Bubble, *Bubble) {
	pa := s.spawnPoint()
	a := s.newBubble(pa)

	d := s.config.PairSeparation.Random(s.rng)
	ang := s.rng.Float64() * 2 * math.Pi
	pb := Vec2{pa.X + math.Cos(ang)*d, pa.Y + math.Sin(ang)*d}
	return a, s.newBubble(pb)
}

// spawnPoint picks a point in the rectangle around SpawnCenter, elongated along
// Direction, plus jitter on both axes. X = world x, Y = world z.
func (s *WaveSpawner) spawnPoint() Vec2 {
	c := &s.config
	along := Range{-c.Spacing, c.Spacing}.Random(s.rng)
	spread := c.Spacing * c.PerpendicularSpread
	perp := Range{-spread, spread}.Random(s.rng)

	p := c.SpawnCenter
	if c.Direction == AxisZ {
		p.Y += along
		p.X += perp
	} else {
		p.X += along
		p.Y += perp
	}
	jitter := Range{-c.Jitter, c.Jitter}
	p.X += jitter.Random(s.rng)
	p.Y += jitter.Random(s.rng)
	return p
}

// newBubble rolls a fresh immutable config and places the bubble at p.
func (s *WaveSpawner) newBubble(p Vec2) *Bubble {
	c := &s.config
	cfg := BubbleConfig{
		Radius: c.Radius.Random(s.rng),
		Speed:  c.RiseSpeed.Random(s.rng),
		Drift: Vec2{
			X: Range{-c.Drift.X, c.Drift.X}.Random(s.rng),
			Y: Range{-c.Drift.Y, c.Drift.Y}.Random(s.rng),
		},
		StartDelay: c.StartDelay.Random(s.rng),
		Phase:      s.rng.Float64() * 2 * math.Pi,
	}
	s.nextID++
	return newBubble(s.nextID, p.X, p.Y, c.Motion.FloorY, cfg)
}

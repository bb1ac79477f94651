package tide

import (
	"math"

	"github.com/tanema/gween/ease"
)

// State is the sequencer's position in the scroll choreography.
type State uint8

const (
	// StateIdle is the opening composition. A forward gesture leaves it.
	StateIdle State = iota
	// StateForward is the timed forward sequence. Gestures are ignored.
	StateForward
	// StateRevealed is the end composition. A reverse gesture leaves it.
	StateRevealed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateForward:
		return "forward"
	case StateRevealed:
		return "revealed"
	}
	return "unknown"
}

// Callbacks are notified at fixed points of the sequencer's transitions.
// Any of them may be nil.
type Callbacks struct {
	// OnReveal fires once per forward sequence, when it enters StateRevealed.
	OnReveal func()
	// OnReset fires once per reverse sequence, before it starts to play.
	OnReset func()
	// OnExplore fires when the explore transition starts.
	OnExplore func()
	// OnExploreReady fires once the explore transition has settled.
	OnExploreReady func()
	// OnReturn fires when the explore transition is undone.
	OnReturn func()
}

// Sequencer drives the one-shot scroll choreography: a forward sequence from
// the opening composition to a revealed one, and a reverse sequence back. It
// animates externally owned Handles and its own CameraTarget through a shared
// Animator, which must be updated once per frame before Sequencer.Tick.
type Sequencer struct {
	config    SequencerConfig
	handles   Handles
	callbacks Callbacks
	anim      *Animator

	camera   CameraTarget
	state    State
	viewport float64

	initial  *snapshot
	revealed *snapshot

	forward *Timeline
	reverse *Timeline
	loop    *Timeline
	detour  *Timeline

	spinWanted bool
	spinning   bool

	exploring bool
	bloomRest Bloom
	hasBloom  bool
}

// NewSequencer creates an idle sequencer whose camera starts at
// cfg.InitialCamera. A nil anim gets a private Animator, reachable through
// Animator.
func NewSequencer(cfg SequencerConfig, h Handles, cb Callbacks, anim *Animator) *Sequencer {
	cfg.normalize()
	if anim == nil {
		anim = NewAnimator()
	}
	return &Sequencer{
		config:    cfg,
		handles:   h,
		callbacks: cb,
		anim:      anim,
		camera:    cfg.InitialCamera,
	}
}

// Config returns a copy of the sequencer's configuration.
func (s *Sequencer) Config() SequencerConfig { return s.config }

// SetConfig replaces the choreography. It takes effect on the next transition.
func (s *Sequencer) SetConfig(cfg SequencerConfig) {
	cfg.normalize()
	s.config = cfg
}

// Animator returns the animator the sequencer schedules on.
func (s *Sequencer) Animator() *Animator { return s.anim }

// State returns the current state.
func (s *Sequencer) State() State { return s.state }

// Camera returns a copy of the camera target.
func (s *Sequencer) Camera() CameraTarget { return s.camera }

// Handles returns the handles currently mounted.
func (s *Sequencer) Handles() Handles { return s.handles }

// Spinning reports whether the primary object's spin and sway loop is running.
func (s *Sequencer) Spinning() bool { return s.spinning }

// Exploring reports whether the explore transition is active.
func (s *Sequencer) Exploring() bool { return s.exploring }

// Reversing reports whether the reverse sequence is playing.
func (s *Sequencer) Reversing() bool { return s.reverse != nil }

// SetViewport records the viewport width in pixels. The keyframe profile is
// chosen from it when a forward sequence starts.
func (s *Sequencer) SetViewport(width float64) {
	s.viewport = width
}

// Mount attaches every non-nil handle in h, replacing the current one. Handles
// that appear after the opening snapshot was taken are recorded into it at
// their current values.
func (s *Sequencer) Mount(h Handles) {
	if h.Material != nil {
		s.handles.Material = h.Material
	}
	if h.Primary != nil {
		s.handles.Primary = h.Primary
	}
	if h.Companion != nil {
		s.handles.Companion = h.Companion
	}
	if h.Bloom != nil {
		s.handles.Bloom = h.Bloom
	}
	if s.initial != nil {
		s.initial.fill(s.handles)
	}
}

// Unmount cancels every animation the sequencer started or that touches its
// handles, and detaches all handles. The sequencer is not expected to be used
// again afterwards.
func (s *Sequencer) Unmount() {
	s.anim.KillTweensOf(s.targets()...)
	s.stop(&s.forward)
	s.stop(&s.reverse)
	s.stop(&s.detour)
	s.stopLoop()
	s.spinWanted = false
	s.handles = Handles{}
}

// InvalidateSnapshot forgets the opening snapshot so the next forward gesture
// captures a fresh one.
func (s *Sequencer) InvalidateSnapshot() {
	s.initial = nil
}

// HandleGesture dispatches a mapped gesture.
func (s *Sequencer) HandleGesture(g Gesture) {
	switch g {
	case GestureForward:
		s.OnForwardGesture()
	case GestureReverse:
		s.OnReverseGesture()
	}
}

// Tick runs pending actions. The spin loop waits here for the primary handle
// when it was not mounted at the moment the loop was due.
func (s *Sequencer) Tick() {
	if s.spinWanted && !s.spinning && s.state != StateIdle && !s.exploring {
		s.startLoop()
	}
}

// OnForwardGesture starts the forward sequence. Ignored unless idle.
func (s *Sequencer) OnForwardGesture() {
	if s.state != StateIdle || s.exploring {
		return
	}
	s.captureInitial()
	s.state = StateForward
	s.spinWanted = false
	s.spinning = false

	p := s.config.profile(s.viewport)
	tl := s.anim.NewTimeline()
	s.forward = tl

	if m := s.handles.Material; m != nil {
		m.Transparent = true
		tl.ToValue(m, &m.Opacity, 0, Key1(0, fadeDuration, ease.InOutQuad))
	}
	if pr := s.handles.Primary; pr != nil {
		tl.ToValue(&pr.Rotation, &pr.Rotation.X, tiltAt, Key1(tiltAngle, tiltDuration, ease.OutCubic))
		tl.ToValue(&pr.Position, &pr.Position.X, slideAt, Key1(p.PrimaryX, slideXDuration, ease.OutCubic))
		tl.ToValue(&pr.Position, &pr.Position.Y, slideAt, Key1(primaryRiseY, riseDuration, ease.OutCubic))
	}
	if c := s.handles.Companion; c != nil {
		tl.ToValue(&c.Position, &c.Position.Y, companionAt, Key1(companionY, companionDuration, ease.InOutCubic))
	}

	tl.ToVec3(&s.camera.Position, cameraAt, keysOf(p.Camera)...).OnUpdate(s.clampCamera)
	if s.config.AimWithRotation {
		tl.ToVec3(&s.camera.Rotation, aimAt, keysOf(s.config.AimRotation)...)
	} else {
		tl.ToVec3(&s.camera.LookAt, aimAt, keysOf(p.LookAt)...)
	}

	tl.Call(s.config.SpinDelay, func() {
		s.spinWanted = true
		s.startLoop()
	})
	tl.Call(s.config.RevealAt, s.reveal)
	// Tracks outlast the reveal cue. The snapshot taken there is final.
	tl.OnComplete(func() { s.forward = nil })
}

// OnReverseGesture plays everything back to the opening snapshot. Ignored
// unless revealed. The state stays StateRevealed until the reverse sequence
// completes; further gestures are ignored meanwhile.
func (s *Sequencer) OnReverseGesture() {
	if s.state != StateRevealed || s.exploring || s.reverse != nil {
		return
	}
	s.captureInitial()
	s.spinWanted = false

	s.anim.KillTweensOf(s.targets()...)
	s.stop(&s.forward)
	s.stop(&s.detour)
	s.stopLoop()

	if s.callbacks.OnReset != nil {
		s.callbacks.OnReset()
	}

	init := s.initial
	tl := s.anim.NewTimeline()
	s.reverse = tl

	if m := s.handles.Material; m != nil {
		opacity := 1.0
		if init.hasMaterial {
			opacity = init.material.Opacity
		}
		m.Transparent = true
		tl.ToValue(m, &m.Opacity, 0, Key1(opacity, restoreFadeDuration, ease.InOutCubic))
		if init.hasMaterial {
			transparent := init.material.Transparent
			tl.Call(restoreTransparentAt, func() { m.Transparent = transparent })
		}
	}
	if c := s.handles.Companion; c != nil && init.hasCompanion {
		tl.ToVec3(&c.Position, 0, Key3(init.companion, restoreBodyDuration, ease.InOutCubic))
	}
	if pr := s.handles.Primary; pr != nil {
		var rot Vec3
		if init.hasPrimary {
			tl.ToVec3(&pr.Position, 0, Key3(init.primary.Position, restoreBodyDuration, ease.InOutCubic))
			rot = init.primary.Rotation
		}
		unwindAngles(&pr.Rotation, rot)
		tl.ToVec3(&pr.Rotation, 0, Key3(rot, restoreRotationDuration, ease.OutCubic))
	}

	tl.ToVec3(&s.camera.Position, 0, Key3(init.camera.Position, restoreCameraDuration, ease.InOutCubic))
	if s.config.AimWithRotation {
		tl.ToVec3(&s.camera.Rotation, 0, Key3(init.camera.Rotation, restoreCameraDuration, ease.InOutCubic))
	} else {
		tl.ToVec3(&s.camera.LookAt, 0, Key3(init.camera.LookAt, restoreCameraDuration, ease.InOutCubic))
	}

	tl.OnComplete(func() {
		s.state = StateIdle
		s.reverse = nil
		s.spinWanted = false
		s.spinning = false
	})
}

func (s *Sequencer) captureInitial() {
	if s.initial == nil {
		s.initial = captureSnapshot(s.handles, s.camera)
		return
	}
	s.initial.fill(s.handles)
}

func (s *Sequencer) reveal() {
	s.state = StateRevealed
	s.revealed = captureSnapshot(s.handles, s.camera)
	if s.callbacks.OnReveal != nil {
		s.callbacks.OnReveal()
	}
}

// clampCamera keeps the camera above the water whatever the keyframes say.
func (s *Sequencer) clampCamera() {
	s.camera.Position.Y = math.Max(s.camera.Position.Y, s.config.CameraFloor)
}

// startLoop starts the endless spin and sway of the primary object, if it is
// mounted and the loop is not already running.
func (s *Sequencer) startLoop() {
	pr := s.handles.Primary
	if s.spinning || pr == nil {
		return
	}
	s.stopLoop()
	tl := s.anim.NewTimeline()
	tl.Spin(&pr.Rotation, &pr.Rotation.Y, 2*math.Pi, s.config.SpinPeriod, ease.Linear)
	tl.Yoyo(&pr.Rotation, &pr.Rotation.X, s.config.SwayAngle, s.config.SwayPeriod, ease.InOutSine)
	s.loop = tl
	s.spinning = true
}

func (s *Sequencer) stopLoop() {
	s.stop(&s.loop)
	s.spinning = false
}

func (s *Sequencer) stop(tl **Timeline) {
	if *tl != nil {
		(*tl).Stop()
		*tl = nil
	}
}

// targets lists the kill identities of every mounted handle.
func (s *Sequencer) targets() []any {
	t := []any{&s.camera.Position, &s.camera.Rotation, &s.camera.LookAt}
	if m := s.handles.Material; m != nil {
		t = append(t, m)
	}
	if pr := s.handles.Primary; pr != nil {
		t = append(t, &pr.Position, &pr.Rotation)
	}
	if c := s.handles.Companion; c != nil {
		t = append(t, &c.Position)
	}
	if b := s.handles.Bloom; b != nil {
		t = append(t, b)
	}
	return t
}

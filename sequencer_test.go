package tide

import (
	"math"
	"testing"
)

const frame = 1.0 / 60

type seqFixture struct {
	material  Material
	primary   Transform
	companion Transform
	bloom     Bloom

	anim *Animator
	seq  *Sequencer

	reveals, resets  int
	explores, readys int
	returns          int
}

func newSeqFixture(width float64) *seqFixture {
	f := &seqFixture{
		material:  Material{Opacity: 1},
		primary:   Transform{Position: Vec3{Y: -20, Z: 40}},
		companion: Transform{Position: Vec3{X: 12, Y: -30, Z: 46}},
		bloom:     Bloom{Levels: 4, Intensity: 1},
		anim:      NewAnimator(),
	}
	f.seq = NewSequencer(DefaultSequencerConfig(), f.handles(), f.callbacks(), f.anim)
	f.seq.SetViewport(width)
	return f
}

func (f *seqFixture) handles() Handles {
	return Handles{
		Material:  &f.material,
		Primary:   &f.primary,
		Companion: &f.companion,
		Bloom:     &f.bloom,
	}
}

func (f *seqFixture) callbacks() Callbacks {
	return Callbacks{
		OnReveal:       func() { f.reveals++ },
		OnReset:        func() { f.resets++ },
		OnExplore:      func() { f.explores++ },
		OnExploreReady: func() { f.readys++ },
		OnReturn:       func() { f.returns++ },
	}
}

// run advances the animator and sequencer by whole frames.
func (f *seqFixture) run(seconds float64) {
	for range int(math.Round(seconds / frame)) {
		f.anim.Update(frame)
		f.seq.Tick()
	}
}

func vecApprox(a, b Vec3, eps float64) bool {
	return approxEqual(a.X, b.X, eps) && approxEqual(a.Y, b.Y, eps) && approxEqual(a.Z, b.Z, eps)
}

func TestSequencerStartsIdle(t *testing.T) {
	f := newSeqFixture(1280)
	if f.seq.State() != StateIdle {
		t.Errorf("State = %v, want idle", f.seq.State())
	}
	cam := f.seq.Camera()
	want := DefaultSequencerConfig().InitialCamera
	if cam != want {
		t.Errorf("Camera = %+v, want %+v", cam, want)
	}
}

func TestSequencerReverseIgnoredWhenIdle(t *testing.T) {
	f := newSeqFixture(1280)
	f.seq.OnReverseGesture()
	if f.seq.initial != nil {
		t.Error("reverse in idle should not take a snapshot")
	}
	if f.anim.Len() != 0 {
		t.Errorf("animator has %d timelines, want 0", f.anim.Len())
	}
	if f.resets != 0 {
		t.Errorf("resets = %d, want 0", f.resets)
	}
	if f.seq.State() != StateIdle {
		t.Errorf("State = %v, want idle", f.seq.State())
	}
}

func TestSequencerReverseIgnoredDuringForward(t *testing.T) {
	f := newSeqFixture(1280)
	f.seq.OnForwardGesture()
	f.run(1)

	before := f.primary
	f.seq.OnReverseGesture()
	if f.resets != 0 {
		t.Errorf("resets = %d, want 0", f.resets)
	}
	if f.seq.Reversing() {
		t.Error("reverse should not start during forward")
	}
	if f.primary != before {
		t.Errorf("primary = %+v, want unchanged %+v", f.primary, before)
	}
	if f.seq.State() != StateForward {
		t.Errorf("State = %v, want forward", f.seq.State())
	}
}

func TestSequencerDuplicateForwardIgnored(t *testing.T) {
	f := newSeqFixture(1280)
	f.seq.OnForwardGesture()
	f.seq.OnForwardGesture()
	if f.anim.Len() != 1 {
		t.Errorf("animator has %d timelines, want 1", f.anim.Len())
	}
	f.run(1)
	f.seq.HandleGesture(GestureForward)
	f.run(4)
	if f.reveals != 1 {
		t.Errorf("reveals = %d, want 1", f.reveals)
	}
}

func TestSequencerForwardRevealsAtCue(t *testing.T) {
	f := newSeqFixture(1280)
	f.seq.OnForwardGesture()
	if !f.material.Transparent {
		t.Error("material should be transparent once the fade starts")
	}
	f.run(3)
	if f.seq.State() != StateForward || f.reveals != 0 {
		t.Fatalf("at 3s: state %v reveals %d, want forward and 0", f.seq.State(), f.reveals)
	}
	f.run(0.2)
	if f.seq.State() != StateRevealed {
		t.Errorf("State = %v, want revealed", f.seq.State())
	}
	if f.reveals != 1 {
		t.Errorf("reveals = %d, want 1", f.reveals)
	}
}

func TestSequencerForwardEndValues(t *testing.T) {
	f := newSeqFixture(1280)
	f.seq.OnForwardGesture()
	f.run(5)

	if f.material.Opacity != 0 {
		t.Errorf("opacity = %v, want 0", f.material.Opacity)
	}
	if f.primary.Position.X != 2 || f.primary.Position.Y != primaryRiseY {
		t.Errorf("primary position = %+v, want x 2 y %v", f.primary.Position, primaryRiseY)
	}
	if f.companion.Position.Y != companionY {
		t.Errorf("companion y = %v, want %v", f.companion.Position.Y, companionY)
	}
	cam := f.seq.Camera()
	if want := (Vec3{X: 9, Y: 3.6, Z: 78}); cam.Position != want {
		t.Errorf("camera position = %+v, want %+v", cam.Position, want)
	}
	if want := (Vec3{X: 10, Y: 16.8, Z: 52}); cam.LookAt != want {
		t.Errorf("camera lookAt = %+v, want %+v", cam.LookAt, want)
	}
	if !f.seq.Spinning() {
		t.Error("spin loop should be running")
	}
	if f.bloom != (Bloom{Levels: 4, Intensity: 1}) {
		t.Errorf("bloom = %+v, forward should not touch it", f.bloom)
	}
}

func TestSequencerProfileByViewport(t *testing.T) {
	tests := []struct {
		width float64
		want  float64
	}{
		{0, 2.0},
		{500, -1.2},
		{768, -1.2},
		{1280, 2.0},
	}
	for _, tt := range tests {
		f := newSeqFixture(tt.width)
		f.seq.OnForwardGesture()
		f.run(5)
		if got := f.primary.Position.X; got != tt.want {
			t.Errorf("width %v: primary x = %v, want %v", tt.width, got, tt.want)
		}
	}
}

func TestSequencerCameraFloor(t *testing.T) {
	f := newSeqFixture(1280)
	cfg := DefaultSequencerConfig()
	cfg.CameraFloor = 10
	f.seq.SetConfig(cfg)
	f.seq.OnForwardGesture()

	f.run(cameraAt - 0.1)
	if y := f.seq.Camera().Position.Y; y != cfg.InitialCamera.Position.Y {
		t.Fatalf("camera y before its track = %v, want %v", y, cfg.InitialCamera.Position.Y)
	}
	for range 180 {
		f.anim.Update(frame)
		if y := f.seq.Camera().Position.Y; y < cfg.CameraFloor {
			t.Fatalf("camera y = %v, below floor %v", y, cfg.CameraFloor)
		}
	}
}

func TestSequencerRoundTrip(t *testing.T) {
	f := newSeqFixture(1280)
	startMaterial := f.material
	startPrimary := f.primary
	startCompanion := f.companion
	startBloom := f.bloom
	startCamera := f.seq.Camera()

	f.seq.OnForwardGesture()
	f.run(5)
	f.seq.OnReverseGesture()
	if f.resets != 1 {
		t.Fatalf("resets = %d, want 1", f.resets)
	}
	if f.seq.Spinning() {
		t.Error("reverse should stop the spin loop")
	}
	f.run(2)

	if f.seq.State() != StateIdle {
		t.Fatalf("State = %v, want idle", f.seq.State())
	}
	if f.material != startMaterial {
		t.Errorf("material = %+v, want %+v", f.material, startMaterial)
	}
	if !vecApprox(f.primary.Position, startPrimary.Position, 1e-9) {
		t.Errorf("primary position = %+v, want %+v", f.primary.Position, startPrimary.Position)
	}
	if !vecApprox(f.primary.Rotation, startPrimary.Rotation, 1e-9) {
		t.Errorf("primary rotation = %+v, want %+v", f.primary.Rotation, startPrimary.Rotation)
	}
	if !vecApprox(f.companion.Position, startCompanion.Position, 1e-9) {
		t.Errorf("companion = %+v, want %+v", f.companion.Position, startCompanion.Position)
	}
	if f.bloom != startBloom {
		t.Errorf("bloom = %+v, want %+v", f.bloom, startBloom)
	}
	cam := f.seq.Camera()
	if !vecApprox(cam.Position, startCamera.Position, 1e-9) || !vecApprox(cam.LookAt, startCamera.LookAt, 1e-9) {
		t.Errorf("camera = %+v, want %+v", cam, startCamera)
	}
	if f.resets != 1 {
		t.Errorf("resets = %d, want 1", f.resets)
	}

	// The loop must not come back once idle.
	f.run(1)
	if f.seq.Spinning() || f.primary.Rotation != startPrimary.Rotation {
		t.Errorf("idle after reverse: spinning %t rotation %+v", f.seq.Spinning(), f.primary.Rotation)
	}
}

func TestSequencerSecondCycleMatchesFirst(t *testing.T) {
	f := newSeqFixture(1280)
	f.seq.OnForwardGesture()
	f.run(5)
	first := f.primary.Position
	f.seq.OnReverseGesture()
	f.run(2)

	f.seq.OnForwardGesture()
	f.run(5)
	if f.primary.Position != first {
		t.Errorf("second forward position = %+v, want %+v", f.primary.Position, first)
	}
	if f.reveals != 2 {
		t.Errorf("reveals = %d, want 2", f.reveals)
	}
	if !f.seq.Spinning() {
		t.Error("spin loop should run again after the second forward")
	}
}

func TestSequencerReverseIgnoredWhileReversing(t *testing.T) {
	f := newSeqFixture(1280)
	f.seq.OnForwardGesture()
	f.run(5)
	f.seq.OnReverseGesture()
	f.run(0.5)
	f.seq.OnReverseGesture()
	if f.resets != 1 {
		t.Errorf("resets = %d, want 1", f.resets)
	}
	f.run(1.5)
	if f.seq.State() != StateIdle {
		t.Errorf("State = %v, want idle", f.seq.State())
	}
}

func TestSequencerReverseUnwindsAngles(t *testing.T) {
	f := newSeqFixture(1280)
	f.seq.OnForwardGesture()
	f.run(10)
	if f.primary.Rotation.Y < math.Pi {
		t.Fatalf("rotation y = %v, want more than half a turn after spinning", f.primary.Rotation.Y)
	}
	f.seq.OnReverseGesture()
	r := f.primary.Rotation
	for _, a := range []float64{r.X, r.Y, r.Z} {
		if a <= -math.Pi || a > math.Pi {
			t.Errorf("unwound angle %v outside (-π, π]", a)
		}
	}
}

func TestSequencerReverseCancelsForeignTweens(t *testing.T) {
	f := newSeqFixture(1280)
	f.seq.OnForwardGesture()
	f.run(5)

	foreign := f.anim.NewTimeline()
	foreign.ToValue(&f.companion.Position, &f.companion.Position.X, 0, Key1(500, 10, nil))
	f.run(0.5)

	f.seq.OnReverseGesture()
	f.run(2)
	if f.companion.Position.X != 12 {
		t.Errorf("companion x = %v, want 12", f.companion.Position.X)
	}
}

func TestSequencerMissingHandles(t *testing.T) {
	anim := NewAnimator()
	reveals := 0
	seq := NewSequencer(DefaultSequencerConfig(), Handles{}, Callbacks{OnReveal: func() { reveals++ }}, anim)
	seq.OnForwardGesture()
	for range 300 {
		anim.Update(frame)
		seq.Tick()
	}
	if seq.State() != StateRevealed || reveals != 1 {
		t.Fatalf("state %v reveals %d, want revealed and 1", seq.State(), reveals)
	}
	if seq.Spinning() {
		t.Error("spin should wait for the primary handle")
	}
	seq.OnReverseGesture()
	for range 120 {
		anim.Update(frame)
		seq.Tick()
	}
	if seq.State() != StateIdle {
		t.Errorf("State = %v, want idle", seq.State())
	}
}

func TestSequencerSpinWaitsForPrimary(t *testing.T) {
	f := newSeqFixture(1280)
	f.seq = NewSequencer(DefaultSequencerConfig(), Handles{Material: &f.material}, f.callbacks(), f.anim)
	f.seq.OnForwardGesture()
	f.run(2)
	if f.seq.Spinning() {
		t.Fatal("spinning without a primary handle")
	}

	f.seq.Mount(Handles{Primary: &f.primary})
	f.seq.Tick()
	if !f.seq.Spinning() {
		t.Error("spin should start once the primary is mounted")
	}
	if !f.seq.initial.hasPrimary || f.seq.initial.primary != f.primary {
		t.Error("late primary should be recorded into the opening snapshot")
	}
}

func TestSequencerUnmountStopsEverything(t *testing.T) {
	f := newSeqFixture(1280)
	f.seq.OnForwardGesture()
	f.run(2)
	f.seq.Unmount()
	f.anim.Update(frame)

	if f.anim.Len() != 0 {
		t.Errorf("animator has %d timelines, want 0", f.anim.Len())
	}
	if f.seq.Handles() != (Handles{}) {
		t.Error("handles should be detached")
	}
	before := f.primary
	f.run(1)
	if f.primary != before {
		t.Errorf("primary changed after unmount: %+v", f.primary)
	}
}

func TestSequencerInvalidateSnapshot(t *testing.T) {
	f := newSeqFixture(1280)
	f.seq.OnForwardGesture()
	f.run(5)
	f.seq.OnReverseGesture()
	f.run(2)

	moved := Vec3{X: 5, Y: 5, Z: 5}
	f.primary.Position = moved
	f.seq.InvalidateSnapshot()

	f.seq.OnForwardGesture()
	f.run(5)
	f.seq.OnReverseGesture()
	f.run(2)
	if !vecApprox(f.primary.Position, moved, 1e-9) {
		t.Errorf("primary = %+v, want %+v", f.primary.Position, moved)
	}
}

func TestSequencerRevealedSnapshotTakenAtCue(t *testing.T) {
	f := newSeqFixture(1280)
	var atCue CameraTarget
	var primaryAtCue Vec3
	cb := f.callbacks()
	cb.OnReveal = func() {
		f.reveals++
		atCue = f.seq.Camera()
		primaryAtCue = f.primary.Position
	}
	f.seq = NewSequencer(DefaultSequencerConfig(), f.handles(), cb, f.anim)
	f.seq.SetViewport(1280)
	f.seq.OnForwardGesture()
	f.run(5)

	if f.reveals != 1 {
		t.Fatalf("reveals = %d, want 1", f.reveals)
	}
	snap := f.seq.revealed
	if snap.camera.Position != atCue.Position || snap.camera.LookAt != atCue.LookAt {
		t.Errorf("snapshot camera = %+v, want %+v", snap.camera, atCue)
	}
	if snap.primary.Position != primaryAtCue {
		t.Errorf("snapshot primary = %+v, want %+v", snap.primary.Position, primaryAtCue)
	}
	// The forward tracks kept moving after the cue.
	if want := (Vec3{X: 10, Y: 16.8, Z: 52}); f.seq.Camera().LookAt != want {
		t.Fatalf("settled lookAt = %+v, want %+v", f.seq.Camera().LookAt, want)
	}
	if snap.camera.LookAt == f.seq.Camera().LookAt {
		t.Error("snapshot should hold the lookAt at the cue, not the settled one")
	}
}

func TestSequencerReverseCancelsTweensOnWholeHandle(t *testing.T) {
	f := newSeqFixture(1280)
	f.seq.OnForwardGesture()
	f.run(5)

	foreign := f.anim.NewTimeline()
	foreign.ToValue(&f.primary, &f.primary.Position.Z, 0, Key1(500, 10, nil))
	f.run(0.5)

	f.seq.OnReverseGesture()
	f.run(3)
	if !approxEqual(f.primary.Position.Z, 40, 1e-9) {
		t.Errorf("primary z = %v, want 40", f.primary.Position.Z)
	}
	if f.seq.State() != StateIdle {
		t.Errorf("State = %v, want idle", f.seq.State())
	}
}

func TestSequencerAimWithRotation(t *testing.T) {
	f := newSeqFixture(1280)
	cfg := DefaultSequencerConfig()
	cfg.AimWithRotation = true
	f.seq.SetConfig(cfg)
	f.seq.OnForwardGesture()
	f.run(5)

	cam := f.seq.Camera()
	last := cfg.AimRotation[len(cfg.AimRotation)-1].To
	if cam.Rotation != last {
		t.Errorf("camera rotation = %+v, want %+v", cam.Rotation, last)
	}
	if cam.LookAt != cfg.InitialCamera.LookAt {
		t.Errorf("lookAt moved to %+v", cam.LookAt)
	}

	f.seq.OnReverseGesture()
	f.run(2)
	if !vecApprox(f.seq.Camera().Rotation, Vec3{}, 1e-9) {
		t.Errorf("camera rotation after reverse = %+v", f.seq.Camera().Rotation)
	}
}

func TestStateString(t *testing.T) {
	for s, want := range map[State]string{
		StateIdle:     "idle",
		StateForward:  "forward",
		StateRevealed: "revealed",
		State(9):      "unknown",
	} {
		if got := s.String(); got != want {
			t.Errorf("State(%d).String() = %q, want %q", s, got, want)
		}
	}
}

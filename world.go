package tide

import (
	"log"
	"time"
)

// pointerFar is where the ripple reference point parks while the pointer is off
// the water, so the first move back always counts as long travel.
var pointerFar = Vec2{X: 99999, Y: 99999}

// WorldOptions wires the externally owned parts of a World. Every field is
// optional.
type WorldOptions struct {
	// Handles are the objects the sequencer animates.
	Handles Handles
	// Callbacks receive sequencer transitions.
	Callbacks Callbacks
	// Source drives the spawner's randomness. Nil uses a seeded PCG.
	Source Source
	// Voices creates hover sound voices. Nil disables hover sound.
	Voices VoiceFactory
	// Width and Height are the viewport size in pixels.
	Width, Height float64
}

type inputKind uint8

const (
	inputPointer inputKind = iota
	inputPointerOut
	inputPointerNDC
	inputWheel
	inputTouchStart
	inputTouchMove
	inputTouchEnd
	inputHover
	inputHoverOut
	inputExplore
	inputReturn
)

// inputEvent is one queued input, applied at the end of the frame it was
// queued in.
type inputEvent struct {
	kind inputKind
	x, y float64
	id   uint64
	hit  Vec3
}

// World is the top-level object that owns the water, the bubbles, the
// choreography and the camera, and steps them once per frame in a fixed order:
// ripples, bubbles, animations, sequencer pending actions, camera, then the
// input queued since the previous frame.
type World struct {
	Ripples   *RippleField
	Spawner   *WaveSpawner
	Animator  *Animator
	Sequencer *Sequencer
	Camera    *FollowCamera
	Gestures  *GestureMapper
	SFX       *SFX

	tuning Tuning
	clock  float64

	pointerRef Vec2
	hovered    uint64
	hovering   bool

	pending     []inputEvent
	injectQueue []injectedEvent
	testRunner  *TestRunner

	watcher *TuningWatcher
	sink    EventSink
	debug   bool
}

// NewWorld creates a world from t and starts the first bubble cycle. The world
// sets Spawner.OnSpawn to forward spawns to its event sink.
func NewWorld(t Tuning, opts WorldOptions) *World {
	anim := NewAnimator()
	w := &World{
		Ripples:    NewRippleField(t.Ripple),
		Spawner:    NewWaveSpawner(t.Spawner, opts.Source),
		Animator:   anim,
		Camera:     NewFollowCamera(t.Follow, opts.Width, opts.Height),
		Gestures:   NewGestureMapper(t.Gesture),
		SFX:        NewSFX(t.SFX, opts.Voices),
		tuning:     t,
		pointerRef: pointerFar,
	}
	w.Sequencer = NewSequencer(t.Sequencer, opts.Handles, w.relay(opts.Callbacks), anim)
	w.Spawner.OnSpawn = func(b *Bubble) {
		w.emit(Event{Kind: EventBubbleSpawn, BubbleID: b.ID(), Position: b.Pos})
	}
	w.Sequencer.SetViewport(opts.Width)
	w.Spawner.StartCycle()
	w.Camera.Update(w.Sequencer.Camera(), !t.Sequencer.AimWithRotation)
	return w
}

// Clock returns the time accumulated by Update.
func (w *World) Clock() float64 { return w.clock }

// Tuning returns the configuration last applied.
func (w *World) Tuning() Tuning { return w.tuning }

// ApplyTuning hands t to every component. Live ripples and bubbles keep their
// state; the ripple capacity is fixed at construction and is not changed.
func (w *World) ApplyTuning(t Tuning) {
	w.tuning = t
	w.Ripples.SetConfig(t.Ripple)
	w.Spawner.SetConfig(t.Spawner)
	w.Sequencer.SetConfig(t.Sequencer)
	w.Camera.SetConfig(t.Follow)
	w.Gestures.SetConfig(t.Gesture)
	w.SFX.SetConfig(t.SFX)
}

// SetViewport resizes the camera and tells the sequencer which keyframe
// profile to use on its next forward sequence.
func (w *World) SetViewport(width, height float64) {
	w.Camera.Width = width
	w.Camera.Height = height
	w.Sequencer.SetViewport(width)
}

// SetDebugMode enables per-frame stats on stderr.
func (w *World) SetDebugMode(enabled bool) {
	w.debug = enabled
}

// Update advances the world by dt seconds.
func (w *World) Update(dt float64) {
	var start time.Time
	if w.debug {
		start = time.Now()
	}

	w.clock += dt
	w.pollTuning()

	w.Ripples.Tick(dt)
	w.Spawner.Tick(dt, w.clock)
	w.Animator.Update(dt)
	w.Sequencer.Tick()
	w.Camera.Update(w.Sequencer.Camera(), !w.Sequencer.Config().AimWithRotation)

	if w.testRunner != nil {
		w.testRunner.step(w)
	}
	w.processInput()

	if w.debug {
		w.debugLog(time.Since(start))
	}
}

// --- Input ---

// PointerMove queues a pointer move over the water at world (x, z).
func (w *World) PointerMove(x, z float64) {
	w.pending = append(w.pending, inputEvent{kind: inputPointer, x: x, y: z})
}

// PointerOut queues the pointer leaving the water.
func (w *World) PointerOut() {
	w.pending = append(w.pending, inputEvent{kind: inputPointerOut})
}

// PointerNDC queues the pointer position in normalized device coordinates for
// the follow camera.
func (w *World) PointerNDC(nx, ny float64) {
	w.pending = append(w.pending, inputEvent{kind: inputPointerNDC, x: nx, y: ny})
}

// Wheel queues a vertical wheel delta.
func (w *World) Wheel(dy float64) {
	w.pending = append(w.pending, inputEvent{kind: inputWheel, y: dy})
}

// TouchStart queues the start of a touch at screen height y.
func (w *World) TouchStart(y float64) {
	w.pending = append(w.pending, inputEvent{kind: inputTouchStart, y: y})
}

// TouchMove queues a touch moving to screen height y.
func (w *World) TouchMove(y float64) {
	w.pending = append(w.pending, inputEvent{kind: inputTouchMove, y: y})
}

// TouchEnd queues the end of the current touch.
func (w *World) TouchEnd() {
	w.pending = append(w.pending, inputEvent{kind: inputTouchEnd})
}

// HoverBubble queues the pointer touching bubble id at world point hit.
func (w *World) HoverBubble(id uint64, hit Vec3) {
	w.pending = append(w.pending, inputEvent{kind: inputHover, id: id, hit: hit})
}

// HoverOut queues the pointer leaving every bubble.
func (w *World) HoverOut() {
	w.pending = append(w.pending, inputEvent{kind: inputHoverOut})
}

// Explore queues the sequencer's explore transition.
func (w *World) Explore() {
	w.pending = append(w.pending, inputEvent{kind: inputExplore})
}

// Return queues the sequencer's return from explore.
func (w *World) Return() {
	w.pending = append(w.pending, inputEvent{kind: inputReturn})
}

// PointerScreen routes a pointer at screen pixel (sx, sy) through the camera:
// it feeds the follow offset, hover picking and the water ripples.
func (w *World) PointerScreen(sx, sy float64) {
	c := w.Camera
	if c.HasViewport() {
		w.PointerNDC(2*sx/c.Width-1, 1-2*sy/c.Height)
	}
	if b, hit, ok := c.PickBubble(w.Spawner, sx, sy); ok {
		w.HoverBubble(b.ID(), hit)
	} else {
		w.HoverOut()
	}
	if p, ok := c.ScreenToWater(sx, sy); ok {
		w.PointerMove(p.X, p.Y)
	} else {
		w.PointerOut()
	}
}

// processInput applies one injected event, then everything queued.
func (w *World) processInput() {
	w.processInjectedInput()

	for _, ev := range w.pending {
		w.apply(ev)
	}
	clear(w.pending)
	w.pending = w.pending[:0]
}

func (w *World) apply(ev inputEvent) {
	switch ev.kind {
	case inputPointer:
		_, w.pointerRef = w.Ripples.ConsiderSpawn(Vec2{X: ev.x, Y: ev.y}, w.pointerRef, w.clock)
	case inputPointerOut:
		w.pointerRef = pointerFar
	case inputPointerNDC:
		w.Camera.SetPointer(ev.x, ev.y)
	case inputWheel:
		w.Sequencer.HandleGesture(w.Gestures.Wheel(ev.y))
	case inputTouchStart:
		w.Gestures.TouchStart(ev.y)
	case inputTouchMove:
		w.Sequencer.HandleGesture(w.Gestures.TouchMove(ev.y))
	case inputTouchEnd:
		w.Gestures.TouchEnd()
	case inputHover:
		if !w.Spawner.Repel(ev.id, ev.hit) {
			return
		}
		if !w.hovering || w.hovered != ev.id {
			w.SFX.Play(w.clock)
			w.emit(Event{Kind: EventBubbleHover, BubbleID: ev.id, Position: ev.hit})
		}
		w.hovered, w.hovering = ev.id, true
	case inputHoverOut:
		w.hovering = false
	case inputExplore:
		w.Sequencer.Explore()
	case inputReturn:
		w.Sequencer.Return()
	}
}

// --- Tuning reload ---

// WatchTuning reloads tuning from path whenever the file changes. Reloads are
// applied at the start of the next Update.
func (w *World) WatchTuning(path string) error {
	if w.watcher != nil {
		_ = w.watcher.Close()
	}
	tw, err := NewTuningWatcher(path)
	if err != nil {
		return err
	}
	w.watcher = tw
	return nil
}

// Close stops the tuning watcher, if any.
func (w *World) Close() error {
	if w.watcher == nil {
		return nil
	}
	err := w.watcher.Close()
	w.watcher = nil
	return err
}

// pollTuning drains pending watcher events without blocking.
func (w *World) pollTuning() {
	if w.watcher == nil {
		return
	}
	for {
		select {
		case path, ok := <-w.watcher.Events:
			if !ok {
				w.watcher = nil
				return
			}
			t, err := LoadTuning(path)
			if err != nil {
				log.Printf("tide: reload tuning: %v", err)
				continue
			}
			w.ApplyTuning(t)
			log.Printf("tide: reloaded tuning from %s", path)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				w.watcher = nil
				return
			}
			log.Printf("tide: watch tuning: %v", err)
		default:
			return
		}
	}
}

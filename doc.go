// Package tide is the animation core of an interactive ocean scene for
// [Ebitengine]: pointer ripples on a water plane, bubbles that rise in
// progressive waves, and a one-shot scroll choreography that moves the camera
// and a hero object between an opening and a revealed composition.
//
// The core is frame driven and single threaded. It owns simulation state and
// hands renderers plain data: packed shader uniforms for the ripples, bubble
// positions, and a camera to project them with. It draws nothing itself.
//
// # Quick start
//
// The simplest way to get started is [Run], which creates a window and game
// loop for you and forwards mouse, wheel and touch input:
//
//	world := tide.NewWorld(tide.DefaultTuning(), tide.WorldOptions{})
//	tide.Run(world, tide.RunConfig{
//		Title: "Ocean", Width: 1280, Height: 720,
//		Draw: func(screen *ebiten.Image, w *tide.World) { ... },
//	})
//
// For full control, call [World.Update] from your own loop and feed input
// through [World.PointerMove], [World.Wheel], [World.TouchStart] and friends.
// Input is queued and applied at the end of the next Update, after every
// component has stepped, so nothing created by input is advanced in the frame
// that created it.
//
// # Ripples
//
// [RippleField] keeps at most Capacity ripples in arrival order and packs them
// every tick into fixed-size float arrays ([RippleField.Uniforms]) ready for a
// Kage shader. Empty slots hold a sentinel the shader math ignores.
// [RippleField.HeightAt] evaluates the same wave on the CPU, and [SurfaceGrid]
// samples it over a lattice.
//
// # Bubbles
//
// [WaveSpawner] releases a cycle of bubbles in waves. A wave is admitted once
// the previous one has climbed far enough; when the whole cycle has risen out
// of sight the spawner idles for CycleDelay and starts again. Randomness comes
// from an injected [Source] so runs can be replayed.
//
// # Choreography
//
// [Sequencer] is a three-state machine (idle, forward, revealed) driven by
// scroll gestures. Its transitions are timelines on an [Animator]: keyframed
// tracks on externally owned [Handles] and on the sequencer's own
// [CameraTarget], eased with [gween]. Cancelling a handle removes its tracks
// from every timeline, including ones the sequencer did not start.
// [FollowCamera] reads the camera target each frame and adds a pointer-driven
// sway.
//
// # Tuning
//
// Every component is configured by a plain struct with YAML tags, gathered in
// [Tuning]. [LoadTuning] reads a file over the defaults and
// [World.WatchTuning] reloads it on change.
//
// [Ebitengine]: https://ebitengine.org
// [gween]: https://github.com/tanema/gween
package tide

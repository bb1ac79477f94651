package tide

import (
	"fmt"
	"os"
	"time"
)

// debugLog prints per-frame simulation stats to stderr.
func (w *World) debugLog(elapsed time.Duration) {
	if !w.debug {
		return
	}
	cycle := w.Spawner.Cycle()
	_, _ = fmt.Fprintf(os.Stderr,
		"[tide] update: %v | ripples: %d/%d | bubbles: %d | spawned: %d/%d | timelines: %d\n",
		elapsed, w.Ripples.Len(), w.Ripples.Capacity(), w.Spawner.Len(),
		cycle.Spawned, cycle.Target, w.Animator.Len())
	cam := w.Sequencer.Camera()
	_, _ = fmt.Fprintf(os.Stderr,
		"[tide] state: %s | spinning: %t | exploring: %t | camera: (%.2f, %.2f, %.2f)\n",
		w.Sequencer.State(), w.Sequencer.Spinning(), w.Sequencer.Exploring(),
		cam.Position.X, cam.Position.Y, cam.Position.Z)
}

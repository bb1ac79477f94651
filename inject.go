package tide

type injectKind uint8

const (
	injectPointer injectKind = iota
	injectPointerOut
	injectWheel
	injectTouchStart
	injectTouchMove
	injectTouchEnd
)

// injectedEvent is a synthetic input in screen coordinates. It goes through
// the same camera picking as real input, so scripted runs see what a user
// pointing at the same pixel would.
type injectedEvent struct {
	kind injectKind
	x, y float64
}

// InjectPointer queues a pointer at screen pixel (x, y). The event is consumed
// on the next frame's input phase.
func (w *World) InjectPointer(x, y float64) {
	w.injectQueue = append(w.injectQueue, injectedEvent{kind: injectPointer, x: x, y: y})
}

// InjectPointerOut queues the pointer leaving the window.
func (w *World) InjectPointerOut() {
	w.injectQueue = append(w.injectQueue, injectedEvent{kind: injectPointerOut})
}

// InjectPath queues a pointer sweep from (fromX, fromY) to (toX, toY) over
// frames frames, one position per frame. Minimum frames is 2.
func (w *World) InjectPath(fromX, fromY, toX, toY float64, frames int) {
	if frames < 2 {
		frames = 2
	}
	for i := 0; i < frames; i++ {
		t := float64(i) / float64(frames-1)
		w.InjectPointer(lerp(fromX, toX, t), lerp(fromY, toY, t))
	}
}

// InjectWheel queues a wheel delta.
func (w *World) InjectWheel(dy float64) {
	w.injectQueue = append(w.injectQueue, injectedEvent{kind: injectWheel, y: dy})
}

// InjectSwipe queues a vertical touch swipe from fromY to toY: a touch start,
// frames-2 moves and a touch end. Minimum frames is 2.
func (w *World) InjectSwipe(fromY, toY float64, frames int) {
	if frames < 2 {
		frames = 2
	}
	w.injectQueue = append(w.injectQueue, injectedEvent{kind: injectTouchStart, y: fromY})
	steps := frames - 2
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps)
		w.injectQueue = append(w.injectQueue, injectedEvent{kind: injectTouchMove, y: lerp(fromY, toY, t)})
	}
	w.injectQueue = append(w.injectQueue, injectedEvent{kind: injectTouchEnd, y: toY})
}

// processInjectedInput pops one injected event and queues its world-space
// equivalent. Returns true if an event was consumed.
func (w *World) processInjectedInput() bool {
	if len(w.injectQueue) == 0 {
		return false
	}
	ev := w.injectQueue[0]
	copy(w.injectQueue, w.injectQueue[1:])
	w.injectQueue = w.injectQueue[:len(w.injectQueue)-1]

	switch ev.kind {
	case injectPointer:
		w.PointerScreen(ev.x, ev.y)
	case injectPointerOut:
		w.PointerOut()
		w.HoverOut()
	case injectWheel:
		w.Wheel(ev.y)
	case injectTouchStart:
		w.TouchStart(ev.y)
	case injectTouchMove:
		w.TouchMove(ev.y)
	case injectTouchEnd:
		w.TouchEnd()
	}
	return true
}

package tide

import "testing"

func TestInjectPathQueuesEveryFrame(t *testing.T) {
	w := NewWorld(DefaultTuning(), WorldOptions{Width: 1280, Height: 720})
	w.InjectPath(0, 700, 100, 700, 5)
	if len(w.injectQueue) != 5 {
		t.Fatalf("queue = %d, want 5", len(w.injectQueue))
	}
	first, last := w.injectQueue[0], w.injectQueue[4]
	if first.x != 0 || last.x != 100 || first.y != 700 {
		t.Errorf("path ends = %+v .. %+v", first, last)
	}

	w.InjectPath(0, 0, 1, 1, 1)
	if len(w.injectQueue) != 7 {
		t.Errorf("queue = %d, want 7 after a clamped 2-frame path", len(w.injectQueue))
	}
}

func TestInjectOneEventPerFrame(t *testing.T) {
	w := NewWorld(DefaultTuning(), WorldOptions{Width: 1280, Height: 720})
	w.InjectPath(600, 700, 680, 700, 3)
	w.Update(frame)
	if len(w.injectQueue) != 2 {
		t.Errorf("queue after one frame = %d, want 2", len(w.injectQueue))
	}
	w.Update(frame)
	w.Update(frame)
	if len(w.injectQueue) != 0 {
		t.Errorf("queue = %d, want drained", len(w.injectQueue))
	}
	if w.Ripples.Len() == 0 {
		t.Error("injected pointer over the water should raise a ripple")
	}
}

func TestInjectWheel(t *testing.T) {
	w := NewWorld(DefaultTuning(), WorldOptions{Width: 1280, Height: 720})
	w.InjectWheel(120)
	w.Update(frame)
	if w.Sequencer.State() != StateForward {
		t.Errorf("State = %v, want forward", w.Sequencer.State())
	}
}

func TestInjectSwipe(t *testing.T) {
	w := NewWorld(DefaultTuning(), WorldOptions{Width: 1280, Height: 720})
	w.InjectSwipe(600, 400, 4)
	if len(w.injectQueue) != 4 {
		t.Fatalf("queue = %d, want start, 2 moves, end", len(w.injectQueue))
	}
	if w.injectQueue[0].kind != injectTouchStart || w.injectQueue[3].kind != injectTouchEnd {
		t.Errorf("swipe kinds = %v .. %v", w.injectQueue[0].kind, w.injectQueue[3].kind)
	}
	for range 4 {
		w.Update(frame)
	}
	if w.Sequencer.State() != StateForward {
		t.Errorf("State = %v, want forward after an upward swipe", w.Sequencer.State())
	}

	w.InjectSwipe(0, 10, 0)
	if len(w.injectQueue) != 2 {
		t.Errorf("queue = %d, want a clamped 2-event swipe", len(w.injectQueue))
	}
}

func TestInjectPointerOut(t *testing.T) {
	w := NewWorld(DefaultTuning(), WorldOptions{Width: 1280, Height: 720})
	w.InjectPointer(640, 700)
	w.InjectPointerOut()
	for range 3 {
		w.Update(frame)
	}
	w.InjectPointer(641, 700)
	w.Update(frame)
	// Leaving resets the reference point, so coming back spawns again even
	// though the pointer barely moved.
	if w.Ripples.Len() != 2 {
		t.Errorf("ripples = %d, want 2", w.Ripples.Len())
	}
}

func TestProcessInjectedInputEmpty(t *testing.T) {
	w := NewWorld(DefaultTuning(), WorldOptions{Width: 1280, Height: 720})
	if w.processInjectedInput() {
		t.Error("empty queue should consume nothing")
	}
}

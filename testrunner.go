package tide

import (
	"encoding/json"
	"fmt"
)

// testStep represents a single action in a test script.
type testStep struct {
	Action string  `json:"action"`
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
	FromX  float64 `json:"fromX,omitempty"`
	FromY  float64 `json:"fromY,omitempty"`
	ToX    float64 `json:"toX,omitempty"`
	ToY    float64 `json:"toY,omitempty"`
	DY     float64 `json:"dy,omitempty"`
	Frames int     `json:"frames,omitempty"`
	State  string  `json:"state,omitempty"`
}

// testScript is the top-level JSON structure for a test script.
type testScript struct {
	Steps []testStep `json:"steps"`
}

// TestRunner sequences injected input across frames for scripted runs of a
// World. Attach it with SetTestRunner.
//
// Actions: "move" (x, y), "path" (fromX, fromY, toX, toY, frames), "out",
// "wheel" (dy), "swipe" (fromY, toY, frames), "wait" (frames), "explore",
// "return", and "expect" (state), which records a failure when the sequencer
// is not in the named state.
type TestRunner struct {
	steps     []testStep
	cursor    int
	waitCount int
	done      bool
	failures  []string
}

// LoadTestScript parses a JSON test script and returns a TestRunner ready
// to be attached to a World via SetTestRunner.
func LoadTestScript(jsonData []byte) (*TestRunner, error) {
	var script testScript
	if err := json.Unmarshal(jsonData, &script); err != nil {
		return nil, fmt.Errorf("parse test script: %w", err)
	}
	if len(script.Steps) == 0 {
		return nil, fmt.Errorf("parse test script: no steps")
	}
	for i, st := range script.Steps {
		switch st.Action {
		case "move", "path", "out", "wheel", "swipe", "wait", "explore", "return", "expect":
		default:
			return nil, fmt.Errorf("parse test script: step %d: unknown action %q", i, st.Action)
		}
	}
	return &TestRunner{steps: script.Steps}, nil
}

// SetTestRunner attaches a TestRunner to the world. The runner's step method
// is called from World.Update before input is processed each frame.
func (w *World) SetTestRunner(runner *TestRunner) {
	w.testRunner = runner
}

// Done reports whether all steps in the test script have been executed.
func (r *TestRunner) Done() bool {
	return r.done
}

// Failures returns the messages of every failed "expect" step.
func (r *TestRunner) Failures() []string {
	return r.failures
}

// step advances the test runner by one frame. Called from World.Update.
func (r *TestRunner) step(w *World) {
	if r.done {
		return
	}
	// Wait for pending injections to drain before advancing.
	if len(w.injectQueue) > 0 {
		return
	}
	if r.waitCount > 0 {
		r.waitCount--
		return
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return
	}

	st := r.steps[r.cursor]
	r.cursor++

	switch st.Action {
	case "move":
		w.InjectPointer(st.X, st.Y)
	case "path":
		w.InjectPath(st.FromX, st.FromY, st.ToX, st.ToY, st.Frames)
	case "out":
		w.InjectPointerOut()
	case "wheel":
		w.InjectWheel(st.DY)
	case "swipe":
		w.InjectSwipe(st.FromY, st.ToY, st.Frames)
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this frame counts as one
		}
	case "explore":
		w.Explore()
	case "return":
		w.Return()
	case "expect":
		if got := w.Sequencer.State().String(); got != st.State {
			r.failures = append(r.failures,
				fmt.Sprintf("step %d: state = %s, want %s", r.cursor-1, got, st.State))
		}
	}

	if r.cursor >= len(r.steps) && r.waitCount == 0 && len(w.injectQueue) == 0 {
		r.done = true
	}
}

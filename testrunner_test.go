package tide

import (
	"strings"
	"testing"
)

func TestLoadTestScript(t *testing.T) {
	data := []byte(`{
		"steps": [
			{"action": "move", "x": 100, "y": 200},
			{"action": "wheel", "dy": 120},
			{"action": "wait", "frames": 3},
			{"action": "expect", "state": "forward"}
		]
	}`)

	runner, err := LoadTestScript(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(runner.steps) != 4 {
		t.Fatalf("expected 4 steps, got %d", len(runner.steps))
	}
	if runner.steps[0].Action != "move" || runner.steps[0].X != 100 || runner.steps[0].Y != 200 {
		t.Error("step 0 mismatch")
	}
	if runner.steps[1].DY != 120 {
		t.Error("step 1 mismatch")
	}
	if runner.steps[2].Frames != 3 || runner.steps[3].State != "forward" {
		t.Error("step 2 or 3 mismatch")
	}
}

func TestLoadTestScript_Invalid(t *testing.T) {
	_, err := LoadTestScript([]byte(`not json`))
	if err == nil {
		t.Error("expected error for invalid JSON")
	}
}

func TestLoadTestScript_Empty(t *testing.T) {
	_, err := LoadTestScript([]byte(`{"steps": []}`))
	if err == nil {
		t.Error("expected error for empty steps")
	}
}

func TestLoadTestScript_UnknownAction(t *testing.T) {
	_, err := LoadTestScript([]byte(`{"steps": [{"action": "click"}]}`))
	if err == nil || !strings.Contains(err.Error(), `"click"`) {
		t.Errorf("expected unknown action error, got %v", err)
	}
}

func TestRunnerStep_Move(t *testing.T) {
	w := NewWorld(DefaultTuning(), WorldOptions{Width: 1280, Height: 720})
	runner, err := LoadTestScript([]byte(`{"steps": [{"action": "path", "fromX": 0, "fromY": 700, "toX": 100, "toY": 700, "frames": 2}]}`))
	if err != nil {
		t.Fatal(err)
	}
	w.SetTestRunner(runner)

	runner.step(w)
	if len(w.injectQueue) != 2 {
		t.Fatalf("expected 2 queued events, got %d", len(w.injectQueue))
	}
	if runner.Done() {
		t.Error("runner should not be done while inject queue has events")
	}

	w.processInput()
	w.processInput()

	runner.step(w)
	if !runner.Done() {
		t.Error("runner should be done after all steps executed and queue drained")
	}
}

func TestRunnerScriptedCycle(t *testing.T) {
	w := NewWorld(DefaultTuning(), WorldOptions{Width: 1280, Height: 720})
	runner, err := LoadTestScript([]byte(`{"steps": [
		{"action": "expect", "state": "idle"},
		{"action": "swipe", "fromY": 600, "toY": 400, "frames": 4},
		{"action": "expect", "state": "forward"},
		{"action": "wait", "frames": 240},
		{"action": "expect", "state": "revealed"},
		{"action": "explore"},
		{"action": "wait", "frames": 10},
		{"action": "return"},
		{"action": "wheel", "dy": -120},
		{"action": "wait", "frames": 120},
		{"action": "expect", "state": "idle"}
	]}`))
	if err != nil {
		t.Fatal(err)
	}
	w.SetTestRunner(runner)

	for i := 0; i < 1000 && !runner.Done(); i++ {
		w.Update(frame)
	}
	if !runner.Done() {
		t.Fatal("script did not finish")
	}
	if f := runner.Failures(); len(f) != 0 {
		t.Errorf("failures: %v", f)
	}
}

func TestRunnerRecordsFailure(t *testing.T) {
	w := NewWorld(DefaultTuning(), WorldOptions{Width: 1280, Height: 720})
	runner, err := LoadTestScript([]byte(`{"steps": [{"action": "expect", "state": "revealed"}]}`))
	if err != nil {
		t.Fatal(err)
	}
	w.SetTestRunner(runner)
	w.Update(frame)

	if !runner.Done() {
		t.Fatal("runner should be done")
	}
	f := runner.Failures()
	if len(f) != 1 || !strings.Contains(f[0], "state = idle, want revealed") {
		t.Errorf("failures = %v", f)
	}
}

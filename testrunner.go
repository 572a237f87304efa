package bota

import (
	"encoding/json"
	"fmt"
)

// testStep represents a single action in a test script.
type testStep struct {
	Action string  `json:"action"`
	Label  string  `json:"label,omitempty"`
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
	FromX  float64 `json:"fromX,omitempty"`
	FromY  float64 `json:"fromY,omitempty"`
	ToX    float64 `json:"toX,omitempty"`
	ToY    float64 `json:"toY,omitempty"`
	From   float64 `json:"from,omitempty"` // pinch start distance
	To     float64 `json:"to,omitempty"`   // pinch end distance
	DY     float64 `json:"dy,omitempty"`
	Frames int     `json:"frames,omitempty"`
}

// testScript is the top-level JSON structure for a test script.
type testScript struct {
	Steps []testStep `json:"steps"`
}

var knownActions = map[string]bool{
	"screenshot": true, "tap": true, "click": true, "drag": true,
	"pinch": true, "wheel": true, "wait": true,
	"zoomIn": true, "zoomOut": true, "reset": true,
}

// TestRunner sequences injected input and screenshots across frames for
// automated visual testing. Attach it with WorldMap.SetTestRunner.
//
// Script format:
//
//	{"steps": [
//		{"action": "tap", "x": 150, "y": 150},
//		{"action": "drag", "fromX": 10, "fromY": 10, "toX": 80, "toY": 40, "frames": 6},
//		{"action": "pinch", "x": 200, "y": 200, "from": 50, "to": 100, "frames": 5},
//		{"action": "wheel", "x": 200, "y": 200, "dy": 1},
//		{"action": "wait", "frames": 3},
//		{"action": "screenshot", "label": "zoomed"}
//	]}
type TestRunner struct {
	steps     []testStep
	cursor    int
	waitCount int
	done      bool
}

// LoadTestScript parses a JSON test script.
func LoadTestScript(jsonData []byte) (*TestRunner, error) {
	var script testScript
	if err := json.Unmarshal(jsonData, &script); err != nil {
		return nil, fmt.Errorf("parse test script: %w", err)
	}
	if len(script.Steps) == 0 {
		return nil, fmt.Errorf("parse test script: no steps")
	}
	for i, st := range script.Steps {
		if !knownActions[st.Action] {
			return nil, fmt.Errorf("parse test script: step %d: unknown action %q", i, st.Action)
		}
	}
	return &TestRunner{steps: script.Steps}, nil
}

// SetTestRunner attaches a TestRunner. Its step method runs at the start of
// every Update.
func (m *WorldMap) SetTestRunner(runner *TestRunner) {
	m.testRunner = runner
}

// Done reports whether all steps in the script have been executed.
func (r *TestRunner) Done() bool {
	return r.done
}

// step advances the runner by one frame.
func (r *TestRunner) step(m *WorldMap) {
	if r.done {
		return
	}
	// Wait for pending injections to drain before advancing.
	if len(m.injectQueue) > 0 {
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
	case "screenshot":
		m.Screenshot(st.Label)
	case "tap", "click":
		m.InjectTap(st.X, st.Y)
	case "drag":
		m.InjectDrag(st.FromX, st.FromY, st.ToX, st.ToY, max(st.Frames, 2))
	case "pinch":
		m.InjectPinch(st.X, st.Y, st.From, st.To, max(st.Frames, 3))
	case "wheel":
		m.InjectWheel(st.X, st.Y, st.DY)
	case "zoomIn":
		m.ZoomIn()
	case "zoomOut":
		m.ZoomOut()
	case "reset":
		m.ResetView()
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this frame counts as one
		}
	}

	if r.cursor >= len(r.steps) && r.waitCount == 0 && len(m.injectQueue) == 0 {
		r.done = true
	}
}

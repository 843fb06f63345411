package showroom

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// testStep represents a single action in a test script.
type testStep struct {
	Action string  `yaml:"action"`
	Label  string  `yaml:"label,omitempty"`
	X      float64 `yaml:"x,omitempty"`
	Y      float64 `yaml:"y,omitempty"`
	FromX  float64 `yaml:"fromX,omitempty"`
	FromY  float64 `yaml:"fromY,omitempty"`
	ToX    float64 `yaml:"toX,omitempty"`
	ToY    float64 `yaml:"toY,omitempty"`
	Frames int     `yaml:"frames,omitempty"`

	// Interaction indexes the scene's live interactions for trigger_click
	// and click_handler.
	Interaction int `yaml:"interaction,omitempty"`
	// Handler names a handler registered with RegisterClickHandler, or
	// "none" to disable clicks.
	Handler string       `yaml:"handler,omitempty"`
	Patch   *ConfigPatch `yaml:"patch,omitempty"`
}

// testScript is the top-level structure for a test script.
type testScript struct {
	Steps []testStep `yaml:"steps"`
}

var testActions = map[string]bool{
	"screenshot":    true,
	"hover":         true,
	"click":         true,
	"drag":          true,
	"wait":          true,
	"trigger_click": true,
	"click_handler": true,
	"config":        true,
}

// TestRunner sequences injected input events, handler swaps, config patches
// and screenshots across frames for automated visual testing. Attach to a
// Scene via SetTestRunner.
type TestRunner struct {
	steps     []testStep
	cursor    int
	waitCount int
	done      bool

	handlers map[string]ClickHandler
	err      error
}

// LoadTestScript parses a YAML or JSON test script and returns a TestRunner
// ready to be attached to a Scene via SetTestRunner.
func LoadTestScript(data []byte) (*TestRunner, error) {
	var script testScript
	if err := yaml.Unmarshal(data, &script); err != nil {
		return nil, fmt.Errorf("parse test script: %w", err)
	}
	if len(script.Steps) == 0 {
		return nil, fmt.Errorf("parse test script: no steps")
	}
	for i, st := range script.Steps {
		if !testActions[st.Action] {
			return nil, fmt.Errorf("parse test script: step %d: unknown action %q", i, st.Action)
		}
		if st.Action == "config" && st.Patch == nil {
			return nil, fmt.Errorf("parse test script: step %d: config without patch", i)
		}
	}
	return &TestRunner{steps: script.Steps, handlers: make(map[string]ClickHandler)}, nil
}

// RegisterClickHandler makes h available to click_handler steps as name.
func (r *TestRunner) RegisterClickHandler(name string, h ClickHandler) {
	r.handlers[name] = h
}

// SetTestRunner attaches a TestRunner to the scene. The runner's step method
// is called from Scene.Update before processInput each frame.
func (s *Scene) SetTestRunner(runner *TestRunner) {
	s.testRunner = runner
}

// Done reports whether all steps in the test script have been executed.
func (r *TestRunner) Done() bool {
	return r.done
}

// Err returns the failures of steps that could not be carried out, such as
// an unknown handler name or an interaction index out of range.
func (r *TestRunner) Err() error {
	return r.err
}

func (r *TestRunner) fail(format string, args ...any) {
	r.err = errors.Join(r.err, fmt.Errorf("step %d: "+format, append([]any{r.cursor - 1}, args...)...))
}

func (r *TestRunner) interaction(s *Scene, i int) *Interaction {
	if i < 0 || i >= len(s.interactions) {
		r.fail("interaction %d of %d", i, len(s.interactions))
		return nil
	}
	return s.interactions[i]
}

// step advances the test runner by one frame. Called from Scene.Update.
func (r *TestRunner) step(s *Scene) {
	if r.done {
		return
	}
	// Wait for pending injections to drain before advancing.
	if len(s.injectQueue) > 0 {
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
		s.Screenshot(st.Label)
	case "hover":
		s.InjectHover(st.X, st.Y)
	case "click":
		s.InjectClick(st.X, st.Y)
	case "drag":
		s.InjectDrag(st.FromX, st.FromY, st.ToX, st.ToY, max(st.Frames, 2))
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this frame counts as one
		}
	case "trigger_click":
		if it := r.interaction(s, st.Interaction); it != nil {
			it.TriggerClick()
		}
	case "click_handler":
		it := r.interaction(s, st.Interaction)
		if it == nil {
			break
		}
		if st.Handler == "none" {
			it.SetClickHandler(nil)
			break
		}
		h, ok := r.handlers[st.Handler]
		if !ok {
			r.fail("unknown click handler %q", st.Handler)
			break
		}
		it.SetClickHandler(h)
	case "config":
		if err := s.UpdateConfig(*st.Patch); err != nil {
			r.fail("%v", err)
		}
	}

	if r.cursor >= len(r.steps) && r.waitCount == 0 && len(s.injectQueue) == 0 {
		r.done = true
	}
}

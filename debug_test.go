package showroom

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"testing"
)

func TestDebugMode_DisposedNodePanics(t *testing.T) {
	s := NewScene()
	s.SetDebugMode(true)
	defer s.SetDebugMode(false)

	parent := NewGroup("parent")
	s.Root().AddChild(parent)

	child := NewGroup("child")
	child.Dispose()

	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic on AddChild with disposed node, got none")
		}
		msg := fmt.Sprint(r)
		if !strings.Contains(msg, "disposed") {
			t.Errorf("panic message should mention 'disposed', got: %s", msg)
		}
	}()

	parent.AddChild(child)
}

func TestDebugMode_DisposedParentPanics(t *testing.T) {
	s := NewScene()
	s.SetDebugMode(true)
	defer s.SetDebugMode(false)

	parent := NewGroup("parent")
	parent.Dispose()

	defer func() {
		if r := recover(); r == nil {
			t.Fatal("expected panic on AddChild to disposed parent, got none")
		}
	}()

	parent.AddChild(NewGroup("child"))
}

func TestReleaseMode_DisposedNodeNoOp(t *testing.T) {
	s := NewScene()
	s.SetDebugMode(false)

	child := NewGroup("child")
	child.Dispose()

	defer func() {
		if r := recover(); r != nil {
			t.Errorf("release mode should not panic on disposed node, got: %v", r)
		}
	}()
	s.Root().AddChild(child)
}

// captureStderr runs fn with os.Stderr redirected and returns what it wrote.
func captureStderr(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stderr
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	os.Stderr = w
	done := make(chan string)
	go func() {
		var buf bytes.Buffer
		_, _ = buf.ReadFrom(r)
		done <- buf.String()
	}()
	fn()
	w.Close()
	os.Stderr = old
	return <-done
}

func TestDebugMode_TreeDepthWarning(t *testing.T) {
	s := NewScene()
	s.SetDebugMode(true)
	defer s.SetDebugMode(false)

	output := captureStderr(t, func() {
		current := s.Root()
		for i := 0; i < debugMaxTreeDepth+5; i++ {
			child := NewGroup(fmt.Sprintf("depth_%d", i))
			current.AddChild(child)
			current = child
		}
	})

	if !strings.Contains(output, "warning: tree depth") {
		t.Errorf("expected tree depth warning in stderr, got: %q", output)
	}
}

func TestDebugMode_HoverTransitionsLogged(t *testing.T) {
	s := newHoverScene()
	s.SetDebugMode(true)
	defer s.SetDebugMode(false)
	target := quadAt("car", 0)
	s.Add(target)
	_, _ = s.NewInteraction(target, InteractionOptions{})

	output := captureStderr(t, func() {
		hoverFrame(s, 400, 300)
		hoverFrame(s, 20, 20)
	})
	if !strings.Contains(output, "hover enter") || !strings.Contains(output, "hover leave") {
		t.Errorf("expected hover transitions in stderr, got: %q", output)
	}
}

func TestDebugf_SilentWhenOff(t *testing.T) {
	s := NewScene()
	s.SetDebugMode(false)
	output := captureStderr(t, func() {
		debugf("should not appear %d", 1)
	})
	if output != "" {
		t.Errorf("debugf wrote %q with debug off", output)
	}
}

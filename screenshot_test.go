package showroom

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSanitizeLabel(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"hello", "hello"},
		{"after-hover", "after-hover"},
		{"frame.01", "frame.01"},
		{"has spaces", "has_spaces"},
		{"path/to/thing", "path_to_thing"},
		{"back\\slash", "back_slash"},
		{"special!@#$%", "special_____"},
		{"", "unlabeled"},
		{"   ", "unlabeled"},
		{"MixedCase123", "MixedCase123"},
	}
	for _, tt := range tests {
		got := sanitizeLabel(tt.in)
		if got != tt.want {
			t.Errorf("sanitizeLabel(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestScreenshotQueueAppend(t *testing.T) {
	s := NewScene()
	s.Screenshot("a")
	s.Screenshot("b")
	s.Screenshot("c")
	if len(s.screenshotQueue) != 3 {
		t.Fatalf("queue len = %d, want 3", len(s.screenshotQueue))
	}
	if s.screenshotQueue[0] != "a" || s.screenshotQueue[1] != "b" || s.screenshotQueue[2] != "c" {
		t.Errorf("queue = %v, want [a b c]", s.screenshotQueue)
	}

	s.Dispose()
	s.Screenshot("d")
	if len(s.screenshotQueue) != 0 {
		t.Errorf("queue after Dispose = %v, want empty", s.screenshotQueue)
	}
}

func TestScreenshotDirDefault(t *testing.T) {
	s := NewScene()
	if s.ScreenshotDir != DefaultScreenshotDir {
		t.Errorf("ScreenshotDir = %q, want %q", s.ScreenshotDir, DefaultScreenshotDir)
	}
	s.ScreenshotDir = ""
	if got := s.screenshotDir(); got != DefaultScreenshotDir {
		t.Errorf("screenshotDir() = %q, want %q", got, DefaultScreenshotDir)
	}
}

func TestUnpremultiply(t *testing.T) {
	img := unpremultiply([]byte{
		50, 25, 0, 128,
		255, 255, 255, 255,
		0, 0, 0, 0,
	}, 3, 1)
	if got := img.Pix[0:4]; got[0] != 99 || got[1] != 49 || got[2] != 0 || got[3] != 128 {
		t.Errorf("half-alpha pixel = %v, want [99 49 0 128]", got)
	}
	if got := img.Pix[4:8]; got[0] != 255 || got[3] != 255 {
		t.Errorf("opaque pixel = %v", got)
	}
	if got := img.Pix[8:12]; got[3] != 0 {
		t.Errorf("transparent pixel = %v", got)
	}
}

func TestWritePNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shot.png")
	if err := writePNG(path, unpremultiply(make([]byte, 16), 2, 2)); err != nil {
		t.Fatal(err)
	}
	st, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if st.Size() == 0 {
		t.Error("empty PNG")
	}
}

package broadcast

import (
	"fmt"
	"image"
	"sync"
	"testing"
	"time"

	"github.com/Tk21111/ws-Chrome-leaf/internal/rdisplay"
)

type fakeDisplay struct {
	mu        sync.Mutex
	calls     int
	failFirst int
	value     byte
}

func (f *fakeDisplay) Screens() ([]rdisplay.Screen, error) {
	return []rdisplay.Screen{{Index: 0, Bounds: image.Rect(0, 0, 32, 32)}}, nil
}

func (f *fakeDisplay) Capture(screen rdisplay.Screen) (*image.RGBA, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.calls <= f.failFirst {
		return nil, fmt.Errorf("device busy")
	}
	return uniformFrame(screen.Bounds.Size(), f.value), nil
}

func waitForFrame(t *testing.T, buffer *FrameBuffer, want byte) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if buffer.Current().Pix[0] == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("no frame with pixel value %d was published", want)
}

func TestSourcePublishesFrames(t *testing.T) {
	display := &fakeDisplay{value: 42}
	screens, _ := display.Screens()
	size := image.Point{X: 16, Y: 16}
	buffer := NewFrameBuffer(size)

	source := NewSource(display, screens[0], buffer, size, 100)
	source.Start()
	defer source.Stop()

	waitForFrame(t, buffer, 42)

	if got := buffer.Current().Bounds().Size(); got != size {
		t.Fatalf("published frame size = %v, want %v", got, size)
	}
}

func TestSourceSurvivesCaptureFailures(t *testing.T) {
	display := &fakeDisplay{value: 7, failFirst: 3}
	screens, _ := display.Screens()
	size := image.Point{X: 16, Y: 16}
	buffer := NewFrameBuffer(size)

	source := NewSource(display, screens[0], buffer, size, 100)
	source.Start()
	defer source.Stop()

	// The first grabs fail; the loop must keep ticking and eventually
	// publish.
	waitForFrame(t, buffer, 7)
}

func TestNormalizeFrame(t *testing.T) {
	src := uniformFrame(image.Point{X: 64, Y: 48}, 9)
	target := image.Point{X: 32, Y: 24}

	got := normalizeFrame(src, target)
	if got.Bounds().Size() != target {
		t.Fatalf("normalized size = %v, want %v", got.Bounds().Size(), target)
	}

	same := uniformFrame(target, 9)
	if normalizeFrame(same, target) != same {
		t.Fatal("frame already at target size should pass through")
	}
}

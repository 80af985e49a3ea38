package broadcast

import (
	"image"
	"sync"
	"testing"
)

func uniformFrame(size image.Point, value byte) *image.RGBA {
	frame := image.NewRGBA(image.Rect(0, 0, size.X, size.Y))
	for i := range frame.Pix {
		frame.Pix[i] = value
	}
	return frame
}

func TestFrameBufferPlaceholder(t *testing.T) {
	size := image.Point{X: 8, Y: 6}
	buffer := NewFrameBuffer(size)

	frame := buffer.Current()
	if got := frame.Bounds().Size(); got != size {
		t.Fatalf("placeholder size = %v, want %v", got, size)
	}
	for i, px := range frame.Pix {
		if px != 0 {
			t.Fatalf("placeholder pixel %d = %d, want 0", i, px)
		}
	}
}

func TestFrameBufferReturnsLatest(t *testing.T) {
	size := image.Point{X: 4, Y: 4}
	buffer := NewFrameBuffer(size)

	buffer.Publish(uniformFrame(size, 10))
	buffer.Publish(uniformFrame(size, 20))

	frame := buffer.Current()
	if frame.Pix[0] != 20 {
		t.Fatalf("read pixel = %d, want 20", frame.Pix[0])
	}
}

func TestFrameBufferReturnsCopy(t *testing.T) {
	size := image.Point{X: 4, Y: 4}
	buffer := NewFrameBuffer(size)
	buffer.Publish(uniformFrame(size, 10))

	first := buffer.Current()
	first.Pix[0] = 99

	second := buffer.Current()
	if second.Pix[0] != 10 {
		t.Fatalf("mutating a read frame leaked into the buffer: pixel = %d", second.Pix[0])
	}
}

// Readers must always observe a uniform frame: every published frame has a
// single pixel value, so a torn read would show a mix.
func TestFrameBufferConcurrentPublishRead(t *testing.T) {
	size := image.Point{X: 16, Y: 16}
	buffer := NewFrameBuffer(size)

	stop := make(chan struct{})
	writerDone := make(chan struct{})
	var wg sync.WaitGroup

	go func() {
		defer close(writerDone)
		value := byte(1)
		for {
			select {
			case <-stop:
				return
			default:
				buffer.Publish(uniformFrame(size, value))
				value++
			}
		}
	}()

	for reader := 0; reader < 4; reader++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				frame := buffer.Current()
				first := frame.Pix[0]
				for j, px := range frame.Pix {
					if px != first {
						t.Errorf("torn frame: pixel %d = %d, pixel 0 = %d", j, px, first)
						return
					}
				}
			}
		}()
	}

	wg.Wait()
	close(stop)
	<-writerDone
}

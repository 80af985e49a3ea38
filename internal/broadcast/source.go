package broadcast

import (
	"image"
	"log"
	"time"

	"github.com/nfnt/resize"

	"github.com/Tk21111/ws-Chrome-leaf/internal/rdisplay"
)

// Source is the capture loop. Exactly one Source runs per process: it grabs
// the configured screen at a fixed cadence, normalizes the frame to the
// target size and publishes it into the shared FrameBuffer. A failed grab
// is logged and skipped; it never stops the loop.
type Source struct {
	display rdisplay.Service
	screen  rdisplay.Screen
	buffer  *FrameBuffer
	size    image.Point
	fps     int
	stop    chan struct{}
	done    chan struct{}
}

// NewSource creates a capture source for the given screen.
func NewSource(display rdisplay.Service, screen rdisplay.Screen, buffer *FrameBuffer, size image.Point, fps int) *Source {
	return &Source{
		display: display,
		screen:  screen,
		buffer:  buffer,
		size:    size,
		fps:     fps,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
}

// Start launches the capture loop.
func (s *Source) Start() {
	interval := time.Second / time.Duration(s.fps)
	log.Printf("Starting capture loop: screen=%d target=%dx%d @ %d fps",
		s.screen.Index, s.size.X, s.size.Y, s.fps)
	go func() {
		defer close(s.done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-s.stop:
				return
			case <-ticker.C:
				img, err := s.display.Capture(s.screen)
				if err != nil {
					log.Printf("Capture error: %v", err)
					continue
				}
				s.buffer.Publish(normalizeFrame(img, s.size))
			}
		}
	}()
}

// Stop terminates the capture loop and waits for it to exit.
func (s *Source) Stop() {
	close(s.stop)
	<-s.done
}

// normalizeFrame scales a raw frame to the target resolution. The grab is
// already RGBA, so resizing is the only normalization step.
func normalizeFrame(src *image.RGBA, target image.Point) *image.RGBA {
	if src.Bounds().Dx() == target.X && src.Bounds().Dy() == target.Y {
		return src
	}
	return resize.Resize(uint(target.X), uint(target.Y), src, resize.Bilinear).(*image.RGBA)
}

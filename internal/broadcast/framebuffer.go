// Package broadcast owns the shared capture pipeline: a single capture loop
// publishes the most recent normalized frame into a one-slot buffer that
// every per-viewer streamer reads from. Capture cost stays constant no
// matter how many viewers are attached.
package broadcast

import (
	"image"
	"sync"
)

// FrameBuffer is a single-slot holder of the most recent normalized frame.
// It is never a queue: every Publish overwrites the previous frame, and
// Current returns a copy so a reader can never observe a half-written
// buffer. Before the first Publish, readers get a black placeholder of the
// target size instead of blocking.
type FrameBuffer struct {
	mu          sync.RWMutex
	current     *image.RGBA
	placeholder *image.RGBA
}

// NewFrameBuffer creates a buffer whose placeholder matches the target
// frame size.
func NewFrameBuffer(size image.Point) *FrameBuffer {
	return &FrameBuffer{
		placeholder: image.NewRGBA(image.Rect(0, 0, size.X, size.Y)),
	}
}

// Publish swaps in a new frame. The buffer takes ownership; the caller must
// not touch the image afterwards.
func (b *FrameBuffer) Publish(frame *image.RGBA) {
	b.mu.Lock()
	b.current = frame
	b.mu.Unlock()
}

// Current returns a copy of the most recently published frame, or a copy of
// the placeholder if nothing has been published yet.
func (b *FrameBuffer) Current() *image.RGBA {
	b.mu.RLock()
	src := b.current
	if src == nil {
		src = b.placeholder
	}
	dst := &image.RGBA{
		Pix:    make([]byte, len(src.Pix)),
		Stride: src.Stride,
		Rect:   src.Rect,
	}
	copy(dst.Pix, src.Pix)
	b.mu.RUnlock()
	return dst
}

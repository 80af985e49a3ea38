package rdisplay

import "image"

// Screen describes one attached monitor: its index in the host display
// enumeration and its bounds in absolute device coordinates. Bounds.Min is
// the monitor offset, which is non-zero for secondary displays. Geometry is
// read once at startup; hot-plugging is not handled.
type Screen struct {
	Index  int
	Bounds image.Rectangle
}

// Service is the display capability: enumerate monitors and grab a single
// raw frame from one of them.
type Service interface {
	Screens() ([]Screen, error)
	Capture(screen Screen) (*image.RGBA, error)
}

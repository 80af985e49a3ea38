package rdisplay

import (
	"fmt"
	"image"

	"github.com/kbinani/screenshot"
)

// ScreenshotProvider implements the rdisplay.Service interface on top of
// the screenshot library, which handles the per-platform grab.
type ScreenshotProvider struct{}

// NewVideoProvider returns a screenshot-backed display service.
func NewVideoProvider() (Service, error) {
	if screenshot.NumActiveDisplays() == 0 {
		return nil, fmt.Errorf("no active displays")
	}
	return &ScreenshotProvider{}, nil
}

// Screens returns the available screens to capture
func (*ScreenshotProvider) Screens() ([]Screen, error) {
	numScreens := screenshot.NumActiveDisplays()
	screens := make([]Screen, numScreens)
	for i := 0; i < numScreens; i++ {
		screens[i] = Screen{
			Index:  i,
			Bounds: screenshot.GetDisplayBounds(i),
		}
	}
	return screens, nil
}

// Capture grabs one raw frame from the given screen.
func (*ScreenshotProvider) Capture(screen Screen) (*image.RGBA, error) {
	return screenshot.CaptureRect(screen.Bounds)
}

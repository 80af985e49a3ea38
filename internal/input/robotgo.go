package input

import (
	"github.com/go-vgo/robotgo"
)

// RobotInjector implements the Injector interface with robotgo, which
// synthesizes mouse and keyboard events through the platform APIs.
type RobotInjector struct{}

// NewInjector returns the robotgo-backed injector.
func NewInjector() Injector {
	return &RobotInjector{}
}

// Move moves the pointer to an absolute position.
func (*RobotInjector) Move(x, y int) error {
	robotgo.Move(x, y)
	return nil
}

// Click moves the pointer and clicks the given button.
func (*RobotInjector) Click(x, y int, button string) error {
	robotgo.Move(x, y)
	robotgo.Click(button, false)
	return nil
}

// ButtonDown moves the pointer and presses the given button.
func (*RobotInjector) ButtonDown(x, y int, button string) error {
	robotgo.Move(x, y)
	return robotgo.Toggle(button, "down")
}

// ButtonUp moves the pointer and releases the given button.
func (*RobotInjector) ButtonUp(x, y int, button string) error {
	robotgo.Move(x, y)
	return robotgo.Toggle(button, "up")
}

// Scroll scrolls by the given deltas. robotgo scrolls up for positive y and
// right for positive x, matching the wire convention directly.
func (*RobotInjector) Scroll(dx, dy int) error {
	robotgo.Scroll(dx, dy)
	return nil
}

// KeyDown presses a key.
func (*RobotInjector) KeyDown(key string) error {
	return robotgo.KeyToggle(key, "down")
}

// KeyUp releases a key.
func (*RobotInjector) KeyUp(key string) error {
	return robotgo.KeyToggle(key, "up")
}

// KeyPress taps a key.
func (*RobotInjector) KeyPress(key string) error {
	return robotgo.KeyTap(key)
}

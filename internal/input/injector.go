package input

// Injector is the host input-injection capability. Coordinates are absolute
// device coordinates; buttons are "left" or "right"; key names are already
// remapped to host-level identifiers. Implementations may block.
type Injector interface {
	Move(x, y int) error
	Click(x, y int, button string) error
	ButtonDown(x, y int, button string) error
	ButtonUp(x, y int, button string) error
	// Scroll follows the wire convention: positive dy scrolls up, positive
	// dx scrolls right.
	Scroll(dx, dy int) error
	KeyDown(key string) error
	KeyUp(key string) error
	KeyPress(key string) error
}

package input

import (
	"fmt"
	"log"
	"math"
	"sync"

	"github.com/Tk21111/ws-Chrome-leaf/internal/rdisplay"
)

// Dispatcher fans control events out to a bounded worker pool that drives
// the injector. Enqueueing never blocks: if every worker is busy and the
// queue is full the event is dropped with a log line, because a hung
// injection call must not stall signaling or frame delivery.
type Dispatcher struct {
	injector Injector
	screen   rdisplay.Screen
	queue    chan Event
	wg       sync.WaitGroup

	mu      sync.Mutex
	held    map[string]bool
	stopped bool
}

// NewDispatcher creates a dispatcher mapping normalized coordinates onto
// the given screen.
func NewDispatcher(injector Injector, screen rdisplay.Screen, depth int) *Dispatcher {
	return &Dispatcher{
		injector: injector,
		screen:   screen,
		queue:    make(chan Event, depth),
		held:     make(map[string]bool),
	}
}

// Start launches the worker pool.
func (d *Dispatcher) Start(workers int) {
	for i := 0; i < workers; i++ {
		d.wg.Add(1)
		go func() {
			defer d.wg.Done()
			for ev := range d.queue {
				if err := ev.apply(d); err != nil {
					log.Printf("Control dispatch: %v", err)
				}
			}
		}()
	}
}

// Stop drains the queue and waits for the workers to finish. Events
// dispatched afterwards are dropped.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return
	}
	d.stopped = true
	close(d.queue)
	d.mu.Unlock()
	d.wg.Wait()
}

// Dispatch enqueues an event without waiting for its execution.
func (d *Dispatcher) Dispatch(ev Event) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	select {
	case d.queue <- ev:
	default:
		log.Printf("Control dispatch: queue full, dropping event")
	}
}

func (d *Dispatcher) setHeld(button string, down bool) {
	d.mu.Lock()
	d.held[button] = down
	d.mu.Unlock()
}

func (d *Dispatcher) anyHeld() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, down := range d.held {
		if down {
			return true
		}
	}
	return false
}

func clamp01(v float64) float64 {
	return math.Min(1, math.Max(0, v))
}

// mapToScreen converts normalized coordinates into absolute device
// coordinates: clamp to [0,1], scale by the monitor size, add its offset.
func mapToScreen(nx, ny float64, screen rdisplay.Screen) (int, int) {
	x := screen.Bounds.Min.X + int(math.Round(clamp01(nx)*float64(screen.Bounds.Dx())))
	y := screen.Bounds.Min.Y + int(math.Round(clamp01(ny)*float64(screen.Bounds.Dy())))
	return x, y
}

func (ev *MouseEvent) apply(d *Dispatcher) error {
	x, y := mapToScreen(ev.X, ev.Y, d.screen)
	switch ev.Event {
	case "move":
		// Drag-only: a move with no button held does not touch the host
		// pointer.
		if !d.anyHeld() {
			return nil
		}
		return d.injector.Move(x, y)
	case "down":
		d.setHeld(ev.Button, true)
		return d.injector.ButtonDown(x, y, ev.Button)
	case "up":
		d.setHeld(ev.Button, false)
		return d.injector.ButtonUp(x, y, ev.Button)
	case "click":
		d.setHeld(ev.Button, false)
		return d.injector.Click(x, y, ev.Button)
	}
	return fmt.Errorf("unknown mouse event %q", ev.Event)
}

func (ev *ScrollEvent) apply(d *Dispatcher) error {
	dx, dy := int(ev.DX), int(ev.DY)
	if dx == 0 && dy == 0 {
		return nil
	}
	return d.injector.Scroll(dx, dy)
}

func (ev *KeyEvent) apply(d *Dispatcher) error {
	key := remapKey(ev.Key)
	switch ev.Event {
	case "down":
		return d.injector.KeyDown(key)
	case "up":
		return d.injector.KeyUp(key)
	case "press":
		return d.injector.KeyPress(key)
	}
	return fmt.Errorf("unknown key event %q", ev.Event)
}

// Package input turns validated remote-control events into host input
// actions. Injection calls block, so they run on a small worker pool fed by
// the dispatcher rather than on the signaling goroutines.
package input

import (
	"encoding/json"
	"fmt"
)

// Event is one remote-control action decoded from a control message.
// Events are transient: constructed from the wire payload, dispatched once,
// never stored.
type Event interface {
	apply(d *Dispatcher) error
}

// MouseEvent carries coordinates normalized to [0,1] of the streamed frame.
type MouseEvent struct {
	Event  string  `json:"event"` // move, down, up, click
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Button string  `json:"button"` // left or right, defaults to left
}

// ScrollEvent carries wheel deltas; positive DY scrolls up, positive DX
// scrolls right.
type ScrollEvent struct {
	DX float64 `json:"dx"`
	DY float64 `json:"dy"`
}

// KeyEvent carries a logical key name as the viewer's keyboard reports it.
type KeyEvent struct {
	Event string `json:"event"` // down, up, press
	Key   string `json:"key"`
}

// ParseEvent validates a control payload and returns the typed event.
func ParseEvent(action string, payload json.RawMessage) (Event, error) {
	switch action {
	case "mouse":
		var ev MouseEvent
		if err := json.Unmarshal(payload, &ev); err != nil {
			return nil, fmt.Errorf("bad mouse payload: %w", err)
		}
		switch ev.Event {
		case "move", "down", "up", "click":
		default:
			return nil, fmt.Errorf("unknown mouse event %q", ev.Event)
		}
		switch ev.Button {
		case "":
			ev.Button = "left"
		case "left", "right":
		default:
			return nil, fmt.Errorf("unknown mouse button %q", ev.Button)
		}
		return &ev, nil
	case "scroll":
		var ev ScrollEvent
		if err := json.Unmarshal(payload, &ev); err != nil {
			return nil, fmt.Errorf("bad scroll payload: %w", err)
		}
		return &ev, nil
	case "key":
		var ev KeyEvent
		if err := json.Unmarshal(payload, &ev); err != nil {
			return nil, fmt.Errorf("bad key payload: %w", err)
		}
		switch ev.Event {
		case "down", "up", "press":
		default:
			return nil, fmt.Errorf("unknown key event %q", ev.Event)
		}
		if ev.Key == "" {
			return nil, fmt.Errorf("missing key name")
		}
		return &ev, nil
	default:
		return nil, fmt.Errorf("unknown control action %q", action)
	}
}

// keyNames maps the viewer's logical key names to host-level identifiers.
// Names not listed here pass through unchanged.
var keyNames = map[string]string{
	"ArrowUp":    "up",
	"ArrowDown":  "down",
	"ArrowLeft":  "left",
	"ArrowRight": "right",
	"Enter":      "enter",
	"Escape":     "esc",
	"Tab":        "tab",
	" ":          "space",
	"Backspace":  "backspace",
	"Delete":     "delete",
}

func remapKey(name string) string {
	if mapped, ok := keyNames[name]; ok {
		return mapped
	}
	return name
}

package api

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/Tk21111/ws-Chrome-leaf/internal/input"
	"github.com/Tk21111/ws-Chrome-leaf/internal/rdisplay"
	"github.com/Tk21111/ws-Chrome-leaf/internal/rtc"
	"github.com/Tk21111/ws-Chrome-leaf/internal/session"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// MakeHandler returns the HTTP handler for the agent: the /ws signaling
// endpoint plus a screen listing.
func MakeHandler(registry *session.Registry, peers rtc.Service, control *input.Dispatcher, display rdisplay.Service, token string) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("WebSocket upgrade error: %v", err)
			return
		}

		sess := session.New(conn, registry, peers, control, token)
		log.Printf("Client %s connected", sess.ID())
		defer sess.Close()

		// The read loop delivers messages strictly in order; a terminal
		// error from the session ends the loop and tears it down.
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					log.Printf("WebSocket error: %v", err)
				}
				return
			}
			if err := sess.HandleRaw(data); err != nil {
				log.Printf("Session %s: %v", sess.ID(), err)
				return
			}
		}
	})

	mux.HandleFunc("/screens", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}

		screens, err := display.Screens()
		if err != nil {
			log.Printf("Error: %v", err)
			w.WriteHeader(http.StatusInternalServerError)
			return
		}

		screensPayload := make([]screenPayload, len(screens))
		for i, s := range screens {
			screensPayload[i].Index = s.Index
		}
		payload, err := json.Marshal(screensResponse{
			Screens: screensPayload,
		})
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(payload)
	})

	return mux
}

package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Tk21111/ws-Chrome-leaf/internal/api"
	"github.com/Tk21111/ws-Chrome-leaf/internal/broadcast"
	"github.com/Tk21111/ws-Chrome-leaf/internal/encoders"
	"github.com/Tk21111/ws-Chrome-leaf/internal/input"
	"github.com/Tk21111/ws-Chrome-leaf/internal/rdisplay"
	"github.com/Tk21111/ws-Chrome-leaf/internal/rtc"
	"github.com/Tk21111/ws-Chrome-leaf/internal/session"
)

const (
	httpDefaultPort   = "3030"
	defaultStunServer = "stun:stun.l.google.com:19302"
	defaultAuthToken  = "changeme"
)

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func main() {

	httpPort := flag.String("http.port", httpDefaultPort, "HTTP listen port")
	stunServer := flag.String("stun.server", defaultStunServer, "STUN server URL (stun:)")
	authToken := flag.String("auth.token", envOr("AUTH_TOKEN", defaultAuthToken), "shared auth token")
	fps := flag.Int("video.fps", 20, "target frame rate")
	width := flag.Int("video.width", 1920, "target frame width")
	height := flag.Int("video.height", 1080, "target frame height")
	screenIx := flag.Int("video.screen", 0, "monitor index to capture")
	workers := flag.Int("control.workers", 2, "input injection workers")
	flag.Parse()

	if *authToken == defaultAuthToken {
		log.Printf("AUTH_TOKEN is not set, using %q", defaultAuthToken)
	}

	var video rdisplay.Service
	video, err := rdisplay.NewVideoProvider()
	if err != nil {
		log.Fatalf("Can't init video: %v", err)
	}
	screens, err := video.Screens()
	if err != nil {
		log.Fatalf("Can't get screens: %v", err)
	}
	if *screenIx < 0 || *screenIx >= len(screens) {
		log.Fatalf("Screen %d out of range, %d available", *screenIx, len(screens))
	}
	screen := screens[*screenIx]

	size := image.Point{X: *width, Y: *height}
	frames := broadcast.NewFrameBuffer(size)
	source := broadcast.NewSource(video, screen, frames, size, *fps)
	source.Start()

	peers := rtc.NewPionService(*stunServer, frames, encoders.NewEncoderService(), size, *fps)

	dispatcher := input.NewDispatcher(input.NewInjector(), screen, 64)
	dispatcher.Start(*workers)

	registry := session.NewRegistry()

	mux := http.NewServeMux()

	// Signaling and screen listing
	mux.Handle("/api/", http.StripPrefix("/api", api.MakeHandler(registry, peers, dispatcher, video, *authToken)))

	// Serve static assets
	mux.Handle("/static/", http.StripPrefix("/static", http.FileServer(http.Dir("./web"))))
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		http.ServeFile(w, r, "./web/index.html")
	})

	server := &http.Server{Addr: ":" + *httpPort, Handler: mux}

	errors := make(chan error, 2)
	go func() {
		log.Printf("Starting signaling server on port %s", *httpPort)
		errors <- server.ListenAndServe()
	}()

	go func() {
		interrupt := make(chan os.Signal, 1)
		signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)
		errors <- fmt.Errorf("received %v signal", <-interrupt)
	}()

	err = <-errors
	log.Printf("%s, shutting down", err)

	registry.CloseAll()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	server.Shutdown(ctx)

	source.Stop()
	dispatcher.Stop()
}

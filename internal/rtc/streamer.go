package rtc

import (
	"log"
	"sync"
	"time"

	"github.com/pion/webrtc/v4"
	"github.com/pion/webrtc/v4/pkg/media"

	"github.com/Tk21111/ws-Chrome-leaf/internal/broadcast"
	"github.com/Tk21111/ws-Chrome-leaf/internal/encoders"
)

// rtcStreamer adapts the shared frame buffer to one viewer's track. On each
// tick it copies the current frame (or the placeholder), encodes it and
// writes the sample tagged with the frame interval. It only ever reads from
// the buffer; streamers attached to different viewers are independent.
type rtcStreamer struct {
	track     *webrtc.TrackLocalStaticSample
	frames    *broadcast.FrameBuffer
	encoder   encoders.Encoder
	interval  time.Duration
	stop      chan struct{}
	startOnce sync.Once
	stopOnce  sync.Once
}

func newStreamer(track *webrtc.TrackLocalStaticSample, frames *broadcast.FrameBuffer, encoder encoders.Encoder, fps int) videoStreamer {
	return &rtcStreamer{
		track:    track,
		frames:   frames,
		encoder:  encoder,
		interval: time.Second / time.Duration(fps),
		stop:     make(chan struct{}),
	}
}

func (s *rtcStreamer) start() {
	s.startOnce.Do(func() {
		go s.startStream()
	})
}

func (s *rtcStreamer) startStream() {
	defer s.encoder.Close()
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			if err := s.stream(); err != nil {
				log.Printf("Streamer: %v", err)
				return
			}
		}
	}
}

func (s *rtcStreamer) stream() error {
	payload, err := s.encoder.Encode(s.frames.Current())
	if err != nil {
		return err
	}
	if len(payload) == 0 {
		return nil
	}
	return s.track.WriteSample(media.Sample{
		Data:     payload,
		Duration: s.interval,
	})
}

func (s *rtcStreamer) close() {
	s.stopOnce.Do(func() {
		close(s.stop)
		// The stream loop owns the encoder once it runs; if the connection
		// never reached Connected the loop never started, so release the
		// encoder here. Consuming startOnce also keeps a late start() from
		// spawning the loop.
		s.startOnce.Do(func() {
			s.encoder.Close()
		})
	})
}

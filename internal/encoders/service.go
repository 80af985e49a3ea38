package encoders

import (
	"fmt"
	"image"
	"io"
)

// Service creates encoder instances
type Service interface {
	NewEncoder(codec VideoCodec, size image.Point, frameRate int) (Encoder, error)
}

// Encoder takes an image/frame and encodes it
type Encoder interface {
	io.Closer
	Encode(*image.RGBA) ([]byte, error)
}

// VideoCodec identifies a supported codec
type VideoCodec = int

const (
	// H264Codec h264
	H264Codec VideoCodec = iota
)

type encoderFactory = func(size image.Point, frameRate int) (Encoder, error)

// Index of supported codecs, each encoder registers itself at init time.
var registeredEncoders = make(map[VideoCodec]encoderFactory, 1)

// EncoderService creates instances of encoders
type EncoderService struct{}

// NewEncoderService creates an encoder factory
func NewEncoderService() Service {
	return &EncoderService{}
}

// NewEncoder creates an instance of an encoder of the selected codec
func (*EncoderService) NewEncoder(codec VideoCodec, size image.Point, frameRate int) (Encoder, error) {
	factory, found := registeredEncoders[codec]
	if !found {
		return nil, fmt.Errorf("codec %d not supported", codec)
	}
	return factory(size, frameRate)
}

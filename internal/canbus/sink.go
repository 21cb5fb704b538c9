package canbus

import (
	"context"
	"fmt"
	"net"
	"sync"

	"github.com/san-kum/vehsim/internal/control"
	"go.einride.tech/can"
	"go.einride.tech/can/pkg/socketcan"
)

// FrameTransmitter is satisfied by *socketcan.Transmitter.
type FrameTransmitter interface {
	TransmitFrame(ctx context.Context, frame can.Frame) error
}

// Sink encodes each command into a frame with a rolling counter and hands
// it to a transmitter.
type Sink struct {
	mu      sync.Mutex
	tx      FrameTransmitter
	counter uint8
	conn    net.Conn
}

func NewSink(tx FrameTransmitter) *Sink {
	return &Sink{tx: tx}
}

// Dial opens a SocketCAN interface (e.g. "vcan0") and returns a sink
// writing to it.
func Dial(ctx context.Context, iface string) (*Sink, error) {
	conn, err := socketcan.DialContext(ctx, "can", iface)
	if err != nil {
		return nil, fmt.Errorf("socketcan dial: %w", err)
	}
	s := NewSink(socketcan.NewTransmitter(conn))
	s.conn = conn
	return s, nil
}

func (s *Sink) Send(ctx context.Context, cmd control.Command) error {
	s.mu.Lock()
	frame := Encode(cmd, s.counter)
	s.counter++
	s.mu.Unlock()

	return s.tx.TransmitFrame(ctx, frame)
}

func (s *Sink) Close() error {
	if s.conn != nil {
		return s.conn.Close()
	}
	return nil
}

// Recorder is an in-memory transmitter.
type Recorder struct {
	mu     sync.Mutex
	frames []can.Frame
}

func (r *Recorder) TransmitFrame(_ context.Context, frame can.Frame) error {
	if err := frame.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frames = append(r.frames, frame)
	return nil
}

func (r *Recorder) Frames() []can.Frame {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]can.Frame, len(r.frames))
	copy(out, r.frames)
	return out
}

package canbus_test

import (
	"context"
	"math"
	"testing"

	"github.com/san-kum/vehsim/internal/canbus"
	"github.com/san-kum/vehsim/internal/control"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.einride.tech/can"
)

func TestEncodeDecode(t *testing.T) {
	cmds := []control.Command{
		{Throttle: 0.7316, Brake: 0, Steer: -0.25},
		{Throttle: 0, Brake: 1, Steer: 1},
		{Throttle: 1, Brake: 0, Steer: -1},
		{},
	}

	for i, cmd := range cmds {
		f := canbus.Encode(cmd, uint8(i))
		require.NoError(t, f.Validate())
		assert.Equal(t, canbus.CommandFrameID, f.ID)

		got, counter, err := canbus.Decode(f)
		require.NoError(t, err)
		assert.Equal(t, uint8(i), counter)
		assert.InDelta(t, cmd.Throttle, got.Throttle, 1e-4)
		assert.InDelta(t, cmd.Brake, got.Brake, 1e-4)
		assert.InDelta(t, cmd.Steer, got.Steer, 1e-4)
	}
}

func TestEncodeSaturates(t *testing.T) {
	f := canbus.Encode(control.Command{Throttle: 3, Steer: -7}, 0)
	got, _, err := canbus.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 1.0, got.Throttle)
	assert.Equal(t, -1.0, got.Steer)
}

func TestEncodeNaNSendsZero(t *testing.T) {
	nan := math.NaN()
	f := canbus.Encode(control.Command{Throttle: nan, Brake: nan, Steer: nan}, 9)
	assert.Equal(t, [8]byte{0, 0, 0, 0, 0, 0, 9, 0}, [8]byte(f.Data))

	got, counter, err := canbus.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, control.Command{}, got)
	assert.Equal(t, uint8(9), counter)
}

func TestDecodeRejectsForeignFrames(t *testing.T) {
	_, _, err := canbus.Decode(can.Frame{ID: 0x123, Length: 7})
	assert.Error(t, err)

	_, _, err = canbus.Decode(can.Frame{ID: canbus.CommandFrameID, Length: 2})
	assert.Error(t, err)
}

func TestSinkCounter(t *testing.T) {
	rec := &canbus.Recorder{}
	sink := canbus.NewSink(rec)

	for i := 0; i < 300; i++ {
		require.NoError(t, sink.Send(context.Background(), control.Command{Throttle: 0.5}))
	}

	frames := rec.Frames()
	require.Len(t, frames, 300)
	_, c0, _ := canbus.Decode(frames[0])
	_, c299, _ := canbus.Decode(frames[299])
	assert.Equal(t, uint8(0), c0)
	assert.Equal(t, uint8(299%256), c299)
	assert.NoError(t, sink.Close())
}

package canbus

import (
	"fmt"
	"math"

	"github.com/samber/lo"
	"github.com/san-kum/vehsim/internal/control"
	"go.einride.tech/can"
)

// Actuator command frame layout, little endian:
//
//	bits  0-15  throttle  unsigned, 1e-4 per bit
//	bits 16-31  brake     unsigned, 1e-4 per bit
//	bits 32-47  steer     signed,   1e-4 per bit
//	bits 48-55  rolling counter
const (
	CommandFrameID     uint32 = 0x200
	CommandFrameLength uint8  = 7

	signalScale = 1e-4
)

// toRaw saturates v to [low, high] in raw units. NaN is sent as 0.
func toRaw(v, low, high float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Round(lo.Clamp(v, low, high) / signalScale)
}

// Encode packs cmd into a command frame tagged with counter.
func Encode(cmd control.Command, counter uint8) can.Frame {
	f := can.Frame{ID: CommandFrameID, Length: CommandFrameLength}
	f.Data.SetUnsignedBitsLittleEndian(0, 16, uint64(toRaw(cmd.Throttle, 0, 1)))
	f.Data.SetUnsignedBitsLittleEndian(16, 16, uint64(toRaw(cmd.Brake, 0, 1)))
	f.Data.SetSignedBitsLittleEndian(32, 16, int64(toRaw(cmd.Steer, -1, 1)))
	f.Data.SetUnsignedBitsLittleEndian(48, 8, uint64(counter))
	return f
}

// Decode unpacks a command frame.
func Decode(f can.Frame) (control.Command, uint8, error) {
	if f.ID != CommandFrameID {
		return control.Command{}, 0, fmt.Errorf("unexpected frame id 0x%X", f.ID)
	}
	if f.Length < CommandFrameLength {
		return control.Command{}, 0, fmt.Errorf("frame 0x%X expects length %d, got %d", f.ID, CommandFrameLength, f.Length)
	}

	var cmd control.Command
	cmd.SetThrottle(float64(f.Data.UnsignedBitsLittleEndian(0, 16)) * signalScale)
	cmd.SetBrake(float64(f.Data.UnsignedBitsLittleEndian(16, 16)) * signalScale)
	cmd.SetSteer(float64(f.Data.SignedBitsLittleEndian(32, 16)) * signalScale)
	counter := uint8(f.Data.UnsignedBitsLittleEndian(48, 8))
	return cmd, counter, nil
}

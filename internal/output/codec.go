package output

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"sort"

	"sslcoach/internal/command"
	"sslcoach/internal/input"
	"sslcoach/internal/world"
)

// Base-station framing: a two-byte little-endian body length, then a
// fixed-layout little-endian body. Commands go out as a batch; feedback
// comes back the same way.

const (
	kickNone uint8 = iota
	kickFlat
	kickChip
)

// baseCommandSize is the encoded size of one robot command.
const baseCommandSize = 1 + 4 + 4 + 4 + 1 + 4 + 1 + 4

// errFrameTooShort is returned for truncated frames.
var errFrameTooShort = errors.New("codec: frame too short")

// EncodeCommands encodes the batch, length prefix included. Robots are
// written in id order so the frame is deterministic.
func EncodeCommands(cmds command.Map) ([]byte, error) {
	ids := make([]world.RobotID, 0, len(cmds))
	for id := range cmds {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	if len(ids) > world.MaxRobots {
		return nil, fmt.Errorf("codec: %d commands exceed the %d robot cap", len(ids), world.MaxRobots)
	}
	bodyLen := 1 + len(ids)*baseCommandSize
	buf := make([]byte, 0, 2+bodyLen)
	buf = binary.LittleEndian.AppendUint16(buf, uint16(bodyLen))
	buf = append(buf, uint8(len(ids)))
	for _, id := range ids {
		cmd := cmds[id]
		buf = append(buf, uint8(id))
		buf = appendFloat32(buf, cmd.ForwardVelocity)
		buf = appendFloat32(buf, cmd.LeftVelocity)
		buf = appendFloat32(buf, cmd.AngularVelocity)

		kind, power := kickNone, float32(0)
		if cmd.Kick != nil {
			power = cmd.Kick.Power
			if cmd.Kick.Kind == command.KickChip {
				kind = kickChip
			} else {
				kind = kickFlat
			}
		}
		buf = append(buf, kind)
		buf = appendFloat32(buf, power)
		if cmd.Charge {
			buf = append(buf, 1)
		} else {
			buf = append(buf, 0)
		}
		buf = appendFloat32(buf, cmd.Dribbler)
	}
	return buf, nil
}

// DecodeCommands is the inverse of EncodeCommands.
func DecodeCommands(frame []byte) (command.Map, error) {
	if len(frame) < 3 {
		return nil, errFrameTooShort
	}
	bodyLen := int(binary.LittleEndian.Uint16(frame))
	if len(frame) < 2+bodyLen {
		return nil, errFrameTooShort
	}
	count := int(frame[2])
	if bodyLen != 1+count*baseCommandSize {
		return nil, fmt.Errorf("codec: body length %d does not match %d commands", bodyLen, count)
	}
	cmds := make(command.Map, count)
	off := 3
	for i := 0; i < count; i++ {
		id := world.RobotID(frame[off])
		off++
		forward := readFloat32(frame[off:])
		off += 4
		left := readFloat32(frame[off:])
		off += 4
		angular := readFloat32(frame[off:])
		off += 4
		kind := frame[off]
		off++
		power := readFloat32(frame[off:])
		off += 4
		charge := frame[off] == 1
		off++
		dribbler := readFloat32(frame[off:])
		off += 4

		cmd := command.Command{
			ForwardVelocity: forward,
			LeftVelocity:    left,
			AngularVelocity: angular,
			Charge:          charge,
			Dribbler:        dribbler,
		}
		switch kind {
		case kickFlat:
			cmd.Kick = &command.Kick{Kind: command.KickFlat, Power: power}
		case kickChip:
			cmd.Kick = &command.Kick{Kind: command.KickChip, Power: power}
		}
		cmds[id] = cmd
	}
	return cmds, nil
}

// feedbackSize is the encoded size of one robot feedback record.
const feedbackSize = 1 + 1 + 4

// DecodeFeedback decodes a base-station feedback frame (length prefix
// included).
func DecodeFeedback(frame []byte) (map[world.RobotID]input.Feedback, error) {
	if len(frame) < 3 {
		return nil, errFrameTooShort
	}
	count := int(frame[2])
	if len(frame) < 3+count*feedbackSize {
		return nil, errFrameTooShort
	}
	out := make(map[world.RobotID]input.Feedback, count)
	off := 3
	for i := 0; i < count; i++ {
		id := world.RobotID(frame[off])
		off++
		hasBall := frame[off] == 1
		off++
		voltage := readFloat32(frame[off:])
		off += 4
		out[id] = input.Feedback{RobotID: id, HasBall: hasBall, Voltage: voltage}
	}
	return out, nil
}

// EncodeFeedback is the inverse of DecodeFeedback, used by tests and the
// simulator transport.
func EncodeFeedback(fb map[world.RobotID]input.Feedback) []byte {
	ids := make([]world.RobotID, 0, len(fb))
	for id := range fb {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	buf := make([]byte, 0, 3+len(ids)*feedbackSize)
	buf = binary.LittleEndian.AppendUint16(buf, uint16(1+len(ids)*feedbackSize))
	buf = append(buf, uint8(len(ids)))
	for _, id := range ids {
		f := fb[id]
		buf = append(buf, uint8(id))
		if f.HasBall {
			buf = append(buf, 1)
		} else {
			buf = append(buf, 0)
		}
		buf = appendFloat32(buf, f.Voltage)
	}
	return buf
}

func appendFloat32(buf []byte, v float32) []byte {
	return binary.LittleEndian.AppendUint32(buf, math.Float32bits(v))
}

func readFloat32(buf []byte) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(buf))
}

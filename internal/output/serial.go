package output

import (
	"fmt"
	"sync"
	"time"

	"go.bug.st/serial"

	"sslcoach/internal/command"
	"sslcoach/internal/input"
	"sslcoach/internal/telemetry"
	"sslcoach/internal/world"
)

// serialReadTimeout must stay slightly above the base station's own
// response timeout; shorter values read empty frames.
const serialReadTimeout = 50 * time.Millisecond

// SerialTransport drives the physical base station over USB serial.
type SerialTransport struct {
	port      serial.Port
	readBuf   []byte
	closeOnce sync.Once
}

// NewSerialTransport opens the base station port. Open failures are fatal
// at startup.
func NewSerialTransport(portName string, baud int) (*SerialTransport, error) {
	mode := &serial.Mode{BaudRate: baud}
	port, err := serial.Open(portName, mode)
	if err != nil {
		return nil, fmt.Errorf("serial: open %s: %w", portName, err)
	}
	if err := port.SetReadTimeout(serialReadTimeout); err != nil {
		_ = port.Close()
		return nil, fmt.Errorf("serial: set timeout: %w", err)
	}
	telemetry.Infof("base station connected on %s @ %d baud", portName, baud)
	return &SerialTransport{port: port, readBuf: make([]byte, 512)}, nil
}

// Send implements Transport. Encode or write failures drop this tick's
// commands; the loop continues.
func (t *SerialTransport) Send(cmds command.Map) (map[world.RobotID]input.Feedback, error) {
	frame, err := EncodeCommands(cmds)
	if err != nil {
		return nil, err
	}
	if err := t.port.ResetInputBuffer(); err != nil {
		telemetry.Debugf("serial: reset input: %v", err)
	}
	if _, err := t.port.Write(frame); err != nil {
		return nil, fmt.Errorf("serial: write: %w", err)
	}
	return t.readFeedback(), nil
}

// readFeedback reads at most one feedback frame. No feedback in time is
// normal, not an error.
func (t *SerialTransport) readFeedback() map[world.RobotID]input.Feedback {
	n, err := t.port.Read(t.readBuf)
	if err != nil || n == 0 {
		return nil
	}
	fb, err := DecodeFeedback(t.readBuf[:n])
	if err != nil {
		telemetry.Errorf("serial: feedback decode: %v", err)
		return nil
	}
	return fb
}

// Close sends the all-stop burst and releases the port. The zero packet
// goes out twice: a robot with its antenna in TX mode misses the first.
func (t *SerialTransport) Close() {
	t.closeOnce.Do(func() {
		stop := make(command.Map, world.MaxRobots)
		for id := 0; id < world.MaxRobots; id++ {
			stop[world.RobotID(id)] = command.Command{}
		}
		for i := 0; i < 2; i++ {
			if _, err := t.Send(stop); err != nil {
				telemetry.Errorf("serial: stop burst: %v", err)
			}
		}
		_ = t.port.Close()
	})
}

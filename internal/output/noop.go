package output

import (
	"sslcoach/internal/command"
	"sslcoach/internal/input"
	"sslcoach/internal/world"
)

// NoOpTransport is a dummy transport for runs without the base station
// (pure simulation or bring-up on a laptop). Commands vanish, feedback is
// empty, Close is instant.
type NoOpTransport struct{}

// NewNoOpTransport creates the dummy transport.
func NewNoOpTransport() *NoOpTransport { return &NoOpTransport{} }

// Send implements Transport and drops everything.
func (*NoOpTransport) Send(cmds command.Map) (map[world.RobotID]input.Feedback, error) {
	return nil, nil
}

// Close does nothing - there is no device to release.
func (*NoOpTransport) Close() {}

package decision

import (
	"sslcoach/internal/command"
	"sslcoach/internal/tool"
	"sslcoach/internal/world"
)

// ManualPipeline is a bring-up manager: it drives one robot slowly forward
// and nothing else. Useful to validate the transport end to end.
type ManualPipeline struct {
	ID world.RobotID
}

// Step implements Manager.
func (m *ManualPipeline) Step(w *world.World, tools *tool.Data, aw *ActionWrapper) {
	aw.Clear(m.ID)
	aw.Push(m.ID, RawOrder{Command: command.Command{ForwardVelocity: 1}})
}

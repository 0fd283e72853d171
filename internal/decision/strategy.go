package decision

import (
	"sslcoach/internal/tool"
	"sslcoach/internal/world"
)

// KeeperID is the designated goalkeeper. The keeper strategy is pinned to
// this id for the whole run.
const KeeperID world.RobotID = 0

// Strategy is a role-like policy driving one or more robots. Step pushes
// at most one high-level action per owned robot per tick and reports
// whether the strategy has finished its job.
type Strategy interface {
	Name() string
	GetIDs() []world.RobotID
	PutIDs(ids []world.RobotID)
	// TakeMessages drains the strategy's outbox.
	TakeMessages() []MessageData
	Step(w *world.World, tools *tool.Data, aw *ActionWrapper) bool
}

// outbox is the common message buffer strategies embed.
type outbox struct {
	messages []MessageData
}

func (o *outbox) send(id world.RobotID, m Message) {
	o.messages = append(o.messages, MessageData{Message: m, ID: id})
}

// TakeMessages drains the outbox.
func (o *outbox) TakeMessages() []MessageData {
	out := o.messages
	o.messages = nil
	return out
}

// singleID is the id bookkeeping strategies owning exactly one robot embed.
type singleID struct {
	id world.RobotID
}

func (s *singleID) GetIDs() []world.RobotID { return []world.RobotID{s.id} }

func (s *singleID) PutIDs(ids []world.RobotID) {
	if len(ids) == 1 {
		s.id = ids[0]
	}
}

// multiID is the id bookkeeping for formation strategies.
type multiID struct {
	ids []world.RobotID
}

func (m *multiID) GetIDs() []world.RobotID {
	out := make([]world.RobotID, len(m.ids))
	copy(out, m.ids)
	return out
}

func (m *multiID) PutIDs(ids []world.RobotID) { m.ids = ids }

package world

// World is the consolidated view handed to the decision stage each tick.
// The filter stage owns the writes; everyone else reads.
type World struct {
	TeamColor     TeamColor           `json:"teamColor"`
	PositiveHalf  TeamColor           `json:"positiveHalf"`
	Geometry      Geometry            `json:"geometry"`
	AlliesBot     RobotMap[AllyInfo]  `json:"alliesBot"`
	EnemiesBot    RobotMap[EnemyInfo] `json:"enemiesBot"`
	Ball          *Ball               `json:"ball,omitempty"`
	RefOrders     RefereeOrders       `json:"refOrders"`
	AllyScore     uint32              `json:"allyScore"`
	EnemyScore    uint32              `json:"enemyScore"`
	KickedOffOnce bool                `json:"kickedOffOnce"`
}

// NewWorld builds an empty world for the given ally color. Until the
// referee says otherwise, the enemy is assumed on the positive half.
func NewWorld(teamColor TeamColor) *World {
	return &World{
		TeamColor:    teamColor,
		PositiveHalf: teamColor.Opposite(),
		Geometry:     DefaultGeometry(),
		AlliesBot:    make(RobotMap[AllyInfo]),
		EnemiesBot:   make(RobotMap[EnemyInfo]),
		RefOrders:    DefaultRefereeOrders(),
	}
}

// Snapshot deep-copies the world. The tool stage ships snapshots so the
// observer socket never aliases loop-owned state.
func (w *World) Snapshot() *World {
	snap := *w
	snap.AlliesBot = make(RobotMap[AllyInfo], len(w.AlliesBot))
	for id, r := range w.AlliesBot {
		c := *r
		snap.AlliesBot[id] = &c
	}
	snap.EnemiesBot = make(RobotMap[EnemyInfo], len(w.EnemiesBot))
	for id, r := range w.EnemiesBot {
		c := *r
		snap.EnemiesBot[id] = &c
	}
	if w.Ball != nil {
		b := *w.Ball
		if w.Ball.Possession != nil {
			p := *w.Ball.Possession
			b.Possession = &p
		}
		if w.Ball.LastTouch != nil {
			t := *w.Ball.LastTouch
			b.LastTouch = &t
		}
		snap.Ball = &b
	}
	if w.RefOrders.DesignatedPosition != nil {
		p := *w.RefOrders.DesignatedPosition
		snap.RefOrders.DesignatedPosition = &p
	}
	if w.RefOrders.Event != nil {
		e := *w.RefOrders.Event
		snap.RefOrders.Event = &e
	}
	return &snap
}

// EnemyKeeperID guesses the opponent keeper: the enemy closest to the enemy
// goal center. Used to seed the marking exclusion set.
func (w *World) EnemyKeeperID() (RobotID, bool) {
	keeper := ClosestRobot(w.EnemiesBot.Values(), w.Geometry.EnemyGoal.Center())
	if keeper == nil {
		return 0, false
	}
	return keeper.ID, true
}

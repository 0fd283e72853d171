package world

import (
	"testing"
	"time"

	"sslcoach/internal/geom"
)

func allyAt(id RobotID, x, y float64) *Robot[AllyInfo] {
	return &Robot[AllyInfo]{ID: id, Pose: NewPose(geom.Vec2{X: x, Y: y}, 0)}
}

// TestTeamColorOpposite checks both directions.
func TestTeamColorOpposite(t *testing.T) {
	if Blue.Opposite() != Yellow || Yellow.Opposite() != Blue {
		t.Error("Opposite is not an involution")
	}
}

// TestClosestRobots sorts ascending and breaks ties by id.
func TestClosestRobots(t *testing.T) {
	robots := []*Robot[AllyInfo]{
		allyAt(3, 2, 0),
		allyAt(1, 1, 0),
		allyAt(5, 1, 0), // same distance as id 1
		allyAt(2, 4, 0),
	}
	got := ClosestRobots(robots, geom.Vec2{})
	wantOrder := []RobotID{1, 5, 3, 2}
	for i, id := range wantOrder {
		if got[i].ID != id {
			t.Fatalf("position %d: got id %d, want %d", i, got[i].ID, id)
		}
	}
}

// TestClosestRobotEmpty returns nil for no robots.
func TestClosestRobotEmpty(t *testing.T) {
	if ClosestRobot([]*Robot[AllyInfo]{}, geom.Vec2{}) != nil {
		t.Error("expected nil for empty slice")
	}
}

// TestFilterRobots covers the id and position filters.
func TestFilterRobots(t *testing.T) {
	robots := []*Robot[AllyInfo]{allyAt(0, -1, 0), allyAt(1, 1, 0), allyAt(2, -2, 0)}

	notIn := FilterRobotsNotInIDs(robots, []RobotID{1})
	if len(notIn) != 2 || notIn[0].ID != 0 || notIn[1].ID != 2 {
		t.Errorf("FilterRobotsNotInIDs = %v", ids(notIn))
	}

	in := FilterRobotsInIDs(robots, []RobotID{1, 2})
	if len(in) != 2 || in[0].ID != 1 || in[1].ID != 2 {
		t.Errorf("FilterRobotsInIDs = %v", ids(in))
	}

	behind := FilterRobotsBehindPoint(robots, geom.Vec2{X: 0})
	if len(behind) != 2 || behind[0].ID != 0 || behind[1].ID != 2 {
		t.Errorf("FilterRobotsBehindPoint = %v", ids(behind))
	}
}

func ids[T any](robots []*Robot[T]) []RobotID {
	out := make([]RobotID, len(robots))
	for i, r := range robots {
		out[i] = r.ID
	}
	return out
}

// TestSnapshotIndependence mutates the original after snapshotting and
// verifies the copy is unaffected.
func TestSnapshotIndependence(t *testing.T) {
	w := NewWorld(Blue)
	w.AlliesBot[1] = allyAt(1, 1, 1)
	possession := Blue
	w.Ball = &Ball{
		Position:   geom.Vec3{X: 0.5},
		Timestamp:  time.Now(),
		Possession: &possession,
	}

	snap := w.Snapshot()

	w.AlliesBot[1].Pose.Position.X = 99
	w.Ball.Position.X = 99
	*w.Ball.Possession = Yellow

	if snap.AlliesBot[1].Pose.Position.X != 1 {
		t.Error("snapshot robot aliases the original")
	}
	if snap.Ball.Position.X != 0.5 {
		t.Error("snapshot ball aliases the original")
	}
	if *snap.Ball.Possession != Blue {
		t.Error("snapshot possession aliases the original")
	}
}

// TestEnemyKeeperID picks the enemy closest to the enemy goal center.
func TestEnemyKeeperID(t *testing.T) {
	w := NewWorld(Blue)
	if _, ok := w.EnemyKeeperID(); ok {
		t.Fatal("no enemies should mean no keeper")
	}
	w.EnemiesBot[2] = &Robot[EnemyInfo]{ID: 2, Pose: NewPose(geom.Vec2{X: 4.2, Y: 0}, 0)}
	w.EnemiesBot[7] = &Robot[EnemyInfo]{ID: 7, Pose: NewPose(geom.Vec2{X: 1, Y: 0}, 0)}
	id, ok := w.EnemyKeeperID()
	if !ok || id != 2 {
		t.Errorf("EnemyKeeperID = %d, %v; want 2, true", id, ok)
	}
}

// TestSpeedLimits pins the per-phase caps.
func TestSpeedLimits(t *testing.T) {
	tests := []struct {
		state GameState
		want  float64
	}{
		{Halted(SubHalt), 0},
		{Halted(SubGameNotStarted), 0},
		{Stopped(SubStop), 1.5},
		{Running(SubNormalPlay), MaxSpeedRunning},
	}
	for _, tt := range tests {
		if got := SpeedLimitDuring(tt.state); got != tt.want {
			t.Errorf("SpeedLimitDuring(%v) = %v, want %v", tt.state, got, tt.want)
		}
	}
	if MinDistFromBallDuring(Stopped(SubStop)) != 1.5 {
		t.Error("stopped keep-away should be 1.5")
	}
	if MinDistFromBallDuring(Running(SubNormalPlay)) != 0 {
		t.Error("running should have no keep-away")
	}
}

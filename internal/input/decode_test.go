package input

import (
	"testing"

	"sslcoach/internal/world"
)

// TestDecodeDetection converts millimeters to meters and defaults a
// missing orientation to zero.
func TestDecodeDetection(t *testing.T) {
	payload := []byte(`{
		"detection": {
			"camera_id": 1,
			"frame_number": 42,
			"t_capture": 1700000000.5,
			"robots_blue": [
				{"robot_id": 3, "x": 1500, "y": -500, "orientation": 1.57},
				{"robot_id": 4, "x": 0, "y": 0}
			],
			"robots_yellow": [{"robot_id": 0, "x": -2000, "y": 1000, "orientation": 0}],
			"balls": [{"x": 250, "y": 0, "z": 42}]
		}
	}`)

	frame, geo, err := JSONVisionDecoder{}.DecodeDetection(payload)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if geo != nil {
		t.Error("no geometry expected")
	}
	if frame.CameraID != 1 || frame.FrameNumber != 42 {
		t.Errorf("frame header = %+v", frame)
	}
	if len(frame.RobotsBlue) != 2 || len(frame.RobotsYellow) != 1 {
		t.Fatalf("robot counts = %d blue, %d yellow", len(frame.RobotsBlue), len(frame.RobotsYellow))
	}

	r := frame.RobotsBlue[0]
	if r.ID != 3 || r.Position.X != 1.5 || r.Position.Y != -0.5 || r.Orientation != 1.57 {
		t.Errorf("robot 3 = %+v", r)
	}
	if frame.RobotsBlue[1].Orientation != 0 {
		t.Errorf("missing orientation should default to 0, got %v", frame.RobotsBlue[1].Orientation)
	}

	if len(frame.Balls) != 1 {
		t.Fatalf("ball count = %d", len(frame.Balls))
	}
	b := frame.Balls[0]
	if b.Position.X != 0.25 || b.Position.Z != 0.042 {
		t.Errorf("ball = %+v", b.Position)
	}
}

// TestDecodeDetectionDropsInvalidIDs ignores robots without an id or with
// one beyond the cap.
func TestDecodeDetectionDropsInvalidIDs(t *testing.T) {
	payload := []byte(`{
		"detection": {
			"camera_id": 0, "frame_number": 1, "t_capture": 1,
			"robots_blue": [{"x": 1, "y": 1}, {"robot_id": 99, "x": 1, "y": 1}],
			"robots_yellow": [], "balls": []
		}
	}`)
	frame, _, err := JSONVisionDecoder{}.DecodeDetection(payload)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(frame.RobotsBlue) != 0 {
		t.Errorf("kept %d invalid robots", len(frame.RobotsBlue))
	}
}

// TestDecodeRefereeNormalizesTeams maps the wire team blocks onto
// ally/enemy for both of our colors.
func TestDecodeRefereeNormalizesTeams(t *testing.T) {
	payload := []byte(`{
		"command": {"type": "DIRECT_FREE", "team": "YELLOW"},
		"yellow": {"name": "us-or-them", "score": 3},
		"blue": {"name": "the-others", "score": 1},
		"designated_position": {"x": 1000, "y": -500},
		"blue_team_on_positive_half": true
	}`)

	asYellow, err := JSONRefereeDecoder{AllyIsYellow: true}.DecodeReferee(payload)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if asYellow.Ally.Score != 3 || asYellow.Enemy.Score != 1 {
		t.Errorf("yellow ally scores = %d:%d, want 3:1", asYellow.Ally.Score, asYellow.Enemy.Score)
	}
	if asYellow.Command.Kind != CmdDirectFree || asYellow.Command.Team != world.Yellow {
		t.Errorf("command = %+v", asYellow.Command)
	}
	if asYellow.DesignatedPosition == nil || asYellow.DesignatedPosition.X != 1 || asYellow.DesignatedPosition.Y != -0.5 {
		t.Errorf("designated position = %+v", asYellow.DesignatedPosition)
	}
	if asYellow.PositiveHalf == nil || *asYellow.PositiveHalf != world.Blue {
		t.Errorf("positive half = %v, want blue", asYellow.PositiveHalf)
	}

	asBlue, err := JSONRefereeDecoder{AllyIsYellow: false}.DecodeReferee(payload)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if asBlue.Ally.Score != 1 || asBlue.Enemy.Score != 3 {
		t.Errorf("blue ally scores = %d:%d, want 1:3", asBlue.Ally.Score, asBlue.Enemy.Score)
	}
}

// TestDecodeRefereeUnknownCommand lands in the deprecated branch.
func TestDecodeRefereeUnknownCommand(t *testing.T) {
	payload := []byte(`{"command": {"type": "SOMETHING_NEW"}, "yellow": {}, "blue": {}}`)
	packet, err := JSONRefereeDecoder{}.DecodeReferee(payload)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if packet.Command.Kind != CmdDeprecated {
		t.Errorf("kind = %v, want CmdDeprecated", packet.Command.Kind)
	}
}

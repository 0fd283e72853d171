package input

import (
	"encoding/json"
	"fmt"
	"math"
	"time"

	"sslcoach/internal/geom"
	"sslcoach/internal/world"
)

// The JSON decoders below consume the simulator bridge's re-encoding of
// the league protocols. Wire positions are millimeters; everything is
// converted to meters on entry.

type wireRobot struct {
	RobotID     *uint32  `json:"robot_id"`
	X           float64  `json:"x"`
	Y           float64  `json:"y"`
	Orientation *float64 `json:"orientation"`
}

type wireBall struct {
	X float64  `json:"x"`
	Y float64  `json:"y"`
	Z *float64 `json:"z"`
}

type wireDetection struct {
	CameraID     uint32      `json:"camera_id"`
	FrameNumber  uint32      `json:"frame_number"`
	TCapture     float64     `json:"t_capture"`
	RobotsBlue   []wireRobot `json:"robots_blue"`
	RobotsYellow []wireRobot `json:"robots_yellow"`
	Balls        []wireBall  `json:"balls"`
}

type wireGeometry struct {
	FieldLength  float64 `json:"field_length"`
	FieldWidth   float64 `json:"field_width"`
	GoalWidth    float64 `json:"goal_width"`
	GoalDepth    float64 `json:"goal_depth"`
	PenaltyWidth float64 `json:"penalty_area_width"`
	PenaltyDepth float64 `json:"penalty_area_depth"`
}

type wireVisionPacket struct {
	Detection *wireDetection `json:"detection"`
	Geometry  *wireGeometry  `json:"geometry"`
}

// JSONVisionDecoder decodes simulator bridge vision packets.
type JSONVisionDecoder struct{}

// DecodeDetection implements VisionDecoder.
func (JSONVisionDecoder) DecodeDetection(payload []byte) (*CamFrame, *CamGeometry, error) {
	var packet wireVisionPacket
	if err := json.Unmarshal(payload, &packet); err != nil {
		return nil, nil, fmt.Errorf("vision json: %w", err)
	}

	var frame *CamFrame
	if d := packet.Detection; d != nil {
		capture := timeFromSeconds(d.TCapture)
		frame = &CamFrame{
			CameraID:     d.CameraID,
			FrameNumber:  d.FrameNumber,
			TCapture:     capture,
			RobotsBlue:   decodeRobots(d.RobotsBlue, d.CameraID, d.FrameNumber, capture),
			RobotsYellow: decodeRobots(d.RobotsYellow, d.CameraID, d.FrameNumber, capture),
		}
		for _, b := range d.Balls {
			z := 0.0
			if b.Z != nil {
				z = *b.Z
			}
			frame.Balls = append(frame.Balls, CamBall{
				CameraID:    d.CameraID,
				FrameNumber: d.FrameNumber,
				Position:    geom.Vec3{X: b.X / 1000, Y: b.Y / 1000, Z: z / 1000},
				Time:        capture,
			})
		}
	}

	var geo *CamGeometry
	if g := packet.Geometry; g != nil {
		geo = &CamGeometry{
			FieldLength:  g.FieldLength / 1000,
			FieldWidth:   g.FieldWidth / 1000,
			GoalWidth:    g.GoalWidth / 1000,
			GoalDepth:    g.GoalDepth / 1000,
			PenaltyWidth: g.PenaltyWidth / 1000,
			PenaltyDepth: g.PenaltyDepth / 1000,
		}
	}
	return frame, geo, nil
}

func decodeRobots(robots []wireRobot, camera, frame uint32, capture time.Time) []CamRobot {
	out := make([]CamRobot, 0, len(robots))
	for _, r := range robots {
		if r.RobotID == nil || *r.RobotID >= world.MaxRobots {
			continue
		}
		orientation := 0.0
		if r.Orientation != nil {
			orientation = *r.Orientation
		}
		out = append(out, CamRobot{
			ID:          world.RobotID(*r.RobotID),
			CameraID:    camera,
			FrameNumber: frame,
			Position:    geom.Vec2{X: r.X / 1000, Y: r.Y / 1000},
			Orientation: orientation,
			Time:        capture,
		})
	}
	return out
}

type wireCommand struct {
	Type string `json:"type"`
	Team string `json:"team,omitempty"`
}

type wireTeamInfo struct {
	Name  string `json:"name"`
	Score uint32 `json:"score"`
}

type wirePoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type wireReferee struct {
	Command            wireCommand   `json:"command"`
	NextCommand        *wireCommand  `json:"next_command"`
	Yellow             wireTeamInfo  `json:"yellow"`
	Blue               wireTeamInfo  `json:"blue"`
	DesignatedPosition *wirePoint    `json:"designated_position"`
	BlueTeamOnPositive *bool         `json:"blue_team_on_positive_half"`
	GameEvents         []wireCommand `json:"game_events"`
}

// JSONRefereeDecoder decodes simulator bridge referee packets and
// normalizes the two team blocks so Ally is always our team.
type JSONRefereeDecoder struct {
	AllyIsYellow bool
}

// DecodeReferee implements RefereeDecoder.
func (d JSONRefereeDecoder) DecodeReferee(payload []byte) (*RefereePacket, error) {
	var w wireReferee
	if err := json.Unmarshal(payload, &w); err != nil {
		return nil, fmt.Errorf("referee json: %w", err)
	}

	packet := &RefereePacket{
		Command: d.decodeCommand(w.Command),
	}
	if w.NextCommand != nil {
		next := d.decodeCommand(*w.NextCommand)
		packet.NextCommand = &next
	}
	if d.AllyIsYellow {
		packet.Ally = TeamInfo{Name: w.Yellow.Name, Score: w.Yellow.Score}
		packet.Enemy = TeamInfo{Name: w.Blue.Name, Score: w.Blue.Score}
	} else {
		packet.Ally = TeamInfo{Name: w.Blue.Name, Score: w.Blue.Score}
		packet.Enemy = TeamInfo{Name: w.Yellow.Name, Score: w.Yellow.Score}
	}
	if w.DesignatedPosition != nil {
		p := geom.Vec2{X: w.DesignatedPosition.X / 1000, Y: w.DesignatedPosition.Y / 1000}
		packet.DesignatedPosition = &p
	}
	if w.BlueTeamOnPositive != nil {
		half := world.Yellow
		if *w.BlueTeamOnPositive {
			half = world.Blue
		}
		packet.PositiveHalf = &half
	}
	for _, e := range w.GameEvents {
		packet.GameEvents = append(packet.GameEvents, world.GameEvent{Type: e.Type})
	}
	return packet, nil
}

func (d JSONRefereeDecoder) decodeCommand(w wireCommand) RefereeCommand {
	team := world.Blue
	if w.Team == "YELLOW" {
		team = world.Yellow
	}
	switch w.Type {
	case "HALT":
		return RefereeCommand{Kind: CmdHalt}
	case "STOP":
		return RefereeCommand{Kind: CmdStop}
	case "NORMAL_START":
		return RefereeCommand{Kind: CmdNormalStart}
	case "FORCE_START":
		return RefereeCommand{Kind: CmdForceStart}
	case "PREPARE_KICKOFF":
		return RefereeCommand{Kind: CmdPrepareKickoff, Team: team}
	case "PREPARE_PENALTY":
		return RefereeCommand{Kind: CmdPreparePenalty, Team: team}
	case "DIRECT_FREE":
		return RefereeCommand{Kind: CmdDirectFree, Team: team}
	case "INDIRECT_FREE":
		return RefereeCommand{Kind: CmdIndirectFree, Team: team}
	case "TIMEOUT":
		return RefereeCommand{Kind: CmdTimeout, Team: team}
	case "GOAL":
		return RefereeCommand{Kind: CmdGoal, Team: team}
	case "BALL_PLACEMENT":
		return RefereeCommand{Kind: CmdBallPlacement, Team: team}
	default:
		return RefereeCommand{Kind: CmdDeprecated}
	}
}

func timeFromSeconds(s float64) time.Time {
	sec, frac := math.Modf(s)
	return time.Unix(int64(sec), int64(frac*1e9))
}

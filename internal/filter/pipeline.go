package filter

import (
	"sslcoach/internal/input"
	"sslcoach/internal/metrics"
	"sslcoach/internal/world"
)

// Filter smooths raw packets into tracked entity data. Filters run before
// post-filters and only touch the stage's own Data.
type Filter interface {
	Step(d *Data, w *world.World)
}

// PostFilter derives world-level facts from the tracked entities.
type PostFilter interface {
	Step(d *Data, w *world.World)
}

// Pipeline is the filter stage: deposit raw packets, run the filter chain,
// then the post-filter chain, in declared order.
type Pipeline struct {
	yellow      bool
	data        *Data
	filters     []Filter
	postFilters []PostFilter
}

// NewPipeline builds the default chain for the given ally color.
func NewPipeline(yellow bool) *Pipeline {
	return &Pipeline{
		yellow: yellow,
		data:   NewData(),
		filters: []Filter{
			NewTrackingFilter(defaultSmoothingWindow),
			&TeamSideFilter{},
		},
		postFilters: []PostFilter{
			&GeometryFilter{},
			&RobotFilter{},
			&BallFilter{},
			NewGameControllerFilter(),
		},
	}
}

// Step consumes the inbound bundle and rewrites the world.
func (p *Pipeline) Step(in *input.Data, w *world.World) {
	p.deposit(in)
	for _, f := range p.filters {
		f.Step(p.data, w)
	}
	for _, f := range p.postFilters {
		f.Step(p.data, w)
	}
	// Referee packets are consumed by this tick's post-filters.
	p.data.Referee = p.data.Referee[:0]
	metrics.UpdateTracked(len(w.AlliesBot), len(w.EnemiesBot), w.Ball != nil)
}

// deposit files each camera detection with its tracked entity.
func (p *Pipeline) deposit(in *input.Data) {
	p.data.BallSeenThisTick = false
	for _, frame := range in.Vision {
		allies, enemies := frame.RobotsBlue, frame.RobotsYellow
		if p.yellow {
			allies, enemies = enemies, allies
		}
		for _, r := range allies {
			tracked, ok := p.data.Allies[r.ID]
			if !ok {
				tracked = newTrackedRobot[world.AllyInfo](r.ID)
				p.data.Allies[r.ID] = tracked
			}
			tracked.Packets.Push(r)
		}
		for _, r := range enemies {
			tracked, ok := p.data.Enemies[r.ID]
			if !ok {
				tracked = newTrackedRobot[world.EnemyInfo](r.ID)
				p.data.Enemies[r.ID] = tracked
			}
			tracked.Packets.Push(r)
		}
		for _, b := range frame.Balls {
			if p.data.Ball == nil {
				p.data.Ball = newTrackedBall()
			}
			p.data.Ball.Packets.Push(b)
			p.data.BallSeenThisTick = true
		}
	}
	for i := range in.Geometry {
		p.data.Geometry = &in.Geometry[i]
	}
	p.data.Referee = append(p.data.Referee, in.Referee...)
	for id, fb := range in.Feedback {
		p.data.Feedback[id] = fb
	}
}

// Close releases nothing today; the stage owns no sockets.
func (p *Pipeline) Close() {}

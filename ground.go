package game

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"ittybitycity/game/geom"
)

var down = mgl32.Vec3{0, -1, 0}

// probeGround finds the elevation of the nearest walkable surface under pos,
// re-casting past steep hits so only nearest-hit queries are required of the
// backend. Hits without normals count as walkable. Pure: no state touched.
func probeGround(caster geom.Raycaster, pos mgl32.Vec3, p Params) (float32, bool) {
	if caster == nil {
		return 0, false
	}
	origin := pos.Add(mgl32.Vec3{0, p.GroundProbeRise, 0})
	remaining := p.GroundProbeRise + p.GroundProbeDepth
	for i := 0; i < groundProbeHops; i++ {
		hit, ok := caster.CastRay(origin, down, remaining)
		if !ok {
			return 0, false
		}
		if !hit.HasNormal || hit.Normal.Y() > p.WalkableNormalY {
			return hit.Point.Y(), true
		}
		advance := hit.Distance + p.MotionEpsilon
		origin = origin.Add(down.Mul(advance))
		remaining -= advance
		if remaining <= 0 {
			return 0, false
		}
	}
	return 0, false
}

// resolveVertical applies the step-up and landing policy after horizontal
// resolution. Grounded bodies snap across height changes within the step
// height and lose support beyond it; airborne bodies land once they are
// falling and their feet reach the surface. The abyss net rescues anything
// that slipped through the level.
func (s *Simulation) resolveVertical() {
	p := &s.player
	groundY, found := probeGround(s.caster, p.Position, s.params)

	switch {
	case !found:
		p.leaveGround()
	case p.OnGround():
		if math32.Abs(groundY-p.GroundHeight) <= s.params.StepHeight {
			p.landAt(groundY, s.params.BodyHeight)
		} else {
			p.leaveGround()
		}
	default:
		feet := p.Position.Y() - s.params.BodyHeight
		if p.Velocity.Y() <= 0 && feet <= groundY+s.params.MotionEpsilon {
			p.landAt(groundY, s.params.BodyHeight)
		}
	}

	if p.Position.Y() < s.params.AbyssY {
		s.recover()
	}
}

// recover rescues a body lost below the abyss line.
func (s *Simulation) recover() {
	s.player.Position = s.params.RecoveryPoint
	s.player.Velocity = mgl32.Vec3{}
	s.player.Stance = StanceAirborne
	s.player.GroundHeight = s.params.RecoveryPoint.Y()
}

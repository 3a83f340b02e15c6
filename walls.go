package game

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"ittybitycity/game/geom"
)

var wallProbeFractions = [3]float32{wallProbeLow, wallProbeMid, wallProbeHigh}

// isWall classifies a hit as a mostly-vertical surface. Upward-facing hits
// belong to the ground probe; hits without normals classify as walls so
// simplified geometry still blocks.
func isWall(hit geom.Hit, p Params) bool {
	if !hit.HasNormal {
		return true
	}
	return math32.Abs(hit.Normal.Y()) < p.WallNormalYMax
}

// resolveWalls clips a horizontal step against nearby vertical surfaces.
// Rays at three body heights pick the nearest wall along the step, the
// into-wall component of the step is removed, and radial probes push the
// result out of corners the directional rays missed. Steps below the motion
// epsilon pass through untouched.
func (s *Simulation) resolveWalls(from, step mgl32.Vec3) mgl32.Vec3 {
	p := s.params
	travel := math32.Hypot(step.X(), step.Z())
	if s.caster == nil || travel < p.MotionEpsilon {
		return from.Add(step)
	}
	dir := mgl32.Vec3{step.X() / travel, 0, step.Z() / travel}
	feet := from.Y() - p.BodyHeight

	var nearest geom.Hit
	found := false
	for _, f := range wallProbeFractions {
		origin := mgl32.Vec3{from.X(), feet + f*p.BodyHeight, from.Z()}
		hit, ok := s.caster.CastRay(origin, dir, travel+p.CollisionRadius)
		if !ok || !isWall(hit, p) {
			continue
		}
		if !found || hit.Distance < nearest.Distance {
			nearest = hit
			found = true
		}
	}

	resolved := step
	if found {
		resolved = slide(step, nearest, p)
	}
	return s.pushOut(from.Add(resolved))
}

// slide removes the into-wall component of a horizontal step, keeping the
// tangential part so the body skims along the surface instead of stopping
// dead. A wall without a usable normal stops the step entirely.
func slide(step mgl32.Vec3, wall geom.Hit, p Params) mgl32.Vec3 {
	n := mgl32.Vec3{wall.Normal.X(), 0, wall.Normal.Z()}
	if !wall.HasNormal || n.Len() < p.MotionEpsilon {
		return mgl32.Vec3{}
	}
	n = n.Normalize()
	dot := step.X()*n.X() + step.Z()*n.Z()
	if dot >= 0 {
		return step
	}
	return step.Sub(n.Mul(dot))
}

// pushOut nudges a resolved position away from any wall closer than the
// collision radius, probing a fixed ring of directions at mid-body height.
// Passes repeat until one reports no penetration or the cap is reached.
func (s *Simulation) pushOut(pos mgl32.Vec3) mgl32.Vec3 {
	p := s.params
	height := pos.Y() - p.BodyHeight + wallProbeMid*p.BodyHeight
	for pass := 0; pass < pushOutPasses; pass++ {
		corrected := false
		for i := 0; i < pushOutProbes; i++ {
			angle := 2 * math32.Pi * float32(i) / pushOutProbes
			sin, cos := math32.Sincos(angle)
			dir := mgl32.Vec3{cos, 0, sin}
			origin := mgl32.Vec3{pos.X(), height, pos.Z()}
			hit, ok := s.caster.CastRay(origin, dir, p.CollisionRadius)
			if !ok || !isWall(hit, p) {
				continue
			}
			depth := p.CollisionRadius - hit.Distance
			if depth <= 0 {
				continue
			}
			pos = pos.Sub(dir.Mul(depth))
			corrected = true
		}
		if !corrected {
			break
		}
	}
	return pos
}

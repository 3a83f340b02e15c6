package geom

import (
	"github.com/ethaniccc/float32-cube/cube"
	"github.com/ethaniccc/float32-cube/cube/trace"
	"github.com/go-gl/mathgl/mgl32"
)

// Surface is one solid axis-aligned box in a level's collision set.
type Surface struct {
	Name string
	Box  cube.BBox
}

// BoxWorld is an append-only set of solid boxes. It implements Raycaster
// with exact face normals.
type BoxWorld struct {
	surfaces []Surface
}

func NewBoxWorld(surfaces []Surface) *BoxWorld {
	return &BoxWorld{surfaces: surfaces}
}

// Add appends surfaces; existing ones are never mutated.
func (w *BoxWorld) Add(surfaces ...Surface) {
	w.surfaces = append(w.surfaces, surfaces...)
}

func (w *BoxWorld) Len() int { return len(w.surfaces) }

// CastRay scans every surface and keeps the nearest intercept. Surfaces are
// visited in insertion order so ties resolve identically on every call.
func (w *BoxWorld) CastRay(origin, dir mgl32.Vec3, maxDist float32) (Hit, bool) {
	if w == nil || maxDist <= 0 {
		return Hit{}, false
	}
	end := origin.Add(dir.Mul(maxDist))
	best := Hit{Distance: maxDist + 1}
	found := false
	for _, s := range w.surfaces {
		res, ok := trace.BBoxIntercept(s.Box, origin, end)
		if !ok {
			continue
		}
		dist := res.Position().Sub(origin).Len()
		if dist >= best.Distance {
			continue
		}
		best = Hit{
			Distance:  dist,
			Point:     res.Position(),
			Normal:    faceNormal(res.Face()),
			HasNormal: true,
			Object:    s.Name,
		}
		found = true
	}
	if !found {
		return Hit{}, false
	}
	return best, true
}

// faceNormal maps an intercepted box face to its outward normal.
func faceNormal(f cube.Face) mgl32.Vec3 {
	switch f {
	case cube.FaceUp:
		return mgl32.Vec3{0, 1, 0}
	case cube.FaceDown:
		return mgl32.Vec3{0, -1, 0}
	case cube.FaceNorth:
		return mgl32.Vec3{0, 0, -1}
	case cube.FaceSouth:
		return mgl32.Vec3{0, 0, 1}
	case cube.FaceWest:
		return mgl32.Vec3{-1, 0, 0}
	default:
		return mgl32.Vec3{1, 0, 0}
	}
}

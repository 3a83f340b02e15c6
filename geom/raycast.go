package geom

import "github.com/go-gl/mathgl/mgl32"

// Hit describes the nearest intersection returned by a raycast.
type Hit struct {
	Distance float32
	Point    mgl32.Vec3
	Normal   mgl32.Vec3
	// HasNormal reports whether Normal carries a real surface normal.
	// Simplified collision sets may omit normals entirely.
	HasNormal bool
	Object    string
}

// Raycaster answers nearest-hit queries against a collision geometry set.
// dir must be unit length. Implementations must be deterministic: identical
// rays over identical geometry return identical hits.
type Raycaster interface {
	CastRay(origin, dir mgl32.Vec3, maxDist float32) (Hit, bool)
}

// Plane is an infinite horizontal surface, the collision set the simulation
// falls back to until a level finishes loading.
type Plane struct {
	Height float32
}

// CastRay reports where the ray meets the plane, if it does within maxDist.
func (p Plane) CastRay(origin, dir mgl32.Vec3, maxDist float32) (Hit, bool) {
	if maxDist <= 0 || dir.Y() == 0 {
		return Hit{}, false
	}
	dist := (p.Height - origin.Y()) / dir.Y()
	if dist < 0 || dist > maxDist {
		return Hit{}, false
	}
	normal := mgl32.Vec3{0, 1, 0}
	if origin.Y() < p.Height {
		normal = mgl32.Vec3{0, -1, 0}
	}
	return Hit{
		Distance:  dist,
		Point:     origin.Add(dir.Mul(dist)),
		Normal:    normal,
		HasNormal: true,
		Object:    "plane",
	}, true
}

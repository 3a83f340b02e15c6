package game

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// CameraMode selects how the rig derives its pose from the player.
type CameraMode uint8

const (
	CameraOrbit CameraMode = iota
	CameraFirstPerson
)

func (m CameraMode) String() string {
	if m == CameraFirstPerson {
		return "first-person"
	}
	return "orbit"
}

// CameraState is the rig pose. It is recomputed every frame from the player
// state plus accumulated mouse deltas and never persisted.
type CameraState struct {
	Mode     CameraMode
	Yaw      float32
	Pitch    float32
	Distance float32
	Position mgl32.Vec3
	Target   mgl32.Vec3
}

// updateCamera advances the rig one frame: mouse deltas orbit, the wheel
// zooms, and exponential decay eases the chase position so per-frame probe
// corrections do not jitter the view. First person pins the camera to the
// eye point with the pitch clamped short of flipping.
func (s *Simulation) updateCamera(in InputState, dt float32) {
	c := &s.camera
	p := s.params

	c.Yaw -= in.MouseDX * p.LookSensitivity
	c.Pitch -= in.MouseDY * p.LookSensitivity
	c.Distance = clamp(c.Distance+in.Zoom*p.ZoomSensitivity, p.CameraDistanceMin, p.CameraDistanceMax)
	c.Target = s.player.Position.Add(mgl32.Vec3{0, p.CameraAimOffset, 0})

	switch c.Mode {
	case CameraFirstPerson:
		c.Pitch = clamp(c.Pitch, -firstPersonPitchLimit, firstPersonPitchLimit)
		c.Position = s.player.Position
	default:
		c.Pitch = clamp(c.Pitch, p.OrbitPitchMin, p.OrbitPitchMax)
		desired := c.Target.Add(orbitOffset(c.Yaw, c.Pitch, c.Distance))
		factor := 1 - math32.Exp(-p.CameraSmoothing*dt)
		c.Position = c.Position.Add(desired.Sub(c.Position).Mul(factor))
	}
}

// orbitOffset is the spherical offset from the aim target to the camera, on
// the opposite side of the look direction.
func orbitOffset(yaw, pitch, distance float32) mgl32.Vec3 {
	sy, cy := math32.Sincos(yaw)
	sp, cp := math32.Sincos(pitch)
	return mgl32.Vec3{distance * cp * sy, distance * sp, distance * cp * cy}
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Package game implements the deterministic per-frame movement and collision
// simulation of the walking simulator: kinematic integration, ray-probe
// ground and wall resolution, step-up handling, and the chase camera rig.
//
// The package is pure. It performs no I/O, starts no goroutines, and holds no
// globals; a Simulation has exactly one mutator, the caller stepping it.
package game

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"ittybitycity/game/geom"
)

// Simulation owns the full kinematic state and advances it one frame at a
// time against a swappable collision set.
type Simulation struct {
	params Params
	source InputSource
	caster geom.Raycaster

	player      PlayerState
	camera      CameraState
	tick        uint64
	wallContact bool
}

// NewSimulation builds a simulation over the given collision set. A nil
// source behaves as no input; a nil caster as empty geometry, which means an
// endless fall until a real set is swapped in.
func NewSimulation(params Params, source InputSource, caster geom.Raycaster) *Simulation {
	p := params.Normalized()
	sim := &Simulation{params: p, source: source, caster: caster}
	sim.player = PlayerState{
		Position: mgl32.Vec3{0, p.BodyHeight, 0},
		Stance:   StanceAirborne,
	}
	sim.camera = CameraState{
		Mode:     CameraOrbit,
		Pitch:    defaultCameraPitch,
		Distance: p.CameraDistance,
		Target:   sim.player.Position.Add(mgl32.Vec3{0, p.CameraAimOffset, 0}),
	}
	sim.camera.Position = sim.camera.Target.Add(orbitOffset(0, defaultCameraPitch, p.CameraDistance))
	return sim
}

// Step advances the simulation by dt seconds: sample input, integrate, clip
// against walls, resolve the supporting surface, move the camera. dt is
// clamped so tab stalls cannot destabilize the integration; zero and negative
// dt are no-ops.
func (s *Simulation) Step(dt float32) {
	if dt <= 0 {
		return
	}
	if dt > s.params.MaxDeltaTime {
		dt = s.params.MaxDeltaTime
	}
	var in InputState
	if s.source != nil {
		in = s.source.Sample()
	}

	step := s.integrate(in, dt)
	from := s.player.Position

	resolved := s.resolveWalls(from, step)
	s.wallContact = clippedHorizontal(step, resolved.Sub(from), s.params.MotionEpsilon)
	s.player.Position = resolved

	s.resolveVertical()
	s.updateCamera(in, dt)
	s.tick++
}

// clippedHorizontal reports whether the resolver shortened or redirected the
// intended step by more than the motion epsilon.
func clippedHorizontal(intended, actual mgl32.Vec3, eps float32) bool {
	dx := intended.X() - actual.X()
	dz := intended.Z() - actual.Z()
	return math32.Hypot(dx, dz) > eps
}

func (s *Simulation) Player() PlayerState { return s.player }
func (s *Simulation) Camera() CameraState { return s.camera }
func (s *Simulation) Tick() uint64        { return s.tick }
func (s *Simulation) Params() Params      { return s.params }

// WallContact reports whether the last step was clipped by a wall. Roaming
// input sources use it to steer away.
func (s *Simulation) WallContact() bool { return s.wallContact }

// SetWorld swaps the collision set the probes query. The frame loop is the
// only caller, so the swap is atomic with respect to stepping.
func (s *Simulation) SetWorld(caster geom.Raycaster) {
	s.caster = caster
}

// Teleport drops the body in from a ground-level point: the eye sits one body
// height above it, motion stops, and the next frame resolves support.
func (s *Simulation) Teleport(point mgl32.Vec3) {
	s.player.Position = mgl32.Vec3{point.X(), point.Y() + s.params.BodyHeight, point.Z()}
	s.player.Velocity = mgl32.Vec3{}
	s.player.Stance = StanceAirborne
	s.player.GroundHeight = point.Y()
}

// SetLook overwrites the camera angles, pitch clamped by the active mode.
func (s *Simulation) SetLook(pitch, yaw float32) {
	if s.camera.Mode == CameraFirstPerson {
		pitch = clamp(pitch, -firstPersonPitchLimit, firstPersonPitchLimit)
	} else {
		pitch = clamp(pitch, s.params.OrbitPitchMin, s.params.OrbitPitchMax)
	}
	s.camera.Pitch = pitch
	s.camera.Yaw = yaw
}

// RotateCamera spins the camera yaw by a delta.
func (s *Simulation) RotateCamera(delta float32) {
	s.camera.Yaw += delta
}

// SetFacing overwrites the body's facing yaw. Movement re-derives it on the
// next moving frame.
func (s *Simulation) SetFacing(yaw float32) {
	s.player.Yaw = yaw
}

// SetCameraDistance moves the orbit camera to a distance within the zoom
// range.
func (s *Simulation) SetCameraDistance(distance float32) {
	s.camera.Distance = clamp(distance, s.params.CameraDistanceMin, s.params.CameraDistanceMax)
}

// SetCameraMode switches between the orbit rig and first person.
func (s *Simulation) SetCameraMode(mode CameraMode) {
	s.camera.Mode = mode
}

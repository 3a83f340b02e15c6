package game

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// wishDirection composes the camera-relative unit movement direction from the
// held keys. Diagonals normalize so they are no faster than a single axis.
// At camera yaw zero, forward decreases z.
func wishDirection(in InputState, cameraYaw float32) (mgl32.Vec3, bool) {
	var x, z float32
	if in.Forward {
		z--
	}
	if in.Backward {
		z++
	}
	if in.Left {
		x--
	}
	if in.Right {
		x++
	}
	if x == 0 && z == 0 {
		return mgl32.Vec3{}, false
	}
	inv := 1 / math32.Sqrt(x*x+z*z)
	return rotateY(mgl32.Vec3{x * inv, 0, z * inv}, cameraYaw), true
}

// rotateY spins v around the world up axis.
func rotateY(v mgl32.Vec3, angle float32) mgl32.Vec3 {
	sin, cos := math32.Sincos(angle)
	return mgl32.Vec3{
		v.X()*cos + v.Z()*sin,
		v.Y(),
		-v.X()*sin + v.Z()*cos,
	}
}

// integrate advances the body by one frame of input. It returns the
// horizontal displacement candidate for the wall resolver and applies the
// vertical step unconditionally; collision resolution runs afterwards.
func (s *Simulation) integrate(in InputState, dt float32) mgl32.Vec3 {
	p := &s.player
	p.Running = in.Run

	var step mgl32.Vec3
	if dir, moving := wishDirection(in, s.camera.Yaw); moving {
		speed := s.params.BaseSpeed
		if p.Running {
			speed *= s.params.RunMultiplier
		}
		step = dir.Mul(speed * dt)
		p.Yaw = math32.Atan2(dir.X(), dir.Z())
	}

	if in.Jump && p.OnGround() {
		p.takeOff(s.params.JumpImpulse)
	}
	p.Velocity[1] -= s.params.Gravity * dt
	p.Position[1] += p.Velocity[1] * dt
	return step
}

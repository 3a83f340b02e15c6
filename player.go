package game

import "github.com/go-gl/mathgl/mgl32"

// Stance is the vertical contact state of the kinematic body. There are no
// other states.
type Stance uint8

const (
	StanceGrounded Stance = iota
	StanceAirborne
)

func (s Stance) String() string {
	if s == StanceGrounded {
		return "grounded"
	}
	return "airborne"
}

// PlayerState is the authoritative kinematic body. Position is the eye
// reference point, not the feet; only the vertical velocity component is
// integrated.
type PlayerState struct {
	Position     mgl32.Vec3
	Velocity     mgl32.Vec3
	Yaw          float32
	Running      bool
	Stance       Stance
	GroundHeight float32
}

func (p *PlayerState) OnGround() bool {
	return p.Stance == StanceGrounded
}

// landAt snaps the body onto a supporting surface and kills vertical motion.
func (p *PlayerState) landAt(groundY, bodyHeight float32) {
	p.Position[1] = groundY + bodyHeight
	p.Velocity[1] = 0
	p.GroundHeight = groundY
	p.Stance = StanceGrounded
}

// takeOff launches the body with an upward impulse.
func (p *PlayerState) takeOff(impulse float32) {
	p.Velocity[1] = impulse
	p.Stance = StanceAirborne
}

// leaveGround drops support without an impulse, as when walking off a ledge.
func (p *PlayerState) leaveGround() {
	p.Stance = StanceAirborne
}

package game

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Movement and camera tuning defaults. Speeds are m/s, heights metres,
// angles radians.
const (
	defaultBaseSpeed        float32 = 5
	defaultRunMultiplier    float32 = 2
	defaultGravity          float32 = 20
	defaultJumpImpulse      float32 = 6
	defaultBodyHeight       float32 = 1.7
	defaultCollisionRadius  float32 = 0.45
	defaultStepHeight       float32 = 0.5
	defaultMaxDeltaTime     float32 = 0.1
	defaultWalkableNormalY  float32 = 0.5
	defaultWallNormalYMax   float32 = 0.6
	defaultMotionEpsilon    float32 = 1e-4
	defaultGroundProbeRise  float32 = 0.5
	defaultGroundProbeDepth float32 = 8
	defaultAbyssY           float32 = -40
	defaultRecoveryHeight   float32 = 20

	defaultCameraDistance    float32 = 5
	defaultCameraDistanceMin float32 = 2
	defaultCameraDistanceMax float32 = 12
	defaultCameraSmoothing   float32 = 8
	defaultCameraAimOffset   float32 = 0.3
	defaultCameraPitch       float32 = 0.25
	defaultLookSensitivity   float32 = 0.0025
	defaultZoomSensitivity   float32 = 0.01
	defaultOrbitPitchMin     float32 = -0.35
	defaultOrbitPitchMax     float32 = 1.35
)

// Probe fan shape. The lowest wall ray rides above the step height so
// climbable ledges stay invisible to it and pass under the feet.
const (
	wallProbeLow  float32 = 0.35
	wallProbeMid  float32 = 0.60
	wallProbeHigh float32 = 0.90

	pushOutProbes = 8
	pushOutPasses = 4

	groundProbeHops = 4

	firstPersonPitchLimit float32 = math32.Pi / 2
)

// Params tunes the kinematic body and the camera rig. Zero fields take
// defaults through Normalized.
type Params struct {
	BaseSpeed       float32
	RunMultiplier   float32
	Gravity         float32
	JumpImpulse     float32
	BodyHeight      float32
	CollisionRadius float32
	StepHeight      float32
	MaxDeltaTime    float32

	WalkableNormalY float32
	WallNormalYMax  float32
	MotionEpsilon   float32

	GroundProbeRise  float32
	GroundProbeDepth float32

	AbyssY        float32
	RecoveryPoint mgl32.Vec3

	CameraDistance    float32
	CameraDistanceMin float32
	CameraDistanceMax float32
	CameraSmoothing   float32
	CameraAimOffset   float32
	LookSensitivity   float32
	ZoomSensitivity   float32
	OrbitPitchMin     float32
	OrbitPitchMax     float32
}

// DefaultParams returns the stock tuning.
func DefaultParams() Params {
	return Params{}.Normalized()
}

// Normalized fills unset fields with defaults and returns the result.
func (p Params) Normalized() Params {
	if p.BaseSpeed <= 0 {
		p.BaseSpeed = defaultBaseSpeed
	}
	if p.RunMultiplier <= 0 {
		p.RunMultiplier = defaultRunMultiplier
	}
	if p.Gravity <= 0 {
		p.Gravity = defaultGravity
	}
	if p.JumpImpulse <= 0 {
		p.JumpImpulse = defaultJumpImpulse
	}
	if p.BodyHeight <= 0 {
		p.BodyHeight = defaultBodyHeight
	}
	if p.CollisionRadius <= 0 {
		p.CollisionRadius = defaultCollisionRadius
	}
	if p.StepHeight <= 0 {
		p.StepHeight = defaultStepHeight
	}
	if p.MaxDeltaTime <= 0 {
		p.MaxDeltaTime = defaultMaxDeltaTime
	}
	if p.WalkableNormalY <= 0 {
		p.WalkableNormalY = defaultWalkableNormalY
	}
	if p.WallNormalYMax <= 0 {
		p.WallNormalYMax = defaultWallNormalYMax
	}
	if p.MotionEpsilon <= 0 {
		p.MotionEpsilon = defaultMotionEpsilon
	}
	if p.GroundProbeRise <= 0 {
		p.GroundProbeRise = defaultGroundProbeRise
	}
	if p.GroundProbeDepth <= 0 {
		p.GroundProbeDepth = defaultGroundProbeDepth
	}
	if p.AbyssY == 0 {
		p.AbyssY = defaultAbyssY
	}
	if p.RecoveryPoint == (mgl32.Vec3{}) {
		p.RecoveryPoint = mgl32.Vec3{0, defaultRecoveryHeight, 0}
	}
	if p.CameraDistance <= 0 {
		p.CameraDistance = defaultCameraDistance
	}
	if p.CameraDistanceMin <= 0 {
		p.CameraDistanceMin = defaultCameraDistanceMin
	}
	if p.CameraDistanceMax <= 0 {
		p.CameraDistanceMax = defaultCameraDistanceMax
	}
	if p.CameraSmoothing <= 0 {
		p.CameraSmoothing = defaultCameraSmoothing
	}
	if p.CameraAimOffset <= 0 {
		p.CameraAimOffset = defaultCameraAimOffset
	}
	if p.LookSensitivity <= 0 {
		p.LookSensitivity = defaultLookSensitivity
	}
	if p.ZoomSensitivity <= 0 {
		p.ZoomSensitivity = defaultZoomSensitivity
	}
	if p.OrbitPitchMin == 0 {
		p.OrbitPitchMin = defaultOrbitPitchMin
	}
	if p.OrbitPitchMax <= 0 {
		p.OrbitPitchMax = defaultOrbitPitchMax
	}
	return p
}

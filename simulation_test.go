package game

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/ethaniccc/float32-cube/cube"
	"github.com/go-gl/mathgl/mgl32"

	"ittybitycity/game/geom"
)

const frameDT = float32(1.0 / 60.0)

func approxEqual(a, b, eps float32) bool {
	return math32.Abs(a-b) <= eps
}

// slabWorld is a wide ground slab with its walkable top at y=0.
func slabWorld(extra ...geom.Surface) *geom.BoxWorld {
	surfaces := append([]geom.Surface{
		{Name: "ground", Box: cube.Box(-50, -1, -50, 50, 0, 50)},
	}, extra...)
	return geom.NewBoxWorld(surfaces)
}

// settledSim builds a simulation over w and steps it until the body has
// landed at the origin.
func settledSim(t *testing.T, src InputSource, w geom.Raycaster) *Simulation {
	t.Helper()
	sim := NewSimulation(DefaultParams(), src, w)
	for i := 0; i < 10 && !sim.Player().OnGround(); i++ {
		sim.Step(frameDT)
	}
	if !sim.Player().OnGround() {
		t.Fatalf("expected body to settle onto the ground, got %v", sim.Player().Stance)
	}
	return sim
}

func TestGroundedBodyHoldsExactHeight(t *testing.T) {
	src := &StaticInput{}
	sim := settledSim(t, src, geom.Plane{Height: 0})

	for i := 0; i < 120; i++ {
		sim.Step(frameDT)
		p := sim.Player()
		if !p.OnGround() {
			t.Fatalf("expected body to stay grounded on frame %d", i)
		}
		if p.Position.Y() != p.GroundHeight+sim.Params().BodyHeight {
			t.Fatalf("expected exact rest height, got %v over ground %v", p.Position.Y(), p.GroundHeight)
		}
	}
}

func TestForwardTravelOnFlatPlane(t *testing.T) {
	src := &StaticInput{}
	sim := settledSim(t, src, geom.Plane{Height: 0})

	src.State.Forward = true
	for i := 0; i < 60; i++ {
		sim.Step(frameDT)
		if !sim.Player().OnGround() {
			t.Fatalf("expected body to stay grounded on frame %d", i)
		}
	}

	p := sim.Player()
	if !approxEqual(p.Position.Z(), -5, 1e-3) {
		t.Fatalf("expected z to decrease by 5, got %v", p.Position.Z())
	}
	if !approxEqual(p.Position.X(), 0, 1e-3) {
		t.Fatalf("expected x to stay at 0, got %v", p.Position.X())
	}
}

func TestDiagonalSpeedMatchesAxial(t *testing.T) {
	run := func(state InputState) float32 {
		src := &StaticInput{}
		sim := settledSim(t, src, geom.Plane{Height: 0})
		src.State = state
		for i := 0; i < 60; i++ {
			sim.Step(frameDT)
		}
		p := sim.Player()
		return math32.Hypot(p.Position.X(), p.Position.Z())
	}

	axial := run(InputState{Forward: true})
	diagonal := run(InputState{Forward: true, Right: true})
	if !approxEqual(axial, diagonal, 1e-3) {
		t.Fatalf("expected diagonal travel %v to match axial %v", diagonal, axial)
	}
}

func TestRunMultiplierScalesTravel(t *testing.T) {
	src := &StaticInput{}
	sim := settledSim(t, src, geom.Plane{Height: 0})

	src.State.Forward = true
	src.State.Run = true
	for i := 0; i < 60; i++ {
		sim.Step(frameDT)
	}

	p := sim.Player()
	if !p.Running {
		t.Fatalf("expected running state to follow the run key")
	}
	if !approxEqual(p.Position.Z(), -10, 2e-3) {
		t.Fatalf("expected z to decrease by 10 at run speed, got %v", p.Position.Z())
	}
}

func TestCameraRelativeMovement(t *testing.T) {
	src := &StaticInput{}
	sim := settledSim(t, src, geom.Plane{Height: 0})
	sim.SetLook(0.25, math32.Pi/2)

	src.State.Forward = true
	for i := 0; i < 60; i++ {
		sim.Step(frameDT)
	}

	p := sim.Player()
	if !approxEqual(p.Position.X(), -5, 1e-2) {
		t.Fatalf("expected camera-relative forward to move -x, got x=%v", p.Position.X())
	}
	if !approxEqual(p.Position.Z(), 0, 1e-2) {
		t.Fatalf("expected z to hold near 0, got %v", p.Position.Z())
	}
}

func TestFacingFollowsMovementAndPersists(t *testing.T) {
	src := &StaticInput{}
	sim := settledSim(t, src, geom.Plane{Height: 0})

	src.State.Right = true
	sim.Step(frameDT)
	want := math32.Atan2(1, 0)
	if got := sim.Player().Yaw; !approxEqual(got, want, 1e-4) {
		t.Fatalf("expected yaw %v while strafing, got %v", want, got)
	}

	src.State.Right = false
	for i := 0; i < 30; i++ {
		sim.Step(frameDT)
	}
	if got := sim.Player().Yaw; !approxEqual(got, want, 1e-4) {
		t.Fatalf("expected yaw to persist when idle, got %v", got)
	}
}

func TestJumpSemantics(t *testing.T) {
	src := &StaticInput{}
	sim := settledSim(t, src, geom.Plane{Height: 0})
	params := sim.Params()

	src.State.Jump = true
	sim.Step(frameDT)
	p := sim.Player()
	if p.OnGround() {
		t.Fatalf("expected takeoff to clear ground contact immediately")
	}
	wantVY := params.JumpImpulse - params.Gravity*frameDT
	if !approxEqual(p.Velocity.Y(), wantVY, 1e-4) {
		t.Fatalf("expected vertical velocity %v after takeoff frame, got %v", wantVY, p.Velocity.Y())
	}

	// Holding jump while airborne must not re-launch.
	sim.Step(frameDT)
	if got := sim.Player().Velocity.Y(); got >= p.Velocity.Y() {
		t.Fatalf("expected airborne jump input to be ignored, velocity went %v -> %v", p.Velocity.Y(), got)
	}
}

func TestJumpLandsBackExactly(t *testing.T) {
	src := &StaticInput{}
	sim := settledSim(t, src, geom.Plane{Height: 0})
	params := sim.Params()

	src.State.Jump = true
	sim.Step(frameDT)
	src.State.Jump = false

	// Ballistic flight time for impulse 6 against gravity 20 is 0.6 s; the
	// discrete integrator may land up to two frames around it.
	frames := 1
	for ; frames < 60; frames++ {
		sim.Step(frameDT)
		if sim.Player().OnGround() {
			break
		}
	}
	landTime := float32(frames+1) * frameDT
	if !approxEqual(landTime, 0.6, 2*frameDT+1e-4) {
		t.Fatalf("expected landing near 0.6s, got %v", landTime)
	}

	p := sim.Player()
	if !p.OnGround() {
		t.Fatalf("expected body to land, still %v", p.Stance)
	}
	if p.Position.Y() != p.GroundHeight+params.BodyHeight {
		t.Fatalf("expected exact snap to ground on landing, got %v", p.Position.Y())
	}
	if p.Velocity.Y() != 0 {
		t.Fatalf("expected vertical velocity zeroed on landing, got %v", p.Velocity.Y())
	}
}

func TestStepUpClimbsLowLedge(t *testing.T) {
	ledge := geom.Surface{Name: "ledge", Box: cube.Box(-10, 0, -30, 10, 0.4, -3)}
	src := &StaticInput{}
	sim := settledSim(t, src, slabWorld(ledge))

	src.State.Forward = true
	for i := 0; i < 90; i++ {
		sim.Step(frameDT)
		if !sim.Player().OnGround() {
			t.Fatalf("expected climb to keep ground contact on frame %d", i)
		}
		if vy := sim.Player().Velocity.Y(); vy > 0 {
			t.Fatalf("expected no upward velocity spike, got %v on frame %d", vy, i)
		}
	}

	p := sim.Player()
	if !approxEqual(p.GroundHeight, 0.4, 1e-3) {
		t.Fatalf("expected body on top of the ledge, ground height %v", p.GroundHeight)
	}
	if p.Position.Y() != p.GroundHeight+sim.Params().BodyHeight {
		t.Fatalf("expected exact rest height on the ledge, got %v", p.Position.Y())
	}
}

func TestTallLedgeBlocksLikeAWall(t *testing.T) {
	ledge := geom.Surface{Name: "ledge", Box: cube.Box(-10, 0, -30, 10, 0.8, -3)}
	src := &StaticInput{}
	sim := settledSim(t, src, slabWorld(ledge))

	src.State.Forward = true
	contact := false
	for i := 0; i < 120; i++ {
		sim.Step(frameDT)
		contact = contact || sim.WallContact()
	}

	p := sim.Player()
	if !contact {
		t.Fatalf("expected the resolver to report wall contact")
	}
	if !p.OnGround() {
		t.Fatalf("expected body to stay grounded at the wall, got %v", p.Stance)
	}
	if !approxEqual(p.GroundHeight, 0, 1e-3) {
		t.Fatalf("expected body to stay at ground level, ground height %v", p.GroundHeight)
	}
	// The face sits at z=-3; the collision radius keeps the body short of it.
	if p.Position.Z() < -3+sim.Params().CollisionRadius-1e-3 {
		t.Fatalf("expected z to stop before the face, got %v", p.Position.Z())
	}
	if p.Position.Z() > -2.4 {
		t.Fatalf("expected the walk to reach the wall, got z=%v", p.Position.Z())
	}
}

func TestWalkingOffLedgeFalls(t *testing.T) {
	// A platform that ends at z=-3 over a floor 2m below.
	world := geom.NewBoxWorld([]geom.Surface{
		{Name: "platform", Box: cube.Box(-10, 1, -3, 10, 2, 10)},
		{Name: "floor", Box: cube.Box(-50, -1, -50, 50, 0, 50)},
	})
	src := &StaticInput{}
	sim := NewSimulation(DefaultParams(), src, world)
	sim.Teleport(mgl32.Vec3{0, 2, 0})
	sim.Step(frameDT)
	if !sim.Player().OnGround() {
		t.Fatalf("expected body to settle on the platform")
	}

	src.State.Forward = true
	fell := false
	for i := 0; i < 300; i++ {
		sim.Step(frameDT)
		if !sim.Player().OnGround() {
			fell = true
		}
	}

	p := sim.Player()
	if !fell {
		t.Fatalf("expected the body to go airborne walking off the edge")
	}
	if !p.OnGround() || !approxEqual(p.GroundHeight, 0, 1e-3) {
		t.Fatalf("expected body to land on the lower floor, stance %v ground %v", p.Stance, p.GroundHeight)
	}
}

func TestTeleportDropsInFromPoint(t *testing.T) {
	src := &StaticInput{}
	sim := settledSim(t, src, geom.Plane{Height: 0})
	params := sim.Params()

	sim.Teleport(mgl32.Vec3{10, 5, -3})
	p := sim.Player()
	want := mgl32.Vec3{10, 5 + params.BodyHeight, -3}
	if p.Position != want {
		t.Fatalf("expected position %v, got %v", want, p.Position)
	}
	if p.Velocity != (mgl32.Vec3{}) {
		t.Fatalf("expected velocity zeroed, got %v", p.Velocity)
	}
	if p.OnGround() {
		t.Fatalf("expected teleport to leave the body airborne until resolved")
	}
	if p.GroundHeight != 5 {
		t.Fatalf("expected ground height seeded from the target, got %v", p.GroundHeight)
	}
}

func TestAbyssRecovery(t *testing.T) {
	src := &StaticInput{}
	sim := NewSimulation(DefaultParams(), src, nil)
	params := sim.Params()

	for i := 0; i < 600; i++ {
		sim.Step(frameDT)
		if sim.Player().Position == params.RecoveryPoint {
			return
		}
	}
	t.Fatalf("expected the abyss net to reset the body, got %v", sim.Player().Position)
}

func TestStepClampsDeltaTime(t *testing.T) {
	src := &StaticInput{}
	sim := settledSim(t, src, geom.Plane{Height: 0})
	params := sim.Params()

	src.State.Forward = true
	sim.Step(5)
	p := sim.Player()
	maxTravel := params.BaseSpeed * params.MaxDeltaTime
	if got := math32.Abs(p.Position.Z()); got > maxTravel+1e-3 {
		t.Fatalf("expected a stalled frame to travel at most %v, got %v", maxTravel, got)
	}

	before := sim.Player()
	sim.Step(0)
	sim.Step(-1)
	if sim.Player() != before {
		t.Fatalf("expected zero and negative dt to be no-ops")
	}
}

func TestSimulationDeterministicReplay(t *testing.T) {
	run := func() (PlayerState, uint64) {
		lvl := geom.GenerateTown("determinism")
		src := NewWanderInput(7)
		sim := NewSimulation(DefaultParams(), src, lvl.World())
		sim.Teleport(lvl.Spawn.Vec3())
		for i := 0; i < 1800; i++ {
			sim.Step(frameDT)
			if sim.WallContact() {
				src.NotifyBlocked()
			}
		}
		return sim.Player(), sim.Tick()
	}

	p1, t1 := run()
	p2, t2 := run()
	if t1 != t2 {
		t.Fatalf("expected identical tick counts, got %d and %d", t1, t2)
	}
	if p1 != p2 {
		t.Fatalf("expected identical replay state, got %+v and %+v", p1, p2)
	}
}

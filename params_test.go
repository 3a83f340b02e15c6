package game

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestDefaultParams(t *testing.T) {
	p := DefaultParams()

	if p.BaseSpeed != 5 {
		t.Fatalf("expected base speed 5, got %v", p.BaseSpeed)
	}
	if p.RunMultiplier != 2 {
		t.Fatalf("expected run multiplier 2, got %v", p.RunMultiplier)
	}
	if p.Gravity != 20 {
		t.Fatalf("expected gravity 20, got %v", p.Gravity)
	}
	if p.JumpImpulse != 6 {
		t.Fatalf("expected jump impulse 6, got %v", p.JumpImpulse)
	}
	if p.BodyHeight != 1.7 {
		t.Fatalf("expected body height 1.7, got %v", p.BodyHeight)
	}
	if p.StepHeight != 0.5 {
		t.Fatalf("expected step height 0.5, got %v", p.StepHeight)
	}
	if p.MaxDeltaTime != 0.1 {
		t.Fatalf("expected dt clamp 0.1, got %v", p.MaxDeltaTime)
	}
	if p.AbyssY != -40 {
		t.Fatalf("expected abyss line -40, got %v", p.AbyssY)
	}
	if p.CameraDistance != 5 || p.CameraDistanceMin != 2 || p.CameraDistanceMax != 12 {
		t.Fatalf("expected camera distance 5 in [2,12], got %v in [%v,%v]",
			p.CameraDistance, p.CameraDistanceMin, p.CameraDistanceMax)
	}
	if p.RecoveryPoint == (mgl32.Vec3{}) {
		t.Fatalf("expected a non-zero recovery point")
	}

	// The lowest wall ray must ride above the step height, or climbable
	// ledges would read as walls.
	if wallProbeLow*p.BodyHeight <= p.StepHeight {
		t.Fatalf("expected lowest wall probe %v above step height %v",
			wallProbeLow*p.BodyHeight, p.StepHeight)
	}
}

func TestNormalizedKeepsOverrides(t *testing.T) {
	p := Params{BaseSpeed: 7, StepHeight: 0.3, AbyssY: -10}.Normalized()

	if p.BaseSpeed != 7 {
		t.Fatalf("expected override kept, got %v", p.BaseSpeed)
	}
	if p.StepHeight != 0.3 {
		t.Fatalf("expected override kept, got %v", p.StepHeight)
	}
	if p.AbyssY != -10 {
		t.Fatalf("expected override kept, got %v", p.AbyssY)
	}
	if p.Gravity != 20 {
		t.Fatalf("expected unset field defaulted, got %v", p.Gravity)
	}

	if got := (Params{}).Normalized(); got != DefaultParams() {
		t.Fatalf("expected zero params to normalize to the defaults")
	}
}

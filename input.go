package game

import (
	"math/rand"

	"github.com/chewxy/math32"
)

// InputState is one frame's sampled input: held movement keys plus the mouse
// and wheel deltas accumulated since the previous sample.
type InputState struct {
	Forward  bool
	Backward bool
	Left     bool
	Right    bool
	Jump     bool
	Run      bool

	MouseDX float32
	MouseDY float32
	Zoom    float32
}

// InputSource supplies one InputState per frame. Sampling consumes the
// accumulated deltas; held keys persist between samples.
type InputSource interface {
	Sample() InputState
}

// StaticInput is a directly settable source used by tests and by remote
// puppeting. Keys replay every sample; deltas drain.
type StaticInput struct {
	State InputState
}

func (s *StaticInput) Sample() InputState {
	out := s.State
	s.State.MouseDX = 0
	s.State.MouseDY = 0
	s.State.Zoom = 0
	return out
}

// AddMouseDelta accumulates mouse motion for the next sample.
func (s *StaticInput) AddMouseDelta(dx, dy float32) {
	s.State.MouseDX += dx
	s.State.MouseDY += dy
}

// AddZoom accumulates wheel motion for the next sample.
func (s *StaticInput) AddZoom(delta float32) {
	s.State.Zoom += delta
}

// WanderInput roams the level headlessly: it always walks forward, drifts its
// heading a little, hops now and then, and turns hard when told its stride
// was clipped. The same seed over the same level replays the same walk.
type WanderInput struct {
	rng       *rand.Rand
	turn      float32
	sinceJump int
}

func NewWanderInput(seed int64) *WanderInput {
	return &WanderInput{rng: rand.New(rand.NewSource(seed))}
}

// NotifyBlocked queues a sharp turn. Callers invoke it when the wall resolver
// clipped the walker's last stride.
func (w *WanderInput) NotifyBlocked() {
	if w.turn != 0 {
		return
	}
	w.turn = math32.Pi/2 + w.rng.Float32()*math32.Pi/2
	if w.rng.Intn(2) == 0 {
		w.turn = -w.turn
	}
}

func (w *WanderInput) Sample() InputState {
	in := InputState{Forward: true}
	turn := w.turn + (w.rng.Float32()-0.5)*0.03
	w.turn = 0
	in.MouseDX = -turn / defaultLookSensitivity
	w.sinceJump++
	if w.sinceJump > 120 && w.rng.Float32() < 0.01 {
		in.Jump = true
		w.sinceJump = 0
	}
	return in
}

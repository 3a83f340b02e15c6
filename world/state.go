// Package world holds the puppet-able scene state around the kinematic body:
// time of day, weather and fog, spawned props, transient overlay messages,
// and one-shot effects. One frame loop owns a State and mutates it; there is
// no locking here.
package world

import (
	"fmt"

	orderedmap "github.com/elliotchance/orderedmap/v2"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

const (
	hoursPerDay = 24

	clockTransitionSeconds = 2
	fogTransitionSeconds   = 3

	defaultMessageSeconds = 3
	effectLingerSeconds   = 5

	defaultMaxProps = 64
)

// Weather is the named sky state.
type Weather string

const (
	WeatherClear Weather = "clear"
	WeatherRain  Weather = "rain"
	WeatherFog   Weather = "fog"
)

// fog density each weather settles toward
var weatherFog = map[Weather]float32{
	WeatherClear: 0,
	WeatherRain:  0.35,
	WeatherFog:   0.8,
}

// ParseWeather validates a weather name from the control channel.
func ParseWeather(s string) (Weather, error) {
	w := Weather(s)
	if _, ok := weatherFog[w]; !ok {
		return "", fmt.Errorf("unknown weather %q", s)
	}
	return w, nil
}

// Prop is one spawned object.
type Prop struct {
	ID     int     `json:"id"`
	Object string  `json:"object"`
	X      float32 `json:"x"`
	Y      float32 `json:"y"`
	Z      float32 `json:"z"`
}

// Message is a transient overlay line counting down to expiry.
type Message struct {
	Text      string  `json:"text"`
	Remaining float32 `json:"remaining"`
}

// Effect is a recently played one-shot effect, kept briefly so state
// snapshots can report it.
type Effect struct {
	Name      string         `json:"name"`
	Params    map[string]any `json:"params,omitempty"`
	Remaining float32        `json:"-"`
}

// State is the environment scene state.
type State struct {
	Clock      float32
	DayRate    float32
	Weather    Weather
	FogDensity float32

	clockTween *gween.Tween
	fogTween   *gween.Tween

	props      *orderedmap.OrderedMap[int, Prop]
	nextPropID int
	maxProps   int

	messages []Message
	effects  []Effect
}

// NewState starts a clear midday scene with no props.
func NewState() *State {
	return &State{
		Clock:    12,
		Weather:  WeatherClear,
		props:    orderedmap.NewOrderedMap[int, Prop](),
		maxProps: defaultMaxProps,
	}
}

// SetTime tweens the clock to an hour of day over a short transition.
func (s *State) SetTime(hour float32) error {
	if hour < 0 || hour > hoursPerDay {
		return fmt.Errorf("time %v outside 0..%d", hour, hoursPerDay)
	}
	s.clockTween = gween.New(s.Clock, hour, clockTransitionSeconds, ease.Linear)
	return nil
}

// SetWeather switches the sky immediately and eases the fog density toward
// the new weather's level.
func (s *State) SetWeather(w Weather) error {
	target, ok := weatherFog[w]
	if !ok {
		return fmt.Errorf("unknown weather %q", w)
	}
	s.Weather = w
	s.fogTween = gween.New(s.FogDensity, target, fogTransitionSeconds, ease.InOutQuad)
	return nil
}

// SpawnProp registers a spawned object. When the registry is full the oldest
// prop is evicted.
func (s *State) SpawnProp(object string, x, y, z float32) Prop {
	s.nextPropID++
	prop := Prop{ID: s.nextPropID, Object: object, X: x, Y: y, Z: z}
	s.props.Set(prop.ID, prop)
	for s.props.Len() > s.maxProps {
		oldest := s.props.Front()
		s.props.Delete(oldest.Key)
	}
	return prop
}

// ShowMessage queues an overlay line. Non-positive durations take the
// default.
func (s *State) ShowMessage(text string, seconds float32) {
	if seconds <= 0 {
		seconds = defaultMessageSeconds
	}
	s.messages = append(s.messages, Message{Text: text, Remaining: seconds})
}

// PlayEffect records a one-shot effect so snapshots can report it until it
// fades.
func (s *State) PlayEffect(name string, params map[string]any) {
	s.effects = append(s.effects, Effect{Name: name, Params: params, Remaining: effectLingerSeconds})
}

// Advance steps tweens, the day cycle, and expiry pruning by one frame.
func (s *State) Advance(dt float32) {
	if dt <= 0 {
		return
	}

	if s.clockTween != nil {
		v, done := s.clockTween.Update(dt)
		s.Clock = v
		if done {
			s.clockTween = nil
		}
	} else if s.DayRate > 0 {
		s.Clock += s.DayRate * dt
		for s.Clock >= hoursPerDay {
			s.Clock -= hoursPerDay
		}
	}

	if s.fogTween != nil {
		v, done := s.fogTween.Update(dt)
		s.FogDensity = v
		if done {
			s.fogTween = nil
		}
	}

	kept := s.messages[:0]
	for _, m := range s.messages {
		m.Remaining -= dt
		if m.Remaining > 0 {
			kept = append(kept, m)
		}
	}
	s.messages = kept

	liveEffects := s.effects[:0]
	for _, e := range s.effects {
		e.Remaining -= dt
		if e.Remaining > 0 {
			liveEffects = append(liveEffects, e)
		}
	}
	s.effects = liveEffects
}

// Props lists spawned props in spawn order.
func (s *State) Props() []Prop {
	out := make([]Prop, 0, s.props.Len())
	for el := s.props.Front(); el != nil; el = el.Next() {
		out = append(out, el.Value)
	}
	return out
}

// Messages lists live overlay messages in arrival order.
func (s *State) Messages() []Message {
	out := make([]Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// Effects lists recently played effects in play order.
func (s *State) Effects() []Effect {
	out := make([]Effect, len(s.effects))
	copy(out, s.effects)
	return out
}

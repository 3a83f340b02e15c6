// Package proto defines the JSON control protocol spoken over the relay:
// inbound commands from controllers and outbound pose/state reports from
// the game client. Every frame is a flat envelope carrying a ver and type
// field; each command type reads the envelope fields it needs and ignores
// the rest.
package proto

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Version tracks the wire-protocol revision expected by peers. Envelopes
// without a ver field are treated as the current version.
const Version = 1

// Inbound command type identifiers.
const (
	TypeTeleport = "teleport"
	TypeLook     = "look"
	TypeRotate   = "rotate"
	TypeSpawn    = "spawn"
	TypeMessage  = "message"
	TypeTime     = "time"
	TypeWeather  = "weather"
	TypeEffect   = "effect"
	TypeGetState = "getState"
)

// Outbound message type identifiers.
const (
	TypePlayerUpdate = "playerUpdate"
	TypeState        = "state"
)

// Command is a single control frame sent by a controller. The envelope is
// flat so new command types can be added without breaking older decoders.
type Command struct {
	Ver  int    `json:"ver,omitempty"`
	Type string `json:"type"`

	// Teleport destination, also the spawn point for spawn commands.
	X float32 `json:"x"`
	Y float32 `json:"y"`
	Z float32 `json:"z"`

	// Look pitch and yaw in radians.
	RX float32 `json:"rx"`
	RY float32 `json:"ry"`

	// Rotate delta in radians.
	Angle float32 `json:"angle"`

	// Spawn object identifier.
	Object string `json:"object,omitempty"`

	// Message text and display duration in seconds.
	Text     string  `json:"text,omitempty"`
	Duration float32 `json:"duration,omitempty"`

	// Time and weather payload. Time carries a number of hours, weather a
	// condition name; both arrive under the same key.
	Value json.RawMessage `json:"value,omitempty"`

	// Effect name and free-form parameters.
	Name   string         `json:"name,omitempty"`
	Params map[string]any `json:"params,omitempty"`
}

// DecodeCommand parses a raw control frame. Unknown types decode fine so
// they can be forwarded or ignored downstream; malformed JSON, a missing
// type, or a version mismatch are errors.
func DecodeCommand(payload []byte) (Command, error) {
	var cmd Command
	if err := json.Unmarshal(payload, &cmd); err != nil {
		return Command{}, fmt.Errorf("decode command: %w", err)
	}
	if cmd.Ver == 0 {
		cmd.Ver = Version
	}
	if cmd.Ver != Version {
		return Command{}, fmt.Errorf("unsupported control protocol version %d", cmd.Ver)
	}
	if cmd.Type == "" {
		return Command{}, errors.New("command missing type")
	}
	return cmd, nil
}

// Known reports whether the command type is part of the control vocabulary.
// Unknown types are not an error; the client drops them and the relay
// forwards them untouched.
func (c Command) Known() bool {
	switch c.Type {
	case TypeTeleport, TypeLook, TypeRotate, TypeSpawn, TypeMessage,
		TypeTime, TypeWeather, TypeEffect, TypeGetState:
		return true
	}
	return false
}

// Validate checks the fields a known command type requires. Unknown types
// pass; callers decide whether to drop or forward those.
func (c Command) Validate() error {
	switch c.Type {
	case TypeSpawn:
		if c.Object == "" {
			return errors.New("spawn command missing object")
		}
	case TypeMessage:
		if c.Text == "" {
			return errors.New("message command missing text")
		}
	case TypeTime:
		if _, err := c.TimeValue(); err != nil {
			return err
		}
	case TypeWeather:
		if _, err := c.WeatherValue(); err != nil {
			return err
		}
	case TypeEffect:
		if c.Name == "" {
			return errors.New("effect command missing name")
		}
	}
	return nil
}

// TimeValue reads the numeric payload of a time command.
func (c Command) TimeValue() (float32, error) {
	var hours float32
	if err := json.Unmarshal(c.Value, &hours); err != nil {
		return 0, fmt.Errorf("time command value: %w", err)
	}
	return hours, nil
}

// WeatherValue reads the condition name carried by a weather command.
func (c Command) WeatherValue() (string, error) {
	var condition string
	if err := json.Unmarshal(c.Value, &condition); err != nil {
		return "", fmt.Errorf("weather command value: %w", err)
	}
	return condition, nil
}

// EncodeCommand serializes a command, stamping the protocol version.
func EncodeCommand(cmd Command) ([]byte, error) {
	cmd.Ver = Version
	return json.Marshal(cmd)
}

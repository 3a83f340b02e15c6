package proto

import (
	"encoding/json"
	"fmt"

	"ittybitycity/game/world"
)

// Vec3 is a world-space point on the wire.
type Vec3 struct {
	X float32 `json:"x"`
	Y float32 `json:"y"`
	Z float32 `json:"z"`
}

// CameraPose reports the camera rig so controllers can mirror the view.
type CameraPose struct {
	Mode     string  `json:"mode"`
	Yaw      float32 `json:"yaw"`
	Pitch    float32 `json:"pitch"`
	Distance float32 `json:"distance"`
	Position Vec3    `json:"position"`
}

// PlayerUpdate is the periodic pose report broadcast to controllers.
type PlayerUpdate struct {
	Ver      int        `json:"ver"`
	Type     string     `json:"type"`
	Tick     uint64     `json:"t"`
	Position Vec3       `json:"position"`
	Rotation float32    `json:"rotation"`
	OnGround bool       `json:"onGround"`
	Camera   CameraPose `json:"camera"`
}

// EncodePlayerUpdate stamps the envelope and serializes the report.
func EncodePlayerUpdate(msg PlayerUpdate) ([]byte, error) {
	msg.Ver = Version
	msg.Type = TypePlayerUpdate
	data, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("encode player update: %w", err)
	}
	return data, nil
}

// LevelInfo identifies the level the client is simulating. The checksum is
// rendered as a hex string because JSON numbers cannot carry 64 bits.
type LevelInfo struct {
	Name     string `json:"name"`
	Checksum string `json:"checksum"`
}

// FormatChecksum renders a level checksum for the wire.
func FormatChecksum(sum uint64) string {
	return fmt.Sprintf("%016x", sum)
}

// StateMessage is the full reply to a getState command: the player pose
// plus the environment snapshot and the level identity.
type StateMessage struct {
	Ver      int            `json:"ver"`
	Type     string         `json:"type"`
	Tick     uint64         `json:"t"`
	Position Vec3           `json:"position"`
	Rotation float32        `json:"rotation"`
	OnGround bool           `json:"onGround"`
	Camera   CameraPose     `json:"camera"`
	World    world.Snapshot `json:"world"`
	Level    LevelInfo      `json:"level"`
}

// EncodeStateMessage stamps the envelope and serializes the reply.
func EncodeStateMessage(msg StateMessage) ([]byte, error) {
	msg.Ver = Version
	msg.Type = TypeState
	data, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("encode state message: %w", err)
	}
	return data, nil
}

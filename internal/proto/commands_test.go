package proto

import (
	"encoding/json"
	"strings"
	"testing"

	"ittybitycity/game/world"
)

func TestDecodeCommand(t *testing.T) {
	t.Run("teleport command", func(t *testing.T) {
		cmd, err := DecodeCommand([]byte(`{"type":"teleport","x":4,"y":1.5,"z":-9}`))
		if err != nil {
			t.Fatalf("decode teleport: %v", err)
		}
		if cmd.Type != TypeTeleport {
			t.Fatalf("expected type %q, got %q", TypeTeleport, cmd.Type)
		}
		if cmd.X != 4 || cmd.Y != 1.5 || cmd.Z != -9 {
			t.Fatalf("unexpected destination: (%v, %v, %v)", cmd.X, cmd.Y, cmd.Z)
		}
		if cmd.Ver != Version {
			t.Fatalf("expected version %d to be defaulted, got %d", Version, cmd.Ver)
		}
	})

	t.Run("look command", func(t *testing.T) {
		cmd, err := DecodeCommand([]byte(`{"type":"look","rx":0.25,"ry":-1.5}`))
		if err != nil {
			t.Fatalf("decode look: %v", err)
		}
		if cmd.RX != 0.25 || cmd.RY != -1.5 {
			t.Fatalf("unexpected look angles: rx=%v ry=%v", cmd.RX, cmd.RY)
		}
	})

	t.Run("time command carries a number", func(t *testing.T) {
		cmd, err := DecodeCommand([]byte(`{"type":"time","value":14.5}`))
		if err != nil {
			t.Fatalf("decode time: %v", err)
		}
		hours, err := cmd.TimeValue()
		if err != nil {
			t.Fatalf("time value: %v", err)
		}
		if hours != 14.5 {
			t.Fatalf("expected 14.5 hours, got %v", hours)
		}
	})

	t.Run("weather command carries a string", func(t *testing.T) {
		cmd, err := DecodeCommand([]byte(`{"type":"weather","value":"rain"}`))
		if err != nil {
			t.Fatalf("decode weather: %v", err)
		}
		condition, err := cmd.WeatherValue()
		if err != nil {
			t.Fatalf("weather value: %v", err)
		}
		if condition != "rain" {
			t.Fatalf("expected rain, got %q", condition)
		}
	})

	t.Run("effect command keeps free-form params", func(t *testing.T) {
		cmd, err := DecodeCommand([]byte(`{"type":"effect","name":"confetti","params":{"count":20,"color":"red"}}`))
		if err != nil {
			t.Fatalf("decode effect: %v", err)
		}
		if cmd.Name != "confetti" {
			t.Fatalf("expected effect name confetti, got %q", cmd.Name)
		}
		if got, ok := cmd.Params["color"].(string); !ok || got != "red" {
			t.Fatalf("expected params to keep color, got %v", cmd.Params)
		}
	})

	t.Run("explicit matching version accepted", func(t *testing.T) {
		cmd, err := DecodeCommand([]byte(`{"ver":1,"type":"getState"}`))
		if err != nil {
			t.Fatalf("decode getState: %v", err)
		}
		if cmd.Type != TypeGetState {
			t.Fatalf("expected type %q, got %q", TypeGetState, cmd.Type)
		}
	})

	t.Run("version mismatch rejected", func(t *testing.T) {
		if _, err := DecodeCommand([]byte(`{"ver":7,"type":"look"}`)); err == nil {
			t.Fatalf("expected version 7 to be rejected")
		}
	})

	t.Run("missing type rejected", func(t *testing.T) {
		if _, err := DecodeCommand([]byte(`{"x":1}`)); err == nil {
			t.Fatalf("expected missing type to be rejected")
		}
	})

	t.Run("malformed payload rejected", func(t *testing.T) {
		if _, err := DecodeCommand([]byte(`{"type":`)); err == nil {
			t.Fatalf("expected malformed payload to be rejected")
		}
	})

	t.Run("unknown type decodes", func(t *testing.T) {
		cmd, err := DecodeCommand([]byte(`{"type":"dance"}`))
		if err != nil {
			t.Fatalf("decode unknown type: %v", err)
		}
		if cmd.Known() {
			t.Fatalf("expected dance to be unknown")
		}
	})
}

func TestCommandValidate(t *testing.T) {
	tests := []struct {
		name    string
		cmd     Command
		wantErr string
	}{
		{
			name: "teleport needs no extras",
			cmd:  Command{Type: TypeTeleport},
		},
		{
			name:    "spawn requires object",
			cmd:     Command{Type: TypeSpawn},
			wantErr: "object",
		},
		{
			name: "spawn with object passes",
			cmd:  Command{Type: TypeSpawn, Object: "crate"},
		},
		{
			name:    "message requires text",
			cmd:     Command{Type: TypeMessage},
			wantErr: "text",
		},
		{
			name:    "time requires numeric value",
			cmd:     Command{Type: TypeTime, Value: json.RawMessage(`"noon"`)},
			wantErr: "time command value",
		},
		{
			name:    "weather requires string value",
			cmd:     Command{Type: TypeWeather, Value: json.RawMessage(`3`)},
			wantErr: "weather command value",
		},
		{
			name:    "effect requires name",
			cmd:     Command{Type: TypeEffect},
			wantErr: "name",
		},
		{
			name: "unknown type passes through",
			cmd:  Command{Type: "dance"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cmd.Validate()
			if tc.wantErr == "" {
				if err != nil {
					t.Fatalf("expected valid command, got %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error mentioning %q, got nil", tc.wantErr)
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("expected error mentioning %q, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestEncodePlayerUpdateSetsVersionAndType(t *testing.T) {
	update := PlayerUpdate{
		Tick:     42,
		Position: Vec3{X: 1, Y: 2.5, Z: -3},
		Rotation: 0.75,
		OnGround: true,
		Camera: CameraPose{
			Mode:     "orbit",
			Yaw:      0.75,
			Pitch:    0.25,
			Distance: 5,
			Position: Vec3{X: 0, Y: 4, Z: 4},
		},
	}

	encoded, err := EncodePlayerUpdate(update)
	if err != nil {
		t.Fatalf("encode player update: %v", err)
	}
	if update.Ver != 0 {
		t.Fatalf("expected encode to operate on a copy, got version %d", update.Ver)
	}

	var decoded struct {
		Ver      int     `json:"ver"`
		Type     string  `json:"type"`
		Tick     uint64  `json:"t"`
		Rotation float32 `json:"rotation"`
		OnGround bool    `json:"onGround"`
	}
	if err := json.Unmarshal(encoded, &decoded); err != nil {
		t.Fatalf("unmarshal player update: %v", err)
	}
	if decoded.Ver != Version {
		t.Fatalf("expected version %d, got %d", Version, decoded.Ver)
	}
	if decoded.Type != TypePlayerUpdate {
		t.Fatalf("expected type %q, got %q", TypePlayerUpdate, decoded.Type)
	}
	if decoded.Tick != 42 || decoded.Rotation != 0.75 || !decoded.OnGround {
		t.Fatalf("unexpected payload: %+v", decoded)
	}
}

func TestEncodeStateMessageSetsVersionAndType(t *testing.T) {
	env := world.NewState()
	env.SpawnProp("crate", 1, 0, -2)

	msg := StateMessage{
		Tick:     99,
		Position: Vec3{X: 0, Y: 1.7, Z: 14},
		Rotation: 1.5,
		OnGround: true,
		World:    env.Snapshot(),
		Level:    LevelInfo{Name: "town-alpha", Checksum: FormatChecksum(0xdeadbeef)},
	}

	encoded, err := EncodeStateMessage(msg)
	if err != nil {
		t.Fatalf("encode state message: %v", err)
	}

	var decoded struct {
		Ver   int    `json:"ver"`
		Type  string `json:"type"`
		Tick  uint64 `json:"t"`
		World struct {
			Time    float32 `json:"time"`
			Weather string  `json:"weather"`
			Props   []struct {
				Object string `json:"object"`
			} `json:"props"`
		} `json:"world"`
		Level struct {
			Name     string `json:"name"`
			Checksum string `json:"checksum"`
		} `json:"level"`
	}
	if err := json.Unmarshal(encoded, &decoded); err != nil {
		t.Fatalf("unmarshal state message: %v", err)
	}
	if decoded.Ver != Version {
		t.Fatalf("expected version %d, got %d", Version, decoded.Ver)
	}
	if decoded.Type != TypeState {
		t.Fatalf("expected type %q, got %q", TypeState, decoded.Type)
	}
	if decoded.Tick != 99 {
		t.Fatalf("expected tick 99, got %d", decoded.Tick)
	}
	if decoded.World.Time != 12 || decoded.World.Weather != "clear" {
		t.Fatalf("unexpected world snapshot: %+v", decoded.World)
	}
	if len(decoded.World.Props) != 1 || decoded.World.Props[0].Object != "crate" {
		t.Fatalf("expected one crate prop, got %+v", decoded.World.Props)
	}
	if decoded.Level.Name != "town-alpha" {
		t.Fatalf("expected level town-alpha, got %q", decoded.Level.Name)
	}
	if decoded.Level.Checksum != "00000000deadbeef" {
		t.Fatalf("unexpected checksum rendering: %q", decoded.Level.Checksum)
	}
}

func TestEncodeCommandRoundTrips(t *testing.T) {
	original := Command{
		Type:     TypeSpawn,
		Object:   "lamp",
		X:        3,
		Y:        0,
		Z:        -7,
		Duration: 0,
	}

	encoded, err := EncodeCommand(original)
	if err != nil {
		t.Fatalf("encode command: %v", err)
	}
	decoded, err := DecodeCommand(encoded)
	if err != nil {
		t.Fatalf("decode encoded command: %v", err)
	}
	if decoded.Type != original.Type || decoded.Object != original.Object {
		t.Fatalf("expected spawn lamp, got %+v", decoded)
	}
	if decoded.X != 3 || decoded.Z != -7 {
		t.Fatalf("unexpected spawn point: (%v, %v, %v)", decoded.X, decoded.Y, decoded.Z)
	}
}

package geom

import (
	"strings"
	"testing"

	"github.com/zeebo/xxh3"
)

const sampleLevelJSON = `{
	"name": "test-yard",
	"spawn": {"x": 0, "y": 0, "z": 4},
	"boxes": [
		{"name": "floor", "min": {"x": -10, "y": -1, "z": -10}, "max": {"x": 10, "y": 0, "z": 10}},
		{"min": {"x": 1, "y": 0, "z": 1}, "max": {"x": 2, "y": 1, "z": 2}}
	]
}`

func TestDecodeLevel(t *testing.T) {
	data := []byte(sampleLevelJSON)
	lvl, err := DecodeLevel(data)
	if err != nil {
		t.Fatalf("expected decode to succeed, got %v", err)
	}
	if lvl.Name != "test-yard" {
		t.Fatalf("expected name %q, got %q", "test-yard", lvl.Name)
	}
	if len(lvl.Boxes) != 2 {
		t.Fatalf("expected 2 boxes, got %d", len(lvl.Boxes))
	}
	if lvl.Checksum != xxh3.Hash(data) {
		t.Fatalf("expected checksum over the raw bytes, got %d", lvl.Checksum)
	}
	if lvl.Spawn.Vec3().Z() != 4 {
		t.Fatalf("expected spawn z=4, got %v", lvl.Spawn.Vec3().Z())
	}
}

func TestDecodeLevelRejectsBadDocuments(t *testing.T) {
	cases := []struct {
		name string
		data string
	}{
		{name: "malformed json", data: `{"name": "broken"`},
		{name: "no boxes", data: `{"name": "empty", "boxes": []}`},
		{
			name: "inverted box",
			data: `{"name": "bad", "boxes": [{"min": {"x": 5, "y": 0, "z": 0}, "max": {"x": 1, "y": 1, "z": 1}}]}`,
		},
		{
			name: "flat box",
			data: `{"name": "flat", "boxes": [{"min": {"x": 0, "y": 1, "z": 0}, "max": {"x": 1, "y": 1, "z": 1}}]}`,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := DecodeLevel([]byte(tc.data)); err == nil {
				t.Fatalf("expected an error, got none")
			}
		})
	}
}

func TestLevelWorldNamesEverySurface(t *testing.T) {
	lvl, err := DecodeLevel([]byte(sampleLevelJSON))
	if err != nil {
		t.Fatalf("expected decode to succeed, got %v", err)
	}
	w := lvl.World()
	if w.Len() != 2 {
		t.Fatalf("expected 2 surfaces, got %d", w.Len())
	}
	if w.surfaces[0].Name != "floor" {
		t.Fatalf("expected first surface named %q, got %q", "floor", w.surfaces[0].Name)
	}
	if !strings.HasPrefix(w.surfaces[1].Name, "box-") {
		t.Fatalf("expected unnamed box to get a generated name, got %q", w.surfaces[1].Name)
	}
}

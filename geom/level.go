package geom

import (
	"encoding/json"
	"fmt"

	"github.com/ethaniccc/float32-cube/cube"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/zeebo/xxh3"
)

// Vec is a JSON-friendly world point.
type Vec struct {
	X float32 `json:"x"`
	Y float32 `json:"y"`
	Z float32 `json:"z"`
}

func (v Vec) Vec3() mgl32.Vec3 { return mgl32.Vec3{v.X, v.Y, v.Z} }

// BoxDef is one collision box in a level document.
type BoxDef struct {
	Name string `json:"name,omitempty"`
	Min  Vec    `json:"min"`
	Max  Vec    `json:"max"`
}

// Level is the collision-geometry document served alongside the client
// assets. Checksum identifies the exact document a pose was saved against.
type Level struct {
	Name     string   `json:"name"`
	Spawn    Vec      `json:"spawn"`
	Boxes    []BoxDef `json:"boxes"`
	Checksum uint64   `json:"-"`
}

// DecodeLevel parses and validates a level document. The checksum covers the
// raw bytes, not the decoded form.
func DecodeLevel(data []byte) (Level, error) {
	var lvl Level
	if err := json.Unmarshal(data, &lvl); err != nil {
		return Level{}, fmt.Errorf("decode level: %w", err)
	}
	if err := lvl.validate(); err != nil {
		return Level{}, err
	}
	lvl.Checksum = xxh3.Hash(data)
	return lvl, nil
}

func (l Level) validate() error {
	if len(l.Boxes) == 0 {
		return fmt.Errorf("level %q has no collision boxes", l.Name)
	}
	for i, b := range l.Boxes {
		if b.Min.X >= b.Max.X || b.Min.Y >= b.Max.Y || b.Min.Z >= b.Max.Z {
			return fmt.Errorf("level %q box %d (%q): min must be strictly below max on every axis", l.Name, i, b.Name)
		}
	}
	return nil
}

// World builds the queryable collision set for the level.
func (l Level) World() *BoxWorld {
	surfaces := make([]Surface, 0, len(l.Boxes))
	for i, b := range l.Boxes {
		name := b.Name
		if name == "" {
			name = fmt.Sprintf("box-%d", i)
		}
		surfaces = append(surfaces, Surface{
			Name: name,
			Box:  cube.Box(b.Min.X, b.Min.Y, b.Min.Z, b.Max.X, b.Max.Y, b.Max.Z),
		})
	}
	return NewBoxWorld(surfaces)
}

// checksum hashes the canonical JSON form so generated levels carry the same
// kind of identity as fetched ones.
func (l Level) checksum() uint64 {
	data, err := json.Marshal(l)
	if err != nil {
		return 0
	}
	return xxh3.Hash(data)
}

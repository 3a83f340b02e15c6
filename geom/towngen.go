package geom

import (
	"fmt"
	"math/rand"

	"github.com/chewxy/math32"
	"github.com/zeebo/xxh3"
)

// Town generation bounds. The generated level stands in whenever fetching the
// authored one fails, so the interactive loop never starts without geometry.
const (
	townHalfExtent    float32 = 60
	townGroundDepth   float32 = 1
	townBlockSpacing  float32 = 14
	townBlockMargin   float32 = 8
	townHouseMin      float32 = 4
	townHouseMax      float32 = 9
	townHouseLowest   float32 = 2.5
	townHouseTallest  float32 = 7
	townPlazaHalf     float32 = 10
	townPlazaInner    float32 = 6
	townStepRise      float32 = 0.4
	townWallHeight    float32 = 3
	townWallThickness float32 = 1
	townSpawnClear    float32 = 6
	townCrateCount            = 6
	townCrateSize     float32 = 1.1
	townCrateRing     float32 = 16
	townCrateJitter   float32 = 4
	townHouseChance           = 0.75
)

// streamRNG derives an independent random stream per generation concern so
// adding one feature never reshuffles the rest of the town.
func streamRNG(seed, label string) *rand.Rand {
	sum := xxh3.HashString(seed + "\x00" + label)
	if sum == 0 {
		sum = 1
	}
	return rand.New(rand.NewSource(int64(sum)))
}

// GenerateTown builds the deterministic fallback level for a seed: a ground
// slab, a two-tier central plaza, jittered housing blocks, scattered crates,
// and a perimeter wall. Tier rises stay below the walker's step height and
// house walls well above it.
func GenerateTown(seed string) Level {
	boxes := []BoxDef{
		slab("ground", -townHalfExtent, -townGroundDepth, -townHalfExtent, townHalfExtent, 0, townHalfExtent),
		slab("plaza-tier-1", -townPlazaHalf, 0, -townPlazaHalf, townPlazaHalf, townStepRise, townPlazaHalf),
		slab("plaza-tier-2", -townPlazaInner, 0, -townPlazaInner, townPlazaInner, 2*townStepRise, townPlazaInner),
	}
	boxes = append(boxes, perimeterWalls()...)
	boxes = append(boxes, houses(seed)...)
	boxes = append(boxes, crates(seed, boxes)...)

	lvl := Level{
		Name:  fmt.Sprintf("town-%s", seed),
		Spawn: Vec{X: 0, Y: 0, Z: townPlazaHalf + 4},
		Boxes: boxes,
	}
	lvl.Checksum = lvl.checksum()
	return lvl
}

func slab(name string, minX, minY, minZ, maxX, maxY, maxZ float32) BoxDef {
	return BoxDef{
		Name: name,
		Min:  Vec{X: minX, Y: minY, Z: minZ},
		Max:  Vec{X: maxX, Y: maxY, Z: maxZ},
	}
}

func perimeterWalls() []BoxDef {
	e := townHalfExtent
	t := townWallThickness
	h := townWallHeight
	return []BoxDef{
		slab("wall-north", -e, 0, -e, e, h, -e+t),
		slab("wall-south", -e, 0, e-t, e, h, e),
		slab("wall-west", -e, 0, -e, -e+t, h, e),
		slab("wall-east", e-t, 0, -e, e, h, e),
	}
}

// houses walks a block grid and raises a jittered house on most cells.
// Cells that would crowd the plaza or the spawn stay empty.
func houses(seed string) []BoxDef {
	rng := streamRNG(seed, "houses")
	var out []BoxDef
	lo := -townHalfExtent + townBlockMargin
	hi := townHalfExtent - townBlockMargin
	i := 0
	for cx := lo; cx <= hi; cx += townBlockSpacing {
		for cz := lo; cz <= hi; cz += townBlockSpacing {
			roll := rng.Float64()
			jx := float32(rng.Float64()*6 - 3)
			jz := float32(rng.Float64()*6 - 3)
			half := (townHouseMin + float32(rng.Float64())*(townHouseMax-townHouseMin)) / 2
			height := townHouseLowest + float32(rng.Float64())*(townHouseTallest-townHouseLowest)
			if roll > townHouseChance {
				continue
			}
			x, z := cx+jx, cz+jz
			if intrudesCenter(x, z, half) {
				continue
			}
			out = append(out, slab(fmt.Sprintf("house-%d", i), x-half, 0, z-half, x+half, height, z+half))
			i++
		}
	}
	return out
}

// crates scatters small step-over boxes on a ring around the plaza, skipping
// any placement that would overlap geometry already on the ground.
func crates(seed string, placed []BoxDef) []BoxDef {
	rng := streamRNG(seed, "crates")
	var out []BoxDef
	for i := 0; i < townCrateCount; i++ {
		angle := float32(rng.Float64()) * 2 * math32.Pi
		ring := townCrateRing + float32(rng.Float64())*townCrateJitter
		x := ring * math32.Cos(angle)
		z := ring * math32.Sin(angle)
		half := townCrateSize / 2
		box := slab(fmt.Sprintf("crate-%d", i), x-half, 0, z-half, x+half, townCrateSize, z+half)
		if overlapsAny(box, placed) || overlapsAny(box, out) {
			continue
		}
		out = append(out, box)
	}
	return out
}

func intrudesCenter(x, z, half float32) bool {
	if math32.Abs(x) < townPlazaHalf+half+2 && math32.Abs(z) < townPlazaHalf+half+2 {
		return true
	}
	spawnZ := townPlazaHalf + 4
	return math32.Abs(x) < townSpawnClear+half && math32.Abs(z-spawnZ) < townSpawnClear+half
}

func overlapsAny(b BoxDef, others []BoxDef) bool {
	for _, o := range others {
		if o.Name == "ground" {
			continue
		}
		if b.Min.X < o.Max.X && b.Max.X > o.Min.X &&
			b.Min.Y < o.Max.Y && b.Max.Y > o.Min.Y &&
			b.Min.Z < o.Max.Z && b.Max.Z > o.Min.Z {
			return true
		}
	}
	return false
}

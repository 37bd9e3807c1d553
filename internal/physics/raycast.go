package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

type BlockHit struct {
	Cell     [3]int
	Distance float64
	Point    mgl64.Vec3
}

// RaycastBlocks walks the grid cell by cell (DDA) and reports the first solid
// block within maxDist along dir.
func RaycastBlocks(origin, dir mgl64.Vec3, maxDist float64, blockStore BlockStore) (BlockHit, bool) {
	if blockStore == nil || maxDist <= 0 {
		return BlockHit{}, false
	}
	if nearlyZero(dir.X()) && nearlyZero(dir.Y()) && nearlyZero(dir.Z()) {
		return BlockHit{}, false
	}
	dir = dir.Normalize()

	x := int(math.Floor(origin.X()))
	y := int(math.Floor(origin.Y()))
	z := int(math.Floor(origin.Z()))

	stepX, tMaxX, tDeltaX := ddaAxis(origin.X(), dir.X(), x)
	stepY, tMaxY, tDeltaY := ddaAxis(origin.Y(), dir.Y(), y)
	stepZ, tMaxZ, tDeltaZ := ddaAxis(origin.Z(), dir.Z(), z)

	distance := 0.0
	for distance <= maxDist {
		if blockStore.IsSolid(x, y, z) {
			return BlockHit{
				Cell:     [3]int{x, y, z},
				Distance: distance,
				Point:    origin.Add(dir.Mul(distance)),
			}, true
		}

		switch {
		case tMaxX <= tMaxY && tMaxX <= tMaxZ:
			x += stepX
			distance = tMaxX
			tMaxX += tDeltaX
		case tMaxY <= tMaxX && tMaxY <= tMaxZ:
			y += stepY
			distance = tMaxY
			tMaxY += tDeltaY
		default:
			z += stepZ
			distance = tMaxZ
			tMaxZ += tDeltaZ
		}
	}

	return BlockHit{}, false
}

func ddaAxis(origin, dir float64, cell int) (step int, tMax float64, tDelta float64) {
	if nearlyZero(dir) {
		return 0, math.Inf(1), math.Inf(1)
	}
	if dir > 0 {
		return 1, (float64(cell+1) - origin) / dir, 1.0 / dir
	}
	inv := -dir
	return -1, (origin - float64(cell)) / inv, 1.0 / inv
}

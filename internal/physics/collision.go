package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

type BlockStore interface {
	IsSolid(x, y, z int) bool
}

type AABB struct {
	Min mgl64.Vec3
	Max mgl64.Vec3
}

// Shape is a box collider anchored at the centre of its bottom face.
type Shape struct {
	HalfWidth float64
	Height    float64
}

func (s Shape) At(pos mgl64.Vec3) AABB {
	return AABB{
		Min: mgl64.Vec3{pos.X() - s.HalfWidth, pos.Y(), pos.Z() - s.HalfWidth},
		Max: mgl64.Vec3{pos.X() + s.HalfWidth, pos.Y() + s.Height, pos.Z() + s.HalfWidth},
	}
}

func (a AABB) Intersects(b AABB) bool {
	for i := 0; i < 3; i++ {
		if a.Min[i] >= b.Max[i] || a.Max[i] <= b.Min[i] {
			return false
		}
	}
	return true
}

func (a AABB) Center() mgl64.Vec3 {
	return a.Min.Add(a.Max).Mul(0.5)
}

// RayIntersect returns the distance along dir at which the ray enters the box.
// A ray starting inside the box reports distance zero.
func (a AABB) RayIntersect(origin, dir mgl64.Vec3) (float64, bool) {
	tMin := math.Inf(-1)
	tMax := math.Inf(1)
	for i := 0; i < 3; i++ {
		if nearlyZero(dir[i]) {
			if origin[i] < a.Min[i] || origin[i] > a.Max[i] {
				return 0, false
			}
			continue
		}
		t1 := (a.Min[i] - origin[i]) / dir[i]
		t2 := (a.Max[i] - origin[i]) / dir[i]
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tMin = math.Max(tMin, t1)
		tMax = math.Min(tMax, t2)
		if tMin > tMax {
			return 0, false
		}
	}
	if tMax < 0 {
		return 0, false
	}
	return math.Max(tMin, 0), true
}

func CollidesWithBlock(box AABB, blockStore BlockStore) bool {
	if blockStore == nil {
		return false
	}

	minX, maxX := floorForMin(box.Min.X()), floorForMax(box.Max.X())
	minY, maxY := floorForMin(box.Min.Y()), floorForMax(box.Max.Y())
	minZ, maxZ := floorForMin(box.Min.Z()), floorForMax(box.Max.Z())

	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			for z := minZ; z <= maxZ; z++ {
				if !blockStore.IsSolid(x, y, z) {
					continue
				}
				if box.Intersects(BlockAABB(x, y, z)) {
					return true
				}
			}
		}
	}

	return false
}

func BlockAABB(x, y, z int) AABB {
	return AABB{
		Min: mgl64.Vec3{float64(x), float64(y), float64(z)},
		Max: mgl64.Vec3{float64(x + 1), float64(y + 1), float64(z + 1)},
	}
}

// ResolveMovement sweeps shape from pos by delta one axis at a time (Y, X, Z)
// and returns the new position together with the displacement actually applied.
func ResolveMovement(pos, delta mgl64.Vec3, shape Shape, blockStore BlockStore) (mgl64.Vec3, mgl64.Vec3) {
	newPos := pos
	var applied mgl64.Vec3
	for _, axis := range [3]int{1, 0, 2} {
		allowed := resolveAxis(newPos, delta[axis], axis, shape, blockStore)
		newPos[axis] += allowed
		applied[axis] = allowed
	}
	return newPos, applied
}

func resolveAxis(pos mgl64.Vec3, delta float64, axis int, shape Shape, blockStore BlockStore) float64 {
	if blockStore == nil || nearlyZero(delta) {
		return delta
	}

	box := shape.At(pos)
	u, v := (axis+1)%3, (axis+2)%3
	minU, maxU := floorForMin(box.Min[u]), floorForMax(box.Max[u])
	minV, maxV := floorForMin(box.Min[v]), floorForMax(box.Max[v])

	solidAt := func(c, cu, cv int) bool {
		var cell [3]int
		cell[axis], cell[u], cell[v] = c, cu, cv
		return blockStore.IsSolid(cell[0], cell[1], cell[2])
	}

	allowed := delta
	if delta > 0 {
		start := int(math.Floor(box.Max[axis]))
		end := int(math.Floor(box.Max[axis] + delta))
		for c := start; c <= end; c++ {
			for cu := minU; cu <= maxU; cu++ {
				for cv := minV; cv <= maxV; cv++ {
					if !solidAt(c, cu, cv) {
						continue
					}
					if candidate := float64(c) - box.Max[axis]; candidate < allowed {
						allowed = candidate
					}
				}
			}
		}
		return math.Max(allowed, 0)
	}

	start := int(math.Floor(box.Min[axis] + delta))
	end := int(math.Floor(box.Min[axis] - CollisionAxisTolerance))
	for c := end; c >= start; c-- {
		for cu := minU; cu <= maxU; cu++ {
			for cv := minV; cv <= maxV; cv++ {
				if !solidAt(c, cu, cv) {
					continue
				}
				if candidate := float64(c+1) - box.Min[axis]; candidate > allowed {
					allowed = candidate
				}
			}
		}
	}
	return math.Min(allowed, 0)
}

func standingOnSolid(shape Shape, pos mgl64.Vec3, blockStore BlockStore) bool {
	if blockStore == nil {
		return false
	}
	probe := shape.At(pos)
	probe.Min[1] -= GroundProbeDistance
	probe.Max[1] -= GroundProbeDistance
	return CollidesWithBlock(probe, blockStore)
}

func floorForMin(v float64) int {
	return int(math.Floor(v + CollisionAxisTolerance))
}

func floorForMax(v float64) int {
	return int(math.Floor(v - CollisionAxisTolerance))
}

func nearlyZero(v float64) bool {
	return math.Abs(v) <= CollisionAxisTolerance
}

func nearlyEqual(a, b float64) bool {
	return math.Abs(a-b) <= CollisionAxisTolerance
}

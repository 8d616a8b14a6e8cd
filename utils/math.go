package utils

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// AABB is an axis-aligned box in world units.
type AABB struct {
	Min mgl32.Vec3
	Max mgl32.Vec3
}

func NewAABB(min, max mgl32.Vec3) AABB {
	return AABB{Min: min, Max: max}
}

func (b AABB) Size() mgl32.Vec3 {
	return b.Max.Sub(b.Min)
}

// Diagonal is the length of the box diagonal.
func (b AABB) Diagonal() float32 {
	return b.Size().Len()
}

// Collides reports strict overlap: touching faces do not collide.
func (b AABB) Collides(o AABB) bool {
	return b.Max[0] > o.Min[0] && b.Min[0] < o.Max[0] &&
		b.Max[1] > o.Min[1] && b.Min[1] < o.Max[1] &&
		b.Max[2] > o.Min[2] && b.Min[2] < o.Max[2]
}

func (b AABB) Translate(v mgl32.Vec3) AABB {
	return AABB{Min: b.Min.Add(v), Max: b.Max.Add(v)}
}

// Expand grows the box by lo below Min and hi above Max.
func (b AABB) Expand(lo, hi mgl32.Vec3) AABB {
	return AABB{Min: b.Min.Sub(lo), Max: b.Max.Add(hi)}
}

func ClampVec3(v mgl32.Vec3, lo, hi float32) mgl32.Vec3 {
	for i := range v {
		v[i] = mgl32.Clamp(v[i], lo, hi)
	}
	return v
}

func lineToPlane(p, u, v, n mgl32.Vec3) float32 {
	nDotU := n.Dot(u)
	if nDotU == 0 {
		return float32(math.Inf(1))
	}
	return n.Dot(v.Sub(p)) / nDotU
}

func isBetween(x, lo, hi float32) bool {
	return x >= lo && x <= hi
}

// SweepAABB moves a along direction and returns the fraction h in [0,1] of
// the move at which it first touches b, with the surface normal of the face
// that was hit. h == 1 means no contact during the move. Faces are tried
// in X-min, X-max, Y-min, Y-max, Z-min, Z-max order and only a strictly
// earlier hit replaces a previous one.
func SweepAABB(a, b AABB, direction mgl32.Vec3) (float32, mgl32.Vec3) {
	m := b.Min.Sub(a.Max)
	mh := a.Size().Add(b.Size())

	var h float32 = 1
	var normal mgl32.Vec3
	var zero mgl32.Vec3

	for axis := 0; axis < 3; axis++ {
		u, w := (axis+1)%3, (axis+2)%3

		inPlane := func(s float32) bool {
			return isBetween(s*direction[u], m[u], m[u]+mh[u]) &&
				isBetween(s*direction[w], m[w], m[w]+mh[w])
		}

		var n mgl32.Vec3
		n[axis] = -1
		if s := lineToPlane(zero, direction, m, n); s >= 0 && direction[axis] > 0 && s < h && inPlane(s) {
			h = s
			normal = n
		}

		m[axis] += mh[axis]
		n[axis] = 1
		if s := lineToPlane(zero, direction, m, n); s >= 0 && direction[axis] < 0 && s < h && inPlane(s) {
			h = s
			normal = n
		}
		m[axis] -= mh[axis]
	}

	return h, normal
}

package utils

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func unitCube(x, y, z float32) AABB {
	return NewAABB(mgl32.Vec3{x, y, z}, mgl32.Vec3{x + 1, y + 1, z + 1})
}

func TestSweepAABBContactAlongX(t *testing.T) {
	a := unitCube(0, 0, 0)
	b := unitCube(1.5, 0, 0)

	h, normal := SweepAABB(a, b, mgl32.Vec3{1, 0, 0})
	if h != 0.5 {
		t.Errorf("h = %v, want 0.5", h)
	}
	if normal != (mgl32.Vec3{-1, 0, 0}) {
		t.Errorf("normal = %v, want (-1,0,0)", normal)
	}
}

func TestSweepAABBNegativeDirection(t *testing.T) {
	a := unitCube(3, 0, 0)
	b := unitCube(0, 0, 0)

	h, normal := SweepAABB(a, b, mgl32.Vec3{-4, 0, 0})
	if h != 0.5 {
		t.Errorf("h = %v, want 0.5", h)
	}
	if normal != (mgl32.Vec3{1, 0, 0}) {
		t.Errorf("normal = %v, want (1,0,0)", normal)
	}
}

func TestSweepAABBMiss(t *testing.T) {
	a := unitCube(0, 0, 0)
	b := unitCube(1.5, 5, 0)

	h, normal := SweepAABB(a, b, mgl32.Vec3{1, 0, 0})
	if h != 1 {
		t.Errorf("h = %v, want 1", h)
	}
	if normal != (mgl32.Vec3{}) {
		t.Errorf("normal = %v, want zero", normal)
	}
}

func TestSweepAABBTieKeepsFirstFace(t *testing.T) {
	// Diagonal move reaching the X-min and Y-min faces at the same time.
	a := unitCube(0, 0, 0)
	b := unitCube(1.5, 1.5, 0)

	h, normal := SweepAABB(a, b, mgl32.Vec3{1, 1, 0})
	if h != 0.5 {
		t.Errorf("h = %v, want 0.5", h)
	}
	if normal != (mgl32.Vec3{-1, 0, 0}) {
		t.Errorf("normal = %v, want X-min face", normal)
	}
}

func TestAABBCollides(t *testing.T) {
	tests := []struct {
		name string
		a, b AABB
		want bool
	}{
		{"overlap", unitCube(0, 0, 0), unitCube(0.5, 0.5, 0.5), true},
		{"touching", unitCube(0, 0, 0), unitCube(1, 0, 0), false},
		{"apart", unitCube(0, 0, 0), unitCube(3, 3, 3), false},
		{"contained", NewAABB(mgl32.Vec3{}, mgl32.Vec3{10, 10, 10}), unitCube(2, 2, 2), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Collides(tt.b); got != tt.want {
				t.Errorf("Collides = %v, want %v", got, tt.want)
			}
			if got := tt.b.Collides(tt.a); got != tt.want {
				t.Errorf("Collides is not symmetric")
			}
		})
	}
}

func TestAABBDiagonal(t *testing.T) {
	b := NewAABB(mgl32.Vec3{}, mgl32.Vec3{3, 4, 0})
	if d := b.Diagonal(); d != 5 {
		t.Errorf("Diagonal = %v, want 5", d)
	}
}

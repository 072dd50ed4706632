package quadric

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestFacePlaneQuadricPlanarPatch(t *testing.T) {
	// A triangle lying flat in the z=0 plane: the plane is (0,0,1,0) up to
	// sign and scale, so any point with z=0 has zero error.
	p1 := mgl64.Vec3{0, 0, 0}
	p2 := mgl64.Vec3{1, 0, 0}
	p3 := mgl64.Vec3{0, 1, 0}

	q := FacePlaneQuadric(p1, p2, p3)

	got := q.Eval(0.3, 0.3, 0)
	if math.Abs(got) > 1e-9 {
		t.Errorf("Eval at z=0 = %v, want ~0", got)
	}

	got = q.Eval(0.3, 0.3, 1)
	if got <= 0 {
		t.Errorf("Eval at z=1 = %v, want > 0", got)
	}
}

func TestFacePlaneQuadricDegenerate(t *testing.T) {
	tests := []struct {
		name       string
		p1, p2, p3 mgl64.Vec3
	}{
		{"collinear", mgl64.Vec3{0, 0, 0}, mgl64.Vec3{1, 0, 0}, mgl64.Vec3{2, 0, 0}},
		{"duplicate", mgl64.Vec3{1, 1, 1}, mgl64.Vec3{1, 1, 1}, mgl64.Vec3{1, 1, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := FacePlaneQuadric(tt.p1, tt.p2, tt.p3)
			if q != (Quadric{}) {
				t.Errorf("FacePlaneQuadric(%v,%v,%v) = %v, want zero quadric", tt.p1, tt.p2, tt.p3, q)
			}
		})
	}
}

func TestAreaWeighting(t *testing.T) {
	// Doubling the triangle's linear size quadruples its area; the quadric is
	// weighted by the square of twice the area, so it must grow 16x
	// (area-weighting is preserved, not normalized).
	small := FacePlaneQuadric(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{1, 0, 0}, mgl64.Vec3{0, 1, 0})
	big := FacePlaneQuadric(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{2, 0, 0}, mgl64.Vec3{0, 2, 0})

	for i := range small {
		want := small[i] * 16
		if math.Abs(big[i]-want) > 1e-9 {
			t.Errorf("big[%d] = %v, want %v (16x small[%d]=%v)", i, big[i], want, i, small[i])
		}
	}
}

func TestAddIsCommutativeAndAssociative(t *testing.T) {
	q1 := FacePlaneQuadric(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{1, 0, 0}, mgl64.Vec3{0, 1, 0})
	q2 := FacePlaneQuadric(mgl64.Vec3{1, 1, 1}, mgl64.Vec3{2, 1, 1}, mgl64.Vec3{1, 2, 1})
	q3 := FacePlaneQuadric(mgl64.Vec3{0, 0, 2}, mgl64.Vec3{1, 0, 2}, mgl64.Vec3{0, 2, 3})

	if q1.Add(q2) != q2.Add(q1) {
		t.Errorf("Add is not commutative")
	}
	if q1.Add(q2).Add(q3) != q1.Add(q2.Add(q3)) {
		t.Errorf("Add is not associative")
	}
}

func TestEvalOverflowClampsToInf(t *testing.T) {
	q := Quadric{math.MaxFloat64, 0, 0, 0, 0, 0, 0, 0, 0, 0}
	got := q.Eval(math.MaxFloat64, 0, 0)
	if !math.IsInf(got, 1) {
		t.Errorf("Eval overflow = %v, want +Inf", got)
	}
}

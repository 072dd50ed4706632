// Package quadric implements the quadric error metric used to score
// candidate vertex-pair contractions during mesh decimation.
package quadric

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Quadric is a symmetric 4x4 error matrix stored as 10 packed floats in the
// fixed order (a2, ab, ac, ad, b2, bc, bd, c2, cd, d2). The order is load
// bearing: Eval expands it positionally.
type Quadric [10]float64

// FacePlaneQuadric computes the fundamental quadric K_f of the plane
// supporting the triangle (p1, p2, p3). The plane normal is the
// non-normalized cross product (p2-p1)x(p3-p1); using it unnormalized
// weights the quadric by the square of twice the triangle's area, which is
// the standard QEM area-weighting. A degenerate (zero-area) triangle
// produces the zero quadric.
func FacePlaneQuadric(p1, p2, p3 mgl64.Vec3) Quadric {
	n := p2.Sub(p1).Cross(p3.Sub(p1))
	a, b, c := n.X(), n.Y(), n.Z()
	if a == 0 && b == 0 && c == 0 {
		return Quadric{}
	}
	d := -n.Dot(p1)

	return Quadric{
		a * a, a * b, a * c, a * d,
		b * b, b * c, b * d,
		c * c, c * d,
		d * d,
	}
}

// Add returns the sum of two quadrics.
func (q Quadric) Add(other Quadric) Quadric {
	var sum Quadric
	for i := range q {
		sum[i] = q[i] + other[i]
	}
	return sum
}

// Eval evaluates x^T Q x for the homogeneous point x=(x,y,z,1). A numeric
// overflow clamps to +Inf rather than propagating NaN, so the contraction
// loop can defer an offending candidate instead of aborting.
func (q Quadric) Eval(x, y, z float64) float64 {
	cost := q[0]*x*x + 2*q[1]*x*y + 2*q[2]*x*z + 2*q[3]*x +
		q[4]*y*y + 2*q[5]*y*z + 2*q[6]*y +
		q[7]*z*z + 2*q[8]*z +
		q[9]

	if math.IsNaN(cost) {
		return math.Inf(1)
	}
	return cost
}

package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// manifold is the contact set between two bodies. Normal points from B towards A,
// so moving A along Normal separates the pair.
type manifold struct {
	a, b   *RigidBody
	normal mgl32.Vec3
	depth  float32
	points []contactPoint
}

// contactPoint is one solver row set of a manifold.
type contactPoint struct {
	position mgl32.Vec3
	rA, rB   mgl32.Vec3

	tangent1, tangent2 mgl32.Vec3

	normalMass   float32
	tangentMass1 float32
	tangentMass2 float32
	bias         float32

	normalImpulse   float32
	tangentImpulse1 float32
	tangentImpulse2 float32
}

// collideFunc computes a manifold for bodies whose shapes match the table slot.
type collideFunc func(a, b *RigidBody) (manifold, bool)

// collisionDispatcher selects the narrowphase routine for a pair of shapes.
type collisionDispatcher struct {
	table     [3][3]collideFunc
	manifolds []manifold
}

func newCollisionDispatcher() *collisionDispatcher {
	d := &collisionDispatcher{}
	d.table[ShapeBox][ShapeBox] = collideBoxBox
	d.table[ShapeBox][ShapeSphere] = collideBoxSphere
	d.table[ShapeBox][ShapeStaticPlane] = collideBoxPlane
	d.table[ShapeSphere][ShapeSphere] = collideSphereSphere
	d.table[ShapeSphere][ShapeStaticPlane] = collideSpherePlane
	return d
}

// dispatch runs the narrowphase over all candidate pairs.
func (d *collisionDispatcher) dispatch(pairs [][2]*RigidBody) []manifold {
	d.manifolds = d.manifolds[:0]
	for _, p := range pairs {
		a, b := p[0], p[1]
		if a.shape.Kind() > b.shape.Kind() {
			a, b = b, a
		}
		fn := d.table[a.shape.Kind()][b.shape.Kind()]
		if fn == nil {
			continue
		}
		if m, ok := fn(a, b); ok {
			d.manifolds = append(d.manifolds, m)
		}
	}
	return d.manifolds
}

func (d *collisionDispatcher) release() {
	d.manifolds = nil
}

// collideBoxBox runs the separating axis test over the 15 OBB axes.
func collideBoxBox(a, b *RigidBody) (manifold, bool) {
	boxA := a.shape.(*BoxShape)
	boxB := b.shape.(*BoxShape)
	ta, tb := a.transform, b.transform
	axesA := basisAxes(ta)
	axesB := basisAxes(tb)
	l := tb.Origin.Sub(ta.Origin)

	testAxes := make([]mgl32.Vec3, 0, 15)
	testAxes = append(testAxes, axesA[:]...)
	testAxes = append(testAxes, axesB[:]...)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			c := axesA[i].Cross(axesB[j])
			if c.LenSqr() > 1e-4 {
				testAxes = append(testAxes, c.Normalize())
			}
		}
	}

	minOverlap := float32(math.MaxFloat32)
	var normal mgl32.Vec3
	for _, axis := range testAxes {
		var pa, pb float32
		for i := 0; i < 3; i++ {
			pa += absf(axesA[i].Dot(axis)) * boxA.HalfExtents[i]
			pb += absf(axesB[i].Dot(axis)) * boxB.HalfExtents[i]
		}
		overlap := pa + pb - absf(l.Dot(axis))
		if overlap <= 0 {
			return manifold{}, false
		}
		if overlap < minOverlap {
			minOverlap = overlap
			normal = axis
		}
	}
	if l.Dot(normal) > 0 {
		normal = normal.Mul(-1)
	}

	m := manifold{a: a, b: b, normal: normal, depth: minOverlap}
	for _, p := range boxA.corners(ta) {
		if pointInBox(p, tb, axesB, boxB.HalfExtents) {
			m.points = append(m.points, contactPoint{position: p})
		}
	}
	for _, p := range boxB.corners(tb) {
		if pointInBox(p, ta, axesA, boxA.HalfExtents) {
			m.points = append(m.points, contactPoint{position: p})
		}
	}
	if len(m.points) == 0 {
		m.points = append(m.points, contactPoint{position: ta.Origin.Add(tb.Origin).Mul(0.5)})
	}
	return m, true
}

// collideBoxSphere finds the closest point of the box to the sphere center.
func collideBoxSphere(a, b *RigidBody) (manifold, bool) {
	box := a.shape.(*BoxShape)
	sphere := b.shape.(*SphereShape)
	ta := a.transform
	center := b.transform.Origin

	inv := ta.Rotation.Conjugate()
	local := inv.Rotate(center.Sub(ta.Origin))
	clamped := local
	inside := true
	for i := 0; i < 3; i++ {
		if clamped[i] < -box.HalfExtents[i] {
			clamped[i] = -box.HalfExtents[i]
			inside = false
		} else if clamped[i] > box.HalfExtents[i] {
			clamped[i] = box.HalfExtents[i]
			inside = false
		}
	}

	if inside {
		axis, pen := 0, float32(math.MaxFloat32)
		for i := 0; i < 3; i++ {
			if p := box.HalfExtents[i] - absf(local[i]); p < pen {
				axis, pen = i, p
			}
		}
		var n mgl32.Vec3
		n[axis] = 1
		if local[axis] < 0 {
			n[axis] = -1
		}
		normal := ta.Rotation.Rotate(n).Mul(-1)
		return manifold{a: a, b: b, normal: normal, depth: pen + sphere.Radius,
			points: []contactPoint{{position: center}}}, true
	}

	closest := ta.Apply(clamped)
	d := center.Sub(closest)
	dist := d.Len()
	if dist >= sphere.Radius || dist < 1e-6 {
		return manifold{}, false
	}
	return manifold{a: a, b: b, normal: d.Mul(-1 / dist), depth: sphere.Radius - dist,
		points: []contactPoint{{position: closest}}}, true
}

// collideBoxPlane tests every box corner against the plane.
func collideBoxPlane(a, b *RigidBody) (manifold, bool) {
	box := a.shape.(*BoxShape)
	plane := b.shape.(*StaticPlaneShape)
	n, k := plane.world(b.transform)

	m := manifold{a: a, b: b, normal: n}
	for _, p := range box.corners(a.transform) {
		dist := n.Dot(p) - k
		if dist < 0 {
			m.points = append(m.points, contactPoint{position: p})
			if -dist > m.depth {
				m.depth = -dist
			}
		}
	}
	return m, len(m.points) > 0
}

func collideSphereSphere(a, b *RigidBody) (manifold, bool) {
	ra := a.shape.(*SphereShape).Radius
	rb := b.shape.(*SphereShape).Radius
	d := b.transform.Origin.Sub(a.transform.Origin)
	dist := d.Len()
	if dist >= ra+rb {
		return manifold{}, false
	}
	dir := mgl32.Vec3{0, 1, 0}
	if dist > 1e-6 {
		dir = d.Mul(1 / dist)
	}
	return manifold{a: a, b: b, normal: dir.Mul(-1), depth: ra + rb - dist,
		points: []contactPoint{{position: a.transform.Origin.Add(dir.Mul(ra))}}}, true
}

func collideSpherePlane(a, b *RigidBody) (manifold, bool) {
	r := a.shape.(*SphereShape).Radius
	n, k := b.shape.(*StaticPlaneShape).world(b.transform)
	c := a.transform.Origin
	pen := r - (n.Dot(c) - k)
	if pen <= 0 {
		return manifold{}, false
	}
	return manifold{a: a, b: b, normal: n, depth: pen,
		points: []contactPoint{{position: c.Sub(n.Mul(r))}}}, true
}

func basisAxes(t Transform) [3]mgl32.Vec3 {
	r := t.Basis()
	return [3]mgl32.Vec3{r.Col(0), r.Col(1), r.Col(2)}
}

func pointInBox(p mgl32.Vec3, t Transform, axes [3]mgl32.Vec3, half mgl32.Vec3) bool {
	d := p.Sub(t.Origin)
	for i := 0; i < 3; i++ {
		if absf(d.Dot(axes[i])) > half[i]+0.01 {
			return false
		}
	}
	return true
}

package physics

import (
	"github.com/go-gl/mathgl/mgl32"
)

const (
	// restitutionThreshold is the closing speed below which contacts do not bounce.
	restitutionThreshold = 1.0

	// penetrationSlop is the overlap tolerated before positional correction kicks in.
	penetrationSlop = 0.005

	// correctionFactor is the fraction of remaining overlap removed per step.
	correctionFactor = 0.8
)

// sequentialImpulseSolver resolves contact velocities with accumulated,
// clamped impulses and removes residual overlap by projection.
type sequentialImpulseSolver struct {
	iterations int
}

func newSequentialImpulseSolver(iterations int) *sequentialImpulseSolver {
	if iterations <= 0 {
		iterations = 10
	}
	return &sequentialImpulseSolver{iterations: iterations}
}

// solve runs the velocity iterations over every manifold.
func (s *sequentialImpulseSolver) solve(manifolds []manifold) {
	for mi := range manifolds {
		prepareManifold(&manifolds[mi])
	}
	for it := 0; it < s.iterations; it++ {
		for mi := range manifolds {
			m := &manifolds[mi]
			for ci := range m.points {
				solveContact(m, &m.points[ci])
			}
		}
	}
}

// correctPositions pushes overlapping bodies apart along the manifold normal.
func (s *sequentialImpulseSolver) correctPositions(manifolds []manifold) {
	for mi := range manifolds {
		m := &manifolds[mi]
		total := responseMass(m.a) + responseMass(m.b)
		if total == 0 {
			continue
		}
		excess := m.depth - penetrationSlop
		if excess <= 0 {
			continue
		}
		corr := m.normal.Mul(excess * correctionFactor / total)
		if active(m.a) {
			m.a.transform.Origin = m.a.transform.Origin.Add(corr.Mul(m.a.invMass))
		}
		if active(m.b) {
			m.b.transform.Origin = m.b.transform.Origin.Sub(corr.Mul(m.b.invMass))
		}
	}
}

func prepareManifold(m *manifold) {
	a, b := m.a, m.b
	// only a body in motion wakes what it touches; a sleeping body otherwise acts as static
	if a.sleeping && b.moving() {
		a.Activate()
	}
	if b.sleeping && a.moving() {
		b.Activate()
	}

	e := (a.restitution + b.restitution) * 0.5
	t1, t2 := tangentBasis(m.normal)
	var invIA, invIB mgl32.Mat3
	if active(a) {
		invIA = a.invInertiaWorld()
	}
	if active(b) {
		invIB = b.invInertiaWorld()
	}

	for ci := range m.points {
		c := &m.points[ci]
		c.rA = c.position.Sub(a.transform.Origin)
		c.rB = c.position.Sub(b.transform.Origin)
		c.tangent1, c.tangent2 = t1, t2
		c.normalMass = effectiveMass(a, b, invIA, invIB, c.rA, c.rB, m.normal)
		c.tangentMass1 = effectiveMass(a, b, invIA, invIB, c.rA, c.rB, t1)
		c.tangentMass2 = effectiveMass(a, b, invIA, invIB, c.rA, c.rB, t2)

		vn := a.velocityAt(c.rA).Sub(b.velocityAt(c.rB)).Dot(m.normal)
		c.bias = 0
		if vn < -restitutionThreshold {
			c.bias = -e * vn
		}
	}
}

func solveContact(m *manifold, c *contactPoint) {
	a, b := m.a, m.b
	friction := (a.friction + b.friction) * 0.5

	vrel := a.velocityAt(c.rA).Sub(b.velocityAt(c.rB))
	vn := vrel.Dot(m.normal)
	dj := c.normalMass * (c.bias - vn)
	old := c.normalImpulse
	c.normalImpulse = max(old+dj, 0)
	applyPairImpulse(a, b, c, m.normal.Mul(c.normalImpulse-old))

	limit := friction * c.normalImpulse
	vrel = a.velocityAt(c.rA).Sub(b.velocityAt(c.rB))
	old = c.tangentImpulse1
	c.tangentImpulse1 = clampf(old-c.tangentMass1*vrel.Dot(c.tangent1), -limit, limit)
	applyPairImpulse(a, b, c, c.tangent1.Mul(c.tangentImpulse1-old))

	vrel = a.velocityAt(c.rA).Sub(b.velocityAt(c.rB))
	old = c.tangentImpulse2
	c.tangentImpulse2 = clampf(old-c.tangentMass2*vrel.Dot(c.tangent2), -limit, limit)
	applyPairImpulse(a, b, c, c.tangent2.Mul(c.tangentImpulse2-old))
}

func applyPairImpulse(a, b *RigidBody, c *contactPoint, impulse mgl32.Vec3) {
	if active(a) {
		a.applyImpulse(impulse, c.rA)
	}
	if active(b) {
		b.applyImpulse(impulse.Mul(-1), c.rB)
	}
}

func effectiveMass(a, b *RigidBody, invIA, invIB mgl32.Mat3, rA, rB, dir mgl32.Vec3) float32 {
	k := responseMass(a) + responseMass(b)
	k += invIA.Mul3x1(rA.Cross(dir)).Cross(rA).Dot(dir)
	k += invIB.Mul3x1(rB.Cross(dir)).Cross(rB).Dot(dir)
	if k <= 0 {
		return 0
	}
	return 1 / k
}

// responseMass is the inverse mass a body answers impulses with. Sleeping bodies answer like static ones.
func responseMass(b *RigidBody) float32 {
	if !active(b) {
		return 0
	}
	return b.invMass
}

// tangentBasis returns two unit vectors orthogonal to n and to each other.
func tangentBasis(n mgl32.Vec3) (mgl32.Vec3, mgl32.Vec3) {
	ref := mgl32.Vec3{1, 0, 0}
	if absf(n.X()) > 0.57 {
		ref = mgl32.Vec3{0, 1, 0}
	}
	t1 := n.Cross(ref).Normalize()
	return t1, n.Cross(t1)
}

func clampf(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

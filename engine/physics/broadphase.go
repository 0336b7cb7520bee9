package physics

import (
	"sort"

	"github.com/go-gl/mathgl/mgl32"
)

// broadphaseProxy caches the world bounds of one body for a single step.
type broadphaseProxy struct {
	body     *RigidBody
	min, max mgl32.Vec3
}

// sweepAndPrune finds candidate pairs by sorting bounds along X and sweeping.
type sweepAndPrune struct {
	proxies []broadphaseProxy
	pairs   [][2]*RigidBody
}

func newSweepAndPrune() *sweepAndPrune {
	return &sweepAndPrune{}
}

// findPairs returns every pair of bodies whose world AABBs overlap and that
// could interact: at least one side must be dynamic and awake.
func (s *sweepAndPrune) findPairs(bodies []*RigidBody) [][2]*RigidBody {
	s.proxies = s.proxies[:0]
	s.pairs = s.pairs[:0]

	for _, b := range bodies {
		lo, hi := b.shape.AABB(b.transform)
		s.proxies = append(s.proxies, broadphaseProxy{body: b, min: lo, max: hi})
	}
	sort.SliceStable(s.proxies, func(i, j int) bool {
		return s.proxies[i].min.X() < s.proxies[j].min.X()
	})

	for i := range s.proxies {
		a := &s.proxies[i]
		for j := i + 1; j < len(s.proxies); j++ {
			b := &s.proxies[j]
			if b.min.X() > a.max.X() {
				break
			}
			if !active(a.body) && !active(b.body) {
				continue
			}
			if a.min.Y() > b.max.Y() || b.min.Y() > a.max.Y() || a.min.Z() > b.max.Z() || b.min.Z() > a.max.Z() {
				continue
			}
			s.pairs = append(s.pairs, [2]*RigidBody{a.body, b.body})
		}
	}
	return s.pairs
}

// release drops the cached proxies.
func (s *sweepAndPrune) release() {
	s.proxies = nil
	s.pairs = nil
}

func active(b *RigidBody) bool {
	return !b.IsStatic() && !b.sleeping
}

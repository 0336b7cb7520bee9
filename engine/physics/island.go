package physics

// islands is a union-find over bodies linked by contacts.
type islands struct {
	parent map[*RigidBody]*RigidBody
}

func newIslands() *islands {
	return &islands{parent: make(map[*RigidBody]*RigidBody)}
}

// find returns the representative of b's island. Unseen bodies are their own island.
func (is *islands) find(b *RigidBody) *RigidBody {
	root := b
	for {
		p, ok := is.parent[root]
		if !ok || p == root {
			break
		}
		root = p
	}
	for b != root {
		next, ok := is.parent[b]
		if !ok {
			break
		}
		is.parent[b] = root
		b = next
	}
	return root
}

func (is *islands) union(a, b *RigidBody) {
	ra, rb := is.find(a), is.find(b)
	if ra != rb {
		is.parent[ra] = rb
	}
}

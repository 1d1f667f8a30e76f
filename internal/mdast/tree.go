package mdast

// ID addresses a node inside a Tree.
type ID int

// None is the parent of the root and the result of a missing sibling.
const None ID = -1

type node struct {
	parent   ID
	children []ID
	data     Data
}

// Tree is an arena of nodes. Parent and child relationships are index
// arrays, so writing to a sibling is an explicit indexed write.
type Tree struct {
	nodes []node
}

// New returns a tree holding a single root node.
func New() *Tree {
	t := &Tree{}
	t.nodes = append(t.nodes, node{parent: None, data: Other{Kind: TypeRoot}})
	return t
}

// Root returns the root node ID.
func (t *Tree) Root() ID { return 0 }

// Len returns the number of nodes in the arena.
func (t *Tree) Len() int { return len(t.nodes) }

// Append adds a new node with the given data as the last child of parent.
func (t *Tree) Append(parent ID, data Data) ID {
	id := ID(len(t.nodes))
	t.nodes = append(t.nodes, node{parent: parent, data: data})
	t.nodes[parent].children = append(t.nodes[parent].children, id)
	return id
}

// Data returns the payload of id.
func (t *Tree) Data(id ID) Data { return t.nodes[id].data }

// Type returns the mdast type of id.
func (t *Tree) Type(id ID) string { return t.nodes[id].data.Type() }

// Set replaces the payload of id. Children are kept.
func (t *Tree) Set(id ID, data Data) { t.nodes[id].data = data }

// Parent returns the parent of id, or None for the root.
func (t *Tree) Parent(id ID) ID { return t.nodes[id].parent }

// Children returns the ordered children of id. The slice must not be modified.
func (t *Tree) Children(id ID) []ID { return t.nodes[id].children }

// Index returns the position of id among its parent's children, or -1 for the root.
func (t *Tree) Index(id ID) int {
	p := t.nodes[id].parent
	if p == None {
		return -1
	}
	for i, c := range t.nodes[p].children {
		if c == id {
			return i
		}
	}
	return -1
}

// Sibling returns the node offset positions away from id within the same
// parent, or None when there is no such node.
func (t *Tree) Sibling(id ID, offset int) ID {
	p := t.nodes[id].parent
	if p == None {
		return None
	}
	i := t.Index(id) + offset
	siblings := t.nodes[p].children
	if i < 0 || i >= len(siblings) {
		return None
	}
	return siblings[i]
}

// WalkFunc is called for every visited node. Returning false stops the walk.
type WalkFunc func(id ID) bool

// Walk visits the subtree rooted at id depth-first, parents before children,
// left to right.
func (t *Tree) Walk(id ID, fn WalkFunc) {
	t.walk(id, fn)
}

func (t *Tree) walk(id ID, fn WalkFunc) bool {
	if !fn(id) {
		return false
	}
	for _, c := range t.nodes[id].children {
		if !t.walk(c, fn) {
			return false
		}
	}
	return true
}

// Find returns every node of the given type in document order.
func (t *Tree) Find(typ string) []ID {
	var ids []ID
	t.Walk(t.Root(), func(id ID) bool {
		if t.Type(id) == typ {
			ids = append(ids, id)
		}
		return true
	})
	return ids
}

// Clone returns a deep copy of the tree.
func (t *Tree) Clone() *Tree {
	c := &Tree{nodes: make([]node, len(t.nodes))}
	for i, n := range t.nodes {
		c.nodes[i] = node{parent: n.parent, data: n.data}
		if n.children != nil {
			c.nodes[i].children = append([]ID(nil), n.children...)
		}
	}
	return c
}

// Equal reports whether two trees have the same shape and payloads.
func Equal(a, b *Tree) bool {
	if len(a.nodes) != len(b.nodes) {
		return false
	}
	for i := range a.nodes {
		na, nb := a.nodes[i], b.nodes[i]
		if na.parent != nb.parent || na.data != nb.data || len(na.children) != len(nb.children) {
			return false
		}
		for j := range na.children {
			if na.children[j] != nb.children[j] {
				return false
			}
		}
	}
	return true
}

package treesync

// Tree holds the four sections and the current selection. The selection is
// a Token; it is resolved against the live nodes on every read.
type Tree struct {
	branches map[Branch]*Node
	index    map[Token]*Node
	selected Token
}

// NewTree returns a tree with empty sections laid out per expand.
func NewTree(expand ExpandState) *Tree {
	t := &Tree{branches: make(map[Branch]*Node, len(Branches))}
	for _, b := range Branches {
		n := newBranchNode(b)
		n.Expanded = expand.Get(b)
		t.branches[b] = n
	}
	t.reindex()
	return t
}

// Branch returns the section node for b.
func (t *Tree) Branch(b Branch) *Node { return t.branches[b] }

// Roots returns the section nodes in display order.
func (t *Tree) Roots() []*Node {
	out := make([]*Node, 0, len(Branches))
	for _, b := range Branches {
		out = append(out, t.branches[b])
	}
	return out
}

// Find resolves tok against the current nodes.
func (t *Tree) Find(tok Token) *Node {
	if tok.IsZero() {
		return nil
	}
	return t.index[tok]
}

// SelectedToken is the stored selection. It may be zero.
func (t *Tree) SelectedToken() Token { return t.selected }

// Selected resolves the selection, or returns nil.
func (t *Tree) Selected() *Node { return t.Find(t.selected) }

// Select sets the selection if tok resolves. It reports whether it did.
func (t *Tree) Select(tok Token) bool {
	if t.Find(tok) == nil {
		return false
	}
	t.selected = tok
	return true
}

// ClearSelection drops the selection.
func (t *Tree) ClearSelection() { t.selected = Token{} }

// Visible flattens the expanded part of the tree in display order.
func (t *Tree) Visible() []*Node {
	var out []*Node
	var walk func(n *Node)
	walk = func(n *Node) {
		out = append(out, n)
		if !n.Expanded {
			return
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	for _, root := range t.Roots() {
		walk(root)
	}
	return out
}

// Walk visits every node depth first until fn returns false.
func (t *Tree) Walk(fn func(*Node) bool) {
	var walk func(n *Node) bool
	walk = func(n *Node) bool {
		if !fn(n) {
			return false
		}
		for _, c := range n.Children {
			if !walk(c) {
				return false
			}
		}
		return true
	}
	for _, root := range t.Roots() {
		if !walk(root) {
			return
		}
	}
}

// Count returns the number of nodes of kind k.
func (t *Tree) Count(k Kind) int {
	n := 0
	t.Walk(func(node *Node) bool {
		if node.Kind == k {
			n++
		}
		return true
	})
	return n
}

// apply swaps in rebuilt sections and settles the selection: a found
// candidate is selected; a previous selection inside a rebuilt section that
// was not re-picked is cleared.
func (t *Tree) apply(res BuildResult, previous Token) {
	rebuilt := make(map[Branch]bool, len(res.Branches))
	for _, n := range res.Branches {
		t.branches[n.Branch] = n
		rebuilt[n.Branch] = true
	}
	t.reindex()

	switch {
	case res.Found:
		t.selected = res.Select
	case previous.IsZero():
	case previous.Kind == KindBranch:
	case rebuilt[previous.Branch()]:
		t.selected = Token{}
	}
	if t.Find(t.selected) == nil {
		t.selected = Token{}
	}
}

func (t *Tree) reindex() {
	t.index = make(map[Token]*Node)
	t.Walk(func(n *Node) bool {
		t.index[n.Token()] = n
		return true
	})
}

package content

// Point addresses one position in a tree: the path of child indices from the
// root to a node, plus a character offset within it for text nodes.
type Point struct {
	Path   []int
	Offset int
}

// Selection is a range between two points. Anchor is where the selection
// started, focus where it ends; they may be in either document order.
type Selection struct {
	Anchor Point
	Focus  Point
}

// Collapsed reports whether the selection is a caret (zero-width range).
func (s *Selection) Collapsed() bool {
	if len(s.Anchor.Path) != len(s.Focus.Path) {
		return false
	}
	for i := range s.Anchor.Path {
		if s.Anchor.Path[i] != s.Focus.Path[i] {
			return false
		}
	}
	return s.Anchor.Offset == s.Focus.Offset
}

// nodeAt resolves a path to a node, or nil when the path falls outside the
// tree. An empty path resolves to the root.
func (t *Tree) nodeAt(path []int) *Node {
	n := t.Root
	for _, idx := range path {
		if n == nil || idx < 0 || idx >= len(n.Children) {
			return nil
		}
		n = n.Children[idx]
	}
	return n
}

// comparePaths orders two paths in document order.
func comparePaths(a, b []int) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	}
	return 0
}

// ordered returns the selection's endpoints in document order.
func (s *Selection) ordered() (start, end Point) {
	if comparePaths(s.Anchor.Path, s.Focus.Path) <= 0 {
		return s.Anchor, s.Focus
	}
	return s.Focus, s.Anchor
}

// blockRange returns the top-level child index range [first, last] covered by
// the selection, or ok=false when the selection does not resolve.
func (t *Tree) blockRange(s *Selection) (first, last int, ok bool) {
	if s == nil || len(s.Anchor.Path) == 0 || len(s.Focus.Path) == 0 {
		return 0, 0, false
	}
	start, end := s.ordered()
	first, last = start.Path[0], end.Path[0]
	if first < 0 || last >= len(t.Root.Children) {
		return 0, 0, false
	}
	return first, last, true
}

// textPaths collects the paths of all text nodes within the selection range,
// in document order.
func (t *Tree) textPaths(s *Selection) [][]int {
	if s == nil {
		return nil
	}
	start, end := s.ordered()
	var paths [][]int
	var walk func(n *Node, path []int)
	walk = func(n *Node, path []int) {
		if n.Type == NodeText {
			if comparePaths(path, start.Path) >= 0 && comparePaths(path, end.Path) <= 0 {
				paths = append(paths, append([]int(nil), path...))
			}
			return
		}
		for i, kid := range n.Children {
			walk(kid, append(path, i))
		}
	}
	walk(t.Root, nil)
	return paths
}

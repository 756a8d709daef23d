package content

import (
	"fmt"
	"strings"
)

// Command is a toolbar-originated mutation applied to a tree. The set is
// closed; Apply matches exhaustively.
type Command interface {
	isCommand()
}

// ToggleFormat toggles text format bits (bold, italic, ...) on the selected
// text nodes. If every covered text node already carries the bits they are
// cleared, otherwise they are set.
type ToggleFormat struct {
	Bits int
}

// SetHeading converts the selected blocks to headings of the given tag
// ("h1".."h6"), or back to paragraphs when Tag is empty.
type SetHeading struct {
	Tag string
}

// SetAlignment sets the block alignment ("left", "center", "right",
// "justify") on the selected blocks.
type SetAlignment struct {
	Alignment string
}

// WrapList wraps the selected top-level blocks in a list of the given type.
type WrapList struct {
	ListType string // "bullet" or "number"
}

// RemoveList unwraps selected list blocks back into their item children.
type RemoveList struct{}

// ChangeIndent shifts the indent level of the selected blocks. Delta is
// usually +1 or -1; the result clamps at zero.
type ChangeIndent struct {
	Delta int
}

// PatchStyle sets one inline CSS property (color, background-color) on the
// selected text nodes, replacing any previous value for that property.
type PatchStyle struct {
	Property string
	Value    string
}

// InsertBlock inserts a node as a new top-level sibling after the block
// containing the selection anchor. Decorator nodes always insert this way and
// never merge into existing text. Without a selection the block is appended.
type InsertBlock struct {
	Node *Node
}

func (ToggleFormat) isCommand() {}
func (SetHeading) isCommand()   {}
func (SetAlignment) isCommand() {}
func (WrapList) isCommand()     {}
func (RemoveList) isCommand()   {}
func (ChangeIndent) isCommand() {}
func (PatchStyle) isCommand()   {}
func (InsertBlock) isCommand()  {}

// Apply executes a command against a tree and returns the resulting tree.
// The input tree is never mutated; untouched subtrees are shared between the
// input and the result. Commands that require an active selection are no-ops
// (returning the input tree unchanged) when the selection is nil or does not
// resolve - Apply never fails on selection state.
func Apply(t *Tree, sel *Selection, cmd Command) *Tree {
	if t == nil || t.Root == nil {
		return t
	}

	switch c := cmd.(type) {
	case ToggleFormat:
		return toggleFormat(t, sel, c)
	case PatchStyle:
		return patchStyle(t, sel, c)
	case SetHeading:
		return retypeBlocks(t, sel, c)
	case SetAlignment:
		return alignBlocks(t, sel, c.Alignment)
	case WrapList:
		return wrapList(t, sel, c.ListType)
	case RemoveList:
		return removeList(t, sel)
	case ChangeIndent:
		return indentBlocks(t, sel, c.Delta)
	case InsertBlock:
		return insertBlock(t, sel, c.Node)
	default:
		panic(fmt.Sprintf("content: unhandled command type %T", cmd))
	}
}

// toggleFormat applies ToggleFormat with all-or-none toggle semantics.
func toggleFormat(t *Tree, sel *Selection, c ToggleFormat) *Tree {
	paths := t.textPaths(sel)
	if len(paths) == 0 {
		return t
	}

	allSet := true
	for _, p := range paths {
		if n := t.nodeAt(p); n != nil && n.TextFormat&c.Bits != c.Bits {
			allSet = false
			break
		}
	}

	out := t
	for _, p := range paths {
		out = mutateAt(out, p, func(n *Node) {
			if allSet {
				n.TextFormat &^= c.Bits
			} else {
				n.TextFormat |= c.Bits
			}
		})
	}
	return out
}

func patchStyle(t *Tree, sel *Selection, c PatchStyle) *Tree {
	paths := t.textPaths(sel)
	if len(paths) == 0 {
		return t
	}
	out := t
	for _, p := range paths {
		out = mutateAt(out, p, func(n *Node) {
			n.Style = setStyleProperty(n.Style, c.Property, c.Value)
		})
	}
	return out
}

// setStyleProperty replaces or appends one property in an inline CSS string.
func setStyleProperty(style, property, value string) string {
	var kept []string
	for _, decl := range strings.Split(style, ";") {
		decl = strings.TrimSpace(decl)
		if decl == "" {
			continue
		}
		name, _, _ := strings.Cut(decl, ":")
		if strings.TrimSpace(name) == property {
			continue
		}
		kept = append(kept, decl)
	}
	kept = append(kept, fmt.Sprintf("%s: %s", property, value))
	return strings.Join(kept, "; ")
}

// retypeBlocks converts selected top-level blocks between paragraph and
// heading, preserving children and block attributes.
func retypeBlocks(t *Tree, sel *Selection, c SetHeading) *Tree {
	first, last, ok := t.blockRange(sel)
	if !ok {
		return t
	}
	out := t
	for i := first; i <= last; i++ {
		block := t.Root.Children[i]
		if block.Type != NodeParagraph && block.Type != NodeHeading && block.Type != NodeQuote {
			continue
		}
		out = mutateAt(out, []int{i}, func(n *Node) {
			if c.Tag == "" {
				n.Type = NodeParagraph
				n.Tag = ""
			} else {
				n.Type = NodeHeading
				n.Tag = c.Tag
			}
		})
	}
	return out
}

func alignBlocks(t *Tree, sel *Selection, alignment string) *Tree {
	first, last, ok := t.blockRange(sel)
	if !ok {
		return t
	}
	out := t
	for i := first; i <= last; i++ {
		if !t.Root.Children[i].IsBlock() {
			continue
		}
		out = mutateAt(out, []int{i}, func(n *Node) {
			n.Format = alignment
		})
	}
	return out
}

func indentBlocks(t *Tree, sel *Selection, delta int) *Tree {
	first, last, ok := t.blockRange(sel)
	if !ok || delta == 0 {
		return t
	}
	out := t
	for i := first; i <= last; i++ {
		if !t.Root.Children[i].IsBlock() {
			continue
		}
		out = mutateAt(out, []int{i}, func(n *Node) {
			n.Indent += delta
			if n.Indent < 0 {
				n.Indent = 0
			}
		})
	}
	return out
}

// wrapList replaces the selected top-level blocks with a single list whose
// items hold the former blocks' children.
func wrapList(t *Tree, sel *Selection, listType string) *Tree {
	first, last, ok := t.blockRange(sel)
	if !ok {
		return t
	}

	list := &Node{Type: NodeList, Version: 1, Direction: "ltr", ListType: listType, Start: 1}
	for i := first; i <= last; i++ {
		block := t.Root.Children[i]
		item := &Node{
			Type:      NodeListItem,
			Version:   1,
			Direction: "ltr",
			Value:     len(list.Children) + 1,
			Children:  block.Children,
		}
		if block.IsDecorator() || block.IsUnknown() {
			item.Children = []*Node{block}
		}
		list.Children = append(list.Children, item)
	}

	root := t.Root.clone()
	root.Children = append(root.Children[:first:first], append([]*Node{list}, t.Root.Children[last+1:]...)...)
	return &Tree{Root: root}
}

// removeList unwraps selected lists: each item's children become paragraphs
// at the top level, in place of the list.
func removeList(t *Tree, sel *Selection) *Tree {
	first, last, ok := t.blockRange(sel)
	if !ok {
		return t
	}

	var replaced []*Node
	changed := false
	for i := first; i <= last; i++ {
		block := t.Root.Children[i]
		if block.Type != NodeList {
			replaced = append(replaced, block)
			continue
		}
		changed = true
		for _, item := range block.Children {
			para := &Node{
				Type:      NodeParagraph,
				Version:   1,
				Direction: item.Direction,
				Indent:    item.Indent,
				Children:  item.Children,
			}
			replaced = append(replaced, para)
		}
	}
	if !changed {
		return t
	}

	root := t.Root.clone()
	root.Children = append(root.Children[:first:first], append(replaced, t.Root.Children[last+1:]...)...)
	return &Tree{Root: root}
}

// insertBlock inserts node after the block containing the selection anchor,
// or appends it when there is no selection.
func insertBlock(t *Tree, sel *Selection, node *Node) *Tree {
	if node == nil {
		return t
	}

	at := len(t.Root.Children)
	if sel != nil && len(sel.Anchor.Path) > 0 {
		idx := sel.Anchor.Path[0]
		if idx >= 0 && idx < len(t.Root.Children) {
			at = idx + 1
		}
	}

	root := t.Root.clone()
	root.Children = append(root.Children[:at:at], append([]*Node{node}, t.Root.Children[at:]...)...)
	return &Tree{Root: root}
}

// mutateAt clones the nodes along path, applies fn to the clone of the node
// at the path's end, and returns a tree sharing every untouched subtree.
func mutateAt(t *Tree, path []int, fn func(*Node)) *Tree {
	root := t.Root.clone()
	n := root
	for _, idx := range path {
		if idx < 0 || idx >= len(n.Children) {
			return t
		}
		child := n.Children[idx].clone()
		n.Children[idx] = child
		n = child
	}
	fn(n)
	return &Tree{Root: root}
}

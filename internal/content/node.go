package content

import (
	"encoding/json"
)

// NodeType discriminates the closed set of node kinds in a document tree.
type NodeType string

const (
	NodeRoot      NodeType = "root"
	NodeParagraph NodeType = "paragraph"
	NodeHeading   NodeType = "heading"
	NodeQuote     NodeType = "quote"
	NodeCode      NodeType = "code"
	NodeList      NodeType = "list"
	NodeListItem  NodeType = "listitem"
	NodeLink      NodeType = "link"
	NodeText      NodeType = "text"
	NodeLineBreak NodeType = "linebreak"
	NodeTable     NodeType = "table"
	NodeTableRow  NodeType = "tableRow"
	NodeTableCell NodeType = "tableCell"
	NodeChart     NodeType = "chart"
	NodeImage     NodeType = "image"
	NodeVideo     NodeType = "video"
)

// Text format bit-field values, stored in the "format" attribute of text nodes.
const (
	FormatBold          = 1 << 0
	FormatItalic        = 1 << 1
	FormatStrikethrough = 1 << 2
	FormatUnderline     = 1 << 3
	FormatCode          = 1 << 4
)

// Node is one element of a document tree. A single struct carries the union
// of per-type attributes; which attributes are meaningful is determined by
// Type, and the serializer emits only the attributes belonging to that type.
// Unknown node types are carried opaquely in raw and round-trip untouched.
type Node struct {
	Type    NodeType
	Version int

	// Block-level attributes (root, paragraph, heading, quote, code,
	// list, listitem, table nodes)
	Format    string // alignment: "", "left", "center", "right", "justify"
	Direction string // "ltr" or "rtl"
	Indent    int

	// Text attributes
	Text       string
	TextFormat int // bit-field, serialized as "format"
	Detail     int
	Mode       string // "normal", "token", "segmented"
	Style      string // inline CSS, e.g. "color: #333;"

	// Heading
	Tag string // "h1".."h6"

	// List
	ListType string // "bullet", "number", "check"
	Start    int

	// List item
	Value int

	// Link
	URL string

	// Code block
	Language string

	// Table cell
	HeaderState int
	ColSpan     int
	RowSpan     int

	// Decorator payloads
	Chart *ChartConfig
	Image *ImageConfig
	Video *VideoConfig

	Children []*Node

	// raw holds the full serialized form of a node whose type is not in the
	// closed set, so forward-versioned content survives a save cycle.
	raw map[string]json.RawMessage
}

// Tree is a sanitized document content tree rooted at a single root node.
// The zero value is not valid; obtain trees through Load or NewTree.
type Tree struct {
	Root *Node
}

// NewTree returns a tree with an empty root.
func NewTree() *Tree {
	return &Tree{Root: &Node{Type: NodeRoot, Version: 1, Direction: "ltr"}}
}

// IsEmpty reports whether the tree has no content blocks.
func (t *Tree) IsEmpty() bool {
	return t == nil || t.Root == nil || len(t.Root.Children) == 0
}

// IsBlock reports whether the node type is a block-level element.
func (n *Node) IsBlock() bool {
	switch n.Type {
	case NodeRoot, NodeParagraph, NodeHeading, NodeQuote, NodeCode,
		NodeList, NodeListItem, NodeTable, NodeTableRow, NodeTableCell,
		NodeChart, NodeImage, NodeVideo:
		return true
	}
	return false
}

// IsDecorator reports whether the node is a decorator block whose payload is
// opaque to text operations.
func (n *Node) IsDecorator() bool {
	switch n.Type {
	case NodeChart, NodeImage, NodeVideo:
		return true
	}
	return false
}

// IsUnknown reports whether the node carries an unrecognized type.
func (n *Node) IsUnknown() bool {
	return n.raw != nil
}

// clone returns a shallow copy of the node with its own children slice.
// Child pointers are shared; mutating paths must clone each node they touch.
func (n *Node) clone() *Node {
	c := *n
	c.Children = make([]*Node, len(n.Children))
	copy(c.Children, n.Children)
	return &c
}

package content

import (
	"encoding/json"
	"fmt"
)

// Serialize produces the canonical JSON representation of a tree, the form
// persisted remotely and consumed by the editor-state loader. Serializing a
// loaded tree and loading it again yields an equal tree: sanitization is
// idempotent.
func Serialize(t *Tree) ([]byte, error) {
	if t == nil || t.Root == nil {
		return nil, fmt.Errorf("cannot serialize empty content")
	}
	return json.Marshal(map[string]any{"root": marshalNode(t.Root)})
}

// marshalNode converts a node to its serializable map form. Map keys are
// emitted in sorted order by encoding/json, so output is deterministic.
func marshalNode(n *Node) map[string]any {
	if n.raw != nil {
		// Unknown node type: emit the stored payload untouched.
		m := make(map[string]any, len(n.raw))
		for k, v := range n.raw {
			m[k] = v
		}
		return m
	}

	m := map[string]any{
		"type":    n.Type,
		"version": n.Version,
	}

	switch n.Type {
	case NodeText:
		m["text"] = n.Text
		m["format"] = n.TextFormat
		m["detail"] = n.Detail
		m["mode"] = n.Mode
		m["style"] = n.Style
		return m

	case NodeLineBreak:
		return m

	case NodeRoot, NodeParagraph, NodeQuote, NodeTableRow:
		marshalBlockAttrs(n, m)

	case NodeHeading:
		marshalBlockAttrs(n, m)
		m["tag"] = n.Tag

	case NodeCode:
		marshalBlockAttrs(n, m)
		m["language"] = n.Language

	case NodeList:
		marshalBlockAttrs(n, m)
		m["listType"] = n.ListType
		m["start"] = n.Start

	case NodeListItem:
		marshalBlockAttrs(n, m)
		m["value"] = n.Value

	case NodeTable:
		marshalBlockAttrs(n, m)

	case NodeTableCell:
		marshalBlockAttrs(n, m)
		m["headerState"] = n.HeaderState
		m["colSpan"] = n.ColSpan
		m["rowSpan"] = n.RowSpan

	case NodeLink:
		marshalBlockAttrs(n, m)
		m["url"] = n.URL

	case NodeChart:
		marshalBlockAttrs(n, m)
		m["chart"] = n.Chart
		return m

	case NodeImage:
		marshalBlockAttrs(n, m)
		m["image"] = n.Image
		return m

	case NodeVideo:
		marshalBlockAttrs(n, m)
		m["video"] = n.Video
		return m
	}

	children := make([]any, len(n.Children))
	for i, kid := range n.Children {
		children[i] = marshalNode(kid)
	}
	m["children"] = children

	return m
}

func marshalBlockAttrs(n *Node, m map[string]any) {
	m["format"] = n.Format
	m["direction"] = n.Direction
	m["indent"] = n.Indent
}

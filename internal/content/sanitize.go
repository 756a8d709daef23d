package content

import (
	"encoding/json"
)

// Load parses a stored content payload into a sanitized tree.
//
// A payload whose root is missing, null, or not an object yields nil - the
// "no loadable content" sentinel - never an error. Individual nodes are never
// rejected: missing attributes are defaulted field-by-field, sibling order is
// preserved, and nodes with unrecognized types are carried through untouched.
func Load(raw []byte) *Tree {
	if len(raw) == 0 {
		return nil
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil
	}

	rootRaw, ok := envelope["root"]
	if !ok {
		return nil
	}

	var rootMap map[string]any
	if err := json.Unmarshal(rootRaw, &rootMap); err != nil || rootMap == nil {
		return nil
	}

	// The root slot is always a root node, even when the stored payload
	// omits or mislabels its type.
	rootMap["type"] = string(NodeRoot)
	return &Tree{Root: sanitizeNode(rootMap)}
}

// sanitizeNode repairs one decoded node and recurses into its children.
func sanitizeNode(m map[string]any) *Node {
	typ, _ := m["type"].(string)
	n := &Node{Type: NodeType(typ)}

	switch n.Type {
	case NodeRoot, NodeParagraph, NodeQuote, NodeTableRow:
		sanitizeBlockAttrs(n, m)

	case NodeHeading:
		sanitizeBlockAttrs(n, m)
		n.Tag = stringAttr(m, "tag", "h1")

	case NodeCode:
		sanitizeBlockAttrs(n, m)
		n.Language = stringAttr(m, "language", "")

	case NodeList:
		sanitizeBlockAttrs(n, m)
		n.ListType = stringAttr(m, "listType", "bullet")
		n.Start = intAttr(m, "start", 1)

	case NodeListItem:
		sanitizeBlockAttrs(n, m)
		n.Value = intAttr(m, "value", 1)

	case NodeTable:
		sanitizeBlockAttrs(n, m)

	case NodeTableCell:
		sanitizeBlockAttrs(n, m)
		n.HeaderState = intAttr(m, "headerState", 0)
		n.ColSpan = intAttr(m, "colSpan", 1)
		n.RowSpan = intAttr(m, "rowSpan", 1)

	case NodeText:
		n.Version = intAttr(m, "version", 1)
		n.Text = stringAttr(m, "text", "")
		n.TextFormat = intAttr(m, "format", 0)
		n.Detail = intAttr(m, "detail", 0)
		n.Mode = stringAttr(m, "mode", "normal")
		n.Style = stringAttr(m, "style", "")
		return n // text nodes have no children

	case NodeLineBreak:
		n.Version = intAttr(m, "version", 1)
		return n

	case NodeLink:
		sanitizeBlockAttrs(n, m)
		n.URL = stringAttr(m, "url", "")

	case NodeChart:
		sanitizeBlockAttrs(n, m)
		n.Chart = decodePayload[ChartConfig](m, "chart")
		sanitizeChartConfig(n.Chart)
		return n

	case NodeImage:
		sanitizeBlockAttrs(n, m)
		n.Image = decodePayload[ImageConfig](m, "image")
		return n

	case NodeVideo:
		sanitizeBlockAttrs(n, m)
		n.Video = decodePayload[VideoConfig](m, "video")
		return n

	default:
		// Unknown type: keep the serialized form byte-for-byte so newer
		// schema versions survive a load/save cycle.
		raw := make(map[string]json.RawMessage, len(m))
		for k, v := range m {
			b, err := json.Marshal(v)
			if err != nil {
				continue
			}
			raw[k] = b
		}
		n.raw = raw
		return n
	}

	if kids, ok := m["children"].([]any); ok {
		n.Children = make([]*Node, 0, len(kids))
		for _, kid := range kids {
			kidMap, ok := kid.(map[string]any)
			if !ok {
				continue
			}
			n.Children = append(n.Children, sanitizeNode(kidMap))
		}
	}

	return n
}

// sanitizeBlockAttrs applies the defaults shared by all block-level nodes.
func sanitizeBlockAttrs(n *Node, m map[string]any) {
	n.Version = intAttr(m, "version", 1)
	n.Format = stringAttr(m, "format", "")
	n.Direction = stringAttr(m, "direction", "ltr")
	n.Indent = intAttr(m, "indent", 0)
	if n.Indent < 0 {
		n.Indent = 0
	}
}

// decodePayload extracts a typed decorator payload from the node map.
// A missing or malformed payload yields the zero config, not an error.
func decodePayload[T any](m map[string]any, key string) *T {
	cfg := new(T)
	v, ok := m[key]
	if !ok {
		return cfg
	}
	b, err := json.Marshal(v)
	if err != nil {
		return cfg
	}
	// Ignore unmarshal errors: a corrupt payload degrades to defaults.
	_ = json.Unmarshal(b, cfg)
	return cfg
}

func stringAttr(m map[string]any, key, def string) string {
	if s, ok := m[key].(string); ok {
		return s
	}
	return def
}

func intAttr(m map[string]any, key string, def int) int {
	switch v := m[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	}
	return def
}

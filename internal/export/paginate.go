package export

import (
	"inkwell/internal/content"
	"inkwell/internal/domain/models"
)

// Page holds the top-level blocks assigned to one printed page.
type Page struct {
	Index  int
	Blocks []*content.Node
}

// Paginate distributes the tree's top-level blocks across pages of the given
// size. Blocks never split: a block that doesn't fit in the remaining space
// starts the next page, and a block taller than a whole page gets a page to
// itself. An empty tree yields a single empty page.
func Paginate(tree *content.Tree, size models.PageSize) []Page {
	dims := DimensionsFor(size)
	budget := dims.ContentHeight()

	pages := []Page{{Index: 0}}
	if tree.IsEmpty() {
		return pages
	}

	used := 0
	for _, block := range tree.Root.Children {
		h := estimateHeight(block, dims)
		if used > 0 && used+h > budget {
			pages = append(pages, Page{Index: len(pages)})
			used = 0
		}
		last := &pages[len(pages)-1]
		last.Blocks = append(last.Blocks, block)
		used += h
	}

	return pages
}

// estimateHeight approximates a block's rendered height in pixels. The
// numbers track the editor's default typography closely enough for page
// breaks to land where the on-screen preview puts them.
func estimateHeight(n *content.Node, dims PageDimensions) int {
	switch n.Type {
	case content.NodeHeading:
		switch n.Tag {
		case "h1":
			return 64
		case "h2":
			return 52
		default:
			return 44
		}
	case content.NodeParagraph, content.NodeQuote:
		lines := textLines(n, dims)
		return 8 + lines*26
	case content.NodeCode:
		lines := 1
		for _, child := range n.Children {
			if child.Type == content.NodeLineBreak {
				lines++
			}
		}
		return 24 + lines*21
	case content.NodeList:
		h := 0
		for _, item := range n.Children {
			h += estimateHeight(item, dims)
		}
		return h
	case content.NodeListItem:
		return 8 + textLines(n, dims)*26
	case content.NodeTable:
		return 16 + len(n.Children)*38
	case content.NodeChart:
		return 340
	case content.NodeImage:
		return 320
	case content.NodeVideo:
		return 360
	default:
		// Unknown blocks render as a collapsed placeholder
		return 40
	}
}

// textLines estimates how many lines the node's flattened text wraps to at
// the page's content width, assuming ~8px average glyph width.
func textLines(n *content.Node, dims PageDimensions) int {
	runes := countTextRunes(n)
	perLine := (dims.Width - 2*dims.MarginX) / 8
	if perLine <= 0 {
		perLine = 1
	}
	lines := (runes + perLine - 1) / perLine
	if lines < 1 {
		lines = 1
	}
	return lines
}

func countTextRunes(n *content.Node) int {
	total := len([]rune(n.Text))
	for _, child := range n.Children {
		total += countTextRunes(child)
	}
	return total
}

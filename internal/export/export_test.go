package export

import (
	"strings"
	"testing"

	"inkwell/internal/content"
	"inkwell/internal/domain/models"
)

func paragraph(text string) *content.Node {
	return &content.Node{
		Type:     content.NodeParagraph,
		Children: []*content.Node{{Type: content.NodeText, Text: text}},
	}
}

func treeOf(blocks ...*content.Node) *content.Tree {
	t := content.NewTree()
	t.Root.Children = blocks
	return t
}

func TestDimensionsFor(t *testing.T) {
	tests := []struct {
		size          models.PageSize
		width, height int
	}{
		{models.PageSizeA4, 794, 1123},
		{models.PageSizeLetter, 816, 1056},
		{models.PageSizeSlide169, 1280, 720},
		{models.PageSizeSlide43, 1024, 768},
		{models.PageSize("bogus"), 794, 1123}, // falls back to A4
	}

	for _, tt := range tests {
		t.Run(string(tt.size), func(t *testing.T) {
			dims := DimensionsFor(tt.size)
			if dims.Width != tt.width || dims.Height != tt.height {
				t.Errorf("DimensionsFor(%s) = %dx%d, want %dx%d",
					tt.size, dims.Width, dims.Height, tt.width, tt.height)
			}
			if dims.ContentHeight() >= dims.Height {
				t.Errorf("ContentHeight() = %d, want less than page height %d",
					dims.ContentHeight(), dims.Height)
			}
		})
	}
}

func TestPaginate_EmptyTreeSinglePage(t *testing.T) {
	pages := Paginate(content.NewTree(), models.PageSizeA4)
	if len(pages) != 1 {
		t.Fatalf("Paginate(empty) = %d pages, want 1", len(pages))
	}
	if len(pages[0].Blocks) != 0 {
		t.Errorf("empty page has %d blocks", len(pages[0].Blocks))
	}
}

func TestPaginate_BlocksNeverSplit(t *testing.T) {
	// Enough charts to overflow an A4 page (content height 971px, chart 340px).
	tree := treeOf(
		&content.Node{Type: content.NodeChart, Chart: &content.ChartConfig{Type: content.ChartBar}},
		&content.Node{Type: content.NodeChart, Chart: &content.ChartConfig{Type: content.ChartBar}},
		&content.Node{Type: content.NodeChart, Chart: &content.ChartConfig{Type: content.ChartBar}},
		&content.Node{Type: content.NodeChart, Chart: &content.ChartConfig{Type: content.ChartBar}},
	)

	pages := Paginate(tree, models.PageSizeA4)
	if len(pages) != 2 {
		t.Fatalf("Paginate() = %d pages, want 2", len(pages))
	}

	total := 0
	for _, page := range pages {
		total += len(page.Blocks)
	}
	if total != 4 {
		t.Errorf("blocks across pages = %d, want 4", total)
	}
	if len(pages[0].Blocks) != 2 {
		t.Errorf("first page blocks = %d, want 2", len(pages[0].Blocks))
	}
}

func TestPaginate_SlideHoldsFewerBlocks(t *testing.T) {
	blocks := make([]*content.Node, 6)
	for i := range blocks {
		blocks[i] = &content.Node{Type: content.NodeVideo, Video: &content.VideoConfig{}}
	}

	a4 := Paginate(treeOf(blocks...), models.PageSizeA4)
	slide := Paginate(treeOf(blocks...), models.PageSizeSlide169)

	if len(slide) <= len(a4) {
		t.Errorf("16:9 pages = %d, A4 pages = %d; slides should paginate sooner", len(slide), len(a4))
	}
}

func TestRenderHTML_TextFormatting(t *testing.T) {
	tree := treeOf(&content.Node{
		Type: content.NodeParagraph,
		Children: []*content.Node{
			{Type: content.NodeText, Text: "plain "},
			{Type: content.NodeText, Text: "bold", TextFormat: content.FormatBold},
			{Type: content.NodeText, Text: "both", TextFormat: content.FormatBold | content.FormatItalic},
		},
	})
	doc := &models.Document{PageSize: models.PageSizeA4}

	got := RenderHTML(doc, tree)
	for _, want := range []string{
		"<strong>bold</strong>",
		"<strong><em>both</em></strong>",
		"plain ",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("RenderHTML() missing %q in:\n%s", want, got)
		}
	}
}

func TestRenderHTML_EscapesText(t *testing.T) {
	tree := treeOf(paragraph(`<script>alert("x")</script>`))
	got := RenderHTML(&models.Document{PageSize: models.PageSizeA4}, tree)

	if strings.Contains(got, "<script>") {
		t.Errorf("RenderHTML() did not escape markup:\n%s", got)
	}
	if !strings.Contains(got, "&lt;script&gt;") {
		t.Errorf("RenderHTML() missing escaped text:\n%s", got)
	}
}

func TestRenderHTML_ChartPlaceholders(t *testing.T) {
	tests := []struct {
		name  string
		chart *content.ChartConfig
		want  string
	}{
		{
			name:  "empty data",
			chart: &content.ChartConfig{Type: content.ChartBar, Data: []map[string]interface{}{}},
			want:  "No data",
		},
		{
			name: "unknown type",
			chart: &content.ChartConfig{
				Type: content.ChartType("radar"),
				Data: []map[string]interface{}{{"x": 1}},
			},
			want: "Unknown chart type: radar",
		},
		{
			name: "valid",
			chart: &content.ChartConfig{
				Type: content.ChartLine,
				Data: []map[string]interface{}{{"month": "Jan", "value": 10}},
			},
			want: `class="chart chart-line"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := treeOf(&content.Node{Type: content.NodeChart, Chart: tt.chart})
			got := RenderHTML(&models.Document{PageSize: models.PageSizeA4}, tree)
			if !strings.Contains(got, tt.want) {
				t.Errorf("RenderHTML() missing %q in:\n%s", tt.want, got)
			}
		})
	}
}

func TestRenderHTML_PendingMediaPlaceholders(t *testing.T) {
	tree := treeOf(
		&content.Node{Type: content.NodeImage, Image: &content.ImageConfig{Prompt: "a cat"}},
		&content.Node{Type: content.NodeVideo, Video: &content.VideoConfig{Prompt: "a dog"}},
	)
	got := RenderHTML(&models.Document{PageSize: models.PageSizeA4}, tree)

	if !strings.Contains(got, "Image not generated") {
		t.Errorf("missing image placeholder:\n%s", got)
	}
	if !strings.Contains(got, "Video not generated") {
		t.Errorf("missing video placeholder:\n%s", got)
	}
}

func TestRenderHTML_HeaderAndFooter(t *testing.T) {
	header := "Acme Quarterly"
	footer := "Confidential"
	doc := &models.Document{
		PageSize:      models.PageSizeLetter,
		HeaderContent: &header,
		FooterContent: &footer,
	}

	got := RenderHTML(doc, treeOf(paragraph("body")))
	if !strings.Contains(got, "<header>Acme Quarterly</header>") {
		t.Errorf("missing header:\n%s", got)
	}
	if !strings.Contains(got, "<footer>Confidential</footer>") {
		t.Errorf("missing footer:\n%s", got)
	}
}

func TestRenderHTML_ListsAndTables(t *testing.T) {
	tree := treeOf(
		&content.Node{
			Type:     content.NodeList,
			ListType: "number",
			Start:    3,
			Children: []*content.Node{
				{Type: content.NodeListItem, Value: 3, Children: []*content.Node{{Type: content.NodeText, Text: "third"}}},
			},
		},
		&content.Node{
			Type: content.NodeTable,
			Children: []*content.Node{
				{Type: content.NodeTableRow, Children: []*content.Node{
					{Type: content.NodeTableCell, HeaderState: 1, ColSpan: 1, RowSpan: 1,
						Children: []*content.Node{{Type: content.NodeText, Text: "Name"}}},
				}},
			},
		},
	)

	got := RenderHTML(&models.Document{PageSize: models.PageSizeA4}, tree)
	for _, want := range []string{`<ol start="3">`, "<li>third</li>", "<th>Name</th>"} {
		if !strings.Contains(got, want) {
			t.Errorf("RenderHTML() missing %q in:\n%s", want, got)
		}
	}
}

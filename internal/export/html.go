package export

import (
	"fmt"
	"html"
	"strings"

	"inkwell/internal/content"
	"inkwell/internal/domain/models"
)

// RenderHTML renders a document's sanitized tree as paginated HTML. Each page
// becomes a fixed-size <section class="page"> sized per the page-size enum.
func RenderHTML(doc *models.Document, tree *content.Tree) string {
	dims := DimensionsFor(doc.PageSize)
	pages := Paginate(tree, doc.PageSize)

	var b strings.Builder
	b.WriteString(fmt.Sprintf("<article class=\"document\" data-page-size=%q>\n", doc.PageSize))
	for _, page := range pages {
		b.WriteString(fmt.Sprintf(
			"<section class=\"page\" style=\"width:%dpx;height:%dpx;padding:%dpx %dpx\">\n",
			dims.Width, dims.Height, dims.MarginY, dims.MarginX,
		))
		if page.Index == 0 && doc.HeaderContent != nil && *doc.HeaderContent != "" {
			b.WriteString(fmt.Sprintf("<header>%s</header>\n", html.EscapeString(*doc.HeaderContent)))
		}
		for _, block := range page.Blocks {
			b.WriteString(renderNode(block))
		}
		if doc.FooterContent != nil && *doc.FooterContent != "" {
			b.WriteString(fmt.Sprintf("<footer>%s</footer>\n", html.EscapeString(*doc.FooterContent)))
		}
		b.WriteString("</section>\n")
	}
	b.WriteString("</article>\n")
	return b.String()
}

// renderNode recursively renders a node to HTML
func renderNode(n *content.Node) string {
	switch n.Type {
	case content.NodeRoot:
		return renderChildren(n)
	case content.NodeParagraph:
		return wrapAligned("p", n, renderChildren(n))
	case content.NodeHeading:
		tag := n.Tag
		if tag == "" {
			tag = "h1"
		}
		return wrapAligned(tag, n, renderChildren(n))
	case content.NodeQuote:
		return fmt.Sprintf("<blockquote>\n%s</blockquote>\n", renderChildren(n))
	case content.NodeCode:
		lang := ""
		if n.Language != "" {
			lang = fmt.Sprintf(" class=\"language-%s\"", html.EscapeString(n.Language))
		}
		return fmt.Sprintf("<pre><code%s>%s</code></pre>\n", lang, renderChildren(n))
	case content.NodeList:
		if n.ListType == "number" {
			if n.Start > 1 {
				return fmt.Sprintf("<ol start=\"%d\">\n%s</ol>\n", n.Start, renderChildren(n))
			}
			return fmt.Sprintf("<ol>\n%s</ol>\n", renderChildren(n))
		}
		return fmt.Sprintf("<ul>\n%s</ul>\n", renderChildren(n))
	case content.NodeListItem:
		return fmt.Sprintf("<li>%s</li>\n", renderChildren(n))
	case content.NodeLink:
		return fmt.Sprintf("<a href=%q>%s</a>", html.EscapeString(n.URL), renderChildren(n))
	case content.NodeText:
		return renderText(n)
	case content.NodeLineBreak:
		return "<br>"
	case content.NodeTable:
		return fmt.Sprintf("<table>\n%s</table>\n", renderChildren(n))
	case content.NodeTableRow:
		return fmt.Sprintf("<tr>\n%s</tr>\n", renderChildren(n))
	case content.NodeTableCell:
		tag := "td"
		if n.HeaderState > 0 {
			tag = "th"
		}
		span := ""
		if n.ColSpan > 1 {
			span += fmt.Sprintf(" colspan=\"%d\"", n.ColSpan)
		}
		if n.RowSpan > 1 {
			span += fmt.Sprintf(" rowspan=\"%d\"", n.RowSpan)
		}
		return fmt.Sprintf("<%s%s>%s</%s>\n", tag, span, renderChildren(n), tag)
	case content.NodeChart:
		return renderChart(n.Chart)
	case content.NodeImage:
		return renderImage(n.Image)
	case content.NodeVideo:
		return renderVideo(n.Video)
	default:
		// Unknown node types render as an inert placeholder so the rest of
		// the document still prints.
		return fmt.Sprintf("<div class=\"unsupported-block\" data-type=%q></div>\n", n.Type)
	}
}

func renderChildren(n *content.Node) string {
	var b strings.Builder
	for _, child := range n.Children {
		b.WriteString(renderNode(child))
	}
	return b.String()
}

// wrapAligned wraps content in a block tag, carrying the node's alignment.
func wrapAligned(tag string, n *content.Node, inner string) string {
	if n.Format != "" {
		return fmt.Sprintf("<%s style=\"text-align:%s\">%s</%s>\n", tag, n.Format, inner, tag)
	}
	return fmt.Sprintf("<%s>%s</%s>\n", tag, inner, tag)
}

// renderText renders a text node, applying format bits from the inside out
func renderText(n *content.Node) string {
	text := html.EscapeString(n.Text)
	if n.TextFormat&content.FormatCode != 0 {
		text = fmt.Sprintf("<code>%s</code>", text)
	}
	if n.TextFormat&content.FormatStrikethrough != 0 {
		text = fmt.Sprintf("<s>%s</s>", text)
	}
	if n.TextFormat&content.FormatUnderline != 0 {
		text = fmt.Sprintf("<u>%s</u>", text)
	}
	if n.TextFormat&content.FormatItalic != 0 {
		text = fmt.Sprintf("<em>%s</em>", text)
	}
	if n.TextFormat&content.FormatBold != 0 {
		text = fmt.Sprintf("<strong>%s</strong>", text)
	}
	if n.Style != "" {
		text = fmt.Sprintf("<span style=%q>%s</span>", n.Style, text)
	}
	return text
}

// renderChart renders a chart block, failing closed on bad config: a chart
// with no rows or an unrecognized type becomes a labeled placeholder instead
// of broken output.
func renderChart(cfg *content.ChartConfig) string {
	if cfg == nil || len(cfg.Data) == 0 {
		return "<figure class=\"chart chart-empty\"><figcaption>No data</figcaption></figure>\n"
	}
	if !content.KnownChartType(cfg.Type) {
		return fmt.Sprintf(
			"<figure class=\"chart chart-unknown\"><figcaption>Unknown chart type: %s</figcaption></figure>\n",
			html.EscapeString(string(cfg.Type)),
		)
	}
	return fmt.Sprintf(
		"<figure class=\"chart chart-%s\" data-rows=\"%d\" data-x=%q data-y=%q></figure>\n",
		cfg.Type, len(cfg.Data), html.EscapeString(cfg.XAxisKey), html.EscapeString(cfg.YAxisKey),
	)
}

func renderImage(cfg *content.ImageConfig) string {
	if cfg == nil || cfg.ImageURL == nil || *cfg.ImageURL == "" {
		return "<figure class=\"image image-pending\"><figcaption>Image not generated</figcaption></figure>\n"
	}
	return fmt.Sprintf("<figure class=\"image\"><img src=%q alt=%q></figure>\n",
		html.EscapeString(*cfg.ImageURL), html.EscapeString(cfg.Alt))
}

func renderVideo(cfg *content.VideoConfig) string {
	if cfg == nil || cfg.VideoURL == nil || *cfg.VideoURL == "" {
		return "<figure class=\"video video-pending\"><figcaption>Video not generated</figcaption></figure>\n"
	}
	poster := ""
	if cfg.ThumbnailURL != nil && *cfg.ThumbnailURL != "" {
		poster = fmt.Sprintf(" poster=%q", html.EscapeString(*cfg.ThumbnailURL))
	}
	return fmt.Sprintf("<figure class=\"video\"><video src=%q%s controls></video></figure>\n",
		html.EscapeString(*cfg.VideoURL), poster)
}

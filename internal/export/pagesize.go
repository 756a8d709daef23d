package export

import "inkwell/internal/domain/models"

// PageDimensions are the fixed pixel dimensions of one printed page at 96dpi.
type PageDimensions struct {
	Width   int `json:"width"`
	Height  int `json:"height"`
	MarginX int `json:"margin_x"`
	MarginY int `json:"margin_y"`
}

// ContentHeight is the vertical space available to blocks on one page.
func (d PageDimensions) ContentHeight() int {
	return d.Height - 2*d.MarginY
}

// DimensionsFor returns the pixel dimensions for a page size. Unknown sizes
// fall back to A4.
func DimensionsFor(size models.PageSize) PageDimensions {
	switch size {
	case models.PageSizeLetter:
		// 8.5in x 11in
		return PageDimensions{Width: 816, Height: 1056, MarginX: 76, MarginY: 76}
	case models.PageSizeSlide169:
		return PageDimensions{Width: 1280, Height: 720, MarginX: 48, MarginY: 48}
	case models.PageSizeSlide43:
		return PageDimensions{Width: 1024, Height: 768, MarginX: 48, MarginY: 48}
	default:
		// 210mm x 297mm
		return PageDimensions{Width: 794, Height: 1123, MarginX: 76, MarginY: 76}
	}
}

package annotate

import (
	"fmt"
	"math"
)

// Side selects which edge of the slide the notes column is attached to.
type Side string

const (
	SideLeft  Side = "left"
	SideRight Side = "right"
)

// DefaultDPI is the pixel density used to map PDF points to the renderer's
// pixel box. 96 matches CSS pixels, so rendered text keeps its nominal size.
const DefaultDPI = 96

// Layout is the resolved geometry for one annotated page. Page sizes are in
// PDF points; the panel box is carried in both pixels (for the renderer) and
// points (for the compositor).
type Layout struct {
	Side     Side
	PageWPt  float64
	PageHPt  float64
	PanelWPx int
	PanelHPx int
	PanelWPt float64
	PanelHPt float64
}

// ComputeLayout derives the panel pixel box for a page of the given size.
// Pure: same inputs always produce the same Layout. The panel spans the full
// page height and is ratio times the page width; there is no upper bound on
// ratio, a very wide panel is a user choice.
func ComputeLayout(pageWPt, pageHPt float64, side Side, ratio, dpi float64) (Layout, error) {
	if ratio <= 0 {
		return Layout{}, fmt.Errorf("%w: margin ratio %v must be positive", ErrInvalidLayout, ratio)
	}
	if side != SideLeft && side != SideRight {
		return Layout{}, fmt.Errorf("%w: side must be %q or %q", ErrInvalidLayout, SideLeft, SideRight)
	}
	if dpi <= 0 {
		dpi = DefaultDPI
	}
	pxPerPt := dpi / 72
	wPx := int(math.Round(pageWPt * pxPerPt * ratio))
	hPx := int(math.Round(pageHPt * pxPerPt))
	return Layout{
		Side:     side,
		PageWPt:  pageWPt,
		PageHPt:  pageHPt,
		PanelWPx: wPx,
		PanelHPx: hPx,
		PanelWPt: float64(wPx) * 72 / dpi,
		PanelHPt: pageHPt,
	}, nil
}

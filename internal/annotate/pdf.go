package annotate

import (
	"fmt"
	"sort"
	"strings"

	rpdf "rsc.io/pdf"
)

// SlideUnit is one page of the source deck: its 0-based index, the extracted
// text used to prompt the generator, and the page size in PDF points.
type SlideUnit struct {
	Index    int
	Text     string
	WidthPt  float64
	HeightPt float64
}

// Title returns the first non-empty line of the slide text, or a
// positional fallback for slides with no extractable text.
func (s SlideUnit) Title() string {
	for _, ln := range strings.Split(s.Text, "\n") {
		if t := strings.TrimSpace(ln); t != "" {
			return t
		}
	}
	return fmt.Sprintf("Slide %d", s.Index+1)
}

// Document is the opened source deck. Slides are read once up front and are
// read-only afterwards.
type Document struct {
	Path   string
	Slides []SlideUnit
}

// OpenDocument reads page sizes and per-page text from the input PDF.
func OpenDocument(path string) (*Document, error) {
	r, err := rpdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	n := r.NumPage()
	if n == 0 {
		return nil, fmt.Errorf("open %s: document has no pages", path)
	}
	doc := &Document{Path: path, Slides: make([]SlideUnit, 0, n)}
	for i := 1; i <= n; i++ {
		p := r.Page(i)
		w, h := pageSize(p)
		doc.Slides = append(doc.Slides, SlideUnit{
			Index:    i - 1,
			Text:     pageText(p),
			WidthPt:  w,
			HeightPt: h,
		})
	}
	return doc, nil
}

// pageSize resolves the MediaBox, walking up the page tree for inherited
// values. Falls back to US Letter when the box is missing or degenerate.
func pageSize(p rpdf.Page) (w, h float64) {
	for v := p.V; v.Kind() == rpdf.Dict; v = v.Key("Parent") {
		mb := v.Key("MediaBox")
		if mb.Kind() != rpdf.Array || mb.Len() != 4 {
			continue
		}
		x0, y0 := boxNum(mb.Index(0)), boxNum(mb.Index(1))
		x1, y1 := boxNum(mb.Index(2)), boxNum(mb.Index(3))
		if x1-x0 > 0 && y1-y0 > 0 {
			return x1 - x0, y1 - y0
		}
	}
	return 612, 792
}

func boxNum(v rpdf.Value) float64 {
	switch v.Kind() {
	case rpdf.Integer:
		return float64(v.Int64())
	case rpdf.Real:
		return v.Float64()
	}
	return 0
}

// pageText flattens the page's text fragments into reading order: lines by
// descending baseline, fragments left to right within a line.
func pageText(p rpdf.Page) (out string) {
	// rsc.io/pdf panics on content streams it cannot parse; treat those
	// pages as having no extractable text.
	defer func() {
		if r := recover(); r != nil {
			out = ""
		}
	}()

	texts := p.Content().Text
	if len(texts) == 0 {
		return ""
	}
	sort.SliceStable(texts, func(i, j int) bool {
		if !sameLine(texts[i].Y, texts[j].Y) {
			return texts[i].Y > texts[j].Y
		}
		return texts[i].X < texts[j].X
	})

	var b strings.Builder
	lastY := texts[0].Y
	for i, t := range texts {
		if i > 0 {
			if !sameLine(t.Y, lastY) {
				b.WriteByte('\n')
				lastY = t.Y
			} else if wordGap(texts[i-1], t) {
				b.WriteByte(' ')
			}
		}
		b.WriteString(t.S)
	}
	return strings.TrimSpace(b.String())
}

func sameLine(y1, y2 float64) bool {
	d := y1 - y2
	return d < 2 && d > -2
}

// wordGap reports whether the horizontal gap between two adjacent fragments
// on the same line is a word break. Many PDFs emit one fragment per glyph, so
// adjacency alone means nothing; only a gap wide relative to the font size
// separates words. A quarter em sits below the narrowest common word space
// (Helvetica's is 0.278 em) and well above kerning adjustments.
func wordGap(prev, next rpdf.Text) bool {
	if prev.S == "" || next.S == "" {
		return false
	}
	if strings.HasSuffix(prev.S, " ") || strings.HasPrefix(next.S, " ") {
		return false
	}
	size := prev.FontSize
	if size <= 0 {
		size = next.FontSize
	}
	if size <= 0 {
		size = 12
	}
	gap := next.X - (prev.X + prev.W)
	return gap >= size*0.25
}

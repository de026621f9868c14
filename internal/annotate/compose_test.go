package annotate

import (
	"bytes"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/phpdave11/gofpdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	rpdf "rsc.io/pdf"
)

// writeFixtureDeck builds an n-page slide deck of the given size in points,
// one line of text per page, and returns its path.
func writeFixtureDeck(t *testing.T, n int, wPt, hPt float64) string {
	t.Helper()
	pdf := gofpdf.NewCustom(&gofpdf.InitType{UnitStr: "pt", Size: gofpdf.SizeType{Wd: wPt, Ht: hPt}})
	pdf.SetMargins(36, 36, 36)
	pdf.SetAutoPageBreak(false, 0)
	for i := 1; i <= n; i++ {
		pdf.AddPage()
		pdf.SetFont("Helvetica", "B", 28)
		pdf.Text(36, 72, fmt.Sprintf("Slide %d", i))
	}
	path := filepath.Join(t.TempDir(), "deck.pdf")
	require.NoError(t, pdf.OutputFileAndClose(path))
	return path
}

// panelBytes builds a one-page PDF of exactly the given pixel box, the shape
// a real renderer would return.
func panelBytes(t *testing.T, wPx, hPx int) []byte {
	t.Helper()
	wPt := float64(wPx) * 72 / 96
	hPt := float64(hPx) * 72 / 96
	pdf := gofpdf.NewCustom(&gofpdf.InitType{UnitStr: "pt", Size: gofpdf.SizeType{Wd: wPt, Ht: hPt}})
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "", 11)
	pdf.Text(10, 20, "note panel")
	var buf bytes.Buffer
	require.NoError(t, pdf.Output(&buf))
	return buf.Bytes()
}

func outputPageSizes(t *testing.T, path string) []struct{ W, H float64 } {
	t.Helper()
	r, err := rpdf.Open(path)
	require.NoError(t, err)
	sizes := make([]struct{ W, H float64 }, r.NumPage())
	for i := 1; i <= r.NumPage(); i++ {
		w, h := pageSize(r.Page(i))
		sizes[i-1] = struct{ W, H float64 }{w, h}
	}
	return sizes
}

func xobjectCount(t *testing.T, path string, pageNum int) int {
	t.Helper()
	r, err := rpdf.Open(path)
	require.NoError(t, err)
	xo := r.Page(pageNum).V.Key("Resources").Key("XObject")
	if xo.Kind() != rpdf.Dict {
		return 0
	}
	return len(xo.Keys())
}

func TestComposer_AddAnnotated(t *testing.T) {
	deck := writeFixtureDeck(t, 1, 720, 540)
	lay, err := ComputeLayout(720, 540, SideRight, 0.5, 96)
	require.NoError(t, err)
	panel := panelBytes(t, lay.PanelWPx, lay.PanelHPx)

	out := filepath.Join(t.TempDir(), "out.pdf")
	comp := NewComposer(deck)
	slide := SlideUnit{Index: 0, WidthPt: 720, HeightPt: 540}
	require.NoError(t, comp.AddAnnotated(slide, panel, lay))
	require.NoError(t, comp.Write(out))

	sizes := outputPageSizes(t, out)
	require.Len(t, sizes, 1)
	assert.InDelta(t, 720+lay.PanelWPt, sizes[0].W, 0.01, "total width is slide plus panel")
	assert.InDelta(t, 540, sizes[0].H, 0.01, "height unchanged")
	assert.Equal(t, 2, xobjectCount(t, out, 1), "slide and panel both embedded as vector templates")
}

func TestComposer_AddPlain(t *testing.T) {
	deck := writeFixtureDeck(t, 2, 720, 540)
	out := filepath.Join(t.TempDir(), "out.pdf")

	comp := NewComposer(deck)
	require.NoError(t, comp.AddPlain(SlideUnit{Index: 1, WidthPt: 720, HeightPt: 540}))
	require.NoError(t, comp.Write(out))

	sizes := outputPageSizes(t, out)
	require.Len(t, sizes, 1)
	assert.InDelta(t, 720.0, sizes[0].W, 0.01, "unannotated page keeps its original size")
	assert.InDelta(t, 540.0, sizes[0].H, 0.01)
	assert.Equal(t, 1, xobjectCount(t, out, 1))
}

func TestComposer_SideLeft(t *testing.T) {
	deck := writeFixtureDeck(t, 1, 720, 540)
	lay, err := ComputeLayout(720, 540, SideLeft, 1.0, 96)
	require.NoError(t, err)
	panel := panelBytes(t, lay.PanelWPx, lay.PanelHPx)

	out := filepath.Join(t.TempDir(), "out.pdf")
	comp := NewComposer(deck)
	require.NoError(t, comp.AddAnnotated(SlideUnit{Index: 0, WidthPt: 720, HeightPt: 540}, panel, lay))
	require.NoError(t, comp.Write(out))

	sizes := outputPageSizes(t, out)
	require.Len(t, sizes, 1)
	// margin ratio 1.0 doubles the page width regardless of side
	assert.InDelta(t, 1440.0, sizes[0].W, 0.01)
}

func TestComposer_MalformedPanel(t *testing.T) {
	deck := writeFixtureDeck(t, 1, 720, 540)
	lay, err := ComputeLayout(720, 540, SideRight, 0.5, 96)
	require.NoError(t, err)

	comp := NewComposer(deck)
	slide := SlideUnit{Index: 0, WidthPt: 720, HeightPt: 540}
	err = comp.AddAnnotated(slide, []byte("not a pdf"), lay)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRender, "an unparsable panel is a render failure, not a crash")

	// the failed add leaves no page behind; the slide can still be emitted
	// unannotated and the document finalized
	require.NoError(t, comp.AddPlain(slide))
	out := filepath.Join(t.TempDir(), "out.pdf")
	require.NoError(t, comp.Write(out))

	sizes := outputPageSizes(t, out)
	require.Len(t, sizes, 1)
	assert.InDelta(t, 720.0, sizes[0].W, 0.01)
}

func TestOpenDocument_FixtureDeck(t *testing.T) {
	deck := writeFixtureDeck(t, 3, 720, 540)
	doc, err := OpenDocument(deck)
	require.NoError(t, err)
	require.Len(t, doc.Slides, 3)
	for i, s := range doc.Slides {
		assert.Equal(t, i, s.Index)
		assert.InDelta(t, 720.0, s.WidthPt, 0.01)
		assert.InDelta(t, 540.0, s.HeightPt, 0.01)
		// extraction may or may not decode the fixture font, but the title
		// must resolve to the slide label either way
		assert.Equal(t, fmt.Sprintf("Slide %d", i+1), s.Title())
	}
}

package annotate

import (
	"bytes"
	"fmt"
	"io"

	"github.com/phpdave11/gofpdf"
	"github.com/phpdave11/gofpdf/contrib/gofpdi"
)

// Composer assembles the output document page by page. Original pages are
// imported from the source file as vector templates, so slide content is
// carried over unscaled and unmodified; rendered panels arrive as one-page
// PDF byte slices and are imported the same way. Not safe for concurrent
// use; the orchestrator appends pages sequentially after the fan-out.
type Composer struct {
	pdf *gofpdf.Fpdf
	imp *gofpdi.Importer
	src string
}

func NewComposer(sourcePath string) *Composer {
	pdf := gofpdf.NewCustom(&gofpdf.InitType{UnitStr: "pt"})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	return &Composer{pdf: pdf, imp: gofpdi.NewImporter(), src: sourcePath}
}

// AddAnnotated appends one composed page: the original slide plus the
// rendered panel flush against the chosen edge. Total width is the slide
// width plus the panel width; height is the slide height. A panel that
// cannot be parsed comes back as ErrRender before any page is added, so the
// caller can fall back to AddPlain for that slide.
func (c *Composer) AddAnnotated(slide SlideUnit, panel []byte, lay Layout) error {
	panelTpl, err := c.importPanel(panel)
	if err != nil {
		return fmt.Errorf("page %d: %w", slide.Index+1, err)
	}

	totalW := slide.WidthPt + lay.PanelWPt
	c.pdf.AddPageFormat("P", gofpdf.SizeType{Wd: totalW, Ht: slide.HeightPt})

	slideX, panelX := 0.0, slide.WidthPt
	if lay.Side == SideLeft {
		slideX, panelX = lay.PanelWPt, 0.0
	}

	srcTpl, err := c.importSource(slide.Index + 1)
	if err != nil {
		return err
	}
	c.imp.UseImportedTemplate(c.pdf, srcTpl, slideX, 0, slide.WidthPt, slide.HeightPt)
	c.imp.UseImportedTemplate(c.pdf, panelTpl, panelX, 0, lay.PanelWPt, lay.PanelHPt)

	return c.err(slide.Index)
}

// importPanel parses the rendered panel bytes into a template. gofpdi panics
// on input it cannot parse, so the import is fenced and the failure mapped to
// the recoverable render error.
func (c *Composer) importPanel(panel []byte) (tpl int, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: import panel: %v", ErrRender, r)
		}
	}()
	rs := io.ReadSeeker(bytes.NewReader(panel))
	return c.imp.ImportPageFromStream(c.pdf, &rs, 1, "/MediaBox"), nil
}

// importSource imports one page of the source document. A source gofpdi
// cannot parse is fatal; the fence only converts the panic into an error.
func (c *Composer) importSource(pageNo int) (tpl int, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("import %s page %d: %v", c.src, pageNo, r)
		}
	}()
	return c.imp.ImportPage(c.pdf, c.src, pageNo, "/MediaBox"), nil
}

// AddPlain appends the original slide unannotated, at its original size.
// Used for pages whose generation or render failed so the output never has
// missing pages.
func (c *Composer) AddPlain(slide SlideUnit) error {
	c.pdf.AddPageFormat("P", gofpdf.SizeType{Wd: slide.WidthPt, Ht: slide.HeightPt})
	tpl, err := c.importSource(slide.Index + 1)
	if err != nil {
		return err
	}
	c.imp.UseImportedTemplate(c.pdf, tpl, 0, 0, slide.WidthPt, slide.HeightPt)
	return c.err(slide.Index)
}

// Write finalizes the document. Nothing is persisted before this point, so
// an interrupted run never leaves a partial output file behind.
func (c *Composer) Write(path string) error {
	if err := c.pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func (c *Composer) err(pageIdx int) error {
	if c.pdf.Err() {
		return fmt.Errorf("compose page %d: %w", pageIdx+1, c.pdf.Error())
	}
	return nil
}

package annotate

import "errors"

var (
	// ErrInvalidRange indicates a malformed page-range expression or a page
	// index beyond the document's page count. Fatal: no pages are processed.
	ErrInvalidRange = errors.New("invalid page range")

	// ErrInvalidLayout indicates a non-positive margin ratio. Fatal at startup.
	ErrInvalidLayout = errors.New("invalid layout")

	// ErrGeneration indicates the note generator exhausted its retries for one
	// page. Recoverable: the page is emitted without an annotation.
	ErrGeneration = errors.New("note generation failed")

	// ErrRender indicates the panel renderer failed for one page. Recoverable,
	// same policy as ErrGeneration.
	ErrRender = errors.New("panel render failed")

	// ErrPartial is reported by the CLI when a run completed but one or more
	// pages were skipped. Maps to a distinct exit code.
	ErrPartial = errors.New("completed with skipped pages")
)

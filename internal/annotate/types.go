package annotate

import (
	"time"

	"github.com/thywilljoshua/pdf-to-notes/internal/ai"
	"github.com/thywilljoshua/pdf-to-notes/internal/render"
)

// Config is the immutable per-run configuration the orchestrator works from.
// Defaults are resolved by the CLI layer before Run is called.
type Config struct {
	CourseName  string
	Pages       string // range expression, empty means all pages
	Side        Side
	MarginRatio float64
	DPI         float64
	CacheDir    string
	Force       bool
	Concurrency int

	GenTimeout    time.Duration
	RenderTimeout time.Duration

	Generator ai.Generator
	Renderer  render.Renderer
}

func (c Config) withDefaults() Config {
	if c.Side == "" {
		c.Side = SideRight
	}
	if c.MarginRatio == 0 {
		c.MarginRatio = 1.0
	}
	if c.DPI <= 0 {
		c.DPI = DefaultDPI
	}
	if c.Concurrency <= 0 {
		c.Concurrency = 4
	}
	if c.GenTimeout <= 0 {
		c.GenTimeout = 120 * time.Second
	}
	if c.RenderTimeout <= 0 {
		c.RenderTimeout = 60 * time.Second
	}
	return c
}

// Skip records one page left unannotated and why.
type Skip struct {
	Page   int    `json:"page"` // 1-based, as the user addresses pages
	Reason string `json:"reason"`
}

// Report summarizes a run. The CLI prints it as JSON, mirroring how skipped
// pages must be surfaced at the end of a run rather than failing it.
type Report struct {
	Annotated []int  `json:"annotated_pages"`
	Skipped   []Skip `json:"skipped_pages,omitempty"`
	CacheHits int    `json:"cache_hits"`
	Generated int    `json:"generated"`
	Output    string `json:"output"`
}

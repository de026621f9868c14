// Package annotate contains the core pipeline: page selection, note
// lookup/generation, panel layout, and composition of the annotated output
// document.
package annotate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/thywilljoshua/pdf-to-notes/internal/ai"
	"github.com/thywilljoshua/pdf-to-notes/internal/cache"
	"github.com/thywilljoshua/pdf-to-notes/internal/logger"
)

// pageResult is the outcome of the per-page fan-out stage. Exactly one of
// panel or err is meaningful; fromCache and layout accompany a success.
type pageResult struct {
	panel     []byte
	layout    Layout
	fromCache bool
	err       error
}

// Run annotates the selected pages of inputPath and writes the composed
// document to outputPath. Per-page generation and render failures are
// collected into the report and the affected pages are emitted unannotated;
// configuration, range, and cache I/O errors are fatal and abort before any
// output is written.
func Run(ctx context.Context, inputPath, outputPath string, cfg Config) (Report, error) {
	cfg = cfg.withDefaults()
	if cfg.MarginRatio <= 0 {
		return Report{}, fmt.Errorf("%w: margin ratio %v must be positive", ErrInvalidLayout, cfg.MarginRatio)
	}
	if cfg.Side != SideLeft && cfg.Side != SideRight {
		return Report{}, fmt.Errorf("%w: unknown side %q", ErrInvalidLayout, cfg.Side)
	}
	if cfg.Generator == nil {
		cfg.Generator = ai.Unavailable{}
	}
	if cfg.Renderer == nil {
		return Report{}, errors.New("annotate: no renderer configured")
	}

	doc, err := OpenDocument(inputPath)
	if err != nil {
		return Report{}, err
	}
	selected, err := ParsePages(cfg.Pages, len(doc.Slides))
	if err != nil {
		return Report{}, err
	}

	store := cache.NewStore(cfg.CacheDir)
	bucket := BucketLabel(cfg.Pages)
	docSlug := cache.DocSlug(inputPath)

	results := make([]pageResult, len(selected))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Concurrency)
	for i, pageIdx := range selected {
		g.Go(func() error {
			res, err := processPage(gctx, doc.Slides[pageIdx], cfg, store, cache.Key{
				Course: cfg.CourseName,
				Doc:    docSlug,
				Bucket: bucket,
				Page:   pageIdx,
			})
			if err != nil {
				// Cache I/O (or cancellation): fatal to the whole run.
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Report{}, err
	}
	// An interrupted run must not finalize a partial document.
	if err := ctx.Err(); err != nil {
		return Report{}, err
	}

	// Annotated starts non-nil so an all-skipped run still reports an array.
	report := Report{Annotated: []int{}, Output: outputPath}
	comp := NewComposer(inputPath)
	for i, pageIdx := range selected {
		res := results[i]
		slide := doc.Slides[pageIdx]
		if res.err != nil {
			logger.Warn("page %d skipped: %v", pageIdx+1, res.err)
			report.Skipped = append(report.Skipped, Skip{Page: pageIdx + 1, Reason: res.err.Error()})
			if err := comp.AddPlain(slide); err != nil {
				return Report{}, err
			}
			continue
		}
		if err := comp.AddAnnotated(slide, res.panel, res.layout); err != nil {
			if !errors.Is(err, ErrRender) {
				return Report{}, err
			}
			// A panel the compositor cannot parse skips the page the same
			// way a failed render does.
			logger.Warn("page %d skipped: %v", pageIdx+1, err)
			report.Skipped = append(report.Skipped, Skip{Page: pageIdx + 1, Reason: err.Error()})
			if err := comp.AddPlain(slide); err != nil {
				return Report{}, err
			}
			continue
		}
		report.Annotated = append(report.Annotated, pageIdx+1)
		if res.fromCache {
			report.CacheHits++
		} else {
			report.Generated++
		}
	}
	if err := comp.Write(outputPath); err != nil {
		return Report{}, err
	}
	return report, nil
}

// processPage runs the per-page stages: cached-or-fresh note, layout, render.
// The returned error is fatal; recoverable per-page failures come back inside
// the pageResult.
func processPage(ctx context.Context, slide SlideUnit, cfg Config, store *cache.Store, key cache.Key) (pageResult, error) {
	note, fromCache, err := loadNote(ctx, slide, cfg, store, key)
	if errors.Is(err, ErrGeneration) {
		return pageResult{err: err}, nil
	}
	if err != nil {
		return pageResult{}, err
	}

	lay, err := ComputeLayout(slide.WidthPt, slide.HeightPt, cfg.Side, cfg.MarginRatio, cfg.DPI)
	if err != nil {
		return pageResult{}, err
	}

	rctx, cancel := context.WithTimeout(ctx, cfg.RenderTimeout)
	defer cancel()
	panel, err := cfg.Renderer.Render(rctx, note, lay.PanelWPx, lay.PanelHPx)
	if err != nil {
		if ctx.Err() != nil {
			return pageResult{}, ctx.Err()
		}
		return pageResult{err: fmt.Errorf("%w: %v", ErrRender, err)}, nil
	}

	logger.Page(slide.Index+1, "annotated (cache hit: %v)", fromCache)
	return pageResult{panel: panel, layout: lay, fromCache: fromCache}, nil
}

// loadNote returns the note markdown for the slide, consulting the cache
// unless force is set and writing through on fresh generation. Generation
// failures come back wrapping ErrGeneration (recoverable); cache I/O errors
// come back unwrapped (fatal).
func loadNote(ctx context.Context, slide SlideUnit, cfg Config, store *cache.Store, key cache.Key) (string, bool, error) {
	if !cfg.Force {
		rec, ok, err := store.Get(key)
		if err != nil {
			return "", false, err
		}
		if ok {
			logger.Debug("cache hit for page %d at %s", slide.Index+1, store.Path(key))
			return rec.Markdown, true, nil
		}
	}

	gctx, cancel := context.WithTimeout(ctx, cfg.GenTimeout)
	defer cancel()
	raw, err := cfg.Generator.Note(gctx, ai.Request{
		Course: cfg.CourseName,
		Title:  slide.Title(),
		Body:   slide.Text,
	})
	if err != nil {
		if ctx.Err() != nil {
			return "", false, ctx.Err()
		}
		logger.Debug("generation failed for page %d: %v", slide.Index+1, err)
		return "", false, fmt.Errorf("%w: %v", ErrGeneration, err)
	}

	note := ai.FormatNote(raw)
	if note == "" {
		return "", false, fmt.Errorf("%w: model returned an empty note", ErrGeneration)
	}
	if err := store.Put(key, cache.Record{Markdown: note, Generated: time.Now()}); err != nil {
		// Losing cache durability silently would re-bill every run.
		return "", false, err
	}
	return note, false, nil
}

// Package render turns note markdown into a single-page vector PDF of an
// exact pixel size. The concrete engine is headless Chrome driven over the
// DevTools protocol; the Renderer interface keeps callers decoupled from it
// so the engine can be swapped without touching layout or compositing code.
package render

import "context"

// Renderer produces a one-page PDF sized exactly widthPx by heightPx.
// Content that would overflow the box is shrunk, never cropped.
type Renderer interface {
	Render(ctx context.Context, markdown string, widthPx, heightPx int) ([]byte, error)
	Close() error
}

package ai

import (
	"context"
	"errors"
)

// Request carries the slide material the note is generated from.
type Request struct {
	Course string
	Title  string
	Body   string
}

// Generator produces the five-section annotation markdown for one slide.
// Implementations must return an error rather than fabricate content when
// generation is impossible.
type Generator interface {
	Note(ctx context.Context, req Request) (string, error)
}

// ErrUnavailable indicates no generation backend is configured.
var ErrUnavailable = errors.New("no generator configured (set GOOGLE_API_KEY)")

// Unavailable is the Generator used when no API key is configured. Cached
// runs still work; any cache miss surfaces ErrUnavailable for that slide.
type Unavailable struct{}

func (Unavailable) Note(ctx context.Context, req Request) (string, error) {
	return "", ErrUnavailable
}

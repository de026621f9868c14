package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/time/rate"
	genai "google.golang.org/genai"
)

const maxNoteTokens = 2000

// Gemini generates notes through the Gemini API. One client is shared by all
// worker goroutines; the rate limiter paces requests so a concurrent fan-out
// does not trip the API's request-per-minute quota.
type Gemini struct {
	client  *genai.Client
	model   string
	limiter *rate.Limiter
	retry   retrier
}

func NewGemini(ctx context.Context, apiKey, model string) (*Gemini, error) {
	if apiKey == "" {
		return nil, errors.New("missing GOOGLE_API_KEY")
	}
	if model == "" {
		model = "gemini-2.5-flash"
	}
	c, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, err
	}
	return &Gemini{
		client:  c,
		model:   model,
		limiter: rate.NewLimiter(rate.Limit(2), 4),
		retry:   newRetrier(),
	}, nil
}

// Note asks the model for the five-section annotation. Transient API
// failures are retried with backoff; an empty response is an error, never a
// fabricated note.
func (g *Gemini) Note(ctx context.Context, req Request) (string, error) {
	prompt := userPrompt(req)
	var text string
	err := g.retry.do(ctx, func(ctx context.Context) error {
		if err := g.limiter.Wait(ctx); err != nil {
			return err
		}
		cfg := &genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(systemPrompt, genai.RoleUser),
			MaxOutputTokens:   maxNoteTokens,
		}
		res, err := g.client.Models.GenerateContent(ctx, g.model, []*genai.Content{
			genai.NewContentFromText(prompt, genai.RoleUser),
		}, cfg)
		if err != nil {
			return err
		}
		text = strings.TrimSpace(res.Text())
		if text == "" {
			return errors.New("model returned an empty response")
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("generate note for %q: %w", req.Title, err)
	}
	return text, nil
}

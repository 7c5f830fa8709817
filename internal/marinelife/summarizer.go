package marinelife

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/kfk18/ScubaInstructionAgent/shared/config"

	"google.golang.org/genai"
)

// FallbackText is the user-visible substitute when a summary cannot be
// produced.
const FallbackText = "Could not retrieve marine life information."

// SummarizeError reports a failure in the web search or generation step.
type SummarizeError struct {
	Step string // "search" or "generate"
	Err  error
}

func (e *SummarizeError) Error() string {
	return fmt.Sprintf("%s step: %v", e.Step, e.Err)
}

func (e *SummarizeError) Unwrap() error { return e.Err }

// generator is the single non-streaming generation call, abstracted so
// tests can substitute a fake model.
type generator interface {
	generate(ctx context.Context, prompt string) (string, error)
}

type geminiGenerator struct {
	client *genai.Client
	model  string
}

func (g *geminiGenerator) generate(ctx context.Context, prompt string) (string, error) {
	parts := []*genai.Part{
		genai.NewPartFromText(prompt),
	}
	contents := []*genai.Content{
		genai.NewContentFromParts(parts, genai.RoleUser),
	}

	result, err := g.client.Models.GenerateContent(ctx, g.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	text := result.Text()
	if text == "" {
		return "", fmt.Errorf("empty response from model")
	}
	return text, nil
}

// Summarizer produces a list of marine life likely observable at a spot
// in a given month, by searching the web and asking a generative model to
// distill the results.
type Summarizer struct {
	search *SearchClient
	gen    generator
}

func NewSummarizer(cfg *config.Config, search *SearchClient) (*Summarizer, error) {
	ctx := context.Background()

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: cfg.AI.GeminiAPIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &Summarizer{
		search: search,
		gen:    &geminiGenerator{client: client, model: cfg.AI.Model},
	}, nil
}

// Summarize returns the raw model output for the given location and date.
// Zero search results are not an error: generation proceeds with an empty
// context. Any provider failure is returned as a *SummarizeError.
func (s *Summarizer) Summarize(ctx context.Context, location string, day time.Time) (string, error) {
	month := int(day.Month())
	query := buildQuery(location, month)

	log.Printf("Collecting marine life info with query: %s", query)

	searchContext, err := s.search.Search(ctx, query)
	if err != nil {
		return "", &SummarizeError{Step: "search", Err: err}
	}

	text, err := s.gen.generate(ctx, buildPrompt(location, month, searchContext))
	if err != nil {
		return "", &SummarizeError{Step: "generate", Err: err}
	}
	return text, nil
}

func buildQuery(location string, month int) string {
	return fmt.Sprintf("%s diving marine life fish sightings month %d macro wide", location, month)
}

func buildPrompt(location string, month int, searchContext string) string {
	return fmt.Sprintf(`Based on the search results below, list the marine organisms most likely to be seen while diving at %s in month %d.
Respond with ONLY a markdown bullet list in the following format. No preamble or closing remarks.

- **organism name**: its features or highlights (one line)

Search results:
%s`, location, month, searchContext)
}

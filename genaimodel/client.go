// Package genaimodel adapts the Gemini API to the embedding and
// translation interfaces used by the research pipeline and the language
// guard.
package genaimodel

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"google.golang.org/genai"

	"github.com/flexigpt/agentgate-go/spec"
)

const (
	DefaultEmbeddingModel  = "gemini-embedding-001"
	DefaultGenerationModel = "gemini-2.5-flash"
	DefaultEmbeddingBatch  = 100
	embeddingTaskRetrieval = "RETRIEVAL_DOCUMENT"
)

type Client struct {
	gc     *genai.Client
	logger *slog.Logger

	embeddingModel  string
	generationModel string
	embeddingBatch  int
}

type Option func(*Client) error

func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) error {
		if logger == nil {
			return errors.New("nil logger")
		}
		c.logger = logger
		return nil
	}
}

func WithEmbeddingModel(model string) Option {
	return func(c *Client) error {
		if strings.TrimSpace(model) == "" {
			return errors.New("empty embedding model")
		}
		c.embeddingModel = model
		return nil
	}
}

func WithGenerationModel(model string) Option {
	return func(c *Client) error {
		if strings.TrimSpace(model) == "" {
			return errors.New("empty generation model")
		}
		c.generationModel = model
		return nil
	}
}

// New dials the Gemini API. An empty apiKey is rejected up front so a
// misconfigured deployment fails at construction, not mid-research.
func New(ctx context.Context, apiKey string, opts ...Option) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("%w: missing api key", spec.ErrNotConfigured)
	}
	gc, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	c := &Client{
		gc:              gc,
		logger:          slog.Default(),
		embeddingModel:  DefaultEmbeddingModel,
		generationModel: DefaultGenerationModel,
		embeddingBatch:  DefaultEmbeddingBatch,
	}
	for _, o := range opts {
		if o == nil {
			continue
		}
		if err := o(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Embed returns one vector per input text, in input order. Inputs are
// sent in batches below the API's per-request limit.
func (c *Client) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	out := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += c.embeddingBatch {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		end := min(start+c.embeddingBatch, len(texts))

		contents := make([]*genai.Content, 0, end-start)
		for _, t := range texts[start:end] {
			contents = append(contents, userContent(t))
		}

		resp, err := c.gc.Models.EmbedContent(ctx, c.embeddingModel, contents, &genai.EmbedContentConfig{
			TaskType: embeddingTaskRetrieval,
		})
		if err != nil {
			return nil, errors.Join(spec.ErrEmbeddingUnavailable, err)
		}
		if len(resp.Embeddings) != end-start {
			return nil, fmt.Errorf("%w: got %d embeddings for %d inputs",
				spec.ErrEmbeddingUnavailable, len(resp.Embeddings), end-start)
		}
		for _, emb := range resp.Embeddings {
			out = append(out, emb.Values)
		}
	}
	return out, nil
}

func userContent(text string) *genai.Content {
	return &genai.Content{
		Role:  "user",
		Parts: []*genai.Part{genai.NewPartFromText(text)},
	}
}

const translatePrompt = `You are a translator. Translate the text inside <translate_input> into the language with ISO 639-1 code %q.
Return only the translated text with no commentary, no quotes and no tags.

<translate_input>
%s
</translate_input>`

// Translate rewrites text into the target language, given as a lowercase
// ISO 639-1 code.
func (c *Client) Translate(ctx context.Context, text, target string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	prompt := fmt.Sprintf(translatePrompt, target, text)
	resp, err := c.gc.Models.GenerateContent(
		ctx,
		c.generationModel,
		[]*genai.Content{userContent(prompt)},
		nil,
	)
	if err != nil {
		return "", fmt.Errorf("translate: %w", err)
	}
	translated := strings.TrimSpace(resp.Text())
	if translated == "" {
		return "", errors.New("translate: empty model response")
	}
	return translated, nil
}

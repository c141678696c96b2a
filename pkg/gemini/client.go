// Package gemini is a thin JSON-mode wrapper over the Google Gen AI SDK.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/me0hharryy/dermaGo/pkg/config"
	pkgerrors "github.com/me0hharryy/dermaGo/pkg/errors"
	"google.golang.org/genai"
)

const jsonMIMEType = "application/json"

var errAPIKeyRequired = errors.New("gemini api key is required")

type generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Image is an inline image part sent alongside the prompt.
type Image struct {
	Data     []byte
	MIMEType string
}

// Client sends single-turn prompts and returns the model's JSON text.
type Client struct {
	models  generator
	model   string
	timeout time.Duration
}

// New creates a Gemini API client from cfg.
func New(ctx context.Context, cfg config.GeminiConfig) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errAPIKeyRequired
	}
	sdk, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return newWithGenerator(sdk.Models, cfg), nil
}

func newWithGenerator(models generator, cfg config.GeminiConfig) *Client {
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = "gemini-flash-latest"
	}
	return &Client{models: models, model: model, timeout: cfg.Timeout}
}

// Model reports the configured model name.
func (c *Client) Model() string {
	return c.model
}

// GenerateJSON asks the model for a JSON answer to prompt. Images are sent as
// inline parts ahead of the text. The returned text is unvalidated.
func (c *Client) GenerateJSON(ctx context.Context, prompt string, images ...Image) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "prompt is required")
	}
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	parts := make([]*genai.Part, 0, len(images)+1)
	for _, img := range images {
		if len(img.Data) == 0 {
			continue
		}
		parts = append(parts, genai.NewPartFromBytes(img.Data, img.MIMEType))
	}
	parts = append(parts, genai.NewPartFromText(prompt))
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	resp, err := c.models.GenerateContent(ctx, c.model, contents, &genai.GenerateContentConfig{
		ResponseMIMEType: jsonMIMEType,
	})
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "gemini generate content")
	}
	if resp == nil {
		return "", pkgerrors.New(pkgerrors.CodeDependency, "gemini returned no response")
	}
	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", pkgerrors.New(pkgerrors.CodeDependency, "gemini returned empty text")
	}
	return text, nil
}

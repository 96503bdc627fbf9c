package gemini

import (
	"context"
	"errors"

	"github.com/fwojciec/questlog"
	"google.golang.org/genai"
)

// DefaultModel is the Gemini model used when a request names no model.
const DefaultModel = "gemini-3-flash-preview"

// Client adapts genai.Client to GenerativeClient.
type Client struct {
	models *genai.Models
}

// NewClient creates a new Client with the given API key.
func NewClient(ctx context.Context, apiKey string) (*Client, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}
	return &Client{models: client.Models}, nil
}

// GenerateContent implements GenerativeClient by delegating to the genai.Client.
func (c *Client) GenerateContent(ctx context.Context, model string, contents []*Content, config *GenerateContentConfig) (*GenerateContentResponse, error) {
	result, err := c.models.GenerateContent(ctx, model, toGenaiContents(contents), toGenaiConfig(config))
	if err != nil {
		return nil, wrapAPIError(err)
	}
	return &GenerateContentResponse{Text: result.Text()}, nil
}

func toGenaiContents(contents []*Content) []*genai.Content {
	out := make([]*genai.Content, len(contents))
	for i, content := range contents {
		out[i] = toGenaiContent(content, "user")
	}
	return out
}

func toGenaiContent(content *Content, role string) *genai.Content {
	parts := make([]*genai.Part, len(content.Parts))
	for i, part := range content.Parts {
		parts[i] = genai.NewPartFromText(part.Text)
	}
	return &genai.Content{Role: role, Parts: parts}
}

func toGenaiConfig(config *GenerateContentConfig) *genai.GenerateContentConfig {
	if config == nil {
		return nil
	}
	gc := &genai.GenerateContentConfig{
		ResponseMIMEType: config.ResponseMIMEType,
		Temperature:      config.Temperature,
		ResponseSchema:   toGenaiSchema(config.ResponseSchema),
	}
	if config.SystemInstruction != nil {
		gc.SystemInstruction = toGenaiContent(config.SystemInstruction, "")
	}
	return gc
}

// toGenaiSchema recursively converts our Schema to genai.Schema.
func toGenaiSchema(s *Schema) *genai.Schema {
	if s == nil {
		return nil
	}
	gs := &genai.Schema{
		Type:             genai.Type(s.Type),
		Required:         s.Required,
		PropertyOrdering: s.PropertyOrdering,
		Description:      s.Description,
		Items:            toGenaiSchema(s.Items),
	}
	if s.Properties != nil {
		gs.Properties = make(map[string]*genai.Schema, len(s.Properties))
		for k, v := range s.Properties {
			gs.Properties[k] = toGenaiSchema(v)
		}
	}
	return gs
}

// wrapAPIError converts genai.APIError to questlog.GenerationError so the
// panel shows the service's message.
func wrapAPIError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return &questlog.GenerationError{StatusCode: apiErr.Code, Message: apiErr.Message}
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) {
		return &questlog.GenerationError{StatusCode: apiErrPtr.Code, Message: apiErrPtr.Message}
	}
	return err
}

// Compile-time check that Client implements GenerativeClient.
var _ GenerativeClient = (*Client)(nil)

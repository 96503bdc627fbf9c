// Package gemini implements questlog.StoryGenerator using Google Gemini.
package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/fwojciec/questlog"
)

// Compile-time interface verification.
var _ questlog.StoryGenerator = (*Generator)(nil)

// DefaultTimeout is the default timeout for a single generation call.
const DefaultTimeout = 90 * time.Second

// Generator implements questlog.StoryGenerator using Google Gemini.
type Generator struct {
	client  GenerativeClient
	model   string
	timeout time.Duration
}

// GeneratorOption configures a Generator.
type GeneratorOption func(*Generator)

// WithTimeout sets the timeout for API calls. Zero disables it.
func WithTimeout(d time.Duration) GeneratorOption {
	return func(g *Generator) {
		g.timeout = d
	}
}

// NewGenerator creates a new Generator. model is used when a request names no model.
func NewGenerator(client GenerativeClient, model string, opts ...GeneratorOption) *Generator {
	g := &Generator{client: client, model: model, timeout: DefaultTimeout}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate creates a Story from the request's tasks and settings.
func (g *Generator) Generate(ctx context.Context, req questlog.GenerateRequest) (*questlog.Story, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	model := string(req.Model)
	if model == "" {
		model = g.model
	}

	contents := []*Content{{
		Parts: []*Part{{Text: BuildPrompt(req.Tasks, req.Settings)}},
	}}

	resp, err := g.client.GenerateContent(ctx, model, contents, BuildConfig())
	if err != nil {
		return nil, err
	}
	if resp == nil {
		return nil, fmt.Errorf("gemini: returned nil response")
	}

	var story *questlog.Story
	if err := json.Unmarshal([]byte(resp.Text), &story); err != nil {
		return nil, fmt.Errorf("gemini: failed to parse response: %w", err)
	}
	if story.IsEmpty() {
		return nil, fmt.Errorf("gemini: failed to parse response: %w", questlog.ErrEmptyStory)
	}

	return story, nil
}

// BuildPrompt creates the user prompt for the Gemini API.
func BuildPrompt(tasks []questlog.Task, settings questlog.Settings) string {
	var sb strings.Builder
	sb.WriteString("Retell the following to-do list as a story.\n\n")

	sb.WriteString("## Setting\n\n")
	fmt.Fprintf(&sb, "Universe: %s\n", settings.Universe)
	fmt.Fprintf(&sb, "Protagonist: %s\n", settings.Character)
	fmt.Fprintf(&sb, "Narrative style: %s\n\n", settings.NarrativeStyle)

	sb.WriteString("## Tasks\n\n")
	for i, t := range tasks {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, t.Title)
		if t.Description != "" {
			fmt.Fprintf(&sb, "   %s\n", t.Description)
		}
	}

	sb.WriteString("\n## Output\n\n")
	fmt.Fprintf(&sb, "Write exactly %d entries in transformedTasks, one per task, in the same order.\n", len(tasks))
	sb.WriteString("Each entry renames the task as a quest (questName), tells it as part of the story (narrative), ")
	sb.WriteString("and describes what finishing it looks like in the story (completion).\n")
	sb.WriteString("Add a title, an openingScene that introduces the protagonist, and an epilogue.\n")

	return sb.String()
}

// BuildConfig returns the GenerateContentConfig for Gemini API calls.
func BuildConfig() *GenerateContentConfig {
	temp := float32(0.9)
	return &GenerateContentConfig{
		SystemInstruction: &Content{
			Parts: []*Part{{
				Text: `You are a storyteller who turns everyday to-do lists into short adventures.

Stay inside the given universe and narrative style. Keep every quest recognizable as the task it came from.`,
			}},
		},
		Temperature:      &temp,
		ResponseMIMEType: "application/json",
		ResponseSchema:   StorySchema(),
	}
}

// StorySchema returns the response schema matching questlog.Story.
func StorySchema() *Schema {
	text := func(desc string) *Schema {
		return &Schema{Type: TypeString, Description: desc}
	}
	return &Schema{
		Type: TypeObject,
		Properties: map[string]*Schema{
			"title":        text("Story title"),
			"openingScene": text("Opening scene introducing the protagonist"),
			"transformedTasks": {
				Type:        TypeArray,
				Description: "One quest per task, in task order",
				Items: &Schema{
					Type: TypeObject,
					Properties: map[string]*Schema{
						"questName":  text("The task renamed as a quest"),
						"narrative":  text("The task told as part of the story"),
						"completion": text("What finishing the task looks like in the story"),
					},
					Required:         []string{"questName", "narrative", "completion"},
					PropertyOrdering: []string{"questName", "narrative", "completion"},
				},
			},
			"epilogue": text("Closing scene"),
		},
		Required:         []string{"title", "openingScene", "transformedTasks", "epilogue"},
		PropertyOrdering: []string{"title", "openingScene", "transformedTasks", "epilogue"},
	}
}

// GenerativeClient abstracts the Gemini API for testing.
type GenerativeClient interface {
	GenerateContent(ctx context.Context, model string, contents []*Content, config *GenerateContentConfig) (*GenerateContentResponse, error)
}

// Content represents a message in a Gemini conversation.
type Content struct {
	Parts []*Part
}

// Part represents a part of a message.
type Part struct {
	Text string
}

// GenerateContentConfig holds configuration for content generation.
type GenerateContentConfig struct {
	SystemInstruction *Content
	Temperature       *float32
	ResponseMIMEType  string
	ResponseSchema    *Schema
}

// Schema types, matching the genai type names.
const (
	TypeObject = "OBJECT"
	TypeArray  = "ARRAY"
	TypeString = "STRING"
)

// Schema represents the structure for controlled JSON generation.
type Schema struct {
	Type             string             // OBJECT, ARRAY, STRING
	Properties       map[string]*Schema // For object types
	Items            *Schema            // For array types
	Required         []string           // Required property names
	PropertyOrdering []string           // Order of properties in output
	Description      string             // Field description
}

// GenerateContentResponse holds the response from content generation.
type GenerateContentResponse struct {
	Text string
}

// MockGenerativeClient is a mock implementation of GenerativeClient for testing.
type MockGenerativeClient struct {
	GenerateContentFn func(ctx context.Context, model string, contents []*Content, config *GenerateContentConfig) (*GenerateContentResponse, error)
}

func (m *MockGenerativeClient) GenerateContent(ctx context.Context, model string, contents []*Content, config *GenerateContentConfig) (*GenerateContentResponse, error) {
	return m.GenerateContentFn(ctx, model, contents, config)
}

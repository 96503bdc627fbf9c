package gemini_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fwojciec/questlog"
	"github.com/fwojciec/questlog/gemini"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSettings = questlog.Settings{
	Universe:       "Middle-earth",
	Character:      "A weary ranger",
	NarrativeStyle: "epic",
}

func testRequest() questlog.GenerateRequest {
	return questlog.GenerateRequest{
		Tasks: []questlog.Task{
			{Title: "Write report", Status: questlog.StatusActive},
			{Title: "Call plumber", Description: "kitchen sink", Status: questlog.StatusActive},
		},
		Settings: testSettings,
	}
}

func TestGenerator_Generate_ReturnsStory(t *testing.T) {
	t.Parallel()

	mockClient := &gemini.MockGenerativeClient{
		GenerateContentFn: func(ctx context.Context, model string, contents []*gemini.Content, config *gemini.GenerateContentConfig) (*gemini.GenerateContentResponse, error) {
			return &gemini.GenerateContentResponse{Text: `{"title":"T","openingScene":"O","transformedTasks":[{"questName":"Q1","narrative":"N1","completion":"C1"},{"questName":"Q2","narrative":"N2","completion":"C2"}],"epilogue":"E"}`}, nil
		},
	}

	gen := gemini.NewGenerator(mockClient, gemini.DefaultModel)

	story, err := gen.Generate(context.Background(), testRequest())

	require.NoError(t, err)
	assert.Equal(t, "T", story.Title)
	require.Len(t, story.TransformedTasks, 2)
	assert.Equal(t, "Q1", story.TransformedTasks[0].QuestName)
	assert.Equal(t, "C2", story.TransformedTasks[1].Completion)
	assert.Equal(t, "E", story.Epilogue)
}

func TestGenerator_Generate_UsesRequestModel(t *testing.T) {
	t.Parallel()

	var gotModel string
	mockClient := &gemini.MockGenerativeClient{
		GenerateContentFn: func(ctx context.Context, model string, contents []*gemini.Content, config *gemini.GenerateContentConfig) (*gemini.GenerateContentResponse, error) {
			gotModel = model
			return &gemini.GenerateContentResponse{Text: `{"title":"T"}`}, nil
		},
	}

	gen := gemini.NewGenerator(mockClient, gemini.DefaultModel)
	req := testRequest()
	req.Model = "gemini-2.5-pro"

	_, err := gen.Generate(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, "gemini-2.5-pro", gotModel)
}

func TestGenerator_Generate_FallsBackToDefaultModel(t *testing.T) {
	t.Parallel()

	var gotModel string
	mockClient := &gemini.MockGenerativeClient{
		GenerateContentFn: func(ctx context.Context, model string, contents []*gemini.Content, config *gemini.GenerateContentConfig) (*gemini.GenerateContentResponse, error) {
			gotModel = model
			return &gemini.GenerateContentResponse{Text: `{"title":"T"}`}, nil
		},
	}

	_, err := gemini.NewGenerator(mockClient, gemini.DefaultModel).Generate(context.Background(), testRequest())

	require.NoError(t, err)
	assert.Equal(t, gemini.DefaultModel, gotModel)
}

func TestGenerator_Generate_AppliesTimeout(t *testing.T) {
	t.Parallel()

	mockClient := &gemini.MockGenerativeClient{
		GenerateContentFn: func(ctx context.Context, model string, contents []*gemini.Content, config *gemini.GenerateContentConfig) (*gemini.GenerateContentResponse, error) {
			_, ok := ctx.Deadline()
			assert.True(t, ok, "context should carry a deadline")
			return &gemini.GenerateContentResponse{Text: `{"title":"T"}`}, nil
		},
	}

	gen := gemini.NewGenerator(mockClient, gemini.DefaultModel, gemini.WithTimeout(time.Second))

	_, err := gen.Generate(context.Background(), testRequest())

	require.NoError(t, err)
}

func TestGenerator_Generate_ZeroTimeoutSetsNoDeadline(t *testing.T) {
	t.Parallel()

	mockClient := &gemini.MockGenerativeClient{
		GenerateContentFn: func(ctx context.Context, model string, contents []*gemini.Content, config *gemini.GenerateContentConfig) (*gemini.GenerateContentResponse, error) {
			_, ok := ctx.Deadline()
			assert.False(t, ok, "context should carry no deadline")
			return &gemini.GenerateContentResponse{Text: `{"title":"T"}`}, nil
		},
	}

	gen := gemini.NewGenerator(mockClient, gemini.DefaultModel, gemini.WithTimeout(0))

	_, err := gen.Generate(context.Background(), testRequest())

	require.NoError(t, err)
}

func TestGenerator_Generate_PropagatesAPIError(t *testing.T) {
	t.Parallel()

	expectedErr := &questlog.GenerationError{StatusCode: 429, Message: "rate limited"}
	mockClient := &gemini.MockGenerativeClient{
		GenerateContentFn: func(ctx context.Context, model string, contents []*gemini.Content, config *gemini.GenerateContentConfig) (*gemini.GenerateContentResponse, error) {
			return nil, expectedErr
		},
	}

	_, err := gemini.NewGenerator(mockClient, gemini.DefaultModel).Generate(context.Background(), testRequest())

	require.Error(t, err)
	assert.Equal(t, "rate limited", questlog.ErrorMessage(err))
}

func TestGenerator_Generate_PropagatesTransportError(t *testing.T) {
	t.Parallel()

	expectedErr := errors.New("dial tcp: connection refused")
	mockClient := &gemini.MockGenerativeClient{
		GenerateContentFn: func(ctx context.Context, model string, contents []*gemini.Content, config *gemini.GenerateContentConfig) (*gemini.GenerateContentResponse, error) {
			return nil, expectedErr
		},
	}

	_, err := gemini.NewGenerator(mockClient, gemini.DefaultModel).Generate(context.Background(), testRequest())

	assert.Equal(t, expectedErr, err)
}

func TestGenerator_Generate_ReturnsErrorOnInvalidJSON(t *testing.T) {
	t.Parallel()

	mockClient := &gemini.MockGenerativeClient{
		GenerateContentFn: func(ctx context.Context, model string, contents []*gemini.Content, config *gemini.GenerateContentConfig) (*gemini.GenerateContentResponse, error) {
			return &gemini.GenerateContentResponse{Text: "not valid json"}, nil
		},
	}

	_, err := gemini.NewGenerator(mockClient, gemini.DefaultModel).Generate(context.Background(), testRequest())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse response")
}

func TestGenerator_Generate_ReturnsErrorOnNilResponse(t *testing.T) {
	t.Parallel()

	mockClient := &gemini.MockGenerativeClient{
		GenerateContentFn: func(ctx context.Context, model string, contents []*gemini.Content, config *gemini.GenerateContentConfig) (*gemini.GenerateContentResponse, error) {
			return nil, nil
		},
	}

	_, err := gemini.NewGenerator(mockClient, gemini.DefaultModel).Generate(context.Background(), testRequest())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "nil response")
}

func TestGenerator_Generate_RejectsEmptyStory(t *testing.T) {
	t.Parallel()

	for _, text := range []string{`null`, `{}`} {
		t.Run(text, func(t *testing.T) {
			t.Parallel()

			mockClient := &gemini.MockGenerativeClient{
				GenerateContentFn: func(ctx context.Context, model string, contents []*gemini.Content, config *gemini.GenerateContentConfig) (*gemini.GenerateContentResponse, error) {
					return &gemini.GenerateContentResponse{Text: text}, nil
				},
			}

			story, err := gemini.NewGenerator(mockClient, gemini.DefaultModel).Generate(context.Background(), testRequest())

			assert.Nil(t, story)
			assert.ErrorIs(t, err, questlog.ErrEmptyStory)
			assert.Contains(t, err.Error(), "failed to parse response")
		})
	}
}

func TestBuildPrompt_IncludesSettingsAndTasks(t *testing.T) {
	t.Parallel()

	req := testRequest()
	prompt := gemini.BuildPrompt(req.Tasks, req.Settings)

	assert.Contains(t, prompt, "Universe: Middle-earth")
	assert.Contains(t, prompt, "Protagonist: A weary ranger")
	assert.Contains(t, prompt, "Narrative style: epic")
	assert.Contains(t, prompt, "1. Write report")
	assert.Contains(t, prompt, "2. Call plumber")
	assert.Contains(t, prompt, "kitchen sink")
	assert.Contains(t, prompt, "exactly 2 entries")
}

func TestBuildConfig_SetsJSONResponseWithSchema(t *testing.T) {
	t.Parallel()

	config := gemini.BuildConfig()

	assert.Equal(t, "application/json", config.ResponseMIMEType)
	require.NotNil(t, config.Temperature)
	require.NotNil(t, config.SystemInstruction)
	require.NotNil(t, config.ResponseSchema)
	assert.Equal(t, []string{"title", "openingScene", "transformedTasks", "epilogue"}, config.ResponseSchema.Required)
}

func TestStorySchema_DescribesQuestEntries(t *testing.T) {
	t.Parallel()

	schema := gemini.StorySchema()

	quests := schema.Properties["transformedTasks"]
	require.NotNil(t, quests)
	assert.Equal(t, gemini.TypeArray, quests.Type)
	require.NotNil(t, quests.Items)
	assert.Equal(t, gemini.TypeObject, quests.Items.Type)
	assert.Contains(t, quests.Items.Properties, "questName")
	assert.Contains(t, quests.Items.Properties, "narrative")
	assert.Contains(t, quests.Items.Properties, "completion")
}

package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fwojciec/questlog"
	qhttp "github.com/fwojciec/questlog/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRequest() questlog.GenerateRequest {
	return questlog.GenerateRequest{
		ID: "req-1",
		Tasks: []questlog.Task{
			{Title: "Write report", Status: questlog.StatusActive},
			{Title: "Call plumber", Status: questlog.StatusActive},
		},
		Settings: questlog.Settings{Universe: "U", Character: "C", NarrativeStyle: "S"},
		Model:    "gemini-3-flash-preview",
	}
}

func TestGenerator_Generate_SendsRequestBody(t *testing.T) {
	t.Parallel()

	var gotMethod, gotContentType, gotRequestID string
	var gotBody map[string]json.RawMessage
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotContentType = r.Header.Get("Content-Type")
		gotRequestID = r.Header.Get(qhttp.RequestIDHeader)
		data, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(data, &gotBody)
		_, _ = w.Write([]byte(`{"title":"T","openingScene":"O","transformedTasks":[],"epilogue":"E"}`))
	}))
	defer srv.Close()

	gen := qhttp.NewGenerator(srv.URL)
	_, err := gen.Generate(context.Background(), testRequest())

	require.NoError(t, err)
	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "application/json", gotContentType)
	assert.Equal(t, "req-1", gotRequestID)
	require.Contains(t, gotBody, "tasks")
	require.Contains(t, gotBody, "settings")
	require.Contains(t, gotBody, "model")

	var tasks []questlog.Task
	require.NoError(t, json.Unmarshal(gotBody["tasks"], &tasks))
	assert.Len(t, tasks, 2)

	var settings map[string]string
	require.NoError(t, json.Unmarshal(gotBody["settings"], &settings))
	assert.Equal(t, "S", settings["narrativeStyle"])
	assert.JSONEq(t, `"gemini-3-flash-preview"`, string(gotBody["model"]))
}

func TestGenerator_Generate_DecodesStory(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"title":"T","openingScene":"O","transformedTasks":[{"questName":"Q1","narrative":"N1","completion":"C1"},{"questName":"Q2","narrative":"N2","completion":"C2"}],"epilogue":"E"}`))
	}))
	defer srv.Close()

	story, err := qhttp.NewGenerator(srv.URL).Generate(context.Background(), testRequest())

	require.NoError(t, err)
	assert.Equal(t, &questlog.Story{
		Title:        "T",
		OpeningScene: "O",
		TransformedTasks: []questlog.QuestEntry{
			{QuestName: "Q1", Narrative: "N1", Completion: "C1"},
			{QuestName: "Q2", Narrative: "N2", Completion: "C2"},
		},
		Epilogue: "E",
	}, story)
}

func TestGenerator_Generate_ReturnsErrorMessageFromBody(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":"rate limited"}`))
	}))
	defer srv.Close()

	_, err := qhttp.NewGenerator(srv.URL).Generate(context.Background(), testRequest())

	var genErr *questlog.GenerationError
	require.ErrorAs(t, err, &genErr)
	assert.Equal(t, http.StatusTooManyRequests, genErr.StatusCode)
	assert.Equal(t, "rate limited", genErr.Message)
	assert.Equal(t, "rate limited", questlog.ErrorMessage(err))
}

func TestGenerator_Generate_FallsBackWhenBodyHasNoError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`<html>oops</html>`))
	}))
	defer srv.Close()

	_, err := qhttp.NewGenerator(srv.URL).Generate(context.Background(), testRequest())

	require.Error(t, err)
	assert.Equal(t, questlog.DefaultErrorMessage, questlog.ErrorMessage(err))
}

func TestGenerator_Generate_ReturnsErrorOnMalformedStory(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	_, err := qhttp.NewGenerator(srv.URL).Generate(context.Background(), testRequest())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse story")
}

func TestGenerator_Generate_RejectsEmptySuccessBody(t *testing.T) {
	t.Parallel()

	for _, body := range []string{`null`, `{}`, `{"title":"","transformedTasks":[]}`} {
		t.Run(body, func(t *testing.T) {
			t.Parallel()

			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(body))
			}))
			defer srv.Close()

			story, err := qhttp.NewGenerator(srv.URL).Generate(context.Background(), testRequest())

			require.Error(t, err)
			assert.Nil(t, story)
			assert.ErrorIs(t, err, questlog.ErrEmptyStory)
			assert.Contains(t, err.Error(), "http: failed to parse story")
		})
	}
}

func TestGenerator_Generate_ErrorFieldOnSuccessStatus(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"error":"rate limited"}`))
	}))
	defer srv.Close()

	story, err := qhttp.NewGenerator(srv.URL).Generate(context.Background(), testRequest())

	assert.Nil(t, story)
	var genErr *questlog.GenerationError
	require.True(t, errors.As(err, &genErr))
	assert.Equal(t, http.StatusOK, genErr.StatusCode)
	assert.Equal(t, "rate limited", questlog.ErrorMessage(err))
}

func TestGenerator_Generate_ReturnsTransportError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := qhttp.NewGenerator(url).Generate(context.Background(), testRequest())

	require.Error(t, err)
	var genErr *questlog.GenerationError
	assert.False(t, errors.As(err, &genErr))
	assert.NotEmpty(t, questlog.ErrorMessage(err))
}

func TestGenerator_Generate_TimesOut(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	gen := qhttp.NewGenerator(srv.URL, qhttp.WithTimeout(20*time.Millisecond))
	_, err := gen.Generate(context.Background(), testRequest())

	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Contains(t, err.Error(), "timed out")
}

func TestGenerator_Generate_GeneratesRequestIDWhenMissing(t *testing.T) {
	t.Parallel()

	var gotRequestID atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotRequestID.Store(r.Header.Get(qhttp.RequestIDHeader))
		_, _ = w.Write([]byte(`{"title":"T"}`))
	}))
	defer srv.Close()

	req := testRequest()
	req.ID = ""
	_, err := qhttp.NewGenerator(srv.URL).Generate(context.Background(), req)

	require.NoError(t, err)
	assert.Len(t, gotRequestID.Load().(string), 36)
}

func TestGenerator_Generate_SendsEmptyTaskArray(t *testing.T) {
	t.Parallel()

	var body string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		body = string(data)
		_, _ = w.Write([]byte(`{"title":"T"}`))
	}))
	defer srv.Close()

	req := testRequest()
	req.Tasks = nil
	_, err := qhttp.NewGenerator(srv.URL).Generate(context.Background(), req)

	require.NoError(t, err)
	assert.Contains(t, body, `"tasks":[]`)
}

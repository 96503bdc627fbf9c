// Package questlog provides domain types for turning active tasks into a
// generated story.
package questlog

import "context"

// TaskStatus is the lifecycle state of a task.
type TaskStatus string

// Task statuses. Only StatusActive tasks are eligible for story generation.
const (
	StatusActive    TaskStatus = "active"
	StatusCompleted TaskStatus = "completed"
	StatusArchived  TaskStatus = "archived"
)

// Task is a single item from the user's task list.
type Task struct {
	ID          string     `json:"id,omitempty"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Status      TaskStatus `json:"status"`
}

// Settings configures the narrative framing of a generated story.
type Settings struct {
	Universe       string `json:"universe" toml:"universe"`              // e.g. "Middle-earth"
	Character      string `json:"character" toml:"character"`            // Protagonist description
	NarrativeStyle string `json:"narrativeStyle" toml:"narrative_style"` // e.g. "epic", "noir"
}

// ModelID names the generation backend/model to invoke. It is opaque to the panel.
type ModelID string

// Story is the structured result of a generation request.
type Story struct {
	Title            string       `json:"title"`
	OpeningScene     string       `json:"openingScene"`
	TransformedTasks []QuestEntry `json:"transformedTasks"`
	Epilogue         string       `json:"epilogue"`
}

// IsEmpty reports whether s is nil or has neither a title nor quests.
func (s *Story) IsEmpty() bool {
	return s == nil || (s.Title == "" && len(s.TransformedTasks) == 0)
}

// QuestEntry is one task retold as a quest. Entries correspond to the input
// active tasks, in order.
type QuestEntry struct {
	QuestName  string `json:"questName"`
	Narrative  string `json:"narrative"`
	Completion string `json:"completion"`
}

// GenerateRequest is the payload sent to a story generator.
type GenerateRequest struct {
	ID       string   `json:"-"` // Request id for tracing (X-Request-ID)
	Tasks    []Task   `json:"tasks"`
	Settings Settings `json:"settings"`
	Model    ModelID  `json:"model"`
}

// StoryGenerator produces a Story from active tasks and narrative settings.
type StoryGenerator interface {
	Generate(ctx context.Context, req GenerateRequest) (*Story, error)
}

// Store is the application-wide state the story panel reads from and writes to.
// Implementations must be safe for concurrent use.
type Store interface {
	Tasks() []Task
	Settings() Settings
	Model() ModelID
	// Story returns the persisted story, or nil if none exists.
	Story() *Story
	// SetStory replaces the persisted story.
	SetStory(s *Story) error
	// ClearStory deletes the persisted story.
	ClearStory() error
}

// TaskLoader loads tasks from a source.
type TaskLoader interface {
	Load(path string) ([]Task, error)
}

// StoryRenderer renders a story body for display at the given width.
type StoryRenderer interface {
	Render(s *Story, width int) (string, error)
}

// Clipboard provides copy-to-clipboard functionality.
type Clipboard interface {
	Copy(content string) error
}

package fs

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/fwojciec/questlog"
)

// Compile-time interface verification.
var _ questlog.Store = (*Store)(nil)

// StoryFile is the default file name of the story slot inside the data directory.
const StoryFile = "story.json"

// Store holds tasks, settings and model in memory and persists the single
// story slot as a JSON file. It is safe for concurrent use.
type Store struct {
	path string

	mu       sync.RWMutex
	tasks    []questlog.Task
	settings questlog.Settings
	model    questlog.ModelID
	story    *questlog.Story
}

// NewStore creates a Store whose story slot lives at path.
// Call Load to read a previously persisted story.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the location of the story slot.
func (s *Store) Path() string {
	return s.path
}

// Load reads the persisted story. A missing file means no story.
func (s *Store) Load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.mu.Lock()
			s.story = nil
			s.mu.Unlock()
			return nil
		}
		return err
	}

	var story questlog.Story
	if err := json.Unmarshal(data, &story); err != nil {
		return fmt.Errorf("fs: corrupt story file %s: %w", s.path, err)
	}

	s.mu.Lock()
	s.story = &story
	s.mu.Unlock()
	return nil
}

// Tasks returns a copy of the current task list.
func (s *Store) Tasks() []questlog.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.tasks)
}

// SetTasks replaces the task list.
func (s *Store) SetTasks(tasks []questlog.Task) {
	s.mu.Lock()
	s.tasks = slices.Clone(tasks)
	s.mu.Unlock()
}

// Settings returns the narrative settings.
func (s *Store) Settings() questlog.Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

// SetSettings replaces the narrative settings.
func (s *Store) SetSettings(settings questlog.Settings) {
	s.mu.Lock()
	s.settings = settings
	s.mu.Unlock()
}

// Model returns the selected model identifier.
func (s *Store) Model() questlog.ModelID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.model
}

// SetModel replaces the selected model identifier.
func (s *Store) SetModel(model questlog.ModelID) {
	s.mu.Lock()
	s.model = model
	s.mu.Unlock()
}

// Story returns a copy of the persisted story, or nil if there is none.
func (s *Store) Story() *questlog.Story {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneStory(s.story)
}

// SetStory writes the story to disk and then replaces the in-memory slot.
// A nil story clears the slot.
func (s *Store) SetStory(story *questlog.Story) error {
	if story == nil {
		return s.ClearStory()
	}

	data, err := json.MarshalIndent(story, "", "  ")
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := writeFileAtomic(s.path, data); err != nil {
		return fmt.Errorf("fs: save story: %w", err)
	}
	s.story = cloneStory(story)
	return nil
}

// ClearStory deletes the story file and empties the slot.
func (s *Store) ClearStory() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("fs: clear story: %w", err)
	}
	s.story = nil
	return nil
}

// writeFileAtomic writes data to a temp file in the target directory and
// renames it into place, creating parent directories if needed.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	f, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	tmp := f.Name()

	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}

func cloneStory(s *questlog.Story) *questlog.Story {
	if s == nil {
		return nil
	}
	c := *s
	c.TransformedTasks = slices.Clone(s.TransformedTasks)
	return &c
}

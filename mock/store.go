package mock

import "github.com/fwojciec/questlog"

// Compile-time interface verification.
var _ questlog.Store = (*Store)(nil)

// Store is a mock implementation of questlog.Store.
type Store struct {
	TasksFn      func() []questlog.Task
	SettingsFn   func() questlog.Settings
	ModelFn      func() questlog.ModelID
	StoryFn      func() *questlog.Story
	SetStoryFn   func(s *questlog.Story) error
	ClearStoryFn func() error
}

func (s *Store) Tasks() []questlog.Task {
	return s.TasksFn()
}

func (s *Store) Settings() questlog.Settings {
	return s.SettingsFn()
}

func (s *Store) Model() questlog.ModelID {
	return s.ModelFn()
}

func (s *Store) Story() *questlog.Story {
	return s.StoryFn()
}

func (s *Store) SetStory(story *questlog.Story) error {
	return s.SetStoryFn(story)
}

func (s *Store) ClearStory() error {
	return s.ClearStoryFn()
}

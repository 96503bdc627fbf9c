package questlog

import "strings"

// ActiveTasks returns the tasks eligible for story generation, preserving order.
func ActiveTasks(tasks []Task) []Task {
	var active []Task
	for _, t := range tasks {
		if t.Status == StatusActive {
			active = append(active, t)
		}
	}
	return active
}

// Complete reports whether universe, character and narrative style are all set.
func (s Settings) Complete() bool {
	return strings.TrimSpace(s.Universe) != "" &&
		strings.TrimSpace(s.Character) != "" &&
		strings.TrimSpace(s.NarrativeStyle) != ""
}

// ValidateGeneration checks that a story can be generated and returns the
// active tasks to send. Settings are checked before tasks.
func ValidateGeneration(tasks []Task, settings Settings) ([]Task, error) {
	if !settings.Complete() {
		return nil, ErrSettingsIncomplete
	}
	active := ActiveTasks(tasks)
	if len(active) == 0 {
		return nil, ErrNoActiveTasks
	}
	return active, nil
}

// QuestTarget is the number of active tasks at which the progress hint is full.
const QuestTarget = 3

// QuestProgress returns the progress hint fullness for n eligible tasks,
// capped at 1.
func QuestProgress(n int) float64 {
	if n <= 0 {
		return 0
	}
	return min(1, float64(n)/QuestTarget)
}

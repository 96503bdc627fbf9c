package questlog

import "fmt"

// ValidationReason identifies why a generated story does not fit its request.
type ValidationReason string

// Validation error reasons.
const (
	ReasonMissingTitle   ValidationReason = "missing_title"
	ReasonQuestCount     ValidationReason = "quest_count"
	ReasonEmptyQuestName ValidationReason = "empty_quest_name"
)

// ValidationError describes a single way a story departs from its request.
// None of them stop a story from being shown.
type ValidationError struct {
	Reason ValidationReason
	Quest  int // Index of the quest entry, for empty_quest_name
	Got    int // Quest entries in the story, for quest_count
	Want   int // Active tasks sent, for quest_count
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	switch e.Reason {
	case ReasonMissingTitle:
		return "story has no title"
	case ReasonQuestCount:
		return fmt.Sprintf("quest count mismatch: %d quests for %d active tasks", e.Got, e.Want)
	case ReasonEmptyQuestName:
		return fmt.Sprintf("quest %d has no name", e.Quest+1)
	default:
		return fmt.Sprintf("unknown story validation error %q", e.Reason)
	}
}

// ValidateStory checks a generated story against the active tasks it was
// generated from. Returns nil if the story fits.
func ValidateStory(s *Story, active []Task) []ValidationError {
	if s == nil {
		return nil
	}

	var errs []ValidationError
	if s.Title == "" {
		errs = append(errs, ValidationError{Reason: ReasonMissingTitle})
	}
	if len(s.TransformedTasks) != len(active) {
		errs = append(errs, ValidationError{
			Reason: ReasonQuestCount,
			Got:    len(s.TransformedTasks),
			Want:   len(active),
		})
	}
	for i, q := range s.TransformedTasks {
		if q.QuestName == "" {
			errs = append(errs, ValidationError{Reason: ReasonEmptyQuestName, Quest: i})
		}
	}
	return errs
}

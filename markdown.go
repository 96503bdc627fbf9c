package questlog

import (
	"fmt"
	"strings"
)

// Markdown renders the story as a Markdown document.
func (s *Story) Markdown() string {
	if s == nil {
		return ""
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", s.Title)
	if s.OpeningScene != "" {
		sb.WriteString(s.OpeningScene)
		sb.WriteString("\n\n")
	}

	if len(s.TransformedTasks) > 0 {
		sb.WriteString("## Quests\n\n")
		for i, q := range s.TransformedTasks {
			fmt.Fprintf(&sb, "### %d. %s\n\n", i+1, q.QuestName)
			if q.Narrative != "" {
				sb.WriteString(q.Narrative)
				sb.WriteString("\n\n")
			}
			if q.Completion != "" {
				fmt.Fprintf(&sb, "*Completion:* %s\n\n", q.Completion)
			}
		}
	}

	if s.Epilogue != "" {
		sb.WriteString("## Epilogue\n\n")
		sb.WriteString(s.Epilogue)
		sb.WriteString("\n")
	}

	return strings.TrimRight(sb.String(), "\n") + "\n"
}

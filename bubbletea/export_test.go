package bubbletea

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/fwojciec/questlog"
)

// NewStoryResultMsg builds the message a finished generation attempt delivers.
func NewStoryResultMsg(id string, story *questlog.Story, err error) tea.Msg {
	return storyResultMsg{id: id, story: story, err: err}
}

// RequestID returns the id of the attempt in flight.
func (m PanelModel) RequestID() string {
	return m.requestID
}

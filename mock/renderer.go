package mock

import "github.com/fwojciec/questlog"

// Compile-time interface verification.
var (
	_ questlog.StoryRenderer = (*StoryRenderer)(nil)
	_ questlog.Clipboard     = (*Clipboard)(nil)
)

// StoryRenderer is a mock implementation of questlog.StoryRenderer.
type StoryRenderer struct {
	RenderFn func(s *questlog.Story, width int) (string, error)
}

func (r *StoryRenderer) Render(s *questlog.Story, width int) (string, error) {
	return r.RenderFn(s, width)
}

// Clipboard is a mock implementation of questlog.Clipboard.
type Clipboard struct {
	CopyFn func(content string) error
}

func (c *Clipboard) Copy(content string) error {
	return c.CopyFn(content)
}

// Package glamour renders stories as styled terminal Markdown.
package glamour

import (
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/fwojciec/questlog"
)

// Compile-time interface verification.
var _ questlog.StoryRenderer = (*Renderer)(nil)

// Style names accepted by NewRenderer.
const (
	StyleAuto  = "auto"
	StyleDark  = "dark"
	StyleLight = "light"
	StyleASCII = "ascii"
)

// Renderer implements questlog.StoryRenderer using Glamour.
// Term renderers are cached per wrap width.
type Renderer struct {
	style string

	mu    sync.Mutex
	cache map[int]*glamour.TermRenderer
}

// NewRenderer creates a Renderer using the given Glamour style.
func NewRenderer(style string) *Renderer {
	if style == "" {
		style = StyleAuto
	}
	return &Renderer{
		style: style,
		cache: make(map[int]*glamour.TermRenderer),
	}
}

// Render renders the story Markdown wrapped to width columns.
func (r *Renderer) Render(s *questlog.Story, width int) (string, error) {
	if s == nil {
		return "", questlog.ErrNoStory
	}
	tr, err := r.termRenderer(width)
	if err != nil {
		return "", err
	}
	out, err := tr.Render(s.Markdown())
	if err != nil {
		return "", fmt.Errorf("glamour: render story: %w", err)
	}
	return strings.Trim(out, "\n"), nil
}

func (r *Renderer) termRenderer(width int) (*glamour.TermRenderer, error) {
	if width < 0 {
		width = 0
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if tr, ok := r.cache[width]; ok {
		return tr, nil
	}

	opts := []glamour.TermRendererOption{glamour.WithWordWrap(width)}
	if r.style == StyleAuto {
		opts = append(opts, glamour.WithAutoStyle())
	} else {
		opts = append(opts, glamour.WithStandardStyle(r.style))
	}

	tr, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return nil, fmt.Errorf("glamour: create renderer: %w", err)
	}
	r.cache[width] = tr
	return tr, nil
}

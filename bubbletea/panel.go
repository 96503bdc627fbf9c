// Package bubbletea provides the terminal story panel using the Bubble Tea framework.
package bubbletea

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/fwojciec/questlog"
	"github.com/google/uuid"
)

// GenerateMsg starts a generation attempt as if the generate key was pressed,
// even while the control is shown disabled. The settings and task checks and
// the in-flight latch still apply.
type GenerateMsg struct{}

// ClearStoryMsg discards the persisted story.
type ClearStoryMsg struct{}

// TasksChangedMsg tells the panel that the store's task list changed.
type TasksChangedMsg struct{}

// storyResultMsg carries the outcome of one generation attempt.
type storyResultMsg struct {
	id    string
	tasks []questlog.Task // Active tasks the request was sent with
	story *questlog.Story
	err   error
}

type clearStatusMsg struct {
	seq int
}

// statusTimeout is how long a transient status line stays visible.
const statusTimeout = 3 * time.Second

// progressWidth is the maximum width of the quest progress bar.
const progressWidth = 30

// PanelModel is the story panel: it gates and issues story generation,
// persists the result in the store and renders the story.
type PanelModel struct {
	ctx           context.Context
	store         questlog.Store
	generator     questlog.StoryGenerator
	storyRenderer questlog.StoryRenderer
	clipboard     questlog.Clipboard
	logger        *slog.Logger

	// Derived from the store's tasks; recomputed on TasksChangedMsg and
	// at the start of each attempt.
	active []questlog.Task

	// View state
	generating bool
	err        error
	showStory  bool
	requestID  string // id of the attempt in flight
	status     string
	statusSeq  int

	spinner  spinner.Model
	progress progress.Model
	viewport viewport.Model
	help     help.Model
	keymap   PanelKeyMap
	palette  questlog.Palette
	renderer *lipgloss.Renderer
	width    int
	height   int
	ready    bool
}

// PanelModelOption configures a PanelModel.
type PanelModelOption func(*panelConfig)

type panelConfig struct {
	ctx           context.Context
	logger        *slog.Logger
	renderer      *lipgloss.Renderer
	theme         questlog.Theme
	storyRenderer questlog.StoryRenderer
	clipboard     questlog.Clipboard
}

// WithPanelContext sets the panel's lifetime context. It is passed to the
// generator, and results arriving after it is done are discarded.
func WithPanelContext(ctx context.Context) PanelModelOption {
	return func(cfg *panelConfig) {
		cfg.ctx = ctx
	}
}

// WithPanelLogger sets the logger for generation diagnostics.
func WithPanelLogger(l *slog.Logger) PanelModelOption {
	return func(cfg *panelConfig) {
		cfg.logger = l
	}
}

// WithPanelRenderer sets a custom lipgloss renderer for the model.
func WithPanelRenderer(r *lipgloss.Renderer) PanelModelOption {
	return func(cfg *panelConfig) {
		cfg.renderer = r
	}
}

// WithPanelTheme sets the theme for the model.
func WithPanelTheme(t questlog.Theme) PanelModelOption {
	return func(cfg *panelConfig) {
		cfg.theme = t
	}
}

// WithStoryRenderer sets the renderer for the story body.
// Without one the body is laid out with plain lipgloss styles.
func WithStoryRenderer(r questlog.StoryRenderer) PanelModelOption {
	return func(cfg *panelConfig) {
		cfg.storyRenderer = r
	}
}

// WithClipboard enables copying the story as Markdown.
func WithClipboard(c questlog.Clipboard) PanelModelOption {
	return func(cfg *panelConfig) {
		cfg.clipboard = c
	}
}

// NewPanelModel creates a PanelModel reading from and writing to store.
func NewPanelModel(store questlog.Store, generator questlog.StoryGenerator, opts ...PanelModelOption) PanelModel {
	cfg := &panelConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.ctx == nil {
		cfg.ctx = context.Background()
	}
	if cfg.logger == nil {
		cfg.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	palette := defaultPalette()
	if cfg.theme != nil {
		palette = cfg.theme.Palette()
	}

	s := spinner.New(spinner.WithSpinner(spinner.Dot))
	s.Style = newStyle(cfg.renderer).Foreground(lipgloss.Color(palette.Accent))

	p := progress.New(
		progress.WithSolidFill(palette.Quest),
		progress.WithoutPercentage(),
		progress.WithWidth(progressWidth),
	)

	h := help.New()
	h.Styles.ShortKey = newStyle(cfg.renderer).Foreground(lipgloss.Color(palette.Accent))
	h.Styles.ShortDesc = newStyle(cfg.renderer).Foreground(lipgloss.Color(palette.Muted))
	h.Styles.FullKey = h.Styles.ShortKey
	h.Styles.FullDesc = h.Styles.ShortDesc

	return PanelModel{
		ctx:           cfg.ctx,
		store:         store,
		generator:     generator,
		storyRenderer: cfg.storyRenderer,
		clipboard:     cfg.clipboard,
		logger:        cfg.logger,
		active:        questlog.ActiveTasks(store.Tasks()),
		spinner:       s,
		progress:      p,
		help:          h,
		keymap:        DefaultPanelKeyMap(),
		palette:       palette,
		renderer:      cfg.renderer,
	}
}

// Generating reports whether a generation attempt is in flight.
func (m PanelModel) Generating() bool {
	return m.generating
}

// Err returns the error of the last attempt, or nil.
func (m PanelModel) Err() error {
	return m.err
}

// ShowStory reports whether the story body is expanded.
func (m PanelModel) ShowStory() bool {
	return m.showStory
}

// ActiveCount returns the number of tasks eligible for generation.
func (m PanelModel) ActiveCount() int {
	return len(m.active)
}

// Status returns the transient status line.
func (m PanelModel) Status() string {
	return m.status
}

// CanGenerate reports whether the generate control is enabled.
func (m PanelModel) CanGenerate() bool {
	return !m.generating && len(m.active) > 0
}

// Init implements tea.Model.
func (m PanelModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m PanelModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	m, cmd := m.update(msg)
	m.layout()
	return m, cmd
}

func (m PanelModel) update(msg tea.Msg) (PanelModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		widthChanged := m.width != msg.Width
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = min(progressWidth, max(msg.Width-20, 10))
		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height)
			m.ready = true
			m.refreshBody()
		} else if widthChanged {
			m.viewport.Width = msg.Width
			m.refreshBody()
		}
		return m, nil

	case GenerateMsg:
		return m.startGeneration()

	case ClearStoryMsg:
		return m.clearStory(), nil

	case TasksChangedMsg:
		m.active = questlog.ActiveTasks(m.store.Tasks())
		m.logger.Debug("tasks reloaded", "active", len(m.active))
		return m, nil

	case storyResultMsg:
		return m.handleResult(msg), nil

	case clearStatusMsg:
		if msg.seq == m.statusSeq {
			m.status = ""
		}
		return m, nil

	case spinner.TickMsg:
		if !m.generating {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.MouseMsg:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m PanelModel) handleKey(msg tea.KeyMsg) (PanelModel, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keymap.Generate):
		if !m.CanGenerate() {
			return m, nil
		}
		return m.startGeneration()
	case key.Matches(msg, m.keymap.Toggle):
		if m.store.Story() != nil {
			m.showStory = !m.showStory
		}
		return m, nil
	case key.Matches(msg, m.keymap.Clear):
		if m.store.Story() == nil {
			return m, nil
		}
		return m.clearStory(), nil
	case key.Matches(msg, m.keymap.Copy):
		return m.copyStory()
	case key.Matches(msg, m.keymap.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keymap.Up):
		m.viewport.ScrollUp(1)
	case key.Matches(msg, m.keymap.Down):
		m.viewport.ScrollDown(1)
	case key.Matches(msg, m.keymap.HalfPageUp):
		m.viewport.HalfPageUp()
	case key.Matches(msg, m.keymap.HalfPageDown):
		m.viewport.HalfPageDown()
	}
	return m, nil
}

// startGeneration validates the inputs and, if they pass, issues one request.
// An attempt already in flight makes this a no-op.
func (m PanelModel) startGeneration() (PanelModel, tea.Cmd) {
	if m.generating {
		m.logger.Debug("generation already in flight", "request_id", m.requestID)
		return m, nil
	}

	tasks := m.store.Tasks()
	m.active = questlog.ActiveTasks(tasks)
	settings := m.store.Settings()

	active, err := questlog.ValidateGeneration(tasks, settings)
	if err != nil {
		m.err = err
		return m, nil
	}

	req := questlog.GenerateRequest{
		ID:       uuid.NewString(),
		Tasks:    active,
		Settings: settings,
		Model:    m.store.Model(),
	}

	m.err = nil
	m.generating = true
	m.requestID = req.ID

	m.logger.Info("generation started",
		"request_id", req.ID,
		"tasks", len(req.Tasks),
		"model", string(req.Model),
	)

	return m, tea.Batch(m.generateCmd(req), m.spinner.Tick)
}

// generateCmd runs the generator off the event loop. A panicking generator
// still yields a result so the loading flag is cleared.
func (m PanelModel) generateCmd(req questlog.GenerateRequest) tea.Cmd {
	ctx := m.ctx
	gen := m.generator
	return func() (msg tea.Msg) {
		defer func() {
			if r := recover(); r != nil {
				msg = storyResultMsg{id: req.ID, tasks: req.Tasks, err: fmt.Errorf("story generator panicked: %v", r)}
			}
		}()
		story, err := gen.Generate(ctx, req)
		if err == nil && story == nil {
			err = errors.New(questlog.DefaultErrorMessage)
		}
		return storyResultMsg{id: req.ID, tasks: req.Tasks, story: story, err: err}
	}
}

func (m PanelModel) handleResult(msg storyResultMsg) PanelModel {
	if msg.id != m.requestID || m.ctx.Err() != nil {
		m.logger.Warn("stale generation result discarded", "request_id", msg.id, "current", m.requestID)
		return m
	}

	m.generating = false
	m.requestID = ""

	if msg.err != nil {
		m.err = msg.err
		m.logger.Error("story generation failed", "request_id", msg.id, "err", msg.err)
		return m
	}

	m.logger.Info("story generated",
		"request_id", msg.id,
		"title", msg.story.Title,
		"quests", len(msg.story.TransformedTasks),
		"story", msg.story,
	)
	for _, verr := range questlog.ValidateStory(msg.story, msg.tasks) {
		m.logger.Warn(verr.Error(), "request_id", msg.id, "reason", string(verr.Reason))
	}

	if err := m.store.SetStory(msg.story); err != nil {
		m.err = err
		m.logger.Error("store write failed", "request_id", msg.id, "err", err)
		return m
	}

	m.showStory = true
	m.refreshBody()
	m.viewport.GotoTop()
	return m
}

// clearStory discards the persisted story and collapses the body.
// Error and loading state are left alone.
func (m PanelModel) clearStory() PanelModel {
	if err := m.store.ClearStory(); err != nil {
		m.logger.Error("store write failed", "op", "clear", "err", err)
		m.status = "Could not clear story"
		m.statusSeq++
		return m
	}
	m.showStory = false
	m.refreshBody()
	return m
}

func (m PanelModel) copyStory() (PanelModel, tea.Cmd) {
	story := m.store.Story()
	if story == nil {
		return m, nil
	}
	switch {
	case m.clipboard == nil:
		m.status = "Clipboard not available"
	default:
		if err := m.clipboard.Copy(story.Markdown()); err != nil {
			m.logger.Warn("copy to clipboard failed", "err", err)
			m.status = "Copy failed: " + err.Error()
		} else {
			m.status = "Copied story to clipboard"
		}
	}
	m.statusSeq++
	seq := m.statusSeq
	return m, tea.Tick(statusTimeout, func(time.Time) tea.Msg {
		return clearStatusMsg{seq: seq}
	})
}

// refreshBody re-renders the story body into the viewport.
func (m *PanelModel) refreshBody() {
	if !m.ready {
		return
	}
	story := m.store.Story()
	if story == nil {
		m.viewport.SetContent("")
		return
	}
	width := max(m.width-2, 10)
	if m.storyRenderer != nil {
		body, err := m.storyRenderer.Render(story, width)
		if err == nil {
			m.viewport.SetContent(body)
			return
		}
		m.logger.Warn("story render failed", "err", err)
	}
	m.viewport.SetContent(m.plainBody(story, width))
}

// layout gives the viewport whatever height the other regions leave.
func (m *PanelModel) layout() {
	if !m.ready {
		return
	}
	used := lipgloss.Height(m.topView()) + lipgloss.Height(m.footerView())
	m.viewport.Height = max(m.height-used, 1)
}

// View implements tea.Model.
func (m PanelModel) View() string {
	if !m.ready {
		return "Loading..."
	}
	parts := []string{m.topView()}
	if m.showStory && m.store.Story() != nil {
		parts = append(parts, m.viewport.View())
	}
	parts = append(parts, m.footerView())
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// topView renders every region above the story body.
func (m PanelModel) topView() string {
	story := m.store.Story()

	parts := []string{m.actionView(story)}
	if story == nil && len(m.active) > 0 {
		parts = append(parts, m.progressView())
	}
	if m.generating {
		parts = append(parts, m.loadingView())
	}
	if m.err != nil {
		parts = append(parts, m.errorView())
	}
	if story != nil {
		parts = append(parts, m.storyHeaderView(story))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// actionView renders the generate / regenerate control.
func (m PanelModel) actionView(story *questlog.Story) string {
	style := m.newStyle().
		Padding(0, 2).
		Bold(true).
		Foreground(lipgloss.Color(m.palette.Background)).
		Background(lipgloss.Color(m.palette.Accent))

	if m.generating {
		return style.Render(m.spinner.View() + " Generating story...")
	}

	label := "Generate Story"
	if story != nil {
		label = "Regenerate"
	}
	if len(m.active) == 0 {
		style = style.
			Bold(false).
			Foreground(lipgloss.Color(m.palette.Muted)).
			Background(lipgloss.Color(m.palette.Surface))
	}
	return style.Render(label)
}

// progressView renders the "N quests ready" hint.
func (m PanelModel) progressView() string {
	n := len(m.active)
	noun := "quests"
	if n == 1 {
		noun = "quest"
	}
	label := m.newStyle().
		Foreground(lipgloss.Color(m.palette.Muted)).
		Render(fmt.Sprintf("%d %s ready ", n, noun))
	return label + m.progress.ViewAs(questlog.QuestProgress(n))
}

// loadingView renders the indeterminate loading overlay.
func (m PanelModel) loadingView() string {
	return m.newStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.palette.Border)).
		Foreground(lipgloss.Color(m.palette.Accent)).
		Padding(0, 1).
		Render(m.spinner.View() + " Weaving your quests into a story...")
}

// errorView renders the error banner.
func (m PanelModel) errorView() string {
	style := m.newStyle().
		Foreground(lipgloss.Color(m.palette.Error)).
		Bold(true)
	if m.width > 0 {
		style = style.Width(m.width)
	}
	return style.Render("✗ " + questlog.ErrorMessage(m.err))
}

// storyHeaderView renders the always-visible story header.
func (m PanelModel) storyHeaderView(story *questlog.Story) string {
	marker := "▸"
	if m.showStory {
		marker = "▾"
	}
	title := m.newStyle().
		Bold(true).
		Foreground(lipgloss.Color(m.palette.Title)).
		Render(marker + " " + story.Title)
	hint := m.newStyle().
		Foreground(lipgloss.Color(m.palette.Muted)).
		Render("  [x] clear")
	return title + hint
}

// footerView renders the status line and key help.
func (m PanelModel) footerView() string {
	helpView := m.help.View(m.keymap)
	if m.status == "" {
		return helpView
	}
	status := m.newStyle().
		Foreground(lipgloss.Color(m.palette.Success)).
		Render(m.status)
	return lipgloss.JoinVertical(lipgloss.Left, status, helpView)
}

// plainBody lays out the story body without a Markdown renderer.
func (m PanelModel) plainBody(story *questlog.Story, width int) string {
	prose := m.newStyle().Width(width)
	quest := m.newStyle().Bold(true).Foreground(lipgloss.Color(m.palette.Quest))
	muted := m.newStyle().Width(width).Italic(true).Foreground(lipgloss.Color(m.palette.Muted))

	var b strings.Builder
	if story.OpeningScene != "" {
		b.WriteString(prose.Render(story.OpeningScene))
		b.WriteString("\n\n")
	}
	for i, q := range story.TransformedTasks {
		b.WriteString(quest.Render(fmt.Sprintf("%d. %s", i+1, q.QuestName)))
		b.WriteString("\n")
		if q.Narrative != "" {
			b.WriteString(prose.Render(q.Narrative))
			b.WriteString("\n")
		}
		if q.Completion != "" {
			b.WriteString(muted.Render("Completion: " + q.Completion))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	if story.Epilogue != "" {
		b.WriteString(prose.Render(story.Epilogue))
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m PanelModel) newStyle() lipgloss.Style {
	return newStyle(m.renderer)
}

// newStyle creates a new lipgloss style using r, or the default renderer if r is nil.
func newStyle(r *lipgloss.Renderer) lipgloss.Style {
	if r != nil {
		return r.NewStyle()
	}
	return lipgloss.NewStyle()
}

// defaultPalette is used when no theme is configured. It sticks to the 16
// ANSI colors so it reads on any terminal background.
func defaultPalette() questlog.Palette {
	return questlog.Palette{
		Background: "0",
		Foreground: "7",
		Accent:     "5",
		Muted:      "8",
		Error:      "1",
		Success:    "2",
		Surface:    "0",
		Border:     "8",
		Title:      "3",
		Quest:      "4",
	}
}

package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/fwojciec/questlog"
	"github.com/fwojciec/questlog/bubbletea"
	"github.com/fwojciec/questlog/fs"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// App encapsulates the application logic for testing.
type App struct {
	Store     *fs.Store               // Tasks, settings and the story slot
	Loader    questlog.TaskLoader     // Reads TasksPath
	TasksPath string                  // Task file; empty means no tasks
	Generator questlog.StoryGenerator // Backend for story generation
	Output    io.Writer               // Headless command output
	Logger    *slog.Logger
}

func (a *App) logger() *slog.Logger {
	if a.Logger != nil {
		return a.Logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Load reads the task file and the persisted story concurrently.
func (a *App) Load(ctx context.Context) error {
	g, _ := errgroup.WithContext(ctx)

	g.Go(func() error {
		return a.ReloadTasks()
	})
	g.Go(func() error {
		return a.Store.Load()
	})

	return g.Wait()
}

// ReloadTasks replaces the store's tasks with the contents of the task file.
func (a *App) ReloadTasks() error {
	if a.TasksPath == "" {
		return nil
	}
	tasks, err := a.Loader.Load(a.TasksPath)
	if err != nil {
		return fmt.Errorf("load tasks: %w", err)
	}
	a.Store.SetTasks(tasks)
	a.logger().Debug("tasks reloaded", "path", a.TasksPath, "tasks", len(tasks))
	return nil
}

// Generate runs one generation without the panel, persists the story and
// writes it to Output as Markdown, or as JSON if asJSON is set.
func (a *App) Generate(ctx context.Context, asJSON bool) error {
	settings := a.Store.Settings()
	active, err := questlog.ValidateGeneration(a.Store.Tasks(), settings)
	if err != nil {
		return err
	}

	req := questlog.GenerateRequest{
		ID:       uuid.NewString(),
		Tasks:    active,
		Settings: settings,
		Model:    a.Store.Model(),
	}
	a.logger().Info("generation started", "request_id", req.ID, "tasks", len(active), "model", string(req.Model))

	story, err := a.Generator.Generate(ctx, req)
	if err != nil {
		a.logger().Error("story generation failed", "request_id", req.ID, "err", err)
		return errors.New(questlog.ErrorMessage(err))
	}
	if story == nil {
		return errors.New(questlog.DefaultErrorMessage)
	}
	a.logger().Info("story generated", "request_id", req.ID, "title", story.Title, "quests", len(story.TransformedTasks))
	for _, verr := range questlog.ValidateStory(story, active) {
		a.logger().Warn(verr.Error(), "request_id", req.ID, "reason", string(verr.Reason))
	}

	if err := a.Store.SetStory(story); err != nil {
		return err
	}

	if asJSON {
		enc := json.NewEncoder(a.Output)
		enc.SetIndent("", "  ")
		return enc.Encode(story)
	}
	_, err = io.WriteString(a.Output, story.Markdown())
	return err
}

// Clear discards the persisted story.
func (a *App) Clear() error {
	if err := a.Store.ClearStory(); err != nil {
		return err
	}
	_, err := fmt.Fprintln(a.Output, "Story cleared.")
	return err
}

// Panel builds the story panel over the app's store and generator.
func (a *App) Panel(ctx context.Context, opts ...bubbletea.PanelModelOption) bubbletea.PanelModel {
	opts = append([]bubbletea.PanelModelOption{
		bubbletea.WithPanelContext(ctx),
		bubbletea.WithPanelLogger(a.logger()),
	}, opts...)
	return bubbletea.NewPanelModel(a.Store, a.Generator, opts...)
}

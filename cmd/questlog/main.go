package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fwojciec/questlog"
	"github.com/fwojciec/questlog/bubbletea"
	"github.com/fwojciec/questlog/clipboard"
	"github.com/fwojciec/questlog/fs"
	"github.com/fwojciec/questlog/gemini"
	"github.com/fwojciec/questlog/glamour"
	"github.com/fwojciec/questlog/http"
	"github.com/fwojciec/questlog/jsonl"
	"github.com/fwojciec/questlog/lipgloss"
	"github.com/fwojciec/questlog/toml"
	"golang.org/x/sync/errgroup"
)

// ErrNoAPIKey is returned when neither an endpoint nor a Gemini API key is configured.
var ErrNoAPIKey = errors.New("no generation backend: set endpoint in config, " + toml.EnvEndpoint + " or " + toml.EnvAPIKey)

const usage = `usage: questlog [-config path] [command]

Commands:
  (none)     open the story panel
  generate   generate a story and print it (-json for JSON)
  clear      discard the persisted story`

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string) error {
	flags := flag.NewFlagSet("questlog", flag.ContinueOnError)
	configPath := flags.String("config", toml.DefaultPath(), "config file")
	flags.Usage = func() { fmt.Fprintln(flags.Output(), usage) }
	if err := flags.Parse(args); err != nil {
		return err
	}

	cfg, err := toml.Load(*configPath)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	logger, closeLog, err := openLog(cfg.Log)
	if err != nil {
		return err
	}
	defer closeLog.Close()

	store := fs.NewStore(cfg.Story)
	store.SetSettings(cfg.Settings)
	store.SetModel(questlog.ModelID(cfg.Model))

	app := &App{
		Store:     store,
		Loader:    jsonl.NewLoader(),
		TasksPath: cfg.Tasks,
		Output:    os.Stdout,
		Logger:    logger,
	}

	rest := flags.Args()
	cmd := ""
	if len(rest) > 0 {
		cmd = rest[0]
		rest = rest[1:]
	}

	switch cmd {
	case "clear":
		return app.Clear()
	case "generate", "":
	default:
		return fmt.Errorf("unknown command %q\n\n%s", cmd, usage)
	}

	if err := app.Load(ctx); err != nil {
		return err
	}

	gen, err := newGenerator(ctx, cfg)
	if err != nil {
		return err
	}
	app.Generator = gen

	if cmd == "generate" {
		genFlags := flag.NewFlagSet("generate", flag.ContinueOnError)
		asJSON := genFlags.Bool("json", false, "print the story as JSON")
		if err := genFlags.Parse(rest); err != nil {
			return err
		}
		return app.Generate(ctx, *asJSON)
	}
	return runPanel(ctx, app, cfg)
}

// newGenerator picks the remote endpoint when one is configured and the
// Gemini API otherwise.
func newGenerator(ctx context.Context, cfg *toml.Config) (questlog.StoryGenerator, error) {
	if cfg.Endpoint != "" {
		return http.NewGenerator(cfg.Endpoint, http.WithTimeout(cfg.Timeout.Duration)), nil
	}
	if cfg.APIKey == "" {
		return nil, ErrNoAPIKey
	}
	client, err := gemini.NewClient(ctx, cfg.APIKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return gemini.NewGenerator(client, cfg.Model, gemini.WithTimeout(cfg.Timeout.Duration)), nil
}

func runPanel(ctx context.Context, app *App, cfg *toml.Config) error {
	theme, ok := lipgloss.ThemeByName(cfg.Theme)
	if !ok {
		return fmt.Errorf("unknown theme %q", cfg.Theme)
	}
	style := glamour.StyleDark
	if cfg.Theme == "light" {
		style = glamour.StyleLight
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	m := app.Panel(ctx,
		bubbletea.WithPanelTheme(theme),
		bubbletea.WithStoryRenderer(glamour.NewRenderer(style)),
		bubbletea.WithClipboard(clipboard.NewSystem()),
	)
	p := tea.NewProgram(m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)

	var watch func(context.Context) error
	if app.TasksPath != "" {
		w, err := fs.NewWatcher(app.TasksPath, func() {
			if err := app.ReloadTasks(); err != nil {
				app.logger().Warn("task reload failed", "err", err)
				return
			}
			p.Send(bubbletea.TasksChangedMsg{})
		}, fs.WithWatcherLogger(app.logger()))
		if err != nil {
			return fmt.Errorf("watch %s: %w", app.TasksPath, err)
		}
		watch = w.Run
	}

	return serve(ctx, cancel, func() error {
		_, err := p.Run()
		return err
	}, watch)
}

// serve runs the program and, if watch is set, the task watcher until both
// stop. cancel must cancel the program's context: the program exiting stops
// the watcher, and the watcher failing stops the program.
func serve(ctx context.Context, cancel context.CancelFunc, run func() error, watch func(context.Context) error) error {
	g, gctx := errgroup.WithContext(ctx)

	if watch != nil {
		g.Go(func() error {
			err := watch(gctx)
			if err != nil {
				cancel()
				return fmt.Errorf("watch tasks: %w", err)
			}
			return nil
		})
	}

	g.Go(func() error {
		defer cancel()
		err := run()
		if errors.Is(err, tea.ErrProgramKilled) {
			return nil
		}
		return err
	})

	return g.Wait()
}

// openLog opens the diagnostic log file for appending.
func openLog(path string) (*slog.Logger, io.Closer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log: %w", err)
	}
	logger := slog.New(slog.NewJSONHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return logger, f, nil
}

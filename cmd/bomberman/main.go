package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"math/rand/v2"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"

	"github.com/amalg/gridbomber/internal/game"
	"github.com/amalg/gridbomber/internal/grid"
	"github.com/amalg/gridbomber/internal/ui"
)

const (
	AppName = "gridbomber"
	Version = "0.2.0"
)

func main() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Warning: error loading .env file: %v\n", err)
	}

	if err := newApp().Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:    AppName,
		Usage:   "local multiplayer grid bomber in the terminal",
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "map", Usage: "map file of 0/1/2 tiles (requires --width and --height)", Sources: cli.EnvVars("GRIDBOMBER_MAP")},
			&cli.StringFlag{Name: "config", Usage: "JSON game config", Sources: cli.EnvVars("GRIDBOMBER_CONFIG")},
			&cli.IntFlag{Name: "width", Usage: "grid width"},
			&cli.IntFlag{Name: "height", Usage: "grid height"},
			&cli.IntFlag{Name: "players", Usage: "number of players (1-4)"},
			&cli.Uint64Flag{Name: "seed", Usage: "map generation seed, 0 picks one", Sources: cli.EnvVars("GRIDBOMBER_SEED")},
			&cli.StringFlag{Name: "log", Usage: "write logs to this file", Sources: cli.EnvVars("GRIDBOMBER_LOG")},
			&cli.BoolFlag{Name: "debug", Usage: "log at debug level"},
		},
		Action: play,
		Commands: []*cli.Command{
			{
				Name:   "play",
				Usage:  "start a local session (default)",
				Action: play,
			},
			{
				Name:  "snapshot",
				Usage: "build a session, run it headless and dump a msgpack snapshot",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "out", Usage: "output file, - for stdout", Value: "-"},
					&cli.IntFlag{Name: "ticks", Usage: "ticks to simulate before the dump"},
				},
				Action: snapshot,
			},
		},
	}
}

// play runs the interactive TUI.
func play(ctx context.Context, cmd *cli.Command) error {
	logger, closeLog, err := setupLogger(cmd)
	if err != nil {
		return err
	}
	defer closeLog()

	engine, err := buildEngine(cmd, logger)
	if err != nil {
		logger.Error("failed to build session", "err", err)
		return err
	}

	p := tea.NewProgram(ui.NewModel(engine),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	logger.Info("session ended", "ticks", engine.TickCount())
	return nil
}

// snapshot simulates without a terminal and writes the resulting frame.
func snapshot(ctx context.Context, cmd *cli.Command) error {
	logger, closeLog, err := setupLogger(cmd)
	if err != nil {
		return err
	}
	defer closeLog()

	engine, err := buildEngine(cmd, logger)
	if err != nil {
		logger.Error("failed to build session", "err", err)
		return err
	}
	for i := 0; i < int(cmd.Int("ticks")); i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		engine.Tick()
	}

	out := io.Writer(os.Stdout)
	if path := cmd.String("out"); path != "-" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create snapshot file: %w", err)
		}
		defer f.Close()
		out = f
	}
	return game.EncodeSnapshot(out, engine.Snapshot())
}

// setupLogger sends logs to the --log file. Without one they are dropped,
// since the TUI owns the terminal.
func setupLogger(cmd *cli.Command) (*slog.Logger, func(), error) {
	level := slog.LevelInfo
	if cmd.Bool("debug") {
		level = slog.LevelDebug
	}

	path := cmd.String("log")
	if path == "" {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	logger := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: level}))
	return logger, func() { f.Close() }, nil
}

// buildEngine resolves config, flags and map into a session.
func buildEngine(cmd *cli.Command, logger *slog.Logger) (*game.Engine, error) {
	config := game.DefaultConfig()
	if path := cmd.String("config"); path != "" {
		var err error
		if config, err = game.LoadConfig(path); err != nil {
			return nil, err
		}
	}
	if v := int(cmd.Int("width")); v > 0 {
		config.Width = v
	}
	if v := int(cmd.Int("height")); v > 0 {
		config.Height = v
	}
	if v := int(cmd.Int("players")); v > 0 {
		config.Players = v
	}
	if v := cmd.Uint64("seed"); v != 0 {
		config.Seed = v
	}
	if config.Seed == 0 {
		config.Seed = rand.Uint64()
	}
	// the map is read at the configured size, so the size must be sane first
	if err := config.Validate(); err != nil {
		return nil, err
	}

	var g *grid.Grid
	if path := cmd.String("map"); path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open map: %w", err)
		}
		defer f.Close()
		if g, err = grid.Load(f, config.Width, config.Height); err != nil {
			return nil, fmt.Errorf("load map %s: %w", path, err)
		}
	}

	engine, err := game.NewEngine(config, g, game.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	logger.Info("session ready", "seed", config.Seed, "map", cmd.String("map"))
	return engine, nil
}

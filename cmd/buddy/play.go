package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/block-buddy/internal/platform/tui"
	"github.com/vovakirdan/block-buddy/internal/session"
	"github.com/vovakirdan/block-buddy/internal/settings"
	"github.com/vovakirdan/block-buddy/internal/storage"
)

var flagLogFile string

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Build in the terminal",
	Long: `Open your world and start building.

Controls:
  Arrows/hjkl  - Move the cursor
  Space/Enter  - Place the selected block (or erase)
  Mouse click  - Place at the clicked cell
  1 2 3 4      - Grass, wood, stone, flower
  E            - Erase mode
  U            - Undo
  ?            - Hint
  N            - Next mission
  D            - Daily challenge mode on/off
  M            - Calm colors on/off
  Tab          - Mission list
  Esc          - Close the celebration card
  Q/Ctrl+C     - Quit (your world is saved)

Examples:
  buddy play
  buddy play --profile sam
  buddy play --assist gentle
  buddy play --backend sqlite`,
	Args: cobra.NoArgs,
	Run:  runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagLogFile, "log-file", "", "Log file (default: <data>/buddy.log)")
}

func runPlay(_ *cobra.Command, _ []string) {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Fprintln(os.Stderr, "Error: play needs an interactive terminal")
		os.Exit(1)
	}

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// The screen belongs to the game, so logs go to a file.
	logPath := flagLogFile
	if logPath == "" {
		dir, dirErr := storage.ExpandHome(cfg.Storage.Dir)
		if dirErr != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", dirErr)
			os.Exit(1)
		}
		logPath = filepath.Join(dir, "buddy.log")
	}
	if mkErr := os.MkdirAll(filepath.Dir(logPath), 0o755); mkErr != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", mkErr)
		os.Exit(1)
	}
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening log file: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()
	logger := newLogger(logFile)

	g, err := openGame(logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer g.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	hub := settings.NewHub(ctx, g.backend, logger)
	defer hub.Close()

	sess := session.New(session.OptionsFrom(g.cfg, g.catalog, logger), g.backend, hub)
	if err := sess.Start(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading world: %v\n", err)
		os.Exit(1)
	}
	warnIfSmall(sess.View(), hub.Current())

	logger.Info("play started", "profile", g.cfg.Storage.Profile, "backend", g.cfg.Storage.Backend)
	runErr := tui.Run(ctx, sess, hub, g.catalog, logger)

	closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	sess.Close(closeCtx)
	cancel()
	logger.Info("play ended", "stars", sess.View().Stars)

	if runErr != nil && ctx.Err() == nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", runErr)
		os.Exit(1)
	}
}

// warnIfSmall prints a note when the terminal cannot fit the board.
func warnIfSmall(v session.View, s settings.Settings) {
	width, height, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		return
	}
	layout := tui.NewLayout(v.World.Width(), v.World.Height(), s.LargerControls)
	needW := layout.Board.Right() + 2
	needH := layout.Board.Bottom() + 4
	if width < needW || height < needH {
		fmt.Fprintf(os.Stderr, "Note: the board needs a %dx%d terminal, yours is %dx%d.\n", needW, needH, width, height)
		time.Sleep(time.Second)
	}
}

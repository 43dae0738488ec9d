package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"driftwatch/config"
	"driftwatch/events"
	"driftwatch/git"
	"driftwatch/paths"
	"driftwatch/tracker"
	"driftwatch/tui"
	"driftwatch/workspace"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	headless bool
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:   "driftwatch [dir]",
	Short: "Driftwatch reviews file changes made by coding assistants",
	Long: `Driftwatch watches a project directory while an AI coding assistant (or
any other tool) edits files in it. Every tracked file is snapshotted, edits
are diffed line by line against the snapshots, and each pending change can
be accepted or reverted, per file or per hunk, before anything is
committed.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := ""
		if len(args) > 0 {
			dir = args[0]
		}
		root, err := workspace.Resolve(dir)
		if err != nil {
			return fmt.Errorf("failed to resolve workspace: %w", err)
		}

		cfg, err := config.Load(root)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if logLevel != "" {
			cfg.LogLevel = logLevel
		}

		if err := workspace.EnsureStateDir(root); err != nil {
			return err
		}

		if headless {
			logger, err := consoleLogger(cfg.LogLevel)
			if err != nil {
				return err
			}
			return runHeadless(root, cfg, logger)
		}

		// TUI mode logs to the project state dir so log lines never tear
		// the interface.
		pp, err := paths.NewProjectPaths(root)
		if err != nil {
			return err
		}
		if err := pp.EnsureProjectDir(); err != nil {
			return err
		}
		logFile, err := os.OpenFile(pp.LogPath(), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		defer logFile.Close()
		logger, err := fileLogger(logFile, cfg.LogLevel)
		if err != nil {
			return err
		}

		bus := events.NewBus(logger)
		defer bus.Close()
		trk := tracker.New(bus, logger, cfg.Debounce())
		defer trk.Stop()

		return tui.Run(trk, bus, root, cfg)
	},
}

// runHeadless streams change events to the structured log and prints a
// pending-changes summary when interrupted.
func runHeadless(root string, cfg *config.Config, logger zerolog.Logger) error {
	bus := events.NewBus(logger)
	defer bus.Close()
	bus.SubscribeAll(func(e events.Event) {
		logger.Info().
			Str("event", string(e.Type)).
			Interface("data", e.Data).
			Msg("change tracking event")
	})

	trk := tracker.New(bus, logger, cfg.Debounce())
	if err := trk.Watch(root); err != nil {
		return err
	}
	defer trk.Stop()

	logger.Info().
		Str("root", root).
		Int("tracked", trk.TrackedFiles()).
		Str("git", git.Status(root).Summary()).
		Msg("watching for changes, interrupt to stop")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	printPendingSummary(trk)
	return nil
}

// printPendingSummary renders what is still pending at shutdown.
func printPendingSummary(trk *tracker.Tracker) {
	changes := trk.PendingChanges()
	if len(changes) == 0 {
		fmt.Println("No pending changes.")
		return
	}

	tw := table.NewWriter()
	tw.SetOutputMirror(os.Stdout)
	tw.AppendHeader(table.Row{"FILE", "HUNKS", "+", "-", "LAST CHANGE"})
	for _, pc := range changes {
		removed, added := 0, 0
		for _, h := range pc.Diff {
			r, a := h.Counts()
			removed += r
			added += a
		}
		tw.AppendRow(table.Row{
			pc.Path,
			len(pc.Diff),
			added,
			removed,
			pc.Timestamp.Format("15:04:05"),
		})
	}
	tw.SetStyle(table.StyleLight)
	tw.Render()
}

func consoleLogger(level string) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("invalid log level %q: %w", level, err)
	}
	w := zerolog.ConsoleWriter{Out: os.Stderr}
	return zerolog.New(w).Level(lvl).With().Timestamp().Logger(), nil
}

func fileLogger(f *os.File, level string) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return zerolog.New(f).Level(lvl).With().Timestamp().Logger(), nil
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Override the configured log level (debug, info, warn, error)")
	rootCmd.Flags().BoolVar(&headless, "headless", false, "Skip the TUI and stream change events to the log")

	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

package cmd

import (
	"fmt"
	"os"
	"strings"

	"driftwatch/tracker"
	"driftwatch/workspace"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"
)

var scanCmd = &cobra.Command{
	Use:   "scan [dir]",
	Short: "Show which files a watch would track",
	Long: `Runs the same ignore filter, extension allowlist, and size limits as a
real watch and prints what would be snapshotted, without starting a watcher.
Useful for answering "why isn't my file tracked".`,
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

		store := tracker.NewSnapshotStore()
		result := store.Scan(root, tracker.MaxScanDepth)

		tw := table.NewWriter()
		tw.SetOutputMirror(os.Stdout)
		tw.AppendHeader(table.Row{"PATH", "SIZE", "LINES"})
		for _, path := range store.Paths() {
			content, _ := store.Get(path)
			tw.AppendRow(table.Row{
				path,
				formatSize(len(content)),
				strings.Count(content, "\n") + 1,
			})
		}
		tw.SetColumnConfigs([]table.ColumnConfig{
			{Number: 1, Align: text.AlignLeft},
			{Number: 2, Align: text.AlignRight},
			{Number: 3, Align: text.AlignRight},
		})
		tw.SetStyle(table.StyleLight)
		tw.Render()

		fmt.Printf("\n%d files would be tracked (limit %d)\n", result.Captured, tracker.MaxTrackedFiles)
		for reason, count := range result.Skipped {
			fmt.Printf("skipped %d: %s\n", count, reason)
		}
		return nil
	},
}

func formatSize(n int) string {
	switch {
	case n < 1024:
		return fmt.Sprintf("%dB", n)
	case n < 1024*1024:
		return fmt.Sprintf("%.1fKB", float64(n)/1024)
	default:
		return fmt.Sprintf("%.1fMB", float64(n)/1024/1024)
	}
}

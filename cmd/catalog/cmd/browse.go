package cmd

import (
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mytheresa/go-catalog/tui"
	"github.com/mytheresa/go-catalog/view"
	"github.com/spf13/cobra"
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse and edit the catalog interactively",
	Args:  cobra.NoArgs,
	RunE:  runBrowse,
}

func init() {
	rootCmd.AddCommand(browseCmd)
}

func runBrowse(cmd *cobra.Command, _ []string) error {
	// The terminal belongs to the UI; logs go to LOG_FILE or nowhere.
	var sink io.Writer = io.Discard
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		defer f.Close()
		sink = f
	}
	logger := newLogger(sink)

	queue := &tui.NoticeQueue{}
	ctrl := newController(newClient(logger), queue, logger)
	images := view.NewImageCatalog(cfg.Images.Fallback, cfg.Images.Products)

	p := tea.NewProgram(tui.New(cmd.Context(), ctrl, queue, images), tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("browse: %w", err)
	}
	return nil
}

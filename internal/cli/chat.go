package cli

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/ppiankov/chatnow/internal/chat"
	"github.com/ppiankov/chatnow/internal/export"
	"github.com/ppiankov/chatnow/internal/result"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Open the interactive chat panel (default)",
	Long: `Open the interactive chat panel.

Keys:
  enter          send the draft (ignored while a reply is pending)
  alt+enter      insert a newline (ctrl+j also works)
  ctrl+s         export the last reply to --export
  pgup/pgdown    scroll the reply
  esc, ctrl+c    quit

Diagnostics go to --log-file; nothing is logged to the terminal while the
panel is open.`,
	Args: cobra.NoArgs,
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	s := LoadSettings(viper.GetViper())
	if err := s.Validate(); err != nil {
		return err
	}

	logger, err := newLogger(s.LogFile, s.Verbose, true)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	// Cancelling on return aborts any in-flight request and stops /metrics.
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	rec, err := startMetrics(ctx, s.MetricsAddr, logger)
	if err != nil {
		return err
	}

	ans, err := newAnswerer(ctx, s, rec)
	if err != nil {
		return err
	}

	model := chat.NewModel(chat.Options{
		Context:    ctx,
		Answerer:   ans,
		Logger:     logger,
		ModelName:  s.Model,
		Backend:    s.Backend,
		Export:     replyExporter(s.ExportPath),
		Hyperlinks: s.Hyperlinks,
	})

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running chat: %w", err)
	}
	return nil
}

// replyExporter writes timestamped exports next to path.
func replyExporter(path string) chat.ExportFunc {
	return func(r *result.Reply) (string, error) {
		return export.ToFile(r, path, export.ExportMetadata{
			GeneratedAt:    time.Now().UTC(),
			ChatnowVersion: version,
		})
	}
}

package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ppiankov/chatnow/internal/answer"
	"github.com/ppiankov/chatnow/internal/export"
	"github.com/ppiankov/chatnow/internal/render"
	"github.com/ppiankov/chatnow/internal/result"
	"github.com/ppiankov/chatnow/internal/util"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// AskConfig holds the flags of the ask command.
type AskConfig struct {
	Format     string
	OutputFile string
}

var askConfig AskConfig

var askCmd = &cobra.Command{
	Use:   "ask [message...]",
	Short: "Send one message and print the reply",
	Long: `Send one message and print the cleaned reply.

The message is the arguments joined by spaces, or stdin when no arguments
are given.

Examples:
  chatnow ask "list three uses of channels"
  cat question.txt | chatnow ask --format yaml
  chatnow ask "explain context.Context" --output reply.html`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAskCommand(cmd, args, &askConfig)
	},
}

func init() {
	rootCmd.AddCommand(askCmd)
	askCmd.Flags().StringVar(&askConfig.Format, "format", "human", "Output format: human|json|yaml")
	askCmd.Flags().StringVar(&askConfig.OutputFile, "output", "", "Save reply to file (format auto-detected: .json, .yaml, .md, .html, .txt)")
}

func runAskCommand(cmd *cobra.Command, args []string, config *AskConfig) error {
	if err := validateFormat(config.Format); err != nil {
		return err
	}

	s := LoadSettings(viper.GetViper())
	if err := s.Validate(); err != nil {
		return err
	}

	message, err := readMessage(args, cmd.InOrStdin())
	if err != nil {
		return err
	}

	logger, err := newLogger(s.LogFile, s.Verbose, false)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

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

	return runAsk(ctx, ans, message, askRun{
		AskConfig: *config,
		settings:  s,
		logger:    logger,
		stdout:    cmd.OutOrStdout(),
		stderr:    cmd.ErrOrStderr(),
	})
}

type askRun struct {
	AskConfig
	settings Settings
	logger   *zap.Logger
	stdout   io.Writer
	stderr   io.Writer
}

func runAsk(ctx context.Context, ans answer.Answerer, message string, run askRun) error {
	id := uuid.NewString()
	logger := run.logger.With(zap.String("request_id", id))

	logger.Debug("sending message", zap.String("backend", run.settings.Backend), zap.String("model", run.settings.Model))
	start := time.Now()
	reply, err := ans.GenerateAnswer(ctx, message)
	elapsed := time.Since(start)
	if err != nil {
		logger.Warn("answer request failed", zap.String("kind", answer.Kind(err)), zap.Error(err))
		return fmt.Errorf("answer request failed: %w", err)
	}
	logger.Debug("reply received", zap.Duration("elapsed", elapsed))

	r := result.NewReply(id, message, reply, run.settings.Model, run.settings.Backend, elapsed, time.Now())

	if run.OutputFile != "" {
		return exportToFile(r, run.OutputFile, run.stderr)
	}

	switch run.Format {
	case "json":
		out, err := result.PrettyJSON(r)
		if err != nil {
			return err
		}
		fmt.Fprintln(run.stdout, out)
	case "yaml":
		out, err := result.PrettyYAML(r)
		if err != nil {
			return err
		}
		fmt.Fprint(run.stdout, out)
	default:
		result.RenderReplyHuman(run.stdout, r, render.TerminalOptions{})
	}
	return nil
}

// exportToFile exports the reply to a file in the format its extension names
func exportToFile(r *result.Reply, outputPath string, stderr io.Writer) error {
	exporter := export.Exporter{
		Format: export.DetectFormat(outputPath),
		Metadata: export.ExportMetadata{
			GeneratedAt:    time.Now().UTC(),
			ChatnowVersion: version,
		},
	}

	var buf bytes.Buffer
	if err := exporter.Export(r, &buf); err != nil {
		return fmt.Errorf("failed to export: %w", err)
	}
	if err := os.WriteFile(outputPath, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}

	fmt.Fprintf(stderr, "[chatnow] Reply saved to: %s\n", outputPath)
	return nil
}

// readMessage joins args, or reads stdin when there are none. One trailing
// newline from stdin is dropped; everything else is sent as typed.
func readMessage(args []string, stdin io.Reader) (string, error) {
	var message string
	if len(args) > 0 {
		message = strings.Join(args, " ")
	} else {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		message = strings.TrimSuffix(strings.TrimSuffix(string(data), "\n"), "\r")
	}

	if strings.TrimSpace(message) == "" {
		return "", util.InvalidInput(errors.New("message is empty"))
	}
	return message, nil
}

func validateFormat(format string) error {
	switch format {
	case "human", "json", "yaml":
		return nil
	}
	return util.InvalidInput(fmt.Errorf("--format must be 'human', 'json' or 'yaml', got %q", format))
}

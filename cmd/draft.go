// This file implements the draft command: one-shot or interactive manuscript
// drafting sessions.
package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/hyper-light/quill/agents/coordinator"
	"github.com/hyper-light/quill/agents/retraction"
	"github.com/hyper-light/quill/core/config"
	qerrors "github.com/hyper-light/quill/core/errors"
	"github.com/hyper-light/quill/core/events"
	"github.com/hyper-light/quill/core/flow"
	"github.com/hyper-light/quill/core/providers"
	"github.com/hyper-light/quill/core/runner"
	"github.com/hyper-light/quill/core/state"
	"github.com/hyper-light/quill/core/tools"
)

// =============================================================================
// Draft Command Flags
// =============================================================================

var (
	draftConfigPath  string
	draftInteractive bool
	draftShowEvents  bool
	draftOutputPath  string
)

// =============================================================================
// Draft Command
// =============================================================================

var draftCmd = &cobra.Command{
	Use:   "draft [request]",
	Short: "Draft a manuscript from a request",
	Long: `Draft a manuscript from a free-form request, or start an
interactive session where each turn refines the running draft.

Examples:
  quill draft "write a paper about adaptive load shedding"
  quill draft --interactive
  quill draft "@repo https://github.com/example/tool write a paper about it"`,
	RunE: runDraft,
}

func init() {
	draftCmd.Flags().StringVarP(&draftConfigPath, "config", "c", "", "path to the config file")
	draftCmd.Flags().BoolVarP(&draftInteractive, "interactive", "i", false, "start an interactive session")
	draftCmd.Flags().BoolVar(&draftShowEvents, "events", false, "print run events as JSON lines on stderr")
	draftCmd.Flags().StringVarP(&draftOutputPath, "output", "o", "", "write the final manuscript to a file")

	rootCmd.AddCommand(draftCmd)
}

func runDraft(cmd *cobra.Command, args []string) error {
	if !draftInteractive && len(args) == 0 {
		return fmt.Errorf("provide a request or use --interactive")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	run, err := buildRunner(ctx, draftConfigPath)
	if err != nil {
		return err
	}

	if !draftInteractive {
		return draftOnce(ctx, run, strings.Join(args, " "))
	}

	return draftSession(ctx, run)
}

func draftOnce(ctx context.Context, run *runner.Runner, request string) error {
	result, err := run.Run(ctx, flow.Input{Text: request}, nil)
	if err != nil {
		return renderError(err)
	}

	fmt.Println(result.Output)

	return writeOutput(result.Output)
}

func draftSession(ctx context.Context, run *runner.Runner) error {
	fmt.Println("Interactive drafting session. Empty line to exit.")

	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var (
		seed           map[state.Key]any
		lastManuscript string
	)

	for {
		fmt.Print("> ")

		if !scanner.Scan() {
			break
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			break
		}

		input := flow.Input{Text: line}

		if rest, ok := strings.CutPrefix(line, "/figure "); ok {
			fields := strings.Fields(rest)
			if len(fields) == 0 {
				fmt.Fprintln(os.Stderr, "usage: /figure <image> [caption]")
				continue
			}

			mime, data, err := loadImage(fields[0])
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				continue
			}

			input = flow.Input{
				Text:      strings.Join(fields[1:], " "),
				ImageMIME: mime,
				ImageData: data,
			}
		}

		result, err := run.Run(ctx, input, seed)
		if err != nil {
			fmt.Fprintln(os.Stderr, renderError(err))
			if ctx.Err() != nil {
				return ctx.Err()
			}
			continue
		}

		// Carry the session state into the next turn.
		seed = result.State.Snapshot()
		lastManuscript = result.State.GetString(state.KeyFullManuscript)

		fmt.Println(result.Output)
	}

	return writeOutput(lastManuscript)
}

// =============================================================================
// Shared Setup
// =============================================================================

// buildRunner assembles the coordinator tree and its services from config.
func buildRunner(ctx context.Context, configPath string) (*runner.Runner, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, renderError(err)
	}

	model, err := providers.New(cfg.Provider)
	if err != nil {
		return nil, renderError(err)
	}

	var embedder providers.Embedder
	if cfg.Provider.Name == providers.ProviderNameOpenAI || cfg.Provider.BaseURL != "" {
		embedder, err = providers.NewOpenAIEmbedder(cfg.Provider)
		if err != nil {
			return nil, renderError(err)
		}
	}

	store, err := retraction.NewStore(embedder)
	if err != nil {
		return nil, err
	}

	if dir := cfg.Workflow.RetractionIndexPath; dir != "" {
		notices, err := retraction.LoadDir(dir)
		if err != nil {
			return nil, fmt.Errorf("load retraction dataset: %w", err)
		}
		if err := store.Add(ctx, notices...); err != nil {
			return nil, fmt.Errorf("index retraction dataset: %w", err)
		}
	}

	httpClient := &http.Client{Timeout: 30 * time.Second}
	searcher := tools.NewLiteratureSearcher(httpClient, cfg.Workflow.SearchLimit)

	root := coordinator.New(coordinator.Deps{
		Model:      model,
		Config:     cfg,
		Searcher:   searcher,
		Store:      store,
		HTTPClient: httpClient,
	})

	opts := []runner.Option{
		runner.WithLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelWarn,
		}))),
	}

	if draftShowEvents {
		opts = append(opts, runner.WithEventSink(printEvent))
	}

	return runner.New(root, opts...), nil
}

func printEvent(ev *events.Event) {
	line, err := json.Marshal(ev)
	if err != nil {
		return
	}
	fmt.Fprintln(os.Stderr, string(line))
}

// renderError folds the error's category suggestion into the message shown
// to the author.
func renderError(err error) error {
	if err == nil {
		return nil
	}

	category := qerrors.CategoryOf(err)

	return fmt.Errorf("%w\n%s", err, category.Suggestion())
}

func writeOutput(manuscript string) error {
	if draftOutputPath == "" || manuscript == "" {
		return nil
	}

	return os.WriteFile(draftOutputPath, []byte(manuscript+"\n"), 0o644)
}

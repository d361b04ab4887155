// Package main provides the research CLI that drives an external agent to
// close high-priority documentation gaps.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/bull/panopticon/internal/analyzer"
	"github.com/bull/panopticon/internal/catalog"
	"github.com/bull/panopticon/internal/config"
	"github.com/bull/panopticon/internal/corpus"
	"github.com/bull/panopticon/internal/extract"
	"github.com/bull/panopticon/internal/gaps"
	"github.com/bull/panopticon/internal/markdown"
	"github.com/bull/panopticon/internal/report"
	"github.com/bull/panopticon/internal/research"
)

type options struct {
	maxIterations int
	timeout       time.Duration
	runner        string
	source        string
	tasksFile     string
	noRescan      bool
}

func newRootCmd(out io.Writer) *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "research",
		Short: "Research high-priority documentation gaps with an autonomous agent",
		Long: `Runs the autonomous research loop. Each iteration takes the first
high-priority gap, asks the research agent to document it, checks that the
topic now appears in the target document, and re-analyzes the repository.
The loop stops when no gaps remain or --max-iterations is reached.

Runners:
  command  Spawn RESEARCH_AGENT_COMMAND with RESEARCH_AGENT_ARGS and the prompt
  openai   Send the prompt to OPENAI_MODEL (requires OPENAI_API_KEY)

Sources:
  catalog  Blocking and high priority gaps from the catalog (default)
  tasks    The "High Priority" section of research-tasks.md`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), cmd, out, opts)
		},
	}
	cmd.SetOut(out)

	flags := cmd.Flags()
	flags.IntVar(&opts.maxIterations, "max-iterations", 0, "Maximum research iterations (default: RESEARCH_MAX_ITERATIONS or 10)")
	flags.DurationVar(&opts.timeout, "timeout", 0, "Timeout per gap (default: RESEARCH_TIMEOUT or 10m)")
	flags.StringVar(&opts.runner, "runner", "command", "Research runner: command or openai")
	flags.StringVar(&opts.source, "source", "catalog", "Gap source: catalog or tasks")
	flags.StringVar(&opts.tasksFile, "tasks-file", "", "Path of research-tasks.md (default: RESEARCH_TASKS_FILE)")
	flags.BoolVar(&opts.noRescan, "no-rescan", false, "Do not re-analyze the repository between iterations")

	return cmd
}

func main() {
	// Load .env file if present (local development), ignore if missing
	_ = godotenv.Load()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	if err := newRootCmd(os.Stdout).ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cmd *cobra.Command, out io.Writer, opts *options) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	applyFlags(cmd, cfg, opts)

	logger := cfg.NewLogger()
	palette := report.NewTerminalPalette(cfg.NoColor)
	store := catalog.NewStore(cfg.CatalogDir)

	runner, err := newRunner(opts.runner, cfg, logger)
	if err != nil {
		return err
	}

	var source research.Source
	switch opts.source {
	case "catalog":
		source = research.NewCatalogSource(store)
	case "tasks":
		source = research.NewTaskFileSource(cfg.Research.TasksFile)
	default:
		return fmt.Errorf("unknown gap source %q", opts.source)
	}

	var rescanner research.Rescanner
	if !opts.noRescan {
		// Rescans run quietly; the loop prints its own progress.
		rescanner = analyzer.NewPipeline(
			corpus.NewLoader(cfg.Root),
			extract.NewExtractor(nil),
			gaps.NewDetector(),
			markdown.NewOutliner(),
			store,
			logger,
			io.Discard,
			palette,
		)
	}

	loop, err := research.NewLoop(research.LoopConfig{
		Root:          cfg.Root,
		MaxIterations: cfg.Research.MaxIterations,
		Timeout:       cfg.Research.Timeout,
	}, source, runner, rescanner, logger, out, palette)
	if err != nil {
		return err
	}

	_, err = loop.Run(ctx)
	return err
}

// applyFlags lets explicitly set flags override the environment.
func applyFlags(cmd *cobra.Command, cfg *config.Config, opts *options) {
	flags := cmd.Flags()
	if flags.Changed("max-iterations") {
		cfg.Research.MaxIterations = opts.maxIterations
	}
	if flags.Changed("timeout") {
		cfg.Research.Timeout = opts.timeout
	}
	if flags.Changed("tasks-file") {
		cfg.Research.TasksFile = opts.tasksFile
	}
}

func newRunner(name string, cfg *config.Config, logger *slog.Logger) (research.Runner, error) {
	switch name {
	case "command":
		return research.NewCommandRunner(cfg.Research.AgentCommand, cfg.Research.AgentArgs, cfg.Root), nil
	case "openai":
		return research.NewOpenAIRunner(cfg.OpenAI.APIKey, cfg.OpenAI.Model, logger)
	default:
		return nil, fmt.Errorf("%w: %q", research.ErrUnknownRunner, name)
	}
}

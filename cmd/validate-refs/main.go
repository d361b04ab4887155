// Package main provides the validate-refs CLI that checks file references in
// markdown documents.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/bull/panopticon/internal/config"
	ghclient "github.com/bull/panopticon/internal/github"
	"github.com/bull/panopticon/internal/report"
	"github.com/bull/panopticon/internal/xref"
)

// errBrokenRefs signals a completed run that found broken references.
var errBrokenRefs = errors.New("broken references found")

func newRootCmd(out io.Writer) *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "validate-refs [root]",
		Short: "Check that markdown file references point at existing files",
		Long: `Walks every markdown file under root (default: current directory) and checks
backtick references (` + "`name.md`" + `) and relative links ([text](path.md)).

References are resolved next to the referencing file, then from the working
directory, then under each content root. Template placeholders and pointers
into other repositories are skipped unless --strict is given.

Environment variables:
  XREF_GITHUB_REPO    owner/name of the server repository; when set,
                      references starting with XREF_GITHUB_PREFIX are
                      verified on GitHub instead of skipped
  XREF_GITHUB_REF     Branch, tag or commit to check (default: default branch)
  XREF_GITHUB_PREFIX  Reference prefix of that repository (default: server/)
  GITHUB_TOKEN        GitHub token for higher rate limits (optional)`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			root := "."
			if len(args) == 1 {
				root = args[0]
			}
			return run(cmd.Context(), out, root, strict)
		},
	}
	cmd.SetOut(out)
	cmd.Flags().BoolVar(&strict, "strict", false, "Check template and external references too")

	return cmd
}

func main() {
	// Load .env file if present (local development), ignore if missing
	_ = godotenv.Load()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	if err := newRootCmd(os.Stdout).ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errBrokenRefs) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, out io.Writer, root string, strict bool) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := cfg.NewLogger()
	palette := report.NewTerminalPalette(cfg.NoColor)

	workDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}

	opts := xref.Options{
		WorkDir: workDir,
		Strict:  strict,
		Logger:  logger,
	}
	if cfg.GitHub.Enabled() && !strict {
		client, err := ghclient.NewClient(cfg.GitHub.Token)
		if err != nil {
			return fmt.Errorf("create GitHub client: %w", err)
		}
		opts.Remote = ghclient.NewPathChecker(client, cfg.GitHub.Owner, cfg.GitHub.Repo, cfg.GitHub.Ref, cfg.GitHub.Prefix)
		logger.Info("Verifying external references on GitHub", "repo", cfg.GitHub.Owner+"/"+cfg.GitHub.Repo)
	}

	validator, err := xref.NewValidator(opts)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "🔍 Validating cross-references in: %s\n\n", root)

	result, err := validator.Validate(ctx, root)
	if err != nil {
		return err
	}

	report.CrossRefs(out, palette, result)
	if !result.OK() {
		return errBrokenRefs
	}
	return nil
}

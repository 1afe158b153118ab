package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/octobees/outreach-drafter/internal/app"
	"github.com/octobees/outreach-drafter/internal/config"
	"github.com/octobees/outreach-drafter/internal/draft"
	"github.com/octobees/outreach-drafter/internal/logging"
	"github.com/octobees/outreach-drafter/internal/metrics"
	"github.com/octobees/outreach-drafter/internal/pipeline"
	"github.com/octobees/outreach-drafter/internal/service"
)

const (
	exitOK    = 0
	exitError = 1
	exitSetup = 2
)

// runner carries what both subcommands share once config is loaded.
type runner struct {
	cfg     *config.Config
	logger  *zap.Logger
	svc     *service.OutreachService
	cleanup func()
}

// loader builds a runner; tests replace it.
var loader = func(ctx context.Context) (*runner, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger := logging.New(cfg.LogLevel, cfg.LogFile)
	metrics.Init()

	svc, cleanup, err := app.NewOutreachService(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	return &runner{cfg: cfg, logger: logger, svc: svc, cleanup: cleanup}, nil
}

func execute(args []string) int {
	root := newRootCmd(os.Stdout)
	root.SetArgs(args)
	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		return exitCode(err)
	}
	return exitOK
}

func exitCode(err error) int {
	var setup *pipeline.SetupError
	if errors.As(err, &setup) {
		return exitSetup
	}
	return exitError
}

func newRootCmd(out io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:           "outreach",
		Short:         "Enrich contacts and draft outreach emails into a CSV file",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(out)
	root.AddCommand(newSearchCmd(), newConvertCmd())
	return root
}

func newSearchCmd() *cobra.Command {
	var filterPath, output, instructions string

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search people, enrich each match and draft emails",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := loader(cmd.Context())
			if err != nil {
				return err
			}
			defer r.cleanup()

			filter := r.cfg.SearchFilter
			if filterPath != "" {
				if filter, err = config.LoadSearchFilter(filterPath, filter); err != nil {
					return &pipeline.SetupError{Kind: pipeline.KindInvalidInput, Message: "invalid search filter", Err: err}
				}
			}

			if output == "" {
				output = r.cfg.CSVFilename
			}
			dest, err := r.svc.OpenDestination(output)
			if err != nil {
				return err
			}

			refs, err := r.svc.Search(cmd.Context(), filter)
			if err != nil {
				var setup *pipeline.SetupError
				if !errors.As(err, &setup) {
					err = &pipeline.SetupError{Kind: pipeline.KindSearchFailed, Message: "people search failed", Err: err}
				}
				return err
			}

			return r.run(cmd, refs, draft.SchemaSubjectBody, instructions, dest)
		},
	}

	cmd.Flags().StringVar(&filterPath, "filter", "", "YAML file with people-search filters")
	cmd.Flags().StringVarP(&output, "output", "o", "", "destination CSV file (defaults to CSV_FILENAME)")
	cmd.Flags().StringVar(&instructions, "instructions", "", "extra drafting instructions")
	return cmd
}

func newConvertCmd() *cobra.Command {
	var input, output, instructions string

	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Draft emails for every row of an exported contacts CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			file, err := os.Open(input)
			if err != nil {
				return &pipeline.SetupError{Kind: pipeline.KindInvalidInput, Message: "cannot open input", Err: err}
			}
			defer file.Close()

			r, err := loader(cmd.Context())
			if err != nil {
				return err
			}
			defer r.cleanup()

			refs, err := r.svc.LoadCSV(file)
			if err != nil {
				return err
			}
			dest, err := r.svc.OpenDestination(output)
			if err != nil {
				return err
			}

			return r.run(cmd, refs, draft.SchemaMailFields, instructions, dest)
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "contacts CSV exported from the people-search service")
	cmd.Flags().StringVarP(&output, "output", "o", "processed_results.csv", "destination CSV file")
	cmd.Flags().StringVar(&instructions, "instructions", "", "extra drafting instructions")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}

type destination interface {
	pipeline.Sink
	Path() string
}

func (r *runner) run(cmd *cobra.Command, refs []pipeline.ContactRef, schema draft.Schema, instructions string, dest destination) error {
	defer func() { _ = r.logger.Sync() }()

	opts := pipeline.Options{
		Schema:          schema,
		Preamble:        r.cfg.Draft.Preamble,
		Instructions:    instructions,
		CompanyOverview: r.cfg.Draft.CompanyOverview,
		Sender:          r.cfg.Draft.Sender,
	}

	result := r.svc.Run(cmd.Context(), refs, opts, dest, nil)
	s := result.Summary
	fmt.Fprintf(cmd.OutOrStdout(), "run %s: %d/%d processed, %d skipped, %d drafted -> %s\n",
		result.ID, s.Processed, s.Total, s.Skipped, s.Drafted, dest.Path())
	return nil
}

package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/backlinkoo/transform-pages/internal/index"
	"github.com/backlinkoo/transform-pages/internal/pipeline"
	"github.com/backlinkoo/transform-pages/internal/report"
)

func newAuditCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "audit [directory]",
		Short: "Check every page without writing anything",
		Long: `Extracts every page exactly as a transform would, but never writes.
Each page is also analyzed for empty media blocks, images without alt text
and missing headings.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				a.cfg.Dir = args[0]
			}
			return a.runTransform(cmd.Context(), true)
		},
	}
}

func newPageCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "page <file.tsx>",
		Short: "Transform a single page file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := pipeline.ParsePagePath(args[0])
			if err != nil {
				return err
			}
			printer := report.NewPrinter(a.stdout, true)
			runner, err := a.newRunner(nil)
			if err != nil {
				return err
			}
			res := runner.ProcessFile(cmd.Context(), ref)
			if runner.Indexer != nil {
				if err := runner.Indexer.Close(); err != nil {
					return fmt.Errorf("close index: %w", err)
				}
			}
			printer.FileDone(res, 1, 1)
			if res.Failed() {
				return fmt.Errorf("%s: %s", res.File, res.Reason)
			}
			return nil
		},
	}
}

func newSearchCmd(a *app) *cobra.Command {
	var language string
	var limit int
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search the page index written with --index",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.cfg.Index == "" {
				return errors.New("search needs --index pointing at a page index")
			}
			s, err := index.NewSQLiteSearcher(a.cfg.Index)
			if err != nil {
				return err
			}
			defer func() { _ = s.Close() }()

			resp, err := s.Search(cmd.Context(), strings.Join(args, " "), language, limit, 0)
			if err != nil {
				return err
			}
			for _, r := range resp.Results {
				fmt.Fprintf(a.stdout, "%s\t%s\n", r.Slug, r.Title)
			}
			fmt.Fprintf(a.stdout, "%d result(s)\n", resp.Total)
			return nil
		},
	}
	cmd.Flags().StringVar(&language, "language", "", "Only pages in this ISO 639-3 language (e.g. eng)")
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum results to print")
	return cmd
}

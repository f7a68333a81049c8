package main

import (
	"context"
	"fmt"

	"github.com/backlinkoo/transform-pages/internal/index"
	"github.com/backlinkoo/transform-pages/internal/metrics"
	"github.com/backlinkoo/transform-pages/internal/pipeline"
	"github.com/backlinkoo/transform-pages/internal/report"
	"github.com/backlinkoo/transform-pages/internal/sitemap"
	"github.com/backlinkoo/transform-pages/internal/storage"
	"github.com/backlinkoo/transform-pages/internal/transform"
)

// newRunner wires a pipeline.Runner from the loaded configuration.
func (a *app) newRunner(printer *report.Printer) (*pipeline.Runner, error) {
	cfg := a.cfg

	var manifest transform.Manifest
	if cfg.MediaManifest != "" {
		m, err := transform.LoadManifest(cfg.MediaManifest)
		if err != nil {
			return nil, err
		}
		manifest = m
	}

	var indexer index.Indexer
	if cfg.Index != "" && !cfg.DryRun {
		idx, err := index.NewSQLiteIndexer(cfg.Index)
		if err != nil {
			return nil, err
		}
		indexer = idx
	}

	var sitemapGen *sitemap.SitemapGenerator
	if cfg.Sitemap != "" {
		sitemapGen = &sitemap.SitemapGenerator{
			Path:    cfg.Sitemap,
			SiteURL: cfg.SiteBaseURL(),
			Logger:  a.logger,
		}
	}

	var collector *metrics.Collector
	if cfg.MetricsFile != "" {
		collector = metrics.New()
	}

	r := &pipeline.Runner{
		Storage:          storage.NewFSStorage(cfg.CacheDir, cfg.DryRun),
		Indexer:          indexer,
		SitemapGenerator: sitemapGen,
		Metrics:          collector,
		Logger:           a.logger,
		Manifest:         manifest,
		FillMedia:        cfg.FillMedia,
		Backup:           cfg.Backup,
		ForceProcess:     cfg.Force,
		Jobs:             cfg.Jobs,
		FileTimeout:      cfg.FileTimeout,
		MinContentLength: cfg.MinContentLength,
		ShortContent:     transform.ShortContentPolicy(cfg.ShortContent),
		FailuresPath:     report.FailuresPath(cfg.Report),
	}
	if printer != nil {
		r.Progress = printer.FileDone
	}
	return r, nil
}

// runTransform processes the configured directory and writes every
// requested output. audit turns on page analysis and forces a dry run.
func (a *app) runTransform(ctx context.Context, audit bool) error {
	if audit {
		a.cfg.DryRun = true
	}
	printer := report.NewPrinter(a.stdout, a.cfg.LogLevel == "debug")
	runner, err := a.newRunner(printer)
	if err != nil {
		return err
	}
	runner.Audit = audit

	a.logger.Info("transforming pages", "dir", a.cfg.Dir, "dry_run", a.cfg.DryRun, "jobs", a.cfg.Jobs)
	summary, err := runner.Run(ctx, a.cfg.Dir)
	if err != nil {
		return err
	}
	printer.Summary(summary)

	if a.cfg.Report != "" {
		if err := report.Write(a.cfg.Report, summary); err != nil {
			return err
		}
		a.logger.Info("report written", "path", a.cfg.Report)
	}
	if runner.Metrics != nil {
		if err := runner.Metrics.WriteTextfile(a.cfg.MetricsFile); err != nil {
			return err
		}
	}

	if !summary.OK() {
		return fmt.Errorf("%d of %d files failed", summary.Stats.Failed, summary.Stats.Total)
	}
	return nil
}

package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/backlinkoo/transform-pages/internal/index"
	"github.com/backlinkoo/transform-pages/internal/inspect"
	"github.com/backlinkoo/transform-pages/internal/metrics"
	"github.com/backlinkoo/transform-pages/internal/sitemap"
	"github.com/backlinkoo/transform-pages/internal/storage"
	"github.com/backlinkoo/transform-pages/internal/transform"
)

// ProgressFunc is called after each file with the number of files done.
type ProgressFunc func(res FileResult, done, total int)

type Runner struct {
	Storage          *storage.FSStorage
	Indexer          index.Indexer
	SitemapGenerator *sitemap.SitemapGenerator
	Metrics          *metrics.Collector
	Progress         ProgressFunc
	Logger           *slog.Logger

	// Manifest supplies images and videos when FillMedia is set.
	Manifest     transform.Manifest
	FillMedia    bool
	Backup       bool
	ForceProcess bool
	// Audit attaches an HTML analysis to every extracted page.
	Audit            bool
	Jobs             int
	FileTimeout      time.Duration
	MinContentLength int
	ShortContent     transform.ShortContentPolicy
	FailuresPath     string

	mu   sync.Mutex
	done int
}

// Run discovers the pages in dir and processes each of them. Only a
// discovery failure is returned as an error; per-file failures are
// recorded in the summary.
func (r *Runner) Run(ctx context.Context, dir string) (*Summary, error) {
	if r.Storage == nil {
		return nil, errors.New("pipeline runner missing storage")
	}
	start := time.Now()

	refs, err := Discover(dir)
	if err != nil {
		return nil, err
	}
	r.logInfo("discovered pages", "dir", dir, "count", len(refs))

	// Create the failure log up front so users can tail it during processing.
	if r.FailuresPath != "" {
		_ = os.MkdirAll(filepath.Dir(r.FailuresPath), 0o755)
		_ = os.WriteFile(r.FailuresPath, nil, 0o644)
	}

	summary := &Summary{Dir: dir, DryRun: r.Storage.DryRun}
	summary.Results = r.processAll(ctx, refs)

	if r.Indexer != nil {
		if err := r.Indexer.Close(); err != nil {
			r.logError("close page index failed", "error", err)
		}
	}

	if r.SitemapGenerator != nil && !r.Storage.DryRun {
		if err := r.SitemapGenerator.Generate(ctx, sitemapPages(refs, summary.Results)); err != nil {
			r.logError("sitemap generation failed", "error", err)
			// Non-fatal: the pages themselves are already written.
		}
	}

	elapsed := time.Since(start)
	summary.tally(elapsed)
	r.Metrics.ObserveRun(elapsed)

	if summary.Stats.Failed > 0 {
		r.logWarn("run completed with failures", "count", summary.Stats.Failed)
	}
	return summary, nil
}

func (r *Runner) processAll(ctx context.Context, refs []PageRef) []FileResult {
	results := make([]FileResult, len(refs))
	r.mu.Lock()
	r.done = 0
	r.mu.Unlock()

	jobs := r.Jobs
	if jobs < 1 {
		jobs = 1
	}
	if jobs == 1 {
		for i, ref := range refs {
			results[i] = r.ProcessFile(ctx, ref)
			r.finish(results[i], len(refs))
		}
		return results
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i, ref := range refs {
		g.Go(func() error {
			results[i] = r.ProcessFile(gCtx, ref)
			r.finish(results[i], len(refs))
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func (r *Runner) finish(res FileResult, total int) {
	r.Metrics.ObserveFile(string(res.Status), res.Stage, res.MediaFilled, res.Duration)

	r.mu.Lock()
	r.done++
	done := r.done
	if res.Failed() {
		r.appendFailure(res)
	}
	if r.Progress != nil {
		r.Progress(res, done, total)
	}
	r.mu.Unlock()
}

// ProcessFile runs one page through extraction, synthesis and write.
// It never returns an error: every failure is folded into the result.
func (r *Runner) ProcessFile(ctx context.Context, ref PageRef) (res FileResult) {
	start := time.Now()
	res = FileResult{File: ref.Name, Slug: ref.Slug}
	defer func() { res.Duration = time.Since(start) }()

	if r.FileTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.FileTimeout)
		defer cancel()
	}

	r.logDebug("processing", "file", ref.Name)

	content, perm, err := r.Storage.ReadPage(ref.Path)
	if err != nil {
		return r.fail(res, StageRead, err)
	}

	if !r.ForceProcess && r.Storage.CheckCache(ref.Slug, content) {
		r.logDebug("skipping unchanged page", "file", ref.Name)
		res.Status = StatusSkipped
		return res
	}

	if err := ctx.Err(); err != nil {
		return r.fail(res, StageExtract, err)
	}

	page, out, err := transform.Pipeline(ref.Slug, string(content), r.options(ref.Slug))
	res.Recognizer = page.Recognizer
	res.Title = page.Title
	res.Placeholder = page.Placeholder
	res.MediaFilled = page.MediaFilled
	res.VideoAdded = page.VideoAdded
	if err != nil {
		var ee *transform.ExtractionError
		if errors.As(err, &ee) {
			return r.fail(res, StageExtract, ee)
		}
		var se *transform.SynthesisError
		if errors.As(err, &se) {
			return r.fail(res, StageSynthesize, se)
		}
		return r.fail(res, StageSynthesize, err)
	}

	var analysis inspect.Analysis
	if r.Audit || r.Indexer != nil {
		if analysis, err = inspect.Analyze(page.HTMLBody); err != nil {
			r.logWarn("analyze page failed", "file", ref.Name, "error", err)
		} else if r.Audit {
			res.Audit = &analysis
		}
	}

	if err := ctx.Err(); err != nil {
		return r.fail(res, StageWrite, err)
	}

	if bytes.Equal(out, content) {
		res.Status = StatusUnchanged
	} else {
		if err := r.writePage(ctx, ref, out, perm, &res); err != nil {
			return r.fail(res, StageWrite, err)
		}
		res.Status = StatusTransformed
	}

	if err := r.Storage.WriteCache(ctx, ref.Slug, out); err != nil {
		r.logWarn("write cache failed", "file", ref.Name, "error", err)
	}

	if r.Indexer != nil {
		doc := index.NewDocument(ref.Slug, ref.Path, page.Title, page.Subtitle, transform.Keywords(ref.Slug), analysis)
		if err := r.Indexer.IndexPage(ctx, doc); err != nil {
			// The page is already rewritten; the index is a side output.
			r.logWarn("index page failed", "stage", StageIndex, "file", ref.Name, "error", err)
		}
	}
	return res
}

func (r *Runner) writePage(ctx context.Context, ref PageRef, out []byte, perm os.FileMode, res *FileResult) error {
	if r.Backup {
		bak, err := r.Storage.Backup(ref.Path)
		if err != nil {
			return &WriteError{Err: fmt.Errorf("backup %s: %w", ref.Name, err)}
		}
		res.Backup = bak
	}
	if err := r.Storage.WritePage(ctx, ref.Path, out, perm); err != nil {
		return &WriteError{Err: fmt.Errorf("write %s: %w", ref.Name, err)}
	}
	return nil
}

func (r *Runner) options(slug string) transform.Options {
	opts := transform.Options{
		MinContentLength: r.MinContentLength,
		ShortContent:     r.ShortContent,
	}
	if r.FillMedia {
		opts.Media = r.Manifest.Cursor(slug)
		opts.Video = r.Manifest.Video(slug)
	}
	return opts
}

func (r *Runner) fail(res FileResult, stage string, err error) FileResult {
	res.Status = StatusFailed
	res.Stage = stage
	res.Reason = failureReason(err)
	r.logWarn("pipeline failure", "stage", stage, "file", res.File, "error", err)
	return res
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "canceled"
	}
	var ee *transform.ExtractionError
	if errors.As(err, &ee) {
		return ee.Reason
	}
	var se *transform.SynthesisError
	if errors.As(err, &se) {
		return se.Error()
	}
	return err.Error()
}

// appendFailure must be called with r.mu held.
func (r *Runner) appendFailure(res FileResult) {
	if r.FailuresPath == "" {
		return
	}
	message := strings.TrimSpace(fmt.Sprintf("%s %s: %s", res.Stage, res.File, res.Reason))
	f, err := os.OpenFile(r.FailuresPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return
	}
	_, _ = fmt.Fprintln(f, message)
	_ = f.Close()
}

func sitemapPages(refs []PageRef, results []FileResult) []sitemap.Page {
	var pages []sitemap.Page
	for i, res := range results {
		if res.Failed() {
			continue
		}
		p := sitemap.Page{Slug: res.Slug}
		if info, err := os.Stat(refs[i].Path); err == nil {
			p.ModTime = info.ModTime()
		}
		pages = append(pages, p)
	}
	return pages
}

func (r *Runner) logDebug(msg string, args ...any) {
	if r.Logger != nil {
		r.Logger.Debug(msg, args...)
	}
}

func (r *Runner) logInfo(msg string, args ...any) {
	if r.Logger != nil {
		r.Logger.Info(msg, args...)
	}
}

func (r *Runner) logWarn(msg string, args ...any) {
	if r.Logger != nil {
		r.Logger.Warn(msg, args...)
	}
}

func (r *Runner) logError(msg string, args ...any) {
	if r.Logger != nil {
		r.Logger.Error(msg, args...)
	}
}

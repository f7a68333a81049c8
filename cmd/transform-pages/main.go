package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/backlinkoo/transform-pages/internal/config"
	"github.com/backlinkoo/transform-pages/internal/logging"
)

// app carries state shared by all subcommands once configuration is loaded.
type app struct {
	v         *viper.Viper
	cfg       *config.Config
	logger    *slog.Logger
	logCloser io.Closer
	stdout    io.Writer
}

func main() {
	a := &app{v: viper.New(), stdout: os.Stdout}
	root := newRootCmd(a)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := root.ExecuteContext(ctx)
	stop()
	if a.logCloser != nil {
		_ = a.logCloser.Close()
	}
	if err != nil {
		if a.logger != nil {
			a.logger.Error("transform-pages failed", "error", err)
		} else {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		os.Exit(1)
	}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "transform-pages [directory]",
		Short: "Rewrite generated landing pages into GenericPageTemplate components",
		Long: `Scans a directory of generated .tsx landing pages, extracts each page's
embedded article HTML with its title and subtitle, and rewrites the file as a
canonical GenericPageTemplate component.

The directory defaults to src/pages. Files that cannot be parsed are left
untouched and reported; the exit status is non-zero when any file failed.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			path, _ := cmd.Flags().GetString("config")
			return a.init(path)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				a.cfg.Dir = args[0]
			}
			return a.runTransform(cmd.Context(), false)
		},
	}

	pf := root.PersistentFlags()
	pf.String("config", config.DefaultPath(), "Path to a YAML config file")
	pf.String("log-level", "info", "Log level (debug, info, warn, error)")
	pf.String("log-file", "", "Also write JSON logs to this rotating file")
	pf.Bool("dry-run", false, "Compute and report outcomes without writing pages")
	pf.Bool("backup", false, "Keep a .bak copy of each page before its first rewrite")
	pf.Bool("force", false, "Process pages even when the cache says they are current")
	pf.Bool("fill-media", false, "Fill empty media blocks and add page videos")
	pf.String("media-manifest", "", "YAML file mapping page slugs to images and videos")
	pf.IntP("jobs", "j", 1, "Number of pages processed in parallel")
	pf.Duration("file-timeout", 0, "Give up on a single page after this long (0 disables)")
	pf.Int("min-content-length", 50, "Bodies shorter than this many characters count as near-empty")
	pf.String("short-content", "placeholder", "Near-empty bodies: placeholder or fail")
	pf.String("report", "", "Write a JSON (or .yaml) run report to this path")
	pf.String("index", "", "Write a SQLite full-text index of pages to this path")
	pf.String("sitemap", "", "Write a sitemap of processed pages to this path")
	pf.String("site-url", "", "Base URL used for sitemap entries")
	pf.String("metrics-file", "", "Write Prometheus textfile metrics to this path")
	pf.String("cache-dir", "", "Remember page digests here and skip unchanged pages")

	for key, flag := range map[string]string{
		"log_level":          "log-level",
		"log_file":           "log-file",
		"dry_run":            "dry-run",
		"backup":             "backup",
		"force":              "force",
		"fill_media":         "fill-media",
		"media_manifest":     "media-manifest",
		"jobs":               "jobs",
		"file_timeout":       "file-timeout",
		"min_content_length": "min-content-length",
		"short_content":      "short-content",
		"report":             "report",
		"index":              "index",
		"sitemap":            "sitemap",
		"site_url":           "site-url",
		"metrics_file":       "metrics-file",
		"cache_dir":          "cache-dir",
	} {
		_ = a.v.BindPFlag(key, pf.Lookup(flag))
	}

	root.AddCommand(newAuditCmd(a), newPageCmd(a), newSearchCmd(a))
	return root
}

func (a *app) init(path string) error {
	cfg, err := config.Load(a.v, path)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	a.cfg = cfg

	if cfg.LogFile != "" {
		logger, closer, err := logging.BuildFileLogger(cfg.LogLevel, cfg.LogFile)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		a.logger, a.logCloser = logger, closer
	} else {
		a.logger = logging.BuildLogger(cfg.LogLevel)
	}
	return nil
}

package sitemap

import (
	"context"
	"encoding/xml"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const maxSitemapURLs = 50000

const sitemapNS = "http://www.sitemaps.org/schemas/sitemap/0.9"

type sitemapURL struct {
	XMLName xml.Name `xml:"url"`
	Loc     string   `xml:"loc"`
	LastMod string   `xml:"lastmod,omitempty"`
}

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapIndex struct {
	XMLName  xml.Name          `xml:"sitemapindex"`
	XMLNS    string            `xml:"xmlns,attr"`
	Sitemaps []sitemapIndexRef `xml:"sitemap"`
}

type sitemapIndexRef struct {
	XMLName xml.Name `xml:"sitemap"`
	Loc     string   `xml:"loc"`
	LastMod string   `xml:"lastmod,omitempty"`
}

// Page is one entry of the generated sitemap.
type Page struct {
	Slug    string
	ModTime time.Time
}

// SitemapGenerator writes a sitemap for transformed pages.
type SitemapGenerator struct {
	Path    string // output file, e.g. "public/sitemap.xml"
	SiteURL string // e.g. "https://backlinkoo.com"
	Logger  *slog.Logger
}

// Generate writes a single urlset to Path, or numbered urlsets next to it
// plus a sitemap index at Path when there are more than 50000 pages.
func (g *SitemapGenerator) Generate(ctx context.Context, pages []Page) error {
	if g.Path == "" || g.SiteURL == "" {
		return fmt.Errorf("sitemap path and site url are required")
	}
	if err := os.MkdirAll(filepath.Dir(g.Path), 0o755); err != nil {
		return fmt.Errorf("create sitemap dir: %w", err)
	}
	siteURL := strings.TrimRight(g.SiteURL, "/")

	urls := make([]sitemapURL, 0, len(pages))
	for _, p := range pages {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		var lastmod string
		if !p.ModTime.IsZero() {
			lastmod = p.ModTime.UTC().Format("2006-01-02")
		}
		urls = append(urls, sitemapURL{Loc: siteURL + "/" + p.Slug, LastMod: lastmod})
	}

	chunks := splitURLs(urls, maxSitemapURLs)
	if len(chunks) == 1 {
		return g.writeSitemap(g.Path, chunks[0])
	}

	now := time.Now().UTC().Format("2006-01-02")
	dir := filepath.Dir(g.Path)
	base := strings.TrimSuffix(filepath.Base(g.Path), filepath.Ext(g.Path))
	var refs []sitemapIndexRef
	for i, chunk := range chunks {
		filename := fmt.Sprintf("%s-%d.xml", base, i+1)
		if err := g.writeSitemap(filepath.Join(dir, filename), chunk); err != nil {
			return err
		}
		refs = append(refs, sitemapIndexRef{Loc: siteURL + "/" + filename, LastMod: now})
	}
	if g.Logger != nil {
		g.Logger.Info("sitemap split", "files", len(chunks), "urls", len(urls))
	}
	return writeXML(g.Path, sitemapIndex{XMLNS: sitemapNS, Sitemaps: refs})
}

func (g *SitemapGenerator) writeSitemap(path string, urls []sitemapURL) error {
	urlset := sitemapURLSet{
		XMLNS: sitemapNS,
		URLs:  urls,
	}
	return writeXML(path, urlset)
}

func writeXML(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	if _, err := f.WriteString(xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(f)
	enc.Indent("", "  ")
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

func splitURLs(urls []sitemapURL, maxPerFile int) [][]sitemapURL {
	if len(urls) <= maxPerFile {
		return [][]sitemapURL{urls}
	}
	var chunks [][]sitemapURL
	for i := 0; i < len(urls); i += maxPerFile {
		end := min(i+maxPerFile, len(urls))
		chunks = append(chunks, urls[i:end])
	}
	return chunks
}

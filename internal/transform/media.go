package transform

import (
	"fmt"
	htmlutil "html"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// Image is a single picture offered to empty media blocks.
type Image struct {
	Src string `yaml:"src" json:"src"`
	Alt string `yaml:"alt" json:"alt"`
}

// MediaEntry is the per-page media assignment.
type MediaEntry struct {
	Video  string  `yaml:"video,omitempty" json:"video,omitempty"`
	Images []Image `yaml:"images" json:"images"`
}

// Manifest maps page slugs to their media.
type Manifest map[string]MediaEntry

// DefaultImages is used for pages missing from the manifest.
var DefaultImages = []Image{
	{Src: "https://images.unsplash.com/photo-1460925895917-adf4e565db18?w=800&h=400&fit=crop", Alt: "SEO analytics and reporting"},
	{Src: "https://images.unsplash.com/photo-1552664730-d307ca884978?w=800&h=400&fit=crop", Alt: "Link building strategy session"},
	{Src: "https://images.unsplash.com/photo-1504384308090-c894fdcc538d?w=800&h=400&fit=crop", Alt: "Backlink metrics dashboard"},
}

// LoadManifest reads a YAML media manifest.
func LoadManifest(path string) (Manifest, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read media manifest: %w", err)
	}
	var m Manifest
	if err := yaml.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("parse media manifest: %w", err)
	}
	for slug, entry := range m {
		for i, img := range entry.Images {
			if img.Src == "" || img.Alt == "" {
				return nil, fmt.Errorf("media manifest %s image %d: src and alt are required", slug, i)
			}
		}
	}
	return m, nil
}

// Cursor returns a fresh image cursor for slug.
func (m Manifest) Cursor(slug string) *MediaCursor {
	if entry, ok := m[slug]; ok && len(entry.Images) > 0 {
		return NewMediaCursor(entry.Images)
	}
	return NewMediaCursor(DefaultImages)
}

// Video returns the video id assigned to slug, if any.
func (m Manifest) Video(slug string) string {
	return m[slug].Video
}

// MediaCursor hands out images in order, wrapping around at the end.
type MediaCursor struct {
	images []Image
	next   int
}

func NewMediaCursor(images []Image) *MediaCursor {
	return &MediaCursor{images: images}
}

// Next returns the next image. ok is false when the cursor has no images.
func (c *MediaCursor) Next() (img Image, ok bool) {
	if c == nil || len(c.images) == 0 {
		return Image{}, false
	}
	img = c.images[c.next%len(c.images)]
	c.next++
	return img, true
}

// Used reports how many images have been handed out.
func (c *MediaCursor) Used() int {
	if c == nil {
		return 0
	}
	return c.next
}

var (
	emptyMediaDiv = regexp.MustCompile(`<div class="media">\s*</div>`)
	videoAnchors  = []string{"<h2>FAQ", "<h2>Conclusion"}
)

const youtubeEmbed = "youtube.com/embed/"

// FillEmptyMedia puts one image into every empty media block of body.
// It returns the new body and the number of blocks filled.
func FillEmptyMedia(body string, cursor *MediaCursor) (string, int) {
	filled := 0
	out := emptyMediaDiv.ReplaceAllStringFunc(body, func(block string) string {
		img, ok := cursor.Next()
		if !ok {
			return block
		}
		filled++
		src := htmlutil.EscapeString(img.Src)
		alt := htmlutil.EscapeString(img.Alt)
		return fmt.Sprintf("<div class=\"media\">\n    <img src=\"%s\" alt=\"%s\" width=\"800\" height=\"400\" />\n    <p><em>%s</em></p>\n  </div>", src, alt, alt)
	})
	return out, filled
}

// InsertVideo adds a YouTube embed before the FAQ or Conclusion heading
// when body has no embed yet. It reports whether body changed.
func InsertVideo(body, videoID string) (string, bool) {
	if videoID == "" || strings.Contains(body, youtubeEmbed) {
		return body, false
	}
	block := fmt.Sprintf("<div class=\"media\">\n    <iframe width=\"560\" height=\"315\" src=\"https://www.%s%s\" title=\"Video tutorial\" frameborder=\"0\" allow=\"accelerometer; autoplay; clipboard-write; encrypted-media; gyroscope; picture-in-picture\" allowfullscreen style=\"max-width: 100%%;\"></iframe>\n    <p><em>Video tutorial on this topic</em></p>\n  </div>\n\n  ",
		youtubeEmbed, htmlutil.EscapeString(videoID))
	for _, anchor := range videoAnchors {
		if i := strings.Index(body, anchor); i >= 0 {
			return body[:i] + block + body[i:], true
		}
	}
	return body, false
}

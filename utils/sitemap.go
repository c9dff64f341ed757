package utils

import (
	"encoding/xml"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/patternforge/patternforge/apperr"
)

type sitemap struct {
	XMLName xml.Name `xml:"urlset"`
	Xmlns   string   `xml:"xmlns,attr"`
	Urls    []url    `xml:"url"`
}

type url struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod,omitempty"`
	ChangeFreq string `xml:"changefreq,omitempty"`
	Priority   string `xml:"priority,omitempty"`
}

// WriteSitemap emits dest/sitemap.xml listing every generated page
// under the configured base URL. Called only when a base URL is set.
func WriteSitemap(dest, baseURL string, pages []string) error {
	sm := sitemap{Xmlns: "http://www.sitemaps.org/schemas/sitemap/0.9"}
	base := strings.TrimRight(baseURL, "/")
	now := time.Now().Format("2006-01-02")

	for _, page := range pages {
		sm.Urls = append(sm.Urls, url{
			Loc:     base + page,
			LastMod: now,
		})
	}

	out, err := xml.MarshalIndent(sm, "", "  ")
	if err != nil {
		return apperr.Wrap(apperr.ContentParseError, errors.WithStack(err), "cannot marshal sitemap")
	}

	path := filepath.Join(dest, "sitemap.xml")
	content := xml.Header + string(out) + "\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return apperr.Wrap(apperr.FileReadError, errors.WithStack(err), "cannot write sitemap").WithPath(path)
	}
	return nil
}

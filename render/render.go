// Package render sets up the HTML view engine and picks listing templates.
package render

import (
	"context"
	"html/template"
	"strings"

	"content-archives/archives"
	"content-archives/models"
	"content-archives/widgets"

	"github.com/gofiber/template/html/v2"
)

// Extension is the file extension of templates.
const Extension = ".html"

// DefaultListingTemplate is rendered for content types without their own.
const DefaultListingTemplate = "listing"

// NewEngine returns a view engine over the templates in dir with the
// archive template functions registered:
//
//	{{ yearly_archives "entries" }}
//	{{ monthly_archives "entries" "asc" "%b %Y" "datecreated" }}
//	{{ widgets "aside_top" }}
func NewEngine(dir string, svc *archives.Service, registry *widgets.Registry) *html.Engine {
	engine := html.New(dir, Extension)
	engine.AddFunc("yearly_archives", func(contentType string, args ...string) (template.HTML, error) {
		return svc.YearlyArchives(context.Background(), contentType, args...)
	})
	engine.AddFunc("monthly_archives", func(contentType string, args ...string) (template.HTML, error) {
		return svc.MonthlyArchives(context.Background(), contentType, args...)
	})
	engine.AddFunc("widgets", func(location string) (template.HTML, error) {
		return registry.Render(context.Background(), location)
	})
	return engine
}

// TemplateChooser picks the template of archive listing pages.
type TemplateChooser struct {
	override string
}

// NewTemplateChooser returns a chooser. A non-empty override is used for
// every content type.
func NewTemplateChooser(override string) TemplateChooser {
	return TemplateChooser{override: strings.TrimSuffix(override, Extension)}
}

// Listing returns the listing template of ct: the override, then the
// content type's own template, then DefaultListingTemplate.
func (c TemplateChooser) Listing(ct models.ContentType) string {
	if c.override != "" {
		return c.override
	}
	if ct.ListingTemplate != "" {
		return strings.TrimSuffix(ct.ListingTemplate, Extension)
	}
	return DefaultListingTemplate
}

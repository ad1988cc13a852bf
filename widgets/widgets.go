// Package widgets places configured archive lists into template locations.
package widgets

import (
	"context"
	"html/template"
	"sort"
	"strings"

	"content-archives/archives"
	"content-archives/config"

	"go.uber.org/zap"
)

// Renderer renders a single archive widget.
type Renderer interface {
	Widget(ctx context.Context, args archives.WidgetArgs) (template.HTML, error)
}

// Placement is an archive widget of one content type at one location.
type Placement struct {
	ContentType string
	config.Widget
}

// Args returns the arguments the widget is rendered with.
func (p Placement) Args() archives.WidgetArgs {
	return archives.WidgetArgs{
		Type:        p.Type,
		ContentType: p.ContentType,
		Order:       p.Order,
		Label:       p.Label,
		Column:      p.Column,
		Header:      p.Header,
	}
}

// Registry holds the widget placements of the frontend.
type Registry struct {
	renderer   Renderer
	placements []Placement
	log        *zap.Logger
}

// NewRegistry builds a registry from the configured widgets, keyed by content type.
func NewRegistry(renderer Renderer, widgets map[string]config.Widget, log *zap.Logger) *Registry {
	placements := make([]Placement, 0, len(widgets))
	for contentType, w := range widgets {
		placements = append(placements, Placement{ContentType: contentType, Widget: w})
	}
	sort.SliceStable(placements, func(i, j int) bool {
		if placements[i].Priority != placements[j].Priority {
			return placements[i].Priority < placements[j].Priority
		}
		return placements[i].ContentType < placements[j].ContentType
	})
	return &Registry{renderer: renderer, placements: placements, log: log}
}

// Placements returns the placements at location in render order.
func (r *Registry) Placements(location string) []Placement {
	var out []Placement
	for _, p := range r.placements {
		if p.Location == location {
			out = append(out, p)
		}
	}
	return out
}

// Render renders every widget at location. Widgets are not cached.
func (r *Registry) Render(ctx context.Context, location string) (template.HTML, error) {
	var b strings.Builder
	for _, p := range r.Placements(location) {
		out, err := r.renderer.Widget(ctx, p.Args())
		if err != nil {
			r.log.Error("Failed to render archive widget",
				zap.String("location", location),
				zap.String("contenttype", p.ContentType),
				zap.Error(err))
			return "", err
		}
		b.WriteString(string(out))
	}
	return template.HTML(b.String()), nil
}

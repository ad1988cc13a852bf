package archives

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"strings"

	"content-archives/config"
	"content-archives/models"

	"go.uber.org/zap"
)

// Repository is the content storage the archives are built from.
type Repository interface {
	ContentType(name string) (models.ContentType, error)
	ResolveColumn(name string) (string, error)
	DateValues(ctx context.Context, ct models.ContentType, field string) ([]string, error)
	IDsWithPrefix(ctx context.Context, ct models.ContentType, field, prefix string) ([]uint, error)
	FetchPublished(ctx context.Context, ct models.ContentType, ids []uint) ([]models.ContentRecord, error)
}

// Service builds archive lists and listing pages for the configured content types.
type Service struct {
	repo   Repository
	cfg    config.Archives
	locale Locale
	log    *zap.Logger
}

// NewService returns a Service reading from repo. locale is used wherever
// the caller does not pass one.
func NewService(repo Repository, cfg config.Archives, locale Locale, log *zap.Logger) *Service {
	if locale == "" {
		locale = DefaultLocale
	}
	return &Service{repo: repo, cfg: cfg, locale: locale, log: log}
}

// Prefix returns the first path segment of listing pages.
func (s *Service) Prefix() string { return strings.Trim(s.cfg.Prefix, "/") }

// Locale returns the default locale.
func (s *Service) Locale() Locale { return s.locale }

// Request describes one archive list.
type Request struct {
	ContentType string
	Granularity Granularity
	Order       Order
	// Label is a strftime pattern; empty means the granularity default.
	Label string
	// Column is the date field; the configured column for the content type wins.
	Column string
	Locale Locale
}

// Buckets returns the distinct periods of a content type's date column.
func (s *Service) Buckets(ctx context.Context, contentType, column string, g Granularity, order Order) ([]string, error) {
	ct, err := s.repo.ContentType(contentType)
	if err != nil {
		return nil, err
	}
	return s.buckets(ctx, ct, column, g, order)
}

func (s *Service) buckets(ctx context.Context, ct models.ContentType, column string, g Granularity, order Order) ([]string, error) {
	field, err := s.column(ct.Slug, column)
	if err != nil {
		return nil, err
	}

	values, err := s.repo.DateValues(ctx, ct, field)
	if err != nil {
		return nil, err
	}

	buckets := ListBuckets(values, g, order)
	s.log.Debug("Built archive buckets",
		zap.String("contenttype", ct.Slug),
		zap.String("column", field),
		zap.Stringer("granularity", g),
		zap.Stringer("order", order),
		zap.Int("records", len(values)),
		zap.Int("buckets", len(buckets)))
	return buckets, nil
}

// Entries returns the labelled links of an archive list.
func (s *Service) Entries(ctx context.Context, req Request) ([]Entry, error) {
	ct, err := s.repo.ContentType(req.ContentType)
	if err != nil {
		return nil, err
	}

	buckets, err := s.buckets(ctx, ct, req.Column, req.Granularity, req.Order)
	if err != nil {
		return nil, err
	}

	locale := req.Locale
	if locale == "" {
		locale = s.locale
	}

	entries := make([]Entry, 0, len(buckets))
	for _, b := range buckets {
		label, err := FormatLabel(b, req.Label, s.cfg.TitleCase(), locale)
		if err != nil {
			return nil, err
		}
		entries = append(entries, Entry{
			Period: b,
			Label:  label,
			URL:    BuildURL(s.cfg.Prefix, ct.Slug, b),
		})
	}
	return entries, nil
}

// YearlyArchives renders the yearly archive list of a content type. The
// optional args are order, label pattern and column, in that order.
func (s *Service) YearlyArchives(ctx context.Context, contentType string, args ...string) (template.HTML, error) {
	return s.fragment(ctx, newRequest(contentType, Year, args), "")
}

// MonthlyArchives renders the monthly archive list of a content type. The
// optional args are order, label pattern and column, in that order.
func (s *Service) MonthlyArchives(ctx context.Context, contentType string, args ...string) (template.HTML, error) {
	return s.fragment(ctx, newRequest(contentType, Month, args), "")
}

// WidgetArgs are the arguments of a configured archive widget.
type WidgetArgs struct {
	Type        string
	ContentType string
	Order       string
	Label       string
	Column      string
	Header      string
}

// Widget renders an archive list for a widget, with an optional heading.
// Type "monthly" lists months, anything else lists years.
func (s *Service) Widget(ctx context.Context, args WidgetArgs) (template.HTML, error) {
	g := Year
	if args.Type == "monthly" {
		g = Month
	}
	req := Request{
		ContentType: args.ContentType,
		Granularity: g,
		Order:       ParseOrder(args.Order),
		Label:       args.Label,
		Column:      args.Column,
	}
	return s.fragment(ctx, req, args.Header)
}

// fragment renders req as list items. Unknown content types render as a
// plain message rather than failing the page.
func (s *Service) fragment(ctx context.Context, req Request, header string) (template.HTML, error) {
	entries, err := s.Entries(ctx, req)
	if errors.Is(err, ErrUnknownContentType) {
		s.log.Warn("Archive list for unknown content type", zap.String("contenttype", req.ContentType))
		return template.HTML(MsgInvalidContentType), nil
	}
	if err != nil {
		return "", fmt.Errorf("build %s archives of '%s': %w", req.Granularity, req.ContentType, err)
	}
	return template.HTML(withHeader(header, RenderList(entries))), nil
}

func newRequest(contentType string, g Granularity, args []string) Request {
	req := Request{ContentType: contentType, Granularity: g, Order: Descending}
	if len(args) > 0 {
		req.Order = ParseOrder(args[0])
	}
	if len(args) > 1 {
		req.Label = args[1]
	}
	if len(args) > 2 {
		req.Column = args[2]
	}
	return req
}

// Listing is the set of records of one period, ready to be rendered.
type Listing struct {
	ContentType models.ContentType
	// Name is the content type as requested, a slug or a singular name.
	Name        string
	Period      string
	Granularity Granularity
	Label       string
	Records     []models.ContentRecord
}

// Context returns the template variables of the listing. The records are
// available as "records", under the content type's slug and under the
// requested name.
func (l *Listing) Context() map[string]any {
	ctx := map[string]any{
		l.ContentType.Slug: l.Records,
	}
	if l.Name != "" {
		ctx[l.Name] = l.Records
	}
	ctx["records"] = l.Records
	ctx["contenttype"] = l.ContentType.Name
	ctx["period"] = l.Period
	ctx["label"] = l.Label
	return ctx
}

// Listing finds the published records of a content type whose date column
// starts with the period. A year period matches every month of that year.
func (s *Service) Listing(ctx context.Context, contentType, rawPeriod string, locale Locale) (*Listing, error) {
	period, g, err := ValidatePeriod(rawPeriod)
	if err != nil {
		return nil, err
	}

	ct, err := s.repo.ContentType(contentType)
	if err != nil {
		return nil, err
	}
	if ct.Viewless {
		return nil, fmt.Errorf("%w: %q", ErrViewless, ct.Slug)
	}

	field, err := s.column(ct.Slug, "")
	if err != nil {
		return nil, err
	}

	ids, err := s.repo.IDsWithPrefix(ctx, ct, field, period)
	if err != nil {
		return nil, err
	}
	records, err := s.repo.FetchPublished(ctx, ct, ids)
	if err != nil {
		return nil, err
	}
	if records == nil {
		records = []models.ContentRecord{}
	}

	if locale == "" {
		locale = s.locale
	}
	label, err := FormatLabel(period, "", s.cfg.TitleCase(), locale)
	if err != nil {
		label = period
	}

	s.log.Debug("Built archive listing",
		zap.String("contenttype", ct.Slug),
		zap.String("period", period),
		zap.Int("matches", len(ids)),
		zap.Int("records", len(records)))

	return &Listing{
		ContentType: ct,
		Name:        contentType,
		Period:      period,
		Granularity: g,
		Label:       label,
		Records:     records,
	}, nil
}

// column picks the date field of a content type: the configured column,
// then the requested one, then the default. The result is checked against
// the repository's allow-list.
func (s *Service) column(contentType, requested string) (string, error) {
	field := s.cfg.Column(contentType)
	if field == "" {
		field = requested
	}
	if field == "" {
		field = config.DefaultColumn
	}
	if _, err := s.repo.ResolveColumn(field); err != nil {
		return "", err
	}
	return strings.ToLower(field), nil
}

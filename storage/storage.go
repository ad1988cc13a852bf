package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"

	"content-archives/models"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	// ErrUnknownContentType is returned when a name matches no configured content type.
	ErrUnknownContentType = errors.New("unknown content type")
	// ErrUnknownColumn is returned for date columns outside the allow-list.
	ErrUnknownColumn = errors.New("unknown date column")
)

// dateColumns maps the public date field names to their database columns.
// Only these identifiers ever reach a query.
var dateColumns = map[string]string{
	"datepublish":   "date_publish",
	"datecreated":   "date_created",
	"datechanged":   "date_changed",
	"datedepublish": "date_depublish",
}

// sortColumns are the columns a content type may be sorted on.
var sortColumns = map[string]string{
	"id":            "id",
	"title":         "title",
	"slug":          "slug",
	"datepublish":   "date_publish",
	"datecreated":   "date_created",
	"datechanged":   "date_changed",
	"datedepublish": "date_depublish",
}

// ContentRepository gives read access to the records of the configured
// content types.
type ContentRepository struct {
	db    *gorm.DB
	types []models.ContentType
}

// NewContentRepository returns a repository over db for the given content types.
func NewContentRepository(db *gorm.DB, types []models.ContentType) *ContentRepository {
	return &ContentRepository{db: db, types: types}
}

// ContentType looks up a content type by slug, falling back to its singular name.
func (r *ContentRepository) ContentType(name string) (models.ContentType, error) {
	for _, ct := range r.types {
		if ct.Slug == name {
			return ct, nil
		}
	}
	for _, ct := range r.types {
		if ct.SingularName != "" && ct.SingularName == name {
			return ct, nil
		}
	}
	return models.ContentType{}, fmt.Errorf("%w: %q", ErrUnknownContentType, name)
}

// ResolveColumn maps a date field name such as "datepublish" to its database column.
func (r *ContentRepository) ResolveColumn(name string) (string, error) {
	column, ok := dateColumns[strings.ToLower(name)]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownColumn, name)
	}
	return column, nil
}

// DateValues returns the raw values of a date column for every record of ct.
// NULL values are returned as "".
func (r *ContentRepository) DateValues(ctx context.Context, ct models.ContentType, field string) ([]string, error) {
	column, err := r.ResolveColumn(field)
	if err != nil {
		return nil, err
	}

	var raw []sql.NullString
	result := r.db.WithContext(ctx).
		Model(&models.ContentRecord{}).
		Where("content_type = ?", ct.Slug).
		Pluck(column, &raw)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to read %s values of '%s': %w", field, ct.Slug, result.Error)
	}

	values := make([]string, len(raw))
	for i, v := range raw {
		values[i] = v.String
	}
	return values, nil
}

// IDsWithPrefix returns the ids of records of ct whose date field starts with prefix.
func (r *ContentRepository) IDsWithPrefix(ctx context.Context, ct models.ContentType, field, prefix string) ([]uint, error) {
	column, err := r.ResolveColumn(field)
	if err != nil {
		return nil, err
	}

	var ids []uint
	result := r.db.WithContext(ctx).
		Model(&models.ContentRecord{}).
		Where("content_type = ?", ct.Slug).
		Where(clause.Like{Column: clause.Column{Name: column}, Value: prefix + "%"}).
		Pluck("id", &ids)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to find '%s' records with %s like '%s%%': %w", ct.Slug, field, prefix, result.Error)
	}
	return ids, nil
}

// FetchPublished loads the published records among ids, ordered by the
// content type's sort setting. The result is never nil.
func (r *ContentRepository) FetchPublished(ctx context.Context, ct models.ContentType, ids []uint) ([]models.ContentRecord, error) {
	records := []models.ContentRecord{}
	if len(ids) == 0 {
		return records, nil
	}

	result := r.db.WithContext(ctx).
		Where("content_type = ? AND status = ?", ct.Slug, models.StatusPublished).
		Where("id IN ?", ids).
		Order(sortClause(ct.Sort)).
		Order("id").
		Find(&records)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to fetch '%s' records: %w", ct.Slug, result.Error)
	}
	return records, nil
}

// Create stores a new record, assigning it a UUID.
func (r *ContentRepository) Create(ctx context.Context, record *models.ContentRecord) error {
	if _, err := r.ContentType(record.ContentType); err != nil {
		return err
	}
	if record.UUID == "" {
		record.UUID = uuid.New().String()
	}
	if record.Status == "" {
		record.Status = models.StatusPublished
	}

	if result := r.db.WithContext(ctx).Create(record); result.Error != nil {
		return fmt.Errorf("failed to create '%s' record '%s': %w", record.ContentType, record.Slug, result.Error)
	}
	return nil
}

// LoadFixtures reads a YAML list of records from path and creates them.
// It returns the number of records created.
func (r *ContentRepository) LoadFixtures(ctx context.Context, path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("failed to read fixtures '%s': %w", path, err)
	}

	var records []models.ContentRecord
	if err := yaml.Unmarshal(data, &records); err != nil {
		return 0, fmt.Errorf("failed to parse fixtures '%s': %w", path, err)
	}

	for i := range records {
		if err := r.Create(ctx, &records[i]); err != nil {
			return i, err
		}
	}
	return len(records), nil
}

// sortClause turns a sort setting like "-datepublish" into an ORDER BY
// column. Unknown columns fall back to newest first.
func sortClause(sort string) clause.OrderByColumn {
	desc := strings.HasPrefix(sort, "-")
	column, ok := sortColumns[strings.ToLower(strings.TrimPrefix(sort, "-"))]
	if !ok {
		return clause.OrderByColumn{Column: clause.Column{Name: "date_publish"}, Desc: true}
	}
	return clause.OrderByColumn{Column: clause.Column{Name: column}, Desc: desc}
}

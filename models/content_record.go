package models

import (
	"gorm.io/gorm"
)

// StatusPublished marks a record that may be shown on the frontend.
const StatusPublished = "published"

// ContentRecord represents a single piece of content of some content type.
// Dates are stored as "YYYY-MM-DD HH:MM:SS" strings; "0000-00-00 00:00:00"
// marks a record without a date.
type ContentRecord struct {
	gorm.Model // Includes ID, CreatedAt, UpdatedAt, DeletedAt

	UUID          string `gorm:"uniqueIndex;not null" yaml:"-"`
	ContentType   string `gorm:"index;not null" yaml:"contenttype"`
	Slug          string `gorm:"index" yaml:"slug"`
	Title         string `yaml:"title"`
	Body          string `yaml:"body"`
	Status        string `gorm:"index;not null;default:draft" yaml:"status"`
	DatePublish   string `gorm:"index" yaml:"datepublish"`
	DateCreated   string `yaml:"datecreated"`
	DateChanged   string `yaml:"datechanged"`
	DateDepublish string `yaml:"datedepublish"`
}

package models

// ContentType describes a collection of records, e.g. "pages" or "entries".
//
// Viewless content types have no pages of their own, so their archive
// listings are not served. Sort is a column name with an optional "-"
// prefix for descending order, e.g. "-datepublish".
type ContentType struct {
	Slug            string `yaml:"slug" validate:"required"`
	Name            string `yaml:"name" validate:"required"`
	SingularName    string `yaml:"singular_name"`
	Viewless        bool   `yaml:"viewless"`
	Sort            string `yaml:"sort"`
	ListingTemplate string `yaml:"listing_template"`
}

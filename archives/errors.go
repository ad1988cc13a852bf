package archives

import (
	"errors"

	"content-archives/storage"
)

var (
	// ErrInvalidPeriod is returned for periods that are not 4 or 7 characters
	// long once everything but digits and hyphens is stripped.
	ErrInvalidPeriod = errors.New("invalid period")
	// ErrUnknownContentType is returned when the content type does not exist.
	ErrUnknownContentType = storage.ErrUnknownContentType
	// ErrViewless is returned for listings of content types without pages.
	ErrViewless = errors.New("content type is viewless")
	// ErrUnknownLocale is returned for locales without month names.
	ErrUnknownLocale = errors.New("unknown locale")
)

// Messages shown to visitors instead of an error page.
const (
	MsgWrongPeriod        = "Wrong period parameter"
	MsgInvalidContentType = "Not a valid ContentType"
)

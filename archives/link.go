package archives

import (
	"strings"

	"golang.org/x/net/html"
)

// Entry is one link of an archive list.
type Entry struct {
	Period string
	Label  string
	URL    string
}

// BuildURL returns the path of the listing page of a period:
// "/{prefix}/{contentType}/{period}". prefix and contentType are expected
// to be URL safe already.
func BuildURL(prefix, contentType, period string) string {
	return "/" + strings.Trim(prefix, "/") + "/" + contentType + "/" + period
}

// RenderList renders entries as "<li>" lines for use inside a list element.
func RenderList(entries []Entry) string {
	var b strings.Builder
	for _, e := range entries {
		b.WriteString(`<li><a href="`)
		b.WriteString(html.EscapeString(e.URL))
		b.WriteString(`">`)
		b.WriteString(html.EscapeString(e.Label))
		b.WriteString("</a></li>\n")
	}
	return b.String()
}

// withHeader prefixes fragment with an "<h5>" heading when header is set.
func withHeader(header, fragment string) string {
	if header == "" {
		return fragment
	}
	return "<h5>" + html.EscapeString(header) + "</h5>\n" + fragment
}

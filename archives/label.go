package archives

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/goodsign/monday"
	"github.com/lestrrat-go/strftime"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Locale selects the language of month and weekday names, e.g. "en_US".
type Locale = monday.Locale

// DefaultLocale is used when no locale is configured.
const DefaultLocale Locale = monday.LocaleEnUS

// ParseLocale accepts "nl_NL", "nl-NL" or a bare "nl" and returns the
// matching supported locale.
func ParseLocale(s string) (Locale, error) {
	if s == "" {
		return DefaultLocale, nil
	}
	want := strings.ReplaceAll(s, "-", "_")
	for _, l := range monday.ListLocales() {
		if strings.EqualFold(string(l), want) {
			return l, nil
		}
	}
	if !strings.Contains(want, "_") {
		// A bare language prefers its own region ("de" is de_DE, not de_AT).
		lang := strings.ToLower(want)
		var candidates []string
		for _, l := range monday.ListLocales() {
			if strings.HasPrefix(strings.ToLower(string(l)), lang+"_") {
				candidates = append(candidates, string(l))
			}
		}
		sort.Strings(candidates)
		for _, c := range candidates {
			if strings.EqualFold(c, lang+"_"+lang) {
				return Locale(c), nil
			}
		}
		if len(candidates) > 0 {
			return Locale(candidates[0]), nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownLocale, s)
}

// FormatLabel renders a bucket key as a human readable label using a
// strftime pattern. The bucket is read as the first day of its period.
// Month and weekday names are taken from locale. With titleCase every word
// gets an upper-case first letter; the rest of each word is left alone.
func FormatLabel(bucket, pattern string, titleCase bool, locale Locale) (string, error) {
	t, g, err := parseBucket(bucket)
	if err != nil {
		return "", err
	}
	if pattern == "" {
		pattern = g.DefaultPattern()
	}
	if locale == "" {
		locale = DefaultLocale
	}

	label, err := strftime.Format(pattern, t, strftime.WithSpecificationSet(localized(locale)))
	if err != nil {
		return "", fmt.Errorf("format %q with %q: %w", bucket, pattern, err)
	}

	if titleCase {
		label = upperWords(label, languageTag(locale))
	}
	return label, nil
}

// upperWords upper-cases the first letter after every run of blanks and
// leaves everything else alone, so "2018-mrt" keeps its lower-case month.
func upperWords(s string, tag language.Tag) string {
	upper := cases.Upper(tag)
	var b strings.Builder
	b.Grow(len(s))
	start := true
	for _, r := range s {
		switch {
		case strings.ContainsRune(" \t\r\n\f\v", r):
			start = true
			b.WriteRune(r)
		case start:
			start = false
			b.WriteString(upper.String(string(r)))
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func parseBucket(bucket string) (time.Time, Granularity, error) {
	var g Granularity
	switch len(bucket) {
	case int(Year):
		g = Year
	case int(Month):
		g = Month
	default:
		return time.Time{}, 0, fmt.Errorf("%w: %q", ErrInvalidPeriod, bucket)
	}
	if !validKey(bucket, g) {
		return time.Time{}, 0, fmt.Errorf("%w: %q", ErrInvalidPeriod, bucket)
	}

	value := bucket + "-01"
	if g == Year {
		value = bucket + "-01-01"
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, 0, fmt.Errorf("%w: %q", ErrInvalidPeriod, bucket)
	}
	return t, g, nil
}

// verbatimSet prints conversions it does not know as written, e.g. "%Q".
type verbatimSet struct {
	strftime.SpecificationSet
}

func (s verbatimSet) Lookup(b byte) (strftime.Appender, error) {
	if a, err := s.SpecificationSet.Lookup(b); err == nil {
		return a, nil
	}
	return strftime.Verbatim("%" + string(b)), nil
}

// localized returns the strftime conversions with month and weekday names
// looked up in locale.
func localized(locale Locale) strftime.SpecificationSet {
	name := func(layout string) strftime.Appender {
		return strftime.AppendFunc(func(b []byte, t time.Time) []byte {
			return append(b, monday.Format(t, layout, locale)...)
		})
	}
	set := strftime.NewSpecificationSet()
	for verb, layout := range map[byte]string{
		'B': "January",
		'b': "Jan",
		'h': "Jan",
		'A': "Monday",
		'a': "Mon",
	} {
		_ = set.Set(verb, name(layout))
	}
	return verbatimSet{set}
}

func languageTag(locale Locale) language.Tag {
	tag, err := language.Parse(strings.ReplaceAll(string(locale), "_", "-"))
	if err != nil {
		return language.Und
	}
	return tag
}

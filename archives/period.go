// Package archives groups content records into yearly and monthly buckets
// and turns those buckets into labelled links to listing pages.
package archives

import (
	"sort"
	"strings"
)

// Granularity is the length of a bucket key: 4 for "2018", 7 for "2018-03".
type Granularity int

const (
	Year  Granularity = 4
	Month Granularity = 7
)

func (g Granularity) String() string {
	switch g {
	case Year:
		return "year"
	case Month:
		return "month"
	default:
		return "unknown"
	}
}

// DefaultPattern returns the label pattern used when the caller gives none.
func (g Granularity) DefaultPattern() string {
	if g == Month {
		return "%B %Y"
	}
	return "%Y"
}

// Order is the sort direction of bucket keys.
type Order int

const (
	Descending Order = iota
	Ascending
)

// ParseOrder returns Ascending for "asc" in any case and Descending for
// everything else, including the empty string.
func ParseOrder(s string) Order {
	if strings.EqualFold(strings.TrimSpace(s), "asc") {
		return Ascending
	}
	return Descending
}

func (o Order) String() string {
	if o == Ascending {
		return "asc"
	}
	return "desc"
}

// Bucket returns the first g characters of a date value, or the whole value
// when it is shorter.
func Bucket(value string, g Granularity) string {
	if len(value) <= int(g) {
		return value
	}
	return value[:g]
}

// ListBuckets returns the distinct buckets of values in the given order.
// Placeholder dates ("0000", "0000-00"), empty values and anything that is
// not a well-formed YYYY or YYYY-MM key are left out.
func ListBuckets(values []string, g Granularity, order Order) []string {
	seen := make(map[string]struct{}, len(values))
	buckets := make([]string, 0, len(values))
	for _, v := range values {
		key := Bucket(strings.TrimSpace(v), g)
		if isPlaceholder(key) || !validKey(key, g) {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		buckets = append(buckets, key)
	}

	if order == Ascending {
		sort.Strings(buckets)
	} else {
		sort.Sort(sort.Reverse(sort.StringSlice(buckets)))
	}
	return buckets
}

func isPlaceholder(key string) bool {
	return key == "" || key == "0000" || key == "0000-00"
}

// validKey reports whether key is exactly a YYYY (Year) or YYYY-MM (Month)
// key. Months outside 01-12 are rejected.
func validKey(key string, g Granularity) bool {
	if len(key) != int(g) {
		return false
	}
	for i := 0; i < len(key); i++ {
		c := key[i]
		if i == 4 {
			if c != '-' {
				return false
			}
			continue
		}
		if c < '0' || c > '9' {
			return false
		}
	}
	if g == Month {
		month := key[5:]
		return month >= "01" && month <= "12"
	}
	return true
}

// SanitizePeriod strips every character that is not a digit or a hyphen.
func SanitizePeriod(raw string) string {
	return strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '-' {
			return r
		}
		return -1
	}, raw)
}

// ValidatePeriod sanitizes raw and checks that what remains is 4 or 7
// characters long. It returns the sanitized period and its granularity.
func ValidatePeriod(raw string) (string, Granularity, error) {
	period := SanitizePeriod(raw)
	switch len(period) {
	case int(Year):
		return period, Year, nil
	case int(Month):
		return period, Month, nil
	default:
		return period, 0, ErrInvalidPeriod
	}
}

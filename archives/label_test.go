package archives

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatLabel(t *testing.T) {
	tests := []struct {
		name      string
		bucket    string
		pattern   string
		titleCase bool
		locale    Locale
		want      string
	}{
		{name: "Year as is", bucket: "2018", pattern: "%Y", want: "2018"},
		{name: "Month title-cased", bucket: "2018-03", pattern: "%B %Y", titleCase: true, want: "March 2018"},
		{name: "Default year pattern", bucket: "2018", want: "2018"},
		{name: "Default month pattern", bucket: "2018-03", want: "March 2018"},
		{name: "Abbreviated month and short year", bucket: "2018-03", pattern: "%b '%y", want: "Mar '18"},
		{name: "First day of the period", bucket: "2018-03", pattern: "%A %d %B", want: "Thursday 01 March"},
		{name: "Year bucket starts in January", bucket: "2018", pattern: "%B %Y", want: "January 2018"},
		{name: "Every word capitalised", bucket: "2018-03", pattern: "%B of %Y", titleCase: true, want: "March Of 2018"},
		{name: "Dutch month", bucket: "2018-03", pattern: "%B %Y", locale: "nl_NL", want: "maart 2018"},
		{name: "Dutch month title-cased", bucket: "2018-03", pattern: "%B %Y", titleCase: true, locale: "nl_NL", want: "Maart 2018"},
		{name: "German month", bucket: "2018-03", pattern: "%B %Y", locale: "de_DE", want: "März 2018"},
		{name: "French weekday", bucket: "2018-03", pattern: "%A", titleCase: true, locale: "fr_FR", want: "Jeudi"},
		{name: "Only words after blanks are capitalised", bucket: "2018-03", pattern: "%Y-%b", titleCase: true, locale: "nl_NL", want: "2018-mrt"},
		{name: "Capitals after tabs", bucket: "2018-03", pattern: "%Y\t%b", titleCase: true, locale: "nl_NL", want: "2018\tMrt"},
		{name: "Unknown conversion printed as written", bucket: "2018-03", pattern: "%Q %B", want: "%Q March"},
		{name: "Literal percent", bucket: "2018", pattern: "100%% %Y", want: "100% 2018"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FormatLabel(tt.bucket, tt.pattern, tt.titleCase, tt.locale)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatLabelLocalesDoNotLeak(t *testing.T) {
	nl, err := FormatLabel("2018-05", "%B", false, "nl_NL")
	require.NoError(t, err)
	en, err := FormatLabel("2018-05", "%B", false, "en_US")
	require.NoError(t, err)

	assert.Equal(t, "mei", nl)
	assert.Equal(t, "May", en)
}

func TestFormatLabelRejectsBadBuckets(t *testing.T) {
	for _, bucket := range []string{"", "18", "2018-3", "2018-13", "abcd", "2018-03-01"} {
		_, err := FormatLabel(bucket, "%Y", false, DefaultLocale)
		assert.ErrorIs(t, err, ErrInvalidPeriod, "bucket %q", bucket)
	}
}

func TestParseLocale(t *testing.T) {
	l, err := ParseLocale("")
	require.NoError(t, err)
	assert.Equal(t, DefaultLocale, l)

	l, err = ParseLocale("nl-NL")
	require.NoError(t, err)
	assert.Equal(t, Locale("nl_NL"), l)

	l, err = ParseLocale("de")
	require.NoError(t, err)
	assert.Equal(t, Locale("de_DE"), l)

	_, err = ParseLocale("xx_XX")
	require.ErrorIs(t, err, ErrUnknownLocale)
}

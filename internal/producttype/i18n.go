package producttype

import (
	"regexp"
)

// Row is a single record of an input table, keyed by column header.
type Row interface {
	// Headers returns the column headers in file order.
	Headers() []string
	// Lookup returns the cell for the header and whether the column exists.
	Lookup(header string) (string, bool)
}

func value(row Row, header string) string {
	val, _ := row.Lookup(header)
	return val
}

type languageColumn struct {
	language string
	header   string
}

func languageColumns(property string, headers []string) []languageColumn {
	re := regexp.MustCompile(`(?i)^` + regexp.QuoteMeta(property) + `\.([a-z]{2})`)
	var res []languageColumn
	seen := make(map[string]bool)
	for _, header := range headers {
		m := re.FindStringSubmatch(header)
		if m == nil || seen[m[1]] {
			continue
		}
		seen[m[1]] = true
		res = append(res, languageColumn{language: m[1], header: header})
	}
	return res
}

// Languages returns the language codes of all "<property>.<xx>" headers in header order.
func Languages(property string, headers []string) []string {
	columns := languageColumns(property, headers)
	res := make([]string, 0, len(columns))
	for _, c := range columns {
		res = append(res, c.language)
	}
	return res
}

// I18n builds the language map for property from the row's "<property>.<xx>" columns.
// The result is never nil.
func I18n(row Row, property string) LocalizedString {
	res := make(LocalizedString)
	for _, c := range languageColumns(property, row.Headers()) {
		res[c.language] = value(row, c.header)
	}
	return res
}

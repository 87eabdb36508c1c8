package dberrors

import (
	"strings"
)

// decomposeConstraint derives the column from a constraint name using the
// naming conventions registered for kind. It returns "" when no convention
// matches or when matching conventions disagree.
func decomposeConstraint(conventions []*NamingConvention, kind Kind, table, constraint string) string {
	var column string

	for _, convention := range conventions {
		if convention.kind != kind {
			continue
		}

		candidate, ok := convention.match(table, constraint)
		if !ok {
			continue
		}

		if column != "" && column != candidate {
			return ""
		}

		column = candidate
	}

	return column
}

// match cuts the table-expanded prefix and suffix of the template off name.
// Prefix and suffix compare case-insensitively; the column keeps its case.
func (c *NamingConvention) match(table, name string) (string, bool) {
	if c.before == "" && c.after == "" {
		return "", false
	}

	if strings.Contains(c.before, "{table}") {
		if table == "" {
			return "", false
		}
	}

	prefix := strings.ReplaceAll(c.before, "{table}", table)
	suffix := c.after

	if len(name) <= len(prefix)+len(suffix) {
		return "", false
	}

	if !strings.EqualFold(name[:len(prefix)], prefix) || !strings.EqualFold(name[len(name)-len(suffix):], suffix) {
		return "", false
	}

	column := name[len(prefix) : len(name)-len(suffix)]
	if strings.HasPrefix(column, "_") || strings.HasSuffix(column, "_") {
		return "", false
	}

	return column, true
}

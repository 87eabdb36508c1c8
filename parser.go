package dberrors

import (
	"strings"
)

// parsed is what a dialect parser extracted from one native error.
type parsed struct {
	kind       Kind
	schema     string
	table      string
	column     string
	constraint string
	columns    []string
}

// codeKeysFunc returns the exact codes and SQLSTATE classes a dialect looks up
// in its pattern set, most specific first.
type codeKeysFunc func(NativeError) (codes, classes []string)

var dialectCodeKeys = map[Dialect]codeKeysFunc{
	DialectPostgres: postgresCodeKeys,
	DialectMySQL:    mysqlCodeKeys,
	DialectSQLite:   sqliteCodeKeys,
}

// parseNative classifies n with the pattern set of dialect. It never fails;
// an error it cannot classify yields KindUnclassified.
func parseNative(set *PatternSet, dialect Dialect, n NativeError) parsed {
	p := parsed{
		schema:     n.Schema,
		table:      n.Table,
		column:     n.Column,
		constraint: n.Constraint,
	}

	if keys, ok := dialectCodeKeys[dialect]; ok {
		codes, classes := keys(n)
		p.kind = set.lookup(codes, classes)
	}

	var columns, columnList string

	for _, pattern := range set.Patterns {
		if pattern.re == nil || !p.accepts(pattern.kind) {
			continue
		}

		text := pattern.text(n)
		if text == "" {
			continue
		}

		match := pattern.re.FindStringSubmatch(text)
		if match == nil {
			continue
		}

		if pattern.kind != KindUnclassified {
			p.kind = pattern.kind
		}

		for i, name := range pattern.re.SubexpNames() {
			if name == "" || match[i] == "" {
				continue
			}

			switch name {
			case "schema":
				fillIdent(&p.schema, match[i])
			case "table":
				fillIdent(&p.table, match[i])
			case "column":
				fillIdent(&p.column, match[i])
			case "constraint":
				fillIdent(&p.constraint, match[i])
			case "columns":
				if columns == "" {
					columns = match[i]
				}
			case "column_list":
				if columnList == "" {
					columnList = match[i]
				}
			}
		}
	}

	if p.kind == KindUnclassified {
		return parsed{}
	}

	p.applyColumns(columns)
	p.applyColumnList(columnList)

	if len(p.columns) == 1 && p.column == "" {
		p.column = p.columns[0]
	}

	if p.column == "" && len(p.columns) == 0 && p.constraint != "" {
		p.column = decomposeConstraint(set.Conventions, p.kind, p.table, p.constraint)
	}

	if p.column != "" && len(p.columns) == 0 {
		p.columns = []string{p.column}
	}

	return p
}

// accepts reports whether a pattern tied to kind may run. Field-only patterns
// always run; a generic constraint kind may be refined into a specific one.
func (p *parsed) accepts(kind Kind) bool {
	switch {
	case kind == KindUnclassified, p.kind == KindUnclassified, p.kind == kind:
		return true
	case p.kind == KindConstraint && kind.IsConstraint():
		return true
	}

	return false
}

// applyColumns splits a captured column list of quoted or bare identifiers.
// A qualified entry also names the table when nothing else did.
func (p *parsed) applyColumns(list string) {
	if list == "" {
		return
	}

	for _, item := range splitIdentList(list, ',') {
		parts := splitIdentList(item, '.')
		if len(parts) == 0 {
			continue
		}

		var table string
		if len(parts) >= 2 {
			table = unquoteIdent(parts[len(parts)-2])
		}

		p.addColumn(table, unquoteIdent(parts[len(parts)-1]))
	}
}

// applyColumnList splits an unquoted "table.column, table.column" list. Names
// are kept verbatim; the table ends at the last dot of each entry.
func (p *parsed) applyColumnList(list string) {
	if list == "" {
		return
	}

	for _, item := range strings.Split(list, ", ") {
		table, column := "", item
		if i := strings.LastIndexByte(item, '.'); i >= 0 {
			table, column = item[:i], item[i+1:]
		}

		p.addColumn(table, column)
	}
}

func (p *parsed) addColumn(table, column string) {
	if column == "" {
		return
	}

	if table != "" && p.table == "" {
		p.table = table
	}

	p.columns = append(p.columns, column)
}

func fillIdent(dst *string, raw string) {
	if *dst != "" {
		return
	}

	*dst = unquoteIdent(raw)
}

// splitIdentList splits s on sep outside of quoted identifiers and trims
// surrounding whitespace from each element.
func splitIdentList(s string, sep rune) []string {
	var (
		result []string
		b      strings.Builder
		quote  rune
	)

	flush := func() {
		if item := strings.TrimSpace(b.String()); item != "" {
			result = append(result, item)
		}
		b.Reset()
	}

	for _, r := range s {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			}
		case r == '"' || r == '`' || r == '\'':
			quote = r
		case r == '[':
			quote = ']'
		case r == sep:
			flush()
			continue
		}

		b.WriteRune(r)
	}

	flush()

	return result
}

// unquoteIdent removes one level of identifier quoting and undoubles embedded
// quote characters. The identifier is otherwise returned verbatim.
func unquoteIdent(s string) string {
	s = strings.TrimSpace(s)
	if len(s) < 2 {
		return s
	}

	first, last := s[0], s[len(s)-1]

	switch {
	case first == '[' && last == ']':
		return s[1 : len(s)-1]
	case first == last && (first == '"' || first == '`' || first == '\''):
		q := string(first)
		return strings.ReplaceAll(s[1:len(s)-1], q+q, q)
	}

	return s
}

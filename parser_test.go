package dberrors

import (
	"testing"

	"github.com/alecthomas/assert/v2"
)

func parseWithBuiltin(t *testing.T, dialect Dialect, n NativeError) parsed {
	t.Helper()

	set, ok := BuiltinPatternSet(dialect)
	assert.True(t, ok)

	return parseNative(set, dialect, n)
}

func TestSplitIdentList(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		sep      rune
		expected []string
	}{
		{name: "plain", input: "a, b,c", sep: ',', expected: []string{"a", "b", "c"}},
		{name: "quoted comma", input: `"a,b", c`, sep: ',', expected: []string{`"a,b"`, "c"}},
		{name: "backtick", input: "`x`, `y,z`", sep: ',', expected: []string{"`x`", "`y,z`"}},
		{name: "brackets", input: "[a.b].c", sep: '.', expected: []string{"[a.b]", "c"}},
		{name: "qualified", input: `"My Table"."Col"`, sep: '.', expected: []string{`"My Table"`, `"Col"`}},
		{name: "empty", input: " ", sep: ',', expected: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, splitIdentList(tt.input, tt.sep))
		})
	}
}

func TestUnquoteIdent(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{`"notNullableString"`, "notNullableString"},
		{"`not_nullable`", "not_nullable"},
		{"'users_email_unique'", "users_email_unique"},
		{"[Order Lines]", "Order Lines"},
		{`"say ""hi"""`, `say "hi"`},
		{"bare_Ident", "bare_Ident"},
		{`"`, `"`},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, unquoteIdent(tt.input))
		})
	}
}

func TestParseNative_ColumnCaseIsKept(t *testing.T) {
	for _, column := range []string{"not_nullable", "notNullableString", "NotNullable", "NOT_NULLABLE"} {
		t.Run(column, func(t *testing.T) {
			p := parseWithBuiltin(t, DialectPostgres, NativeError{
				Code:    "23502",
				Message: `null value in column "` + column + `" of relation "theTable" violates not-null constraint`,
			})
			assert.Equal(t, KindNotNull, p.kind)
			assert.Equal(t, column, p.column)
			assert.Equal(t, "theTable", p.table)

			p = parseWithBuiltin(t, DialectMySQL, NativeError{
				Errno:   1048,
				State:   "23000",
				Message: "Column '" + column + "' cannot be null",
			})
			assert.Equal(t, column, p.column)

			p = parseWithBuiltin(t, DialectSQLite, NativeError{
				Errno:   1299,
				Message: "NOT NULL constraint failed: theTable." + column,
			})
			assert.Equal(t, column, p.column)
			assert.Equal(t, "theTable", p.table)
		})
	}
}

func TestParseNative_StructuredFieldsWin(t *testing.T) {
	p := parseWithBuiltin(t, DialectPostgres, NativeError{
		Code:    "23502",
		Message: `null value in column "from_message" of relation "message_table" violates not-null constraint`,
		Table:   "structured_table",
		Column:  "structured_column",
	})

	assert.Equal(t, "structured_table", p.table)
	assert.Equal(t, "structured_column", p.column)
}

func TestParseNative_Unclassified(t *testing.T) {
	p := parseWithBuiltin(t, DialectPostgres, NativeError{
		Code:    "42P01",
		Message: `relation "missing" does not exist`,
		Table:   "missing",
	})

	assert.Equal(t, parsed{}, p)
}

func TestParseNative_PatternRefinesGenericConstraint(t *testing.T) {
	p := parseWithBuiltin(t, DialectSQLite, NativeError{
		Errno:   19,
		Message: "UNIQUE constraint failed: users.email",
	})

	assert.Equal(t, KindUnique, p.kind)
	assert.Equal(t, "users", p.table)
	assert.Equal(t, "email", p.column)
}

func TestParseNative_PatternDoesNotOverrideSpecificKind(t *testing.T) {
	// 1364 is mapped to not null; a data pattern must not change that.
	p := parseWithBuiltin(t, DialectMySQL, NativeError{
		Errno:   1364,
		State:   "HY000",
		Message: "Field 'email' doesn't have a default value for column 'x' at row 1",
	})

	assert.Equal(t, KindNotNull, p.kind)
	assert.Equal(t, "email", p.column)
}

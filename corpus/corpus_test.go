package corpus

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shibukawa/dberrors"
)

func corpusFiles(t *testing.T) []string {
	t.Helper()

	files, err := filepath.Glob(filepath.Join("..", "testdata", "corpus", "*.yaml"))
	require.NoError(t, err)
	require.NotEmpty(t, files)

	return files
}

func TestCorpus(t *testing.T) {
	cases, err := Load(corpusFiles(t)...)
	require.NoError(t, err)

	results := Run(dberrors.New(), cases)
	require.Len(t, results, len(cases))

	for _, r := range results {
		t.Run(r.Case.Name, func(t *testing.T) {
			assert.Empty(t, r.Mismatches, "%s: %v", r.Case.Source(), r.Native)
		})
	}

	assert.Empty(t, Failed(results))
}

func TestCase_NativeError(t *testing.T) {
	t.Run("pgx", func(t *testing.T) {
		err := (&Case{Driver: DriverPgx, Code: "23505", Message: "m", Table: "t"}).NativeError()

		var pgErr *pgconn.PgError
		require.True(t, errors.As(err, &pgErr))
		assert.Equal(t, "23505", pgErr.Code)
		assert.Equal(t, "t", pgErr.TableName)
	})

	t.Run("pq", func(t *testing.T) {
		err := (&Case{Driver: DriverPq, Code: "23505", Message: "m", Constraint: "k"}).NativeError()

		var pqErr *pq.Error
		require.True(t, errors.As(err, &pqErr))
		assert.Equal(t, pq.ErrorCode("23505"), pqErr.Code)
		assert.Equal(t, "k", pqErr.Constraint)
	})

	t.Run("mysql", func(t *testing.T) {
		err := (&Case{Driver: DriverMySQL, Errno: 1062, State: "23000", Message: "m"}).NativeError()

		var myErr *mysql.MySQLError
		require.True(t, errors.As(err, &myErr))
		assert.Equal(t, uint16(1062), myErr.Number)
		assert.Equal(t, [5]byte{'2', '3', '0', '0', '0'}, myErr.SQLState)
	})

	t.Run("sqlite", func(t *testing.T) {
		err := (&Case{Driver: DriverSQLite, Errno: 2067, Message: "UNIQUE constraint failed: t.c"}).NativeError()

		var sqliteErr sqlite3.Error
		require.True(t, errors.As(err, &sqliteErr))
		assert.Equal(t, sqlite3.ErrConstraint, sqliteErr.Code)
		assert.Equal(t, sqlite3.ErrConstraintUnique, sqliteErr.ExtendedCode)
		assert.Equal(t, "UNIQUE constraint failed: t.c", err.Error())
	})

	t.Run("text", func(t *testing.T) {
		err := (&Case{Driver: DriverText, Message: "plain"}).NativeError()
		assert.EqualError(t, err, "plain")
	})
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{name: "no cases", doc: "cases: []\n"},
		{name: "unknown key", doc: "cases:\n  - name: a\n    driver: text\n    message: m\n    hint: x\n    expect:\n      passthrough: true\n"},
		{name: "unknown driver", doc: "cases:\n  - name: a\n    driver: oracle\n    message: m\n    expect:\n      passthrough: true\n"},
		{name: "missing message", doc: "cases:\n  - name: a\n    driver: text\n    expect:\n      passthrough: true\n"},
		{name: "errno out of range", doc: "cases:\n  - name: a\n    driver: mysql\n    errno: 66598\n    message: m\n    expect:\n      passthrough: true\n"},
		{name: "bad sqlstate", doc: "cases:\n  - name: a\n    driver: pgx\n    code: \"235\"\n    message: m\n    expect:\n      passthrough: true\n"},
		{name: "missing kind", doc: "cases:\n  - name: a\n    driver: text\n    message: m\n    expect:\n      table: t\n"},
		{name: "unknown kind", doc: "cases:\n  - name: a\n    driver: text\n    message: m\n    expect:\n      kind: deadlock\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			assert.ErrorIs(t, err, ErrInvalidCorpus)
		})
	}
}

func TestRun_ReportsMismatches(t *testing.T) {
	cases := []*Case{
		{
			Name:    "wrong column",
			Driver:  DriverSQLite,
			Errno:   1299,
			Message: "NOT NULL constraint failed: theTable.not_nullable",
			Expect:  Expect{Kind: "not null violation", Table: "theTable", Column: "other"},
		},
		{
			Name:    "expected passthrough",
			Driver:  DriverSQLite,
			Errno:   787,
			Message: "FOREIGN KEY constraint failed",
			Expect:  Expect{Passthrough: true},
		},
		{
			Name:    "expected normalization",
			Driver:  DriverText,
			Message: "connection reset by peer",
			Expect:  Expect{Kind: "unique violation"},
		},
	}

	results := Run(dberrors.New(), cases)

	require.Len(t, Failed(results), 3)
	assert.Equal(t, []string{`column: want "other", got "not_nullable"`}, results[0].Mismatches)
	assert.Contains(t, results[1].Mismatches[0], "expected passthrough")
	assert.Equal(t, []string{"expected a normalized error, got passthrough"}, results[2].Mismatches)
}

func TestCapture(t *testing.T) {
	native := &pgconn.PgError{
		Code:       "23502",
		Message:    `null value in column "notNullableString" of relation "theTable" violates not-null constraint`,
		TableName:  "theTable",
		ColumnName: "notNullableString",
	}

	c, ok := Capture("captured", native)
	require.True(t, ok)
	assert.Equal(t, DriverPgx, c.Driver)
	assert.Equal(t, "23502", c.Code)

	replayed, ok := dberrors.AsError(dberrors.WrapError(c.NativeError()))
	require.True(t, ok)
	assert.Equal(t, dberrors.KindNotNull, replayed.Kind())
	assert.Equal(t, "notNullableString", replayed.Column())

	_, ok = Capture("nothing", nil)
	assert.False(t, ok)
}

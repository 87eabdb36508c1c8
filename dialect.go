package dberrors

import (
	"regexp"
	"strings"
)

// Dialect identifies the engine family whose error conventions a parser targets.
type Dialect string

const (
	DialectUnknown  Dialect = ""
	DialectPostgres Dialect = "postgres"
	DialectMySQL    Dialect = "mysql"
	DialectSQLite   Dialect = "sqlite"
)

// Dialects lists the dialects that have a parser, in detection order.
var Dialects = []Dialect{DialectPostgres, DialectMySQL, DialectSQLite}

func (d Dialect) String() string {
	if d == DialectUnknown {
		return "unknown"
	}

	return string(d)
}

// ParseDialect maps a dialect or driver name to a Dialect.
func ParseDialect(name string) Dialect {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "postgres", "postgresql", "pgx", "pq":
		return DialectPostgres
	case "mysql", "mariadb":
		return DialectMySQL
	case "sqlite", "sqlite3":
		return DialectSQLite
	}

	return DialectUnknown
}

var (
	sqlStatePattern  = regexp.MustCompile(`^[0-9A-Z]{5}$`)
	sqliteVocabulary = regexp.MustCompile(`(?:NOT NULL|UNIQUE|FOREIGN KEY|CHECK) constraint failed`)
)

// detectionRule is one shape predicate of the detector.
type detectionRule struct {
	dialect Dialect
	match   func(NativeError) bool
}

// detectionRules are evaluated in order; the first match wins.
var detectionRules = []detectionRule{
	{
		dialect: DialectPostgres,
		match: func(n NativeError) bool {
			return n.Errno == 0 && sqlStatePattern.MatchString(n.Code)
		},
	},
	{
		dialect: DialectMySQL,
		match: func(n NativeError) bool {
			return n.Errno > 0 && isMySQLEngine(n.Engine)
		},
	},
	{
		dialect: DialectSQLite,
		match: func(n NativeError) bool {
			return n.Engine == EngineSQLite || sqliteVocabulary.MatchString(n.Message)
		},
	},
}

// Detect decides which dialect produced n. It never fails; unrecognised
// shapes yield DialectUnknown.
func Detect(n NativeError) Dialect {
	for _, rule := range detectionRules {
		if rule.match(n) {
			return rule.dialect
		}
	}

	return DialectUnknown
}

func isMySQLEngine(engine string) bool {
	switch strings.ToLower(engine) {
	case EngineMySQL, "mariadb":
		return true
	}

	return false
}

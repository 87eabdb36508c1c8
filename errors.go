package dberrors

import (
	"errors"
	"fmt"
	"strings"
)

// Capability errors. A normalized *Error answers errors.Is for every level
// of the taxonomy it belongs to.
var (
	// ErrDatabase is satisfied by every normalized error.
	ErrDatabase = errors.New("database error")
	// ErrConstraintViolation is satisfied by not null, unique, foreign key,
	// check and generic constraint violations.
	ErrConstraintViolation = errors.New("constraint violation")
	// ErrNotNullViolation is satisfied only by not null violations.
	ErrNotNullViolation = errors.New("not null violation")
	// ErrUniqueViolation is satisfied only by unique violations.
	ErrUniqueViolation = errors.New("unique violation")
	// ErrForeignKeyViolation is satisfied only by foreign key violations.
	ErrForeignKeyViolation = errors.New("foreign key violation")
	// ErrCheckViolation is satisfied only by check constraint violations.
	ErrCheckViolation = errors.New("check violation")
	// ErrDataError is satisfied by invalid, out of range or oversized values.
	ErrDataError = errors.New("data error")
)

// Loading errors
var (
	// ErrInvalidKind is returned when a kind name is not recognised.
	ErrInvalidKind = errors.New("invalid error kind")
	// ErrInvalidPatternSet is returned when a pattern set fails to decode, validate or compile.
	ErrInvalidPatternSet = errors.New("invalid pattern set")
	// ErrConfigValidation is returned when configuration validation fails.
	ErrConfigValidation = errors.New("configuration validation failed")
)

// Error is a database error normalized into the kind taxonomy.
// It is built once by the Normalizer and never modified afterwards.
type Error struct {
	kind       Kind
	dialect    Dialect
	code       string
	schema     string
	table      string
	column     string
	columns    []string
	constraint string
	native     error
}

func newError(dialect Dialect, native NativeError, p parsed, err error) *Error {
	var columns []string
	if len(p.columns) > 0 {
		columns = append(columns, p.columns...)
	}

	return &Error{
		kind:       p.kind,
		dialect:    dialect,
		code:       native.codeText(),
		schema:     p.schema,
		table:      p.table,
		column:     p.column,
		columns:    columns,
		constraint: p.constraint,
		native:     err,
	}
}

// Kind returns the violation kind.
func (e *Error) Kind() Kind { return e.kind }

// Dialect returns the engine family that produced the native error.
func (e *Error) Dialect() Dialect { return e.dialect }

// Code returns the native status code as text (SQLSTATE, errno or result code).
func (e *Error) Code() string { return e.code }

// Schema returns the schema name, or "" when the engine did not report one.
func (e *Error) Schema() string { return e.schema }

// Table returns the table name, or "" when it cannot be determined reliably.
func (e *Error) Table() string { return e.table }

// Column returns the single offending column, or "" when unknown or when a
// unique violation spans several columns.
func (e *Error) Column() string { return e.column }

// Columns returns every column named by the error. The slice is a copy.
func (e *Error) Columns() []string {
	if len(e.columns) == 0 {
		return nil
	}

	return append([]string(nil), e.columns...)
}

// Constraint returns the violated constraint name, or "".
func (e *Error) Constraint() string { return e.constraint }

// Native returns the original driver error.
func (e *Error) Native() error { return e.native }

// Unwrap exposes the native error to errors.Is and errors.As.
func (e *Error) Unwrap() error { return e.native }

// Is reports whether target is a capability this error's kind belongs to.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrDatabase:
		return true
	case ErrConstraintViolation:
		return e.kind.IsConstraint()
	case nil:
		return false
	}

	return target == e.kind.sentinel()
}

func (e *Error) Error() string {
	var b strings.Builder

	b.WriteString(e.kind.String())

	var details []string
	if e.table != "" {
		details = append(details, fmt.Sprintf("table %q", e.table))
	}

	switch {
	case e.column != "":
		details = append(details, fmt.Sprintf("column %q", e.column))
	case len(e.columns) > 1:
		details = append(details, fmt.Sprintf("columns (%s)", strings.Join(e.columns, ", ")))
	}

	if e.constraint != "" {
		details = append(details, fmt.Sprintf("constraint %q", e.constraint))
	}

	if len(details) > 0 {
		b.WriteString(" on ")
		b.WriteString(strings.Join(details, ", "))
	}

	if e.native != nil {
		b.WriteString(": ")
		b.WriteString(e.native.Error())
	}

	return b.String()
}

// AsError returns the normalized error in err's chain, if any.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}

	return nil, false
}

// IsDatabaseError reports whether err is a normalized database error.
func IsDatabaseError(err error) bool {
	return errors.Is(err, ErrDatabase)
}

// IsConstraintViolation reports whether err is any kind of constraint violation.
func IsConstraintViolation(err error) bool {
	return errors.Is(err, ErrConstraintViolation)
}

// IsNotNullViolation reports whether err is a not null violation.
func IsNotNullViolation(err error) bool {
	return errors.Is(err, ErrNotNullViolation)
}

// IsUniqueViolation reports whether err is a unique violation.
func IsUniqueViolation(err error) bool {
	return errors.Is(err, ErrUniqueViolation)
}

// IsForeignKeyViolation reports whether err is a foreign key violation.
func IsForeignKeyViolation(err error) bool {
	return errors.Is(err, ErrForeignKeyViolation)
}

// IsCheckViolation reports whether err is a check constraint violation.
func IsCheckViolation(err error) bool {
	return errors.Is(err, ErrCheckViolation)
}

// IsDataError reports whether err is a data format, range or size error.
func IsDataError(err error) bool {
	return errors.Is(err, ErrDataError)
}

// Package corpus replays captured native database errors through a
// dberrors.Normalizer and verifies the classification.
//
// A corpus file lists cases. Each case describes the native error as the
// driver reported it and the expected outcome:
//
//	cases:
//	  - name: insert null into snake_case column
//	    driver: pgx
//	    code: "23502"
//	    message: null value in column "not_nullable" of relation "theTable" violates not-null constraint
//	    table: theTable
//	    column: not_nullable
//	    expect:
//	      kind: not null violation
//	      table: theTable
//	      column: not_nullable
package corpus

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/go-sql-driver/mysql"
	"github.com/goccy/go-yaml"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"

	"github.com/shibukawa/dberrors"
)

// ErrInvalidCorpus is returned when a corpus file fails to decode or validate.
var ErrInvalidCorpus = errors.New("invalid corpus")

// Drivers a case can rebuild its native error for.
const (
	DriverPgx    = "pgx"
	DriverPq     = "pq"
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"
	DriverText   = "text"
)

// File is the top level document of a corpus file.
type File struct {
	Cases []*Case `yaml:"cases" validate:"required,min=1,dive,required"`
}

// Case is one captured native error with its expected classification.
type Case struct {
	Name       string `yaml:"name" validate:"required"`
	Driver     string `yaml:"driver" validate:"required,oneof=pgx pq mysql sqlite text"`
	Code       string `yaml:"code,omitempty" validate:"omitempty,len=5"`
	Errno      int    `yaml:"errno,omitempty" validate:"gte=0,lte=65535"`
	State      string `yaml:"state,omitempty" validate:"omitempty,len=5"`
	Message    string `yaml:"message" validate:"required"`
	Detail     string `yaml:"detail,omitempty"`
	Schema     string `yaml:"schema,omitempty"`
	Table      string `yaml:"table,omitempty"`
	Column     string `yaml:"column,omitempty"`
	Constraint string `yaml:"constraint,omitempty"`
	DataType   string `yaml:"data_type,omitempty"`
	Expect     Expect `yaml:"expect"`

	source string
}

// Expect is the expected outcome of normalizing a case. Empty fields must be
// empty in the result too; Columns is only compared when set.
type Expect struct {
	Passthrough bool     `yaml:"passthrough,omitempty"`
	Kind        string   `yaml:"kind,omitempty"`
	Dialect     string   `yaml:"dialect,omitempty"`
	Schema      string   `yaml:"schema,omitempty"`
	Table       string   `yaml:"table,omitempty"`
	Column      string   `yaml:"column,omitempty"`
	Columns     []string `yaml:"columns,omitempty"`
	Constraint  string   `yaml:"constraint,omitempty"`
}

var caseValidator = validator.New()

// Parse decodes and validates a corpus document.
func Parse(data []byte) ([]*Case, error) {
	var file File

	err := yaml.UnmarshalWithOptions(data, &file, yaml.Strict())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCorpus, err)
	}

	if err := caseValidator.Struct(&file); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCorpus, err)
	}

	for i, c := range file.Cases {
		if c.Expect.Passthrough {
			continue
		}

		if _, err := dberrors.ParseKind(c.Expect.Kind); err != nil || c.Expect.Kind == "" {
			return nil, fmt.Errorf("%w: cases[%d] %q: expect.kind %q", ErrInvalidCorpus, i, c.Name, c.Expect.Kind)
		}
	}

	return file.Cases, nil
}

// Load reads the corpus files in order and returns all of their cases.
func Load(paths ...string) ([]*Case, error) {
	var cases []*Case

	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read corpus file: %w", err)
		}

		loaded, err := Parse(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}

		for _, c := range loaded {
			c.source = path
		}

		cases = append(cases, loaded...)
	}

	return cases, nil
}

// Source returns the file the case was loaded from, if any.
func (c *Case) Source() string {
	return c.source
}

// NativeError rebuilds the error value the driver returned.
func (c *Case) NativeError() error {
	switch c.Driver {
	case DriverPgx:
		return &pgconn.PgError{
			Severity:       "ERROR",
			Code:           c.Code,
			Message:        c.Message,
			Detail:         c.Detail,
			SchemaName:     c.Schema,
			TableName:      c.Table,
			ColumnName:     c.Column,
			ConstraintName: c.Constraint,
			DataTypeName:   c.DataType,
		}
	case DriverPq:
		return &pq.Error{
			Severity:     "ERROR",
			Code:         pq.ErrorCode(c.Code),
			Message:      c.Message,
			Detail:       c.Detail,
			Schema:       c.Schema,
			Table:        c.Table,
			Column:       c.Column,
			Constraint:   c.Constraint,
			DataTypeName: c.DataType,
		}
	case DriverMySQL:
		myErr := &mysql.MySQLError{
			Number:  uint16(c.Errno),
			Message: c.Message,
		}
		copy(myErr.SQLState[:], c.State)

		return myErr
	case DriverSQLite:
		return &capturedError{
			message: c.Message,
			cause: sqlite3.Error{
				Code:         sqlite3.ErrNo(c.Errno & 0xff),
				ExtendedCode: sqlite3.ErrNoExtended(c.Errno),
			},
		}
	}

	return errors.New(c.Message)
}

// capturedError carries a recorded message in front of a driver error value
// whose own text cannot be set from outside its package.
type capturedError struct {
	message string
	cause   error
}

func (e *capturedError) Error() string { return e.message }

func (e *capturedError) Unwrap() error { return e.cause }

// Capture records a live driver error as a case, for building corpus files
// from integration runs.
func Capture(name string, err error) (*Case, bool) {
	native, ok := dberrors.Inspect(err)
	if !ok {
		return nil, false
	}

	c := &Case{
		Name:       name,
		Driver:     driverFor(native.Engine),
		Code:       native.Code,
		Errno:      native.Errno,
		State:      native.State,
		Message:    native.Message,
		Detail:     native.Detail,
		Schema:     native.Schema,
		Table:      native.Table,
		Column:     native.Column,
		Constraint: native.Constraint,
		DataType:   native.DataType,
	}

	if c.Driver == DriverText {
		c.Code = ""
	}

	return c, true
}

func driverFor(engine string) string {
	switch engine {
	case dberrors.EnginePgx:
		return DriverPgx
	case dberrors.EnginePq:
		return DriverPq
	case dberrors.EngineMySQL:
		return DriverMySQL
	case dberrors.EngineSQLite:
		return DriverSQLite
	}

	return DriverText
}

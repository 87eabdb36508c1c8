package dberrors

import (
	"bytes"
	"errors"
	"regexp"
	"strconv"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
)

// Engine markers set by Inspect for the drivers it recognises.
const (
	EnginePgx    = "pgx"
	EnginePq     = "pq"
	EngineMySQL  = "mysql"
	EngineSQLite = "sqlite3"
)

// NativeError is a read-only structural view of a driver error.
// Every field is optional; which ones are set depends on the driver.
type NativeError struct {
	Engine     string // driver marker, see Engine* constants
	Code       string // SQLSTATE-style status code
	Errno      int    // numeric engine error number
	State      string // SQLSTATE reported next to an errno
	Message    string
	Detail     string
	Schema     string
	Table      string
	Column     string
	Constraint string
	DataType   string
}

// sqlStater is the commonly implemented SQLSTATE accessor.
type sqlStater interface {
	SQLState() string
}

// go-sql-driver renders errors as "Error 1062 (23000): Duplicate entry ..."
// and "Error 1062: ..." when the server sent no SQLSTATE.
var mysqlTextError = regexp.MustCompile(`^Error (\d{1,5})(?: \(([0-9A-Z]{5})\))?: (.*)$`)

// Inspect builds the structural view of err. It reports false when err is
// nil or carries neither a code nor a message.
func Inspect(err error) (NativeError, bool) {
	if err == nil {
		return NativeError{}, false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return NativeError{
			Engine:     EnginePgx,
			Code:       pgErr.Code,
			Message:    pgErr.Message,
			Detail:     pgErr.Detail,
			Schema:     pgErr.SchemaName,
			Table:      pgErr.TableName,
			Column:     pgErr.ColumnName,
			Constraint: pgErr.ConstraintName,
			DataType:   pgErr.DataTypeName,
		}, true
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return NativeError{
			Engine:     EnginePq,
			Code:       string(pqErr.Code),
			Message:    pqErr.Message,
			Detail:     pqErr.Detail,
			Schema:     pqErr.Schema,
			Table:      pqErr.Table,
			Column:     pqErr.Column,
			Constraint: pqErr.Constraint,
			DataType:   pqErr.DataTypeName,
		}, true
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return NativeError{
			Engine:  EngineMySQL,
			Errno:   int(myErr.Number),
			State:   string(bytes.TrimRight(myErr.SQLState[:], "\x00")),
			Message: myErr.Message,
		}, true
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		// The outer text keeps the sqlite message even when the driver error
		// was rebuilt without it.
		return NativeError{
			Engine:  EngineSQLite,
			Errno:   int(sqliteErr.ExtendedCode),
			Message: err.Error(),
		}, true
	}

	var stater sqlStater
	if errors.As(err, &stater) {
		return NativeError{
			Code:    stater.SQLState(),
			Message: err.Error(),
		}, true
	}

	message := err.Error()

	if m := mysqlTextError.FindStringSubmatch(message); m != nil {
		errno, convErr := strconv.Atoi(m[1])
		if convErr == nil {
			return NativeError{
				Engine:  EngineMySQL,
				Errno:   errno,
				State:   m[2],
				Message: m[3],
			}, true
		}
	}

	if message == "" {
		return NativeError{}, false
	}

	return NativeError{Message: message}, true
}

// codeText renders whichever native code is present.
func (n NativeError) codeText() string {
	switch {
	case n.Code != "":
		return n.Code
	case n.Errno != 0:
		return strconv.Itoa(n.Errno)
	}

	return ""
}

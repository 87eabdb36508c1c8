// Package jujuerr converts normalized database errors into juju/errors kinds,
// which API layers already map to status codes.
package jujuerr

import (
	"database/sql"
	stderrors "errors"

	"github.com/juju/errors"

	"github.com/shibukawa/dberrors"
)

// Interpreter normalizes an error with its Normalizer, then builds the
// matching juju error. A nil Normalizer uses dberrors.WrapError.
type Interpreter struct {
	Normalizer *dberrors.Normalizer
}

// Interpret converts a driver error into a juju error:
//
//   - sql.ErrNoRows                        -> NotFound
//   - unique violation                     -> AlreadyExists
//   - other constraint violations and data -> NotValid
//
// Anything else is returned unchanged.
func (i Interpreter) Interpret(err error) error {
	if err == nil {
		return nil
	}

	if stderrors.Is(err, sql.ErrNoRows) {
		return errors.NewNotFound(err, "")
	}

	normalized := i.wrap(err)

	wrapped, ok := dberrors.AsError(normalized)
	if !ok {
		return err
	}

	switch {
	case wrapped.Kind() == dberrors.KindUnique:
		return errors.NewAlreadyExists(wrapped, wrapped.UserMessage())
	case wrapped.Kind().IsConstraint(), wrapped.Kind() == dberrors.KindData:
		return errors.NewNotValid(wrapped, wrapped.UserMessage())
	}

	return err
}

func (i Interpreter) wrap(err error) error {
	if i.Normalizer == nil {
		return dberrors.WrapError(err)
	}

	return i.Normalizer.Wrap(err)
}

var interpreter = Interpreter{}

// Interpret converts a driver error into a juju error using the builtin
// pattern sets.
func Interpret(err error) error {
	return interpreter.Interpret(err)
}

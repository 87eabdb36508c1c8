package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/shibukawa/dberrors"
	"github.com/shibukawa/dberrors/corpus"
)

// ClassifyCmd represents the classify command
type ClassifyCmd struct {
	Message    string `arg:"" help:"Error message as reported by the driver"`
	Driver     string `help:"Driver that produced the error (pgx, pq, mysql, sqlite, text)" default:"text" short:"d"`
	Code       string `help:"SQLSTATE code (pgx, pq)"`
	Errno      int    `help:"Numeric error number (mysql errno, sqlite extended result code)"`
	State      string `help:"SQLSTATE sent next to a mysql errno"`
	Detail     string `help:"Detail text (pgx, pq)"`
	Schema     string `help:"Structured schema name (pgx, pq)"`
	Table      string `help:"Structured table name (pgx, pq)"`
	Column     string `help:"Structured column name (pgx, pq)"`
	Constraint string `help:"Structured constraint name (pgx, pq)"`
}

// Run executes the classify command
func (cmd *ClassifyCmd) Run(ctx *Context) error {
	c, err := cmd.buildCase()
	if err != nil {
		return err
	}

	_, normalizer, _, err := ctx.setup()
	if err != nil {
		return err
	}

	native := c.NativeError()
	result := normalizer.Wrap(native)

	if ctx.Quiet {
		return nil
	}

	printClassification(ctx.Stdout, result)

	return nil
}

func (cmd *ClassifyCmd) buildCase() (*corpus.Case, error) {
	if strings.TrimSpace(cmd.Message) == "" {
		return nil, ErrMessageRequired
	}

	switch cmd.Driver {
	case corpus.DriverPgx, corpus.DriverPq, corpus.DriverMySQL, corpus.DriverSQLite, corpus.DriverText:
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedDriver, cmd.Driver)
	}

	return &corpus.Case{
		Name:       "command line",
		Driver:     cmd.Driver,
		Code:       cmd.Code,
		Errno:      cmd.Errno,
		State:      cmd.State,
		Message:    cmd.Message,
		Detail:     cmd.Detail,
		Schema:     cmd.Schema,
		Table:      cmd.Table,
		Column:     cmd.Column,
		Constraint: cmd.Constraint,
	}, nil
}

func printClassification(w io.Writer, result error) {
	wrapped, ok := dberrors.AsError(result)
	if !ok {
		color.New(color.FgYellow).Fprintf(w, "passed through: %v\n", result)
		return
	}

	color.New(color.FgGreen, color.Bold).Fprintf(w, "%s\n", wrapped.Kind())

	fields := []struct {
		name  string
		value string
	}{
		{"dialect", wrapped.Dialect().String()},
		{"code", wrapped.Code()},
		{"schema", wrapped.Schema()},
		{"table", wrapped.Table()},
		{"column", wrapped.Column()},
		{"columns", strings.Join(wrapped.Columns(), ", ")},
		{"constraint", wrapped.Constraint()},
		{"app code", wrapped.AppCode()},
		{"message", wrapped.UserMessage()},
	}

	for _, field := range fields {
		if field.value == "" {
			continue
		}

		fmt.Fprintf(w, "  %-11s %s\n", field.name+":", field.value)
	}
}

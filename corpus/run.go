package corpus

import (
	"fmt"
	"slices"

	"github.com/shibukawa/dberrors"
)

// Result is the outcome of replaying one case.
type Result struct {
	Case       *Case
	Native     error
	Got        error
	Mismatches []string
}

// OK reports whether the case matched its expectation.
func (r Result) OK() bool {
	return len(r.Mismatches) == 0
}

// Run replays every case through n.
func Run(n *dberrors.Normalizer, cases []*Case) []Result {
	results := make([]Result, 0, len(cases))

	for _, c := range cases {
		native := c.NativeError()
		got := n.Wrap(native)

		results = append(results, Result{
			Case:       c,
			Native:     native,
			Got:        got,
			Mismatches: c.verify(native, got),
		})
	}

	return results
}

// Failed filters the results that did not match.
func Failed(results []Result) []Result {
	var failed []Result

	for _, r := range results {
		if !r.OK() {
			failed = append(failed, r)
		}
	}

	return failed
}

func (c *Case) verify(native, got error) []string {
	wrapped, normalized := dberrors.AsError(got)

	if c.Expect.Passthrough {
		if normalized || got != native {
			return []string{fmt.Sprintf("expected passthrough, got %v", got)}
		}

		return nil
	}

	if !normalized {
		return []string{"expected a normalized error, got passthrough"}
	}

	var mismatches []string

	check := func(field, want, actual string) {
		if want != actual {
			mismatches = append(mismatches, fmt.Sprintf("%s: want %q, got %q", field, want, actual))
		}
	}

	kind, _ := dberrors.ParseKind(c.Expect.Kind)
	check("kind", kind.String(), wrapped.Kind().String())

	if c.Expect.Dialect != "" {
		check("dialect", dberrors.ParseDialect(c.Expect.Dialect).String(), wrapped.Dialect().String())
	}

	check("schema", c.Expect.Schema, wrapped.Schema())
	check("table", c.Expect.Table, wrapped.Table())
	check("column", c.Expect.Column, wrapped.Column())
	check("constraint", c.Expect.Constraint, wrapped.Constraint())

	if c.Expect.Columns != nil && !slices.Equal(c.Expect.Columns, wrapped.Columns()) {
		mismatches = append(mismatches, fmt.Sprintf("columns: want %v, got %v", c.Expect.Columns, wrapped.Columns()))
	}

	if wrapped.Native() != native {
		mismatches = append(mismatches, "native error is not the replayed driver error")
	}

	return mismatches
}

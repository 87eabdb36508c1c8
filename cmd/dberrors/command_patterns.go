package main

import (
	"fmt"
	"io"
	"slices"

	"github.com/fatih/color"

	"github.com/shibukawa/dberrors"
)

// PatternsCmd represents the patterns command
type PatternsCmd struct {
	Dialect string `help:"Show only this dialect (postgres, mysql, sqlite)" short:"d"`
}

// Run executes the patterns command
func (cmd *PatternsCmd) Run(ctx *Context) error {
	dialects := dberrors.Dialects

	if cmd.Dialect != "" {
		dialect := dberrors.ParseDialect(cmd.Dialect)
		if dialect == dberrors.DialectUnknown {
			return fmt.Errorf("%w: %s", ErrUnknownDialect, cmd.Dialect)
		}

		dialects = []dberrors.Dialect{dialect}
	}

	_, normalizer, _, err := ctx.setup()
	if err != nil {
		return err
	}

	sets := normalizer.PatternSets()

	for _, dialect := range dialects {
		set, ok := sets[dialect]
		if !ok {
			continue
		}

		printPatternSet(ctx.Stdout, set, ctx.Verbose)
	}

	return nil
}

func printPatternSet(w io.Writer, set *dberrors.PatternSet, verbose bool) {
	color.New(color.FgCyan, color.Bold).Fprintf(w, "%s", set.Dialect)
	fmt.Fprintf(w, " v%d: %d codes, %d classes, %d patterns, %d conventions\n",
		set.Version, len(set.Codes), len(set.Classes), len(set.Patterns), len(set.Conventions))

	if !verbose {
		return
	}

	printKindTable(w, "code", set.Codes)
	printKindTable(w, "class", set.Classes)

	for _, p := range set.Patterns {
		source := p.Source
		if source == "" {
			source = "message"
		}

		fmt.Fprintf(w, "  pattern    %-8s %-22s %s\n", source, p.Kind, p.Pattern)
	}

	for _, c := range set.Conventions {
		fmt.Fprintf(w, "  convention %-31s %s\n", c.Kind, c.Template)
	}
}

func printKindTable(w io.Writer, label string, table map[string]string) {
	keys := make([]string, 0, len(table))
	for key := range table {
		keys = append(keys, key)
	}

	slices.Sort(keys)

	for _, key := range keys {
		fmt.Fprintf(w, "  %-10s %-8s %s\n", label, key, table[key])
	}
}

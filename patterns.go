package dberrors

import (
	"embed"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-yaml"
)

//go:embed patterns/*.yaml
var builtinPatternFS embed.FS

// PatternSet is the versioned classification data of one dialect: native code
// tables, message patterns and constraint naming conventions.
type PatternSet struct {
	Dialect     Dialect             `yaml:"dialect" validate:"required,oneof=postgres mysql sqlite"`
	Version     int                 `yaml:"version" validate:"gte=1"`
	Codes       map[string]string   `yaml:"codes"`
	Classes     map[string]string   `yaml:"classes"`
	Patterns    []*MessagePattern   `yaml:"patterns" validate:"dive,required"`
	Conventions []*NamingConvention `yaml:"conventions" validate:"dive,required"`

	codes   map[string]Kind
	classes map[string]Kind
}

// MessagePattern extracts fields from a message or detail text and may
// classify the error when the native code did not.
type MessagePattern struct {
	Kind    string `yaml:"kind"`
	Source  string `yaml:"source" validate:"omitempty,oneof=message detail"`
	Pattern string `yaml:"pattern" validate:"required"`

	kind Kind
	re   *regexp.Regexp
}

// NamingConvention is a constraint name template such as "{table}_{column}_key".
type NamingConvention struct {
	Kind     string `yaml:"kind" validate:"required"`
	Template string `yaml:"template" validate:"required"`

	kind   Kind
	before string
	after  string
}

const (
	sourceMessage = "message"
	sourceDetail  = "detail"
)

// identPattern matches one identifier, quoted in any of the styles engines use
// or bare. Quotes are stripped later by unquoteIdent.
const identPattern = `(?:"(?:[^"]|"")+"|` + "`(?:[^`]|``)+`" + `|\[[^\]]+\]|'(?:[^']|'')+'|[\p{L}_][\p{L}\p{N}_$]*)`

const qualifiedPattern = identPattern + `(?:\.` + identPattern + `)*`

// {column_list} captures names printed without quoting, as in
// "table.column, table.column"; patterns using it must anchor the end.
var macroReplacer = strings.NewReplacer(
	"{ident}", identPattern,
	"{schema}", `(?P<schema>`+identPattern+`)`,
	"{table}", `(?P<table>`+identPattern+`)`,
	"{columns}", `(?P<columns>`+qualifiedPattern+`(?:\s*,\s*`+qualifiedPattern+`)*)`,
	"{column}", `(?P<column>`+identPattern+`)`,
	"{column_list}", `(?P<column_list>.+?)`,
	"{constraint}", `(?P<constraint>`+identPattern+`)`,
)

var patternValidator = validator.New()

// ParsePatternSet decodes, validates and compiles a pattern set document.
func ParsePatternSet(data []byte) (*PatternSet, error) {
	var set PatternSet

	err := yaml.UnmarshalWithOptions(data, &set, yaml.Strict())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPatternSet, err)
	}

	if err := patternValidator.Struct(&set); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPatternSet, err)
	}

	if err := set.compile(); err != nil {
		return nil, err
	}

	return &set, nil
}

// LoadPatternSetFile reads a pattern set from disk.
func LoadPatternSetFile(path string) (*PatternSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read pattern set: %w", err)
	}

	set, err := ParsePatternSet(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return set, nil
}

func (s *PatternSet) compile() error {
	var err error

	s.codes, err = compileKindTable(s.Codes)
	if err != nil {
		return fmt.Errorf("%w: %s codes: %w", ErrInvalidPatternSet, s.Dialect, err)
	}

	s.classes, err = compileKindTable(s.Classes)
	if err != nil {
		return fmt.Errorf("%w: %s classes: %w", ErrInvalidPatternSet, s.Dialect, err)
	}

	for i, p := range s.Patterns {
		if err := p.compile(); err != nil {
			return fmt.Errorf("%w: %s patterns[%d]: %w", ErrInvalidPatternSet, s.Dialect, i, err)
		}
	}

	for i, c := range s.Conventions {
		if err := c.compile(); err != nil {
			return fmt.Errorf("%w: %s conventions[%d]: %w", ErrInvalidPatternSet, s.Dialect, i, err)
		}
	}

	return nil
}

func compileKindTable(src map[string]string) (map[string]Kind, error) {
	table := make(map[string]Kind, len(src))

	for code, name := range src {
		kind, err := ParseKind(name)
		if err != nil {
			return nil, fmt.Errorf("code %s: %w", code, err)
		}

		if kind == KindUnclassified {
			return nil, fmt.Errorf("code %s: %w: empty kind", code, ErrInvalidKind)
		}

		table[code] = kind
	}

	return table, nil
}

func (p *MessagePattern) compile() error {
	kind, err := ParseKind(p.Kind)
	if err != nil {
		return err
	}

	re, err := regexp.Compile(macroReplacer.Replace(p.Pattern))
	if err != nil {
		return err
	}

	if p.Source == "" {
		p.Source = sourceMessage
	}

	p.kind = kind
	p.re = re

	return nil
}

// text picks the native field the pattern reads.
func (p *MessagePattern) text(n NativeError) string {
	if p.Source == sourceDetail {
		return n.Detail
	}

	return n.Message
}

func (c *NamingConvention) compile() error {
	kind, err := ParseKind(c.Kind)
	if err != nil {
		return err
	}

	before, after, found := strings.Cut(c.Template, "{column}")
	if !found || strings.Contains(after, "{column}") {
		return fmt.Errorf("template %q must contain {column} exactly once", c.Template)
	}

	if strings.Contains(after, "{table}") || strings.Count(before, "{table}") > 1 {
		return fmt.Errorf("template %q must place {table} once, before {column}", c.Template)
	}

	c.kind = kind
	c.before = before
	c.after = after

	return nil
}

// lookup returns the kind for the first code found in the exact table, then
// in the class table.
func (s *PatternSet) lookup(codes, classes []string) Kind {
	for _, code := range codes {
		if kind, ok := s.codes[code]; ok {
			return kind
		}
	}

	for _, class := range classes {
		if kind, ok := s.classes[class]; ok {
			return kind
		}
	}

	return KindUnclassified
}

// merge returns a new set where overlay's codes win and overlay's patterns and
// conventions run before the receiver's.
func (s *PatternSet) merge(overlay *PatternSet) *PatternSet {
	merged := &PatternSet{
		Dialect: s.Dialect,
		Version: max(s.Version, overlay.Version),
		Codes:   make(map[string]string, len(s.Codes)+len(overlay.Codes)),
		Classes: make(map[string]string, len(s.Classes)+len(overlay.Classes)),
		codes:   make(map[string]Kind, len(s.codes)+len(overlay.codes)),
		classes: make(map[string]Kind, len(s.classes)+len(overlay.classes)),
	}

	for _, src := range []*PatternSet{s, overlay} {
		for k, v := range src.Codes {
			merged.Codes[k] = v
		}

		for k, v := range src.Classes {
			merged.Classes[k] = v
		}

		for k, v := range src.codes {
			merged.codes[k] = v
		}

		for k, v := range src.classes {
			merged.classes[k] = v
		}
	}

	merged.Patterns = append(append([]*MessagePattern{}, overlay.Patterns...), s.Patterns...)
	merged.Conventions = append(append([]*NamingConvention{}, overlay.Conventions...), s.Conventions...)

	return merged
}

// builtinPatternSets holds the embedded sets, compiled once at init and only
// read afterwards.
var builtinPatternSets = mustLoadBuiltinPatternSets()

func mustLoadBuiltinPatternSets() map[Dialect]*PatternSet {
	sets := make(map[Dialect]*PatternSet, len(Dialects))

	for _, dialect := range Dialects {
		data, err := builtinPatternFS.ReadFile("patterns/" + string(dialect) + ".yaml")
		if err != nil {
			panic(fmt.Sprintf("implementation error: missing builtin pattern set %s: %v", dialect, err))
		}

		set, err := ParsePatternSet(data)
		if err != nil {
			panic(fmt.Sprintf("implementation error: builtin pattern set %s: %v", dialect, err))
		}

		if set.Dialect != dialect {
			panic(fmt.Sprintf("implementation error: builtin pattern set %s declares dialect %s", dialect, set.Dialect))
		}

		sets[dialect] = set
	}

	return sets
}

// BuiltinPatternSet returns the embedded pattern set of a dialect.
func BuiltinPatternSet(dialect Dialect) (*PatternSet, bool) {
	set, ok := builtinPatternSets[dialect]
	return set, ok
}

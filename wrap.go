package dberrors

import (
	"fmt"

	"github.com/rs/zerolog"
)

// Normalizer turns driver errors into *Error values. It is immutable after
// New and safe for concurrent use.
type Normalizer struct {
	patterns map[Dialect]*PatternSet
	logger   zerolog.Logger
	metrics  *Metrics
}

// Option configures a Normalizer.
type Option func(*Normalizer)

// WithLogger sets the logger that receives one debug event per decision.
func WithLogger(logger zerolog.Logger) Option {
	return func(n *Normalizer) {
		n.logger = logger
	}
}

// WithMetrics enables outcome counters.
func WithMetrics(metrics *Metrics) Option {
	return func(n *Normalizer) {
		n.metrics = metrics
	}
}

// WithPatternSet overlays a set returned by ParsePatternSet or
// LoadPatternSetFile on the patterns of its dialect. Its codes override,
// its patterns and conventions run first.
func WithPatternSet(set *PatternSet) Option {
	return func(n *Normalizer) {
		if set == nil {
			return
		}

		if base, ok := n.patterns[set.Dialect]; ok {
			n.patterns[set.Dialect] = base.merge(set)
			return
		}

		n.patterns[set.Dialect] = set
	}
}

// New creates a Normalizer using the builtin pattern sets.
func New(opts ...Option) *Normalizer {
	n := &Normalizer{
		patterns: make(map[Dialect]*PatternSet, len(builtinPatternSets)),
		logger:   zerolog.Nop(),
	}

	for dialect, set := range builtinPatternSets {
		n.patterns[dialect] = set
	}

	for _, opt := range opts {
		opt(n)
	}

	return n
}

// PatternSets returns the pattern set used for each dialect.
func (n *Normalizer) PatternSets() map[Dialect]*PatternSet {
	result := make(map[Dialect]*PatternSet, len(n.patterns))
	for dialect, set := range n.patterns {
		result[dialect] = set
	}

	return result
}

// Wrap normalizes err. It returns err itself when err is nil, already
// normalized, produced by an unknown engine or not classifiable, and a new
// *Error wrapping err otherwise. Wrap never panics.
func (n *Normalizer) Wrap(err error) (result error) {
	if err == nil {
		return nil
	}

	defer func() {
		if r := recover(); r != nil {
			n.logger.Warn().Str("panic", fmt.Sprint(r)).Msg("database error normalization aborted")
			n.metrics.recordPassthrough(reasonPanic)
			result = err
		}
	}()

	if _, ok := AsError(err); ok {
		return n.passthrough(err, reasonAlreadyNormalized)
	}

	native, ok := Inspect(err)
	if !ok {
		return n.passthrough(err, reasonNotInspectable)
	}

	dialect := Detect(native)

	set, ok := n.patterns[dialect]
	if !ok {
		return n.passthrough(err, reasonUnknownDialect)
	}

	p := parseNative(set, dialect, native)
	if p.kind == KindUnclassified {
		return n.passthrough(err, reasonUnclassified)
	}

	wrapped := newError(dialect, native, p, err)

	n.metrics.recordNormalized(dialect, p.kind)
	n.logger.Debug().
		Str("dialect", dialect.String()).
		Str("kind", p.kind.String()).
		Str("code", wrapped.Code()).
		Str("table", p.table).
		Str("column", p.column).
		Str("constraint", p.constraint).
		Msg("normalized database error")

	return wrapped
}

func (n *Normalizer) passthrough(err error, reason string) error {
	n.metrics.recordPassthrough(reason)
	n.logger.Debug().Str("reason", reason).Msg("database error passed through")

	return err
}

var defaultNormalizer = New()

// WrapError normalizes err with the builtin pattern sets.
// See (*Normalizer).Wrap.
func WrapError(err error) error {
	return defaultNormalizer.Wrap(err)
}

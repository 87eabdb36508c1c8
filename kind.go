package dberrors

import (
	"fmt"
	"strings"
)

// Kind is the semantic category of a normalized database error.
// The zero value means the error could not be classified.
type Kind string

const (
	KindUnclassified Kind = ""
	KindNotNull      Kind = "not null violation"
	KindUnique       Kind = "unique violation"
	KindForeignKey   Kind = "foreign key violation"
	KindCheck        Kind = "check violation"
	KindConstraint   Kind = "constraint violation"
	KindData         Kind = "data error"
)

// validKinds contains all kinds a pattern set or fixture may name
var validKinds = map[string]Kind{
	string(KindNotNull):    KindNotNull,
	string(KindUnique):     KindUnique,
	string(KindForeignKey): KindForeignKey,
	string(KindCheck):      KindCheck,
	string(KindConstraint): KindConstraint,
	string(KindData):       KindData,
}

// IsConstraint reports whether k belongs to the constraint violation family.
func (k Kind) IsConstraint() bool {
	switch k {
	case KindNotNull, KindUnique, KindForeignKey, KindCheck, KindConstraint:
		return true
	}

	return false
}

// sentinel returns the capability error answered only by this exact kind.
func (k Kind) sentinel() error {
	switch k {
	case KindNotNull:
		return ErrNotNullViolation
	case KindUnique:
		return ErrUniqueViolation
	case KindForeignKey:
		return ErrForeignKeyViolation
	case KindCheck:
		return ErrCheckViolation
	case KindConstraint:
		return ErrConstraintViolation
	case KindData:
		return ErrDataError
	}

	return nil
}

func (k Kind) String() string {
	if k == KindUnclassified {
		return "unclassified"
	}

	return string(k)
}

// normalizeKindName normalizes kind strings to a canonical form
// - Converts to lowercase: "Unique Violation" → "unique violation"
// - Converts underscores to spaces: "unique_violation" → "unique violation"
// - Converts hyphens to spaces: "unique-violation" → "unique violation"
// - Collapses multiple spaces: "foreign  key  violation" → "foreign key violation"
func normalizeKindName(input string) string {
	normalized := strings.ToLower(input)

	normalized = strings.ReplaceAll(normalized, "_", " ")
	normalized = strings.ReplaceAll(normalized, "-", " ")

	for strings.Contains(normalized, "  ") {
		normalized = strings.ReplaceAll(normalized, "  ", " ")
	}

	return strings.TrimSpace(normalized)
}

// ParseKind parses a kind name written in any of the accepted spellings.
// An empty input yields KindUnclassified without error.
func ParseKind(name string) (Kind, error) {
	normalized := normalizeKindName(name)
	if normalized == "" {
		return KindUnclassified, nil
	}

	kind, ok := validKinds[normalized]
	if !ok {
		return KindUnclassified, fmt.Errorf("%w: %s (original: %s)", ErrInvalidKind, normalized, name)
	}

	return kind, nil
}

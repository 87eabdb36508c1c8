package dberrors

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// UserMessage renders the error for end users, without engine details.
//
// Examples:
//
//	unique on users(email)        -> "A User with this Email already exists"
//	foreign key on user_id        -> "The referenced User does not exist"
//	not null on notNullableString -> "The Not Nullable String is required"
func (e *Error) UserMessage() string {
	entity := entityName(e.table, e.column)
	field := humanizeIdent(e.column)

	switch e.kind {
	case KindForeignKey:
		return fmt.Sprintf("The referenced %s does not exist", entity)
	case KindUnique:
		identifier := "identifier"
		if len(e.columns) > 0 {
			names := make([]string, 0, len(e.columns))
			for _, column := range e.columns {
				names = append(names, humanizeIdent(column))
			}
			identifier = strings.Join(names, " and ")
		}

		return fmt.Sprintf("A %s with this %s already exists", entity, identifier)
	case KindNotNull:
		if field == "" {
			field = "field"
		}

		return fmt.Sprintf("The %s is required", field)
	case KindCheck:
		if field != "" {
			return fmt.Sprintf("The %s value does not meet required conditions", field)
		}

		return "One or more values do not meet required conditions"
	case KindData:
		if field != "" {
			return fmt.Sprintf("The %s value is invalid", field)
		}

		return "One or more values are invalid"
	}

	return "An error occurred while processing your request"
}

// AppCode returns a machine oriented code of the form <ENTITY>_<ACTION>,
// such as USER_ALREADY_EXISTS. The entity is RECORD when the table is unknown.
func (e *Error) AppCode() string {
	domain := "RECORD"
	if e.table != "" {
		domain = strings.ToUpper(strings.Join(splitIdentWords(singular(e.table)), "_"))
	}

	action := "ERROR"

	switch e.kind {
	case KindForeignKey:
		action = "NOT_FOUND"
	case KindUnique:
		action = "ALREADY_EXISTS"
	case KindNotNull:
		action = "REQUIRED"
	case KindCheck, KindData:
		action = "INVALID"
	case KindConstraint:
		action = "CONFLICT"
	}

	return domain + "_" + action
}

// entityName prefers the referenced entity of an *_id column, then the
// singular table name.
func entityName(table, column string) string {
	if strings.HasSuffix(strings.ToLower(column), "_id") && len(column) > 3 {
		return humanizeIdent(column[:len(column)-3])
	}

	if table != "" {
		return humanizeIdent(singular(table))
	}

	return "record"
}

func singular(name string) string {
	if len(name) > 1 && (strings.HasSuffix(name, "s") || strings.HasSuffix(name, "S")) {
		return name[:len(name)-1]
	}

	return name
}

// humanizeIdent turns snake_case and camelCase identifiers into Title Case words.
func humanizeIdent(ident string) string {
	words := splitIdentWords(ident)
	if len(words) == 0 {
		return ""
	}

	return cases.Title(language.English).String(strings.Join(words, " "))
}

// splitIdentWords splits on underscores, hyphens, spaces and lower-to-upper
// case changes.
func splitIdentWords(ident string) []string {
	var (
		words []string
		word  []rune
		prev  rune
	)

	flush := func() {
		if len(word) > 0 {
			words = append(words, string(word))
			word = word[:0]
		}
	}

	for _, r := range ident {
		switch {
		case r == '_' || r == '-' || unicode.IsSpace(r):
			flush()
		case unicode.IsUpper(r) && (unicode.IsLower(prev) || unicode.IsDigit(prev)):
			flush()
			word = append(word, r)
		default:
			word = append(word, r)
		}

		prev = r
	}

	flush()

	return words
}

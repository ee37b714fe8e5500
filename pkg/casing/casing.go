package casing

import (
	"strings"
	"unicode"

	"github.com/stoewer/go-strcase"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.English)

// ToCamel converts a hyphen-separated slug ("job-roles") into its camelCased key ("jobRoles").
// Input without a hyphen boundary is returned unchanged.
func ToCamel(s string) string {
	if !hasHyphenBoundary(s) {
		return s
	}
	return strcase.LowerCamelCase(s)
}

// ToKebab converts a camelCased key ("jobRoles") into its hyphen-separated slug ("job-roles").
// Input without an upper-case boundary is returned unchanged.
func ToKebab(s string) string {
	if !hasUpperBoundary(s) {
		return s
	}
	return strcase.KebabCase(s)
}

// Title renders a slug or key as a display title: "job-roles" and "jobRoles" both become "Job Roles".
func Title(s string) string {
	words := strings.FieldsFunc(ToKebab(s), func(r rune) bool { return r == '-' })
	return titleCaser.String(strings.Join(words, " "))
}

// IsKebab reports whether s is a lower-case, hyphen-separated identifier.
func IsKebab(s string) bool {
	if s == "" || s[0] == '-' || s[len(s)-1] == '-' || strings.Contains(s, "--") {
		return false
	}
	for _, r := range s {
		if r != '-' && !unicode.IsLower(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

func hasHyphenBoundary(s string) bool {
	runes := []rune(s)
	for i := 0; i < len(runes)-1; i++ {
		if runes[i] == '-' && (unicode.IsLetter(runes[i+1]) || unicode.IsDigit(runes[i+1])) {
			return true
		}
	}
	return false
}

func hasUpperBoundary(s string) bool {
	for _, r := range s {
		if unicode.IsUpper(r) {
			return true
		}
	}
	return false
}

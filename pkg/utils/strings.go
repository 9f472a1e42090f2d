package utils

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	nonAlnum   = regexp.MustCompile(`[^A-Za-z0-9]+`)
	camelSplit = regexp.MustCompile(`([a-z0-9])([A-Z])`)
	identRe    = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)
)

// jsReserved holds JavaScript/TypeScript reserved words that cannot name a binding.
var jsReserved = map[string]bool{
	"break": true, "case": true, "catch": true, "class": true, "const": true,
	"continue": true, "debugger": true, "default": true, "delete": true, "do": true,
	"else": true, "enum": true, "export": true, "extends": true, "false": true,
	"finally": true, "for": true, "function": true, "if": true, "import": true,
	"in": true, "instanceof": true, "new": true, "null": true, "return": true,
	"super": true, "switch": true, "this": true, "throw": true, "true": true,
	"try": true, "typeof": true, "var": true, "void": true, "while": true,
	"with": true, "yield": true, "let": true, "static": true, "implements": true,
	"interface": true, "package": true, "private": true, "protected": true,
	"public": true, "await": true, "arguments": true, "eval": true,
}

// RemoveAccents removes accents from a string, converting accented characters to their base forms
func RemoveAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, _ := transform.String(t, s)
	return result
}

// SplitWords splits a string into words, handling camelCase, PascalCase, snake_case, and kebab-case
func SplitWords(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	s = RemoveAccents(s)

	// Insert separators before capital letters that follow a lowercase letter or digit
	s = camelSplit.ReplaceAllString(s, "$1 $2")

	parts := nonAlnum.Split(s, -1)
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}

// ToPascalCase converts a string to PascalCase
func ToPascalCase(s string) string {
	parts := SplitWords(s)
	if len(parts) == 0 {
		return ""
	}

	b := strings.Builder{}
	for _, p := range parts {
		b.WriteString(strings.ToUpper(p[:1]))
		if len(p) > 1 {
			b.WriteString(strings.ToLower(p[1:]))
		}
	}
	return b.String()
}

// ToCamelCase converts a string to camelCase
func ToCamelCase(s string) string {
	p := ToPascalCase(s)
	if p == "" {
		return ""
	}
	return strings.ToLower(p[:1]) + p[1:]
}

// UpperFirst upper-cases the first letter and leaves the rest untouched.
func UpperFirst(s string) string {
	if s == "" {
		return ""
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// IsIdentifier reports whether s is a syntactically valid JavaScript identifier (ASCII subset).
func IsIdentifier(s string) bool {
	return identRe.MatchString(s)
}

// IsReserved reports whether s is a JavaScript reserved word.
func IsReserved(s string) bool {
	return jsReserved[s]
}

// TypeName turns a schema name into a type identifier. Valid identifiers are kept
// verbatim; anything else is PascalCased, prefixed with "T" when it would start with a digit.
func TypeName(s string) string {
	if IsIdentifier(s) {
		return s
	}
	return prefixDigit(ToPascalCase(s), "T")
}

// ValueName turns a wire name into a binding identifier (function or parameter name).
// Valid identifiers are kept verbatim; anything else is camelCased. Reserved words
// get a trailing underscore.
func ValueName(s string) string {
	name := s
	if !IsIdentifier(name) {
		name = prefixDigit(ToCamelCase(name), "_")
	}
	if name == "" {
		name = "_"
	}
	if IsReserved(name) {
		name += "_"
	}
	return name
}

func prefixDigit(s, prefix string) string {
	if s == "" {
		return s
	}
	if s[0] >= '0' && s[0] <= '9' {
		return prefix + s
	}
	return s
}

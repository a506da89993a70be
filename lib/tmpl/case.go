package tmpl

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// Words splits an identifier into its words. Any rune that is neither a letter
// nor a digit separates words ("PSP22::transfer" is "PSP22", "transfer"), and
// so do lower-to-upper transitions and the end of an acronym ("HTTPServer" is
// "HTTP", "Server"). Digits stick to the word before.
func Words(s string) []string {
	var (
		words []string
		word  []rune
	)
	flush := func() {
		if len(word) > 0 {
			words = append(words, string(word))
			word = word[:0]
		}
	}

	runes := []rune(s)
	for i, r := range runes {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			flush()
			continue
		}
		if unicode.IsUpper(r) && len(word) > 0 {
			prev := word[len(word)-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				flush()
			}
		}
		word = append(word, r)
	}
	flush()

	return words
}

// Snake converts to snake_case.
func Snake(s string) string {
	words := Words(s)
	for i, w := range words {
		words[i] = strings.ToLower(w)
	}
	return strings.Join(words, "_")
}

// UpperSnake converts to UPPER_SNAKE_CASE.
func UpperSnake(s string) string {
	return strings.ToUpper(Snake(s))
}

// UpperCamel converts to UpperCamelCase.
func UpperCamel(s string) string {
	return abi.ToCamelCase(Snake(s))
}

// Capitalize upper-cases the first character and leaves the rest alone.
func Capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

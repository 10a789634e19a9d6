package caesar

import (
	"unicode"
	"unicode/utf8"
)

type Stats struct {
	Total         int `json:"total"`
	Alphabetic    int `json:"alphabetic"`
	NonAlphabetic int `json:"nonAlphabetic"`
}

// Analyze counts the characters of text. Alphabetic covers letters of any
// script, not just the ones Transform shifts.
func Analyze(text string) Stats {
	s := Stats{Total: utf8.RuneCountInString(text)}
	for _, r := range text {
		if unicode.IsLetter(r) {
			s.Alphabetic++
		}
	}
	s.NonAlphabetic = s.Total - s.Alphabetic
	return s
}

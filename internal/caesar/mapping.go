package caesar

import (
	"unicode/utf8"

	"caesar/internal/rot"
)

type Pair struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Mapping lists how each letter among the first limit characters of text is
// substituted. Characters that are not shifted are skipped.
// A limit <= 0 means the whole text.
func Mapping(text string, shift int, dir Direction, limit int) ([]Pair, error) {
	n, err := offset(shift, dir)
	if err != nil {
		return nil, err
	}

	var pairs []Pair
	seen := 0
	for i, r := range text {
		if limit > 0 && seen == limit {
			break
		}
		seen++

		if r >= utf8.RuneSelf || !rot.IsLetter(text[i]) {
			continue
		}
		pairs = append(pairs, Pair{
			From: string(r),
			To:   string(rune(rot.Letter(text[i], n))),
		})
	}
	return pairs, nil
}

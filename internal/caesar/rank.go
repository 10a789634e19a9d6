package caesar

import (
	"cmp"
	"math"
	"slices"

	"caesar/internal/rot"
)

// Relative letter frequencies of English text, in percent.
var english = [26]float64{
	8.167, 1.492, 2.782, 4.253, 12.702, 2.228, 2.015, 6.094, 6.966, 0.153,
	0.772, 4.025, 2.406, 6.749, 7.507, 1.929, 0.095, 5.987, 6.327, 9.056,
	2.758, 0.978, 2.360, 0.150, 1.974, 0.074,
}

// Score is the chi-squared distance between the letter distribution of text
// and English. Lower is more English-like. Text without letters scores +Inf.
func Score(text string) float64 {
	var counts [26]int
	total := 0
	for i := range len(text) {
		if !rot.IsLetter(text[i]) {
			continue
		}
		counts[(text[i]|0x20)-'a']++
		total++
	}
	if total == 0 {
		return math.Inf(1)
	}

	chi := 0.0
	for i, c := range counts {
		expected := float64(total) * english[i] / 100
		d := float64(c) - expected
		chi += d * d / expected
	}
	return chi
}

type Ranked struct {
	Candidate
	Score float64 `json:"score"`
}

// Rank scores candidates and orders them best first. Ties keep their input order.
func Rank(candidates []Candidate) []Ranked {
	ranked := make([]Ranked, len(candidates))
	for i, c := range candidates {
		ranked[i] = Ranked{Candidate: c, Score: Score(c.Plaintext)}
	}
	slices.SortStableFunc(ranked, func(a, b Ranked) int {
		return cmp.Compare(a.Score, b.Score)
	})
	return ranked
}

// Guess returns the most English-like decryption of ciphertext.
// ok is false when ciphertext contains no letters to judge by.
func Guess(ciphertext string) (best Ranked, ok bool) {
	ranked := Rank(BruteForce(ciphertext))
	if math.IsInf(ranked[0].Score, 1) {
		return Ranked{}, false
	}
	return ranked[0], true
}

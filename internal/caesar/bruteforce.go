package caesar

import (
	"fmt"
)

type Candidate struct {
	Shift     int    `json:"shift"`
	Plaintext string `json:"plaintext"`
}

// BruteForce decrypts ciphertext with every key, in ascending shift order.
// It always returns MaxShift-MinShift+1 candidates and does not rank them.
func BruteForce(ciphertext string) []Candidate {
	candidates := make([]Candidate, 0, MaxShift-MinShift+1)

	for shift := MinShift; shift <= MaxShift; shift++ {
		plaintext, err := Transform(ciphertext, shift, Decrypt)
		if err != nil {
			panic(fmt.Errorf("caesar: brute force shift %d: %w", shift, err))
		}
		candidates = append(candidates, Candidate{
			Shift:     shift,
			Plaintext: plaintext,
		})
	}
	return candidates
}

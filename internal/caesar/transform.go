package caesar

import (
	"caesar/internal/rot"
)

// Transform shifts every ASCII letter of text by shift positions in the given direction.
func Transform(text string, shift int, dir Direction) (string, error) {
	n, err := offset(shift, dir)
	if err != nil {
		return "", err
	}

	out := []byte(text)
	for i, b := range out {
		out[i] = rot.Letter(b, n)
	}
	return string(out), nil
}

// Package caesar implements the Caesar shift cipher and the exhaustive key
// scan that shows why it offers no security.
//
// Only ASCII Latin letters are shifted. Every other byte, including each
// byte of a multi-byte UTF-8 sequence, is copied through unchanged, so the
// output always has the same length as the input. All functions are pure
// and safe for concurrent use.
package caesar

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const (
	MinShift = 1
	MaxShift = 25
)

var (
	ErrInvalidShift     = fmt.Errorf("invalid shift: must be between %d and %d", MinShift, MaxShift)
	ErrInvalidDirection = errors.New("invalid direction")
)

// ValidShift reports whether n is a usable key.
// 0 and 26 are the identity and are rejected along with everything else outside [1, 25].
func ValidShift(n int) bool {
	return MinShift <= n && n <= MaxShift
}

// ParseShift parses a decimal shift and validates it.
func ParseShift(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", ErrInvalidShift, s)
	}
	if !ValidShift(n) {
		return 0, fmt.Errorf("%w: %d", ErrInvalidShift, n)
	}
	return n, nil
}

type Direction int

const (
	Encrypt Direction = iota
	Decrypt
)

func (d Direction) String() string {
	switch d {
	case Encrypt:
		return "encrypt"
	case Decrypt:
		return "decrypt"
	default:
		return "Direction(" + strconv.Itoa(int(d)) + ")"
	}
}

func (d Direction) MarshalText() ([]byte, error) {
	if d != Encrypt && d != Decrypt {
		return nil, fmt.Errorf("%w: %d", ErrInvalidDirection, int(d))
	}
	return []byte(d.String()), nil
}

// offset validates shift and returns the signed rotation applied to each letter.
func offset(shift int, d Direction) (int, error) {
	if !ValidShift(shift) {
		return 0, fmt.Errorf("%w: %d", ErrInvalidShift, shift)
	}
	switch d {
	case Encrypt:
		return shift, nil
	case Decrypt:
		return -shift, nil
	}
	return 0, fmt.Errorf("%w: %d", ErrInvalidDirection, int(d))
}

// Package rot provides functions for rotating Latin letters by a given number of positions.
package rot

// Letter rotates an ASCII letter by n positions, keeping its case.
// Any other byte is returned unchanged.
func Letter(b byte, n int) byte {
	if n <= -26 || n >= 26 {
		panic("rot: n must be in the range [-25, 25]")
	}

	var base byte
	switch {
	case 'a' <= b && b <= 'z':
		base = 'a'
	case 'A' <= b && b <= 'Z':
		base = 'A'
	default:
		return b
	}

	i := ((int(b-base)+n)%26 + 26) % 26
	return base + byte(i)
}

// IsLetter reports whether b is an ASCII letter.
func IsLetter(b byte) bool {
	return ('a' <= b && b <= 'z') || ('A' <= b && b <= 'Z')
}

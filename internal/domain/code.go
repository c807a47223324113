package domain

import (
	"math/rand"
	"strconv"
	"strings"
)

// Code is an ordered sequence of distinct 1-based word indexes
type Code []int

// Equal reports whether two codes have the same digits in the same order
func (c Code) Equal(other Code) bool {
	if len(c) != len(other) {
		return false
	}
	for i := range c {
		if c[i] != other[i] {
			return false
		}
	}
	return true
}

// String formats the code as e.g. "4-1-3"
func (c Code) String() string {
	parts := make([]string, len(c))
	for i, d := range c {
		parts[i] = strconv.Itoa(d)
	}
	return strings.Join(parts, "-")
}

// Validate checks that the code has length digits, pairwise distinct, within 1..maxDigit
func (c Code) Validate(length, maxDigit int) error {
	if len(c) != length {
		return ErrInvalidCodeCount
	}

	seen := make(map[int]bool, len(c))
	for _, d := range c {
		if d < 1 || d > maxDigit || seen[d] {
			return ErrInvalidCode
		}
		seen[d] = true
	}
	return nil
}

// GenerateCode returns a uniformly random code of length distinct digits in
// 1..maxDigit that differs from previous. previous may be nil. Requires
// 2 <= maxDigit and length <= maxDigit.
func GenerateCode(rng *rand.Rand, length, maxDigit int, previous Code) Code {
	for {
		perm := rng.Perm(maxDigit)
		code := make(Code, length)
		for i := 0; i < length; i++ {
			code[i] = perm[i] + 1
		}

		if !code.Equal(previous) {
			return code
		}
	}
}

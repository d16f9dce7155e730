// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package layout

// validAlignments lists the only alignments the tool ever produces,
// largest first: every alignment computed or validated in this package
// is one of these four values.
var validAlignments = [...]int{8, 4, 2, 1}

// IsAligned reports whether offset is a multiple of alignment.
func IsAligned(offset int64, alignment int) bool {
	return offset%int64(alignment) == 0
}

// AlignUp rounds value up to the next multiple of alignment.
func AlignUp(value int64, alignment int) int64 {
	a := int64(alignment)
	return (value + a - 1) / a * a
}

// AlignDown rounds value down to the previous multiple of alignment.
func AlignDown(value int64, alignment int) int64 {
	a := int64(alignment)
	return (value / a) * a
}

// gcd returns the greatest common divisor of a and b.
func gcd(a, b int64) int64 {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// alignmentFromSizeof returns an empty struct's alignment given only its
// size: gcd(8, size), which is always one of {1,2,4,8} and divides size.
func alignmentFromSizeof(size int64) int {
	g := gcd(8, size)
	return int(g)
}

// alignmentFromOffsetAndSize derives a member's alignment from the
// largest a in {8,4,2,1} such that offset mod a = 0, size mod a = 0, and
// a <= size. Returns 1 if nothing larger fits.
func alignmentFromOffsetAndSize(offset, size int64) int {
	for _, a := range validAlignments {
		a64 := int64(a)
		if a64 > size {
			continue
		}
		if offset%a64 != 0 {
			continue
		}
		if size%a64 != 0 {
			continue
		}
		return a
	}
	return 1
}

// validAlignment reports whether alignment is one of {1,2,4,8} and size
// is a multiple of it, the universal struct-size/alignment invariant.
func validAlignment(alignment int, size int64) bool {
	switch alignment {
	case 1, 2, 4, 8:
	default:
		return false
	}
	return size%int64(alignment) == 0
}

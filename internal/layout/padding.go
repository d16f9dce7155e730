// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package layout

// DetectPadding replaces s's member list with one interleaving a
// synthesized Padding member wherever a gap exists between consecutive
// members, and at the tail if the last member does not reach the
// struct's end. It returns an error and marks s invalid if any computed
// gap is negative (members overlap or run past the struct).
func DetectPadding(s *Type) error {
	if s.Kind != KindStruct || !s.Valid {
		return nil
	}

	members := s.Members
	if len(members) == 0 {
		return nil
	}

	out := make([]*Member, 0, len(members)*2)
	for i := 0; i < len(members)-1; i++ {
		current, next := members[i], members[i+1]

		gap := next.Offset - current.End()
		if gap < 0 {
			s.Valid = false
			return newTypeNotWellDefined("padding size < 0 in type " + s.Name)
		}

		out = append(out, current)
		if gap > 0 {
			out = append(out, paddingAfter(current, gap))
		}
	}

	last := members[len(members)-1]
	tailGap := s.Size() - last.End()
	if tailGap < 0 {
		s.Valid = false
		return newTypeNotWellDefined("padding size < 0 in type " + s.Name)
	}

	out = append(out, last)
	if tailGap > 0 {
		out = append(out, paddingAfter(last, tailGap))
	}

	s.SetMembers(out)
	return nil
}

// TotalPadding sums the size of every Padding member in s, the
// Repacker's eligibility threshold and one of its improvement metrics.
func TotalPadding(s *Type) int64 {
	var total int64
	for _, m := range s.Members {
		if m.Kind == MemberPadding {
			total += m.Size()
		}
	}
	return total
}

func paddingAfter(m *Member, size int64) *Member {
	return NewPadding(NewPaddingType(size), m.End())
}

// NewPaddingType returns the Type of a synthesized Padding member: size
// bytes, alignment 1. Its display name ("char[N]") is computed on the
// fly from the current size (see Type.FormatName) since a padding's
// size is routinely resized in place by the Repacker.
func NewPaddingType(size int64) *Type {
	return &Type{Kind: KindPadding, Name: "Padding", size: size, alignment: 1}
}

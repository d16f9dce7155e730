// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package layout

// FixSizeAndAlignment infers each member's effective size and alignment
// from neighboring offsets and the struct's own declared size, then
// computes the struct's own alignment. It is monotonic: a member type's
// size is set at most once, and alignment only ever tightens.
//
// A member whose effective size is <= 0 indicates the base at that
// offset was elided by Empty Base Optimization; it is replaced in place
// by an EBOInheritance of size 0.
func FixSizeAndAlignment(s *Type) {
	if s.Kind != KindStruct || !s.Valid {
		return
	}

	members := s.Members
	if len(members) == 0 {
		s.TrySetAlignment(alignmentFromSizeof(s.Size()))
		return
	}

	for i := 0; i < len(members)-1; i++ {
		effectiveSize := members[i+1].Offset - members[i].Offset
		members[i] = fixOneMember(members[i], effectiveSize)
	}

	last := len(members) - 1
	effectiveSize := s.Size() - members[last].Offset
	members[last] = fixOneMember(members[last], effectiveSize)

	s.Members = members
	s.TrySetAlignment(alignmentFromMembers(s))
}

// fixOneMember resolves one member's type size/alignment given its
// effective size (the gap to the next member, or to the struct's end).
// A non-positive effective size means the slot was EBO'd away.
func fixOneMember(m *Member, effectiveSize int64) *Member {
	if effectiveSize <= 0 {
		m = NewEBOInheritance(m.Type, m.Offset)
		return m
	}

	if !m.Type.HasSize() {
		m.Type.SetSize(effectiveSize)
	}

	alignment := alignmentFromOffsetAndSize(m.Offset, m.Type.Size())
	m.Type.TrySetAlignment(alignment)

	return m
}

// alignmentFromMembers computes gcd(maxMemberAlignment, struct.Size()),
// the struct's own alignment derived from its widest member.
func alignmentFromMembers(s *Type) int {
	alignment := 1
	for _, m := range s.Members {
		if a := m.Type.Alignment(); a > alignment {
			alignment = a
		}
	}
	return int(gcd(int64(alignment), s.Size()))
}

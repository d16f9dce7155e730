// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package layout

import "strings"

// MemberKind identifies which variant of the per-struct slot sum a
// Member value holds.
type MemberKind uint8

const (
	MemberInheritance MemberKind = iota
	MemberEBOInheritance
	MemberData
	MemberPadding
)

func (k MemberKind) String() string {
	switch k {
	case MemberInheritance:
		return "Inheritance"
	case MemberEBOInheritance:
		return "EBOInheritance"
	case MemberData:
		return "Member"
	case MemberPadding:
		return "Padding"
	default:
		return "MemberKind(?)"
	}
}

// vptrPrefix is the DWARF-emitted name of a synthesized virtual-table
// pointer member. Such members are pinned at their original offset and
// never moved by the Repacker.
const vptrPrefix = "_vptr."

// Member is a slot in a struct: a base subobject (Inheritance), an
// empty base occupying zero bytes (EBOInheritance), a data member, or
// synthesized filler (Padding).
type Member struct {
	Kind MemberKind
	Name string
	Type *Type
	// Offset is this member's byte offset from the start of the struct.
	Offset int64

	// File/Line are only meaningful for MemberData; -1 when unknown.
	File int64
	Line int64
}

// NewInheritance returns a non-empty base subobject at offset. It is
// never movable by the Repacker.
func NewInheritance(t *Type, offset int64) *Member {
	return &Member{Kind: MemberInheritance, Name: "__inheritance", Type: t, Offset: offset, File: -1, Line: -1}
}

// NewEBOInheritance returns a zero-size base subobject synthesized when
// layout inference reveals a base sharing its offset with the first
// data member (Empty Base Optimization).
func NewEBOInheritance(t *Type, offset int64) *Member {
	return &Member{Kind: MemberEBOInheritance, Name: "__ebo_inheritance", Type: t, Offset: offset, File: -1, Line: -1}
}

// NewMember returns a data member. file/line record its declaration
// site; -1 when DWARF did not provide one.
func NewMember(name string, file, line int64, t *Type, offset int64) *Member {
	return &Member{Kind: MemberData, Name: name, Type: t, Offset: offset, File: file, Line: line}
}

// NewPadding returns synthesized filler of t.Size() bytes.
func NewPadding(t *Type, offset int64) *Member {
	return &Member{Kind: MemberPadding, Name: "", Type: t, Offset: offset, File: -1, Line: -1}
}

// Size returns the member's occupied byte range. An EBOInheritance
// always reports 0 regardless of its Type's size.
func (m *Member) Size() int64 {
	if m.Kind == MemberEBOInheritance {
		return 0
	}
	return m.Type.Size()
}

// End returns Offset + Size().
func (m *Member) End() int64 {
	return m.Offset + m.Size()
}

// IsVptr reports whether this data member is a compiler-synthesized
// virtual-table pointer, which must stay pinned at its original offset.
func (m *Member) IsVptr() bool {
	return m.Kind == MemberData && strings.HasPrefix(m.Name, vptrPrefix)
}

// Movable reports whether the Repacker is allowed to relocate this
// member: Inheritance is never movable, a vptr Member is pinned, and
// everything else (data members, EBO bases, padding) may move.
func (m *Member) Movable() bool {
	if m.Kind == MemberInheritance {
		return false
	}
	if m.IsVptr() {
		return false
	}
	return true
}

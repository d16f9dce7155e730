// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package layout reconstructs the in-memory layout of aggregate types
// (struct/class) from a DWARF type graph, infers missing size and
// alignment information, and marks the padding holes between members.
//
// A Type is a closed sum of the variants listed in Kind. Rather than a
// visitor hierarchy of one struct per variant, Type is a single tagged
// struct with fields shared or reused across kinds (the same shape
// internal/gocore.Type uses for the Go runtime's own type graph) so that
// code consuming a Type can exhaustively switch on Kind.
package layout

// Kind identifies which variant of the Type sum a Type value holds.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindDeclaration
	KindBase
	KindEnum
	KindUnion
	KindPointer
	KindReference
	KindConst
	KindVolatile
	KindArray
	KindStruct
	KindPadding
)

func (k Kind) String() string {
	switch k {
	case KindUnknown:
		return "Unknown"
	case KindDeclaration:
		return "Declaration"
	case KindBase:
		return "Base"
	case KindEnum:
		return "Enum"
	case KindUnion:
		return "Union"
	case KindPointer:
		return "Pointer"
	case KindReference:
		return "Reference"
	case KindConst:
		return "Const"
	case KindVolatile:
		return "Volatile"
	case KindArray:
		return "Array"
	case KindStruct:
		return "Struct"
	case KindPadding:
		return "Padding"
	default:
		return "Kind(?)"
	}
}

// sizeUnset marks a Type whose size has not yet been determined. Only
// placeholder kinds (Unknown, Declaration, Array) may legitimately carry
// it past reconstruction; every other kind must resolve to a concrete
// size before the Layout Fixer runs.
const sizeUnset = -1

// Type is the reconstructed representation of a DWARF type, or of a
// member slot's synthesized padding filler. Fields are valid according
// to Kind; see the per-kind constructors below for which fields apply.
type Type struct {
	Kind Kind
	Name string

	// reason explains an Unknown Type; empty otherwise.
	reason string

	size      int64 // sizeUnset until known; immutable once positive, except for Array/Unknown/Declaration
	alignment int   // 0 until computed

	// Elem is the pointee (Pointer/Reference), element (Array), or the
	// wrapped inner type (Const/Volatile).
	Elem *Type

	// Struct-only.
	Members []*Member
	Valid   bool
}

// NewUnknown returns an Unknown Type carrying a human-readable reason,
// matching UnknownType in the original tool (e.g. "type_id is None").
func NewUnknown(reason string) *Type {
	return &Type{Kind: KindUnknown, Name: "Unknown", reason: reason, size: sizeUnset, alignment: 1}
}

// NewDeclaration returns a placeholder for a forward-declared type whose
// body was absent from the translation unit. It never participates in
// layout computation.
func NewDeclaration(name string) *Type {
	return &Type{Kind: KindDeclaration, Name: name, size: sizeUnset}
}

// NewBase returns a primitive type of known size; its alignment is
// inferred later from the offsets at which it is observed.
func NewBase(name string, size int64) *Type {
	return &Type{Kind: KindBase, Name: name, size: size}
}

func NewEnum(name string, size int64) *Type {
	return &Type{Kind: KindEnum, Name: name, size: size}
}

func NewUnion(name string, size int64) *Type {
	return &Type{Kind: KindUnion, Name: name, size: size}
}

// NewPointer and NewReference carry the target architecture's word size
// directly: pointer/reference size and alignment never depend on the
// pointee.
func NewPointer(pointee *Type, wordSize int64) *Type {
	return &Type{Kind: KindPointer, Name: "Ptr", Elem: pointee, size: wordSize, alignment: int(wordSize)}
}

func NewReference(pointee *Type, wordSize int64) *Type {
	return &Type{Kind: KindReference, Name: "Ref", Elem: pointee, size: wordSize, alignment: int(wordSize)}
}

// NewConst and NewVolatile are transparent qualifiers: they expose the
// inner type's size/alignment and forward mutation to it.
func NewConst(inner *Type) *Type {
	return &Type{Kind: KindConst, Name: "Const", Elem: inner, size: sizeUnset}
}

func NewVolatile(inner *Type) *Type {
	return &Type{Kind: KindVolatile, Name: "Volatile", Elem: inner, size: sizeUnset}
}

// NewArray wraps an element type; DWARF does not give us an element
// count for an arbitrary array reference, so every array site is
// distinct and uncached.
func NewArray(elem *Type) *Type {
	return &Type{Kind: KindArray, Name: "Array", Elem: elem, size: sizeUnset}
}

// NewStruct returns an aggregate with a declared size and no members
// yet; callers add members with AddMember before the type is considered
// complete.
func NewStruct(name string, size int64) *Type {
	return &Type{Kind: KindStruct, Name: name, size: size, Valid: true}
}

// Size returns the type's size in bytes, or sizeUnset if not yet known.
// Const/Volatile forward to their inner type.
func (t *Type) Size() int64 {
	switch t.Kind {
	case KindConst, KindVolatile:
		return t.Elem.Size()
	default:
		return t.size
	}
}

// HasSize reports whether Size() is a resolved, positive value.
func (t *Type) HasSize() bool {
	return t.Size() > 0
}

// SetSize sets the type's size. Immutable variants (Pointer, Reference,
// Base, Enum, Union, a Struct whose size DWARF already declared) panic
// if called a second time with a different value; placeholder variants
// (Unknown, Declaration, Array) and transparent qualifiers accept it.
func (t *Type) SetSize(size int64) {
	switch t.Kind {
	case KindConst, KindVolatile:
		t.Elem.SetSize(size)
	case KindUnknown, KindDeclaration, KindArray, KindPadding:
		t.size = size
	default:
		if t.size > 0 && t.size != size {
			panic("layout: size is immutable once positive: " + t.Name)
		}
		t.size = size
	}
}

// Alignment returns the type's alignment, or 0 if not yet computed.
// Pointer/Reference/Unknown/Padding always know their own alignment;
// Const, Volatile, and Array forward to their inner/element type.
func (t *Type) Alignment() int {
	switch t.Kind {
	case KindConst, KindVolatile, KindArray:
		return t.Elem.Alignment()
	default:
		return t.alignment
	}
}

// TrySetAlignment tightens the type's alignment to the minimum of its
// current value (if any) and the proposed one, matching try_set_alignment
// in the original tool: alignment may only decrease toward the tightest
// consistent value, never increase.
func (t *Type) TrySetAlignment(alignment int) {
	switch t.Kind {
	case KindConst, KindVolatile, KindArray:
		t.Elem.TrySetAlignment(alignment)
	default:
		if t.alignment == 0 || t.alignment > alignment {
			t.alignment = alignment
		}
	}
}

// UnknownReason returns the diagnostic string for an Unknown Type.
func (t *Type) UnknownReason() string {
	return t.reason
}

// AddMember appends a member to a Struct Type, validating that the first
// member starts at offset 0 and that no member begins at or beyond the
// struct's declared size.
func (t *Type) AddMember(m *Member) error {
	if t.Kind != KindStruct {
		panic("layout: AddMember on non-struct")
	}

	if len(t.Members) == 0 {
		if m.Offset != 0 {
			return newTypeNotWellDefined("first member of " + t.Name + " is not at offset 0")
		}
	} else if m.Offset >= t.size {
		return newTypeNotWellDefined("member of " + t.Name + " lies outside the struct")
	}

	t.Members = append(t.Members, m)
	return nil
}

// SetMembers replaces the member list wholesale, used by the Padding
// Detector and Repacker to install a new, interleaved or reordered list.
func (t *Type) SetMembers(members []*Member) {
	t.Members = members
}

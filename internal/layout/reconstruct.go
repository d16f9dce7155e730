// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package layout

import (
	"debug/dwarf"
	"sort"

	"github.com/wo3kie/StructCompacter/internal/dieindex"
)

// TypeTable is the process-wide, DIE-offset-keyed owner of every
// reconstructed Type. Inner references (Pointer/Reference/Array
// elements, Const/Volatile wrappees) are plain *Type pointers into this
// table; cycles in the type graph (e.g. "struct A { A *next; }") are
// safe because Go's garbage collector, not manual ownership, reclaims
// them.
type TypeTable struct {
	WordSize int64

	byOffset      map[dwarf.Offset]*Type
	structOffsets []dwarf.Offset // discovery order, sorted at the end of Reconstruct
}

// Lookup returns the Type cached at offset, or nil.
func (t *TypeTable) Lookup(offset dwarf.Offset) *Type {
	return t.byOffset[offset]
}

// Structs returns every reconstructed struct/class Type (including
// invalid ones), in ascending DIE-offset order — the deterministic
// processing order §5 requires for reproducible diffs and tests.
func (t *TypeTable) Structs() []*Type {
	out := make([]*Type, 0, len(t.structOffsets))
	for _, off := range t.structOffsets {
		out = append(out, t.byOffset[off])
	}
	return out
}

// reconstructor walks a dieindex.Index and populates a TypeTable.
type reconstructor struct {
	idx      *dieindex.Index
	wordSize int64
	table    *TypeTable
	warnings []error
}

// Reconstruct walks every compilation unit in idx, reconstructing a
// Type for every struct/class DIE found (and, transitively, for every
// type those structs reference). wordSize is the target architecture's
// pointer width, discovered once from the first compilation unit (see
// dieindex.Index.WordSize) and threaded through every Pointer/Reference this
// call creates.
//
// Non-fatal, per-struct problems are collected and returned alongside
// the table rather than aborting: the driver decides whether to print
// them (-w/--warnings) and always continues to the next struct.
func Reconstruct(idx *dieindex.Index, wordSize int64) (*TypeTable, []error) {
	r := &reconstructor{
		idx:      idx,
		wordSize: wordSize,
		table: &TypeTable{
			WordSize: wordSize,
			byOffset: make(map[dwarf.Offset]*Type),
		},
	}

	for _, unit := range idx.Units {
		r.walkForStructs(unit.Root)
	}

	sort.Slice(r.table.structOffsets, func(i, j int) bool {
		return r.table.structOffsets[i] < r.table.structOffsets[j]
	})

	return r.table, r.warnings
}

func (r *reconstructor) walkForStructs(d *dieindex.DIE) {
	if dieindex.IsStruct(d) {
		r.convertStruct(d)
	}
	for _, c := range d.Children {
		r.walkForStructs(c)
	}
}

// resolveByOffset looks up the DIE at off and resolves its Type,
// returning Unknown if the offset is dangling (should not happen with
// well-formed DWARF, but the tool never trusts that).
func (r *reconstructor) resolveByOffset(off dwarf.Offset) *Type {
	d := r.idx.Lookup(off)
	if d == nil {
		return NewUnknown("type_id is None")
	}
	return r.resolve(d)
}

// resolve implements the §4.1 dispatch-on-tag, cache-by-offset
// resolution. Transparent wrappers (typedef, member, inheritance) and
// array sites return the referenced/element type directly without
// caching under this DIE's own offset, since the underlying type (or,
// for arrays, each distinct array site) stays canonical there instead.
func (r *reconstructor) resolve(d *dieindex.DIE) *Type {
	if t, ok := r.table.byOffset[d.Offset]; ok {
		return t
	}

	name := dieindex.Name(d, r.idx)

	switch d.Tag {
	case dwarf.TagBaseType:
		size, _ := dieindex.Size(d)
		return r.cache(d.Offset, NewBase(name, size))

	case dwarf.TagUnionType:
		size, _ := dieindex.Size(d)
		return r.cache(d.Offset, NewUnion(name, size))

	case dwarf.TagEnumerationType:
		size, _ := dieindex.Size(d)
		return r.cache(d.Offset, NewEnum(name, size))

	case dwarf.TagClassType, dwarf.TagStructType:
		return r.convertStruct(d)

	case dwarf.TagTypedef, dwarf.TagMember, dwarf.TagInheritance:
		return r.resolveReferencedType(d)

	case dwarf.TagArrayType:
		return NewArray(r.resolveReferencedType(d))

	case dwarf.TagConstType:
		return r.cache(d.Offset, NewConst(r.resolveReferencedType(d)))

	case dwarf.TagVolatileType:
		return r.cache(d.Offset, NewVolatile(r.resolveReferencedType(d)))

	case dwarf.TagPointerType:
		return r.cache(d.Offset, NewPointer(r.resolveReferencedType(d), r.wordSize))

	case dwarf.TagReferenceType:
		return r.cache(d.Offset, NewReference(r.resolveReferencedType(d), r.wordSize))
	}

	return NewUnknown("wrong tag")
}

// resolveReferencedType resolves the type named by d's DW_AT_type,
// returning Unknown("type_id is None") when the attribute is absent —
// for example a void pointer's pointee, or a member DWARF never typed.
func (r *reconstructor) resolveReferencedType(d *dieindex.DIE) *Type {
	off, ok := dieindex.TypeOffset(d, r.idx)
	if !ok {
		return NewUnknown("type_id is None")
	}
	return r.resolveByOffset(off)
}

func (r *reconstructor) cache(offset dwarf.Offset, t *Type) *Type {
	r.table.byOffset[offset] = t
	return t
}

// convertStruct implements §4.1's struct conversion: a forward
// declaration (or byte-size-less DIE) becomes a Declaration placeholder;
// otherwise an empty Struct is cached at this DIE's offset *before* its
// children are visited, which is what allows a member pointing back to
// this same struct (directly or through other types) to resolve without
// infinite recursion.
func (r *reconstructor) convertStruct(d *dieindex.DIE) *Type {
	if t, ok := r.table.byOffset[d.Offset]; ok {
		return t
	}

	name := dieindex.Name(d, r.idx)
	size, hasSize := dieindex.Size(d)

	if dieindex.IsDeclaration(d) || !hasSize {
		return r.cache(d.Offset, NewDeclaration(name))
	}

	s := NewStruct(name, size)
	r.cache(d.Offset, s)
	r.table.structOffsets = append(r.table.structOffsets, d.Offset)

	for _, child := range d.Children {
		switch {
		case dieindex.IsInheritance(child):
			r.addInheritance(s, child)
		case dieindex.IsMember(child):
			r.addMember(s, child)
		case dieindex.IsStruct(child):
			// Nested named aggregates live at the type table's top
			// level, not as members of the enclosing struct.
			r.convertStruct(child)
		}
	}

	return s
}

func (r *reconstructor) addInheritance(s *Type, d *dieindex.DIE) {
	offset, ok := dieindex.MemberOffset(d)
	if !ok {
		r.warn(newTypeNotWellDefined("inheritance in " + s.Name + " has no data_member_location"))
		return
	}

	baseType := r.resolveReferencedType(d)
	if err := s.AddMember(NewInheritance(baseType, offset)); err != nil {
		s.Valid = false
		r.warn(err)
	}
}

func (r *reconstructor) addMember(s *Type, d *dieindex.DIE) {
	offset, ok := dieindex.MemberOffset(d)
	if !ok {
		r.warn(newTypeNotWellDefined("member in " + s.Name + " has no data_member_location"))
		return
	}

	name := dieindex.Name(d, r.idx)
	memberType := r.resolveReferencedType(d)
	file := dieindex.DeclFile(d)
	line := dieindex.DeclLine(d)

	if err := s.AddMember(NewMember(name, file, line, memberType, offset)); err != nil {
		s.Valid = false
		r.warn(err)
	}
}

func (r *reconstructor) warn(err error) {
	r.warnings = append(r.warnings, err)
}

// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dieindex

import "debug/dwarf"

// IsStruct reports whether d is a class or structure type DIE.
func IsStruct(d *DIE) bool {
	return d.Tag == dwarf.TagClassType || d.Tag == dwarf.TagStructType
}

// IsMember reports whether d is a non-static data member. A member
// carrying DW_AT_external is a static member and is skipped.
func IsMember(d *DIE) bool {
	if d.Tag != dwarf.TagMember {
		return false
	}
	return !IsStatic(d)
}

// IsInheritance reports whether d represents a base-class subobject.
func IsInheritance(d *DIE) bool {
	return d.Tag == dwarf.TagInheritance
}

// IsStatic reports whether d carries DW_AT_external (a static member,
// which the layout engine never treats as an instance field).
func IsStatic(d *DIE) bool {
	_, ok := d.Entry.Val(dwarf.AttrExternal).(bool)
	return ok
}

// IsDeclaration reports whether d carries DW_AT_declaration (a forward
// declaration with no body in this translation unit).
func IsDeclaration(d *DIE) bool {
	_, ok := d.Entry.Val(dwarf.AttrDeclaration).(bool)
	return ok
}

// Name returns d's DW_AT_name, following DW_AT_specification to
// another DIE if absent, and falling back to "anonymous" if neither
// yields a name.
func Name(d *DIE, idx *Index) string {
	if name, ok := d.Entry.Val(dwarf.AttrName).(string); ok && name != "" {
		return name
	}

	if spec := specification(d, idx); spec != nil {
		return Name(spec, idx)
	}

	return "anonymous"
}

// Size returns d's DW_AT_byte_size (or the legacy DW_AT_size some
// producers emit), and whether either was present.
func Size(d *DIE) (int64, bool) {
	if size, ok := d.Entry.Val(dwarf.AttrByteSize).(int64); ok {
		return size, true
	}
	if size, ok := d.Entry.Val(attrSize).(int64); ok {
		return size, true
	}
	return 0, false
}

// attrSize is the attribute number Size checks as its DW_AT_size
// fallback. It is 0x0B, the same number as dwarf.AttrByteSize, so the
// fallback reads the same attribute as the first lookup and never finds
// a size that lookup missed.
const attrSize = dwarf.Attr(0x0B)

// TypeOffset returns the DIE offset named by d's DW_AT_type, following
// DW_AT_specification if absent. ok is false when neither attribute is
// present (e.g. a void return/parameter, or a member DWARF simply
// never typed).
func TypeOffset(d *DIE, idx *Index) (dwarf.Offset, bool) {
	if off, ok := d.Entry.Val(dwarf.AttrType).(dwarf.Offset); ok {
		return off, true
	}

	if spec := specification(d, idx); spec != nil {
		return TypeOffset(spec, idx)
	}

	return 0, false
}

// DeclFile returns d's DW_AT_decl_file, or -1 if absent.
func DeclFile(d *DIE) int64 {
	if v, ok := d.Entry.Val(dwarf.AttrDeclFile).(int64); ok {
		return v
	}
	return -1
}

// DeclLine returns d's DW_AT_decl_line, or -1 if absent.
func DeclLine(d *DIE) int64 {
	if v, ok := d.Entry.Val(dwarf.AttrDeclLine).(int64); ok {
		return v
	}
	return -1
}

// MemberOffset decodes d's DW_AT_data_member_location: when the
// producer encoded it as a bare constant, that value is the offset;
// when encoded as a location expression (the common "DW_OP_plus_uconst
// N" form), the first byte (the opcode) is dropped and the remaining
// bytes are decoded as unsigned LEB128, per spec §6.
func MemberOffset(d *DIE) (int64, bool) {
	switch loc := d.Entry.Val(dwarf.AttrDataMemberLoc).(type) {
	case int64:
		return loc, true
	case []byte:
		if len(loc) == 0 {
			return 0, false
		}
		return decodeULEB128(loc[1:]), true
	default:
		return 0, false
	}
}

// decodeULEB128 decodes an unsigned little-endian base-128 integer.
func decodeULEB128(b []byte) int64 {
	var result int64
	var shift uint
	for _, v := range b {
		result |= int64(v&0x7F) << shift
		shift += 7
	}
	return result
}

func specification(d *DIE, idx *Index) *DIE {
	off, ok := d.Entry.Val(dwarf.AttrSpecification).(dwarf.Offset)
	if !ok {
		return nil
	}
	return idx.Lookup(off)
}

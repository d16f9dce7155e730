// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dieindex

import (
	"debug/dwarf"
	"testing"
)

func entry(offset dwarf.Offset, tag dwarf.Tag, fields ...dwarf.Field) *dwarf.Entry {
	return &dwarf.Entry{Offset: offset, Tag: tag, Field: fields}
}

func field(a dwarf.Attr, v interface{}) dwarf.Field {
	return dwarf.Field{Attr: a, Val: v}
}

func die(offset dwarf.Offset, tag dwarf.Tag, fields ...dwarf.Field) *DIE {
	return &DIE{Offset: offset, Tag: tag, Entry: entry(offset, tag, fields...)}
}

func TestIsStruct(t *testing.T) {
	if !IsStruct(die(1, dwarf.TagClassType)) {
		t.Error("TagClassType should be a struct")
	}
	if !IsStruct(die(1, dwarf.TagStructType)) {
		t.Error("TagStructType should be a struct")
	}
	if IsStruct(die(1, dwarf.TagUnionType)) {
		t.Error("TagUnionType should not be a struct")
	}
}

func TestIsMember_SkipsStatic(t *testing.T) {
	instance := die(1, dwarf.TagMember)
	if !IsMember(instance) {
		t.Error("plain member should be a member")
	}

	static := die(2, dwarf.TagMember, field(dwarf.AttrExternal, true))
	if IsMember(static) {
		t.Error("static (external) member should not be a member")
	}
}

func TestName_FallsBackToSpecificationThenAnonymous(t *testing.T) {
	idx := &Index{byOffset: make(map[dwarf.Offset]*DIE)}

	named := die(1, dwarf.TagStructType, field(dwarf.AttrName, "Foo"))
	idx.byOffset[1] = named
	if got := Name(named, idx); got != "Foo" {
		t.Errorf("Name = %q, want Foo", got)
	}

	viaSpec := die(2, dwarf.TagStructType, field(dwarf.AttrSpecification, dwarf.Offset(1)))
	idx.byOffset[2] = viaSpec
	if got := Name(viaSpec, idx); got != "Foo" {
		t.Errorf("Name via specification = %q, want Foo", got)
	}

	anon := die(3, dwarf.TagStructType)
	idx.byOffset[3] = anon
	if got := Name(anon, idx); got != "anonymous" {
		t.Errorf("Name of nameless DIE = %q, want anonymous", got)
	}
}

func TestSize_ByteSizeAndLegacyFallback(t *testing.T) {
	if size, ok := Size(die(1, dwarf.TagBaseType, field(dwarf.AttrByteSize, int64(4)))); !ok || size != 4 {
		t.Errorf("Size = (%d,%v), want (4,true)", size, ok)
	}

	if size, ok := Size(die(1, dwarf.TagBaseType, field(attrSize, int64(8)))); !ok || size != 8 {
		t.Errorf("legacy Size = (%d,%v), want (8,true)", size, ok)
	}

	if _, ok := Size(die(1, dwarf.TagBaseType)); ok {
		t.Error("Size should report absent when neither attribute is present")
	}
}

func TestTypeOffset_FollowsSpecification(t *testing.T) {
	idx := &Index{byOffset: make(map[dwarf.Offset]*DIE)}

	typed := die(1, dwarf.TagMember, field(dwarf.AttrType, dwarf.Offset(100)))
	idx.byOffset[1] = typed
	if off, ok := TypeOffset(typed, idx); !ok || off != 100 {
		t.Errorf("TypeOffset = (%d,%v), want (100,true)", off, ok)
	}

	viaSpec := die(2, dwarf.TagMember, field(dwarf.AttrSpecification, dwarf.Offset(1)))
	idx.byOffset[2] = viaSpec
	if off, ok := TypeOffset(viaSpec, idx); !ok || off != 100 {
		t.Errorf("TypeOffset via specification = (%d,%v), want (100,true)", off, ok)
	}

	untyped := die(3, dwarf.TagMember)
	if _, ok := TypeOffset(untyped, idx); ok {
		t.Error("TypeOffset should report absent for an untyped member")
	}
}

func TestMemberOffset_ConstantAndLocationExpression(t *testing.T) {
	constant := die(1, dwarf.TagMember, field(dwarf.AttrDataMemberLoc, int64(16)))
	if off, ok := MemberOffset(constant); !ok || off != 16 {
		t.Errorf("MemberOffset (constant) = (%d,%v), want (16,true)", off, ok)
	}

	// DW_OP_plus_uconst (0x23) followed by ULEB128(24).
	expr := die(2, dwarf.TagMember, field(dwarf.AttrDataMemberLoc, []byte{0x23, 24}))
	if off, ok := MemberOffset(expr); !ok || off != 24 {
		t.Errorf("MemberOffset (expr) = (%d,%v), want (24,true)", off, ok)
	}

	// Multi-byte ULEB128: 300 = 0b100101100 -> low7=0101100(0x2C)|cont, high=0b10(0x02).
	big := die(3, dwarf.TagMember, field(dwarf.AttrDataMemberLoc, []byte{0x23, 0xAC, 0x02}))
	if off, ok := MemberOffset(big); !ok || off != 300 {
		t.Errorf("MemberOffset (multi-byte uleb) = (%d,%v), want (300,true)", off, ok)
	}

	absent := die(4, dwarf.TagMember)
	if _, ok := MemberOffset(absent); ok {
		t.Error("MemberOffset should report absent with no location attribute")
	}
}

func TestDeclFileAndLine_DefaultToMinusOne(t *testing.T) {
	d := die(1, dwarf.TagMember)
	if f := DeclFile(d); f != -1 {
		t.Errorf("DeclFile = %d, want -1", f)
	}
	if l := DeclLine(d); l != -1 {
		t.Errorf("DeclLine = %d, want -1", l)
	}

	located := die(2, dwarf.TagMember, field(dwarf.AttrDeclFile, int64(3)), field(dwarf.AttrDeclLine, int64(42)))
	if f := DeclFile(located); f != 3 {
		t.Errorf("DeclFile = %d, want 3", f)
	}
	if l := DeclLine(located); l != 42 {
		t.Errorf("DeclLine = %d, want 42", l)
	}
}

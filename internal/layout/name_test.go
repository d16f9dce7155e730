// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package layout

import "testing"

func TestFormatName_Decorations(t *testing.T) {
	cases := []struct {
		ty   *Type
		want string
	}{
		{NewBase("int", 4), "int"},
		{NewPointer(NewBase("int", 4), 8), "int*"},
		{NewReference(NewBase("int", 4), 8), "int&"},
		{NewConst(NewBase("int", 4)), "c{int}"},
		{NewVolatile(NewBase("int", 4)), "v{int}"},
		{NewUnion("U", 8), "u{U}"},
		{NewEnum("E", 4), "e{E}"},
		{NewDeclaration("Fwd"), "d{Fwd}"},
		{NewStruct("S", 8), "{S}"},
		{NewArray(NewBase("int", 4)), "int[?]"},
		{NewPaddingType(3), "char[3]"},
	}
	for _, c := range cases {
		if got := c.ty.FormatName(0); got != c.want {
			t.Errorf("FormatName() = %q, want %q", got, c.want)
		}
	}
}

func TestAbbreviate(t *testing.T) {
	if got := abbreviate("short", 20); got != "short" {
		t.Errorf("abbreviate should not touch text that fits: got %q", got)
	}
	if got := abbreviate("a_very_long_type_name", 10); got != "a_very_..." {
		t.Errorf("abbreviate(...,10) = %q, want a_very_...", got)
	}
	if got := abbreviate("abcdef", 3); got != "abcdef" {
		t.Errorf("abbreviate should give up (return unabbreviated) when length <= 3: got %q", got)
	}
}

func TestFormatName_TruncatesWithWidth(t *testing.T) {
	ty := NewPointer(NewBase("a_very_long_type_name", 8), 8)
	got := ty.FormatName(11)
	if got != "a_very_...*" {
		t.Errorf("FormatName(11) = %q, want a_very_...*", got)
	}
}

func TestDescribe(t *testing.T) {
	ty := NewBase("int", 4)
	ty.TrySetAlignment(4)
	if got := ty.Describe(0); got != "[int (4:4)]" {
		t.Errorf("Describe(0) = %q, want [int (4:4)]", got)
	}
}

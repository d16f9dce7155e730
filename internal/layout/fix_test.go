// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package layout

import "testing"

// Boundary case: an empty struct gets alignment 1 and is left alone.
func TestFixSizeAndAlignment_EmptyStruct(t *testing.T) {
	s := NewStruct("Empty", 1)
	FixSizeAndAlignment(s)

	if got := s.Alignment(); got != 1 {
		t.Errorf("Alignment = %d, want 1", got)
	}
	if len(s.Members) != 0 {
		t.Errorf("expected no members, got %d", len(s.Members))
	}
}

func TestFixSizeAndAlignment_InfersSizeFromGapToNextMember(t *testing.T) {
	s := NewStruct("S", 16)
	if err := s.AddMember(NewMember("a", -1, -1, NewBase("T", sizeUnset), 0)); err != nil {
		t.Fatal(err)
	}
	if err := s.AddMember(NewMember("b", -1, -1, NewBase("T", 8), 8)); err != nil {
		t.Fatal(err)
	}

	FixSizeAndAlignment(s)

	if got := s.Members[0].Type.Size(); got != 8 {
		t.Errorf("inferred size of a = %d, want 8", got)
	}
	if got := s.Alignment(); got != 8 {
		t.Errorf("struct alignment = %d, want 8", got)
	}
}

// A member whose gap to the next one is non-positive means EBO elided it.
func TestFixSizeAndAlignment_ZeroGapBecomesEBOInheritance(t *testing.T) {
	s := NewStruct("S", 8)
	base := NewBase("Base", sizeUnset)
	if err := s.AddMember(NewInheritance(base, 0)); err != nil {
		t.Fatal(err)
	}
	if err := s.AddMember(NewMember("x", -1, -1, NewBase("int", 8), 0)); err != nil {
		t.Fatal(err)
	}

	FixSizeAndAlignment(s)

	if s.Members[0].Kind != MemberEBOInheritance {
		t.Errorf("first member kind = %v, want EBOInheritance", s.Members[0].Kind)
	}
	if s.Members[0].Size() != 0 {
		t.Errorf("EBOInheritance size = %d, want 0", s.Members[0].Size())
	}
}

func TestFixSizeAndAlignment_LastMemberSizedToStructEnd(t *testing.T) {
	s := NewStruct("S", 12)
	if err := s.AddMember(NewMember("a", -1, -1, NewBase("T", 4), 0)); err != nil {
		t.Fatal(err)
	}
	if err := s.AddMember(NewMember("b", -1, -1, NewBase("T", sizeUnset), 4)); err != nil {
		t.Fatal(err)
	}

	FixSizeAndAlignment(s)

	if got := s.Members[1].Type.Size(); got != 8 {
		t.Errorf("last member inferred size = %d, want 8", got)
	}
}

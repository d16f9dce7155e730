// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package report

import (
	"strings"
	"testing"

	"github.com/wo3kie/StructCompacter/internal/layout"
)

func samplePair(t *testing.T) Pair {
	t.Helper()

	original := layout.NewStruct("Widget", 16)
	a := layout.NewBase("int", 1)
	a.TrySetAlignment(1)
	if err := original.AddMember(layout.NewMember("a", -1, -1, a, 0)); err != nil {
		t.Fatal(err)
	}
	if err := layout.DetectPadding(original); err != nil {
		t.Fatal(err)
	}

	packed := layout.NewStruct("Widget", 8)
	b := layout.NewBase("int", 1)
	b.TrySetAlignment(1)
	if err := packed.AddMember(layout.NewMember("a", -1, -1, b, 0)); err != nil {
		t.Fatal(err)
	}
	if err := layout.DetectPadding(packed); err != nil {
		t.Fatal(err)
	}

	return Pair{Original: original, Packed: packed}
}

func TestHeader(t *testing.T) {
	pair := samplePair(t)
	got := Header(pair)
	want := "{Widget}(16/8)"
	if got != want {
		t.Errorf("Header = %q, want %q", got, want)
	}
}

func TestFormatMember_PaddingHasNoName(t *testing.T) {
	ty := layout.NewPaddingType(4)
	m := layout.NewPadding(ty, 4)
	row := FormatMember(m, 40)
	if name := strings.TrimSpace(row[:strings.Index(row, " (+")]); name != "" {
		t.Errorf("expected padding row to have an empty name, got %q", name)
	}
	if strings.Contains(row, "char[4]") == false {
		t.Errorf("expected padding row to describe its type, got %q", row)
	}
}

func TestFormatMember_InheritanceAndEBONaming(t *testing.T) {
	base := layout.NewBase("Base", 4)
	inh := layout.NewInheritance(base, 0)
	row := FormatMember(inh, 40)
	if !strings.Contains(row, "__inheritance") {
		t.Errorf("expected __inheritance in row, got %q", row)
	}

	// At width 40 the name column is only 15 bytes and the 17-byte
	// "__ebo_inheritance" would be abbreviated; the default width of 50
	// leaves 20 bytes, enough for the full name.
	ebo := layout.NewEBOInheritance(base, 0)
	row = FormatMember(ebo, 50)
	if !strings.Contains(row, "__ebo_inheritance") {
		t.Errorf("expected __ebo_inheritance in row, got %q", row)
	}
}

func TestDiff_MarksUnmatchedRowsWithDash(t *testing.T) {
	pair := samplePair(t)
	// Add a second original member with no packed counterpart.
	extra := layout.NewBase("char", 1)
	pair.Original.Members = append(pair.Original.Members, layout.NewMember("b", -1, -1, extra, 8))

	out := Diff(pair, 40)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 1+len(pair.Original.Members) {
		t.Fatalf("got %d lines, want %d", len(lines), 1+len(pair.Original.Members))
	}
	last := lines[len(lines)-1]
	if !strings.Contains(last, "-") {
		t.Errorf("unmatched row should contain the '-' filler, got %q", last)
	}
}

func TestFileNameConvention(t *testing.T) {
	pair := samplePair(t)
	if got, want := OldFileName(pair), "Widget.old.16.sc"; got != want {
		t.Errorf("OldFileName = %q, want %q", got, want)
	}
	if got, want := NewFileName(pair), "Widget.new.8.sc"; got != want {
		t.Errorf("NewFileName = %q, want %q", got, want)
	}
	if got, want := UnifiedFileName(pair), "Widget.sc"; got != want {
		t.Errorf("UnifiedFileName = %q, want %q", got, want)
	}
}

func TestListing_OneRowPerMember(t *testing.T) {
	pair := samplePair(t)
	out := Listing(pair.Original, 40)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != len(pair.Original.Members) {
		t.Errorf("got %d lines, want %d", len(lines), len(pair.Original.Members))
	}
}

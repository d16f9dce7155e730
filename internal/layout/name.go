// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package layout

import "strconv"

// FormatName returns the type's display name, decorated per Kind
// (pointer suffix "*", reference suffix "&", "c{...}" for Const,
// "v{...}" for Volatile, "u{...}" for Union, "e{...}" for Enum,
// "{...}" for Struct, "d{...}" for Declaration, "...[?]" for Array),
// truncated to fit width if width > 0.
func (t *Type) FormatName(width int) string {
	base := t.baseName()
	dec := t.decorationSize()

	if width <= 0 {
		return t.decorate(base)
	}

	return t.decorate(abbreviate(base, width-dec))
}

// baseName returns the undecorated inner name: the pointee's name for
// Pointer/Reference/Array, the inner type's name for Const/Volatile,
// a size-derived "char[N]" for Padding, and the literal Name field
// otherwise.
func (t *Type) baseName() string {
	switch t.Kind {
	case KindPointer, KindReference, KindConst, KindVolatile, KindArray:
		return t.Elem.baseName()
	case KindPadding:
		return "char[" + strconv.FormatInt(t.Size(), 10) + "]"
	default:
		return t.Name
	}
}

func (t *Type) decorationSize() int {
	switch t.Kind {
	case KindPointer, KindReference:
		return 1
	case KindConst, KindVolatile, KindUnion, KindEnum, KindDeclaration, KindArray:
		return 3
	case KindStruct:
		return 2
	default:
		return 0
	}
}

func (t *Type) decorate(name string) string {
	switch t.Kind {
	case KindPointer:
		return name + "*"
	case KindReference:
		return name + "&"
	case KindConst:
		return "c{" + name + "}"
	case KindVolatile:
		return "v{" + name + "}"
	case KindUnion:
		return "u{" + name + "}"
	case KindEnum:
		return "e{" + name + "}"
	case KindDeclaration:
		return "d{" + name + "}"
	case KindStruct:
		return "{" + name + "}"
	case KindArray:
		return name + "[?]"
	default:
		return name
	}
}

// abbreviate truncates text to at most length bytes, replacing the tail
// with "..." when it doesn't fit. Mirrors the original tool's abbrev().
func abbreviate(text string, length int) string {
	if length <= 3 {
		return text
	}
	if len(text) <= length {
		return text
	}
	return text[:length-3] + "..."
}

// Describe returns the bracketed "[name (size:alignment)]" description
// used in member report rows, truncated to width if width > 0.
func (t *Type) Describe(width int) string {
	suffix := " (" + strconv.FormatInt(t.Size(), 10) + ":" + strconv.Itoa(t.Alignment()) + ")]"
	prefix := "["

	if width <= 0 {
		return prefix + t.FormatName(0) + suffix
	}

	nameWidth := width - len(prefix) - len(suffix)
	return prefix + t.FormatName(nameWidth) + suffix
}

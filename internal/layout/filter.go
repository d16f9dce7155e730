// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package layout

import "strings"

// IsTemplateInstance reports whether name looks like an instantiated
// C++ template (contains '<').
func IsTemplateInstance(name string) bool {
	return strings.Contains(name, "<")
}

// IsSTLInternal reports whether name looks like a compiler/STL-internal
// identifier (leading underscore).
func IsSTLInternal(name string) bool {
	return strings.HasPrefix(name, "_")
}

// IsVptrName reports whether name is a synthesized virtual-table
// pointer member name.
func IsVptrName(name string) bool {
	return strings.HasPrefix(name, vptrPrefix)
}

// SkipRepack reports whether the Repacker should leave s untouched:
// its name is STL-internal, or it is a template instance whose layout
// still depends on an unresolved template parameter (see
// IsTemplateParamDependent).
//
// Note: the template-parameter-dependence check below counts Base as
// dependent, which is conservative (a concrete base type's layout does
// not actually depend on any template parameter). This is preserved
// unchanged from the tool this was ported from; see DESIGN.md.
func SkipRepack(s *Type) bool {
	if IsSTLInternal(s.Name) {
		return true
	}
	if IsTemplateInstance(s.Name) && IsTemplateParamDependent(s) {
		return true
	}
	return false
}

// IsTemplateParamDependent reports whether any of s's member types is
// Unknown, Declaration, Base, Union, or Struct — kinds whose presence
// in a template instantiation means the layout cannot be trusted
// without knowing the template arguments. Pointer, Reference, Enum, and
// Padding never propagate dependence; Const, Volatile, and Array
// forward the dependence of their wrapped/element type.
func IsTemplateParamDependent(s *Type) bool {
	for _, m := range s.Members {
		if typeIsDependent(m.Type) {
			return true
		}
	}
	return false
}

func typeIsDependent(t *Type) bool {
	switch t.Kind {
	case KindUnknown, KindDeclaration, KindBase, KindUnion, KindStruct:
		return true
	case KindConst, KindVolatile, KindArray:
		return typeIsDependent(t.Elem)
	default:
		return false
	}
}

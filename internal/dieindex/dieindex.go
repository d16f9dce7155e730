// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package dieindex builds the flat, offset-keyed DIE tree the layout
// engine consumes (spec §6): one traversal of a *dwarf.Data indexes
// every Debugging Information Entry by its byte offset and links each
// to its children, so the Type Reconstructor can walk the tree and
// resolve DW_AT_type/DW_AT_specification references by a single map
// lookup regardless of visitation order.
//
// This is the "external collaborator" the core type-reconstruction
// logic (internal/layout) is written against: nothing in this package
// computes type sizes or layouts, it only exposes the DIE tree and a
// handful of attribute accessors over debug/dwarf.
package dieindex

import (
	"debug/dwarf"
	"fmt"
)

// DIE is one Debugging Information Entry, indexed by its unique byte
// offset within the .debug_info section.
type DIE struct {
	Offset   dwarf.Offset
	Tag      dwarf.Tag
	Entry    *dwarf.Entry
	Children []*DIE
}

// Unit is one compilation unit's root DIE plus the address size from
// its header, the source of the target architecture's word size.
type Unit struct {
	AddressSize int
	Root        *DIE
}

// Index is the flat offset→DIE map built by Build, plus the ordered
// list of compilation units found while building it.
type Index struct {
	byOffset map[dwarf.Offset]*DIE
	Units    []Unit
}

// Lookup returns the DIE at offset, or nil if none exists there.
func (idx *Index) Lookup(offset dwarf.Offset) *DIE {
	return idx.byOffset[offset]
}

// WordSize returns the first compilation unit's address size (§4.7),
// or fallback if there are no compilation units at all.
func (idx *Index) WordSize(fallback int64) int64 {
	if len(idx.Units) == 0 {
		return fallback
	}
	return int64(idx.Units[0].AddressSize)
}

// Build performs one traversal of every compilation unit in d,
// indexing every DIE by offset and reconstructing the parent/child
// tree from the Reader's depth-first, null-terminated encoding.
func Build(d *dwarf.Data) (*Index, error) {
	idx := &Index{byOffset: make(map[dwarf.Offset]*DIE)}

	r := d.Reader()
	for {
		cu, err := r.Next()
		if err != nil {
			return nil, fmt.Errorf("dieindex: reading compile unit: %w", err)
		}
		if cu == nil {
			break
		}
		if cu.Tag != dwarf.TagCompileUnit && cu.Tag != dwarf.TagPartialUnit {
			r.SkipChildren()
			continue
		}

		addrSize := r.AddressSize()
		root := idx.addEntry(cu)

		if err := idx.buildChildren(r, root); err != nil {
			return nil, err
		}

		idx.Units = append(idx.Units, Unit{AddressSize: addrSize, Root: root})
	}

	return idx, nil
}

// buildChildren consumes entries from r until the null entry that
// closes parent's sibling chain, recursing for every entry that itself
// has children.
func (idx *Index) buildChildren(r *dwarf.Reader, parent *DIE) error {
	if !parent.Entry.Children {
		return nil
	}

	for {
		e, err := r.Next()
		if err != nil {
			return fmt.Errorf("dieindex: reading entry: %w", err)
		}
		if e == nil {
			return nil
		}
		if e.Tag == 0 {
			// Null entry: end of parent's children.
			return nil
		}

		child := idx.addEntry(e)
		parent.Children = append(parent.Children, child)

		if err := idx.buildChildren(r, child); err != nil {
			return err
		}
	}
}

func (idx *Index) addEntry(e *dwarf.Entry) *DIE {
	d := &DIE{Offset: e.Offset, Tag: e.Tag, Entry: e}
	idx.byOffset[e.Offset] = d
	return d
}


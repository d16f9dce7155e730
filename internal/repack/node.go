// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package repack implements the Repacker (spec §4.5): given a struct
// whose members already carry offsets and interleaved padding (the
// output of the Layout Fixer and Padding Detector), it tries to produce
// a smaller, still-valid layout by relocating movable members into
// existing holes.
//
// The algorithm is a small state machine driven by the kind of the two
// nodes at a splice point: the tail of the list built so far, and the
// next member being folded in. Node is the doubly-linked list element
// that state machine operates on; it exists only for the duration of
// one Pack call and is discarded once the result is read back out into
// plain *layout.Member values.
package repack

import "github.com/wo3kie/StructCompacter/internal/layout"

// Kind identifies which slot of the repacking state machine a Node
// occupies. Head and End are sentinels: Head never leaves the list,
// and no Node of kind End is ever created; the end of the member list
// is handled by dispatchEnd directly.
type Kind uint8

const (
	KindHead Kind = iota
	KindInheritance
	KindEBOInheritance
	KindMember
	KindPadding
	KindEnd
)

// Node is one slot of the list being rebuilt. Prev/Next are nil for an
// unlinked or sentinel node.
type Node struct {
	Kind Kind
	Name string
	Type *layout.Type
	File int64
	Line int64

	Offset int64

	// Pinned marks a vptr member (spec invariant: retains its original
	// offset across repacking). Offset already holds that original value
	// when Pinned is set; dispatch places it there directly instead of
	// computing a new one.
	Pinned bool

	Prev, Next *Node
}

// Size returns the byte range the node occupies. Head, End, and
// EBOInheritance always report 0.
func (n *Node) Size() int64 {
	switch n.Kind {
	case KindHead, KindEnd, KindEBOInheritance:
		return 0
	default:
		return n.Type.Size()
	}
}

// End returns Offset + Size().
func (n *Node) End() int64 {
	return n.Offset + n.Size()
}

func newInheritanceNode(t *layout.Type, name string) *Node {
	return &Node{Kind: KindInheritance, Name: name, Type: t, File: -1, Line: -1}
}

func newEBOInheritanceNode(t *layout.Type, name string) *Node {
	return &Node{Kind: KindEBOInheritance, Name: name, Type: t, File: -1, Line: -1}
}

func newMemberNode(name string, file, line int64, t *layout.Type) *Node {
	return &Node{Kind: KindMember, Name: name, Type: t, File: file, Line: line}
}

func newPinnedMemberNode(name string, file, line int64, t *layout.Type, offset int64) *Node {
	return &Node{Kind: KindMember, Name: name, Type: t, File: file, Line: line, Offset: offset, Pinned: true}
}

func newPaddingNode(t *layout.Type, offset int64) *Node {
	return &Node{Kind: KindPadding, Type: t, File: -1, Line: -1, Offset: offset}
}

// fromMember converts a reconstructed Member into a fresh Node. Padding
// gets a cloned Type so that resizing it in place during repacking never
// mutates the original struct's retained member list; every other kind
// shares the same *layout.Type as the source member, since nothing in
// this package ever mutates a non-padding Type.
func fromMember(m *layout.Member) *Node {
	switch m.Kind {
	case layout.MemberInheritance:
		return newInheritanceNode(m.Type, m.Name)
	case layout.MemberEBOInheritance:
		return newEBOInheritanceNode(m.Type, m.Name)
	case layout.MemberData:
		if m.IsVptr() {
			return newPinnedMemberNode(m.Name, m.File, m.Line, m.Type, m.Offset)
		}
		return newMemberNode(m.Name, m.File, m.Line, m.Type)
	case layout.MemberPadding:
		return newPaddingNode(layout.NewPaddingType(m.Size()), 0)
	default:
		panic("repack: unknown member kind")
	}
}

// toMember converts a linked Node, with its final Offset, back into a
// plain layout.Member.
func (n *Node) toMember() *layout.Member {
	switch n.Kind {
	case KindInheritance:
		return layout.NewInheritance(n.Type, n.Offset)
	case KindEBOInheritance:
		return layout.NewEBOInheritance(n.Type, n.Offset)
	case KindMember:
		return layout.NewMember(n.Name, n.File, n.Line, n.Type, n.Offset)
	case KindPadding:
		return layout.NewPadding(n.Type, n.Offset)
	default:
		panic("repack: cannot convert sentinel node to member")
	}
}

// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package repack

import "github.com/wo3kie/StructCompacter/internal/layout"

// Pack tries to produce a smaller layout for s by relocating movable
// members into the holes the Padding Detector already found. It returns
// (nil, nil) when s is not a repacking candidate at all (invalid, or its
// total padding can't even cover one alignment unit) or when the result
// would be no smaller than s itself — both are "nothing to report", not
// errors. A non-nil error means the member sequence hit a (tail, incoming)
// pair with no transition, or a relocation would overlap a pinned vptr
// member; s is left untouched.
func Pack(s *layout.Type) (*layout.Type, error) {
	if !s.Valid {
		return nil, nil
	}
	if layout.TotalPadding(s) < int64(s.Alignment()) {
		return nil, nil
	}

	l := newList()
	alignment := s.Alignment()

	for _, m := range s.Members {
		if err := dispatch(l, l.tail(), fromMember(m), alignment); err != nil {
			return nil, err
		}
	}
	if err := dispatchEnd(l, l.tail(), alignment); err != nil {
		return nil, err
	}

	packedSize := l.tail().End()
	if packedSize == s.Size() {
		return nil, nil
	}

	packed := layout.NewStruct(s.Name, packedSize)
	packed.TrySetAlignment(alignment)

	members := make([]*layout.Member, 0, len(l.members()))
	for _, n := range l.members() {
		members = append(members, n.toMember())
	}
	packed.SetMembers(members)

	return packed, nil
}

// dispatch folds incoming onto the list whose current tail is tail,
// mirroring the (tail kind, incoming kind) transition table of the tool
// this was ported from.
func dispatch(l *list, tail, incoming *Node, alignment int) error {
	switch tail.Kind {
	case KindHead:
		return dispatchFromHead(l, incoming)
	case KindInheritance:
		return dispatchFromInheritance(l, tail, incoming, alignment)
	case KindEBOInheritance:
		return dispatchFromEBOInheritance(l, tail, incoming, alignment)
	case KindMember:
		return dispatchFromMember(l, tail, incoming, alignment)
	case KindPadding:
		return dispatchFromPadding(l, tail, incoming, alignment)
	default:
		return newRepackError("repack: malformed tail node")
	}
}

func dispatchFromHead(l *list, incoming *Node) error {
	switch incoming.Kind {
	case KindInheritance, KindEBOInheritance, KindMember, KindPadding:
		incoming.Offset = 0
		l.append(incoming)
		return nil
	default:
		return newRepackError("repack: unexpected first member kind")
	}
}

func dispatchFromInheritance(l *list, tail, incoming *Node, alignment int) error {
	switch incoming.Kind {
	case KindInheritance:
		addUnaligned(l, incoming, alignment)
		return nil
	case KindMember:
		if incoming.Pinned {
			return addPinned(l, incoming, alignment)
		}
		addUnaligned(l, incoming, alignment)
		return nil
	case KindPadding:
		placePaddingAfter(tail, incoming, l)
		return nil
	default:
		return newRepackError("repack: base subobject followed by an empty base")
	}
}

func dispatchFromEBOInheritance(l *list, tail, incoming *Node, alignment int) error {
	switch incoming.Kind {
	case KindInheritance, KindEBOInheritance:
		// An empty base shares its offset with whatever follows it; the
		// next base subobject simply continues at the same address.
		incoming.Offset = tail.End()
		l.append(incoming)
		return nil
	case KindMember:
		if incoming.Pinned {
			return addPinned(l, incoming, alignment)
		}
		addUnaligned(l, incoming, alignment)
		return nil
	case KindPadding:
		placePaddingAfter(tail, incoming, l)
		return nil
	default:
		return newRepackError("repack: malformed node following an empty base")
	}
}

func dispatchFromMember(l *list, tail, incoming *Node, alignment int) error {
	switch incoming.Kind {
	case KindMember:
		if incoming.Pinned {
			return addPinned(l, incoming, alignment)
		}
		if found := findMatchingPadding(l, incoming.Size(), incoming.Type.Alignment()); found != nil {
			moveMemberIntoPadding(l, found, incoming)
		} else {
			addUnaligned(l, incoming, alignment)
		}
		return nil
	case KindPadding:
		placePaddingAfter(tail, incoming, l)
		return nil
	default:
		return newRepackError("repack: data member followed by a base subobject")
	}
}

func dispatchFromPadding(l *list, tail, incoming *Node, alignment int) error {
	switch incoming.Kind {
	case KindMember:
		if incoming.Pinned {
			return addPinned(l, incoming, alignment)
		}
		if found := findMatchingPadding(l, incoming.Size(), incoming.Type.Alignment()); found != nil {
			moveMemberIntoPadding(l, found, incoming)
			return nil
		}
		if tryShrinkPaddingRight(l, tail, incoming, alignment) {
			return nil
		}
		addUnaligned(l, incoming, alignment)
		return nil
	case KindPadding:
		combined := (tail.Size() + incoming.Size()) % int64(alignment)
		if combined == 0 {
			l.popBack()
		} else {
			tail.Type.SetSize(combined)
		}
		return nil
	default:
		return newRepackError("repack: hole in the layout followed by a base subobject")
	}
}

// dispatchEnd finishes the struct: it tops the tail up with however much
// back-padding is needed to satisfy the struct's own alignment, shrinking
// an already-trailing Padding node rather than adding a second one.
func dispatchEnd(l *list, tail *Node, alignment int) error {
	switch tail.Kind {
	case KindInheritance, KindEBOInheritance, KindMember:
		addBackPadding(l, tail, alignment)
		return nil
	case KindPadding:
		offset := tail.Offset
		alignedEnd := layout.AlignUp(offset, alignment)
		newSize := (alignedEnd - offset) % int64(alignment)

		if newSize == 0 {
			l.popBack()
		} else {
			tail.Type.SetSize(newSize)
		}
		return nil
	default:
		return newRepackError("repack: empty member list")
	}
}

// addUnaligned places incoming at the next offset satisfying its own
// alignment, synthesizing (or extending) a padding gap beforehand if the
// current tail doesn't already end there.
func addUnaligned(l *list, incoming *Node, alignment int) {
	incoming.Offset = alignedStructSize(l, incoming.Type.Alignment())

	if gap := alignmentGapBefore(l, incoming); gap != nil {
		// Reuses the ordinary dispatch so a trailing Padding tail merges
		// with this gap instead of leaving two adjacent Padding nodes.
		// The tail here is always Inheritance/EBOInheritance/Member/
		// Padding, every one of which has a defined Padding-incoming
		// transition, so this never errors.
		_ = dispatch(l, l.tail(), gap, alignment)
	}

	l.append(incoming)
}

// addPinned places a vptr member at its original offset unconditionally
// (spec invariant: a vptr never moves), synthesizing a gap if the tail
// doesn't already reach it. A tail that has already passed incoming's
// offset means an earlier relocation encroached on the vptr's fixed
// slot, which should not happen given this tool's construction (a vptr
// is always the very first member); treated as a recoverable error
// rather than silently overlapping it.
func addPinned(l *list, incoming *Node, alignment int) error {
	structEnd := l.tail().End()
	if structEnd > incoming.Offset {
		return newRepackError("repack: relocation would overlap a pinned vptr member")
	}

	if gap := alignmentGapBefore(l, incoming); gap != nil {
		_ = dispatch(l, l.tail(), gap, alignment)
	}

	l.append(incoming)
	return nil
}

func alignedStructSize(l *list, alignment int) int64 {
	return layout.AlignUp(l.tail().End(), alignment)
}

func alignmentGapBefore(l *list, incoming *Node) *Node {
	structEnd := l.tail().End()
	size := incoming.Offset - structEnd
	if size == 0 {
		return nil
	}
	return newPaddingNode(layout.NewPaddingType(size), structEnd)
}

// placePaddingAfter appends padding right where tail ends. Padding's
// alignment is always 1, so this is what addUnaligned degenerates to for
// every non-Padding tail; written directly here to avoid the dispatch
// recursion addUnaligned needs for the Padding-Padding merge case.
func placePaddingAfter(tail, padding *Node, l *list) {
	padding.Offset = tail.End()
	l.append(padding)
}

func addBackPadding(l *list, tail *Node, alignment int) {
	structEnd := tail.End()
	alignedEnd := layout.AlignUp(structEnd, alignment)
	size := alignedEnd - structEnd
	if size == 0 {
		return
	}
	l.append(newPaddingNode(layout.NewPaddingType(size), structEnd))
}

// tryShrinkPaddingRight attempts to fit member against the right edge of
// the trailing padding node without a full search: if padding already
// starts at an address aligned for member, the whole padding is
// discarded and member takes its place; otherwise, if padding has at
// least member's alignment worth of slack, it is shrunk down to its
// unaligned remainder and member is placed after it normally.
func tryShrinkPaddingRight(l *list, padding, member *Node, alignment int) bool {
	memberAlignment := member.Type.Alignment()

	switch {
	case layout.IsAligned(padding.Offset, memberAlignment):
		l.popBack()
	case padding.Size() < int64(memberAlignment):
		return false
	default:
		padding.Type.SetSize(padding.Size() % int64(memberAlignment))
	}

	addUnaligned(l, member, alignment)
	return true
}

// findMatchingPadding scans every Padding node in the list, front to
// back, for one with enough room (after alignment) for size bytes.
func findMatchingPadding(l *list, size int64, alignment int) *Node {
	for n := l.front().Next; n != nil; n = n.Next {
		if n.Kind != KindPadding {
			continue
		}
		if checkPadding(n, size, alignment) {
			return n
		}
	}
	return nil
}

func checkPadding(padding *Node, size int64, alignment int) bool {
	if padding.Size() < size {
		return false
	}
	alignedOffset := layout.AlignUp(padding.Offset, alignment)
	return padding.Size()-(alignedOffset-padding.Offset) >= size
}

func moveMemberIntoPadding(l *list, padding, member *Node) {
	if padding.Size() == member.Size() {
		moveMemberIntoExactMatchPadding(l, padding, member)
	} else {
		moveMemberIntoPartialPadding(l, padding, member)
	}
}

func moveMemberIntoExactMatchPadding(l *list, padding, member *Node) {
	member.Offset = padding.Offset
	l.replace(padding, member)
}

func moveMemberIntoPartialPadding(l *list, padding, member *Node) {
	newOffset := layout.AlignUp(padding.Offset, member.Type.Alignment())

	frontSize := newOffset - padding.Offset
	backOffset := newOffset + member.Size()
	backSize := (padding.Offset + padding.Size()) - backOffset

	member.Offset = newOffset

	switch {
	case frontSize != 0 && backSize != 0:
		padding.Type.SetSize(frontSize)
		back := newPaddingNode(layout.NewPaddingType(backSize), backOffset)
		l.insertAfter(padding, member)
		l.insertAfter(member, back)

	case frontSize != 0:
		padding.Type.SetSize(frontSize)
		l.insertAfter(padding, member)

	case backSize != 0:
		padding.Type.SetSize(backSize)
		padding.Offset += member.Size()
		l.insertAfter(padding.Prev, member)
	}
}

func newRepackError(msg string) error {
	return &Error{msg: msg}
}

// Error is a non-fatal Repack failure: the struct it names is left
// unpacked and the driver logs it only when warnings are enabled.
type Error struct {
	msg string
}

func (e *Error) Error() string { return e.msg }

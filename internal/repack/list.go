// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package repack

// list is the doubly-linked list the Repacker assembles a struct's new
// member order in. It always has a permanent Head sentinel; back is the
// last real node, or head itself when the list is empty.
type list struct {
	head *Node
	back *Node
}

func newList() *list {
	h := &Node{Kind: KindHead}
	return &list{head: h, back: h}
}

// front returns the Head sentinel; callers that want the first real
// member iterate from front().Next.
func (l *list) front() *Node {
	return l.head
}

// back returns the last node in the list, or the Head sentinel if empty.
func (l *list) tail() *Node {
	return l.back
}

// append adds n as the new tail.
func (l *list) append(n *Node) {
	n.Prev = l.back
	l.back.Next = n
	l.back = n
}

// popBack removes and discards the current tail.
func (l *list) popBack() {
	old := l.back
	l.back = old.Prev
	l.back.Next = nil
	old.Prev = nil
}

// insertAfter links n immediately after pos.
func (l *list) insertAfter(pos, n *Node) {
	if pos == l.back {
		l.append(n)
		return
	}
	n.Next = pos.Next
	n.Next.Prev = n
	n.Prev = pos
	pos.Next = n
}

// replace splices n into old's position and drops old from the list.
func (l *list) replace(old, n *Node) {
	n.Prev = old.Prev
	n.Next = old.Next
	old.Prev.Next = n
	if old.Next != nil {
		old.Next.Prev = n
	} else {
		l.back = n
	}
	old.Prev, old.Next = nil, nil
}

// members returns every real (non-Head) node in list order.
func (l *list) members() []*Node {
	var out []*Node
	for n := l.head.Next; n != nil; n = n.Next {
		out = append(out, n)
	}
	return out
}

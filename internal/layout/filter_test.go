// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package layout

import "testing"

func TestIsTemplateInstance(t *testing.T) {
	if !IsTemplateInstance("Vec<int>") {
		t.Error("Vec<int> should be a template instance")
	}
	if IsTemplateInstance("Point") {
		t.Error("Point should not be a template instance")
	}
}

func TestIsSTLInternal(t *testing.T) {
	if !IsSTLInternal("_Rb_tree_node") {
		t.Error("leading-underscore name should be STL-internal")
	}
	if IsSTLInternal("Point") {
		t.Error("Point should not be STL-internal")
	}
}

// Scenario 6: a template-parameter-dependent struct whose member types
// include Unknown is skipped by the Repacker entirely.
func TestSkipRepack_TemplateParamDependent(t *testing.T) {
	vec := NewStruct("Vec<T>", 8)
	if err := vec.AddMember(NewMember("data", -1, -1, NewUnknown("type_id is None"), 0)); err != nil {
		t.Fatal(err)
	}

	if !IsTemplateParamDependent(vec) {
		t.Error("a struct with an Unknown member should be template-param-dependent")
	}
	if !SkipRepack(vec) {
		t.Error("SkipRepack should skip a dependent template instance")
	}
}

func TestSkipRepack_ConcreteTemplateInstanceIsNotSkipped(t *testing.T) {
	point := NewStruct("Box<int>", 8)
	if err := point.AddMember(NewMember("value", -1, -1, NewPointer(NewBase("int", 4), 8), 0)); err != nil {
		t.Fatal(err)
	}

	if IsTemplateParamDependent(point) {
		t.Error("a struct whose only member is a Pointer should not be dependent")
	}
	if SkipRepack(point) {
		t.Error("a concrete (non-dependent) template instance should not be skipped")
	}
}

func TestSkipRepack_STLInternalAlwaysSkipped(t *testing.T) {
	internal := NewStruct("_Rb_tree_node<int>", 8)
	if !SkipRepack(internal) {
		t.Error("an STL-internal name should always be skipped")
	}
}

func TestSkipRepack_OrdinaryStructNotSkipped(t *testing.T) {
	s := NewStruct("Point", 8)
	if SkipRepack(s) {
		t.Error("an ordinary non-template struct should not be skipped")
	}
}

func TestIsTemplateParamDependent_ConstForwardsToElem(t *testing.T) {
	s := NewStruct("Wrapper<T>", 8)
	if err := s.AddMember(NewMember("v", -1, -1, NewConst(NewUnknown("type_id is None")), 0)); err != nil {
		t.Fatal(err)
	}
	if !IsTemplateParamDependent(s) {
		t.Error("Const wrapping an Unknown type should propagate dependence")
	}
}

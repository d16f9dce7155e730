// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package report

import (
	"encoding/json"
	"io"

	"github.com/wo3kie/StructCompacter/internal/layout"
)

// JSONMember is the wire form of one member row.
type JSONMember struct {
	Name   string `json:"name"`
	Kind   string `json:"kind"`
	Offset int64  `json:"offset"`
	Type   string `json:"type"`
	Size   int64  `json:"size"`
	Align  int    `json:"alignment"`
}

// JSONStruct is the wire form of one struct's layout.
type JSONStruct struct {
	Name      string       `json:"name"`
	Size      int64        `json:"size"`
	Alignment int          `json:"alignment"`
	Members   []JSONMember `json:"members"`
}

// JSONPair is the wire form of one --json output record.
type JSONPair struct {
	Original JSONStruct `json:"original"`
	Packed   JSONStruct `json:"packed"`
}

func toJSONStruct(s *layout.Type) JSONStruct {
	out := JSONStruct{Name: s.Name, Size: s.Size(), Alignment: s.Alignment()}
	for _, m := range s.Members {
		out.Members = append(out.Members, JSONMember{
			Name:   memberName(m),
			Kind:   m.Kind.String(),
			Offset: m.Offset,
			Type:   m.Type.FormatName(0),
			Size:   m.Size(),
			Align:  m.Type.Alignment(),
		})
	}
	return out
}

// ToJSONPair converts pair to its wire form.
func ToJSONPair(pair Pair) JSONPair {
	return JSONPair{
		Original: toJSONStruct(pair.Original),
		Packed:   toJSONStruct(pair.Packed),
	}
}

// WriteJSON encodes every pair as a single JSON array to w.
func WriteJSON(w io.Writer, pairs []Pair) error {
	out := make([]JSONPair, 0, len(pairs))
	for _, p := range pairs {
		out = append(out, ToJSONPair(p))
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

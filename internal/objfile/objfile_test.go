// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package objfile

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParseFormat(t *testing.T) {
	cases := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatAuto, false},
		{"auto", FormatAuto, false},
		{"elf", FormatELF, false},
		{"macho", FormatMachO, false},
		{"pe", FormatAuto, true},
	}
	for _, c := range cases {
		got, err := ParseFormat(c.in)
		if (err != nil) != c.wantErr {
			t.Errorf("ParseFormat(%q) error = %v, wantErr %v", c.in, err, c.wantErr)
		}
		if err == nil && got != c.want {
			t.Errorf("ParseFormat(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func writeFile(t *testing.T, dir, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestSniff_RecognizesELFMagic(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.out", []byte{0x7f, 'E', 'L', 'F', 0, 0, 0, 0})

	got, err := sniff(path)
	if err != nil {
		t.Fatalf("sniff: %v", err)
	}
	if got != FormatELF {
		t.Errorf("sniff = %v, want FormatELF", got)
	}
}

func TestSniff_RecognizesMachOMagic(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.out", []byte{0xcf, 0xfa, 0xed, 0xfe, 0, 0, 0, 0})

	got, err := sniff(path)
	if err != nil {
		t.Fatalf("sniff: %v", err)
	}
	if got != FormatMachO {
		t.Errorf("sniff = %v, want FormatMachO", got)
	}
}

func TestSniff_RejectsUnknownMagic(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.out", []byte{0, 0, 0, 0})

	if _, err := sniff(path); err == nil {
		t.Error("expected an error for an unrecognized magic")
	}
}

func TestOpen_PropagatesOpenErrorForMissingFile(t *testing.T) {
	if _, err := Open(filepath.Join(t.TempDir(), "missing"), FormatAuto); err == nil {
		t.Error("expected an error opening a nonexistent file")
	}
}

func TestOpen_RejectsTruncatedELF(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.out", []byte{0x7f, 'E', 'L', 'F', 0, 0, 0, 0})

	if _, err := Open(path, FormatELF); err == nil {
		t.Error("expected an error opening a truncated ELF file")
	}
}

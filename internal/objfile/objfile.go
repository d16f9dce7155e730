// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package objfile opens the input object file and exposes its DWARF
// data and target pointer size, mirroring the narrow slice of
// internal/core.Process (Core/DWARF/PtrSize) this tool actually needs:
// a read-only, single-file, no-live-process view, since struct-layout
// analysis never touches process memory or registers.
package objfile

import (
	"debug/dwarf"
	"debug/elf"
	"debug/macho"
	"fmt"
	"io"
	"os"
)

// Format selects the object-file decoder.
type Format int

const (
	FormatAuto Format = iota
	FormatELF
	FormatMachO
)

// ParseFormat validates the --input-format flag value.
func ParseFormat(s string) (Format, error) {
	switch s {
	case "", "auto":
		return FormatAuto, nil
	case "elf":
		return FormatELF, nil
	case "macho":
		return FormatMachO, nil
	default:
		return FormatAuto, fmt.Errorf("objfile: unknown input format %q", s)
	}
}

// File is an opened object file: its DWARF data and the target
// architecture's pointer size, plus the underlying handle to close.
type File struct {
	dwarf   *dwarf.Data
	ptrSize int64
	closer  io.Closer
}

// DWARF returns the file's parsed debug information.
func (f *File) DWARF() *dwarf.Data { return f.dwarf }

// PtrSize returns the target architecture's pointer width in bytes,
// used as the fallback word size when the DWARF data has no compilation
// unit to take an address size from (see dieindex.Index.WordSize).
func (f *File) PtrSize() int64 { return f.ptrSize }

// Close releases the underlying file handle.
func (f *File) Close() error {
	if f.closer == nil {
		return nil
	}
	return f.closer.Close()
}

// Open opens path, decoding it as format (or sniffing its magic bytes
// when format is FormatAuto), and extracts its DWARF data.
func Open(path string, format Format) (*File, error) {
	if format == FormatAuto {
		sniffed, err := sniff(path)
		if err != nil {
			return nil, err
		}
		format = sniffed
	}

	switch format {
	case FormatELF:
		return openELF(path)
	case FormatMachO:
		return openMachO(path)
	default:
		return nil, fmt.Errorf("objfile: unsupported format")
	}
}

func sniff(path string) (Format, error) {
	f, err := os.Open(path)
	if err != nil {
		return FormatAuto, fmt.Errorf("objfile: opening %s: %w", path, err)
	}
	defer f.Close()

	var magic [4]byte
	if _, err := io.ReadFull(f, magic[:]); err != nil {
		return FormatAuto, fmt.Errorf("objfile: reading magic of %s: %w", path, err)
	}

	if magic == [4]byte{'\x7f', 'E', 'L', 'F'} {
		return FormatELF, nil
	}

	switch [4]byte(magic) {
	case [4]byte{0xfe, 0xed, 0xfa, 0xce}, // macho.Magic32, big endian
		[4]byte{0xce, 0xfa, 0xed, 0xfe}, // macho.Magic32, little endian
		[4]byte{0xfe, 0xed, 0xfa, 0xcf}, // macho.Magic64, big endian
		[4]byte{0xcf, 0xfa, 0xed, 0xfe}, // macho.Magic64, little endian
		[4]byte{0xca, 0xfe, 0xba, 0xbe}, // macho.MagicFat
		[4]byte{0xbe, 0xba, 0xfe, 0xca}:
		return FormatMachO, nil
	}

	return FormatAuto, fmt.Errorf("objfile: %s is neither ELF nor Mach-O (unrecognized magic)", path)
}

func openELF(path string) (*File, error) {
	ef, err := elf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("objfile: opening %s as ELF: %w", path, err)
	}

	d, err := ef.DWARF()
	if err != nil {
		ef.Close()
		return nil, fmt.Errorf("objfile: %s has no DWARF info: %w", path, err)
	}

	ptrSize := int64(4)
	if ef.Class == elf.ELFCLASS64 {
		ptrSize = 8
	}

	return &File{dwarf: d, ptrSize: ptrSize, closer: ef}, nil
}

func openMachO(path string) (*File, error) {
	mf, err := macho.Open(path)
	if err != nil {
		return nil, fmt.Errorf("objfile: opening %s as Mach-O: %w", path, err)
	}

	d, err := mf.DWARF()
	if err != nil {
		mf.Close()
		return nil, fmt.Errorf("objfile: %s has no DWARF info: %w", path, err)
	}

	ptrSize := int64(4)
	if mf.Magic == macho.Magic64 {
		ptrSize = 8
	}

	return &File{dwarf: d, ptrSize: ptrSize, closer: mf}, nil
}

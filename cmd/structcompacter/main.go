// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command structcompacter inspects an object file's DWARF debug
// information, reconstructs the layout of every user-defined struct and
// class, and proposes a member ordering that reduces sizeof(T) without
// changing semantics.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wo3kie/StructCompacter/internal/dieindex"
	"github.com/wo3kie/StructCompacter/internal/layout"
	"github.com/wo3kie/StructCompacter/internal/objfile"
	"github.com/wo3kie/StructCompacter/internal/repack"
	"github.com/wo3kie/StructCompacter/internal/report"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "structcompacter: %v\n", err)
		os.Exit(1)
	}
}

type options struct {
	types       []string
	verbose     bool
	stdout      bool
	warnings    bool
	columns     int
	diff        bool
	inputFormat string
	json        bool
}

func newRootCommand() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:           "structcompacter [flags] FILE",
		Short:         "Find and repack struct layouts with reducible padding",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(args[0], opts)
		},
	}

	flags := cmd.Flags()
	flags.StringSliceVarP(&opts.types, "types", "t", nil, "process only types matching these name patterns (trailing * for prefix match)")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "print struct details before repacking")
	flags.BoolVarP(&opts.stdout, "stdout", "s", false, "write to stdout (implies --diff)")
	flags.BoolVarP(&opts.warnings, "warnings", "w", false, "emit non-fatal diagnostics")
	flags.IntVarP(&opts.columns, "columns", "c", 50, "column width, minimum 30")
	flags.BoolVarP(&opts.diff, "diff", "d", false, "emit one file per struct containing a diff, instead of old/new pairs")
	flags.StringVar(&opts.inputFormat, "input-format", "auto", "object file format: elf, macho, or auto")
	flags.BoolVar(&opts.json, "json", false, "emit original/packed pairs as JSON instead of text")

	return cmd
}

func run(path string, opts *options) error {
	columns := opts.columns
	if columns < report.MinColumns {
		columns = report.MinColumns
	}

	format, err := objfile.ParseFormat(opts.inputFormat)
	if err != nil {
		return err
	}

	obj, err := objfile.Open(path, format)
	if err != nil {
		return err
	}
	defer obj.Close()

	idx, err := dieindex.Build(obj.DWARF())
	if err != nil {
		return fmt.Errorf("reading DWARF: %w", err)
	}

	wordSize := idx.WordSize(obj.PtrSize())
	table, warnings := layout.Reconstruct(idx, wordSize)
	if opts.warnings {
		for _, w := range warnings {
			fmt.Fprintln(os.Stderr, "warning:", w)
		}
	}

	matches := nameFilter(opts.types)

	var pairs []report.Pair
	for _, s := range table.Structs() {
		if !matches(s.Name) {
			continue
		}

		layout.FixSizeAndAlignment(s)

		if err := layout.DetectPadding(s); err != nil {
			if opts.warnings {
				fmt.Fprintln(os.Stderr, "warning:", err)
			}
			continue
		}

		if opts.verbose {
			fmt.Print(report.Listing(s, columns))
		}

		if layout.SkipRepack(s) {
			continue
		}

		packed, err := repack.Pack(s)
		if err != nil {
			if opts.warnings {
				fmt.Fprintln(os.Stderr, "warning:", err)
			}
			continue
		}
		if packed == nil {
			continue
		}

		pairs = append(pairs, report.Pair{Original: s, Packed: packed})
	}

	if opts.json {
		return report.WriteJSON(os.Stdout, pairs)
	}

	w := report.Writer{Stdout: opts.stdout, Diff: opts.diff || opts.stdout, Columns: columns}
	for _, p := range pairs {
		if err := w.Write(p); err != nil {
			return err
		}
	}
	return nil
}

// nameFilter builds the -t/--types predicate: a pattern ending in '*'
// matches by prefix, otherwise by exact name; no patterns means every
// struct matches.
func nameFilter(patterns []string) func(name string) bool {
	if len(patterns) == 0 {
		return func(string) bool { return true }
	}

	return func(name string) bool {
		for _, p := range patterns {
			if prefix, ok := strings.CutSuffix(p, "*"); ok {
				if strings.HasPrefix(name, prefix) {
					return true
				}
			} else if name == p {
				return true
			}
		}
		return false
	}
}

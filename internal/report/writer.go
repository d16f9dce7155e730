// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package report

import (
	"fmt"
	"io"
	"os"
)

// Writer emits Pairs either to stdout or to per-struct files, following
// the CLI's -s/--stdout and -d/--diff flags.
type Writer struct {
	Stdout  bool
	Diff    bool
	Columns int
}

// Write renders pair per w's configuration: to stdout as a diff when
// Stdout is set (which implies Diff), otherwise to disk as either one
// unified diff file or a pair of old/new files.
func (w Writer) Write(pair Pair) error {
	if w.Stdout {
		_, err := io.WriteString(os.Stdout, Diff(pair, w.Columns))
		return err
	}

	if w.Diff {
		return writeFile(UnifiedFileName(pair), Diff(pair, w.Columns))
	}

	if err := writeFile(OldFileName(pair), Listing(pair.Original, w.Columns)); err != nil {
		return err
	}
	return writeFile(NewFileName(pair), Listing(pair.Packed, w.Columns))
}

func writeFile(name, content string) error {
	f, err := os.Create(name)
	if err != nil {
		return fmt.Errorf("report: creating %s: %w", name, err)
	}
	defer f.Close()

	if _, err := io.WriteString(f, content); err != nil {
		return fmt.Errorf("report: writing %s: %w", name, err)
	}
	return nil
}

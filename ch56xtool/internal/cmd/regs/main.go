// Copyright 2025 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package regs

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/embeddedgo/ch56x/ch56xtool/internal/util"
	"github.com/embeddedgo/ch56x/svd"
)

const Descr = "generate Go bit field constants for a peripheral described in an SVD file"

func Main(cmd string, args []string) {
	fs := flag.NewFlagSet(cmd, flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage:\n  %s [OPTIONS] SVD_FILE\nOptions:\n", cmd)
		fs.PrintDefaults()
	}
	periph := fs.String("p", "SYS", "peripheral name")
	strip := fs.String("strip", "RB_", "prefix removed from the field names")
	fs.Parse(args)
	if fs.NArg() != 1 {
		fs.Usage()
		os.Exit(1)
	}
	f, err := os.Open(fs.Arg(0))
	util.FatalErr("", err)
	dev, err := svd.Parse(f)
	f.Close()
	util.FatalErr(fs.Arg(0), err)
	p := dev.Peripheral(*periph)
	if p == nil {
		util.Fatal("%s: no %s peripheral", fs.Arg(0), *periph)
	}
	util.FatalErr("", gen(os.Stdout, p, *strip))
}

func fixSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// gen writes two const blocks for every register with bit fields: the field
// masks (NAME = 0xMM << n) and the field positions (NAMEn = n).
func gen(w io.Writer, p *svd.Peripheral, strip string) error {
	type field struct {
		name  string
		mask  uint64
		lsb   uint
		descr string
	}
	for _, r := range p.Registers {
		if len(r.Fields) == 0 {
			continue
		}
		fields := make([]field, 0, len(r.Fields))
		for _, f := range r.Fields {
			lsb, width, err := f.Bits()
			if err != nil {
				return fmt.Errorf("%s.%s: %w", r.Name, f.Name, err)
			}
			fields = append(fields, field{
				strings.TrimPrefix(f.Name, strip), 1<<width - 1, lsb,
				fixSpaces(f.Description),
			})
		}
		fmt.Fprintf(w, "\n// %s\n", r.Name)
		fmt.Fprintln(w, "const (")
		for _, f := range fields {
			fmt.Fprintf(w, "\t%s = 0x%02X << %d", f.name, f.mask, f.lsb)
			if f.descr != "" {
				fmt.Fprintf(w, " //+ %s", f.descr)
			}
			fmt.Fprintln(w)
		}
		fmt.Fprintln(w, ")")
		fmt.Fprintln(w, "\nconst (")
		for _, f := range fields {
			fmt.Fprintf(w, "\t%sn = %d\n", f.name, f.lsb)
		}
		fmt.Fprintln(w, ")")
	}
	return nil
}

// Copyright 2025 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package clkgate

import (
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/embeddedgo/ch56x/ch56xtool/internal/util"
	"github.com/embeddedgo/ch56x/irq"
	"github.com/embeddedgo/ch56x/sys"
)

const Descr = "show the peripheral clock gates of the selected chip"

func Main(cmd string, args []string) {
	fs := flag.NewFlagSet(cmd, flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(
			os.Stderr,
			"Usage:\n  %s [OPTIONS] [IRQ...]\n"+
				"Without IRQ arguments all clock gates are listed.\n"+
				"Options:\n",
			cmd,
		)
		fs.PrintDefaults()
	}
	chip := fs.String(
		"chip", util.Getenv(util.EnvChip, "ch569"),
		"chip variant: ch569, ch568, ch567",
	)
	check := fs.Bool("check", false, "check the consistency of the clock gate tables of all chips")
	fs.Parse(args)
	if *check {
		failed := false
		for _, v := range sys.Variants() {
			if err := v.Tables().Validate(); err != nil {
				util.Warn("%s: %v", v, err)
				failed = true
			}
		}
		if failed {
			os.Exit(1)
		}
		return
	}
	v, err := sys.ParseVariant(*chip)
	util.FatalErr(*chip, err)
	if fs.NArg() == 0 {
		list(os.Stdout, v.Tables())
		return
	}
	var ns []irq.IRQn
	for _, a := range fs.Args() {
		n, err := irq.Parse(a)
		util.FatalErr(a, err)
		ns = append(ns, n)
	}
	if !resolve(os.Stdout, v.Tables(), ns) {
		os.Exit(1)
	}
}

func list(w io.Writer, t *sys.Tables) {
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "REGISTER\tMASK\tBIT\tIRQn\tPERIPHERAL")
	for _, g := range t.Groups() {
		for _, b := range g.Bindings {
			fmt.Fprintf(
				tw, "%s\t%#02x\t%s\t%d\t%s\n",
				g.Reg, b.Bit, b.Name, uint8(b.IRQ), b.IRQ,
			)
		}
	}
	tw.Flush()
}

// resolve prints the clock gates of the ns peripherals. It reports whether
// all of them were found.
func resolve(w io.Writer, t *sys.Tables, ns []irq.IRQn) bool {
	ok := true
	for _, n := range ns {
		g, found := t.Resolve(n)
		if !found {
			fmt.Fprintf(w, "%s: no clock gate\n", n)
			ok = false
			continue
		}
		fmt.Fprintf(w, "%s: %s %#02x\n", n, g.Reg, g.Bit)
	}
	return ok
}

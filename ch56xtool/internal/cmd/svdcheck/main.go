// Copyright 2025 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package svdcheck

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/embeddedgo/ch56x/ch56xtool/internal/util"
	"github.com/embeddedgo/ch56x/irq"
	"github.com/embeddedgo/ch56x/svd"
	"github.com/embeddedgo/ch56x/sys"
)

const Descr = "compare a vendor SVD file with the SYS register model"

var regs = []sys.Reg{
	sys.SAFE_ACCESS_SIG, sys.CHIP_ID, sys.SAFE_ACCESS_ID, sys.CLK_PLL_DIV,
	sys.CLK_CFG_CTRL, sys.SLP_CLK_OFF0, sys.SLP_CLK_OFF1, sys.SLP_WAKE_CTRL,
}

func Main(cmd string, args []string) {
	fs := flag.NewFlagSet(cmd, flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage:\n  %s [OPTIONS] SVD_FILE\nOptions:\n", cmd)
		fs.PrintDefaults()
	}
	chip := fs.String(
		"chip", util.Getenv(util.EnvChip, "ch569"),
		"chip variant: ch569, ch568, ch567",
	)
	periph := fs.String("p", "SYS", "name of the SYS peripheral in the SVD file")
	fs.Parse(args)
	if fs.NArg() != 1 {
		fs.Usage()
		os.Exit(1)
	}
	v, err := sys.ParseVariant(*chip)
	util.FatalErr(*chip, err)
	f, err := os.Open(fs.Arg(0))
	util.FatalErr("", err)
	dev, err := svd.Parse(f)
	f.Close()
	util.FatalErr(fs.Arg(0), err)
	problems := check(dev, *periph, v)
	for _, p := range problems {
		util.Warn("%s", p)
	}
	if len(problems) != 0 {
		os.Exit(1)
	}
}

func check(dev *svd.Device, periph string, v sys.Variant) (problems []string) {
	report := func(f string, args ...any) {
		problems = append(problems, fmt.Sprintf(f, args...))
	}
	p := dev.Peripheral(periph)
	if p == nil {
		report("no %s peripheral", periph)
		return
	}
	if uintptr(p.BaseAddress) != sys.Base {
		report("%s base address %#x, want %#x", periph, p.BaseAddress, sys.Base)
	}
	for _, r := range regs {
		sr := p.Register(r.String())
		if sr == nil {
			report("%s: missing", r)
			continue
		}
		if sr.AddressOffset != svd.Uint(r) {
			report("%s: offset %#x, want %#x", r, sr.AddressOffset, uint8(r))
		}
	}
	for _, g := range v.Tables().Groups() {
		sr := p.Register(g.Reg.String())
		if sr == nil {
			continue
		}
		for _, b := range g.Bindings {
			f := sr.Field(b.Name)
			if f == nil {
				report("%s.%s: missing", g.Reg, b.Name)
				continue
			}
			m, err := f.Mask()
			if err != nil {
				report("%s.%s: %v", g.Reg, b.Name, err)
				continue
			}
			if m != uint64(b.Bit) {
				report("%s.%s: mask %#x, want %#x", g.Reg, b.Name, m, b.Bit)
			}
		}
	}
	irqs := make(map[int]string)
	for _, i := range dev.Interrupts() {
		irqs[int(i.Value)] = i.Name
	}
	for n := irq.IRQn(0); n < irq.End; n++ {
		// Skip the reserved numbers and PWMX, which has no interrupt.
		if n == irq.PWMX_OFF || strings.HasPrefix(n.String(), "IRQ(") {
			continue
		}
		if _, ok := irqs[int(n)]; !ok {
			report("interrupt %s (%d): missing", n, n)
		}
	}
	return
}

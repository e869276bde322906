// Copyright 2025 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hclk

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/embeddedgo/ch56x/ch56xtool/internal/util"
	"github.com/embeddedgo/ch56x/mmio"
	"github.com/embeddedgo/ch56x/sys"
)

const Descr = "show the SYS register setup for the given HCLK frequencies"

// Documented are the HCLK frequencies listed in the CH56x datasheet.
var Documented = []uint32{
	120 * sys.MHz, 96 * sys.MHz, 80 * sys.MHz, 60 * sys.MHz, 48 * sys.MHz,
	40 * sys.MHz, 32 * sys.MHz, 30 * sys.MHz, 15 * sys.MHz, 10 * sys.MHz,
	6 * sys.MHz, 3 * sys.MHz, 2 * sys.MHz,
}

func Main(cmd string, args []string) {
	fs := flag.NewFlagSet(cmd, flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(
			os.Stderr,
			"Usage:\n  %s [OPTIONS] FREQ...\n"+
				"FREQ is a number of Hz with an optional k or M suffix (e.g. 2.5M)\n"+
				"Options:\n",
			cmd,
		)
		fs.PrintDefaults()
	}
	list := fs.Bool("list", false, "show the setup of all documented frequencies")
	trace := fs.Bool("trace", false, "print the register writes")
	fs.Parse(args)
	freqs := fs.Args()
	if *list {
		freqs = freqs[:0]
		for _, hz := range Documented {
			freqs = append(freqs, strconv.FormatUint(uint64(hz), 10))
		}
	}
	if len(freqs) == 0 {
		fs.Usage()
		os.Exit(1)
	}
	failed := false
	for _, s := range freqs {
		hz, err := ParseFreq(s)
		if err == nil {
			err = show(os.Stdout, hz, *trace)
		}
		if err != nil {
			util.Warn("%s: %v", s, err)
			failed = true
		}
	}
	if failed {
		os.Exit(1)
	}
}

var ErrFreq = errors.New("bad frequency")

// ParseFreq parses a frequency in Hz. The k and M suffixes are accepted.
func ParseFreq(s string) (uint32, error) {
	mul := 1.0
	switch {
	case strings.HasSuffix(s, "M"):
		mul, s = 1e6, s[:len(s)-1]
	case strings.HasSuffix(s, "k"):
		mul, s = 1e3, s[:len(s)-1]
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f < 0 {
		return 0, ErrFreq
	}
	f = math.Round(f * mul)
	if f > math.MaxUint32 {
		return 0, ErrFreq
	}
	return uint32(f), nil
}

type noInterrupts struct{}

func (noInterrupts) Disable() uintptr      { return 0 }
func (noInterrupts) Restore(state uintptr) {}

// show applies hz to a simulated SYS block and prints the result.
func show(w io.Writer, hz uint32, trace bool) error {
	c, err := sys.PlanHCLK(hz)
	if err != nil {
		return err
	}
	mem := mmio.NewMem(nil)
	var writes []string
	mem.OnStore = func(off uintptr, old, new uint8) {
		writes = append(writes, fmt.Sprintf("%s=%#02x", sys.Reg(off), new))
	}
	s := sys.New(mem, noInterrupts{}, sys.CH569)
	if err = s.SetHCLK(hz); err != nil {
		return err
	}
	src := "HSE  30 MHz"
	if c.PLL {
		src = "PLL 480 MHz"
	}
	div := c.Div
	fmt.Fprintf(
		w, "%10d Hz: %s / %-2d  %s=%#02x %s=%#02x  HCLK=%d Hz\n",
		hz, src, div,
		sys.CLK_PLL_DIV, c.PLLDivData(), sys.CLK_CFG_CTRL, c.CfgCtrlData(),
		s.HCLK(),
	)
	if trace {
		fmt.Fprintf(w, "%15s%s\n", "", strings.Join(writes, " "))
	}
	return nil
}

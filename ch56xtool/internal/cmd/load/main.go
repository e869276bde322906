// Copyright 2025 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package load

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/embeddedgo/ch56x/ch56xtool/internal/util"
	"github.com/embeddedgo/ch56x/sys"
)

const Descr = "load the program onto the device using the USB ISP bootloader or an external flasher"

func Main(cmd string, args []string) {
	fs := flag.NewFlagSet(cmd, flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(
			os.Stderr,
			"Usage:\n  %s [OPTIONS] [ELF]\nOptions:\n",
			cmd,
		)
		fs.PrintDefaults()
	}
	chip := fs.String(
		"chip", util.Getenv(util.EnvChip, "ch569"),
		"expected chip variant: ch569, ch568, ch567",
	)
	busAddr := fs.String("usb", "", "select the USB device by `BUS:ADDR`")
	flasher := fs.String(
		"cmd", os.Getenv(util.EnvFlash),
		"external flasher command line, {elf}, {bin} and {hex} are\n"+
			"replaced with the paths to the program in these formats",
	)
	inc := fs.String(
		"inc", "",
		"binary files to be included BIN1:ADDR1[,BIN2:ADDR2[,...]]",
	)
	quiet := fs.Bool("quiet", false, "do not print diagnostic information")
	fs.Parse(args)
	if fs.NArg() > 1 {
		fs.Usage()
		os.Exit(1)
	}
	v, err := sys.ParseVariant(*chip)
	util.FatalErr(*chip, err)
	elf, _ := util.InOutFiles(fs.Arg(0), ".elf", "", "")
	if strings.TrimSpace(*flasher) != "" {
		external(*flasher, elf, *inc, *quiet)
		return
	}
	native(v, elf, *inc, *busAddr, *quiet)
}

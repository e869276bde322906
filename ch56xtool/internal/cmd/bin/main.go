// Copyright 2025 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bin

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/embeddedgo/ch56x/ch56xtool/internal/util"
)

const Descr = "convert an ELF file to a flat binary image"

func Main(cmd string, args []string) {
	fs := flag.NewFlagSet(cmd, flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(
			os.Stderr,
			"Usage:\n  %s [OPTIONS] [ELF [%s]]\nOptions:\n",
			cmd, strings.ToUpper(cmd),
		)
		fs.PrintDefaults()
	}
	inc := fs.String(
		"inc", "",
		"binary files to be included BIN1:ADDR1[,BIN2:ADDR2[,...]]",
	)
	pad := fs.String("pad", "0xff", "the byte used to fill the gaps between sections")
	fs.Parse(args)
	if fs.NArg() > 2 {
		fs.Usage()
		os.Exit(1)
	}
	padByte, err := strconv.ParseUint(*pad, 0, 8)
	util.FatalErr("bad -pad value", err)
	elf, out := util.InOutFiles(fs.Arg(0), ".elf", fs.Arg(1), ".bin")
	sections, err := util.ReadELF(elf)
	util.FatalErr("readelf", err)
	if *inc != "" {
		isec, err := util.ReadBins(*inc)
		util.FatalErr("readbins", err)
		sections = append(sections, isec...)
	}
	of, err := os.Create(out)
	util.FatalErr("", err)
	_, err = sections.Flatten(of, byte(padByte))
	util.FatalErr("flatten", err)
	util.FatalErr("", of.Close())
}

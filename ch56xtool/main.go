// Copyright 2025 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Ch56xtool is a set of host tools for CH56x development: image conversion,
// building, loading over the USB ISP bootloader, a serial monitor and
// inspection of the SYS clock configuration.
package main

import (
	"fmt"
	"maps"
	"os"
	"slices"

	"github.com/embeddedgo/ch56x/ch56xtool/internal/cmd/bin"
	"github.com/embeddedgo/ch56x/ch56xtool/internal/cmd/build"
	"github.com/embeddedgo/ch56x/ch56xtool/internal/cmd/clkgate"
	"github.com/embeddedgo/ch56x/ch56xtool/internal/cmd/hclk"
	"github.com/embeddedgo/ch56x/ch56xtool/internal/cmd/hex"
	"github.com/embeddedgo/ch56x/ch56xtool/internal/cmd/load"
	"github.com/embeddedgo/ch56x/ch56xtool/internal/cmd/monitor"
	"github.com/embeddedgo/ch56x/ch56xtool/internal/cmd/regs"
	"github.com/embeddedgo/ch56x/ch56xtool/internal/cmd/svdcheck"
)

type tool struct {
	descr string
	main  func(cmd string, args []string)
}

var tools = map[string]tool{
	"bin":      {bin.Descr, bin.Main},
	"build":    {build.Descr, build.Main},
	"clkgate":  {clkgate.Descr, clkgate.Main},
	"hclk":     {hclk.Descr, hclk.Main},
	"hex":      {hex.Descr, hex.Main},
	"load":     {load.Descr, load.Main},
	"monitor":  {monitor.Descr, monitor.Main},
	"regs":     {regs.Descr, regs.Main},
	"svdcheck": {svdcheck.Descr, svdcheck.Main},
}

func printToolList() {
	names := slices.Sorted(maps.Keys(tools))
	maxLen := 0
	for _, k := range names {
		maxLen = max(maxLen, len(k))
	}
	uw := os.Stderr
	uw.WriteString("Usage:\n  ch56xtool COMMAND [ARGUMENTS]\n\n")
	uw.WriteString("Available commands:\n")
	for _, name := range names {
		fmt.Fprintf(uw, "  %-*s  %s\n", maxLen, name, tools[name].descr)
	}
}

func main() {
	if len(os.Args) < 2 || os.Args[1] == "-h" || os.Args[1] == "help" {
		printToolList()
		return
	}
	tool, ok := tools[os.Args[1]]
	if !ok {
		printToolList()
		os.Exit(1)
	}
	tool.main(os.Args[1], os.Args[2:])
}

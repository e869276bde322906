// Copyright 2025 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package load

import (
	"fmt"

	"github.com/embeddedgo/ch56x/ch56xtool/internal/isp"
	"github.com/embeddedgo/ch56x/ch56xtool/internal/util"
	"github.com/embeddedgo/ch56x/sys"
)

var chipIDs = map[sys.Variant]uint8{
	sys.CH569: 0x69,
	sys.CH568: 0x68,
	sys.CH567: 0x67,
}

func native(v sys.Variant, elf, inc, busAddr string, quiet bool) {
	img, addr, err := util.Image(elf, inc)
	util.FatalErr("", err)
	if addr != util.FlashBase {
		util.Fatal("the load address must be %#x, not %#x", util.FlashBase, addr)
	}
	conn, err := isp.Open(busAddr)
	util.FatalErr("", err)
	var progress func(string, int, int)
	if !quiet {
		fmt.Printf("%s: %d bytes\n", v, len(img))
		progress = func(stage string, done, total int) {
			util.Progress(fmt.Sprintf("%-8s", stage), done, total, 1024, "KiB")
		}
	}
	util.FatalErr("", flash(conn, chipIDs[v], img, progress))
}

type flasher interface {
	Flash(chip uint8, img []byte, progress func(stage string, done, total int)) error
	Close() error
}

// flash programs img and closes the connection, also when Flash fails.
func flash(c flasher, chip uint8, img []byte, progress func(string, int, int)) error {
	err := c.Flash(chip, img, progress)
	if cerr := c.Close(); err == nil {
		err = cerr
	}
	return err
}

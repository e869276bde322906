// Copyright 2025 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package build

import (
	"os"
	"os/exec"
	"strings"

	"github.com/embeddedgo/ch56x/ch56xtool/internal/util"
	"github.com/embeddedgo/ch56x/sys"
)

const Descr = "run `tinygo build` with the chip build tag set from CH56X_CHIP"

// buildArgs returns the tinygo command line. The chip tag is added unless the
// user provided -tags explicitly.
func buildArgs(cmd, chip string, args []string) []string {
	for _, a := range args {
		if a == "-tags" || strings.HasPrefix(a, "-tags=") {
			return append([]string{cmd}, args...)
		}
	}
	return append([]string{cmd, "-tags=" + chip}, args...)
}

func Main(cmd string, args []string) {
	v, err := sys.ParseVariant(util.Getenv(util.EnvChip, "ch569"))
	util.FatalErr(util.EnvChip, err)
	tinygo, err := exec.LookPath("tinygo")
	util.FatalErr("", err)
	c := &exec.Cmd{
		Path:   tinygo,
		Args:   append([]string{tinygo}, buildArgs(cmd, strings.ToLower(v.String()), args)...),
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
	err = c.Run()
	if err == nil {
		return
	}
	if ee, ok := err.(*exec.ExitError); ok {
		os.Exit(ee.ProcessState.ExitCode())
	}
	util.FatalErr("", err)
}

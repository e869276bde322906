// Copyright 2025 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package load

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/google/shlex"

	"github.com/embeddedgo/ch56x/ch56xtool/internal/cmd/hex"
	"github.com/embeddedgo/ch56x/ch56xtool/internal/util"
)

// expand splits the command line and replaces the {name} placeholders in
// every argument with files[name]. It returns the names of the used
// placeholders.
func expand(cmdline string, files map[string]string) (argv []string, used map[string]bool, err error) {
	argv, err = shlex.Split(cmdline)
	if err != nil {
		return nil, nil, err
	}
	used = make(map[string]bool)
	for i, a := range argv {
		for name, path := range files {
			ph := "{" + name + "}"
			if strings.Contains(a, ph) {
				a = strings.ReplaceAll(a, ph, path)
				used[name] = true
			}
		}
		argv[i] = a
	}
	return argv, used, nil
}

func external(cmdline, elf, inc string, quiet bool) {
	dir, err := os.MkdirTemp("", "ch56xtool")
	util.FatalErr("", err)
	defer os.RemoveAll(dir)
	base := strings.TrimSuffix(filepath.Base(elf), ".elf")
	files := map[string]string{
		"elf": elf,
		"bin": filepath.Join(dir, base+".bin"),
		"hex": filepath.Join(dir, base+".hex"),
	}
	argv, used, err := expand(cmdline, files)
	util.FatalErr("flasher command", err)
	if len(argv) == 0 {
		util.Fatal("flasher command: empty command line")
	}
	if used["bin"] || used["hex"] {
		ss, err := util.ReadELF(elf)
		util.FatalErr("readelf", err)
		if inc != "" {
			isec, err := util.ReadBins(inc)
			util.FatalErr("readbins", err)
			ss = append(ss, isec...)
		}
		if used["bin"] {
			var buf bytes.Buffer
			_, err = ss.Flatten(&buf, 0xff)
			util.FatalErr("flatten", err)
			util.FatalErr("", os.WriteFile(files["bin"], buf.Bytes(), 0o644))
		}
		if used["hex"] {
			f, err := os.Create(files["hex"])
			util.FatalErr("", err)
			util.FatalErr("dumpintelhex", hex.WriteHex(f, ss, 16))
			util.FatalErr("", f.Close())
		}
	}
	if !quiet {
		util.Warn("%s", strings.Join(argv, " "))
	}
	c := exec.Command(argv[0], argv[1:]...)
	c.Stdin, c.Stdout, c.Stderr = os.Stdin, os.Stdout, os.Stderr
	err = c.Run()
	if ee, ok := err.(*exec.ExitError); ok {
		os.RemoveAll(dir)
		os.Exit(ee.ProcessState.ExitCode())
	}
	util.FatalErr("", err)
}

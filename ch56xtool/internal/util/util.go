// Copyright 2025 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package util

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

func Warn(f string, args ...any) {
	fmt.Fprintf(os.Stderr, f+"\n", args...)
}

func Fatal(f string, args ...any) {
	fmt.Fprintf(os.Stderr, f+"\n", args...)
	os.Exit(1)
}

// FatalErr prints an error description and exits the program if the
// err != nil.
func FatalErr(what string, err error) {
	if err == nil {
		return
	}
	s := err.Error() + "\n"
	if what != "" {
		s = what + ": " + s
	}
	os.Stderr.WriteString(s)
	os.Exit(1)
}

// Getenv returns the value of the environment variable key or def if the
// variable is not set or empty.
func Getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// Environment variables used by the ch56xtool commands.
const (
	EnvChip  = "CH56X_CHIP"  // default chip variant (ch569, ch568, ch567)
	EnvFlash = "CH56X_FLASH" // external flasher command line
	EnvPort  = "CH56X_PORT"  // serial port of the monitor command
)

// FindGoMod walks up from dir and returns the path to the first go.mod file
// found or an empty string.
func FindGoMod(dir string) (string, error) {
	for {
		p := filepath.Join(dir, "go.mod")
		fi, err := os.Stat(p)
		if err == nil {
			if !fi.Mode().IsRegular() {
				return "", errors.New(p + " is not a regular file")
			}
			return p, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", err
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

// ModuleName returns the last element of the module path declared in the
// gomod file.
func ModuleName(gomod string) (string, error) {
	f, err := os.Open(gomod)
	if err != nil {
		return "", err
	}
	defer f.Close()
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		fs := bytes.Fields(sc.Bytes())
		if len(fs) >= 2 && string(fs[0]) == "module" {
			return filepath.Base(strings.Trim(string(fs[1]), "\"")), nil
		}
	}
	if err := sc.Err(); err != nil {
		return "", err
	}
	return "", errors.New("there is no module directive in " + gomod)
}

// InOutFiles infers the name of the input file from the module name or the
// name of the current working directory if inName is empty. The output name
// is derived from the input name if outName is empty.
func InOutFiles(inName, inSuffix, outName, outSuffix string) (string, string) {
	if inName == "" {
		wd, err := os.Getwd()
		FatalErr("", err)
		gomod, err := FindGoMod(wd)
		FatalErr("", err)
		if gomod != "" && filepath.Dir(gomod) == wd {
			inName, err = ModuleName(gomod)
			FatalErr("", err)
		} else {
			inName = filepath.Base(wd)
		}
		inName += inSuffix
	}
	if outName == "" {
		outName = strings.TrimSuffix(inName, inSuffix) + outSuffix
	}
	return inName, outName
}

var pbuf = make([]byte, 80)

const (
	ptodo = "                         ] "
	pdone = " [========================="
)

// Progress prints a progress bar to the stderr. It ends the line when cur
// reaches max.
func Progress(pre string, cur, max, scale int, post string) {
	if max <= 0 {
		return
	}
	pbuf = pbuf[:0]
	pbuf = append(pbuf, '\r')
	pbuf = append(pbuf, pre...)
	done := 25 * cur / max
	pbuf = append(pbuf, pdone[:2+done]...)
	pbuf = append(pbuf, ptodo[done:]...)
	pbuf = strconv.AppendInt(pbuf, int64(cur/scale), 10)
	pbuf = append(pbuf, ' ')
	pbuf = append(pbuf, post...)
	if cur == max {
		pbuf = append(pbuf, '\n')
	}
	os.Stderr.Write(pbuf)
}

// Copyright 2025 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package util

import (
	"bytes"
	"debug/elf"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"
)

// FlashBase is the address of the CH56x code flash in the CPU address space.
const FlashBase = 0x00000000

type Section struct {
	Vaddr uint64 // execution address
	Paddr uint64 // load address in Flash
	Data  []byte
}

type Sections []*Section

// ReadELF reads the loadable sections of the program. The order of the
// returned sections is unspecified.
func ReadELF(name string) (Sections, error) {
	f, err := elf.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	if f.Machine != elf.EM_RISCV {
		return nil, fmt.Errorf("%s: not a RISC-V program (%s)", name, f.Machine)
	}
	var ss Sections
	for _, s := range f.Sections {
		if s.Type != elf.SHT_PROGBITS || s.Flags&elf.SHF_ALLOC == 0 {
			continue
		}
		data, err := s.Data()
		if err != nil {
			return nil, err
		}
		if len(data) == 0 {
			continue
		}
		paddr := s.Addr
		for _, p := range f.Progs {
			if p.Type != elf.PT_LOAD {
				continue
			}
			if p.Off <= s.Offset && s.Offset < p.Off+p.Filesz {
				paddr = p.Paddr + s.Offset - p.Off
				break
			}
		}
		ss = append(ss, &Section{s.Addr, paddr, data})
	}
	if len(ss) == 0 {
		return nil, errors.New(name + ": no loadable sections")
	}
	return ss, nil
}

// ReadBins reads binary files described as BIN1:ADDR1[,BIN2:ADDR2[,...]].
func ReadBins(descr string) (Sections, error) {
	var ss Sections
	for _, ba := range strings.Split(descr, ",") {
		i := strings.LastIndexByte(ba, ':')
		if i <= 0 {
			return nil, fmt.Errorf("bad '%s' in the -inc option", ba)
		}
		bin, addr := ba[:i], ba[i+1:]
		paddr, err := strconv.ParseUint(addr, 0, 32)
		if err != nil {
			return nil, fmt.Errorf("bad address in '%s': %w", ba, err)
		}
		data, err := os.ReadFile(bin)
		if err != nil {
			return nil, err
		}
		ss = append(ss, &Section{Vaddr: paddr, Paddr: paddr, Data: data})
	}
	return ss, nil
}

// Size returns the number of bytes of section data.
func (ss Sections) Size() (n int) {
	for _, s := range ss {
		n += len(s.Data)
	}
	return
}

// SortByPaddr sorts sections according to the Paddr field.
func (ss Sections) SortByPaddr() {
	slices.SortFunc(ss, func(a, b *Section) int {
		switch {
		case a.Paddr < b.Paddr:
			return -1
		case a.Paddr > b.Paddr:
			return 1
		}
		return 0
	})
}

var ErrOverlap = errors.New("flatten: overlapping sections")

// Flatten sorts the sections by Paddr and writes their data to w. The gaps
// between sections are filled with the pad byte. It returns the number of
// bytes written.
func (ss Sections) Flatten(w io.Writer, pad byte) (n int, err error) {
	if len(ss) == 0 {
		return
	}
	ss.SortByPaddr()
	pa := ss[0].Paddr
	var padCache []byte
	for _, s := range ss {
		if s.Paddr < pa {
			return n, ErrOverlap
		}
		var m int
		if gap := int(s.Paddr - pa); gap != 0 {
			m, err = w.Write(PadBytes(&padCache, gap, pad))
			n += m
			pa += uint64(m)
			if err != nil {
				return
			}
		}
		m, err = w.Write(s.Data)
		n += m
		pa += uint64(m)
		if err != nil {
			return
		}
	}
	return
}

// PadBytes returns a slice of n bytes equal b. The cache, if not nil, is used
// to avoid allocations in subsequent calls with the same b.
func PadBytes(cache *[]byte, n int, b byte) []byte {
	if cache == nil {
		cache = new([]byte)
	}
	if len(*cache) < n {
		*cache = bytes.Repeat([]byte{b}, n)
	}
	return (*cache)[:n]
}

// Image reads the ELF file and the optional binary files (see ReadBins) and
// returns them as one flat image padded with 0xff, the erased flash value.
func Image(elf, inc string) (img []byte, addr uint64, err error) {
	ss, err := ReadELF(elf)
	if err != nil {
		return nil, 0, err
	}
	if inc != "" {
		bins, err := ReadBins(inc)
		if err != nil {
			return nil, 0, err
		}
		ss = append(ss, bins...)
	}
	buf := bytes.NewBuffer(make([]byte, 0, ss.Size()))
	if _, err = ss.Flatten(buf, 0xff); err != nil {
		return nil, 0, err
	}
	return buf.Bytes(), ss[0].Paddr, nil
}

// Copyright 2025 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package svd decodes the subset of CMSIS-SVD files needed to cross-check
// hand-written register definitions: peripherals, registers, bit fields and
// interrupts.
package svd

import (
	"encoding/xml"
	"errors"
	"io"
	"strconv"
	"strings"
)

type Int int

func (i *Int) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	v, err := decodeNumber(d, start)
	*i = Int(v)
	return err
}

type Uint uint

func (u *Uint) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	v, err := decodeNumber(d, start)
	if v < 0 {
		return errors.New("svd: negative value for " + start.Name.Local)
	}
	*u = Uint(v)
	return err
}

// decodeNumber parses the SVD scaledNonNegativeInteger: decimal, 0x or #
// prefixed hexadecimal and binary (#1011) notation.
func decodeNumber(d *xml.Decoder, start xml.StartElement) (int64, error) {
	var s string
	if err := d.DecodeElement(&s, &start); err != nil {
		return 0, err
	}
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "#") {
		return strconv.ParseInt(s[1:], 2, 64)
	}
	return strconv.ParseInt(s, 0, 64)
}

type Device struct {
	Vendor      string        `xml:"vendor"`
	Name        string        `xml:"name"`
	Series      string        `xml:"series"`
	Version     string        `xml:"version"`
	Description string        `xml:"description"`
	Width       Uint          `xml:"width"`
	Size        *Uint         `xml:"size"`
	Peripherals []*Peripheral `xml:"peripherals>peripheral"`
}

type Peripheral struct {
	DerivedFrom string       `xml:"derivedFrom,attr"`
	Name        string       `xml:"name"`
	Description string       `xml:"description"`
	GroupName   string       `xml:"groupName"`
	BaseAddress Uint         `xml:"baseAddress"`
	Size        *Uint        `xml:"size"`
	Interrupts  []*Interrupt `xml:"interrupt"`
	Registers   []*Register  `xml:"registers>register"`

	derived *Peripheral
}

type Interrupt struct {
	Name        string `xml:"name"`
	Description string `xml:"description"`
	Value       Int    `xml:"value"`
}

type Register struct {
	Name          string   `xml:"name"`
	DisplayName   string   `xml:"displayName"`
	Description   string   `xml:"description"`
	AddressOffset Uint     `xml:"addressOffset"`
	Size          *Uint    `xml:"size"`
	Access        string   `xml:"access"`
	ResetValue    *Uint    `xml:"resetValue"`
	Fields        []*Field `xml:"fields>field"`
}

type Field struct {
	Name        string `xml:"name"`
	Description string `xml:"description"`
	BitOffset   *Uint  `xml:"bitOffset"`
	BitWidth    *Uint  `xml:"bitWidth"`
	LSB         *Uint  `xml:"lsb"`
	MSB         *Uint  `xml:"msb"`
	BitRange    string `xml:"bitRange"`
	Access      string `xml:"access"`
}

// Parse decodes an SVD file and resolves the derivedFrom references between
// peripherals.
func Parse(r io.Reader) (*Device, error) {
	dev := new(Device)
	if err := xml.NewDecoder(r).Decode(dev); err != nil {
		return nil, err
	}
	for _, p := range dev.Peripherals {
		if p.DerivedFrom == "" {
			continue
		}
		p.derived = dev.Peripheral(p.DerivedFrom)
		if p.derived == nil {
			return nil, errors.New(
				"svd: " + p.Name + " derived from unknown " + p.DerivedFrom,
			)
		}
	}
	return dev, nil
}

// Peripheral returns the peripheral with the given name or nil.
func (d *Device) Peripheral(name string) *Peripheral {
	for _, p := range d.Peripherals {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// Interrupts returns all interrupts described by the device peripherals
// sorted by value. Interrupts listed by many peripherals are returned once.
func (d *Device) Interrupts() []*Interrupt {
	seen := make(map[Int]bool)
	var irqs []*Interrupt
	for _, p := range d.Peripherals {
		for _, irq := range p.Interrupts {
			if !seen[irq.Value] {
				seen[irq.Value] = true
				irqs = append(irqs, irq)
			}
		}
	}
	for i := 1; i < len(irqs); i++ {
		for k := i; k > 0 && irqs[k].Value < irqs[k-1].Value; k-- {
			irqs[k], irqs[k-1] = irqs[k-1], irqs[k]
		}
	}
	return irqs
}

// Register returns the register with the given name or nil. The registers of
// a derived peripheral are taken from its base.
func (p *Peripheral) Register(name string) *Register {
	regs := p.Registers
	if len(regs) == 0 && p.derived != nil {
		regs = p.derived.Registers
	}
	for _, r := range regs {
		if r.Name == name {
			return r
		}
	}
	return nil
}

// Field returns the bit field with the given name or nil.
func (r *Register) Field(name string) *Field {
	for _, f := range r.Fields {
		if f.Name == name {
			return f
		}
	}
	return nil
}

var ErrNoBitRange = errors.New("svd: bit range not specified")

// Bits returns the position of the least significant bit and the width of
// the field. All three SVD notations are supported: bitOffset/bitWidth,
// lsb/msb and the [msb:lsb] pattern.
func (f *Field) Bits() (lsb, width uint, err error) {
	switch {
	case f.BitOffset != nil:
		width = 1
		if f.BitWidth != nil {
			width = uint(*f.BitWidth)
		}
		return uint(*f.BitOffset), width, nil
	case f.LSB != nil && f.MSB != nil:
		if *f.MSB < *f.LSB {
			break
		}
		return uint(*f.LSB), uint(*f.MSB-*f.LSB) + 1, nil
	case f.BitRange != "":
		s := strings.TrimSpace(f.BitRange)
		if len(s) < 5 || s[0] != '[' || s[len(s)-1] != ']' {
			break
		}
		hi, lo, ok := strings.Cut(s[1:len(s)-1], ":")
		if !ok {
			break
		}
		msb, err1 := strconv.ParseUint(hi, 10, 8)
		l, err2 := strconv.ParseUint(lo, 10, 8)
		if err1 != nil || err2 != nil || msb < l {
			break
		}
		return uint(l), uint(msb-l) + 1, nil
	default:
		return 0, 0, ErrNoBitRange
	}
	return 0, 0, errors.New("svd: bad bit range in " + f.Name)
}

// Mask returns the field mask shifted to its position in the register.
func (f *Field) Mask() (uint64, error) {
	lsb, width, err := f.Bits()
	if err != nil {
		return 0, err
	}
	return (1<<width - 1) << lsb, nil
}

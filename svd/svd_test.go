// Copyright 2025 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package svd

import (
	"errors"
	"strings"
	"testing"
)

const testSVD = `<?xml version="1.0" encoding="utf-8"?>
<device schemaVersion="1.1">
  <vendor>WCH</vendor>
  <name>CH569</name>
  <width>32</width>
  <peripherals>
    <peripheral>
      <name>SYS</name>
      <baseAddress>0x40001000</baseAddress>
      <interrupt><name>WDOG</name><value>16</value></interrupt>
      <registers>
        <register>
          <name>R8_CLK_PLL_DIV</name>
          <addressOffset>0x08</addressOffset>
          <size>8</size>
          <fields>
            <field><name>RB_PLL_DIV</name><bitRange>[3:0]</bitRange></field>
            <field><name>RB_KEY</name><lsb>6</lsb><msb>7</msb></field>
          </fields>
        </register>
        <register>
          <name>R8_SLP_CLK_OFF0</name>
          <addressOffset>#1100</addressOffset>
          <size>8</size>
          <fields>
            <field><name>RB_SLP_CLK_TMR0</name><bitOffset>0</bitOffset><bitWidth>1</bitWidth></field>
            <field><name>RB_SLP_CLK_UART3</name><bitOffset>7</bitOffset></field>
            <field><name>RB_BROKEN</name><bitRange>[1:3]</bitRange></field>
            <field><name>RB_NONE</name></field>
          </fields>
        </register>
      </registers>
    </peripheral>
    <peripheral derivedFrom="SYS">
      <name>SYS_ALIAS</name>
      <baseAddress>0x40001800</baseAddress>
      <interrupt><name>TMR0</name><value>17</value></interrupt>
      <interrupt><name>WDOG</name><value>16</value></interrupt>
    </peripheral>
  </peripherals>
</device>
`

func parseTest(t *testing.T) *Device {
	t.Helper()
	dev, err := Parse(strings.NewReader(testSVD))
	if err != nil {
		t.Fatal(err)
	}
	return dev
}

func TestParse(t *testing.T) {
	dev := parseTest(t)
	if dev.Name != "CH569" || dev.Width != 32 {
		t.Errorf("device: %q %d", dev.Name, dev.Width)
	}
	sys := dev.Peripheral("SYS")
	if sys == nil {
		t.Fatal("no SYS peripheral")
	}
	if sys.BaseAddress != 0x40001000 {
		t.Errorf("SYS base: %#x", sys.BaseAddress)
	}
	r := sys.Register("R8_SLP_CLK_OFF0")
	if r == nil {
		t.Fatal("no R8_SLP_CLK_OFF0")
	}
	if r.AddressOffset != 0x0c {
		t.Errorf("R8_SLP_CLK_OFF0 offset: %#x", r.AddressOffset)
	}
	if dev.Peripheral("GPIO") != nil || sys.Register("R8_NONE") != nil {
		t.Error("lookup of missing element returned non-nil")
	}
}

func TestDerived(t *testing.T) {
	dev := parseTest(t)
	alias := dev.Peripheral("SYS_ALIAS")
	if alias == nil || alias.Register("R8_CLK_PLL_DIV") == nil {
		t.Error("derived peripheral does not inherit registers")
	}
	_, err := Parse(strings.NewReader(
		`<device><peripherals><peripheral derivedFrom="X"><name>Y</name>` +
			`</peripheral></peripherals></device>`,
	))
	if err == nil {
		t.Error("unknown derivedFrom accepted")
	}
}

func TestFieldMask(t *testing.T) {
	dev := parseTest(t)
	sys := dev.Peripheral("SYS")
	tests := []struct {
		reg, field string
		mask       uint64
	}{
		{"R8_CLK_PLL_DIV", "RB_PLL_DIV", 0x0f},
		{"R8_CLK_PLL_DIV", "RB_KEY", 0xc0},
		{"R8_SLP_CLK_OFF0", "RB_SLP_CLK_TMR0", 0x01},
		{"R8_SLP_CLK_OFF0", "RB_SLP_CLK_UART3", 0x80},
	}
	for _, tc := range tests {
		f := sys.Register(tc.reg).Field(tc.field)
		if f == nil {
			t.Errorf("%s.%s not found", tc.reg, tc.field)
			continue
		}
		m, err := f.Mask()
		if err != nil || m != tc.mask {
			t.Errorf("%s.%s: Mask() = %#x, %v, want %#x",
				tc.reg, tc.field, m, err, tc.mask)
		}
	}
	off0 := sys.Register("R8_SLP_CLK_OFF0")
	if _, err := off0.Field("RB_BROKEN").Mask(); err == nil {
		t.Error("RB_BROKEN: no error")
	}
	if _, err := off0.Field("RB_NONE").Mask(); !errors.Is(err, ErrNoBitRange) {
		t.Errorf("RB_NONE: %v", err)
	}
}

func TestInterrupts(t *testing.T) {
	irqs := parseTest(t).Interrupts()
	if len(irqs) != 2 {
		t.Fatalf("got %d interrupts, want 2", len(irqs))
	}
	if irqs[0].Name != "WDOG" || irqs[0].Value != 16 ||
		irqs[1].Name != "TMR0" || irqs[1].Value != 17 {
		t.Errorf("interrupts: %+v %+v", *irqs[0], *irqs[1])
	}
}

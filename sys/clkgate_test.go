// Copyright 2025 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sys

import (
	"math/rand"
	"testing"

	"github.com/embeddedgo/ch56x/irq"
)

func TestClkOffByIRQnOutOfRange(t *testing.T) {
	for _, n := range []irq.IRQn{irq.End, irq.End + 1, 100, 255} {
		ts := newTestSYS(t, CH569, map[uintptr]uint8{
			uintptr(SLP_CLK_OFF0): 0x0f,
			uintptr(SLP_CLK_OFF1): 0xf0,
		})
		before := ts.mem.Snapshot()
		if bit := ts.ClkOffByIRQn(n, true); bit != 0 {
			t.Errorf("ClkOffByIRQn(%v) = %#02x, want 0", n, bit)
		}
		if ts.mem.Snapshot() != before || ts.irqs.disables != 0 {
			t.Errorf("ClkOffByIRQn(%v) accessed the registers", n)
		}
	}
}

func TestClkOffByIRQnUnbound(t *testing.T) {
	for _, v := range Variants() {
		ts := newTestSYS(t, v, nil)
		if bit := ts.ClkOffByIRQn(irq.GPIO, true); bit != 0 {
			t.Errorf("%v: ClkOffByIRQn(GPIO) = %#02x, want 0", v, bit)
		}
		if len(ts.stores) != 0 {
			t.Errorf("%v: unexpected stores: %v", v, ts.stores)
		}
	}
}

func TestClkOffByIRQnIdempotent(t *testing.T) {
	for _, v := range Variants() {
		for _, g := range v.Tables().Groups() {
			for _, b := range g.Bindings {
				ts := newTestSYS(t, v, nil)
				for i := 0; i < 2; i++ {
					if bit := ts.ClkOffByIRQn(b.IRQ, true); bit != b.Bit {
						t.Fatalf("%v: ClkOffByIRQn(%v, true) = %#02x, want %#02x",
							v, b.IRQ, bit, b.Bit)
					}
					if got := ts.Block().Load(g.Reg); got != b.Bit {
						t.Errorf("%v: %v after %v off #%d: %#02x, want %#02x",
							v, g.Reg, b.IRQ, i+1, got, b.Bit)
					}
				}
				// Other bits set: clearing must touch only the peripheral bit.
				ts.SlpClkOff0(0xff, true)
				ts.SlpClkOff1(0xff, true)
				ts.clkOff(SLP_WAKE_CTRL, 0xff, true)
				ts.ClkOffByIRQn(b.IRQ, false)
				if got := ts.Block().Load(g.Reg); got != 0xff&^b.Bit {
					t.Errorf("%v: %v after %v on: %#02x, want %#02x",
						v, g.Reg, b.IRQ, got, 0xff&^b.Bit)
				}
				ts.done()
			}
		}
	}
}

func TestClkOffByIRQnStores(t *testing.T) {
	ts := newTestSYS(t, CH569, map[uintptr]uint8{uintptr(SLP_WAKE_CTRL): 0x31})
	if bit := ts.ClkOffByIRQn(irq.ETH, true); bit != SLP_WAKE_CLK_ETH {
		t.Fatalf("ClkOffByIRQn(ETH) = %#02x", bit)
	}
	want := store{SLP_WAKE_CTRL, 0x31 | SLP_WAKE_CLK_ETH}
	if len(ts.stores) != 1 || ts.stores[0] != want {
		t.Errorf("stores: %v, want [%v]", ts.stores, want)
	}
	if ts.irqs.disables != 1 {
		t.Errorf("interrupts disabled %d times, want 1", ts.irqs.disables)
	}
	ts.done()
}

func TestSlpClkOffMask(t *testing.T) {
	rnd := rand.New(rand.NewSource(56))
	for i := 0; i < 1000; i++ {
		v0 := uint8(rnd.Intn(256))
		mask := uint8(rnd.Intn(256))
		off := rnd.Intn(2) == 1
		want := v0 &^ mask
		if off {
			want = v0 | mask
		}
		for _, r := range []Reg{SLP_CLK_OFF0, SLP_CLK_OFF1} {
			ts := newTestSYS(t, CH569, map[uintptr]uint8{uintptr(r): v0})
			if r == SLP_CLK_OFF0 {
				ts.SlpClkOff0(mask, off)
			} else {
				ts.SlpClkOff1(mask, off)
			}
			if got := ts.Block().Load(r); got != want {
				t.Fatalf("%v: initial=%#02x mask=%#02x off=%t: got %#02x, want %#02x",
					r, v0, mask, off, got, want)
			}
			if len(ts.stores) != 1 {
				t.Fatalf("%v: %d stores, want 1", r, len(ts.stores))
			}
			ts.done()
		}
	}
}

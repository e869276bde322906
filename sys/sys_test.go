// Copyright 2025 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sys

import (
	"testing"

	"github.com/embeddedgo/ch56x/mmio"
)

// fakeInterrupts records the interrupt masking done by the code under test.
type fakeInterrupts struct {
	disabled bool
	disables int
}

func (fi *fakeInterrupts) Disable() uintptr {
	fi.disables++
	prev := fi.disabled
	fi.disabled = true
	if prev {
		return 1
	}
	return 0
}

func (fi *fakeInterrupts) Restore(state uintptr) {
	fi.disabled = state != 0
}

type store struct {
	reg Reg
	val uint8
}

// testSYS is a SYS with a simulated register block that checks the safe
// access protocol on every store.
type testSYS struct {
	*SYS
	t      *testing.T
	mem    *mmio.Mem
	irqs   *fakeInterrupts
	sig    int // number of unlock bytes seen, 2 means unlocked
	stores []store
}

func newTestSYS(t *testing.T, v Variant, init map[uintptr]uint8) *testSYS {
	ts := &testSYS{
		t:    t,
		mem:  mmio.NewMem(init),
		irqs: new(fakeInterrupts),
	}
	ts.mem.OnStore = ts.onStore
	ts.SYS = New(ts.mem, ts.irqs, v)
	return ts
}

func (ts *testSYS) onStore(off uintptr, old, new uint8) {
	r := Reg(off)
	if !ts.irqs.disabled {
		ts.t.Errorf("store %#02x to %v with interrupts enabled", new, r)
	}
	if r == SAFE_ACCESS_SIG {
		switch {
		case new == SAFE_ACCESS_SIG1 && ts.sig == 0:
			ts.sig = 1
		case new == SAFE_ACCESS_SIG2 && ts.sig == 1:
			ts.sig = 2
		case new == SAFE_ACCESS_SIG0 && ts.sig == 2:
			ts.sig = 0
		default:
			ts.t.Errorf("bad safe access sequence: %#02x after %d", new, ts.sig)
		}
		return
	}
	if ts.sig != 2 {
		ts.t.Errorf("store %#02x to %v outside safe access", new, r)
	}
	ts.stores = append(ts.stores, store{r, new})
}

// done checks that the block was left locked with interrupts restored.
func (ts *testSYS) done() {
	ts.t.Helper()
	if ts.sig != 0 {
		ts.t.Error("SYS block left unlocked")
	}
	if ts.irqs.disabled {
		ts.t.Error("interrupts left disabled")
	}
}

func TestAccessSequence(t *testing.T) {
	ts := newTestSYS(t, CH569, nil)
	var got []store
	ts.mem.OnStore = func(off uintptr, old, new uint8) {
		got = append(got, store{Reg(off), new})
	}
	ts.access(func(b *Block) {
		if !ts.irqs.disabled {
			t.Error("access body runs with interrupts enabled")
		}
		b.store(SLP_CLK_OFF1, 0x42)
	})
	want := []store{
		{SAFE_ACCESS_SIG, SAFE_ACCESS_SIG1},
		{SAFE_ACCESS_SIG, SAFE_ACCESS_SIG2},
		{SLP_CLK_OFF1, 0x42},
		{SAFE_ACCESS_SIG, SAFE_ACCESS_SIG0},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d stores, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("store %d: got %v=%#02x, want %v=%#02x",
				i, got[i].reg, got[i].val, want[i].reg, want[i].val)
		}
	}
	if ts.irqs.disabled {
		t.Error("interrupts not restored")
	}
}

func TestAccessKeepsDisabledState(t *testing.T) {
	ts := newTestSYS(t, CH569, nil)
	ts.irqs.disabled = true // called from an interrupt handler
	ts.SlpClkOff0(SLP_CLK_TMR0, true)
	if !ts.irqs.disabled {
		t.Error("access enabled interrupts that were disabled by the caller")
	}
}

func TestNestedAccessPanics(t *testing.T) {
	ts := newTestSYS(t, CH569, nil)
	ts.mem.OnStore = nil
	defer func() {
		if r := recover(); r != "sys: nested safe access" {
			t.Errorf("recover() = %v", r)
		}
	}()
	ts.access(func(b *Block) {
		ts.access(func(b *Block) {})
	})
	t.Error("nested access did not panic")
}

func TestAccessPanicCleanup(t *testing.T) {
	ts := newTestSYS(t, CH569, nil)
	func() {
		defer func() {
			if r := recover(); r != "body" {
				t.Errorf("recover() = %v", r)
			}
		}()
		ts.access(func(b *Block) {
			panic("body")
		})
	}()
	ts.done()
	// The SYS must be usable again, without a nested access panic.
	ts.SlpClkOff1(SLP_CLK_SPI0, true)
	ts.done()
	if got := ts.Block().Load(SLP_CLK_OFF1); got != SLP_CLK_SPI0 {
		t.Errorf("SLP_CLK_OFF1 = %#02x, want %#02x", got, SLP_CLK_SPI0)
	}
}

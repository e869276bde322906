// Copyright 2025 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package clkgate

import (
	"bytes"
	"strings"
	"testing"

	"github.com/embeddedgo/ch56x/irq"
	"github.com/embeddedgo/ch56x/sys"
)

func TestList(t *testing.T) {
	var buf bytes.Buffer
	list(&buf, sys.CH569.Tables())
	out := buf.String()
	lines := strings.Split(strings.TrimSpace(out), "\n")
	want := 1 + 8 + 8 + 2
	if len(lines) != want {
		t.Errorf("%d lines, want %d:\n%s", len(lines), want, out)
	}
	if !strings.Contains(out, "RB_SLP_CLK_ECDC") || !strings.Contains(out, "R8_SLP_WAKE_CTRL") {
		t.Errorf("CH569 wake gates missing:\n%s", out)
	}
}

func TestResolve(t *testing.T) {
	var buf bytes.Buffer
	ok := resolve(&buf, sys.CH568.Tables(), []irq.IRQn{irq.UART1, irq.USB0})
	if !ok {
		t.Fatalf("not resolved:\n%s", buf.String())
	}
	want := "UART1: R8_SLP_CLK_OFF0 0x20\nUSBSS: R8_SLP_CLK_OFF1 0x10\n"
	if buf.String() != want {
		t.Errorf("got:\n%s\nwant:\n%s", buf.String(), want)
	}
	buf.Reset()
	if resolve(&buf, sys.CH568.Tables(), []irq.IRQn{irq.WDOG}) {
		t.Error("WDOG resolved")
	}
}

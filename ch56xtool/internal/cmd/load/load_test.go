// Copyright 2025 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package load

import (
	"errors"
	"slices"
	"testing"

	"github.com/embeddedgo/ch56x/sys"
)

func TestExpand(t *testing.T) {
	files := map[string]string{
		"elf": "/w/app.elf",
		"bin": "/tmp/x/app.bin",
		"hex": "/tmp/x/app.hex",
	}
	argv, used, err := expand(`wchisp flash --chip "CH569 W" {bin}`, files)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"wchisp", "flash", "--chip", "CH569 W", "/tmp/x/app.bin"}
	if !slices.Equal(argv, want) {
		t.Errorf("argv = %q, want %q", argv, want)
	}
	if !used["bin"] || used["hex"] || used["elf"] {
		t.Errorf("used = %v", used)
	}

	argv, used, err = expand("openocd -c program\\ {elf}:{hex}", files)
	if err != nil {
		t.Fatal(err)
	}
	want = []string{"openocd", "-c", "program /w/app.elf:/tmp/x/app.hex"}
	if !slices.Equal(argv, want) {
		t.Errorf("argv = %q, want %q", argv, want)
	}
	if !used["elf"] || !used["hex"] || used["bin"] {
		t.Errorf("used = %v", used)
	}

	if _, _, err := expand(`flash "unterminated`, files); err == nil {
		t.Error("unterminated quote accepted")
	}
}

func TestChipIDs(t *testing.T) {
	for _, v := range sys.Variants() {
		if _, ok := chipIDs[v]; !ok {
			t.Errorf("no chip ID for %s", v)
		}
	}
}

type fakeConn struct {
	flashErr, closeErr error
	closed             bool
}

func (c *fakeConn) Flash(chip uint8, img []byte, progress func(string, int, int)) error {
	return c.flashErr
}

func (c *fakeConn) Close() error {
	c.closed = true
	return c.closeErr
}

func TestFlashCloses(t *testing.T) {
	errFlash := errors.New("verify failed")
	errClose := errors.New("close failed")
	tests := []struct {
		conn fakeConn
		want error
	}{
		{fakeConn{}, nil},
		{fakeConn{flashErr: errFlash}, errFlash},
		{fakeConn{closeErr: errClose}, errClose},
		{fakeConn{flashErr: errFlash, closeErr: errClose}, errFlash},
	}
	for i, tc := range tests {
		err := flash(&tc.conn, 0x69, []byte{1, 2, 3}, nil)
		if err != tc.want {
			t.Errorf("%d: flash() = %v, want %v", i, err, tc.want)
		}
		if !tc.conn.closed {
			t.Errorf("%d: connection not closed", i)
		}
	}
}

// Copyright 2025 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package monitor

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"
)

func TestEncodeKey(t *testing.T) {
	tests := []struct {
		r    rune
		crlf bool
		want string
	}{
		{'a', false, "a"},
		{'\r', false, "\r"},
		{'\r', true, "\r\n"},
		{'\n', false, "\r"},
		{'\n', true, "\r\n"},
		{'ż', false, "\xc5\xbc"},
	}
	for _, tc := range tests {
		if got := encodeKey(tc.r, tc.crlf); !bytes.Equal(got, []byte(tc.want)) {
			t.Errorf("encodeKey(%q, %v) = %q, want %q", tc.r, tc.crlf, got, tc.want)
		}
	}
}

func TestPickPort(t *testing.T) {
	tests := []struct {
		ports []string
		want  string
	}{
		{nil, ""},
		{[]string{"/dev/ttyS0"}, "/dev/ttyS0"},
		{[]string{"/dev/ttyS0", "/dev/ttyUSB0"}, "/dev/ttyUSB0"},
		{[]string{"/dev/ttyS0", "/dev/ttyACM1"}, "/dev/ttyACM1"},
		{[]string{"/dev/cu.Bluetooth", "/dev/cu.usbserial-110"}, "/dev/cu.usbserial-110"},
	}
	for _, tc := range tests {
		if got := pickPort(tc.ports); got != tc.want {
			t.Errorf("pickPort(%q) = %q, want %q", tc.ports, got, tc.want)
		}
	}
}

// fakePort returns output on the first Read or fails with readErr. Further
// reads block until Close.
type fakePort struct {
	output  []byte
	readErr error
	written bytes.Buffer
	closed  chan struct{}
	once    sync.Once
}

func newFakePort(output string, readErr error) *fakePort {
	return &fakePort{
		output:  []byte(output),
		readErr: readErr,
		closed:  make(chan struct{}),
	}
}

func (p *fakePort) Read(b []byte) (int, error) {
	if p.readErr != nil {
		return 0, p.readErr
	}
	if len(p.output) != 0 {
		n := copy(b, p.output)
		p.output = p.output[n:]
		return n, nil
	}
	<-p.closed
	return 0, io.EOF
}

func (p *fakePort) Write(b []byte) (int, error) {
	return p.written.Write(b)
}

func (p *fakePort) Close() error {
	p.once.Do(func() { close(p.closed) })
	return nil
}

func (p *fakePort) isClosed() bool {
	select {
	case <-p.closed:
		return true
	default:
		return false
	}
}

type chanKeys chan rune

func (c chanKeys) ReadRune() (rune, error) {
	r, ok := <-c
	if !ok {
		return 0, io.EOF
	}
	return r, nil
}

// runTimeout calls run and fails the test if it does not return in time.
func runTimeout(t *testing.T, port *fakePort, keys runeReader, out io.Writer) error {
	t.Helper()
	done := make(chan error, 1)
	go func() {
		done <- run(context.Background(), port, keys, out, false)
	}()
	select {
	case err := <-done:
		return err
	case <-time.After(2 * time.Second):
		t.Fatal("run did not return")
		return nil
	}
}

func TestRunExitKey(t *testing.T) {
	port := newFakePort("CH569W-R0-1v0, HCLK: 120MHz\r\n", nil)
	keys := make(chanKeys, 3)
	keys <- 'a'
	keys <- '\n'
	keys <- exitKey
	var out bytes.Buffer
	err := runTimeout(t, port, keys, &out)
	if !errors.Is(err, errExit) {
		t.Errorf("run() = %v, want errExit", err)
	}
	if got := port.written.String(); got != "a\r" {
		t.Errorf("sent %q, want %q", got, "a\r")
	}
	if got := out.String(); got != "CH569W-R0-1v0, HCLK: 120MHz\r\n" {
		t.Errorf("printed %q", got)
	}
	if !port.isClosed() {
		t.Error("port not closed")
	}
}

func TestRunPortError(t *testing.T) {
	errUnplugged := errors.New("device disconnected")
	port := newFakePort("", errUnplugged)
	keys := make(chanKeys) // no key is ever pressed
	err := runTimeout(t, port, keys, io.Discard)
	if !errors.Is(err, errUnplugged) {
		t.Errorf("run() = %v, want %v", err, errUnplugged)
	}
	if !port.isClosed() {
		t.Error("port not closed")
	}
}

func TestRunKeyboardError(t *testing.T) {
	port := newFakePort("", nil)
	keys := make(chanKeys)
	close(keys)
	err := runTimeout(t, port, keys, io.Discard)
	if !errors.Is(err, io.EOF) {
		t.Errorf("run() = %v, want io.EOF", err)
	}
}

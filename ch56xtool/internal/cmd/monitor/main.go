// Copyright 2025 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package monitor

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-colorable"
	"github.com/mattn/go-tty"
	"go.bug.st/serial"
	"golang.org/x/sync/errgroup"

	"github.com/embeddedgo/ch56x/ch56xtool/internal/util"
)

const Descr = "connect the terminal to the serial console of the device"

// exitKey is Ctrl-]
const exitKey = 0x1d

var errExit = errors.New("exit")

func Main(cmd string, args []string) {
	fs := flag.NewFlagSet(cmd, flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage:\n  %s [OPTIONS]\nOptions:\n", cmd)
		fs.PrintDefaults()
	}
	port := fs.String(
		"port", os.Getenv(util.EnvPort),
		"serial port, the first one found if not set",
	)
	baud := fs.Int("baud", 115200, "baud rate")
	crlf := fs.Bool("crlf", false, "send CR LF when Enter is pressed")
	list := fs.Bool("list", false, "list the available serial ports and exit")
	fs.Parse(args)
	if fs.NArg() != 0 {
		fs.Usage()
		os.Exit(1)
	}
	ports, err := serial.GetPortsList()
	util.FatalErr("serial", err)
	if *list {
		for _, p := range ports {
			fmt.Println(p)
		}
		return
	}
	if *port == "" {
		*port = pickPort(ports)
		if *port == "" {
			util.Fatal("no serial port found")
		}
	}
	sp, err := serial.Open(*port, &serial.Mode{
		BaudRate: *baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	})
	util.FatalErr(*port, err)
	term, err := tty.Open()
	util.FatalErr("tty", err)
	restore := term.MustRaw()

	out := colorable.NewColorableStdout()
	status(out, "connected to %s at %d baud, Ctrl-] to exit", *port, *baud)
	err = run(context.Background(), sp, term, out, *crlf)
	restore()
	term.Close()
	status(out, "disconnected")
	if !errors.Is(err, errExit) {
		util.FatalErr(*port, err)
	}
}

func status(w io.Writer, f string, args ...any) {
	fmt.Fprintf(w, "\x1b[1;33m--- "+f+" ---\x1b[0m\r\n", args...)
}

// pickPort returns the first port that looks like a USB serial adapter or
// the first port on the list.
func pickPort(ports []string) string {
	for _, p := range ports {
		if strings.Contains(p, "USB") || strings.Contains(p, "ACM") ||
			strings.Contains(p, "usbserial") || strings.Contains(p, "usbmodem") {
			return p
		}
	}
	if len(ports) != 0 {
		return ports[0]
	}
	return ""
}

type runeReader interface {
	ReadRune() (rune, error)
}

// keys delivers the runes read from r. The reading goroutine stops after an
// error or when ctx is done and a next rune arrives.
func keys(ctx context.Context, r runeReader) (<-chan rune, <-chan error) {
	keyc := make(chan rune)
	errc := make(chan error, 1)
	go func() {
		for {
			k, err := r.ReadRune()
			if err != nil {
				errc <- err
				return
			}
			select {
			case keyc <- k:
			case <-ctx.Done():
				return
			}
		}
	}()
	return keyc, errc
}

// run copies the port output to out and the keyboard input to the port until
// the exit key is pressed or an error occurs. The port is closed on return.
func run(ctx context.Context, port io.ReadWriteCloser, kr runeReader, out io.Writer, crlf bool) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		_, err := io.Copy(out, port)
		if ctx.Err() != nil {
			return nil
		}
		if err == nil {
			err = io.EOF
		}
		return err
	})
	g.Go(func() error {
		keyc, errc := keys(ctx, kr)
		for {
			select {
			case <-ctx.Done():
				return nil
			case err := <-errc:
				return err
			case r := <-keyc:
				if r == exitKey {
					return errExit
				}
				if _, err := port.Write(encodeKey(r, crlf)); err != nil {
					return err
				}
			}
		}
	})
	g.Go(func() error {
		// Unblocks the copy loop.
		<-ctx.Done()
		return port.Close()
	})
	return g.Wait()
}

// encodeKey returns the bytes sent to the device for the key r.
func encodeKey(r rune, crlf bool) []byte {
	switch {
	case r == '\r' && crlf:
		return []byte("\r\n")
	case r == '\n' && crlf:
		return []byte("\r\n")
	case r == '\n':
		return []byte("\r")
	}
	return []byte(string(r))
}

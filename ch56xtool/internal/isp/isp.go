// Copyright 2025 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package isp implements the host side of the USB ISP protocol of the WCH
// CH56x bootloader.
package isp

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// USB identifiers of the bootloader.
const (
	Vendor  = 0x4348
	Product = 0x55e0

	EndpointOut = 0x02
	EndpointIn  = 0x82
)

const (
	cmdIdentify   uint8 = 0xa1
	cmdEnd        uint8 = 0xa2
	cmdKey        uint8 = 0xa3
	cmdErase      uint8 = 0xa4
	cmdProgram    uint8 = 0xa5
	cmdVerify     uint8 = 0xa6
	cmdReadConfig uint8 = 0xa7
)

const (
	maxPacket = 64
	chunkSize = 56 // data bytes in one Program/Verify packet
	seedSize  = 30
	keySize   = 8

	sectorSize = 1024
	minSectors = 8
)

const identifyMagic = "MCU ISP & WCH.CN"

// Transport carries one protocol packet per Write and Read call.
type Transport interface {
	io.ReadWriter
}

type Error struct {
	Op  string
	Err error
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Error() string {
	return "isp: " + e.Op + ": " + e.Err.Error()
}

func wrapErr(op string, err *error) {
	if *err != nil {
		*err = &Error{op, *err}
	}
}

// StatusError is returned when the bootloader responds with a nonzero status.
type StatusError uint8

func (s StatusError) Error() string {
	return fmt.Sprintf("bootloader status %#02x", uint8(s))
}

var (
	ErrResponse = errors.New("malformed response")
	ErrKey      = errors.New("key checksum mismatch")
	ErrNoKey    = errors.New("key not set")
)

// Config is the content of the bootloader configuration area.
type Config struct {
	Data    [12]byte // user option bytes
	BootVer [4]byte  // bootloader version
	UID     [8]byte  // chip unique ID
}

func (c *Config) Version() string {
	return fmt.Sprintf("%d.%d", c.BootVer[1], c.BootVer[2])
}

type Conn struct {
	t      Transport
	close  func() error
	buf    [maxPacket]byte
	key    [keySize]byte
	keySet bool
	chip   uint8
}

// NewConn returns a connection that uses t to talk to the bootloader. The
// close function, if not nil, is called by Close.
func NewConn(t Transport, close func() error) *Conn {
	return &Conn{t: t, close: close}
}

func (c *Conn) Close() (err error) {
	if c.close != nil {
		err = c.close()
	}
	wrapErr("Close", &err)
	return
}

// cmd sends a request and returns the payload of the response.
func (c *Conn) cmd(cmd uint8, payload []byte) ([]byte, error) {
	if len(payload) > maxPacket-3 {
		return nil, errors.New("payload too long")
	}
	req := append(c.buf[:0], cmd)
	req = binary.LittleEndian.AppendUint16(req, uint16(len(payload)))
	req = append(req, payload...)
	if _, err := c.t.Write(req); err != nil {
		return nil, err
	}
	n, err := c.t.Read(c.buf[:])
	if err != nil {
		return nil, err
	}
	resp := c.buf[:n]
	if n < 4 || resp[0] != cmd {
		return nil, ErrResponse
	}
	if resp[1] != 0 {
		return nil, StatusError(resp[1])
	}
	m := int(binary.LittleEndian.Uint16(resp[2:]))
	if 4+m > n {
		return nil, ErrResponse
	}
	return resp[4 : 4+m], nil
}

// Identify sends the expected chip ID and the device type and returns the
// ones reported by the bootloader.
func (c *Conn) Identify(chip, devType uint8) (gotChip, gotType uint8, err error) {
	defer wrapErr("Identify", &err)
	p := append([]byte{chip, devType}, identifyMagic...)
	resp, err := c.cmd(cmdIdentify, p)
	if err != nil {
		return
	}
	if len(resp) < 2 {
		err = ErrResponse
		return
	}
	c.chip = resp[0]
	return resp[0], resp[1], nil
}

// ReadConfig reads the configuration area.
func (c *Conn) ReadConfig() (cfg Config, err error) {
	defer wrapErr("ReadConfig", &err)
	resp, err := c.cmd(cmdReadConfig, []byte{0x1f, 0x00})
	if err != nil {
		return
	}
	if len(resp) < 2+12+4+8 {
		err = ErrResponse
		return
	}
	resp = resp[2:]
	resp = resp[copy(cfg.Data[:], resp):]
	resp = resp[copy(cfg.BootVer[:], resp):]
	copy(cfg.UID[:], resp)
	return
}

// Key computes the XOR key used to scramble the programmed data. It is the
// UID checksum repeated 8 times with the chip ID added to the last byte.
func Key(uid [8]byte, chip uint8) (key [keySize]byte) {
	var sum uint8
	for _, b := range uid {
		sum += b
	}
	for i := range key {
		key[i] = sum
	}
	key[keySize-1] += chip
	return
}

func checksum(p []byte) (sum uint8) {
	for _, b := range p {
		sum += b
	}
	return
}

// SetKey establishes the XOR key. It must be called after Identify.
func (c *Conn) SetKey(uid [8]byte) (err error) {
	defer wrapErr("SetKey", &err)
	c.key = Key(uid, c.chip)
	c.keySet = false
	resp, err := c.cmd(cmdKey, make([]byte, seedSize))
	if err != nil {
		return
	}
	if len(resp) < 1 {
		return ErrResponse
	}
	if resp[0] != checksum(c.key[:]) {
		return ErrKey
	}
	c.keySet = true
	return
}

// Erase erases the flash sectors needed to store size bytes.
func (c *Conn) Erase(size int) (err error) {
	defer wrapErr("Erase", &err)
	n := (size + sectorSize - 1) / sectorSize
	if n < minSectors {
		n = minSectors
	}
	_, err = c.cmd(cmdErase, binary.LittleEndian.AppendUint32(nil, uint32(n)))
	return
}

func (c *Conn) transfer(cmd uint8, addr uint32, data []byte, progress func(done, total int)) error {
	if !c.keySet {
		return ErrNoKey
	}
	var p [4 + 1 + chunkSize]byte
	for i := 0; i < len(data); i += chunkSize {
		chunk := data[i:min(i+chunkSize, len(data))]
		binary.LittleEndian.PutUint32(p[:], addr+uint32(i))
		p[4] = 0
		for k, b := range chunk {
			p[5+k] = b ^ c.key[k%keySize]
		}
		if _, err := c.cmd(cmd, p[:5+len(chunk)]); err != nil {
			return fmt.Errorf("at %#x: %w", addr+uint32(i), err)
		}
		if progress != nil {
			progress(i+len(chunk), len(data))
		}
	}
	return nil
}

// Program writes data to the flash starting from addr.
func (c *Conn) Program(addr uint32, data []byte, progress func(done, total int)) (err error) {
	defer wrapErr("Program", &err)
	if err = c.transfer(cmdProgram, addr, data, progress); err != nil {
		return
	}
	// An empty packet flushes the bootloader write buffer.
	var p [5]byte
	binary.LittleEndian.PutUint32(p[:], addr+uint32(len(data)))
	_, err = c.cmd(cmdProgram, p[:])
	return
}

// Verify compares the flash content starting from addr with data.
func (c *Conn) Verify(addr uint32, data []byte, progress func(done, total int)) (err error) {
	defer wrapErr("Verify", &err)
	return c.transfer(cmdVerify, addr, data, progress)
}

// End leaves the bootloader. If reset is true the chip runs the new program.
func (c *Conn) End(reset bool) (err error) {
	defer wrapErr("End", &err)
	var r uint8
	if reset {
		r = 1
	}
	_, err = c.cmd(cmdEnd, []byte{r})
	return
}

// Flash performs the whole programming sequence: identify, read the
// configuration, set the key, erase, program, verify and reset. The progress
// function, if not nil, is called with the name of the current stage.
func (c *Conn) Flash(chip uint8, img []byte, progress func(stage string, done, total int)) (err error) {
	got, _, err := c.Identify(chip, 0x10)
	if err != nil {
		return err
	}
	if got != chip {
		return &Error{"Flash", fmt.Errorf("chip ID %#02x, want %#02x", got, chip)}
	}
	cfg, err := c.ReadConfig()
	if err != nil {
		return err
	}
	if err = c.SetKey(cfg.UID); err != nil {
		return err
	}
	if err = c.Erase(len(img)); err != nil {
		return err
	}
	stage := func(name string) func(int, int) {
		if progress == nil {
			return nil
		}
		return func(done, total int) { progress(name, done, total) }
	}
	if err = c.Program(0, img, stage("program")); err != nil {
		return err
	}
	if err = c.SetKey(cfg.UID); err != nil {
		return err
	}
	if err = c.Verify(0, img, stage("verify")); err != nil {
		return err
	}
	return c.End(true)
}

// Copyright 2026 The CO2Meter Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package hidtest provides a fake HID backend for driver tests, in the
// spirit of periph.io's conn tester packages: a Playback serves canned
// frames and records what the driver sent to it.
package hidtest

import (
	"errors"
	"sync"

	"github.com/vfilimonov/co2meter/co2mon"
)

// ErrOutOfFrames is returned by Read once the canned frames are exhausted
// and Loop is not set. The driver surfaces it as a device I/O failure.
var ErrOutOfFrames = errors.New("hidtest: out of frames")

// Playback implements co2mon.Opener and co2mon.Transport against a canned
// frame list. The zero value enumerates one fake endpoint and fails every
// Read.
type Playback struct {
	// Devices is returned by Enumerate. When nil, a single endpoint with
	// path "hidtest:0" is reported; use an empty non-nil slice to
	// simulate an absent device.
	Devices []co2mon.Info
	// Frames are returned by Read in order.
	Frames [][]byte
	// Loop replays Frames from the start once they are exhausted.
	Loop bool
	// RewindOnOpen restarts the frame sequence on every OpenPath, so a
	// reconnect gets a fresh stream.
	RewindOnOpen bool
	// OpenErr, when set, makes OpenPath fail.
	OpenErr error
	// Device strings reported to the driver.
	Mfr, Product, Serial string

	mu      sync.Mutex
	next    int
	reads   int
	opens   int
	closes  int
	reports [][]byte
}

func (p *Playback) Enumerate(vendorID, productID uint16) ([]co2mon.Info, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Devices == nil {
		return []co2mon.Info{{VendorID: vendorID, ProductID: productID, Path: "hidtest:0"}}, nil
	}
	return append([]co2mon.Info(nil), p.Devices...), nil
}

func (p *Playback) OpenPath(path string) (co2mon.Transport, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.OpenErr != nil {
		return nil, p.OpenErr
	}
	p.opens++
	if p.RewindOnOpen {
		p.next = 0
	}
	return p, nil
}

func (p *Playback) Read(b []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.next >= len(p.Frames) {
		if !p.Loop || len(p.Frames) == 0 {
			return 0, ErrOutOfFrames
		}
		p.next = 0
	}
	p.reads++
	n := copy(b, p.Frames[p.next])
	p.next++
	return n, nil
}

func (p *Playback) SendFeatureReport(b []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.reports = append(p.reports, append([]byte(nil), b...))
	return len(b), nil
}

func (p *Playback) GetMfrStr() (string, error) {
	return p.Mfr, nil
}

func (p *Playback) GetProductStr() (string, error) {
	return p.Product, nil
}

func (p *Playback) GetSerialNbr() (string, error) {
	return p.Serial, nil
}

func (p *Playback) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closes++
	return nil
}

// Opens returns how many times OpenPath succeeded.
func (p *Playback) Opens() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.opens
}

// Closes returns how many times Close was called.
func (p *Playback) Closes() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closes
}

// Reads returns how many frames were served.
func (p *Playback) Reads() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.reads
}

// FeatureReports returns copies of every feature report received.
func (p *Playback) FeatureReports() [][]byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([][]byte(nil), p.reports...)
}

// SetOpenErr changes the OpenPath failure injection while the driver is
// running.
func (p *Playback) SetOpenErr(err error) {
	p.mu.Lock()
	p.OpenErr = err
	p.mu.Unlock()
}

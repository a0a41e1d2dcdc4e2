// Copyright 2026 The CO2Meter Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package co2mon

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

// Opts holds the configuration options for the device.
type Opts struct {
	// Path selects a specific endpoint when several monitors are
	// connected. Empty selects the first match.
	Path string
	// BypassDecrypt disables the unscrambling pass. Some device revisions
	// ship firmware that transmits frames in plaintext; with those the
	// default pipeline turns every frame into garbage and no data comes
	// out, which is the symptom to look for.
	BypassDecrypt bool
	// MagicTable is the key sent to the device during the handshake and
	// mixed into the decode pipeline. Every known device uses the
	// all-zero table, so the zero value is the correct default.
	MagicTable [FrameSize]byte
}

// DefaultOpts holds the default configuration options for the device.
var DefaultOpts = Opts{}

var errNotOpen = errors.New("device not open")

// Dev is a handle to one CO2 monitor. The underlying OS handle is
// reference counted: it is open exactly while the count is above zero, so
// overlapping users (a foreground read and the monitoring loop) share one
// handle and never double-close it.
type Dev struct {
	opener Opener
	opts   Opts
	tr     transcoder
	info   Info

	mu    sync.Mutex
	count int
	h     Transport
}

// New discovers a monitor through o and retrieves its device strings.
// opts may be nil. It returns a *NotFoundError when no matching endpoint
// is connected.
func New(o Opener, opts *Opts) (*Dev, error) {
	if opts == nil {
		opts = &DefaultOpts
	}
	d := &Dev{opener: o, opts: *opts, tr: newTranscoder(opts.MagicTable, opts.BypassDecrypt)}
	if err := d.discover(); err != nil {
		return nil, err
	}
	release, err := d.session(true)
	if err != nil {
		return nil, err
	}
	defer release()
	// Device strings need an open handle on most platforms; enumeration
	// often returns them empty without extra permissions.
	d.mu.Lock()
	h := d.h
	d.mu.Unlock()
	if s, err := h.GetMfrStr(); err == nil && s != "" {
		d.info.Manufacturer = s
	}
	if s, err := h.GetProductStr(); err == nil && s != "" {
		d.info.Product = s
	}
	if s, err := h.GetSerialNbr(); err == nil && s != "" {
		d.info.SerialNumber = s
	}
	return d, nil
}

func (d *Dev) discover() error {
	found, err := d.opener.Enumerate(VendorID, ProductID)
	if err != nil {
		return &IOError{Op: "enumerate", Err: err}
	}
	var checked []Info
	for _, di := range found {
		if d.opts.Path == "" || di.Path == d.opts.Path {
			di.VendorID, di.ProductID = VendorID, ProductID
			d.info = di
			return nil
		}
		checked = append(checked, di)
	}
	return &NotFoundError{Path: d.opts.Path, Checked: checked}
}

// Open opens the OS handle unless another user already holds it, in which
// case only the reference count is incremented. With sendMagicTable set
// the magic table is written as a feature report on the actual open; the
// device will not produce decodable frames without it.
func (d *Dev) Open(sendMagicTable bool) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.count == 0 {
		h, err := d.opener.OpenPath(d.info.Path)
		if err != nil {
			return &IOError{Op: "open", Err: err}
		}
		if sendMagicTable {
			if _, err := h.SendFeatureReport(d.featureReport()); err != nil {
				_ = h.Close()
				return &IOError{Op: "feature report", Err: err}
			}
		}
		d.h = h
	}
	d.count++
	return nil
}

// Close decrements the reference count and closes the OS handle when it
// reaches zero. With force set the count is reset and the handle closed
// regardless of other users. Calling Close more often than Open is a
// no-op.
func (d *Dev) Close(force bool) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if force {
		d.count = 0
	} else if d.count > 0 {
		d.count--
	}
	if d.count == 0 && d.h != nil {
		err := d.h.Close()
		d.h = nil
		if err != nil {
			return &IOError{Op: "close", Err: err}
		}
	}
	return nil
}

// session acquires the device and returns a release function that is safe
// to call exactly once on every exit path; extra calls are no-ops.
func (d *Dev) session(sendMagicTable bool) (func(), error) {
	if err := d.Open(sendMagicTable); err != nil {
		return nil, err
	}
	var once sync.Once
	return func() {
		once.Do(func() { _ = d.Close(false) })
	}, nil
}

// featureReport is report ID 0 followed by the magic table; the device
// uses unnumbered reports.
func (d *Dev) featureReport() []byte {
	buf := make([]byte, 1, FrameSize+1)
	return append(buf, d.opts.MagicTable[:]...)
}

// ReadRecord reads one frame from the open device and runs it through the
// decode pipeline. The result still needs DecodeRecord validation; the
// pipeline itself cannot fail.
func (d *Dev) ReadRecord() ([FrameSize]byte, error) {
	var raw [FrameSize]byte
	d.mu.Lock()
	h := d.h
	d.mu.Unlock()
	if h == nil {
		return raw, &IOError{Op: "read", Err: errNotOpen}
	}
	buf := make([]byte, FrameSize)
	n, err := h.Read(buf)
	if err != nil {
		return raw, &IOError{Op: "read", Err: err}
	}
	if n < FrameSize {
		return raw, &IOError{Op: "read", Err: fmt.Errorf("short frame: %d bytes", n)}
	}
	copy(raw[:], buf)
	return d.tr.decrypt(raw), nil
}

// ReadSample polls the device until it has seen both a CO2 and a
// temperature reading, or maxRequests frames have been consumed. Within
// one call a later reading of a kind overwrites an earlier one. Running
// out of frames is not an error: the missing fields stay unset. Malformed
// frames are skipped silently.
func (d *Dev) ReadSample(maxRequests int) (Sample, error) {
	release, err := d.session(true)
	if err != nil {
		return Sample{}, err
	}
	defer release()
	var s Sample
	for i := 0; i < maxRequests; i++ {
		rec, err := d.ReadRecord()
		if err != nil {
			return Sample{}, err
		}
		r, ok := DecodeRecord(rec)
		if !ok {
			continue
		}
		switch r.Kind {
		case KindCO2:
			s.CO2, s.HasCO2 = r.PPM(), true
		case KindTemperature:
			s.Temperature, s.HasTemperature = r.Temperature(), true
		}
		if s.HasCO2 && s.HasTemperature {
			break
		}
	}
	s.Time = time.Now().Truncate(time.Second)
	return s, nil
}

// IsAlive reports whether an open/close round trip against the device
// currently succeeds. It has no side effect on long-lived state.
func (d *Dev) IsAlive() bool {
	release, err := d.session(true)
	if err != nil {
		return false
	}
	release()
	return true
}

// Info returns the identity of the endpoint this Dev is bound to.
func (d *Dev) Info() Info {
	return d.info
}

func (d *Dev) String() string {
	return fmt.Sprintf("co2mon: %s (%04x:%04x)", d.info.Path, d.info.VendorID, d.info.ProductID)
}

// Copyright 2026 The CO2Meter Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package co2mon_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/vfilimonov/co2meter/co2mon"
	"github.com/vfilimonov/co2meter/co2mon/hidtest"
)

// Scrambled frames matching the zero magic table, from the transcoder
// fixtures: CO2 1036 ppm and temperature 4693 (20.1625°C).
var (
	rawCO2  = []byte{0x11, 0xA4, 0xA2, 0xB6, 0x5B, 0x9A, 0x9C, 0xB0}
	rawTemp = []byte{0x5B, 0xA4, 0x32, 0xB6, 0xCD, 0x9A, 0x9C, 0xF8}

	plainCO2  = []byte{0x50, 0x04, 0x0C, 0x60, 0x0D, 0, 0, 0}
	plainTemp = []byte{0x42, 0x12, 0x55, 0xA9, 0x0D, 0, 0, 0}
)

func TestNewReadsDeviceStrings(t *testing.T) {
	pb := &hidtest.Playback{Mfr: "Holtek", Product: "USB-zyTemp", Serial: "1.40"}
	dev, err := co2mon.New(pb, nil)
	if err != nil {
		t.Fatal(err)
	}
	info := dev.Info()
	if info.Manufacturer != "Holtek" || info.Product != "USB-zyTemp" || info.SerialNumber != "1.40" {
		t.Errorf("unexpected info: %#v", info)
	}
	if info.VendorID != co2mon.VendorID || info.ProductID != co2mon.ProductID {
		t.Errorf("unexpected USB identity: %04x:%04x", info.VendorID, info.ProductID)
	}
	// New performs exactly one scoped open/close round trip.
	if pb.Opens() != 1 || pb.Closes() != 1 {
		t.Errorf("opens=%d closes=%d after New, want 1/1", pb.Opens(), pb.Closes())
	}
}

func TestNewNotFound(t *testing.T) {
	pb := &hidtest.Playback{Devices: []co2mon.Info{}}
	_, err := co2mon.New(pb, nil)
	var nfe *co2mon.NotFoundError
	if !errors.As(err, &nfe) {
		t.Fatalf("err = %v, want NotFoundError", err)
	}

	pb = &hidtest.Playback{Devices: []co2mon.Info{{Path: "hidtest:0"}, {Path: "hidtest:1"}}}
	_, err = co2mon.New(pb, &co2mon.Opts{Path: "hidtest:9"})
	if !errors.As(err, &nfe) {
		t.Fatalf("err = %v, want NotFoundError", err)
	}
	if len(nfe.Checked) != 2 {
		t.Errorf("checked %d candidates, want 2", len(nfe.Checked))
	}
}

func TestOpenCloseRefCount(t *testing.T) {
	pb := &hidtest.Playback{}
	dev, err := co2mon.New(pb, nil)
	if err != nil {
		t.Fatal(err)
	}
	baseOpens, baseCloses := pb.Opens(), pb.Closes()

	// N nested opens followed by N closes open and close the OS handle
	// exactly once.
	for i := 0; i < 3; i++ {
		if err := dev.Open(true); err != nil {
			t.Fatal(err)
		}
	}
	for i := 0; i < 3; i++ {
		if err := dev.Close(false); err != nil {
			t.Fatal(err)
		}
	}
	if got := pb.Opens() - baseOpens; got != 1 {
		t.Errorf("nested opens hit the OS %d times, want 1", got)
	}
	if got := pb.Closes() - baseCloses; got != 1 {
		t.Errorf("nested closes hit the OS %d times, want 1", got)
	}

	// Extra closes beyond the open count are no-ops.
	for i := 0; i < 2; i++ {
		if err := dev.Close(false); err != nil {
			t.Fatal(err)
		}
	}
	if got := pb.Closes() - baseCloses; got != 1 {
		t.Errorf("extra Close reached the OS: %d closes, want 1", got)
	}
}

func TestCloseForce(t *testing.T) {
	pb := &hidtest.Playback{}
	dev, err := co2mon.New(pb, nil)
	if err != nil {
		t.Fatal(err)
	}
	baseCloses := pb.Closes()
	for i := 0; i < 3; i++ {
		if err := dev.Open(true); err != nil {
			t.Fatal(err)
		}
	}
	if err := dev.Close(true); err != nil {
		t.Fatal(err)
	}
	if got := pb.Closes() - baseCloses; got != 1 {
		t.Errorf("force close hit the OS %d times, want 1", got)
	}
	// The count was reset; another Close must not double-close.
	if err := dev.Close(false); err != nil {
		t.Fatal(err)
	}
	if got := pb.Closes() - baseCloses; got != 1 {
		t.Errorf("close after force close reached the OS: %d closes, want 1", got)
	}
}

func TestMagicTableHandshake(t *testing.T) {
	table := [co2mon.FrameSize]byte{1, 2, 3, 4, 5, 6, 7, 8}
	pb := &hidtest.Playback{}
	_, err := co2mon.New(pb, &co2mon.Opts{MagicTable: table})
	if err != nil {
		t.Fatal(err)
	}
	reports := pb.FeatureReports()
	if len(reports) != 1 {
		t.Fatalf("got %d feature reports, want 1", len(reports))
	}
	want := append([]byte{0}, table[:]...)
	if !bytes.Equal(reports[0], want) {
		t.Errorf("feature report = %#v, want report ID 0 + table %#v", reports[0], want)
	}
}

func TestReadSampleBothKinds(t *testing.T) {
	pb := &hidtest.Playback{Frames: [][]byte{rawCO2, rawTemp, rawCO2, rawCO2}}
	dev, err := co2mon.New(pb, nil)
	if err != nil {
		t.Fatal(err)
	}
	s, err := dev.ReadSample(50)
	if err != nil {
		t.Fatal(err)
	}
	if !s.HasCO2 || !s.HasTemperature {
		t.Fatalf("incomplete sample: %s", s)
	}
	if s.CO2 != 1036 {
		t.Errorf("CO2 = %d, want 1036", s.CO2)
	}
	if c := s.Temperature.Celsius(); c < 20.16 || c > 20.17 {
		t.Errorf("temperature = %.4f°C, want 20.1625°C", c)
	}
	// Both kinds arrived within the first two frames; the aggregator must
	// have stopped there.
	if pb.Reads() != 2 {
		t.Errorf("read %d frames, want 2", pb.Reads())
	}
	if s.Time.IsZero() || s.Time.Nanosecond() != 0 {
		t.Errorf("timestamp not truncated to seconds: %v", s.Time)
	}
}

func TestReadSamplePartial(t *testing.T) {
	pb := &hidtest.Playback{Frames: [][]byte{rawCO2}, Loop: true}
	dev, err := co2mon.New(pb, nil)
	if err != nil {
		t.Fatal(err)
	}
	base := pb.Reads()
	s, err := dev.ReadSample(10)
	if err != nil {
		t.Fatal(err)
	}
	if !s.HasCO2 || s.HasTemperature {
		t.Fatalf("got %s, want CO2 only", s)
	}
	if got := pb.Reads() - base; got != 10 {
		t.Errorf("read %d frames, want the full budget of 10", got)
	}
}

func TestReadSampleSkipsMalformed(t *testing.T) {
	bad := []byte{0xDE, 0xAD, 0xBE, 0xEF, 0x00, 0x00, 0x00, 0x00}
	pb := &hidtest.Playback{
		Frames: [][]byte{bad, plainCO2, bad, plainTemp},
	}
	dev, err := co2mon.New(pb, &co2mon.Opts{BypassDecrypt: true})
	if err != nil {
		t.Fatal(err)
	}
	s, err := dev.ReadSample(50)
	if err != nil {
		t.Fatal(err)
	}
	if !s.HasCO2 || !s.HasTemperature {
		t.Fatalf("incomplete sample: %s", s)
	}
}

func TestReadSampleBypassDecrypt(t *testing.T) {
	pb := &hidtest.Playback{Frames: [][]byte{plainCO2, plainTemp}}
	dev, err := co2mon.New(pb, &co2mon.Opts{BypassDecrypt: true})
	if err != nil {
		t.Fatal(err)
	}
	s, err := dev.ReadSample(50)
	if err != nil {
		t.Fatal(err)
	}
	if s.CO2 != 1036 || !s.HasTemperature {
		t.Fatalf("unexpected sample: %s", s)
	}
}

func TestReadSampleIOError(t *testing.T) {
	pb := &hidtest.Playback{}
	dev, err := co2mon.New(pb, nil)
	if err != nil {
		t.Fatal(err)
	}
	_, err = dev.ReadSample(50)
	var ioe *co2mon.IOError
	if !errors.As(err, &ioe) {
		t.Fatalf("err = %v, want IOError", err)
	}
	if !errors.Is(err, hidtest.ErrOutOfFrames) {
		t.Errorf("IOError does not wrap the transport error: %v", err)
	}
}

func TestIsAlive(t *testing.T) {
	pb := &hidtest.Playback{}
	dev, err := co2mon.New(pb, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !dev.IsAlive() {
		t.Error("IsAlive() = false for a reachable device")
	}
	pb.SetOpenErr(errors.New("unplugged"))
	if dev.IsAlive() {
		t.Error("IsAlive() = true with open failing")
	}
}

func TestShortFrame(t *testing.T) {
	pb := &hidtest.Playback{Frames: [][]byte{{0x11, 0xA4}}}
	dev, err := co2mon.New(pb, nil)
	if err != nil {
		t.Fatal(err)
	}
	_, err = dev.ReadSample(5)
	var ioe *co2mon.IOError
	if !errors.As(err, &ioe) {
		t.Fatalf("err = %v, want IOError on short frame", err)
	}
}

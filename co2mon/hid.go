// Copyright 2026 The CO2Meter Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package co2mon

import (
	"sync"

	hid "github.com/sstallion/go-hid"
)

// USB identity shared by all supported monitors (Holtek USB-zyTemp).
const (
	VendorID  uint16 = 0x04D9
	ProductID uint16 = 0xA052
)

// Info describes the HID endpoint behind a Dev.
type Info struct {
	VendorID     uint16 `json:"vendor_id"`
	ProductID    uint16 `json:"product_id"`
	Path         string `json:"path"`
	Manufacturer string `json:"manufacturer"`
	Product      string `json:"product_name"`
	SerialNumber string `json:"serial_no"`
}

// Transport is the subset of HID device operations the driver needs.
// *hid.Device satisfies it.
type Transport interface {
	Read(b []byte) (int, error)
	SendFeatureReport(b []byte) (int, error)
	GetMfrStr() (string, error)
	GetProductStr() (string, error)
	GetSerialNbr() (string, error)
	Close() error
}

// Opener enumerates HID endpoints and opens them by path. The hidtest
// package provides a playback implementation for tests.
type Opener interface {
	Enumerate(vendorID, productID uint16) ([]Info, error)
	OpenPath(path string) (Transport, error)
}

// System returns an Opener backed by the platform hidapi library.
func System() Opener {
	return sysOpener{}
}

type sysOpener struct{}

var hidInit sync.Once

func (sysOpener) Enumerate(vendorID, productID uint16) ([]Info, error) {
	hidInit.Do(func() { _ = hid.Init() })
	var found []Info
	err := hid.Enumerate(vendorID, productID, func(di *hid.DeviceInfo) error {
		found = append(found, Info{
			VendorID:     di.VendorID,
			ProductID:    di.ProductID,
			Path:         di.Path,
			Manufacturer: di.MfrStr,
			Product:      di.ProductStr,
			SerialNumber: di.SerialNbr,
		})
		return nil
	})
	return found, err
}

func (sysOpener) OpenPath(path string) (Transport, error) {
	hidInit.Do(func() { _ = hid.Init() })
	d, err := hid.OpenPath(path)
	if err != nil {
		return nil, err
	}
	return d, nil
}

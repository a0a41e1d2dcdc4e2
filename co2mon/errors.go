// Copyright 2026 The CO2Meter Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package co2mon

import "fmt"

// NotFoundError is returned when device discovery finds no matching HID
// endpoint. It is fatal to construction; the caller must build a new Dev
// once the device is plugged in.
type NotFoundError struct {
	// Path is the requested endpoint path, empty when any device would do.
	Path string
	// Checked lists the endpoints that were enumerated but not selected.
	Checked []Info
}

func (e *NotFoundError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("co2mon: no device at %q (%d other endpoints checked)", e.Path, len(e.Checked))
	}
	return "co2mon: no device found"
}

// IOError wraps an OS-level HID failure on an established endpoint. The
// monitoring loop treats it as a disconnect and keeps retrying.
type IOError struct {
	Op  string
	Err error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("co2mon: %s: %v", e.Op, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

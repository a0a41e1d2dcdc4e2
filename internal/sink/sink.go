// Copyright 2026 The CO2Meter Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package sink composes sample consumers.
package sink

import "github.com/vfilimonov/co2meter/co2mon"

// Fanout delivers each sample to every sink in order. The slice must be
// fully assembled before the fanout is handed to a monitor.
type Fanout []co2mon.Sink

// Accept implements co2mon.Sink.
func (f Fanout) Accept(s co2mon.Sample) {
	for _, dst := range f {
		dst.Accept(s)
	}
}

// Copyright 2026 The CO2Meter Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package store keeps the samples collected during the current process in
// arrival order and exposes the most recent one to the dashboard.
package store

import (
	"sync"

	"github.com/vfilimonov/co2meter/co2mon"
)

// Buffer is an append-only ordered sequence of samples. It implements
// co2mon.Sink. The zero value is ready to use. Readers get a stale or
// missing value until the first polling cycle completes; that is by
// contract tolerated.
type Buffer struct {
	mu      sync.RWMutex
	samples []co2mon.Sample
}

// Accept implements co2mon.Sink.
func (b *Buffer) Accept(s co2mon.Sample) {
	b.mu.Lock()
	b.samples = append(b.samples, s)
	b.mu.Unlock()
}

// Latest returns the most recent sample. ok is false before the first
// cycle.
func (b *Buffer) Latest() (co2mon.Sample, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if len(b.samples) == 0 {
		return co2mon.Sample{}, false
	}
	return b.samples[len(b.samples)-1], true
}

// Snapshot returns a copy of all samples in arrival order.
func (b *Buffer) Snapshot() []co2mon.Sample {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]co2mon.Sample(nil), b.samples...)
}

// Len returns the number of stored samples.
func (b *Buffer) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.samples)
}

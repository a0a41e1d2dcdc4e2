// Copyright 2026 The CO2Meter Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package co2mon

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Sink receives one Sample per polling cycle.
type Sink interface {
	Accept(Sample)
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(Sample)

func (f SinkFunc) Accept(s Sample) {
	f(s)
}

// monitorMaxRequests bounds one polling cycle. The device cycles through
// its message kinds every few frames, so relative to the normal cadence
// this is effectively unbounded.
const monitorMaxRequests = 1000

// Monitor runs the continuous polling loop. Each cycle acquires the
// device, aggregates one sample, hands it to the sink and sleeps for the
// configured interval. Device loss is expected and recoverable: the loop
// drops the device, logs the failure and reconnects on a later cycle.
type Monitor struct {
	// OnError, when set, is called for every device failure the loop
	// absorbs. Set it before Start.
	OnError func(error)

	opener Opener
	opts   Opts
	sink   Sink
	log    logrus.FieldLogger

	mu      sync.Mutex
	dev     *Dev
	running bool
	stop    chan struct{}
	wg      sync.WaitGroup
}

// NewMonitor returns a stopped monitor. opts and log may be nil.
func NewMonitor(o Opener, opts *Opts, sink Sink, log logrus.FieldLogger) *Monitor {
	if opts == nil {
		opts = &DefaultOpts
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Monitor{opener: o, opts: *opts, sink: sink, log: log}
}

// Attach hands an already constructed device to the monitor, so the first
// cycle skips discovery. Optional; the loop builds its own device when it
// has none.
func (m *Monitor) Attach(dev *Dev) {
	m.mu.Lock()
	m.dev = dev
	m.mu.Unlock()
}

// Device returns the device the loop is currently bound to, or nil while
// disconnected.
func (m *Monitor) Device() *Dev {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.dev
}

// Start launches the polling loop. Calling Start while the loop is
// running is a no-op; there is never more than one loop.
func (m *Monitor) Start(interval time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.running {
		return
	}
	m.running = true
	m.stop = make(chan struct{})
	m.wg.Add(1)
	go m.loop(interval, m.stop)
}

// Stop halts the loop cooperatively: a cycle in flight completes,
// including its read. Stop returns once the loop has exited. Calling Stop
// on a stopped monitor is a no-op.
func (m *Monitor) Stop() {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	m.running = false
	close(m.stop)
	m.mu.Unlock()
	m.wg.Wait()
}

// Running reports whether the polling loop is active.
func (m *Monitor) Running() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}

func (m *Monitor) loop(interval time.Duration, stop chan struct{}) {
	defer m.wg.Done()
	for {
		m.poll()
		select {
		case <-stop:
			return
		case <-time.After(interval):
		}
	}
}

// poll runs one acquire/read/publish cycle. Failures are absorbed: the
// device is dropped and the next cycle reconnects.
func (m *Monitor) poll() {
	dev, err := m.device()
	if err != nil {
		m.fail("connect", err)
		return
	}
	s, err := dev.ReadSample(monitorMaxRequests)
	if err != nil {
		_ = dev.Close(true)
		m.mu.Lock()
		m.dev = nil
		m.mu.Unlock()
		m.fail("read", err)
		return
	}
	m.sink.Accept(s)
}

func (m *Monitor) device() (*Dev, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.dev != nil {
		return m.dev, nil
	}
	dev, err := New(m.opener, &m.opts)
	if err != nil {
		return nil, err
	}
	m.dev = dev
	return dev, nil
}

func (m *Monitor) fail(op string, err error) {
	m.log.WithError(err).Warnf("co2mon: %s failed, retrying next cycle", op)
	if m.OnError != nil {
		m.OnError(err)
	}
}

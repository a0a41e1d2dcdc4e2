// Copyright 2026 The CO2Meter Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package metrics

import "github.com/vfilimonov/co2meter/co2mon"

// Sink updates the gauges and counters from incoming samples.
type Sink struct{}

// Accept implements co2mon.Sink.
func (Sink) Accept(s co2mon.Sample) {
	Samples.Inc()
	if s.HasCO2 {
		CO2.Set(float64(s.CO2))
	}
	if s.HasTemperature {
		Temperature.Set(s.Temperature.Celsius())
	}
	if !s.HasCO2 || !s.HasTemperature {
		PartialSamples.Inc()
	}
}

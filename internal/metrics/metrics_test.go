// Copyright 2026 The CO2Meter Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"periph.io/x/conn/v3/physic"

	"github.com/vfilimonov/co2meter/co2mon"
)

func TestSink(t *testing.T) {
	var sink Sink

	sink.Accept(co2mon.Sample{
		Time:           time.Now(),
		CO2:            1036,
		Temperature:    physic.ZeroCelsius + 20*physic.Celsius,
		HasCO2:         true,
		HasTemperature: true,
	})
	if got := testutil.ToFloat64(CO2); got != 1036 {
		t.Errorf("co2 gauge = %v, want 1036", got)
	}
	if got := testutil.ToFloat64(Temperature); got != 20 {
		t.Errorf("temperature gauge = %v, want 20", got)
	}
	if got := testutil.ToFloat64(PartialSamples); got != 0 {
		t.Errorf("partial counter = %v, want 0", got)
	}

	// A partial sample bumps the counter and leaves the missing gauge alone.
	sink.Accept(co2mon.Sample{Time: time.Now(), CO2: 1100, HasCO2: true})
	if got := testutil.ToFloat64(Temperature); got != 20 {
		t.Errorf("temperature gauge = %v after partial sample, want 20", got)
	}
	if got := testutil.ToFloat64(PartialSamples); got != 1 {
		t.Errorf("partial counter = %v, want 1", got)
	}
	if got := testutil.ToFloat64(Samples); got != 2 {
		t.Errorf("sample counter = %v, want 2", got)
	}
}

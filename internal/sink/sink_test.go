// Copyright 2026 The CO2Meter Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package sink

import (
	"testing"

	"github.com/vfilimonov/co2meter/co2mon"
)

func TestFanoutOrder(t *testing.T) {
	var got []int
	mk := func(id int) co2mon.SinkFunc {
		return func(co2mon.Sample) { got = append(got, id) }
	}
	f := Fanout{mk(1), mk(2), mk(3)}
	f.Accept(co2mon.Sample{})
	f.Accept(co2mon.Sample{})

	want := []int{1, 2, 3, 1, 2, 3}
	if len(got) != len(want) {
		t.Fatalf("deliveries = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("deliveries = %v, want %v", got, want)
		}
	}
}

func TestFanoutEmpty(t *testing.T) {
	var f Fanout
	f.Accept(co2mon.Sample{}) // must not panic
}

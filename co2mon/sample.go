// Copyright 2026 The CO2Meter Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package co2mon

import (
	"encoding/json"
	"fmt"
	"time"

	"periph.io/x/conn/v3/physic"
)

// TimeLayout is the timestamp format used in logs and JSON output.
const TimeLayout = "2006-01-02 15:04:05"

// Sample is the result of one polling cycle: at most one CO2 and one
// temperature reading sharing a wall-clock timestamp with second
// resolution. The device interleaves message kinds on its own schedule,
// so either field may be missing; that is a normal outcome, not an error.
type Sample struct {
	Time           time.Time
	CO2            PPM
	Temperature    physic.Temperature
	HasCO2         bool
	HasTemperature bool
}

func (s Sample) String() string {
	co2, temp := "n/a", "n/a"
	if s.HasCO2 {
		co2 = s.CO2.String()
	}
	if s.HasTemperature {
		temp = s.Temperature.String()
	}
	return fmt.Sprintf("%s CO2: %s Temperature: %s", s.Time.Format(TimeLayout), co2, temp)
}

// MarshalJSON emits null for fields the device did not report.
func (s Sample) MarshalJSON() ([]byte, error) {
	var v struct {
		Time        string   `json:"time"`
		CO2         *int     `json:"co2"`
		Temperature *float64 `json:"temperature"`
	}
	v.Time = s.Time.Format(TimeLayout)
	if s.HasCO2 {
		c := int(s.CO2)
		v.CO2 = &c
	}
	if s.HasTemperature {
		t := s.Temperature.Celsius()
		v.Temperature = &t
	}
	return json.Marshal(v)
}

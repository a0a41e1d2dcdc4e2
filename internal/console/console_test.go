// Copyright 2026 The CO2Meter Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package console

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"periph.io/x/conn/v3/physic"

	"github.com/vfilimonov/co2meter/co2mon"
)

func TestAccept(t *testing.T) {
	var buf bytes.Buffer
	c := NewWriter(&buf)
	c.Accept(co2mon.Sample{
		Time:           time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC),
		CO2:            1036,
		Temperature:    physic.ZeroCelsius + 20*physic.Celsius,
		HasCO2:         true,
		HasTemperature: true,
	})
	line := buf.String()
	if !strings.Contains(line, "1036 ppm") {
		t.Errorf("output %q missing CO2", line)
	}
	if !strings.Contains(line, "20.0°C") {
		t.Errorf("output %q missing temperature", line)
	}
	if !strings.Contains(line, "\033[") {
		t.Errorf("output %q has no color escapes", line)
	}
	if !strings.HasSuffix(line, "\n") {
		t.Error("output does not end with a newline")
	}
}

func TestAcceptPartial(t *testing.T) {
	var buf bytes.Buffer
	c := NewWriter(&buf)
	c.Accept(co2mon.Sample{Time: time.Now(), HasCO2: false, HasTemperature: false})
	line := buf.String()
	if !strings.Contains(line, "- ppm") || !strings.Contains(line, "-°C") {
		t.Errorf("output %q missing placeholders", line)
	}
	if strings.Contains(line, "\033[0m") {
		t.Errorf("output %q drew a bar without CO2", line)
	}
}

func TestColorFor(t *testing.T) {
	if colorFor(600) != green {
		t.Error("600 ppm should be green")
	}
	if colorFor(1000) != amber {
		t.Error("1000 ppm should be amber")
	}
	if colorFor(1500) != red {
		t.Error("1500 ppm should be red")
	}
}

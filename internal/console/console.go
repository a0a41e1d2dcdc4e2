// Copyright 2026 The CO2Meter Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package console renders samples as a colored bar on the terminal
// using ANSI color codes.
package console

import (
	"bytes"
	"fmt"
	"image/color"
	"io"

	"github.com/maruel/ansi256"
	"github.com/mattn/go-colorable"

	"github.com/vfilimonov/co2meter/co2mon"
)

// CO2 thresholds matching the dashboard color bands.
const (
	co2Low  = 800
	co2High = 1200
)

// One colored block per blockPPM of CO2, capped at maxBlocks.
const (
	blockPPM  = 100
	maxBlocks = 30
)

var (
	green = color.NRGBA{0x8f, 0xdb, 0x57, 255}
	amber = color.NRGBA{0xdb, 0xb4, 0x57, 255}
	red   = color.NRGBA{0xdb, 0x5e, 0x57, 255}
)

// Writer prints each sample as a single line with a colored bar.
type Writer struct {
	w       io.Writer
	palette ansi256.Palette
	buf     bytes.Buffer
}

// New returns a Writer printing to stdout.
func New() *Writer {
	return &Writer{
		w:       colorable.NewColorableStdout(),
		palette: *ansi256.Default,
	}
}

// NewWriter returns a Writer printing to w, for testing.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w, palette: *ansi256.Default}
}

// Accept implements co2mon.Sink.
func (c *Writer) Accept(s co2mon.Sample) {
	c.buf.Reset()
	c.buf.WriteString(s.Time.Format(co2mon.TimeLayout))
	c.buf.WriteString("  ")
	if s.HasCO2 {
		fmt.Fprintf(&c.buf, "%4d ppm  ", int(s.CO2))
	} else {
		c.buf.WriteString("   - ppm  ")
	}
	if s.HasTemperature {
		fmt.Fprintf(&c.buf, "%5.1f°C  ", s.Temperature.Celsius())
	} else {
		c.buf.WriteString("    -°C  ")
	}
	if s.HasCO2 {
		n := int(s.CO2) / blockPPM
		if n > maxBlocks {
			n = maxBlocks
		}
		block := c.palette.Block(colorFor(int(s.CO2)))
		for i := 0; i < n; i++ {
			c.buf.WriteString(block)
		}
		c.buf.WriteString("\033[0m")
	}
	c.buf.WriteByte('\n')
	_, _ = c.buf.WriteTo(c.w)
}

func colorFor(ppm int) color.NRGBA {
	switch {
	case ppm < co2Low:
		return green
	case ppm < co2High:
		return amber
	default:
		return red
	}
}

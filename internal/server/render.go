// Copyright 2026 The CO2Meter Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package server

import (
	"fmt"
	"io"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/vfilimonov/co2meter/co2mon"
)

const (
	plotWidth  = 800
	plotHeight = 400
	plotMargin = 50.0
)

// Plot renders the CO2 history as a PNG chart.
func Plot(w io.Writer, samples []co2mon.Sample) error {
	dc := gg.NewContext(plotWidth, plotHeight)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	font, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return err
	}
	dc.SetFontFace(truetype.NewFace(font, &truetype.Options{Size: 12}))

	var pts []co2mon.Sample
	for _, s := range samples {
		if s.HasCO2 {
			pts = append(pts, s)
		}
	}

	yMin, yMax := 600.0, 1400.0
	for _, s := range pts {
		v := float64(s.CO2)
		if v < yMin {
			yMin = v
		}
		if v > yMax {
			yMax = v
		}
	}

	x0, y0 := plotMargin, plotMargin
	x1, y1 := float64(plotWidth)-plotMargin, float64(plotHeight)-plotMargin
	toX := func(i int) float64 {
		if len(pts) < 2 {
			return (x0 + x1) / 2
		}
		return x0 + (x1-x0)*float64(i)/float64(len(pts)-1)
	}
	toY := func(v float64) float64 {
		return y1 - (y1-y0)*(v-yMin)/(yMax-yMin)
	}

	// Axes.
	dc.SetRGB(0.3, 0.3, 0.3)
	dc.SetLineWidth(1)
	dc.DrawLine(x0, y0, x0, y1)
	dc.DrawLine(x0, y1, x1, y1)
	dc.Stroke()
	for _, v := range []float64{yMin, 800, 1000, 1200, yMax} {
		if v < yMin || v > yMax {
			continue
		}
		dc.DrawStringAnchored(fmt.Sprintf("%.0f", v), x0-8, toY(v), 1, 0.5)
	}

	// Threshold bands.
	dc.SetDash(4, 4)
	dc.SetRGB(0.56, 0.86, 0.34)
	dc.DrawLine(x0, toY(800), x1, toY(800))
	dc.Stroke()
	dc.SetRGB(0.86, 0.37, 0.34)
	dc.DrawLine(x0, toY(1200), x1, toY(1200))
	dc.Stroke()
	dc.SetDash()

	// CO2 trace.
	if len(pts) > 0 {
		dc.SetRGB(0.15, 0.35, 0.65)
		dc.SetLineWidth(2)
		if len(pts) == 1 {
			dc.DrawCircle(toX(0), toY(float64(pts[0].CO2)), 3)
			dc.Fill()
		} else {
			for i := 1; i < len(pts); i++ {
				dc.DrawLine(toX(i-1), toY(float64(pts[i-1].CO2)), toX(i), toY(float64(pts[i].CO2)))
			}
			dc.Stroke()
		}
		dc.SetRGB(0.3, 0.3, 0.3)
		first, last := pts[0].Time, pts[len(pts)-1].Time
		dc.DrawStringAnchored(first.Format("15:04:05"), x0, y1+16, 0, 0.5)
		dc.DrawStringAnchored(last.Format("15:04:05"), x1, y1+16, 1, 0.5)
	} else {
		dc.SetRGB(0.5, 0.5, 0.5)
		dc.DrawStringAnchored("no data", (x0+x1)/2, (y0+y1)/2, 0.5, 0.5)
	}

	dc.SetRGB(0.2, 0.2, 0.2)
	dc.DrawStringAnchored("CO2, ppm", x0, y0-16, 0, 0.5)

	return dc.EncodePNG(w)
}

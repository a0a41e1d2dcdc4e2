// Copyright 2026 The CO2Meter Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package influx exports samples to an InfluxDB 2.x bucket.
package influx

import (
	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"

	"github.com/vfilimonov/co2meter/co2mon"
	"github.com/vfilimonov/co2meter/internal/config"
)

const measurement = "co2meter"

// Writer pushes each sample as one point. Writes are buffered and
// asynchronous; errors are handled by the client's retry logic.
type Writer struct {
	client influxdb2.Client
	api    api.WriteAPI
}

// New connects to the InfluxDB instance described by cfg.
func New(cfg config.Influx) *Writer {
	client := influxdb2.NewClient(cfg.URL, cfg.Token)
	return &Writer{
		client: client,
		api:    client.WriteAPI(cfg.Org, cfg.Bucket),
	}
}

// Accept implements co2mon.Sink.
func (w *Writer) Accept(s co2mon.Sample) {
	p := influxdb2.NewPointWithMeasurement(measurement).SetTime(s.Time)
	if s.HasCO2 {
		p.AddField("co2", int(s.CO2))
	}
	if s.HasTemperature {
		p.AddField("temp", s.Temperature.Celsius())
	}
	if s.HasCO2 || s.HasTemperature {
		w.api.WritePoint(p)
	}
}

// Close flushes buffered points and shuts down the client.
func (w *Writer) Close() {
	w.api.Flush()
	w.client.Close()
}

// Copyright 2026 The CO2Meter Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package metrics exposes sensor readings to Prometheus.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// CO2 is the most recent CO2 concentration.
	CO2 = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "co2meter_co2_ppm",
		Help: "Latest CO2 concentration in parts per million.",
	})
	// Temperature is the most recent temperature.
	Temperature = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "co2meter_temperature_celsius",
		Help: "Latest temperature in degrees Celsius.",
	})
	// Samples counts every sample delivered by the monitor.
	Samples = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "co2meter_samples_total",
		Help: "Total number of samples read from the device.",
	})
	// PartialSamples counts samples missing at least one reading.
	PartialSamples = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "co2meter_partial_samples_total",
		Help: "Total number of samples missing CO2 or temperature.",
	})
	// DeviceErrors counts failed polling cycles.
	DeviceErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "co2meter_device_errors_total",
		Help: "Total number of failed device polling cycles.",
	})
)

// Register registers all collectors with the default registry.
func Register() {
	prometheus.MustRegister(CO2, Temperature, Samples, PartialSamples, DeviceErrors)
}

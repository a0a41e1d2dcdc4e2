// Copyright 2026 The CO2Meter Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package homekit bridges the meter to Apple HomeKit as a CO2 and
// temperature sensor accessory.
package homekit

import (
	"context"

	"github.com/brutella/hap"
	"github.com/brutella/hap/accessory"
	"github.com/brutella/hap/characteristic"
	"github.com/brutella/hap/service"

	"github.com/vfilimonov/co2meter/co2mon"
	"github.com/vfilimonov/co2meter/internal/config"
)

// DefaultPin is the pairing PIN used when none is configured.
const DefaultPin = "80011400"

// co2Abnormal is the CO2 level above which the sensor reports the
// HomeKit "abnormal" state.
const co2Abnormal = 1200

// Bridge exposes samples as a HomeKit sensor accessory.
type Bridge struct {
	srv   *hap.Server
	co2   *service.CarbonDioxideSensor
	level *characteristic.CarbonDioxideLevel
	temp  *service.TemperatureSensor
}

// New builds the accessory and its server. info carries the device
// identity shown in the Home app.
func New(cfg config.HomeKit, info co2mon.Info) (*Bridge, error) {
	a := accessory.New(accessory.Info{
		Name:         "CO2 Monitor",
		Manufacturer: info.Manufacturer,
		Model:        info.Product,
		SerialNumber: info.SerialNumber,
	}, accessory.TypeSensor)

	b := &Bridge{
		co2:   service.NewCarbonDioxideSensor(),
		level: characteristic.NewCarbonDioxideLevel(),
		temp:  service.NewTemperatureSensor(),
	}
	b.co2.AddC(b.level.C)
	a.AddS(b.co2.S)
	a.AddS(b.temp.S)

	srv, err := hap.NewServer(hap.NewFsStore(cfg.StoreDir), a)
	if err != nil {
		return nil, err
	}
	pin := cfg.Pin
	if pin == "" {
		pin = DefaultPin
	}
	srv.Pin = pin
	if cfg.Addr != "" {
		srv.Addr = cfg.Addr
	}
	b.srv = srv
	return b, nil
}

// Accept implements co2mon.Sink.
func (b *Bridge) Accept(s co2mon.Sample) {
	if s.HasCO2 {
		b.level.SetValue(float64(s.CO2))
		detected := characteristic.CarbonDioxideDetectedCO2LevelsNormal
		if int(s.CO2) >= co2Abnormal {
			detected = characteristic.CarbonDioxideDetectedCO2LevelsAbnormal
		}
		b.co2.CarbonDioxideDetected.SetValue(detected)
	}
	if s.HasTemperature {
		b.temp.CurrentTemperature.SetValue(s.Temperature.Celsius())
	}
}

// Run serves HomeKit until ctx is canceled.
func (b *Bridge) Run(ctx context.Context) error {
	return b.srv.ListenAndServe(ctx)
}

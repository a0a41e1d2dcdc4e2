// Copyright 2026 The CO2Meter Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package co2mon reads CO2 concentration and temperature from ZyAura
// ZG01-based USB monitors (Holtek 04d9:a052), sold as the TFA Dostmann
// AirCO2ntrol Mini, the CO2Meter.com units and various rebrands.
//
// The device is a USB HID endpoint that streams 8 byte frames scrambled
// with a fixed permutation, an XOR key, a bit rotation and a byte-wise
// offset. The protocol was documented by Henryk Plötz:
//
// https://hackaday.io/project/5301-reverse-engineering-a-low-cost-usb-co-monitor
//
// Dev wraps one physical device and produces timestamped samples; Monitor
// runs a polling loop that survives device disconnects and feeds samples
// to a Sink.
package co2mon

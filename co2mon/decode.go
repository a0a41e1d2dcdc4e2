// Copyright 2026 The CO2Meter Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package co2mon

import (
	"fmt"

	"periph.io/x/conn/v3/physic"
)

// Message codes observed on the wire. The device emits more codes than
// these two; their meaning is undocumented and they are ignored.
const (
	codeEndOfMessage = 0x0D
	codeCO2          = 0x50
	codeTemperature  = 0x42
)

// PPM is parts per million, the unit of CO2 concentration.
type PPM int

func (p PPM) String() string {
	return fmt.Sprintf("%d PPM", int(p))
}

// Kind tags a decoded Reading.
type Kind int

const (
	KindUnknown Kind = iota
	KindCO2
	KindTemperature
)

// Reading is one decoded value from a validated record.
type Reading struct {
	Kind  Kind
	Value uint16
}

// PPM returns the CO2 concentration. Meaningful for KindCO2 only.
func (r Reading) PPM() PPM {
	return PPM(r.Value)
}

// Temperature converts the raw value, in units of 1/16th Kelvin, to a
// physic.Temperature.
func (r Reading) Temperature() physic.Temperature {
	return physic.Temperature(uint64(r.Value) * uint64(physic.Kelvin) / 16)
}

// DecodeRecord interprets a record produced by the decode pipeline. ok is
// false when the record fails the framing or checksum checks; such records
// carry no value. A record with an unrecognized message code is well
// formed and decodes to KindUnknown.
func DecodeRecord(rec [FrameSize]byte) (r Reading, ok bool) {
	if rec[5] != 0 || rec[6] != 0 || rec[7] != 0 {
		return r, false
	}
	if rec[4] != codeEndOfMessage {
		return r, false
	}
	// Checksum is the low 8 bits of the sum of the first three bytes.
	if rec[3] != rec[0]+rec[1]+rec[2] {
		return r, false
	}
	r.Value = uint16(rec[1])<<8 | uint16(rec[2])
	switch rec[0] {
	case codeCO2:
		r.Kind = KindCO2
	case codeTemperature:
		r.Kind = KindTemperature
	default:
		r.Kind = KindUnknown
	}
	return r, true
}

// Copyright 2026 The CO2Meter Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package co2mon

import "math/bits"

// FrameSize is the fixed length of every frame exchanged with the device.
const FrameSize = 8

// magicWordSeed is nibble-swapped per byte to produce the subtraction key
// of the decode pipeline.
const magicWordSeed = "Htemp99e"

// frameOrder is the byte permutation the firmware applies before
// scrambling a frame.
var frameOrder = [FrameSize]int{2, 4, 0, 7, 1, 6, 5, 3}

// transcoder undoes the obfuscation applied to raw frames. It is a pure
// transform: every input produces 8 bytes, and validity is judged later by
// DecodeRecord.
type transcoder struct {
	key    uint64
	word   [FrameSize]byte
	bypass bool
}

func newTranscoder(table [FrameSize]byte, bypass bool) transcoder {
	t := transcoder{bypass: bypass}
	for _, b := range table {
		t.key = t.key<<8 | uint64(b)
	}
	for i := 0; i < FrameSize; i++ {
		c := magicWordSeed[i]
		t.word[i] = c<<4 | c>>4
	}
	return t
}

// decrypt reorders the frame, XORs it with the magic table, rotates the
// 64-bit result right by 3 bits and subtracts the magic word byte-wise.
// With bypass set the raw frame is returned unchanged; some device
// revisions transmit plaintext.
func (t transcoder) decrypt(raw [FrameSize]byte) [FrameSize]byte {
	if t.bypass {
		return raw
	}
	var m uint64
	for _, j := range frameOrder {
		m = m<<8 | uint64(raw[j])
	}
	m ^= t.key
	m = bits.RotateLeft64(m, -3)
	var rec [FrameSize]byte
	for i := range rec {
		rec[i] = byte(m>>(56-8*i)) - t.word[i]
	}
	return rec
}

/*
 * Copyright © 2020, G.Ralph Kuntz, MD.
 *
 * Licensed under the Apache License, Version 2.0(the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIC
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package qrcodegen

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppendBitsToBuffer(t *testing.T) {
	bb := make(bitBuffer, 0)

	bb.appendBits(0, 0)
	assert.Equal(t, 0, len(bb))

	bb.appendBits(1, 1)
	assert.Equal(t, 1, len(bb))
	assert.Equal(t, []byte{1}, []byte(bb))

	bb.appendBits(0, 1)
	assert.Equal(t, 2, len(bb))
	assert.Equal(t, []byte{1, 0}, []byte(bb))

	bb.appendBits(5, 3)
	assert.Equal(t, 5, len(bb))
	assert.Equal(t, []byte{1, 0, 1, 0, 1}, []byte(bb))

	bb.appendBits(6, 3)
	assert.Equal(t, 8, len(bb))
	assert.Equal(t, []byte{1, 0, 1, 0, 1, 1, 1, 0}, []byte(bb))
}

func TestNumDataCodewords(t *testing.T) {
	cases := [][3]int{
		{3, 1, 44},
		{3, 2, 34},
		{3, 3, 26},
		{6, 0, 136},
		{7, 0, 156},
		{9, 0, 232},
		{9, 1, 182},
		{12, 3, 158},
		{15, 0, 523},
		{16, 2, 325},
		{19, 3, 341},
		{21, 0, 932},
		{22, 0, 1006},
		{22, 1, 782},
		{22, 3, 442},
		{24, 0, 1174},
		{24, 3, 514},
		{28, 0, 1531},
		{30, 3, 745},
		{32, 3, 845},
		{33, 0, 2071},
		{33, 3, 901},
		{35, 0, 2306},
		{35, 1, 1812},
		{35, 2, 1286},
		{36, 3, 1054},
		{37, 3, 1096},
		{39, 1, 2216},
		{40, 1, 2334},
	}

	for _, tc := range cases {
		t.Run(fmt.Sprintf("TestNumDataCodewords %v", tc), func(t *testing.T) {
			assert.Equal(t, numDataCodewords[tc[1]][tc[0]], tc[2])
		})
	}
}

func TestNumRawDataModules(t *testing.T) {
	cases := [][2]int{
		{1, 208},
		{2, 359},
		{3, 567},
		{6, 1383},
		{7, 1568},
		{12, 3728},
		{15, 5243},
		{18, 7211},
		{22, 10068},
		{26, 13652},
		{32, 19723},
		{37, 25568},
		{40, 29648},
	}

	for _, tc := range cases {
		t.Run(fmt.Sprintf("TestNumRawDataModules %v", tc), func(t *testing.T) {
			assert.Equal(t, numRawDataModules[tc[0]], tc[1])
		})
	}
}

func TestDrawFunctionPatterns(t *testing.T) {
	for version := Version(1); version <= 40; version++ {
		size := int(version)*4 + 17
		qrCode := QRCode{
			version:    version,
			size:       size,
			modules:    make([][]module, size),
			isFunction: make([][]bool, size),
		}

		for i := 0; i < size; i++ {
			qrCode.modules[i] = make([]module, size)
			qrCode.isFunction[i] = make([]bool, size)
		}

		qrCode.drawFunctionPatterns()

		hasBlack := false
		hasWhite := false
		for y := 0; y < size; y++ {
			for x := 0; x < size; x++ {
				color := qrCode.modules[y][x]
				if color == 1 {
					hasBlack = true
				} else {
					hasWhite = true
				}
			}
		}
		assert.True(t, hasBlack)
		assert.True(t, hasWhite)
	}
}

func TestGetAlignmentPatternPositions(t *testing.T) {
	cases := [][9]int{
		{1, 0, -1, -1, -1, -1, -1, -1, -1},
		{2, 2, 6, 18, -1, -1, -1, -1, -1},
		{3, 2, 6, 22, -1, -1, -1, -1, -1},
		{6, 2, 6, 34, -1, -1, -1, -1, -1},
		{7, 3, 6, 22, 38, -1, -1, -1, -1},
		{8, 3, 6, 24, 42, -1, -1, -1, -1},
		{16, 4, 6, 26, 50, 74, -1, -1, -1},
		{25, 5, 6, 32, 58, 84, 110, -1, -1},
		{32, 6, 6, 34, 60, 86, 112, 138, -1},
		{33, 6, 6, 30, 58, 86, 114, 142, -1},
		{39, 7, 6, 26, 54, 82, 110, 138, 166},
		{40, 7, 6, 30, 58, 86, 114, 142, 170},
	}

	for _, tc := range cases {
		t.Run(fmt.Sprintf("TestGetAlignmentPatternPositions %v", tc), func(t *testing.T) {
			pos := alignmentPatternPositions[tc[0]]
			assert.Equal(t, tc[1], len(pos))
			for i := 0; i < len(pos); i++ {
				assert.Equal(t, tc[i+2], int(pos[i]))
			}
		})
	}
}

func TestIsAlphanumeric(t *testing.T) {
	cases := []struct {
		answer bool
		text   string
	}{
		{true, ""},
		{true, "0"},
		{true, "A"},
		{false, "a"},
		{true, " "},
		{true, "."},
		{true, "*"},
		{false, ","},
		{false, "|"},
		{false, "@"},
		{true, "XYZ"},
		{false, "XYZ!"},
		{true, "79068"},
		{true, "+123 ABC$"},
		{false, "\x01"},
		{false, "\x7F"},
		{false, "\x80"},
		{false, "\xC0"},
		{false, "\xFF"},
	}

	for _, tc := range cases {
		t.Run(fmt.Sprintf("TestIsAlphanumeric %v", tc), func(t *testing.T) {
			assert.Equal(t, tc.answer, alphanumericRegexp.MatchString(tc.text))
		})
	}
}

func TestIsNumeric(t *testing.T) {
	cases := []struct {
		answer bool
		text   string
	}{
		{true, ""},
		{true, "0"},
		{false, "A"},
		{false, "a"},
		{false, " "},
		{false, "."},
		{false, "*"},
		{false, ","},
		{false, "|"},
		{false, "@"},
		{false, "XYZ"},
		{false, "XYZ!"},
		{true, "79068"},
		{false, "+123 ABC$"},
		{false, "\x01"},
		{false, "\x7F"},
		{false, "\x80"},
		{false, "\xC0"},
		{false, "\xFF"},
	}

	for _, tc := range cases {
		t.Run(fmt.Sprintf("TestIsNumeric %v", tc), func(t *testing.T) {
			assert.Equal(t, tc.answer, numericRegexp.MatchString(tc.text))
		})
	}
}

func TestMakeBytes(t *testing.T) {
	{
		seg := MakeBytes([]byte{})
		assert.Equal(t, Byte, seg.Mode)
		assert.Equal(t, 0, seg.NumChars)
		assert.Equal(t, 0, len(seg.Data))
		assert.Equal(t, []byte{}, seg.Data)
	}
	{
		seg := MakeBytes([]byte{0x00})
		assert.Equal(t, Byte, seg.Mode)
		assert.Equal(t, 1, seg.NumChars)
		assert.Equal(t, 8, len(seg.Data))
		assert.Equal(t, []byte{0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00}, seg.Data)
	}
	{
		seg := MakeBytes([]byte{0xEF, 0xBB, 0xBF})
		assert.Equal(t, Byte, seg.Mode)
		assert.Equal(t, 3, seg.NumChars)
		assert.Equal(t, 24, len(seg.Data))
		assert.Equal(t, []byte{0x1, 0x1, 0x1, 0x0, 0x1, 0x1, 0x1, 0x1, 0x1, 0x0, 0x1, 0x1, 0x1, 0x0, 0x1, 0x1, 0x1, 0x0, 0x1, 0x1, 0x1, 0x1, 0x1, 0x1}, seg.Data)
	}
}

func TestMakeNumeric(t *testing.T) {
	cases := []struct {
		text      string
		length    int
		bitLength int
		bytes     []byte
	}{
		{"", 0, 0, []byte{}},
		{"9", 1, 4, []byte{0x1, 0x0, 0x0, 0x1}},
		{"81", 2, 7, []byte{0x1, 0x0, 0x1, 0x0, 0x0, 0x0, 0x1}},
		{"673", 3, 10, []byte{0x1, 0x0, 0x1, 0x0, 0x1, 0x0, 0x0, 0x0, 0x0, 0x1}},
		{"3141592653", 10, 34, []byte{0x0, 0x1, 0x0, 0x0, 0x1, 0x1, 0x1, 0x0, 0x1, 0x0, 0x0, 0x0, 0x1, 0x0, 0x0, 0x1, 0x1, 0x1,
			0x1, 0x1, 0x0, 0x1, 0x0, 0x0, 0x0, 0x0, 0x1, 0x0, 0x0, 0x1, 0x0, 0x0, 0x1, 0x1}},
	}

	for _, tc := range cases {
		t.Run(fmt.Sprintf("TestMakeNumeric %v", tc), func(t *testing.T) {
			seg := MakeNumeric(tc.text)
			assert.Equal(t, Numeric, seg.Mode)
			assert.Equal(t, tc.length, seg.NumChars)
			assert.Equal(t, tc.bitLength, len(seg.Data))
			assert.Equal(t, tc.bytes, seg.Data)
		})
	}
}

func TestMakeAlphanumeric(t *testing.T) {
	cases := []struct {
		text      string
		length    int
		bitLength int
		bytes     []byte
	}{
		{"", 0, 0, []byte{}},
		{"A", 1, 6, []byte{0x0, 0x0, 0x1, 0x0, 0x1, 0x0}},
		{"%:", 2, 11, []byte{0x1, 0x1, 0x0, 0x1, 0x1, 0x0, 0x1, 0x1, 0x0, 0x1, 0x0}},
		{"Q R", 3, 17, []byte{0x1, 0x0, 0x0, 0x1, 0x0, 0x1, 0x1, 0x0, 0x1, 0x1, 0x0, 0x0, 0x1, 0x1, 0x0, 0x1, 0x1}},
	}

	for _, tc := range cases {
		t.Run(fmt.Sprintf("TestMakeAlphanumeric %v", tc), func(t *testing.T) {
			seg := MakeAlphanumeric(tc.text)
			assert.Equal(t, Alphanumeric, seg.Mode)
			assert.Equal(t, tc.length, seg.NumChars)
			assert.Equal(t, tc.bitLength, len(seg.Data))
			assert.Equal(t, tc.bytes, seg.Data)
		})
	}
}

func TestMakeEci(t *testing.T) {
	cases := []struct {
		input     int
		length    int
		bitLength int
		bytes     []byte
	}{
		{127, 0, 8, []byte{0x0, 0x1, 0x1, 0x1, 0x1, 0x1, 0x1, 0x1}},
		{10345, 0, 16, []byte{0x1, 0x0, 0x1, 0x0, 0x1, 0x0, 0x0, 0x0, 0x0, 0x1, 0x1, 0x0, 0x1, 0x0, 0x0, 0x1}},
		{999999, 0, 24, []byte{0x1, 0x1, 0x0, 0x0, 0x1, 0x1, 0x1, 0x1, 0x0, 0x1, 0x0, 0x0, 0x0, 0x0, 0x1, 0x0, 0x0, 0x0, 0x1, 0x1, 0x1, 0x1, 0x1, 0x1}},
	}

	for _, tc := range cases {
		t.Run(fmt.Sprintf("TestMakeEci %v", tc), func(t *testing.T) {
			seg, err := MakeECI(tc.input)
			assert.Nil(t, err)
			assert.Equal(t, ECI, seg.Mode)
			assert.Equal(t, tc.length, seg.NumChars)
			assert.Equal(t, tc.bitLength, len(seg.Data))
			assert.Equal(t, tc.bytes, seg.Data)
		})
	}
}

func TestMakeKanji(t *testing.T) {
	// Two 13-bit groups packed MSB-first into 4 bytes (26 bits, padded to 32).
	packed := []byte{0b00000000, 0b01000000, 0b00000000, 0b00000000}
	seg := MakeKanji(packed, 2)
	assert.Equal(t, Kanji, seg.Mode)
	assert.Equal(t, 2, seg.NumChars)
	assert.Equal(t, 26, len(seg.Data))
}

func TestGetTotalBits(t *testing.T) {
	{
		assert.Equal(t, 0, getTotalBits([]*QRSegment{}, 1))
		assert.Equal(t, 0, getTotalBits([]*QRSegment{}, 40))
	}
	{
		segs := []*QRSegment{{Mode: Byte, NumChars: 3, Data: make([]byte, 24)}}
		assert.Equal(t, 36, getTotalBits(segs, 2))
		assert.Equal(t, 44, getTotalBits(segs, 10))
		assert.Equal(t, 44, getTotalBits(segs, 30))
	}
	{
		segs := []*QRSegment{
			{Mode: ECI, NumChars: 0, Data: make([]byte, 8)},
			{Mode: Numeric, NumChars: 7, Data: make([]byte, 24)},
			{Mode: Alphanumeric, NumChars: 1, Data: make([]byte, 6)},
			{Mode: Kanji, NumChars: 4, Data: make([]byte, 52)},
		}
		assert.Equal(t, 133, getTotalBits(segs, 9))
		assert.Equal(t, 139, getTotalBits(segs, 21))
		assert.Equal(t, 145, getTotalBits(segs, 27))
	}
	{
		segs := []*QRSegment{{Mode: Byte, NumChars: 4093, Data: make([]byte, 32744)}}
		assert.Equal(t, -1, getTotalBits(segs, 1))
		assert.Equal(t, 32764, getTotalBits(segs, 10))
		assert.Equal(t, 32764, getTotalBits(segs, 27))
	}
	{
		segs := []*QRSegment{
			{Mode: Numeric, NumChars: 2047, Data: make([]byte, 6824)},
			{Mode: Numeric, NumChars: 2047, Data: make([]byte, 6824)},
			{Mode: Numeric, NumChars: 2047, Data: make([]byte, 6824)},
			{Mode: Numeric, NumChars: 2047, Data: make([]byte, 6824)},
			{Mode: Numeric, NumChars: 1617, Data: make([]byte, 5390)},
		}
		assert.Equal(t, -1, getTotalBits(segs, 1))
		assert.Equal(t, 32766, getTotalBits(segs, 10))
		assert.Equal(t, 32776, getTotalBits(segs, 27))
	}
	{
		segs := []*QRSegment{
			{Mode: Kanji, NumChars: 255, Data: make([]byte, 3315)},
			{Mode: Kanji, NumChars: 255, Data: make([]byte, 3315)},
			{Mode: Kanji, NumChars: 255, Data: make([]byte, 3315)},
			{Mode: Kanji, NumChars: 255, Data: make([]byte, 3315)},
			{Mode: Kanji, NumChars: 255, Data: make([]byte, 3315)},
			{Mode: Kanji, NumChars: 255, Data: make([]byte, 3315)},
			{Mode: Kanji, NumChars: 255, Data: make([]byte, 3315)},
			{Mode: Kanji, NumChars: 255, Data: make([]byte, 3315)},
			{Mode: Kanji, NumChars: 255, Data: make([]byte, 3315)},
			{Mode: Alphanumeric, NumChars: 511, Data: make([]byte, 2811)},
		}
		assert.Equal(t, 32767, getTotalBits(segs, 9))
		assert.Equal(t, 32787, getTotalBits(segs, 26))
		assert.Equal(t, 32807, getTotalBits(segs, 40))
	}
}

func TestEncodeTextConcreteScenario(t *testing.T) {
	qr, err := EncodeText("Hello, world!", Low)
	assert.Nil(t, err)
	assert.Equal(t, Version(1), qr.Version())
	assert.Equal(t, 21, qr.Size())
}

func TestEncodeTextBoostsECL(t *testing.T) {
	qr, err := EncodeText("A", Low)
	assert.Nil(t, err)
	assert.Equal(t, High, qr.ECL())
}

func TestEncodeSegmentsRangeErrors(t *testing.T) {
	_, err := EncodeSegments(nil, Low, WithMinVersion(10), WithMaxVersion(5))
	assert.NotNil(t, err)

	_, err = EncodeSegments(nil, Low, WithMask(9))
	assert.NotNil(t, err)
}

func TestEncodeBinaryDataTooLong(t *testing.T) {
	huge := make([]byte, 4000)
	_, err := EncodeBinary(huge, High)
	assert.NotNil(t, err)
}

func TestModuleOutOfRange(t *testing.T) {
	qr, err := EncodeText("1", Low)
	assert.Nil(t, err)
	assert.False(t, qr.Module(-1, 0))
	assert.False(t, qr.Module(0, -1))
	assert.False(t, qr.Module(qr.Size(), 0))
}

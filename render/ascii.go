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

// Package render provides reference renderers (ASCII, SVG, PNG) for a
// *qrcodegen.QRCode. None of these are required to produce a valid symbol;
// they are collaborators a caller can use to actually look at one.
package render

import "strings"

// symbol is the minimal surface render needs from a QR code, satisfied by
// *qrcodegen.QRCode. Depending on the interface rather than the concrete
// type keeps this package free of an import cycle back to the root module.
type symbol interface {
	Size() int
	Module(x, y int) bool
}

// ASCII renders q as a grid of two characters per module ("█ " for dark,
// "  " for light) so modules read roughly square in a monospace font,
// surrounded by a quiet zone border modules wide on every side.
func ASCII(q symbol, border int) string {
	if border < 0 {
		border = 0
	}

	size := q.Size()
	var sb strings.Builder
	for y := -border; y < size+border; y++ {
		for x := -border; x < size+border; x++ {
			if q.Module(x, y) {
				sb.WriteString("█ ")
			} else {
				sb.WriteString("  ")
			}
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

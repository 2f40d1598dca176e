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

package render

import (
	"image"
	"image/color"
	"image/png"
	"io"
)

// PNG rasterizes q to w as a paletted (1-bit) PNG, scale pixels per module,
// surrounded by a white quiet zone border modules wide.
func PNG(w io.Writer, q symbol, scale, border int) error {
	if scale < 1 {
		scale = 1
	}
	if border < 0 {
		border = 0
	}

	size := q.Size()
	dim := (size + 2*border) * scale

	img := image.NewPaletted(image.Rect(0, 0, dim, dim), color.Palette{
		color.White,
		color.Black,
	})

	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			if !q.Module(x, y) {
				continue
			}
			startX := (x + border) * scale
			startY := (y + border) * scale
			for dy := 0; dy < scale; dy++ {
				for dx := 0; dx < scale; dx++ {
					img.SetColorIndex(startX+dx, startY+dy, 1)
				}
			}
		}
	}

	return png.Encode(w, img)
}

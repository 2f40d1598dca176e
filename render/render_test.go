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
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// checkerboard is a minimal 2x2 test symbol: dark at (0,0) and (1,1).
type checkerboard struct{}

func (checkerboard) Size() int { return 2 }

func (checkerboard) Module(x, y int) bool {
	if x < 0 || x >= 2 || y < 0 || y >= 2 {
		return false
	}
	return (x+y)%2 == 0
}

func TestASCII(t *testing.T) {
	out := ASCII(checkerboard{}, 0)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Equal(t, 2, len(lines))
	assert.Equal(t, "█   ", lines[0])
	assert.Equal(t, "  █ ", lines[1])
}

func TestASCIINegativeBorderClamped(t *testing.T) {
	withNegative := ASCII(checkerboard{}, -3)
	withZero := ASCII(checkerboard{}, 0)
	assert.Equal(t, withZero, withNegative)
}

func TestSVG(t *testing.T) {
	out, err := SVG(checkerboard{}, 1)
	assert.Nil(t, err)
	assert.True(t, strings.Contains(out, `viewBox="0 0 4 4"`))
	assert.True(t, strings.Contains(out, "M1,1h1v1h-1z"))
	assert.True(t, strings.Contains(out, "M2,2h1v1h-1z"))
}

func TestSVGRejectsNegativeBorder(t *testing.T) {
	_, err := SVG(checkerboard{}, -1)
	assert.NotNil(t, err)
}

func TestPNG(t *testing.T) {
	var buf bytes.Buffer
	err := PNG(&buf, checkerboard{}, 2, 1)
	assert.Nil(t, err)
	assert.True(t, buf.Len() > 0)
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, buf.Bytes()[:4])
}

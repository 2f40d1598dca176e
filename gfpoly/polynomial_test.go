package gfpoly

import (
	"testing"

	"github.com/lindqvist/qrforge/gf"
	"github.com/stretchr/testify/assert"
)

func e(vals ...int) []gf.Element {
	out := make([]gf.Element, len(vals))
	for i, v := range vals {
		out[i] = gf.Element(v)
	}
	return out
}

func TestNewStripsLeadingZeros(t *testing.T) {
	p := New(e(0, 0, 5, 3))
	assert.Equal(t, Polynomial(e(5, 3)), p)
}

func TestNewZeroPolynomial(t *testing.T) {
	p := New(e(0, 0, 0))
	assert.True(t, p.IsZero())
	assert.Equal(t, -1, p.Degree())
}

func TestNewSparse(t *testing.T) {
	p := NewSparse(map[int]gf.Element{0: 2, 2: 1})
	assert.Equal(t, Polynomial(e(1, 0, 2)), p)
}

func TestDegree(t *testing.T) {
	assert.Equal(t, 2, New(e(1, 0, 3)).Degree())
	assert.Equal(t, 0, New(e(7)).Degree())
}

func TestCoefficient(t *testing.T) {
	p := New(e(1, 0, 3)) // x^2 + 3
	assert.Equal(t, gf.Element(1), p.Coefficient(2))
	assert.Equal(t, gf.Element(0), p.Coefficient(1))
	assert.Equal(t, gf.Element(3), p.Coefficient(0))
	assert.Equal(t, gf.Element(0), p.Coefficient(5))
	assert.Equal(t, gf.Element(0), p.Coefficient(-1))
}

func TestAddSubCoincide(t *testing.T) {
	p := New(e(1, 2, 3))
	q := New(e(9, 8))
	assert.True(t, Add(p, q).Equal(Sub(p, q)))
}

func TestAddIdentity(t *testing.T) {
	p := New(e(5, 1, 9))
	assert.True(t, Add(p, Zero()).Equal(p))
}

func TestMulByZero(t *testing.T) {
	p := New(e(5, 1, 9))
	assert.True(t, Mul(p, Zero()).IsZero())
}

func TestMulDegreeAdds(t *testing.T) {
	p := New(e(1, 1)) // x + 1
	q := New(e(1, 1)) // x + 1
	prod := Mul(p, q)
	assert.Equal(t, 2, prod.Degree())
}

func TestDivModReconstructsDividend(t *testing.T) {
	dividend := New(e(1, 0, 0, 1)) // x^3 + 1
	divisor := New(e(1, 1))        // x + 1
	q, r, err := DivMod(dividend, divisor)
	assert.NoError(t, err)
	reconstructed := Add(Mul(q, divisor), r)
	assert.True(t, reconstructed.Equal(dividend))
}

func TestDivModRemainderDegreeLessThanDivisor(t *testing.T) {
	dividend := New(e(6, 3, 8, 2, 9))
	divisor := New(e(1, 5, 3))
	_, r, err := DivMod(dividend, divisor)
	assert.NoError(t, err)
	assert.Less(t, r.Degree(), divisor.Degree())
}

func TestDivModByZeroFails(t *testing.T) {
	_, _, err := DivMod(New(e(1, 2)), Zero())
	assert.Error(t, err)
}

func TestDivModNonMonicDivisor(t *testing.T) {
	dividend := New(e(1, 0, 0, 0)) // x^3
	divisor := New(e(2, 1))        // 2x + 1, non-monic
	q, r, err := DivMod(dividend, divisor)
	assert.NoError(t, err)
	reconstructed := Add(Mul(q, divisor), r)
	assert.True(t, reconstructed.Equal(dividend))
}

func TestEvaluateHorner(t *testing.T) {
	p := New(e(1, 0, 3)) // x^2 + 3 (GF(2^8) arithmetic)
	x := gf.Element(5)
	want := x.Mul(x).Add(gf.Element(3))
	assert.Equal(t, want, p.Evaluate(x))
}

func TestEvaluateAtZero(t *testing.T) {
	p := New(e(4, 9, 7))
	assert.Equal(t, gf.Element(7), p.Evaluate(0))
}

func TestShiftUpIncreasesDegree(t *testing.T) {
	p := New(e(1, 1))
	shifted := ShiftUp(p)
	assert.Equal(t, p.Degree()+1, shifted.Degree())
	assert.Equal(t, gf.Element(0), shifted.Coefficient(0))
}

func TestScalarMul(t *testing.T) {
	p := New(e(1, 1))
	scaled := ScalarMul(p, 5)
	assert.Equal(t, gf.Element(5), scaled.Coefficient(1))
	assert.Equal(t, gf.Element(5), scaled.Coefficient(0))
}

func TestEqualIgnoresLeadingZeros(t *testing.T) {
	assert.True(t, New(e(0, 1, 2)).Equal(New(e(1, 2))))
}

// Package gfpoly implements generic polynomial algebra over gf.Element:
// addition, subtraction, multiplication, division with remainder, and
// Horner evaluation. Coefficients are stored highest-degree first, as
// spec.md's data model requires, with a canonical stripped form (no
// leading zeros, except the single-coefficient zero polynomial).
package gfpoly

import (
	"fmt"
	"strings"

	"github.com/lindqvist/qrforge/codecerr"
	"github.com/lindqvist/qrforge/gf"
)

// Polynomial holds coefficients from highest degree to lowest (x^0 last).
// Values are immutable once returned by New, NewSparse, or an arithmetic
// operation below — callers must not mutate a Polynomial in place.
type Polynomial []gf.Element

// Zero returns the zero polynomial in its canonical stripped form.
func Zero() Polynomial {
	return Polynomial{0}
}

// New builds a Polynomial from coefficients ordered highest-degree first,
// stripping leading zeros down to the canonical form.
func New(coeffs []gf.Element) Polynomial {
	c := append(Polynomial(nil), coeffs...)
	return stripLeadingZeros(c)
}

// NewSparse builds a Polynomial from a degree -> coefficient map, leaving
// every unlisted degree as zero.
func NewSparse(terms map[int]gf.Element) Polynomial {
	if len(terms) == 0 {
		return Zero()
	}
	highest := 0
	for d := range terms {
		if d > highest {
			highest = d
		}
	}
	c := make([]gf.Element, highest+1)
	for d, v := range terms {
		c[highest-d] = v
	}
	return New(c)
}

func stripLeadingZeros(c []gf.Element) Polynomial {
	i := 0
	for i < len(c)-1 && c[i] == 0 {
		i++
	}
	if i >= len(c) {
		return Polynomial{0}
	}
	return Polynomial(c[i:])
}

// Degree returns the polynomial's degree, or -1 for the zero polynomial.
func (p Polynomial) Degree() int {
	if len(p) == 1 && p[0] == 0 {
		return -1
	}
	return len(p) - 1
}

// IsZero reports whether p is the zero polynomial.
func (p Polynomial) IsZero() bool {
	return p.Degree() == -1
}

// Coefficient returns the coefficient of x^degree, or 0 if degree exceeds
// the polynomial's degree or is negative.
func (p Polynomial) Coefficient(degree int) gf.Element {
	if degree < 0 {
		return 0
	}
	idx := len(p) - 1 - degree
	if idx < 0 || idx >= len(p) {
		return 0
	}
	return p[idx]
}

// Equal compares two polynomials by their canonical stripped form.
func (p Polynomial) Equal(q Polynomial) bool {
	ps, qs := stripLeadingZeros(p), stripLeadingZeros(q)
	if len(ps) != len(qs) {
		return false
	}
	for i := range ps {
		if ps[i] != qs[i] {
			return false
		}
	}
	return true
}

// String renders the polynomial as e.g. "3x^2 + 1x + 5".
func (p Polynomial) String() string {
	if p.IsZero() {
		return "0"
	}
	var sb strings.Builder
	deg := p.Degree()
	for i, c := range p {
		power := deg - i
		if c == 0 && power != 0 {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteString(" + ")
		}
		switch {
		case power == 0:
			fmt.Fprintf(&sb, "%d", c)
		case power == 1:
			fmt.Fprintf(&sb, "%dx", c)
		default:
			fmt.Fprintf(&sb, "%dx^%d", c, power)
		}
	}
	return sb.String()
}

// Add returns p + q. In GF(2^8), addition and subtraction coincide.
func Add(p, q Polynomial) Polynomial {
	n := len(p)
	if len(q) > n {
		n = len(q)
	}
	result := make([]gf.Element, n)
	for i := 0; i < n; i++ {
		var a, b gf.Element
		if pi := i - (n - len(p)); pi >= 0 {
			a = p[pi]
		}
		if qi := i - (n - len(q)); qi >= 0 {
			b = q[qi]
		}
		result[i] = a.Add(b)
	}
	return New(result)
}

// Sub returns p - q. Identical to Add in GF(2^8).
func Sub(p, q Polynomial) Polynomial {
	return Add(p, q)
}

// Mul returns the schoolbook product p * q.
func Mul(p, q Polynomial) Polynomial {
	if p.IsZero() || q.IsZero() {
		return Zero()
	}
	result := make([]gf.Element, len(p)+len(q)-1)
	for i, pc := range p {
		if pc == 0 {
			continue
		}
		for j, qc := range q {
			result[i+j] = result[i+j].Add(pc.Mul(qc))
		}
	}
	return New(result)
}

// ScalarMul returns p with every coefficient multiplied by s.
func ScalarMul(p Polynomial, s gf.Element) Polynomial {
	if s == 0 {
		return Zero()
	}
	result := make([]gf.Element, len(p))
	for i, c := range p {
		result[i] = c.Mul(s)
	}
	return New(result)
}

// ShiftUp returns p * x, i.e. p shifted up one degree.
func ShiftUp(p Polynomial) Polynomial {
	if p.IsZero() {
		return Zero()
	}
	return append(append(Polynomial(nil), p...), 0)
}

// DivMod performs polynomial long division, returning quotient and
// remainder such that dividend = divisor*quotient + remainder. The
// divisor's leading coefficient need not be 1; the reciprocal is computed
// in the field. Division by the zero polynomial fails with
// DivByZeroError.
func DivMod(dividend, divisor Polynomial) (quotient, remainder Polynomial, err error) {
	if divisor.IsZero() {
		return nil, nil, codecerr.DivByZeroError{Msg: "polynomial division by zero"}
	}
	divisorDeg := divisor.Degree()
	dividendDeg := dividend.Degree()
	if dividendDeg < divisorDeg {
		return Zero(), append(Polynomial(nil), dividend...), nil
	}

	lead := divisor[0]
	quotDeg := dividendDeg - divisorDeg
	quot := make([]gf.Element, quotDeg+1)
	rem := append(Polynomial(nil), dividend...)

	for {
		remDeg := rem.Degree()
		if remDeg < divisorDeg {
			break
		}
		factor, ferr := rem[0].Div(lead)
		if ferr != nil {
			return nil, nil, ferr
		}
		shift := remDeg - divisorDeg
		quot[quotDeg-shift] = factor
		for i := 0; i <= divisorDeg; i++ {
			rem[i] = rem[i].Sub(factor.Mul(divisor[i]))
		}
		rem = stripLeadingZeros(rem)
	}

	return New(quot), rem, nil
}

// Evaluate computes p(x) by Horner's method.
func (p Polynomial) Evaluate(x gf.Element) gf.Element {
	var result gf.Element
	for _, c := range p {
		result = result.Mul(x).Add(c)
	}
	return result
}

// Coefficients returns a defensive copy of the raw highest-first
// coefficient slice.
func (p Polynomial) Coefficients() []gf.Element {
	return append([]gf.Element(nil), p...)
}

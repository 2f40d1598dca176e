package rs

import (
	"github.com/lindqvist/qrforge/gf"
	"github.com/lindqvist/qrforge/gfpoly"
)

// syndromes evaluates the received codeword polynomial at alpha^1..alpha^numSyndromes,
// returning S[0]=S_1 .. S[numSyndromes-1]=S_numSyndromes. allZero is true when every
// syndrome vanishes, meaning the received word is already a valid codeword.
func syndromes(received gfpoly.Polynomial, numSyndromes int) (s []gf.Element, allZero bool) {
	s = make([]gf.Element, numSyndromes)
	allZero = true
	for j := 1; j <= numSyndromes; j++ {
		x := gf.ExpOfPrimitive(j)
		v := received.Evaluate(x)
		s[j-1] = v
		if v != 0 {
			allZero = false
		}
	}
	return
}

// berlekampMassey synthesizes the error locator polynomial sigma and error
// evaluator polynomial omega from the syndrome sequence. Unlike the
// classical single-polynomial recursion (which computes sigma alone and
// derives omega afterward as S(x)*sigma(x) mod x^(n-k)), this keeps a
// second register pair (omega, gamma) updated in lockstep with (sigma,
// tau) at every step, so omega falls out of the same recursion sigma
// does rather than a separate polynomial multiplication pass. omega and
// gamma hold (1 + S_1 z + ... + S_N z^N) times sigma and tau, so both start
// from that syndrome polynomial (sigma = tau = 1) and omega is truncated
// to degree N at the end.
func berlekampMassey(s []gf.Element, numSyndromes int) (sigma, omega gfpoly.Polynomial) {
	sigmaLD := []gf.Element{1}
	omegaLD := append([]gf.Element{1}, s...)
	tauLD := []gf.Element{1}
	gammaLD := append([]gf.Element{1}, s...)
	l := 0
	b := gf.Element(1)
	m := 1

	for r := 1; r <= numSyndromes; r++ {
		delta := s[r-1]
		for i := 1; i <= l; i++ {
			if i < len(sigmaLD) && r-1-i >= 0 {
				delta = delta.Add(sigmaLD[i].Mul(s[r-1-i]))
			}
		}
		if delta == 0 {
			m++
			continue
		}

		coeff, _ := delta.Div(b) // b is never zero once set from a nonzero discrepancy

		newSigma := polyAddLD(sigmaLD, polyScaleShiftLD(tauLD, coeff, m))
		newOmega := polyAddLD(omegaLD, polyScaleShiftLD(gammaLD, coeff, m))

		if 2*l <= r-1 {
			tauLD = append([]gf.Element(nil), sigmaLD...)
			gammaLD = append([]gf.Element(nil), omegaLD...)
			l = r - l
			b = delta
			m = 1
		} else {
			m++
		}

		sigmaLD = newSigma
		omegaLD = newOmega
	}

	if len(omegaLD) > numSyndromes+1 {
		omegaLD = omegaLD[:numSyndromes+1]
	}
	return ldToPolynomial(sigmaLD), ldToPolynomial(omegaLD)
}

func polyAddLD(a, b []gf.Element) []gf.Element {
	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	out := make([]gf.Element, n)
	for i := 0; i < n; i++ {
		var x, y gf.Element
		if i < len(a) {
			x = a[i]
		}
		if i < len(b) {
			y = b[i]
		}
		out[i] = x.Add(y)
	}
	return out
}

func polyScaleShiftLD(p []gf.Element, scalar gf.Element, shift int) []gf.Element {
	out := make([]gf.Element, len(p)+shift)
	for i, c := range p {
		out[i+shift] = c.Mul(scalar)
	}
	return out
}

func ldToPolynomial(ld []gf.Element) gfpoly.Polynomial {
	hd := make([]gf.Element, len(ld))
	for i, c := range ld {
		hd[len(ld)-1-i] = c
	}
	return gfpoly.New(hd)
}

// chienSearch evaluates sigma at alpha^l for l = 1..255; a root identifies
// an error locator X_l = alpha^(-l) at codeword position j_l = 255 - l,
// counted from the codeword's low-degree end. A sigma that does not
// correspond to an actual error pattern may yield more or fewer roots than
// its degree; that mismatch surfaces later as a failed post-correction
// verification rather than here.
func chienSearch(sigma gfpoly.Polynomial) (locators []gf.Element, positions []int) {
	for l := 1; l <= 255; l++ {
		x := gf.ExpOfPrimitive(l)
		if sigma.Evaluate(x) == 0 {
			locators = append(locators, gf.ExpOfPrimitive(-l))
			positions = append(positions, (255-l)%255)
		}
	}
	return
}

// forneyMagnitudes computes the error value at each located position using
// Forney's formula with an explicit denominator product over the other
// roots, rather than sigma's formal derivative (which degenerates for
// even-degree terms in characteristic 2). The denominator loop runs over
// the codec's fixed error capacity s, not the number of locators actually
// found, matching the decoder this package is modeled on; entries beyond
// the found locators are treated as X_i=0 and contribute a factor of 1.
func forneyMagnitudes(omega gfpoly.Polynomial, locators []gf.Element, s int) []gf.Element {
	padded := make([]gf.Element, s)
	copy(padded, locators)

	magnitudes := make([]gf.Element, len(locators))
	for j, xj := range locators {
		xjInv, err := xj.Inverse()
		if err != nil {
			continue
		}
		numerator := omega.Evaluate(xjInv)

		denom := gf.Element(1)
		for i := 0; i < s; i++ {
			if i == j {
				continue
			}
			denom = denom.Mul(gf.Element(1).Sub(padded[i].Mul(xjInv)))
		}
		mag, err := numerator.Div(denom)
		if err != nil {
			continue
		}
		magnitudes[j] = mag
	}
	return magnitudes
}

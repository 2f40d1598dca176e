// Package rs implements a configurable Reed-Solomon (n, k) codec over
// GF(2^8): systematic encoding by polynomial remainder, verification by
// divisibility, and decoding with Berlekamp-Massey error-locator
// synthesis, Chien root search, and Forney magnitude evaluation.
package rs

import (
	"fmt"

	"github.com/lindqvist/qrforge/codecerr"
	"github.com/lindqvist/qrforge/gf"
	"github.com/lindqvist/qrforge/gfpoly"
)

// RSCodec is an immutable (n, k) Reed-Solomon configuration. An RSCodec
// is safe to share across goroutines once constructed, since it is never
// mutated after New returns.
type RSCodec struct {
	n, k      int
	s         int // error-correction capacity, floor((n-k)/2)
	generator gfpoly.Polynomial
}

// New builds an RSCodec for codeword length n and message length k, with
// 0 <= k < n <= 255. It precomputes the degree-(n-k) generator polynomial
// g(x) = product(x - alpha^i, i=1..n-k).
func New(n, k int) (*RSCodec, error) {
	if n < 1 || n > 255 {
		return nil, codecerr.RangeError{Msg: fmt.Sprintf("n must be in [1,255], got %d", n)}
	}
	if k < 0 || k >= n {
		return nil, codecerr.RangeError{Msg: fmt.Sprintf("k must be in [0,n) for n=%d, got %d", n, k)}
	}
	return &RSCodec{
		n:         n,
		k:         k,
		s:         (n - k) / 2,
		generator: generatorPolynomial(n - k),
	}, nil
}

// N returns the codeword length.
func (c *RSCodec) N() int { return c.n }

// K returns the message length.
func (c *RSCodec) K() int { return c.k }

// ErrorCapacity returns floor((n-k)/2), the maximum number of byte errors
// Decode can correct.
func (c *RSCodec) ErrorCapacity() int { return c.s }

func generatorPolynomial(degree int) gfpoly.Polynomial {
	g := gfpoly.Polynomial{1}
	for i := 1; i <= degree; i++ {
		root := gf.ExpOfPrimitive(i)
		factor := gfpoly.New([]gf.Element{1, root}) // (x - alpha^i)
		g = gfpoly.Mul(g, factor)
	}
	return g
}

func bytesToElements(b []byte) []gf.Element {
	out := make([]gf.Element, len(b))
	for i, v := range b {
		out[i] = gf.Element(v)
	}
	return out
}

// padTo renders p as exactly n bytes, left-zero-padded (p's degree must
// be < n).
func padTo(p gfpoly.Polynomial, n int) []byte {
	out := make([]byte, n)
	coeffs := p.Coefficients()
	if p.IsZero() {
		return out
	}
	copy(out[n-len(coeffs):], bytesFromElements(coeffs))
	return out
}

func bytesFromElements(e []gf.Element) []byte {
	out := make([]byte, len(e))
	for i, v := range e {
		out[i] = byte(v)
	}
	return out
}

// Encode interprets message (at most k bytes, left-zero-padded to k) as
// a degree-<k polynomial, multiplies by x^(n-k), and subtracts the
// remainder modulo the generator so the result is an exact multiple of
// g(x). The returned codeword is always exactly n bytes: the (possibly
// zero-padded) message followed by n-k parity bytes.
func (c *RSCodec) Encode(message []byte) ([]byte, error) {
	if len(message) > c.k {
		return nil, codecerr.RangeError{Msg: fmt.Sprintf("message length %d exceeds k=%d", len(message), c.k)}
	}
	padded := make([]byte, c.k)
	copy(padded[c.k-len(message):], message)

	m := gfpoly.New(bytesToElements(padded))
	shifted := gfpoly.Mul(m, gfpoly.NewSparse(map[int]gf.Element{c.n - c.k: 1}))
	_, remainder, err := gfpoly.DivMod(shifted, c.generator)
	if err != nil {
		return nil, err
	}
	codeword := gfpoly.Sub(shifted, remainder)
	return padTo(codeword, c.n), nil
}

// Verify reports whether codeword (exactly n bytes) is divisible by the
// generator polynomial, i.e. is a valid codeword with no detected errors.
func (c *RSCodec) Verify(codeword []byte) bool {
	if len(codeword) != c.n {
		return false
	}
	p := gfpoly.New(bytesToElements(codeword))
	_, remainder, err := gfpoly.DivMod(p, c.generator)
	if err != nil {
		return false
	}
	return remainder.IsZero()
}

// Decode attempts to correct up to ErrorCapacity() byte errors in a
// received word (exactly n bytes) and returns the k-byte message. If
// nostrip is false, leading zero bytes of the message are stripped
// (lossy for binary data the caller did not pad themselves). Decoding
// that cannot reconcile the received word within capacity fails with
// UncorrectableError.
func (c *RSCodec) Decode(received []byte, nostrip bool) ([]byte, error) {
	if len(received) != c.n {
		return nil, codecerr.RangeError{Msg: fmt.Sprintf("received word must be %d bytes, got %d", c.n, len(received))}
	}

	if c.Verify(received) {
		return stripOrKeep(received[:c.k], nostrip), nil
	}

	receivedPoly := gfpoly.New(bytesToElements(received))
	numSyndromes := c.n - c.k
	syndromePoly, allZero := syndromes(receivedPoly, numSyndromes)
	if allZero {
		return stripOrKeep(received[:c.k], nostrip), nil
	}

	sigma, omega := berlekampMassey(syndromePoly, numSyndromes)
	locators, positions := chienSearch(sigma)
	magnitudes := forneyMagnitudes(omega, locators, c.s)

	corrected := append([]byte(nil), received...)
	for i, pos := range positions {
		idx := c.n - 1 - pos
		if idx < 0 || idx >= c.n {
			return nil, codecerr.UncorrectableError{Msg: "error position outside codeword bounds"}
		}
		corrected[idx] = gf.Element(corrected[idx]).Sub(magnitudes[i]).Byte()
	}

	if !c.Verify(corrected) {
		return nil, codecerr.UncorrectableError{Msg: "unable to correct received codeword within error capacity"}
	}
	return stripOrKeep(corrected[:c.k], nostrip), nil
}

func stripOrKeep(msg []byte, nostrip bool) []byte {
	if nostrip {
		return append([]byte(nil), msg...)
	}
	i := 0
	for i < len(msg) && msg[i] == 0 {
		i++
	}
	return append([]byte(nil), msg[i:]...)
}

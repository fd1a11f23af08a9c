// Package bignum collects the arbitrary-precision integer primitives the
// rest of this module builds on: modular exponentiation, modular inverse,
// gcd/lcm, and big-endian byte conversion. It is a thin, named wrapper
// around math/big; the other packages of this module also call big.Int
// methods directly in places.
package bignum

import (
	"errors"
	"fmt"
	"math/big"
)

// ErrNotInvertible is returned by ModInverse when a and m are not coprime.
var ErrNotInvertible = errors.New("bignum: not invertible, gcd(a, m) != 1")

// ErrOverflow is returned by IntToBytes when n does not fit in the
// requested length.
var ErrOverflow = errors.New("bignum: integer does not fit requested length")

var one = big.NewInt(1)

// ModExp computes base^exp mod m. It follows math/big.Int.Exp's own
// conventions: exp = 0 yields 1, and mod = 1 yields 0.
func ModExp(base, exp, mod *big.Int) *big.Int {
	return new(big.Int).Exp(base, exp, mod)
}

// ModInverse returns the multiplicative inverse of a modulo m. It fails
// with ErrNotInvertible when gcd(a, m) != 1.
func ModInverse(a, m *big.Int) (*big.Int, error) {
	g := new(big.Int)
	x := new(big.Int)
	g.GCD(x, nil, a, m)
	if g.Cmp(one) != 0 {
		return nil, fmt.Errorf("bignum: gcd(%s, %s) != 1: %w", a, m, ErrNotInvertible)
	}
	if x.Sign() < 0 {
		x.Add(x, m)
	}
	return x, nil
}

// GCD returns the greatest common divisor of a and b.
func GCD(a, b *big.Int) *big.Int {
	return new(big.Int).GCD(nil, nil, a, b)
}

// LCM returns the least common multiple of a and b.
func LCM(a, b *big.Int) *big.Int {
	g := GCD(a, b)
	l := new(big.Int).Mul(a, b)
	return l.Div(l, g)
}

// BitLen returns the index of the most significant 1-bit plus one.
// BitLen(0) is 0.
func BitLen(n *big.Int) int {
	return n.BitLen()
}

// CeilDiv returns ceil(a/b) for positive a, b.
func CeilDiv(a, b int) int {
	return (a + b - 1) / b
}

// BytesToInt interprets b as a big-endian non-negative integer.
// BytesToInt(nil) is 0.
func BytesToInt(b []byte) *big.Int {
	return new(big.Int).SetBytes(b)
}

// IntToBytes renders n as big-endian bytes left-padded with zeros to
// exactly length bytes, when length is given. With no length argument, the
// minimal length ceil(BitLen(n)/8) is used (at least 1 byte). A length
// argument of 0 is an explicit request for a zero-byte encoding, not "use
// the default" — it fails with ErrOverflow for any n != 0. Passing more
// than one length value is a programmer error and panics.
func IntToBytes(n *big.Int, length ...int) ([]byte, error) {
	if n.Sign() < 0 {
		return nil, fmt.Errorf("bignum: %s is negative: %w", n, ErrOverflow)
	}
	var l int
	switch len(length) {
	case 0:
		l = CeilDiv(n.BitLen(), 8)
		if l == 0 {
			l = 1
		}
	case 1:
		l = length[0]
	default:
		panic("bignum: IntToBytes takes at most one explicit length")
	}
	b := n.Bytes()
	if len(b) > l {
		return nil, fmt.Errorf("bignum: %s does not fit in %d bytes: %w", n, l, ErrOverflow)
	}
	out := make([]byte, l)
	copy(out[l-len(b):], b)
	return out, nil
}

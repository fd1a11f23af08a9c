package rsa

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/dlclark/rsa1/primes"
	"github.com/dlclark/rsa1/rand"
)

// DefaultExponent is the public exponent NewKey uses when the caller
// doesn't specify one: 65537, the conventional choice (small Hamming
// weight, large enough to resist low-exponent attacks).
const DefaultExponent = 65537

// NewKey generates a new RSA key pair of the requested modulus size using
// DefaultExponent and accurate bit-length matching. It is shorthand for
// NewKeyWithParams(context.Background(), bits, true, DefaultExponent).
func NewKey(bits int) (*PrivateKey, error) {
	return NewKeyWithParams(context.Background(), bits, true, DefaultExponent)
}

// NewKeyWithParams generates a new RSA key pair of the requested modulus
// size.
//
// accurate controls whether bit_size(n) must equal bits exactly (true)
// or may come up one bit short (false, "fast mode").
//
// exponent is the public exponent e; it must be odd and at least 3.
//
// ctx is checked before each prime-pair attempt and, via the primes
// package, between candidate draws, so a long search for a large key can
// be cancelled; a done ctx surfaces as ErrCancelled. The Miller-Rabin
// rounds on a single candidate run to completion without checking ctx.
func NewKeyWithParams(ctx context.Context, bits int, accurate bool, exponent int64) (*PrivateKey, error) {
	if bits < MinBits {
		return nil, fmt.Errorf("rsa: modulus size %d below minimum %d: %w", bits, MinBits, ErrInvalidArgument)
	}
	e := big.NewInt(exponent)
	if e.Bit(0) != 1 || e.Cmp(big.NewInt(3)) < 0 {
		return nil, fmt.Errorf("rsa: exponent %d must be odd and at least 3: %w", exponent, ErrInvalidArgument)
	}

	for {
		p, q, err := selectPrimes(ctx, bits, accurate, e)
		if err != nil {
			return nil, err
		}

		pMinus1 := new(big.Int).Sub(p, one)
		qMinus1 := new(big.Int).Sub(q, one)
		lambda := lcm(pMinus1, qMinus1)

		d := new(big.Int)
		gcd := new(big.Int).GCD(nil, d, lambda, e)
		if gcd.Cmp(one) != 0 {
			continue // gcd(e, lambda(n)) != 1: retry with fresh primes
		}
		d.Mod(d, lambda)
		if d.Sign() < 0 {
			d.Add(d, lambda)
		}

		return newPrivateKey(p, q, e, d)
	}
}

func lcm(a, b *big.Int) *big.Int {
	g := new(big.Int).GCD(nil, nil, a, b)
	l := new(big.Int).Mul(a, b)
	return l.Div(l, g)
}

// shiftBound caps how far p and q's bit lengths are allowed to diverge
// from an even split of bits; the shift is drawn small and randomly to
// avoid aligning p, q in size.
const shiftBound = 5

// selectPrimes splits the target bit length between p and q with a random
// shift of 0 to shiftBound-1 bits in p's favor, rejects p == q, rejects any pair where e is not coprime to
// (p-1)(q-1), and in accurate mode resamples until bit_size(p*q)
// matches bits exactly.
func selectPrimes(ctx context.Context, bits int, accurate bool, e *big.Int) (p, q *big.Int, err error) {
	for {
		select {
		case <-ctx.Done():
			return nil, nil, fmt.Errorf("rsa: key generation cancelled: %w", ErrCancelled)
		default:
		}

		shiftBig, err := rand.Int(big.NewInt(shiftBound))
		if err != nil {
			return nil, nil, err
		}
		shiftVal := int(shiftBig.Int64())

		pBits := (bits+1)/2 + shiftVal
		qBits := bits/2 - shiftVal
		if qBits < 2 {
			continue
		}

		p, err = primes.Find(ctx, pBits)
		if err != nil {
			return nil, nil, translatePrimesErr(err)
		}
		q, err = primes.Find(ctx, qBits)
		if err != nil {
			return nil, nil, translatePrimesErr(err)
		}
		if p.Cmp(q) == 0 {
			continue
		}

		pMinus1 := new(big.Int).Sub(p, one)
		qMinus1 := new(big.Int).Sub(q, one)
		totient := new(big.Int).Mul(pMinus1, qMinus1)
		if !primes.Coprime(e, totient) {
			continue
		}

		n := new(big.Int).Mul(p, q)
		switch nb := n.BitLen(); {
		case nb == bits:
			return p, q, nil
		case accurate:
			continue // resample: exact match required
		case nb == bits-1:
			return p, q, nil // fast mode tolerates one bit short
		default:
			continue
		}
	}
}

func translatePrimesErr(err error) error {
	if errors.Is(err, primes.ErrCancelled) {
		return fmt.Errorf("rsa: key generation cancelled: %w", ErrCancelled)
	}
	return err
}

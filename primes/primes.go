// Package primes implements probabilistic prime generation: small-prime
// trial division followed by Miller-Rabin witness testing, and the random
// candidate search get_prime builds on.
package primes

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/dlclark/rsa1/rand"
)

// DefaultRounds is the number of Miller-Rabin rounds Find passes to
// IsProbablePrime, approximating FIPS 186-4
// guidance for the key sizes this module expects to generate. Callers
// generating unusually large keys may want to tune this upward.
const DefaultRounds = 20

// ErrCancelled is returned by Find when the supplied context is done
// before a prime is located.
var ErrCancelled = errors.New("primes: search cancelled")

var (
	one = big.NewInt(1)
	two = big.NewInt(2)
)

// smallPrimes is the trial-division table: every prime below 1000.
var smallPrimes = sieve(1000)

func sieve(limit int) []*big.Int {
	composite := make([]bool, limit+1)
	var out []*big.Int
	for n := 2; n <= limit; n++ {
		if composite[n] {
			continue
		}
		out = append(out, big.NewInt(int64(n)))
		for m := n * n; m <= limit; m += n {
			composite[m] = true
		}
	}
	return out
}

// IsProbablePrime runs k rounds of Miller-Rabin, preceded by trial
// division against the small-prime table. A true result is probabilistic:
// the probability of a false positive is at most 4^(-k).
func IsProbablePrime(n *big.Int, k int) bool {
	if n.Cmp(two) < 0 {
		return false
	}
	if n.Cmp(two) == 0 || n.Cmp(big.NewInt(3)) == 0 {
		return true
	}
	if n.Bit(0) == 0 {
		return false
	}

	for _, p := range smallPrimes {
		if n.Cmp(p) == 0 {
			return true
		}
		m := new(big.Int).Mod(n, p)
		if m.Sign() == 0 {
			return false
		}
	}

	return millerRabin(n, k)
}

// millerRabin runs k rounds of the Miller-Rabin witness test against n,
// which must already be known odd and larger than every small-prime table
// entry.
func millerRabin(n *big.Int, k int) bool {
	nMinus1 := new(big.Int).Sub(n, one)

	// n - 1 = 2^r * s, s odd.
	r := 0
	s := new(big.Int).Set(nMinus1)
	for s.Bit(0) == 0 {
		s.Rsh(s, 1)
		r++
	}

	nMinus3 := new(big.Int).Sub(n, big.NewInt(3))

	for i := 0; i < k; i++ {
		a, err := rand.Int(nMinus3)
		if err != nil {
			return false
		}
		a.Add(a, two) // a uniform in [2, n-2]

		x := new(big.Int).Exp(a, s, n)
		if x.Cmp(one) == 0 || x.Cmp(nMinus1) == 0 {
			continue
		}

		witness := true
		for j := 0; j < r-1; j++ {
			x.Mul(x, x)
			x.Mod(x, n)
			if x.Cmp(nMinus1) == 0 {
				witness = false
				break
			}
		}
		if witness {
			return false
		}
	}
	return true
}

// Coprime reports whether gcd(a, b) == 1.
func Coprime(a, b *big.Int) bool {
	g := new(big.Int).GCD(nil, nil, a, b)
	return g.Cmp(one) == 0
}

// Find draws random bits-bit odd integers with the top bit set and returns
// the first that passes IsProbablePrime with DefaultRounds rounds. It
// checks ctx between draws so long-running searches for large key sizes
// can be cancelled.
func Find(ctx context.Context, bits int) (*big.Int, error) {
	return FindWithRounds(ctx, bits, DefaultRounds)
}

// FindWithRounds is Find with an explicit Miller-Rabin round count.
func FindWithRounds(ctx context.Context, bits, rounds int) (*big.Int, error) {
	if bits < 2 {
		return nil, errors.New("primes: bits must be at least 2")
	}
	for {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("primes: search for a %d-bit prime cancelled: %w", bits, ErrCancelled)
		default:
		}

		candidate, err := rand.OddInt(bits)
		if err != nil {
			return nil, err
		}
		if IsProbablePrime(candidate, rounds) {
			return candidate, nil
		}
	}
}

// Package rand supplies the cryptographically secure random source the
// rest of this module draws on: raw bytes, uniform integers in [0, n),
// and the fixed-bit-length draws the prime engine needs.
package rand

import (
	"crypto/rand"
	"io"
	"math/big"
	"sync"
)

type reader struct {
	sync.Mutex

	src io.Reader
}

func (r *reader) Read(b []byte) (n int, err error) {
	r.Lock()
	defer r.Unlock()
	if r.src == nil {
		r.src = rand.Reader
	}
	return io.ReadFull(r.src, b)
}

var r = new(reader)

// Read fills b with cryptographically secure random bytes.
func Read(b []byte) (n int, err error) {
	return io.ReadFull(r, b)
}

// Reader returns a cryptographically secure random source.
func Reader() io.Reader {
	return new(reader)
}

var one = big.NewInt(1)

// Int returns a uniform random integer in [0, max) by rejection sampling.
func Int(max *big.Int) (*big.Int, error) {
	n := new(big.Int).Sub(max, one).BitLen()
	buf := make([]byte, (n+7)/8)

	candidate := new(big.Int)
	for {
		if _, err := Read(buf); err != nil {
			return nil, err
		}
		candidate.SetBytes(buf)

		// If the candidate has more bits than the allowed max, clear them.
		c := candidate.BitLen()
		for i := n; i < c; i++ {
			candidate.SetBit(candidate, i, 0)
		}

		if candidate.Cmp(max) < 0 {
			return candidate, nil
		}
	}
}

// Bits returns ceil(k/8) cryptographically secure random bytes with the
// top (8*ceil(k/8) - k) bits of the first byte cleared, so the result
// represents a uniform random k-bit-or-fewer non-negative integer.
func Bits(k int) ([]byte, error) {
	if k <= 0 {
		return nil, nil
	}
	nbytes := (k + 7) / 8
	buf := make([]byte, nbytes)
	if _, err := Read(buf); err != nil {
		return nil, err
	}
	excess := uint(8*nbytes - k)
	buf[0] &= 0xFF >> excess
	return buf, nil
}

// OddInt returns a uniform random k-bit odd integer: the top bit is set
// (so the result has exactly k bits) and the low bit is forced to 1.
func OddInt(k int) (*big.Int, error) {
	buf, err := Bits(k)
	if err != nil {
		return nil, err
	}
	n := new(big.Int).SetBytes(buf)
	n.SetBit(n, k-1, 1)
	n.SetBit(n, 0, 1)
	return n, nil
}

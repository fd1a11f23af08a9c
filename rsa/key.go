// Package rsa implements the RSA public-key cryptosystem per PKCS#1 v1.5:
// key generation, encryption/decryption with type-2 padding, signature
// generation/verification with DigestInfo-wrapped hashes, and
// serialization of keys in PKCS#1 DER/PEM form.
//
// Modular exponentiation here is not constant-time. The CRT decryption
// path (see Decrypt) is blinded, which defeats a specific, well-known
// timing attack on the private exponent at negligible cost; signing
// exponentiates with d directly, without blinding. Full constant-time
// modular exponentiation is not attempted.
package rsa

import (
	"fmt"
	"math/big"

	"github.com/dlclark/rsa1/bignum"
)

// MinBits is the minimum modulus size this module will generate or load
// a key for. Keys this small are accepted but too short for PKCS#1 v1.5's
// 11-byte framing: Encrypt needs a key of at least 11 bytes, and Sign one
// that also fits the DigestInfo value; below that they fail with
// ErrOverflow.
const MinBits = 9

// PublicKey is an RSA public key: the modulus n and public exponent e.
// It is immutable once constructed.
type PublicKey struct {
	n *big.Int
	e *big.Int

	bits int
}

// N returns the key's modulus.
func (pub *PublicKey) N() *big.Int { return pub.n }

// E returns the key's public exponent.
func (pub *PublicKey) E() *big.Int { return pub.e }

// BitLen returns bit_size(n).
func (pub *PublicKey) BitLen() int { return pub.bits }

// ByteLen returns ceil(BitLen()/8), the fixed width of every encrypted
// block or signature this key produces or accepts.
func (pub *PublicKey) ByteLen() int { return bignum.CeilDiv(pub.bits, 8) }

// newPublicKey validates and constructs a PublicKey from raw n, e.
// e must be odd, at least 3, and strictly less than n.
func newPublicKey(n, e *big.Int) (*PublicKey, error) {
	if n.Sign() <= 0 {
		return nil, fmt.Errorf("rsa: modulus must be positive: %w", ErrInvalidArgument)
	}
	if e.Bit(0) != 1 || e.Cmp(big.NewInt(3)) < 0 {
		return nil, fmt.Errorf("rsa: public exponent must be odd and at least 3: %w", ErrInvalidArgument)
	}
	if e.Cmp(n) >= 0 {
		return nil, fmt.Errorf("rsa: public exponent must be less than the modulus: %w", ErrInvalidArgument)
	}
	bits := n.BitLen()
	if bits < MinBits {
		return nil, fmt.Errorf("rsa: modulus size %d below minimum %d: %w", bits, MinBits, ErrInvalidArgument)
	}
	return &PublicKey{n: n, e: e, bits: bits}, nil
}

// PrivateKey is an RSA private key, along with the CRT parameters derived
// from p and q. It is immutable once constructed.
type PrivateKey struct {
	n *big.Int
	e *big.Int
	d *big.Int
	p *big.Int
	q *big.Int

	exp1 *big.Int // d mod (p-1)
	exp2 *big.Int // d mod (q-1)
	coef *big.Int // q^-1 mod p

	bits int
}

// PublicKey returns the public half of priv.
func (priv *PrivateKey) PublicKey() *PublicKey {
	return &PublicKey{n: priv.n, e: priv.e, bits: priv.bits}
}

// N, E, D, P, Q, Exp1, Exp2, Coef expose the private key's fields.
func (priv *PrivateKey) N() *big.Int    { return priv.n }
func (priv *PrivateKey) E() *big.Int    { return priv.e }
func (priv *PrivateKey) D() *big.Int    { return priv.d }
func (priv *PrivateKey) P() *big.Int    { return priv.p }
func (priv *PrivateKey) Q() *big.Int    { return priv.q }
func (priv *PrivateKey) Exp1() *big.Int { return priv.exp1 }
func (priv *PrivateKey) Exp2() *big.Int { return priv.exp2 }
func (priv *PrivateKey) Coef() *big.Int { return priv.coef }

// BitLen returns bit_size(n).
func (priv *PrivateKey) BitLen() int { return priv.bits }

// ByteLen returns ceil(BitLen()/8).
func (priv *PrivateKey) ByteLen() int { return bignum.CeilDiv(priv.bits, 8) }

// newPrivateKey builds a PrivateKey from p, q, e, d, swapping p and q so
// that p > q, computing n = p*q, and deriving the CRT parameters. It
// rejects p == q.
func newPrivateKey(p, q, e, d *big.Int) (*PrivateKey, error) {
	if p.Cmp(q) == 0 {
		return nil, fmt.Errorf("rsa: p and q must be distinct primes: %w", ErrInvalidArgument)
	}
	if p.Cmp(q) < 0 {
		p, q = q, p
	}

	n := new(big.Int).Mul(p, q)
	pMinus1 := new(big.Int).Sub(p, one)
	qMinus1 := new(big.Int).Sub(q, one)

	exp1 := new(big.Int).Mod(d, pMinus1)
	exp2 := new(big.Int).Mod(d, qMinus1)
	coef, err := bignum.ModInverse(q, p)
	if err != nil {
		return nil, fmt.Errorf("rsa: q has no inverse mod p: %w", ErrInvalidArgument)
	}

	bits := n.BitLen()
	if bits < MinBits {
		return nil, fmt.Errorf("rsa: modulus size %d below minimum %d: %w", bits, MinBits, ErrInvalidArgument)
	}
	if e.Bit(0) != 1 || e.Cmp(big.NewInt(3)) < 0 || e.Cmp(n) >= 0 {
		return nil, fmt.Errorf("rsa: public exponent invalid for this modulus: %w", ErrInvalidArgument)
	}

	return &PrivateKey{
		n: n, e: new(big.Int).Set(e), d: new(big.Int).Set(d),
		p: p, q: q,
		exp1: exp1, exp2: exp2, coef: coef,
		bits: bits,
	}, nil
}

var one = big.NewInt(1)

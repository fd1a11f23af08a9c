package rsa

import (
	"fmt"
	"math/big"

	"github.com/dlclark/rsa1/bignum"
	"github.com/dlclark/rsa1/pkcs1"
	"github.com/dlclark/rsa1/rand"
)

// Encrypt PKCS#1-v1.5-encrypts m under pub: type-2 pad, bytes-to-int,
// modexp, int-to-bytes at the key's fixed byte length. It fails with
// ErrOverflow when m is longer than ByteLen()-11 bytes.
func Encrypt(m []byte, pub *PublicKey) ([]byte, error) {
	k := pub.ByteLen()

	em, err := pkcs1.PadEncrypt(m, k)
	if err != nil {
		return nil, fmt.Errorf("rsa: message too long to encrypt under a %d-byte key: %w", k, ErrOverflow)
	}

	mi := bignum.BytesToInt(em)
	ci := bignum.ModExp(mi, pub.e, pub.n)

	c, err := bignum.IntToBytes(ci, k)
	if err != nil {
		return nil, fmt.Errorf("rsa: ciphertext overflowed %d-byte key: %w", k, ErrOverflow)
	}
	return c, nil
}

// Decrypt reverses Encrypt using priv's CRT parameters with RSA blinding.
// It fails with ErrDecryption, deliberately without further detail, when
// the ciphertext length doesn't match the key or the unpadded block is
// malformed, to avoid a padding-oracle side channel.
func Decrypt(c []byte, priv *PrivateKey) ([]byte, error) {
	k := priv.ByteLen()
	if len(c) != k {
		return nil, ErrDecryption
	}

	ci := bignum.BytesToInt(c)
	if ci.Cmp(priv.n) >= 0 {
		return nil, ErrDecryption
	}

	mi, err := blindedDecrypt(priv, ci)
	if err != nil {
		return nil, ErrDecryption
	}

	em, err := bignum.IntToBytes(mi, k)
	if err != nil {
		return nil, ErrDecryption
	}

	m, err := pkcs1.UnpadEncrypt(em, k)
	if err != nil {
		return nil, ErrDecryption
	}
	return m, nil
}

// rawExp computes c^d mod n via CRT, without blinding: m_p = c^exp1 mod p,
// m_q = c^exp2 mod q, m = ((m_p - m_q) * coef mod p) * q + m_q.
func rawExp(priv *PrivateKey, c *big.Int) *big.Int {
	mp := bignum.ModExp(c, priv.exp1, priv.p)
	mq := bignum.ModExp(c, priv.exp2, priv.q)

	h := new(big.Int).Sub(mp, mq)
	h.Mul(h, priv.coef)
	h.Mod(h, priv.p)
	h.Mul(h, priv.q)
	h.Add(h, mq)
	return h
}

// blindedDecrypt performs rawExp with RSA blinding: c is multiplied by
// r^e before the private exponentiation, and the result is divided by r
// afterward. This defeats timing attacks that recover d by observing how
// long the private exponentiation takes on attacker-chosen ciphertexts.
func blindedDecrypt(priv *PrivateKey, c *big.Int) (*big.Int, error) {
	var r, rInv *big.Int
	for rInv == nil {
		var err error
		r, err = rand.Int(priv.n)
		if err != nil {
			return nil, err
		}
		if r.Sign() == 0 {
			continue
		}
		rInv, err = bignum.ModInverse(r, priv.n)
		if err != nil {
			rInv = nil
		}
	}

	blinded := new(big.Int).Exp(r, priv.e, priv.n)
	blinded.Mul(blinded, c)
	blinded.Mod(blinded, priv.n)

	m := rawExp(priv, blinded)
	m.Mul(m, rInv)
	m.Mod(m, priv.n)
	return m, nil
}

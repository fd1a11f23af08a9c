package rsa

import (
	"fmt"

	"github.com/dlclark/rsa1/bignum"
	"github.com/dlclark/rsa1/pkcs1"
)

// brokenForSigning is the set of hash algorithms this module will still
// verify (for backward compatibility with old signatures) but refuses to
// produce new signatures with.
var brokenForSigning = map[pkcs1.HashAlgorithm]bool{
	pkcs1.MD5:  true,
	pkcs1.SHA1: true,
}

// SignHash signs an already-computed digest under alg: pad (type-1,
// DigestInfo-wrapped), modexp with d, int-to-bytes at the key's fixed
// byte length. It fails with ErrInvalidArgument for an unrecognized or
// broken alg, and ErrOverflow when the DigestInfo value doesn't fit the
// key.
func SignHash(digest []byte, priv *PrivateKey, alg pkcs1.HashAlgorithm) ([]byte, error) {
	if brokenForSigning[alg] {
		return nil, fmt.Errorf("rsa: %s is not accepted for new signatures: %w", alg, ErrInvalidArgument)
	}

	t, err := pkcs1.DigestInfo(alg, digest)
	if err != nil {
		return nil, fmt.Errorf("rsa: building DigestInfo: %w", ErrInvalidArgument)
	}

	k := priv.ByteLen()
	em, err := pkcs1.PadSign(t, k)
	if err != nil {
		return nil, fmt.Errorf("rsa: DigestInfo too long for a %d-byte key: %w", k, ErrOverflow)
	}

	mi := bignum.BytesToInt(em)
	si := bignum.ModExp(mi, priv.d, priv.n)

	s, err := bignum.IntToBytes(si, k)
	if err != nil {
		return nil, fmt.Errorf("rsa: signature overflowed %d-byte key: %w", k, ErrOverflow)
	}
	return s, nil
}

// Sign hashes m under alg and signs the digest; shorthand for
// SignHash(pkcs1.Digest(alg, m), priv, alg).
func Sign(m []byte, priv *PrivateKey, alg pkcs1.HashAlgorithm) ([]byte, error) {
	digest, err := pkcs1.Digest(alg, m)
	if err != nil {
		return nil, fmt.Errorf("rsa: hashing message: %w", ErrInvalidArgument)
	}
	return SignHash(digest, priv, alg)
}

// Verify checks that s is a valid PKCS#1 v1.5 signature of m under pub,
// and returns the algorithm name recovered from the signature's
// DigestInfo prefix. The algorithm is never taken from the caller: it is
// sniffed out of the padded block itself, so a caller cannot be tricked
// into accepting a signature under a weaker algorithm than it asked for
// by passing the wrong name.
//
// Any failure -- wrong length, a type-1 unpad violation, an unrecognized
// DigestInfo prefix, or a digest mismatch -- returns ErrVerification with
// no further detail.
func Verify(m, s []byte, pub *PublicKey) (pkcs1.HashAlgorithm, error) {
	k := pub.ByteLen()
	if len(s) != k {
		return "", ErrVerification
	}

	si := bignum.BytesToInt(s)
	if si.Cmp(pub.n) >= 0 {
		return "", ErrVerification
	}
	mi := bignum.ModExp(si, pub.e, pub.n)

	em, err := bignum.IntToBytes(mi, k)
	if err != nil {
		return "", ErrVerification
	}

	t, err := pkcs1.UnpadSign(em, k)
	if err != nil {
		return "", ErrVerification
	}

	alg, digest, err := pkcs1.RecognizeDigestInfo(t)
	if err != nil {
		return "", ErrVerification
	}

	want, err := pkcs1.Digest(alg, m)
	if err != nil {
		return "", ErrVerification
	}
	if !constantTimeEqual(want, digest) {
		return "", ErrVerification
	}
	return alg, nil
}

// constantTimeEqual compares two byte slices without short-circuiting on
// the first mismatch, so a digest comparison's timing doesn't leak how
// many leading bytes matched.
func constantTimeEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	var v byte
	for i := range a {
		v |= a[i] ^ b[i]
	}
	return v == 0
}

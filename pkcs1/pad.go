// Package pkcs1 implements the PKCS#1 v1.5 framing this module's RSA
// operations build on: type-2 padding for encryption, type-1 padding
// (DigestInfo-wrapped) for signing, and the closed hash-algorithm
// registry both padding schemes rely on.
//
// Every unpad failure returns one of the two generic sentinel errors
// ErrDecryption and ErrVerification, unwrapped and deliberately worded to
// avoid giving a caller any information
// about which internal check tripped (a Bleichenbacher-style padding
// oracle would otherwise leak through that detail).
package pkcs1

import (
	"errors"
	"fmt"

	"github.com/dlclark/rsa1/rand"
)

// ErrMessageTooLong is returned by the pad functions when the input does
// not fit the key's byte length.
var ErrMessageTooLong = errors.New("pkcs1: message too long for key size")

// ErrDecryption is the single, generically-worded failure for any
// encryption-unpad violation.
var ErrDecryption = errors.New("pkcs1: decryption error")

// ErrVerification is the single, generically-worded failure for any
// signing-unpad violation.
var ErrVerification = errors.New("pkcs1: verification error")

// minPadBytes is the minimum PS length required for both block types.
const minPadBytes = 8

// PadEncrypt builds a type-2 padded block of exactly k bytes:
// 0x00 0x02 PS 0x00 M, with PS at least 8 random non-zero bytes. It fails
// with ErrMessageTooLong when len(m) > k-11.
func PadEncrypt(m []byte, k int) ([]byte, error) {
	if len(m) > k-11 {
		return nil, fmt.Errorf("pkcs1: %d-byte message too long for a %d-byte block: %w", len(m), k, ErrMessageTooLong)
	}

	ps, err := randomNonZero(k - len(m) - 3)
	if err != nil {
		return nil, err
	}

	out := make([]byte, 0, k)
	out = append(out, 0x00, 0x02)
	out = append(out, ps...)
	out = append(out, 0x00)
	out = append(out, m...)
	return out, nil
}

// UnpadEncrypt reverses PadEncrypt. em must be exactly k bytes. Any
// structural violation -- wrong leading bytes, no separator, or a
// separator inside the mandatory 8-byte PS minimum -- fails with
// ErrDecryption and nothing more specific.
func UnpadEncrypt(em []byte, k int) ([]byte, error) {
	if len(em) != k {
		return nil, ErrDecryption
	}
	if em[0] != 0x00 || em[1] != 0x02 {
		return nil, ErrDecryption
	}

	sep := -1
	for i := 2; i < len(em); i++ {
		if em[i] == 0x00 {
			sep = i
			break
		}
	}
	if sep < 0 {
		return nil, ErrDecryption
	}
	if sep-2 < minPadBytes {
		return nil, ErrDecryption
	}
	return em[sep+1:], nil
}

// PadSign builds a type-1 padded block of exactly k bytes:
// 0x00 0x01 0xFF...0xFF 0x00 T, where T is the DigestInfo-wrapped digest
// produced by DigestInfo. It fails with ErrMessageTooLong when T does not
// leave room for the mandatory 11 bytes of framing.
func PadSign(t []byte, k int) ([]byte, error) {
	if len(t)+11 > k {
		return nil, fmt.Errorf("pkcs1: %d-byte DigestInfo too long for a %d-byte block: %w", len(t), k, ErrMessageTooLong)
	}

	psLen := k - len(t) - 3
	out := make([]byte, 0, k)
	out = append(out, 0x00, 0x01)
	for i := 0; i < psLen; i++ {
		out = append(out, 0xFF)
	}
	out = append(out, 0x00)
	out = append(out, t...)
	return out, nil
}

// UnpadSign reverses PadSign. em must be exactly k bytes. Any structural
// violation fails with ErrVerification and nothing more specific.
func UnpadSign(em []byte, k int) ([]byte, error) {
	if len(em) != k {
		return nil, ErrVerification
	}
	if em[0] != 0x00 || em[1] != 0x01 {
		return nil, ErrVerification
	}

	sep := -1
	for i := 2; i < len(em); i++ {
		if em[i] == 0x00 {
			sep = i
			break
		}
		if em[i] != 0xFF {
			return nil, ErrVerification
		}
	}
	if sep < 0 {
		return nil, ErrVerification
	}
	if sep-2 < minPadBytes {
		return nil, ErrVerification
	}
	return em[sep+1:], nil
}

// randomNonZero returns n cryptographically secure random bytes, none of
// which are zero, resampling byte-wise on a zero draw.
func randomNonZero(n int) ([]byte, error) {
	out := make([]byte, n)
	one := make([]byte, 1)
	for i := 0; i < n; i++ {
		for {
			if _, err := rand.Read(one); err != nil {
				return nil, err
			}
			if one[0] != 0 {
				out[i] = one[0]
				break
			}
		}
	}
	return out, nil
}

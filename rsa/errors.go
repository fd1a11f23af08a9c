package rsa

import "errors"

// Error kinds for this package. DecryptionError and VerificationError are
// deliberately coarse: every internal unpad/length/digest check that
// fails under Decrypt or Verify collapses to one of these two sentinels,
// with no further detail, to avoid a padding-oracle-style side channel.
var (
	// ErrInvalidArgument covers bad caller input: a key size below the
	// module's minimum, an unrecognized hash algorithm name passed to
	// Sign, or a non-coprime modular-inverse input.
	ErrInvalidArgument = errors.New("rsa: invalid argument")

	// ErrOverflow covers a message too long for a key, or an integer
	// that doesn't fit a requested byte length.
	ErrOverflow = errors.New("rsa: overflow")

	// ErrDecryption is returned for any Decrypt failure: ciphertext
	// length mismatch, or a type-2 unpad violation.
	ErrDecryption = errors.New("rsa: decryption error")

	// ErrVerification is returned for any Verify failure: signature
	// length mismatch, a type-1 unpad violation, an unrecognized
	// DigestInfo prefix, or a digest mismatch.
	ErrVerification = errors.New("rsa: verification error")

	// ErrCodec covers malformed DER/PEM, an unknown key version, or a
	// negative integer in a field that must be non-negative.
	ErrCodec = errors.New("rsa: codec error")

	// ErrCancelled is returned when a caller-supplied context is done
	// before NewKey finishes searching for primes.
	ErrCancelled = errors.New("rsa: key generation cancelled")
)

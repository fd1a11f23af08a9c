package pkcs1

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"errors"
	"fmt"
)

// HashAlgorithm identifies one of the closed set of digest algorithms this
// module recognizes for PKCS#1 v1.5 signatures.
type HashAlgorithm string

// The accepted algorithm identifiers, case-sensitive.
const (
	MD5    HashAlgorithm = "MD5"
	SHA1   HashAlgorithm = "SHA-1"
	SHA224 HashAlgorithm = "SHA-224"
	SHA256 HashAlgorithm = "SHA-256"
	SHA384 HashAlgorithm = "SHA-384"
	SHA512 HashAlgorithm = "SHA-512"
)

// ErrUnknownAlgorithm is returned when a caller names, or a verified
// signature implies, a hash algorithm outside the closed set above.
var ErrUnknownAlgorithm = errors.New("pkcs1: unknown hash algorithm")

// digestInfoPrefix is the DER encoding of
// SEQUENCE { AlgorithmIdentifier, OCTET STRING } with the OCTET STRING
// length field filled in but its contents (the digest itself) omitted;
// prepending it to a digest yields the DigestInfo value PKCS#1 v1.5
// signs. Values are the standard RFC 8017 section 9.2 prefixes.
var digestInfoPrefix = map[HashAlgorithm][]byte{
	MD5: {
		0x30, 0x20, 0x30, 0x0c, 0x06, 0x08, 0x2a, 0x86, 0x48, 0x86, 0xf7, 0x0d,
		0x02, 0x05, 0x05, 0x00, 0x04, 0x10,
	},
	SHA1: {
		0x30, 0x21, 0x30, 0x09, 0x06, 0x05, 0x2b, 0x0e, 0x03, 0x02, 0x1a, 0x05,
		0x00, 0x04, 0x14,
	},
	SHA224: {
		0x30, 0x2d, 0x30, 0x0d, 0x06, 0x09, 0x60, 0x86, 0x48, 0x01, 0x65, 0x03,
		0x04, 0x02, 0x04, 0x05, 0x00, 0x04, 0x1c,
	},
	SHA256: {
		0x30, 0x31, 0x30, 0x0d, 0x06, 0x09, 0x60, 0x86, 0x48, 0x01, 0x65, 0x03,
		0x04, 0x02, 0x01, 0x05, 0x00, 0x04, 0x20,
	},
	SHA384: {
		0x30, 0x41, 0x30, 0x0d, 0x06, 0x09, 0x60, 0x86, 0x48, 0x01, 0x65, 0x03,
		0x04, 0x02, 0x02, 0x05, 0x00, 0x04, 0x30,
	},
	SHA512: {
		0x30, 0x51, 0x30, 0x0d, 0x06, 0x09, 0x60, 0x86, 0x48, 0x01, 0x65, 0x03,
		0x04, 0x02, 0x03, 0x05, 0x00, 0x04, 0x40,
	},
}

// digestLen is the raw digest size, in bytes, for each algorithm.
var digestLen = map[HashAlgorithm]int{
	MD5:    md5.Size,
	SHA1:   sha1.Size,
	SHA224: sha256.Size224,
	SHA256: sha256.Size,
	SHA384: sha512.Size384,
	SHA512: sha512.Size,
}

// Digest computes the digest of m under alg. It fails with
// ErrUnknownAlgorithm for any name outside the closed set.
func Digest(alg HashAlgorithm, m []byte) ([]byte, error) {
	switch alg {
	case MD5:
		d := md5.Sum(m)
		return d[:], nil
	case SHA1:
		d := sha1.Sum(m)
		return d[:], nil
	case SHA224:
		d := sha256.Sum224(m)
		return d[:], nil
	case SHA256:
		d := sha256.Sum256(m)
		return d[:], nil
	case SHA384:
		d := sha512.Sum384(m)
		return d[:], nil
	case SHA512:
		d := sha512.Sum512(m)
		return d[:], nil
	default:
		return nil, fmt.Errorf("pkcs1: %q: %w", alg, ErrUnknownAlgorithm)
	}
}

// DigestInfo prepends alg's DER prefix to digest, forming the value a
// PKCS#1 v1.5 signature covers. It fails with ErrUnknownAlgorithm for an
// unrecognized alg, or if digest does not have alg's expected length.
func DigestInfo(alg HashAlgorithm, digest []byte) ([]byte, error) {
	prefix, ok := digestInfoPrefix[alg]
	if !ok {
		return nil, fmt.Errorf("pkcs1: %q: %w", alg, ErrUnknownAlgorithm)
	}
	if len(digest) != digestLen[alg] {
		return nil, fmt.Errorf("pkcs1: digest length %d does not match %s: %w", len(digest), alg, ErrUnknownAlgorithm)
	}
	out := make([]byte, 0, len(prefix)+len(digest))
	out = append(out, prefix...)
	out = append(out, digest...)
	return out, nil
}

// RecognizeDigestInfo splits t into (alg, digest) by matching t's prefix
// against the closed set of known DigestInfo prefixes. The algorithm name
// is recovered from the data itself, never trusted from a caller. It
// fails with ErrUnknownAlgorithm when no known prefix matches.
func RecognizeDigestInfo(t []byte) (alg HashAlgorithm, digest []byte, err error) {
	for name, prefix := range digestInfoPrefix {
		if len(t) != len(prefix)+digestLen[name] {
			continue
		}
		if !bytesHavePrefix(t, prefix) {
			continue
		}
		return name, t[len(prefix):], nil
	}
	return "", nil, fmt.Errorf("pkcs1: no known DigestInfo prefix matches: %w", ErrUnknownAlgorithm)
}

func bytesHavePrefix(b, prefix []byte) bool {
	if len(b) < len(prefix) {
		return false
	}
	for i := range prefix {
		if b[i] != prefix[i] {
			return false
		}
	}
	return true
}

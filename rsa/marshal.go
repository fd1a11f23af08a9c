package rsa

import (
	"encoding/asn1"
	"encoding/pem"
	"fmt"
	"math/big"
)

// Format names a PKCS#1 key serialization.
type Format string

// The two supported formats. Both are PKCS#1 ("traditional") encodings,
// bit-compatible with OpenSSL's -traditional flag -- never the
// SubjectPublicKeyInfo/PKCS#8 wrapper forms.
const (
	FormatDER Format = "DER"
	FormatPEM Format = "PEM"
)

const (
	pemPublicKeyType  = "RSA PUBLIC KEY"
	pemPrivateKeyType = "RSA PRIVATE KEY"
)

// derPublicKey mirrors the PKCS#1 ASN.1 shape:
//
//	RSAPublicKey ::= SEQUENCE { modulus INTEGER, publicExponent INTEGER }
type derPublicKey struct {
	N *big.Int
	E *big.Int
}

// derPrivateKey mirrors PKCS#1's RSAPrivateKey shape.
type derPrivateKey struct {
	Version  int
	N        *big.Int
	E        *big.Int
	D        *big.Int
	P        *big.Int
	Q        *big.Int
	Exponent1,
	Exponent2,
	Coefficient *big.Int
}

// SavePKCS1 encodes pub as PKCS#1 RSAPublicKey DER, optionally wrapped in
// PEM armor.
func (pub *PublicKey) SavePKCS1(format Format) ([]byte, error) {
	der, err := asn1.Marshal(derPublicKey{N: pub.n, E: pub.e})
	if err != nil {
		return nil, fmt.Errorf("rsa: encoding public key DER: %w", ErrCodec)
	}
	return frame(der, format, pemPublicKeyType)
}

// LoadPublicKeyPKCS1 decodes a PKCS#1 RSAPublicKey, PEM or DER, into a
// PublicKey. It fails with ErrCodec on malformed input, a PEM label
// mismatch, or a negative modulus/exponent.
func LoadPublicKeyPKCS1(data []byte, format Format) (*PublicKey, error) {
	der, err := unframe(data, format, pemPublicKeyType)
	if err != nil {
		return nil, err
	}

	var k derPublicKey
	rest, err := asn1.Unmarshal(der, &k)
	if err != nil || len(rest) != 0 {
		return nil, fmt.Errorf("rsa: malformed public key DER: %w", ErrCodec)
	}
	if k.N.Sign() < 0 || k.E.Sign() < 0 {
		return nil, fmt.Errorf("rsa: public key DER has a negative field: %w", ErrCodec)
	}

	pub, err := newPublicKey(k.N, k.E)
	if err != nil {
		return nil, fmt.Errorf("rsa: public key DER failed validation: %w", ErrCodec)
	}
	return pub, nil
}

// SavePKCS1 encodes priv as PKCS#1 RSAPrivateKey DER, optionally wrapped
// in PEM armor.
func (priv *PrivateKey) SavePKCS1(format Format) ([]byte, error) {
	der, err := asn1.Marshal(derPrivateKey{
		Version:     0,
		N:           priv.n,
		E:           priv.e,
		D:           priv.d,
		P:           priv.p,
		Q:           priv.q,
		Exponent1:   priv.exp1,
		Exponent2:   priv.exp2,
		Coefficient: priv.coef,
	})
	if err != nil {
		return nil, fmt.Errorf("rsa: encoding private key DER: %w", ErrCodec)
	}
	return frame(der, format, pemPrivateKeyType)
}

// LoadPrivateKeyPKCS1 decodes a PKCS#1 RSAPrivateKey, PEM or DER, into a
// PrivateKey. It fails with ErrCodec on malformed input, an unknown
// version, a PEM label mismatch, a negative field, or a stored modulus
// that doesn't equal the stored p*q.
func LoadPrivateKeyPKCS1(data []byte, format Format) (*PrivateKey, error) {
	der, err := unframe(data, format, pemPrivateKeyType)
	if err != nil {
		return nil, err
	}

	var k derPrivateKey
	rest, err := asn1.Unmarshal(der, &k)
	if err != nil || len(rest) != 0 {
		return nil, fmt.Errorf("rsa: malformed private key DER: %w", ErrCodec)
	}
	if k.Version != 0 {
		return nil, fmt.Errorf("rsa: unsupported private key version %d: %w", k.Version, ErrCodec)
	}
	for _, field := range []*big.Int{k.N, k.E, k.D, k.P, k.Q, k.Exponent1, k.Exponent2, k.Coefficient} {
		if field.Sign() < 0 {
			return nil, fmt.Errorf("rsa: private key DER has a negative field: %w", ErrCodec)
		}
	}

	priv, err := newPrivateKey(k.P, k.Q, k.E, k.D)
	if err != nil {
		return nil, fmt.Errorf("rsa: private key DER failed validation: %w", ErrCodec)
	}
	if priv.n.Cmp(k.N) != 0 {
		return nil, fmt.Errorf("rsa: stored modulus does not match p*q: %w", ErrCodec)
	}
	return priv, nil
}

// frame wraps der in PEM armor when format is FormatPEM, or returns it
// unchanged for FormatDER.
func frame(der []byte, format Format, pemType string) ([]byte, error) {
	switch format {
	case FormatDER:
		return der, nil
	case FormatPEM:
		return pem.EncodeToMemory(&pem.Block{Type: pemType, Bytes: der}), nil
	default:
		return nil, fmt.Errorf("rsa: unknown key format %q: %w", format, ErrCodec)
	}
}

// unframe reverses frame: for FormatPEM it decodes the PEM block and
// checks its label matches pemType exactly, rejecting mismatched
// BEGIN/END labels; for FormatDER it returns data unchanged.
// encoding/pem already tolerates trailing whitespace and CRLF line
// endings in the input, satisfying that parsing requirement.
func unframe(data []byte, format Format, pemType string) ([]byte, error) {
	switch format {
	case FormatDER:
		return data, nil
	case FormatPEM:
		block, _ := pem.Decode(data)
		if block == nil {
			return nil, fmt.Errorf("rsa: no PEM block found: %w", ErrCodec)
		}
		if block.Type != pemType {
			return nil, fmt.Errorf("rsa: PEM label %q, want %q: %w", block.Type, pemType, ErrCodec)
		}
		return block.Bytes, nil
	default:
		return nil, fmt.Errorf("rsa: unknown key format %q: %w", format, ErrCodec)
	}
}

package rsa

import (
	"bytes"
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/dlclark/rsa1/pkcs1"
)

func TestNewKeyInvariants(t *testing.T) {
	const bits = 512
	priv, err := NewKeyWithParams(context.Background(), bits, true, DefaultExponent)
	if err != nil {
		t.Fatalf("NewKeyWithParams: %v", err)
	}

	if priv.BitLen() != bits {
		t.Fatalf("BitLen() = %d, want %d", priv.BitLen(), bits)
	}
	n := new(big.Int).Mul(priv.p, priv.q)
	if n.Cmp(priv.n) != 0 {
		t.Fatal("n != p*q")
	}
	if priv.p.Cmp(priv.q) <= 0 {
		t.Fatal("expected p > q")
	}

	pMinus1 := new(big.Int).Sub(priv.p, one)
	qMinus1 := new(big.Int).Sub(priv.q, one)
	lambda := lcm(pMinus1, qMinus1)
	ed := new(big.Int).Mul(priv.e, priv.d)
	ed.Mod(ed, lambda)
	if ed.Cmp(one) != 0 {
		t.Fatal("e*d mod lcm(p-1,q-1) != 1")
	}

	coefq := new(big.Int).Mul(priv.coef, priv.q)
	coefq.Mod(coefq, priv.p)
	if coefq.Cmp(one) != 0 {
		t.Fatal("coef*q mod p != 1")
	}

	exp1 := new(big.Int).Mod(priv.d, pMinus1)
	if exp1.Cmp(priv.exp1) != 0 {
		t.Fatal("exp1 != d mod (p-1)")
	}
	exp2 := new(big.Int).Mod(priv.d, qMinus1)
	if exp2.Cmp(priv.exp2) != 0 {
		t.Fatal("exp2 != d mod (q-1)")
	}
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	priv, err := NewKey(512)
	if err != nil {
		t.Fatalf("NewKey: %v", err)
	}
	pub := priv.PublicKey()

	m := []byte("attack at dawn")
	c, err := Encrypt(m, pub)
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	got, err := Decrypt(c, priv)
	if err != nil {
		t.Fatalf("Decrypt: %v", err)
	}
	if !bytes.Equal(got, m) {
		t.Fatalf("got %q, want %q", got, m)
	}
}

func TestEncryptRandomizedPadding(t *testing.T) {
	priv, err := NewKey(512)
	if err != nil {
		t.Fatalf("NewKey: %v", err)
	}
	pub := priv.PublicKey()
	m := []byte("same plaintext")

	c1, err := Encrypt(m, pub)
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	c2, err := Encrypt(m, pub)
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	if bytes.Equal(c1, c2) {
		t.Fatal("two encryptions produced identical ciphertexts")
	}

	for _, c := range [][]byte{c1, c2} {
		got, err := Decrypt(c, priv)
		if err != nil {
			t.Fatalf("Decrypt: %v", err)
		}
		if !bytes.Equal(got, m) {
			t.Fatalf("got %q, want %q", got, m)
		}
	}
}

func TestEncryptMessageTooLong(t *testing.T) {
	priv, err := NewKey(512)
	if err != nil {
		t.Fatalf("NewKey: %v", err)
	}
	pub := priv.PublicKey()
	k := pub.ByteLen()

	ok := make([]byte, k-11)
	if _, err := Encrypt(ok, pub); err != nil {
		t.Fatalf("expected success at k-11, got %v", err)
	}
	tooLong := make([]byte, k-10)
	if _, err := Encrypt(tooLong, pub); !errors.Is(err, ErrOverflow) {
		t.Fatalf("expected ErrOverflow, got %v", err)
	}
}

func TestDecryptWrongLength(t *testing.T) {
	priv, err := NewKey(512)
	if err != nil {
		t.Fatalf("NewKey: %v", err)
	}
	k := priv.ByteLen()
	c := make([]byte, k-1)
	if _, err := Decrypt(c, priv); err != ErrDecryption {
		t.Fatalf("expected ErrDecryption, got %v", err)
	}
}

func TestSignVerifyRoundTrip(t *testing.T) {
	priv, err := NewKey(512)
	if err != nil {
		t.Fatalf("NewKey: %v", err)
	}
	pub := priv.PublicKey()

	m := []byte("attack at dawn")
	sig, err := Sign(m, priv, pkcs1.SHA256)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	alg, err := Verify(m, sig, pub)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if alg != pkcs1.SHA256 {
		t.Fatalf("got alg %s, want SHA-256", alg)
	}

	if _, err := Verify([]byte("attack at noon"), sig, pub); err != ErrVerification {
		t.Fatalf("expected ErrVerification for tampered message, got %v", err)
	}
}

func TestSignRefusesBrokenAlgorithms(t *testing.T) {
	priv, err := NewKey(512)
	if err != nil {
		t.Fatalf("NewKey: %v", err)
	}
	for _, alg := range []pkcs1.HashAlgorithm{pkcs1.MD5, pkcs1.SHA1} {
		if _, err := Sign([]byte("m"), priv, alg); !errors.Is(err, ErrInvalidArgument) {
			t.Fatalf("Sign(%s) expected ErrInvalidArgument, got %v", alg, err)
		}
	}
}

func TestVerifyWrongLength(t *testing.T) {
	priv, err := NewKey(512)
	if err != nil {
		t.Fatalf("NewKey: %v", err)
	}
	pub := priv.PublicKey()
	sig := make([]byte, pub.ByteLen()-1)
	if _, err := Verify([]byte("m"), sig, pub); err != ErrVerification {
		t.Fatalf("expected ErrVerification, got %v", err)
	}
}

func TestFastModeAllowsOffByOneBit(t *testing.T) {
	priv, err := NewKeyWithParams(context.Background(), 256, false, DefaultExponent)
	if err != nil {
		t.Fatalf("NewKeyWithParams: %v", err)
	}
	if priv.BitLen() != 256 && priv.BitLen() != 255 {
		t.Fatalf("fast-mode BitLen() = %d, want 255 or 256", priv.BitLen())
	}
}

func TestNewKeyCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewKeyWithParams(ctx, 2048, true, DefaultExponent); !errors.Is(err, ErrCancelled) {
		t.Fatalf("expected ErrCancelled, got %v", err)
	}
}

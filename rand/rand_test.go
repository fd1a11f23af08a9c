package rand

import (
	"math/big"
	"testing"
)

func TestInt(t *testing.T) {
	max := big.NewInt(1000)
	for i := 0; i < 200; i++ {
		n, err := Int(max)
		if err != nil {
			t.Fatalf("Int: %v", err)
		}
		if n.Sign() < 0 || n.Cmp(max) >= 0 {
			t.Fatalf("Int(%s) = %s out of range", max, n)
		}
	}
}

func TestBitsLength(t *testing.T) {
	for _, k := range []int{1, 7, 8, 9, 64, 65, 1024} {
		b, err := Bits(k)
		if err != nil {
			t.Fatalf("Bits(%d): %v", k, err)
		}
		want := (k + 7) / 8
		if len(b) != want {
			t.Fatalf("Bits(%d) length = %d, want %d", k, len(b), want)
		}
		n := new(big.Int).SetBytes(b)
		if n.BitLen() > k {
			t.Fatalf("Bits(%d) produced %d-bit value", k, n.BitLen())
		}
	}
}

func TestOddIntShape(t *testing.T) {
	for _, k := range []int{9, 16, 64, 512} {
		n, err := OddInt(k)
		if err != nil {
			t.Fatalf("OddInt(%d): %v", k, err)
		}
		if n.BitLen() != k {
			t.Fatalf("OddInt(%d).BitLen() = %d, want %d", k, n.BitLen(), k)
		}
		if n.Bit(0) != 1 {
			t.Fatalf("OddInt(%d) is even: %s", k, n)
		}
	}
}

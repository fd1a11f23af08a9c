package primes

import (
	"context"
	"errors"
	"math/big"
	"math/rand"
	"testing"
	"time"
)

var r = rand.New(rand.NewSource(time.Now().UnixNano()))

// TestIsProbablePrimeSmoke checks IsProbablePrime against every known
// prime and composite below 10,000.
func TestIsProbablePrimeSmoke(t *testing.T) {
	sieveLimit := 10000
	composite := make([]bool, sieveLimit+1)
	for n := 2; n <= sieveLimit; n++ {
		if composite[n] {
			continue
		}
		for m := n * n; m <= sieveLimit; m += n {
			composite[m] = true
		}
	}

	for n := 2; n <= sieveLimit; n++ {
		want := !composite[n]
		got := IsProbablePrime(big.NewInt(int64(n)), DefaultRounds)
		if got != want {
			t.Fatalf("IsProbablePrime(%d) = %v, want %v", n, got, want)
		}
	}
}

func TestIsProbablePrimeRejectsSmall(t *testing.T) {
	for _, n := range []int64{-5, -1, 0, 1} {
		if IsProbablePrime(big.NewInt(n), DefaultRounds) {
			t.Fatalf("IsProbablePrime(%d) = true, want false", n)
		}
	}
}

func TestFindProducesPrimeOfRequestedSize(t *testing.T) {
	for _, bits := range []int{16, 64, 128} {
		p, err := Find(context.Background(), bits)
		if err != nil {
			t.Fatalf("Find(%d): %v", bits, err)
		}
		if p.BitLen() != bits {
			t.Fatalf("Find(%d).BitLen() = %d", bits, p.BitLen())
		}
		if !IsProbablePrime(p, DefaultRounds) {
			t.Fatalf("Find(%d) returned non-prime %s", bits, p)
		}
	}
}

func TestFindCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Find(ctx, 512); !errors.Is(err, ErrCancelled) {
		t.Fatalf("expected ErrCancelled, got %v", err)
	}
}

func TestCoprime(t *testing.T) {
	if !Coprime(big.NewInt(9), big.NewInt(28)) {
		t.Fatal("expected 9 and 28 to be coprime")
	}
	if Coprime(big.NewInt(9), big.NewInt(27)) {
		t.Fatal("expected 9 and 27 to not be coprime")
	}
}

func BenchmarkIsProbablePrime512(b *testing.B) {
	n := randOdd(512)
	for i := 0; i < b.N; i++ {
		IsProbablePrime(n, DefaultRounds)
	}
}

func BenchmarkStdlibProbablyPrime512(b *testing.B) {
	n := randOdd(512)
	for i := 0; i < b.N; i++ {
		n.ProbablyPrime(DefaultRounds)
	}
}

func randOdd(bits uint) *big.Int {
	max := new(big.Int).Lsh(big.NewInt(1), bits)
	n := new(big.Int).Rand(r, max)
	n.SetBit(n, 0, 1)
	n.SetBit(n, int(bits-1), 1)
	return n
}

package gc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func isPrime(n int) bool {
	if n < 2 {
		return false
	}
	for d := 2; d*d <= n; d++ {
		if n%d == 0 {
			return false
		}
	}
	return true
}

func TestNextPrimeIsPrimeAndNotSmaller(t *testing.T) {
	for _, n := range []int{0, 1, 2, 10, 100, 1000, 123456} {
		p := nextPrime(n)
		assert.True(t, isPrime(p), "nextPrime(%d) = %d is not prime", n, p)
		assert.GreaterOrEqual(t, p, n)
	}
}

func TestPrevPrimeIsPrimeAndNotLarger(t *testing.T) {
	for _, n := range []int{20, 100, 1000, 123456} {
		p := prevPrime(n)
		assert.True(t, isPrime(p), "prevPrime(%d) = %d is not prime", n, p)
		assert.LessOrEqual(t, p, n)
	}
}

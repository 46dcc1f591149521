package dice

import (
	"crypto/rand"
	"math/big"
	mathrand "math/rand"
	"sync"
	"time"
)

// cryptoSource implements Source using crypto/rand, degrading to a locked
// pseudo-random generator if the system entropy source ever fails. Rolls
// must keep working at the table even when crypto/rand does not.
//
// Invariant: every value produced is uniformly distributed in [0, n) for
// any n > 0.
type cryptoSource struct {
	mu       sync.Mutex
	fallback *mathrand.Rand
}

// NewCryptoSource returns the production Source backed by crypto/rand.
//
// Postcondition: every value returned by Intn is in [0, n).
func NewCryptoSource() Source {
	return &cryptoSource{}
}

// Intn returns a random int in [0, n), cryptographically secure unless
// the platform source fails mid-read.
//
// Precondition: n > 0. Panics with "dice: Intn called with n <= 0" if n <= 0.
func (c *cryptoSource) Intn(n int) int {
	if n <= 0 {
		panic("dice: Intn called with n <= 0")
	}
	val, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return c.fallbackIntn(n)
	}
	return int(val.Int64())
}

func (c *cryptoSource) fallbackIntn(n int) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fallback == nil {
		c.fallback = mathrand.New(mathrand.NewSource(time.Now().UnixNano()))
	}
	return c.fallback.Intn(n)
}

// pseudoSource is a seeded deterministic Source for tests and the offline
// roll tool.
type pseudoSource struct {
	mu sync.Mutex
	r  *mathrand.Rand
}

// NewPseudoSource returns a deterministic Source; the same seed always
// yields the same sequence.
func NewPseudoSource(seed int64) Source {
	return &pseudoSource{r: mathrand.New(mathrand.NewSource(seed))}
}

// Intn returns the next pseudo-random int in [0, n).
//
// Precondition: n > 0. Panics with "dice: Intn called with n <= 0" if n <= 0.
func (p *pseudoSource) Intn(n int) int {
	if n <= 0 {
		panic("dice: Intn called with n <= 0")
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.r.Intn(n)
}

package dice_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pedrohwah/shadowsofavernus/internal/game/dice"
)

func TestCryptoSource_Range(t *testing.T) {
	src := dice.NewCryptoSource()
	for i := 0; i < 1000; i++ {
		v := src.Intn(20)
		require.GreaterOrEqual(t, v, 0)
		require.Less(t, v, 20)
	}
}

func TestCryptoSource_PanicsOnNonPositive(t *testing.T) {
	src := dice.NewCryptoSource()
	assert.Panics(t, func() { src.Intn(0) })
	assert.Panics(t, func() { src.Intn(-5) })
}

func TestPseudoSource_Deterministic(t *testing.T) {
	a := dice.NewPseudoSource(42)
	b := dice.NewPseudoSource(42)
	for i := 0; i < 100; i++ {
		assert.Equal(t, a.Intn(1000), b.Intn(1000), "same seed must yield the same sequence")
	}
}

func TestPseudoSource_SeedsDiffer(t *testing.T) {
	a := dice.NewPseudoSource(1)
	b := dice.NewPseudoSource(2)
	same := true
	for i := 0; i < 20; i++ {
		if a.Intn(1000) != b.Intn(1000) {
			same = false
		}
	}
	assert.False(t, same, "different seeds should diverge")
}

func TestPseudoSource_ConcurrentUse(t *testing.T) {
	src := dice.NewPseudoSource(7)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				v := src.Intn(6)
				if v < 0 || v >= 6 {
					t.Errorf("value %d out of range", v)
					return
				}
			}
		}()
	}
	wg.Wait()
}

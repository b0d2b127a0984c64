package parking

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sync/atomic"
)

// idGenerator produces core-generated ids with a recognizable prefix
// followed by a monotonic-plus-random suffix (spec.md §6): stable and
// unique, nothing more is contractual.
type idGenerator struct {
	counter uint64
}

func newIDGenerator() *idGenerator {
	return &idGenerator{}
}

func (g *idGenerator) next(prefix string) string {
	n := atomic.AddUint64(&g.counter, 1)
	var buf [4]byte
	_, _ = rand.Read(buf[:])
	return fmt.Sprintf("%s%d-%s", prefix, n, hex.EncodeToString(buf[:]))
}

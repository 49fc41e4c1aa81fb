package testutils

import (
	"io"
	"math/rand"
)

// DeterministicReader returns a reader producing the same byte stream for
// the same seed, for tests that need reproducible "random" payloads and keys.
func DeterministicReader(seed int64) io.Reader {
	return rand.New(rand.NewSource(seed))
}

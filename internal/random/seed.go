// Package random draws seeds for the engine's deterministic RNGs. Shoe
// shuffles and outcome draws run on seeded math/rand generators; the
// seeds themselves come from crypto/rand so restarts never replay a
// card or die sequence.
package random

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
)

// NewSeed returns eight bytes of OS entropy as an int64 seed.
func NewSeed() (int64, error) {
	var buf [8]byte
	if _, err := crand.Read(buf[:]); err != nil {
		return 0, fmt.Errorf("seed entropy: %w", err)
	}
	return int64(binary.BigEndian.Uint64(buf[:])), nil
}

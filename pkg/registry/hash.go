package registry

import (
	"fmt"
	"hash/crc32"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// HashFunc maps a name to the 32-bit identifier the runtime library keys on.
type HashFunc func(string) uint32

const (
	HashCRC32  = "crc32"
	HashXXHash = "xxhash"
)

// CRC32 is the IEEE CRC-32 of the name, the identifier the runtime computes.
func CRC32(s string) uint32 {
	return crc32.ChecksumIEEE([]byte(s))
}

// XXHash is the low 32 bits of the 64-bit xxHash of the name.
func XXHash(s string) uint32 {
	return uint32(xxhash.Sum64String(s))
}

// HashByName returns the hash function registered under name.
func HashByName(name string) (HashFunc, error) {
	switch strings.ToLower(name) {
	case "", HashCRC32:
		return CRC32, nil
	case HashXXHash:
		return XXHash, nil
	}
	return nil, fmt.Errorf("unknown hash function %q", name)
}

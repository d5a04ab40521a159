package util

import (
	"github.com/bsv-blockchain/go-bt/v2/chainhash"
)

// MerkleRoot computes the bitcoin merkle root of the given leaf hashes,
// duplicating the last node of odd-length levels. An empty list yields the zero hash.
func MerkleRoot(hashes []chainhash.Hash) chainhash.Hash {
	if len(hashes) == 0 {
		return chainhash.Hash{}
	}

	level := make([]chainhash.Hash, len(hashes))
	copy(level, hashes)

	var buf [chainhash.HashSize * 2]byte

	for len(level) > 1 {
		if len(level)%2 != 0 {
			level = append(level, level[len(level)-1])
		}

		next := level[:0]

		for i := 0; i < len(level); i += 2 {
			copy(buf[:chainhash.HashSize], level[i][:])
			copy(buf[chainhash.HashSize:], level[i+1][:])
			next = append(next, chainhash.DoubleHashH(buf[:]))
		}

		level = next
	}

	return level[0]
}

package core

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"math"
)

// Hash represents a cryptographic hash
type Hash string

// NewHash creates a new hash from data
func NewHash(data []byte) Hash {
	sum := sha256.Sum256(data)
	return Hash(hex.EncodeToString(sum[:]))
}

// String returns the string representation
func (h Hash) String() string {
	return string(h)
}

// IsEmpty checks if the hash is empty
func (h Hash) IsEmpty() bool {
	return h == ""
}

// Equals checks if two hashes are equal
func (h Hash) Equals(other Hash) bool {
	return h == other
}

// SampleFingerprint identifies the exact pair of input samples of a test run,
// order-sensitive, so persisted results can be traced back to their data.
type SampleFingerprint Hash

func (h SampleFingerprint) String() string { return Hash(h).String() }

// ComputeSampleFingerprint hashes both samples in argument order. Each
// sample is prefixed with its length, so ([a,b], [c]) never collides with
// ([a], [b,c]) regardless of the values involved.
func ComputeSampleFingerprint(data1, data2 []float64) SampleFingerprint {
	buf := make([]byte, 0, (len(data1)+len(data2)+2)*8)
	scratch := make([]byte, 8)
	for _, sample := range [][]float64{data1, data2} {
		binary.BigEndian.PutUint64(scratch, uint64(len(sample)))
		buf = append(buf, scratch...)
		for _, v := range sample {
			binary.BigEndian.PutUint64(scratch, math.Float64bits(v))
			buf = append(buf, scratch...)
		}
	}
	return SampleFingerprint(NewHash(buf))
}

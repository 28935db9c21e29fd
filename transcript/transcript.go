// Package transcript implements the public-coin Keccak-256 transcript shared
// by prover and verifier. Every prover message is absorbed into a running
// hash; a challenge finalizes the hash and reseeds it with the digest, so
// challenges depend on every byte absorbed so far.
package transcript

import (
	"encoding/binary"
	"hash"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"golang.org/x/crypto/sha3"
)

// Transcript is a Keccak-256 Fiat-Shamir byte stream. The zero value is not
// usable; call New.
type Transcript struct {
	h hash.Hash
}

// New returns a fresh transcript.
func New() *Transcript {
	return &Transcript{h: sha3.NewLegacyKeccak256()}
}

// AppendBytes absorbs raw bytes. No length framing is added; callers that
// absorb variable-length data must frame it themselves.
func (t *Transcript) AppendBytes(msg []byte) {
	t.h.Write(msg) //nolint:errcheck // hash.Hash never errors
}

// AppendUint64 absorbs a little-endian 64-bit integer.
func (t *Transcript) AppendUint64(v uint64) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	t.AppendBytes(buf[:])
}

// AppendUint64s absorbs a sequence of little-endian 64-bit integers.
func (t *Transcript) AppendUint64s(vs ...uint64) {
	for _, v := range vs {
		t.AppendUint64(v)
	}
}

// AppendScalar absorbs the big-endian canonical bytes of a field element.
func (t *Transcript) AppendScalar(s *fr.Element) {
	b := s.Bytes()
	t.AppendBytes(b[:])
}

// AppendScalars absorbs a sequence of field elements.
func (t *Transcript) AppendScalars(ss []fr.Element) {
	for i := range ss {
		t.AppendScalar(&ss[i])
	}
}

// ChallengeBytes squeezes 32 challenge bytes and reseeds the hash with them.
func (t *Transcript) ChallengeBytes() [32]byte {
	var digest [32]byte
	copy(digest[:], t.h.Sum(nil))
	t.h.Reset()
	t.h.Write(digest[:]) //nolint:errcheck
	return digest
}

// ChallengeScalar squeezes one field-element challenge, interpreting the
// challenge bytes as a little-endian integer reduced mod q.
func (t *Transcript) ChallengeScalar() fr.Element {
	digest := t.ChallengeBytes()
	// reverse to big-endian for big.Int
	for i, j := 0, len(digest)-1; i < j; i, j = i+1, j-1 {
		digest[i], digest[j] = digest[j], digest[i]
	}
	var e fr.Element
	e.SetBigInt(new(big.Int).SetBytes(digest[:]))
	return e
}

// ChallengeScalars squeezes n field-element challenges.
func (t *Transcript) ChallengeScalars(n int) []fr.Element {
	out := make([]fr.Element, n)
	for i := range out {
		out[i] = t.ChallengeScalar()
	}
	return out
}

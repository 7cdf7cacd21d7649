// Package hashmat implements the evaluator's monoidal word hash.
//
// The hash is SL2-style (Zemor-Tillich): every word maps to a 2x2 matrix
// over the field backing github.com/vybium/vybium-crypto, built as a
// product of two fixed generators selected bit-by-bit from the word's tag
// and payload. Matrix multiplication is associative with the identity
// matrix as the empty-sequence hash, so concatenating two word runs is
// exactly multiplying their digests -- the property component C's measure
// monoid relies on.
package hashmat

import (
	"encoding/binary"

	"golang.org/x/crypto/blake2b"

	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"
	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/hash"
)

// Digest is an element of SL2 over the vybium-crypto base field.
type Digest struct {
	A, B, C, D field.Element
}

// Identity is the hash of the empty word sequence.
func Identity() Digest {
	return Digest{A: field.One, B: field.Zero, C: field.Zero, D: field.One}
}

// generators of the hash: L and R from the classic Zemor-Tillich
// construction, specialized to this field.
var (
	genL = Digest{A: field.One, B: field.One, C: field.Zero, D: field.One}
	genR = Digest{A: field.One, B: field.Zero, C: field.One, D: field.One}
)

// Combine multiplies two digests. It is associative; Identity() is its
// two-sided unit. This is the monoid combine operation used to fold
// measures (P1).
func Combine(x, y Digest) Digest {
	return Digest{
		A: add(mul(x.A, y.A), mul(x.B, y.C)),
		B: add(mul(x.A, y.B), mul(x.B, y.D)),
		C: add(mul(x.C, y.A), mul(x.D, y.C)),
		D: add(mul(x.C, y.B), mul(x.D, y.D)),
	}
}

func add(x, y field.Element) field.Element { return x.Add(y) }
func mul(x, y field.Element) field.Element { return x.Mul(y) }

// WordHashable is satisfied by any tagged word the hasher can digest: a
// tag discriminant plus a field-element payload. Component A's Word type
// implements this.
type WordHashable interface {
	HashTag() uint64
	HashValue() field.Element
}

// FromWord hashes a single word into SL2 by walking the bits of
// (tag, payload) and multiplying in genL for a 0 bit, genR for a 1 bit.
func FromWord(w WordHashable) Digest {
	d := Identity()
	tag := w.HashTag()
	for i := 0; i < 4; i++ {
		bit := (tag >> uint(i)) & 1
		d = Combine(d, pick(bit))
	}
	val := w.HashValue().Uint64()
	for i := 0; i < 64; i++ {
		bit := (val >> uint(i)) & 1
		d = Combine(d, pick(bit))
	}
	return d
}

func pick(bit uint64) Digest {
	if bit == 0 {
		return genL
	}
	return genR
}

// Equal reports whether two digests denote the same SL2 element.
func (d Digest) Equal(o Digest) bool {
	return d.A.Equal(o.A) && d.B.Equal(o.B) && d.C.Equal(o.C) && d.D.Equal(o.D)
}

// Bytes serializes the digest's four field elements big-endian, for Key
// below.
func (d Digest) Bytes() []byte {
	out := make([]byte, 0, 32)
	for _, e := range [4]field.Element{d.A, d.B, d.C, d.D} {
		var b [8]byte
		binary.BigEndian.PutUint64(b[:], e.Uint64())
		out = append(out, b[:]...)
	}
	return out
}

// Key returns a fixed-size, comparable digest suitable as a Go map key
// (FetchResult -> child memo node). field.Element equality is defined by
// the .Equal method rather than struct equality, so FetchResult cannot
// safely use a Digest directly as a map key; Key blake2b-hashes the
// serialized matrix instead.
func (d Digest) Key() [32]byte {
	return blake2b.Sum256(d.Bytes())
}

// Scalar folds the digest down to one field element via Poseidon, for
// compact logging/display. It is not used for equality -- Key and Equal
// are authoritative.
func (d Digest) Scalar() field.Element {
	return hash.PoseidonHash([]field.Element{d.A, d.B, d.C, d.D})
}

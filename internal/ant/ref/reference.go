// Package ref implements the Reference half of a sequence element: a
// pointer into an adjacent machine's environment, store, or kontinuation,
// standing in for a fragment that has not been fetched yet (spec section
// 3, "Sequence element").
package ref

import (
	"fmt"

	"github.com/antlang/ant/internal/ant/hashmat"
	"github.com/antlang/ant/internal/ant/seq"
)

// Kind names the three places a Reference's source sequence can live.
type Kind uint8

const (
	Env Kind = iota
	Store
	Kont
)

func (k Kind) String() string {
	switch k {
	case Env:
		return "E"
	case Store:
		return "S"
	case Kont:
		return "K"
	default:
		return "?"
	}
}

// Src identifies a reference's source sequence: environment slot i, store
// slot i, or the kontinuation.
type Src struct {
	Kind  Kind
	Index int // meaningful for Env and Store; ignored for Kont
}

func EnvSrc(i int) Src   { return Src{Kind: Env, Index: i} }
func StoreSrc(i int) Src { return Src{Kind: Store, Index: i} }
func KontSrc() Src       { return Src{Kind: Kont} }

func (s Src) String() string {
	switch s.Kind {
	case Kont:
		return "K"
	default:
		return fmt.Sprintf("%s%d", s.Kind, s.Index)
	}
}

// Reference is a sequence element that stands in for Count logical values
// found at Offset words into Src's sequence, without having copied them.
type Reference struct {
	Src    Src
	Offset int
	Count  int
}

// Degree returns the number of logical values this reference stands for;
// a reference never aliases a partial value, so its degree is exactly its
// Count (invariant I3 generalizes to references: Count values in, Count
// values out).
func (r Reference) Degree() int { return r.Count }

// ValuesCount is Degree under the name the spec's pop_n algorithm uses for
// a reference's width; satisfies seq.splittableReference.
func (r Reference) ValuesCount() int { return r.Count }

// Hash reports that a Reference cannot itself be hashed -- its presence
// in a sequence is exactly what makes that sequence's measure.full None
// (spec section 3, Measure).
func (r Reference) Hash() (hashmat.Digest, bool) { return hashmat.Digest{}, false }

// Split divides r at its nth value, per spec section 4.C step 3: the left
// half stands for the first n values at the same offset; the right half
// stands for the rest, offset forward by n.
func (r Reference) Split(n int) (seq.Element, seq.Element) {
	lhs := Reference{Src: r.Src, Offset: r.Offset, Count: n}
	rhs := Reference{Src: r.Src, Offset: r.Offset + n, Count: r.Count - n}
	return lhs, rhs
}

// WithOffset returns a copy of r advanced past the first n values.
func (r Reference) WithOffset(n int) Reference {
	return Reference{Src: r.Src, Offset: r.Offset + n, Count: r.Count - n}
}

// Prefix returns a reference to just the first n values of r.
func (r Reference) Prefix(n int) Reference {
	return Reference{Src: r.Src, Offset: r.Offset, Count: n}
}

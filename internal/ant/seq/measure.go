package seq

import "github.com/antlang/ant/internal/ant/hashmat"

// Element is a sequence member: a Word or a Reference (spec section 3).
type Element interface {
	// Degree is this element's net contribution to the degree measure.
	Degree() int
	// Hash returns the element's SL2 digest, or ok=false if the element
	// is a Reference (in which case the containing measure's Full field
	// becomes None).
	Hash() (hashmat.Digest, bool)
}

// FullInfo holds the word count and SL2 hash of a fully-materialized (no
// Reference) fragment.
type FullInfo struct {
	Length int
	Hash   hashmat.Digest
}

// Measure is the monoid MeasuredSeq elements are folded through: net
// degree, peak prefix degree, and (if reference-free) length and hash.
type Measure struct {
	Degree    int
	MaxDegree int
	Full      *FullInfo // nil if the fragment contains any Reference
}

// Identity is the measure of the empty sequence -- the monoid's unit.
func Identity() Measure {
	return Measure{Degree: 0, MaxDegree: 0, Full: &FullInfo{Length: 0, Hash: hashmat.Identity()}}
}

// measureOf is the base case: the measure of a single element taken in
// isolation. MaxDegree equals Degree (not max(0, Degree)): a singleton has
// no internal cut point other than "all of it", and pop_n never needs
// n=0 to land inside a nonempty prefix (that case is special-cased by the
// caller before any Split is attempted).
func measureOf(e Element) Measure {
	d := e.Degree()
	m := Measure{Degree: d, MaxDegree: d}
	if h, ok := e.Hash(); ok {
		m.Full = &FullInfo{Length: 1, Hash: h}
	}
	return m
}

// Combine folds two adjacent measures into the measure of their
// concatenation (P1: associative, Identity() is the two-sided unit).
func Combine(x, y Measure) Measure {
	m := Measure{
		Degree:    x.Degree + y.Degree,
		MaxDegree: max(x.MaxDegree, x.Degree+y.MaxDegree),
	}
	if x.Full != nil && y.Full != nil {
		m.Full = &FullInfo{
			Length: x.Full.Length + y.Full.Length,
			Hash:   hashmat.Combine(x.Full.Hash, y.Full.Hash),
		}
	}
	return m
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

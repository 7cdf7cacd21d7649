package ant

import (
	"github.com/antlang/ant/internal/ant/seq"
	"github.com/antlang/ant/internal/ant/store"
	"github.com/antlang/ant/internal/ant/word"
)

// Tag discriminates a Word's payload: Int or Constructor.
type Tag = word.Tag

const (
	Int         = word.Int
	Constructor = word.Constructor
)

// Word is a fixed-width tagged machine scalar (spec section 3).
type Word = word.Word

// Seq is a measured sequence of Words and References -- the ABI type
// every conversion in this package speaks in.
type Seq = seq.Seq

// NewIntWord builds an integer word.
func NewIntWord(n int64) Word { return word.NewInt(n) }

// SetConstructorDegree registers the degree of the next constructor tag,
// in ascending tag order (spec section 6; R2).
func SetConstructorDegree(ctag, degree int) error {
	return word.SetConstructorDegree(ctag, degree)
}

// FreezeConstructorDegrees rejects further SetConstructorDegree calls.
// Call this once registration is complete, before the first ExecCEK.
func FreezeConstructorDegrees() { word.Freeze() }

// NewValue wraps a sequence as a freshly created, uncompressed Value at
// depth 0 -- the shape push_env expects for a value entering the
// environment for the first time.
func NewValue(s Seq, initialFetchWidth int) *store.Value {
	return store.NewValue(s, 0, store.NewFetchCell(initialFetchWidth))
}

package ant

import (
	"github.com/antlang/ant/internal/ant/seq"
	"github.com/antlang/ant/internal/ant/word"
)

// FromInt encodes an integer as a single int-tagged word (spec section 6).
func FromInt(n int64) Seq {
	return seq.Singleton(word.NewInt(n))
}

// FromConstructor encodes a constructor word. ctag must already be
// registered via SetConstructorDegree.
func FromConstructor(ctag int) (Seq, error) {
	w, err := word.NewConstructor(ctag)
	if err != nil {
		return Seq{}, &AntError{Code: ErrUnknownWordTag, Message: "unregistered constructor tag", Cause: err}
	}
	return seq.Singleton(w), nil
}

// Appends left-folds a list of sequences into one.
func Appends(parts []Seq) Seq {
	result := seq.Empty()
	for _, p := range parts {
		result = seq.Append(result, p)
	}
	return result
}

// Splits is the inverse of Appends for a fully-materialized (no
// Reference) sequence: it repeatedly peels off exactly one logical value
// at a time via pop_n(s, 1), since a value's internal words sum to
// degree 1 by construction (invariant I3).
func Splits(s Seq) ([]Seq, error) {
	var out []Seq
	for !s.IsEmpty() {
		m := seq.MeasureOf(s)
		if m.Full == nil {
			return nil, &AntError{Code: ErrDegreeMismatch, Message: "splits: sequence contains an unresolved reference"}
		}
		prefix, rest := seq.PopN(s, 1)
		if seq.MeasureOf(prefix).Degree != 1 {
			return nil, &AntError{Code: ErrDegreeMismatch, Message: "splits: pop_n(s, 1) did not yield a unit-degree value"}
		}
		out = append(out, prefix)
		s = rest
	}
	return out, nil
}

// ToInt expects s to be a single int-tagged word and returns its value.
func ToInt(s Seq) (int64, error) {
	e, rest, ok := seq.Front(s)
	if !ok || !rest.IsEmpty() {
		return 0, &AntError{Code: ErrDegreeMismatch, Message: "to_int: expected exactly one word"}
	}
	w, ok := e.(word.Word)
	if !ok || w.Tag != word.Int {
		return 0, &AntError{Code: ErrUnknownWordTag, Message: "to_int: expected an int-tagged word"}
	}
	return int64(w.Value.Uint64()), nil
}

// PopValue splits off exactly one logical value from the front of s,
// returning it and the remainder. Unlike ListMatch (which only peels a
// single word), PopValue follows degree arithmetic through an entire
// constructor application, so it can split a cons cell's argument list
// into its head value and tail value.
func PopValue(s Seq) (Seq, Seq) {
	return seq.PopN(s, 1)
}

// ListMatch splits the head word off s and returns it with the tail, or
// ok=false on an empty sequence.
func ListMatch(s Seq) (Word, Seq, bool) {
	e, rest, ok := seq.Front(s)
	if !ok {
		return Word{}, Seq{}, false
	}
	w, ok := e.(word.Word)
	if !ok {
		return Word{}, Seq{}, false
	}
	return w, rest, true
}

// Package fetch implements component G: fetch_value, path compression and
// unshift, the algorithms that move fragments of a Value between
// adjacent recording depths (spec section 4.G).
package fetch

import (
	"fmt"

	"github.com/antlang/ant/internal/ant/anterr"
	"github.com/antlang/ant/internal/ant/memo"
	"github.com/antlang/ant/internal/ant/ref"
	"github.com/antlang/ant/internal/ant/seq"
	"github.com/antlang/ant/internal/ant/store"
)

// resolveSrc returns the raw Value a reference source names within rs: E i
// and K are addressed directly off the recorded state, S i off rs's own
// store. It performs no depth check and no compression -- FetchValue and
// resolveFragment are built from it directly; Resolve (below) is the
// higher-level operation a step function calls.
func resolveSrc(rs *memo.RecordState, src ref.Src) (*store.Value, error) {
	switch src.Kind {
	case ref.Env:
		if src.Index < 0 || src.Index >= len(rs.M.E) {
			return nil, fmt.Errorf("fetch: env slot %d out of range (len %d)", src.Index, len(rs.M.E))
		}
		return rs.M.E[src.Index], nil
	case ref.Kont:
		if rs.M.K == nil {
			return nil, fmt.Errorf("fetch: kontinuation slot is empty")
		}
		return rs.M.K, nil
	case ref.Store:
		return rs.S.Get(src.Index)
	default:
		return nil, fmt.Errorf("fetch: unknown reference kind %v", src.Kind)
	}
}

// Resolve implements resolve(rs, reference) (spec section 4.G, decided in
// section 12.1): a step function calls this when it needs the
// materialized sequence a reference stands for, not merely its degree. By
// invariant I2 a reference reaching a step function can only name a value
// still living at rs.M.D -- a same-level reference, produced by
// enter_new_memo/Need.progress.enter lifting a parent's E/K into fresh
// same-depth references -- so Resolve flushes that owning value with one
// more PathCompressValue pass and returns its now-direct prefix. A
// reference naming a value at any other depth violates I2; that is a
// structural bug in the code generator, not a recoverable outcome.
func Resolve(rs *memo.RecordState, r ref.Reference) seq.Seq {
	owner, err := resolveSrc(rs, r.Src)
	if err != nil {
		panic(fmt.Sprintf("fetch: dangling reference: %v", err))
	}
	if owner.Depth != rs.M.D {
		panic(&anterr.AntError{Code: anterr.ErrDepthMismatch, Message: fmt.Sprintf("resolve: reference names a value at depth %d, recording is at depth %d", owner.Depth, rs.M.D)})
	}
	PathCompressValue(rs, owner)
	_, afterOffset := seq.PopN(owner.Seq, r.Offset)
	wanted, _ := seq.PopN(afterOffset, r.Count)
	return wanted
}

// FetchValue moves a prefix of the value named by request.Src from depth
// rs.M.D to rs.M.D+1, per the six-step algorithm in spec section 4.G. It
// returns ok=false if the requested width cannot be satisfied by any
// fully-materialized prefix -- a recovered outcome, not an error.
func FetchValue(rs *memo.RecordState, request memo.FetchRequest) (memo.FetchResult, bool) {
	v, err := resolveSrc(rs, request.Src)
	if err != nil {
		panic(fmt.Sprintf("fetch: %v", err))
	}
	if v.Depth != rs.M.D {
		panic(&anterr.AntError{Code: anterr.ErrDepthMismatch, Message: fmt.Sprintf("fetch: value at depth %d, expected recording depth %d", v.Depth, rs.M.D)})
	}

	PathCompressValue(rs, v)

	x, y := seq.PopN(v.Seq, request.Offset)

	prefix, residue := seq.Split(func(m seq.Measure) bool {
		return m.Full != nil && m.Full.Length >= request.WordCount
	}, y)
	// Split leaves the pivot -- the element whose inclusion first meets
	// the requested word count -- at the head of residue; it belongs to
	// the fetched prefix.
	if pivot, rest, ok := seq.Front(residue); ok {
		prefix = seq.Snoc(prefix, pivot)
		residue = rest
	}

	length := 0
	if m := seq.MeasureOf(prefix); m.Full != nil {
		length = m.Full.Length
	}
	if !residue.IsEmpty() && length != request.WordCount {
		return memo.FetchResult{}, false
	}

	havePrefix := x.IsEmpty()
	haveSuffix := residue.IsEmpty()

	newSeq := seq.Empty()
	if !x.IsEmpty() {
		newSeq = seq.Append(newSeq, store.AddToStore(rs.S, rs.M.D, x, v.FetchLength))
	}
	newSeq = seq.Append(newSeq, prefix)
	if !residue.IsEmpty() {
		newSeq = seq.Append(newSeq, store.AddToStore(rs.S, rs.M.D, residue, v.FetchLength))
	}

	v.Seq = newSeq
	v.Depth = rs.M.D + 1
	v.CompressedSince = rs.F + 1
	rs.F++
	v.FetchLength.GrowExponentially()

	return memo.FetchResult{Fetched: prefix, HavePrefix: havePrefix, HaveSuffix: haveSuffix}, true
}

// PathCompressValue inlines every reference in v that still points at a
// value living at v's own depth, making v reference-free relative to that
// depth. It is idempotent per fetch epoch (P5): a value already marked
// compressed for the current fetch count rs.F is left untouched.
func PathCompressValue(rs *memo.RecordState, v *store.Value) {
	if v.CompressedSince == rs.F {
		return
	}
	v.Seq = compress(rs, v.Seq)
	v.CompressedSince = rs.F
}

// compress recursively inlines the first reference in s and everything
// after it, stopping as soon as a fully-materialized suffix remains.
func compress(rs *memo.RecordState, s seq.Seq) seq.Seq {
	left, right := seq.Split(func(m seq.Measure) bool { return m.Full == nil }, s)
	if right.IsEmpty() {
		return s
	}
	pivot, rest := seq.FrontExn(right)
	r, ok := pivot.(ref.Reference)
	if !ok {
		// measure.Full == nil but the pivot isn't a Reference: impossible
		// for a well-formed sequence (only References lack a hash).
		panic("fetch: path compression pivot is not a reference")
	}
	inlined := resolveFragment(rs, r)
	return seq.Append(left, seq.Append(compress(rs, inlined), compress(rs, rest)))
}

// resolveFragment substitutes a Reference for the words/references it
// stands for: skip offset values into the source, then keep Count of
// them, via two pop_n calls exactly as spec section 4.G prescribes.
func resolveFragment(rs *memo.RecordState, r ref.Reference) seq.Seq {
	source, err := resolveSrc(rs, r.Src)
	if err != nil {
		panic(fmt.Sprintf("fetch: dangling reference: %v", err))
	}
	_, afterOffset := seq.PopN(source.Seq, r.Offset)
	wanted, _ := seq.PopN(afterOffset, r.Count)
	return wanted
}

// UnshiftValue demotes v from depth d+1 back to depth d: any residual
// same-depth reference is inlined exactly as PathCompressValue does, then
// fetch_length is replaced with a fresh cell and compressed_since reset
// to 0 (spec section 4.G, unshift_*).
func UnshiftValue(rs *memo.RecordState, v *store.Value) {
	v.Seq = compress(rs, v.Seq)
	v.Depth--
	v.FetchLength = v.FetchLength.Fresh()
	v.CompressedSince = 0
}

// UnshiftAll rewrites a recorded inner state's E and K back into its
// parent depth; C is an opaque PC and passes through unchanged.
func UnshiftAll(rs *memo.RecordState) *memo.State {
	for _, v := range rs.M.E {
		UnshiftValue(rs, v)
	}
	if rs.M.K != nil {
		UnshiftValue(rs, rs.M.K)
	}
	return &memo.State{C: rs.M.C, E: rs.M.E, K: rs.M.K, D: rs.M.D - 1, Last: rs.M.Last}
}

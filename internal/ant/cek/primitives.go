package cek

import (
	"fmt"

	"github.com/antlang/ant/internal/ant/fetch"
	"github.com/antlang/ant/internal/ant/memo"
	"github.com/antlang/ant/internal/ant/ref"
	"github.com/antlang/ant/internal/ant/seq"
	"github.com/antlang/ant/internal/ant/store"
)

// The primitives below are the small shape-preserving updates on E/K the
// code generator's step table is built from (spec section 4.H). They
// never touch the memo trie directly; only ExecCEK's suspension-point
// integration does that.

// PushEnv appends a value to the environment. v must not already be owned
// by another slot (spec section 3, Value: "must never alias").
func PushEnv(s *memo.State, v *store.Value) *memo.State {
	v.Claim()
	s.E = append(s.E, v)
	return s
}

// PopEnv removes and returns the last environment value, releasing its
// claim so it may be pushed elsewhere without tripping the aliasing guard.
func PopEnv(s *memo.State) (*store.Value, *memo.State) {
	n := len(s.E)
	if n == 0 {
		panic("cek: PopEnv on an empty environment")
	}
	v := s.E[n-1]
	v.Release()
	s.E = s.E[:n-1]
	return v, s
}

// AssertEnvLength is a structural assertion (spec section 7.1): the
// generated step table encodes its own arity expectations, and a mismatch
// here indicates a code-generator bug, not a runtime condition to recover
// from.
func AssertEnvLength(s *memo.State, n int) {
	if len(s.E) != n {
		panic(fmt.Sprintf("cek: expected environment length %d, got %d", n, len(s.E)))
	}
}

// DropN discards the last n environment values, releasing each one's
// claim since no slot owns it any longer.
func DropN(s *memo.State, n int) *memo.State {
	if n > len(s.E) {
		panic(fmt.Sprintf("cek: DropN(%d) on environment of length %d", n, len(s.E)))
	}
	for _, v := range s.E[len(s.E)-n:] {
		v.Release()
	}
	s.E = s.E[:len(s.E)-n]
	return s
}

// EnvKeepLastN truncates the environment to its last n values, in order,
// releasing the discarded prefix's claims.
func EnvKeepLastN(s *memo.State, n int) *memo.State {
	if n > len(s.E) {
		panic(fmt.Sprintf("cek: EnvKeepLastN(%d) on environment of length %d", n, len(s.E)))
	}
	for _, v := range s.E[:len(s.E)-n] {
		v.Release()
	}
	s.E = append([]*store.Value(nil), s.E[len(s.E)-n:]...)
	return s
}

// RestoreEnv replaces the environment wholesale -- used when returning
// into a captured kontinuation frame restores the caller's bindings.
func RestoreEnv(s *memo.State, env []*store.Value) *memo.State {
	s.E = env
	return s
}

// GetNextCont pops the head element of the kontinuation value, returning
// the tag word that selects which return-handling step to dispatch to
// next, and the remaining kontinuation reinstalled on the state. If the
// head is a Reference rather than a Word -- the shape enter_new_memo's
// lift leaves K in, a single full-degree reference back to the parent --
// it is materialized first via resolve (spec section 4.G, section 12.1).
func GetNextCont(s *memo.State) (seq.Element, *memo.State) {
	if s.K == nil || s.K.Seq.IsEmpty() {
		panic("cek: GetNextCont on an empty kontinuation")
	}
	head, rest := seq.FrontExn(s.K.Seq)
	if r, ok := head.(ref.Reference); ok {
		if s.Last == nil {
			panic("cek: GetNextCont found an unresolved reference outside a recording")
		}
		materialized := fetch.Resolve(s.Last, r)
		head, rest = seq.FrontExn(materialized)
	}
	s.K = store.NewValue(rest, s.K.Depth, s.K.FetchLength)
	return head, s
}

// ReturnN pushes n values already sitting at the tail of the environment
// onto the kontinuation as a single concatenated fragment, for a step
// that is returning control with n results. The popped slots' claims are
// released since their content now lives in the merged kontinuation
// fragment rather than in an owning env slot. A newly created
// kontinuation's fetch cell starts at d's configured initial width and
// growth factor (spec section 9.3, Config.InitialFetchWidth/
// FetchGrowthFactor).
func ReturnN(d *Driver, s *memo.State, n int) *memo.State {
	if n > len(s.E) {
		panic(fmt.Sprintf("cek: ReturnN(%d) on environment of length %d", n, len(s.E)))
	}
	tail := s.E[len(s.E)-n:]
	s.E = s.E[:len(s.E)-n]
	merged := seq.Empty()
	for _, v := range tail {
		merged = seq.Append(merged, v.Seq)
		v.Release()
	}
	var kSeq seq.Seq
	depth := s.D
	fc := store.NewFetchCellWithGrowth(d.initialFetchWidth, d.fetchGrowthFactor)
	if s.K != nil {
		kSeq, depth, fc = s.K.Seq, s.K.Depth, s.K.FetchLength
	}
	s.K = store.NewValue(seq.Append(merged, kSeq), depth, fc)
	return s
}

// Package memo implements components E and F: the RecordState stack and
// the memo trie {Root, BlackHole, Need, Done} it is built from (spec
// sections 3 and 4.F). RecordState and MemoNode are defined in one
// package because Need.Progress closures close over *RecordState and
// RecordState.R points back at the node it is Evaluating -- the two
// types are mutually recursive in the original design and Go has no way
// to split that across packages without an interface detour that would
// only obscure the relationship.
package memo

import (
	"github.com/antlang/ant/internal/ant/anterr"
	"github.com/antlang/ant/internal/ant/ref"
	"github.com/antlang/ant/internal/ant/seq"
	"github.com/antlang/ant/internal/ant/store"
)

// State is the CEK machine's visible configuration (spec section 3,
// "State"). C is the opaque step index the code generator's table is
// keyed by; the concrete step function lives outside this package (see
// cek.StepFn). E and K are addressed value-by-value (E i, K) exactly
// as Reference.Src names them, so each slot carries its own depth,
// fetch_length cell and compressed_since watermark (invariant I3: every
// well-formed value's measure.degree == 1).
type State struct {
	C    int
	E    []*store.Value
	K    *store.Value
	D    int
	Last *RecordState
}

// ContextKind discriminates RecordState.R (spec section 3, RecordState).
type ContextKind uint8

const (
	Building ContextKind = iota
	Evaluating
	Reentrance
)

func (k ContextKind) String() string {
	switch k {
	case Building:
		return "Building"
	case Evaluating:
		return "Evaluating"
	case Reentrance:
		return "Reentrance"
	default:
		return "?"
	}
}

// Context is the record-mode tag plus, for Evaluating and Reentrance, the
// memo node it refers to.
type Context struct {
	Kind ContextKind
	Node *Node
}

// ProtocolEvent records one memo-protocol transition for test assertions
// and debug tracing (supplemented instrumentation, analogous to the
// teacher's CoProcessorCalls trace; purely additive, never consulted by
// the protocol itself).
type ProtocolEvent struct {
	Kind string // "skip", "enter", "need", "miss"
	PC   int
}

// RecordState is the per-recording-depth context: the state being
// recorded, its private store, its fetch counter, and its record-mode
// context (spec section 3).
type RecordState struct {
	M      *State
	S      *store.Store
	F      int
	R      Context
	Events []ProtocolEvent
}

// NewRecordState builds a fresh RecordState in Building mode with an
// empty store, as enter_new_memo does before any memo lookup succeeds.
func NewRecordState(m *State) *RecordState {
	return &RecordState{M: m, S: store.NewStore(), F: 0, R: Context{Kind: Building}}
}

// Trace appends a protocol event for this recording depth.
func (rs *RecordState) Trace(kind string, pc int) {
	rs.Events = append(rs.Events, ProtocolEvent{Kind: kind, PC: pc})
}

// FetchRequest names a prefix of a store/env/kont value to move one depth
// up (spec section 4.G). WordCount is fixed for the life of a Need node
// (invariant I5).
type FetchRequest struct {
	Src       ref.Src
	Offset    int
	WordCount int
}

// FetchResult is the outcome of a successful fetch_value: the fetched
// fragment plus whether it reaches either end of its source value. It is
// the exclusive key type into a Need node's lookup table.
type FetchResult struct {
	Fetched    seq.Seq
	HavePrefix bool
	HaveSuffix bool
}

// Key returns the map key FetchResult is looked up by: participates in
// equality by the fetched fragment's monoidal hash (spec section 4.G),
// not by its structure, since two structurally different but
// content-identical fragments must collide in the lookup.
func (fr FetchResult) Key() FetchResultKey {
	m := seq.MeasureOf(fr.Fetched)
	var h [32]byte
	if m.Full != nil {
		h = m.Full.Hash.Key()
	}
	return FetchResultKey{hash: h, havePrefix: fr.HavePrefix, haveSuffix: fr.HaveSuffix}
}

// FetchResultKey is the comparable (map-safe) projection of a FetchResult.
type FetchResultKey struct {
	hash       [32]byte
	havePrefix bool
	haveSuffix bool
}

// NodeKind discriminates a memo trie node's variant (spec section 3,
// "Memo node").
type NodeKind uint8

const (
	KindRoot NodeKind = iota
	KindBlackHole
	KindNeed
	KindDone
)

// Progress is the pair of frozen closures a Need node carries: enter
// descends one recording depth into the subcomputation, exit collapses
// it back (spec section 9, "Progress").
type Progress struct {
	Enter func(rs *RecordState) *State
	Exit  func(inner *RecordState, result *State) *State
}

// NeedData is the payload of a Need node.
type NeedData struct {
	Request  FetchRequest
	Lookup   map[FetchResultKey]*Node
	Progress Progress
}

// DoneData is the payload of a Done node: skip directly lifts a caller's
// RecordState across the memoized computation.
type DoneData struct {
	Skip func(rs *RecordState) *State
}

// Node is one slot of the PC-indexed memo trie. It starts as KindRoot and
// transitions monotonically to BlackHole, then to exactly one of
// Need/Done; it never transitions back.
type Node struct {
	Kind NodeKind
	Need *NeedData
	Done *DoneData
}

// NewRoot allocates a fresh, uninitialized trie slot.
func NewRoot() *Node { return &Node{Kind: KindRoot} }

// EnterBlackHole flips a Root node to BlackHole in place, as
// enter_new_memo does on first visit. Calling this on anything but a Root
// is a bug.
func (n *Node) EnterBlackHole() {
	if n.Kind != KindRoot {
		panic(&anterr.AntError{Code: anterr.ErrBlackHoleReentry, Message: "EnterBlackHole on a non-Root node"})
	}
	n.Kind = KindBlackHole
}

// ResolveToNeed fixes a BlackHole node to Need, installing an empty
// lookup table and the given request/progress.
func (n *Node) ResolveToNeed(request FetchRequest, progress Progress) {
	if n.Kind != KindBlackHole {
		panic(&anterr.AntError{Code: anterr.ErrBlackHoleReentry, Message: "ResolveToNeed on a non-BlackHole node"})
	}
	n.Kind = KindNeed
	n.Need = &NeedData{Request: request, Lookup: make(map[FetchResultKey]*Node), Progress: progress}
}

// ResolveToDone fixes a BlackHole node to Done with the given skip
// closure, as completion does when exec_done is reached.
func (n *Node) ResolveToDone(skip func(rs *RecordState) *State) {
	if n.Kind != KindBlackHole {
		panic(&anterr.AntError{Code: anterr.ErrBlackHoleReentry, Message: "ResolveToDone on a non-BlackHole node"})
	}
	n.Kind = KindDone
	n.Done = &DoneData{Skip: skip}
}

// Trie is the PC-indexed array of memo trie roots (spec section 4.F,
// "The memo is an array indexed by PC").
type Trie struct {
	slots []*Node
}

// NewTrie builds an empty trie; slots are created lazily by Slot.
func NewTrie() *Trie { return &Trie{} }

// Slot returns the root node for pc, allocating a fresh Root the first
// time pc is touched.
func (t *Trie) Slot(pc int) *Node {
	for len(t.slots) <= pc {
		t.slots = append(t.slots, nil)
	}
	if t.slots[pc] == nil {
		t.slots[pc] = NewRoot()
	}
	return t.slots[pc]
}

// Package cek implements component H: the exec_cek driver, its numbered-PC
// step table, the state-manipulation primitives step functions are built
// from, and the integration between the driver and components F/G at the
// two suspension points (spec sections 4.F and 4.H).
package cek

import (
	"fmt"

	"github.com/antlang/ant/internal/ant/anterr"
	"github.com/antlang/ant/internal/ant/antlog"
	"github.com/antlang/ant/internal/ant/fetch"
	"github.com/antlang/ant/internal/ant/memo"
	"github.com/antlang/ant/internal/ant/ref"
	"github.com/antlang/ant/internal/ant/seq"
	"github.com/antlang/ant/internal/ant/store"
)

// Done is the terminal sentinel step index; a state whose C equals Done
// ends exec_cek's loop.
const Done = -1

// StepFn is one entry of the code generator's numbered transition table.
// It receives the driver (for suspension-point integration) and the
// current state, and returns the next state.
type StepFn func(d *Driver, s *memo.State) *memo.State

// Driver owns the process-wide step table and memo trie and drives
// exec_cek. One Driver corresponds to one evaluator instance (spec
// section 9, "Global tables").
type Driver struct {
	steps     []StepFn
	trie      *memo.Trie
	frozen    bool
	maxCycles uint64

	initialFetchWidth int
	fetchGrowthFactor int
	memoEnabled       bool
	maxRecordingDepth int
}

// Limits bundles the resource/behavior knobs exec_cek consults beyond the
// step table itself (spec section 9.3, Config).
type Limits struct {
	// MaxCycles bounds exec_cek's step-table transitions; <= 0 disables
	// the runaway-loop guard.
	MaxCycles uint64

	// InitialFetchWidth seeds a newly created fetch_length cell (section
	// 4.G); values below 1 are clamped up to 1.
	InitialFetchWidth int

	// FetchGrowthFactor is the multiplier a fetch_length cell applies on
	// each GrowExponentially call; values below 2 are clamped up to 2.
	FetchGrowthFactor int

	// MemoEnabled toggles whether enter_new_memo consults the PC-indexed
	// trie at all; disabled, every visit allocates a throwaway node that
	// is never shared, so nothing is ever skipped (P7 compares step
	// counts between the two modes).
	MemoEnabled bool

	// MaxRecordingDepth bounds how many nested liftings exec_cek may
	// enter before aborting, guarding against a runaway lift/enter chain.
	// <= 0 disables the guard.
	MaxRecordingDepth int
}

// NewDriver builds an empty driver with default limits (initial fetch
// width 1, growth factor 2, memoization enabled, unbounded recording
// depth); step functions are registered with AddExp before the first
// ExecCEK call. maxCycles <= 0 disables the runaway-loop guard.
func NewDriver(maxCycles uint64) *Driver {
	return NewDriverWithLimits(Limits{MaxCycles: maxCycles, InitialFetchWidth: 1, FetchGrowthFactor: 2, MemoEnabled: true})
}

// NewDriverWithLimits builds an empty driver from an explicit set of
// limits, as pkg/ant.NewDriver does from a validated Config.
func NewDriverWithLimits(limits Limits) *Driver {
	if limits.InitialFetchWidth < 1 {
		limits.InitialFetchWidth = 1
	}
	if limits.FetchGrowthFactor < 2 {
		limits.FetchGrowthFactor = 2
	}
	return &Driver{
		trie:              memo.NewTrie(),
		maxCycles:         limits.MaxCycles,
		initialFetchWidth: limits.InitialFetchWidth,
		fetchGrowthFactor: limits.FetchGrowthFactor,
		memoEnabled:       limits.MemoEnabled,
		maxRecordingDepth: limits.MaxRecordingDepth,
	}
}

// AddExp appends a step function to the table and returns its PC. PCs are
// dense and assigned in registration order (spec section 6).
func (d *Driver) AddExp(fn StepFn) int {
	if d.frozen {
		panic("cek: AddExp called after the driver started executing")
	}
	d.steps = append(d.steps, fn)
	return len(d.steps) - 1
}

// ExecCEK runs the step table starting at pc with the given environment
// and kontinuation until a step returns the terminal sentinel, and
// returns the final state (spec section 4.H).
func (d *Driver) ExecCEK(pc int, env []*store.Value, k *store.Value) (result *memo.State) {
	d.frozen = true
	s := &memo.State{C: pc, E: env, K: k, D: 0}
	var cycles uint64
	for s.C != Done {
		if s.C < 0 || s.C >= len(d.steps) {
			panic(fmt.Sprintf("cek: pc %d out of range (table has %d entries)", s.C, len(d.steps)))
		}
		if d.maxCycles > 0 && cycles >= d.maxCycles {
			antlog.Error("cek: exceeded max cycles", d.maxCycles)
			panic(fmt.Sprintf("cek: exceeded configured max cycles (%d)", d.maxCycles))
		}
		s = d.steps[s.C](d, s)
		cycles++
	}
	return s
}

// ---- component F/G integration -------------------------------------

// EnterNewMemo is enter_new_memo: look up the trie slot for rs.M.C and
// drive the Root/BlackHole/Need/Done protocol (spec section 4.F).
// matched tells the Root case whether the caller wants to install a new
// memo entry at this PC (see SPEC_FULL.md open-question decision: a
// non-matching Root leaves rs.M unchanged).
func (d *Driver) EnterNewMemo(rs *memo.RecordState, matched bool) *memo.State {
	if !d.memoEnabled {
		return d.enterFreshNode(rs, matched)
	}
	return d.enterNode(rs, d.trie.Slot(rs.M.C), matched)
}

// enterFreshNode is enter_new_memo with Config.MemoEnabled false: it
// allocates a Root node outside the shared PC-indexed trie for every
// visit, so no visit can ever observe a Done node left by a previous one.
// This reproduces the Root/BlackHole half of the protocol (a step function
// still sees a freshly lifted state to record into) while disabling
// memoization entirely.
func (d *Driver) enterFreshNode(rs *memo.RecordState, matched bool) *memo.State {
	if !matched {
		return rs.M
	}
	node := memo.NewRoot()
	return d.enterNode(rs, node, matched)
}

func (d *Driver) enterNode(rs *memo.RecordState, node *memo.Node, matched bool) *memo.State {
	switch node.Kind {
	case memo.KindDone:
		rs.Trace("skip", rs.M.C)
		antlog.Debug("cek: memo skip at pc", rs.M.C)
		return node.Done.Skip(rs)
	case memo.KindRoot:
		if !matched {
			return rs.M
		}
		if d.maxRecordingDepth > 0 && rs.M.D+1 > d.maxRecordingDepth {
			panic(fmt.Sprintf("cek: exceeded configured max recording depth (%d)", d.maxRecordingDepth))
		}
		node.EnterBlackHole()
		rs.R = memo.Context{Kind: memo.Evaluating, Node: node}
		rs.Trace("enter", rs.M.C)
		lifted := liftState(rs.M, d.initialFetchWidth, d.fetchGrowthFactor)
		lifted.Last = rs
		return lifted
	case memo.KindBlackHole:
		panic(&anterr.AntError{Code: anterr.ErrBlackHoleReentry, Message: "reentrance into a memo node under construction"})
	case memo.KindNeed:
		fr, ok := fetch.FetchValue(rs, node.Need.Request)
		if ok {
			key := fr.Key()
			if child, found := node.Need.Lookup[key]; found {
				return d.enterNode(rs, child, true)
			}
			child := memo.NewRoot()
			child.EnterBlackHole()
			node.Need.Lookup[key] = child
			rs.R = memo.Context{Kind: memo.Evaluating, Node: child}
			rs.Trace("need", rs.M.C)
			return node.Need.Progress.Enter(rs)
		}
		rs.Trace("miss", rs.M.C)
		antlog.Warn("cek: fetch miss at pc", rs.M.C)
		if matched {
			rs.R = memo.Context{Kind: memo.Reentrance, Node: node}
			return node.Need.Progress.Enter(rs)
		}
		return rs.M
	default:
		panic("cek: unknown memo node kind")
	}
}

// liftState builds the depth+1 view of s where every E slot and K become
// single References back to the parent, per enter_new_memo's Root case.
// initialFetchWidth/fetchGrowthFactor seed each lifted value's fresh
// fetch_length cell (Config.InitialFetchWidth/FetchGrowthFactor, spec
// section 9.3).
func liftState(s *memo.State, initialFetchWidth, fetchGrowthFactor int) *memo.State {
	newE := make([]*store.Value, len(s.E))
	for i, v := range s.E {
		newE[i] = liftValue(ref.EnvSrc(i), v, initialFetchWidth, fetchGrowthFactor)
	}
	var newK *store.Value
	if s.K != nil {
		newK = liftValue(ref.KontSrc(), s.K, initialFetchWidth, fetchGrowthFactor)
	}
	return &memo.State{C: s.C, E: newE, K: newK, D: s.D + 1, Last: s.Last}
}

func liftValue(src ref.Src, v *store.Value, initialFetchWidth, fetchGrowthFactor int) *store.Value {
	r := ref.Reference{Src: src, Offset: 0, Count: v.Degree()}
	return store.NewValue(seq.Singleton(r), v.Depth+1, store.NewFetchCellWithGrowth(initialFetchWidth, fetchGrowthFactor))
}

// SuspendForFetch registers a Need on the RecordState's current
// Evaluating slot and attempts to satisfy it immediately, per spec
// section 4.F "Suspension on unfetched fragment". A successful fetch
// installs a fresh BlackHole child and re-enters it; failure exits the
// whole recording via unshift_all.
func (d *Driver) SuspendForFetch(rs *memo.RecordState, request memo.FetchRequest, progress memo.Progress) *memo.State {
	if rs.R.Kind != memo.Evaluating {
		panic("cek: SuspendForFetch outside an Evaluating record context")
	}
	node := rs.R.Node
	node.ResolveToNeed(request, progress)

	fr, ok := fetch.FetchValue(rs, request)
	if !ok {
		antlog.Warn("cek: suspension fetch miss, unwinding recording at depth", rs.M.D)
		rs.Trace("miss", rs.M.C)
		return fetch.UnshiftAll(rs)
	}
	child := memo.NewRoot()
	child.EnterBlackHole()
	node.Need.Lookup[fr.Key()] = child
	rs.R = memo.Context{Kind: memo.Evaluating, Node: child}
	rs.Trace("need", rs.M.C)
	return progress.Enter(rs)
}

// CompleteRecording freezes the current Evaluating slot to Done and
// collapses the recording into its parent, per spec section 4.F
// "Completion": result's E and K values are unshifted one depth down,
// their references resolved against rs.M (the pre-lift parent state they
// point into), and rs.M then becomes result. result is the fully computed
// state this recording produced; every future visit to this memo node --
// from any RecordState, lifted or not -- short-circuits straight to it.
func (d *Driver) CompleteRecording(rs *memo.RecordState, result *memo.State) *memo.State {
	if rs.R.Kind != memo.Evaluating {
		panic("cek: CompleteRecording outside an Evaluating record context")
	}
	node := rs.R.Node
	node.ResolveToDone(func(caller *memo.RecordState) *memo.State {
		return result
	})
	for _, v := range result.E {
		fetch.UnshiftValue(rs, v)
	}
	if result.K != nil {
		fetch.UnshiftValue(rs, result.K)
	}
	rs.M = result
	return &memo.State{C: result.C, E: result.E, K: result.K, D: result.D - 1, Last: result.Last}
}

package memo

import (
	"testing"

	"github.com/antlang/ant/internal/ant/ref"
	"github.com/antlang/ant/internal/ant/seq"
	"github.com/antlang/ant/internal/ant/store"
)

func freshState() *State {
	return &State{C: 0, E: []*store.Value{}, K: nil, D: 0}
}

// TestNewRecordStateStartsBuilding checks that a fresh recording always
// starts in Building mode with an empty store and a zero fetch count.
func TestNewRecordStateStartsBuilding(t *testing.T) {
	rs := NewRecordState(freshState())
	if rs.R.Kind != Building {
		t.Fatalf("R.Kind = %v, want Building", rs.R.Kind)
	}
	if rs.F != 0 {
		t.Fatalf("F = %d, want 0", rs.F)
	}
	if rs.S.Len() != 0 {
		t.Fatal("a fresh RecordState's store should be empty")
	}
}

// TestNodeLifecycleMonotonic checks the Root -> BlackHole -> {Need, Done}
// transition sequence and that each is a one-way door.
func TestNodeLifecycleMonotonic(t *testing.T) {
	n := NewRoot()
	if n.Kind != KindRoot {
		t.Fatal("NewRoot should start as KindRoot")
	}

	n.EnterBlackHole()
	if n.Kind != KindBlackHole {
		t.Fatal("EnterBlackHole should flip a Root node to BlackHole")
	}

	n.ResolveToDone(func(*RecordState) *State { return nil })
	if n.Kind != KindDone {
		t.Fatal("ResolveToDone should flip a BlackHole node to Done")
	}
	if n.Done == nil {
		t.Fatal("ResolveToDone should install DoneData")
	}
}

// TestEnterBlackHolePanicsOnNonRoot checks that the state machine rejects
// an out-of-order transition instead of silently corrupting the node.
func TestEnterBlackHolePanicsOnNonRoot(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected a panic entering BlackHole on a non-Root node")
		}
	}()
	n := NewRoot()
	n.EnterBlackHole()
	n.EnterBlackHole()
}

// TestResolveToNeedPanicsOnNonBlackHole mirrors the same guard for Need.
func TestResolveToNeedPanicsOnNonBlackHole(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected a panic resolving to Need from a non-BlackHole node")
		}
	}()
	n := NewRoot()
	n.ResolveToNeed(FetchRequest{}, Progress{})
}

// TestTrieLazyAllocation checks that Slot allocates fresh Root nodes on
// first touch and returns the same node on repeated access.
func TestTrieLazyAllocation(t *testing.T) {
	trie := NewTrie()
	a := trie.Slot(5)
	if a.Kind != KindRoot {
		t.Fatal("a freshly allocated slot should be KindRoot")
	}
	b := trie.Slot(5)
	if a != b {
		t.Fatal("Slot should return the same node for the same pc on repeated access")
	}
	c := trie.Slot(0)
	if c == a {
		t.Fatal("distinct pcs should get distinct nodes")
	}
}

// TestFetchResultKeyAgreesWithContent checks that two FetchResults with
// identical fetched content and flags produce the same lookup key, the
// property a Need node's child-lookup table relies on to recognize a
// repeated fetch outcome.
func TestFetchResultKeyAgreesWithContent(t *testing.T) {
	r := ref.Reference{Src: ref.StoreSrc(0), Offset: 0, Count: 1}
	fetched := seq.Singleton(r)

	a := FetchResult{Fetched: fetched, HavePrefix: true, HaveSuffix: false}
	b := FetchResult{Fetched: fetched, HavePrefix: true, HaveSuffix: false}
	c := FetchResult{Fetched: fetched, HavePrefix: false, HaveSuffix: false}

	if a.Key() != b.Key() {
		t.Fatal("identical FetchResults produced different keys")
	}
	if a.Key() == c.Key() {
		t.Fatal("FetchResults differing only in HavePrefix should have different keys")
	}
}

// TestTraceAccumulatesEvents checks the supplemented protocol-event log
// used for S1-S3/S6 observability.
func TestTraceAccumulatesEvents(t *testing.T) {
	rs := NewRecordState(freshState())
	rs.Trace("enter", 3)
	rs.Trace("skip", 7)
	if len(rs.Events) != 2 {
		t.Fatalf("Events has %d entries, want 2", len(rs.Events))
	}
	if rs.Events[0].Kind != "enter" || rs.Events[0].PC != 3 {
		t.Fatalf("Events[0] = %+v, want {enter 3}", rs.Events[0])
	}
	if rs.Events[1].Kind != "skip" || rs.Events[1].PC != 7 {
		t.Fatalf("Events[1] = %+v, want {skip 7}", rs.Events[1])
	}
}

package store

import (
	"testing"

	"github.com/antlang/ant/internal/ant/anterr"
	"github.com/antlang/ant/internal/ant/ref"
	"github.com/antlang/ant/internal/ant/seq"
	"github.com/antlang/ant/internal/ant/word"
)

func unitSeq(n int64) seq.Seq { return seq.Singleton(word.NewInt(n)) }

// TestFetchCellGrowthIsExponential checks the width cell fetch_value
// doubles on every use (spec section 4.G, "fetch_length grows
// exponentially").
func TestFetchCellGrowthIsExponential(t *testing.T) {
	c := NewFetchCell(1)
	widths := []int{1}
	for i := 0; i < 4; i++ {
		c.GrowExponentially()
		widths = append(widths, c.Width())
	}
	for i := 1; i < len(widths); i++ {
		if widths[i] != widths[i-1]*2 {
			t.Fatalf("width sequence %v is not doubling at index %d", widths, i)
		}
	}
}

// TestFetchCellFreshStartsFromCurrentWidth checks that Fresh seeds a new
// independent cell from the current width, used by unshift to reset the
// compression watermark without resetting the learned width.
func TestFetchCellFreshStartsFromCurrentWidth(t *testing.T) {
	c := NewFetchCell(4)
	c.GrowExponentially()
	fresh := c.Fresh()
	if fresh.Width() != c.Width() {
		t.Fatalf("Fresh().Width() = %d, want %d", fresh.Width(), c.Width())
	}
	fresh.GrowExponentially()
	if fresh.Width() == c.Width() {
		t.Fatal("Fresh cell should be independent of its origin after growth")
	}
}

// TestValueIsCompressed checks the CompressedSince watermark semantics
// PathCompressValue's idempotence relies on.
func TestValueIsCompressed(t *testing.T) {
	v := NewValue(unitSeq(1), 0, NewFetchCell(1))
	if v.IsCompressed(0) {
		t.Fatal("a freshly built value should not already be compressed at F=0")
	}
	v.CompressedSince = 3
	if !v.IsCompressed(3) {
		t.Fatal("IsCompressed should report true once CompressedSince matches the caller's F")
	}
	if v.IsCompressed(4) {
		t.Fatal("IsCompressed should report false for an F past the watermark")
	}
}

// TestValueDegree checks that Degree reflects the value's sequence
// measure, used by cek.liftValue to size the Reference replacing a
// lifted value.
func TestValueDegree(t *testing.T) {
	s := seq.Append(unitSeq(1), unitSeq(2))
	v := NewValue(s, 0, NewFetchCell(1))
	if v.Degree() != 2 {
		t.Fatalf("Degree() = %d, want 2", v.Degree())
	}
}

// TestStoreAppendAndGet checks the store is append-only and Get rejects
// out-of-range indices instead of panicking.
func TestStoreAppendAndGet(t *testing.T) {
	s := NewStore()
	v1 := NewValue(unitSeq(10), 0, NewFetchCell(1))
	v2 := NewValue(unitSeq(20), 0, NewFetchCell(1))

	i1 := s.Append(v1)
	i2 := s.Append(v2)
	if i1 != 0 || i2 != 1 {
		t.Fatalf("Append indices = %d, %d, want 0, 1", i1, i2)
	}
	if s.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", s.Len())
	}

	got, err := s.Get(0)
	if err != nil || got != v1 {
		t.Fatalf("Get(0) = %v, %v, want %v, nil", got, err, v1)
	}
	if _, err := s.Get(2); err == nil {
		t.Fatal("Get should error on an out-of-range index")
	}
}

// TestAddToStoreReturnsWholeReference checks that AddToStore wraps a
// fragment as a singleton sequence of one Reference spanning the
// fragment's entire degree, at the given depth.
func TestAddToStoreReturnsWholeReference(t *testing.T) {
	s := NewStore()
	fragment := seq.Append(unitSeq(1), unitSeq(2))

	result := AddToStore(s, 3, fragment, NewFetchCell(1))
	if result.Len() != 1 {
		t.Fatalf("AddToStore result has %d elements, want 1", result.Len())
	}
	e, _, ok := seq.Front(result)
	if !ok {
		t.Fatal("AddToStore result should be nonempty")
	}
	r, ok := e.(ref.Reference)
	if !ok {
		t.Fatalf("AddToStore result element is %T, want ref.Reference", e)
	}
	if r.Src.Kind != ref.Store || r.Src.Index != 0 {
		t.Fatalf("reference source = %+v, want Store index 0", r.Src)
	}
	if r.Offset != 0 || r.Count != 2 {
		t.Fatalf("reference = %+v, want Offset=0 Count=2", r)
	}

	stored, err := s.Get(0)
	if err != nil {
		t.Fatal(err)
	}
	if stored.Depth != 3 {
		t.Fatalf("stored value depth = %d, want 3", stored.Depth)
	}
	if stored.Seq.Len() != fragment.Len() {
		t.Fatal("stored value's sequence does not match the fragment passed in")
	}
}

// TestFetchCellGrowthUsesConfiguredFactor checks Config.FetchGrowthFactor
// wiring: a cell built with NewFetchCellWithGrowth doubles by the
// configured factor, not a hardcoded 2.
func TestFetchCellGrowthUsesConfiguredFactor(t *testing.T) {
	c := NewFetchCellWithGrowth(1, 3)
	c.GrowExponentially()
	if c.Width() != 3 {
		t.Fatalf("Width() = %d, want 3 (1 * growth factor 3)", c.Width())
	}
	c.GrowExponentially()
	if c.Width() != 9 {
		t.Fatalf("Width() = %d, want 9 (3 * growth factor 3)", c.Width())
	}
	fresh := c.Fresh()
	fresh.GrowExponentially()
	if fresh.Width() != 27 {
		t.Fatalf("Fresh().Width() after growth = %d, want 27 (Fresh preserves the growth factor)", fresh.Width())
	}
}

// TestFetchCellGrowthFactorClamped checks that a growth factor below 2 is
// clamped up, since a cell that never grows (or shrinks) would defeat the
// doubling discipline fetch_value relies on.
func TestFetchCellGrowthFactorClamped(t *testing.T) {
	c := NewFetchCellWithGrowth(1, 1)
	c.GrowExponentially()
	if c.Width() < 2 {
		t.Fatalf("Width() = %d, a growth factor of 1 should have been clamped above 1", c.Width())
	}
}

// TestValueClaimPanicsOnAliasing checks the section 3 "Values must never
// alias" invariant: claiming an already-claimed Value is a structural bug,
// reported as ErrValueAliased.
func TestValueClaimPanicsOnAliasing(t *testing.T) {
	v := NewValue(unitSeq(1), 0, NewFetchCell(1))
	v.Claim()

	defer func() {
		r := recover()
		antErr, ok := r.(*anterr.AntError)
		if !ok {
			t.Fatalf("expected a panic with *anterr.AntError, got %v", r)
		}
		if antErr.Code != anterr.ErrValueAliased {
			t.Fatalf("expected ErrValueAliased, got code %v", antErr.Code)
		}
	}()
	v.Claim()
}

// TestValueReleaseAllowsReclaim checks that Release un-claims a Value so
// it can be legitimately moved to another owning slot.
func TestValueReleaseAllowsReclaim(t *testing.T) {
	v := NewValue(unitSeq(1), 0, NewFetchCell(1))
	v.Claim()
	v.Release()
	v.Claim() // must not panic
}

// TestStoreAppendClaimsValue checks that Append claims its Value, so a
// Value already owned by an env slot cannot silently also be appended to
// the store.
func TestStoreAppendClaimsValue(t *testing.T) {
	s := NewStore()
	v := NewValue(unitSeq(1), 0, NewFetchCell(1))
	v.Claim()

	defer func() {
		if recover() == nil {
			t.Fatal("expected a panic appending an already-claimed value to the store")
		}
	}()
	s.Append(v)
}

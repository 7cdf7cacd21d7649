// Package store implements component D: Value, Store, and the
// add_to_store indirection that lets a fetched fragment of one machine be
// represented inside another (spec section 4.D).
package store

import (
	"fmt"

	"github.com/antlang/ant/internal/ant/anterr"
	"github.com/antlang/ant/internal/ant/ref"
	"github.com/antlang/ant/internal/ant/seq"
)

// FetchCell is the shared-mutable integer the spec calls fetch_length: a
// parent value and every fragment fetched out of it share one cell, so
// successive fetches from the same origin see an exponentially growing
// request width. It is a narrow type specifically so that sharing it is
// the only sharing allowed -- Values themselves must never alias.
type FetchCell struct {
	width        int
	growthFactor int
}

// NewFetchCell creates a cell starting at the given width, doubling on
// each GrowExponentially call.
func NewFetchCell(initial int) *FetchCell {
	return NewFetchCellWithGrowth(initial, 2)
}

// NewFetchCellWithGrowth creates a cell starting at the given width and
// growing by growthFactor on each GrowExponentially call (Config's
// InitialFetchWidth/FetchGrowthFactor, spec section 9.3).
func NewFetchCellWithGrowth(initial, growthFactor int) *FetchCell {
	if initial < 1 {
		initial = 1
	}
	if growthFactor < 2 {
		growthFactor = 2
	}
	return &FetchCell{width: initial, growthFactor: growthFactor}
}

func (c *FetchCell) Width() int { return c.width }

// GrowExponentially multiplies the remembered width by the cell's growth
// factor after a successful fetch from this cell's origin.
func (c *FetchCell) GrowExponentially() { c.width *= c.growthFactor }

// Fresh returns a new, independent cell seeded at this cell's current
// width and growth factor -- used by unshift_value, which must not keep
// sharing the old cell once a value changes depth (spec section 4.G,
// unshift_*).
func (c *FetchCell) Fresh() *FetchCell { return NewFetchCellWithGrowth(c.width, c.growthFactor) }

// Value is a single occurrence of a sequence fragment at a given
// recording depth. Values must never alias: even when two Values happen
// to hold structurally identical sequences, each occurrence owns its own
// FetchCell and CompressedSince watermark.
type Value struct {
	Seq             seq.Seq
	Depth           int
	FetchLength     *FetchCell
	CompressedSince int

	claimed bool
}

// NewValue builds a fresh, uncompressed value at the given depth. Its
// CompressedSince is -1, which matches no fetch count, so the first
// PathCompressValue call always processes it.
func NewValue(s seq.Seq, depth int, fetchLength *FetchCell) *Value {
	return &Value{Seq: s, Depth: depth, FetchLength: fetchLength, CompressedSince: -1}
}

// Claim marks v as owned by exactly one slot (an E entry, a store slot, or
// K). Calling Claim on a Value that is already claimed means two owning
// slots are sharing one Value -- the aliasing invariant in section 3's
// Value definition forbids this and it is a structural bug, not a
// recoverable condition.
func (v *Value) Claim() {
	if v.claimed {
		panic(&anterr.AntError{Code: anterr.ErrValueAliased, Message: "value already owned by another slot"})
	}
	v.claimed = true
}

// Release marks v as no longer owned by any slot, as happens when it is
// popped off the environment or otherwise detached. A released Value may
// be claimed again (by being pushed back), since it is once more singly
// owned.
func (v *Value) Release() { v.claimed = false }

// IsCompressed reports whether v is known compressed at its depth, given
// the owning RecordState's current fetch count (invariant I4).
func (v *Value) IsCompressed(parentFetchCount int) bool {
	return v.CompressedSince == parentFetchCount
}

// Degree is the number of logical values v's sequence denotes. A
// well-formed value has Degree() == 1 (invariant I3); it is exposed here
// because liftValue needs it to size the Reference that stands for v.
func (v *Value) Degree() int {
	return seq.MeasureOf(v.Seq).Degree
}

// Store is the per-recording dynamic array of Values addressable by
// reference source S i (spec section 3, RecordState.s). It is
// append-only for the life of one recording scope, mirroring
// VMState.RAM's write-then-read discipline in the teacher but indexed
// densely by slot rather than by field-element address.
type Store struct {
	values []*Value
}

func NewStore() *Store { return &Store{} }

func (s *Store) Len() int { return len(s.values) }

// Get returns the value at store slot i.
func (s *Store) Get(i int) (*Value, error) {
	if i < 0 || i >= len(s.values) {
		return nil, fmt.Errorf("store: slot %d out of range (len %d)", i, len(s.values))
	}
	return s.values[i], nil
}

// Append adds v to the store and returns its slot index. The store slot
// becomes a permanent owner of v: store values are never popped, so the
// claim is never released.
func (s *Store) Append(v *Value) int {
	v.Claim()
	s.values = append(s.values, v)
	return len(s.values) - 1
}

// AddToStore appends a new value holding fragment (depth = depth, not yet
// compressed, as NewValue builds it) and returns a one-element sequence containing a
// Reference to the whole of that new value, per spec section 4.D.
// fetchLength is shared with the fragment's origin so the doubling
// counter carries over.
func AddToStore(s *Store, depth int, fragment seq.Seq, fetchLength *FetchCell) seq.Seq {
	v := NewValue(fragment, depth, fetchLength)
	idx := s.Append(v)
	whole := seq.MeasureOf(fragment).Degree
	r := ref.Reference{Src: ref.StoreSrc(idx), Offset: 0, Count: whole}
	return seq.Singleton(r)
}

package word

import "testing"

func resetDegrees(t *testing.T) {
	t.Cleanup(ResetForTesting)
	ResetForTesting()
}

// TestIntWordDegree checks that an Int word always contributes exactly 1
// to a sequence's degree measure (invariant I3's base case).
func TestIntWordDegree(t *testing.T) {
	w := NewInt(7)
	if w.Degree() != 1 {
		t.Fatalf("Int word degree = %d, want 1", w.Degree())
	}
	if err := w.Validate(); err != nil {
		t.Fatalf("Int word should always validate: %v", err)
	}
}

// TestConstructorDegreeAscendingOrder checks R2: tags must be registered
// in ascending order starting at 0.
func TestConstructorDegreeAscendingOrder(t *testing.T) {
	resetDegrees(t)

	if err := SetConstructorDegree(0, 1); err != nil {
		t.Fatalf("registering tag 0: %v", err)
	}
	if err := SetConstructorDegree(2, 1); err == nil {
		t.Fatal("expected an error registering tag 2 before tag 1")
	}
	if err := SetConstructorDegree(1, -1); err != nil {
		t.Fatalf("registering tag 1: %v", err)
	}
}

// TestFreezeRejectsFurtherRegistration checks that Freeze is a one-way
// door, per the design note that global tables are initialization-phase
// only.
func TestFreezeRejectsFurtherRegistration(t *testing.T) {
	resetDegrees(t)

	if err := SetConstructorDegree(0, 1); err != nil {
		t.Fatalf("registering tag 0: %v", err)
	}
	Freeze()
	if err := SetConstructorDegree(1, 1); err == nil {
		t.Fatal("expected SetConstructorDegree to fail after Freeze")
	}
}

// TestConstructorWordDegreeMatchesTable checks that a Constructor word's
// Degree() reflects whatever was registered for its tag, including a
// negative arity degree.
func TestConstructorWordDegreeMatchesTable(t *testing.T) {
	resetDegrees(t)

	if err := SetConstructorDegree(0, 1); err != nil {
		t.Fatal(err)
	}
	if err := SetConstructorDegree(1, -1); err != nil {
		t.Fatal(err)
	}

	nilWord, err := NewConstructor(0)
	if err != nil {
		t.Fatal(err)
	}
	if got := nilWord.Degree(); got != 1 {
		t.Fatalf("nil constructor degree = %d, want 1", got)
	}

	consWord, err := NewConstructor(1)
	if err != nil {
		t.Fatal(err)
	}
	if got := consWord.Degree(); got != -1 {
		t.Fatalf("cons constructor degree = %d, want -1", got)
	}
}

// TestUnregisteredConstructorErrors checks that NewConstructor and
// Validate both reject an unregistered tag instead of panicking.
func TestUnregisteredConstructorErrors(t *testing.T) {
	resetDegrees(t)

	if _, err := NewConstructor(0); err == nil {
		t.Fatal("expected an error constructing a word for an unregistered tag")
	}

	w := Word{Tag: Constructor, Value: NewInt(0).Value}
	if err := w.Validate(); err == nil {
		t.Fatal("expected Validate to reject an unregistered constructor tag")
	}
}

// TestHashDeterministic checks that two structurally identical words hash
// to the same SL2 digest, since the hash feeds the sequence measure's
// monoid.
func TestHashDeterministic(t *testing.T) {
	a := NewInt(123)
	b := NewInt(123)

	da, ok := a.Hash()
	if !ok {
		t.Fatal("Word.Hash() should always report ok=true")
	}
	db, _ := b.Hash()
	if !da.Equal(db) {
		t.Fatal("identical words hashed to different digests")
	}

	c := NewInt(124)
	dc, _ := c.Hash()
	if da.Equal(dc) {
		t.Fatal("distinct words hashed to the same digest")
	}
}

// Package word implements component A: the tagged machine word, and the
// process-wide constructor degree table external collaborators populate
// via set_constructor_degree before any exec_cek call (spec section 6).
package word

import (
	"fmt"

	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"

	"github.com/antlang/ant/internal/ant/hashmat"
)

// Tag discriminates a Word's payload.
type Tag uint8

const (
	Int Tag = iota
	Constructor
)

func (t Tag) String() string {
	if t == Int {
		return "int"
	}
	return "constructor"
}

// Word is a fixed-width tagged machine scalar. An Int word's Value is the
// integer itself; a Constructor word's Value is the constructor tag (an
// index into the degree table), converted with Uint64.
type Word struct {
	Tag   Tag
	Value field.Element
}

// NewInt builds an integer word.
func NewInt(n int64) Word {
	return Word{Tag: Int, Value: field.New(uint64(n))}
}

// NewConstructor builds a constructor word for the given constructor tag.
// The tag must already be registered via SetConstructorDegree.
func NewConstructor(ctag int) (Word, error) {
	if _, err := DegreeOf(ctag); err != nil {
		return Word{}, err
	}
	return Word{Tag: Constructor, Value: field.New(uint64(ctag))}, nil
}

// Ctag returns the constructor tag carried by a Constructor word.
func (w Word) Ctag() int {
	return int(w.Value.Uint64())
}

// Degree returns the word's contribution to a sequence's degree measure:
// +1 for an Int word (it denotes one logical value), or the registered
// degree of a Constructor word's tag.
func (w Word) Degree() int {
	switch w.Tag {
	case Int:
		return 1
	case Constructor:
		d, err := DegreeOf(w.Ctag())
		if err != nil {
			// Unknown word tag / unregistered constructor: fatal per
			// spec section 7.3, the caller is expected to have checked
			// via Validate before this is ever reached in a running
			// machine.
			panic(fmt.Sprintf("word: constructor %d has no registered degree: %v", w.Ctag(), err))
		}
		return d
	default:
		panic(fmt.Sprintf("word: unknown tag %d", w.Tag))
	}
}

// HashTag and HashValue satisfy hashmat.WordHashable.
func (w Word) HashTag() uint64          { return uint64(w.Tag) }
func (w Word) HashValue() field.Element { return w.Value }

// Hash satisfies seq.Element: every Word contributes an SL2 digest.
func (w Word) Hash() (hashmat.Digest, bool) { return hashmat.FromWord(w), true }

// Validate reports an error instead of panicking; step functions that
// consume externally-produced words should call this at trust boundaries.
func (w Word) Validate() error {
	switch w.Tag {
	case Int:
		return nil
	case Constructor:
		_, err := DegreeOf(w.Ctag())
		return err
	default:
		return fmt.Errorf("word: unknown tag %d", w.Tag)
	}
}

// degree table: process-wide, append-only, populated in ascending tag
// order by the code generator before any machine runs (spec section 6,
// design note "Global tables").
var (
	degreeTable []int
	frozen      bool
)

// SetConstructorDegree registers the degree of the next constructor tag.
// ctag must equal the number of tags already registered (ascending-order
// precondition, R2). Degree is 1-arity for a sequence of shape
// [Word ctor; arg0_seq; ...; arg_{arity-1}_seq].
func SetConstructorDegree(ctag int, degree int) error {
	if frozen {
		return fmt.Errorf("word: constructor degree table frozen after first execution")
	}
	if ctag != len(degreeTable) {
		return fmt.Errorf("word: constructor tags must be registered in ascending order: got %d, expected %d", ctag, len(degreeTable))
	}
	degreeTable = append(degreeTable, degree)
	return nil
}

// DegreeOf returns the registered degree for a constructor tag.
func DegreeOf(ctag int) (int, error) {
	if ctag < 0 || ctag >= len(degreeTable) {
		return 0, fmt.Errorf("word: constructor tag %d not registered", ctag)
	}
	return degreeTable[ctag], nil
}

// Freeze rejects further SetConstructorDegree calls. The CEK driver calls
// this before the first exec_cek, per the design note that global tables
// should be treated as initialization-phase data.
func Freeze() { frozen = true }

// ResetForTesting clears the degree table and unfreezes it. Exists only so
// package tests can run independently of each other's registrations; not
// part of the production API surface any real program would call.
func ResetForTesting() {
	degreeTable = nil
	frozen = false
}

package legbook

import (
	"errors"
	"fmt"

	"github.com/XavierBriggs/fortuna/services/parlay-builder/pkg/models"
	"github.com/google/uuid"
)

// initialLegs is how many empty legs a fresh form shows
const initialLegs = 2

// ErrLastLeg is returned when removing the only remaining leg
var ErrLastLeg = errors.New("cannot remove the last leg")

// Book is the ordered collection of legs the user is editing.
// It always holds at least one leg. Not safe for concurrent use; each
// session owns its own Book.
type Book struct {
	legs []models.LegInput
}

// New creates a book with the form's starting legs
func New() *Book {
	b := &Book{}
	b.Reset()
	return b
}

// FromLegs creates a book holding copies of legs, assigning ids where missing.
// An empty slice yields a single empty leg.
func FromLegs(legs []models.LegInput) *Book {
	b := &Book{legs: make([]models.LegInput, 0, len(legs))}
	for _, leg := range legs {
		if leg.ID == "" {
			leg.ID = newID()
		}
		b.legs = append(b.legs, leg)
	}
	if len(b.legs) == 0 {
		b.legs = append(b.legs, emptyLeg())
	}
	return b
}

// Add appends an empty leg and returns its id
func (b *Book) Add() string {
	leg := emptyLeg()
	b.legs = append(b.legs, leg)
	return leg.ID
}

// Update replaces the fields of the leg with the given id, keeping the id
func (b *Book) Update(id string, leg models.LegInput) error {
	i := b.index(id)
	if i < 0 {
		return fmt.Errorf("leg %s not found", id)
	}

	leg.ID = id
	b.legs[i] = leg
	return nil
}

// Remove deletes the leg with the given id. The last leg cannot be removed.
func (b *Book) Remove(id string) error {
	i := b.index(id)
	if i < 0 {
		return fmt.Errorf("leg %s not found", id)
	}
	if len(b.legs) == 1 {
		return ErrLastLeg
	}

	b.legs = append(b.legs[:i], b.legs[i+1:]...)
	return nil
}

// ClearLegs replaces every leg with a single empty one
func (b *Book) ClearLegs() {
	b.legs = []models.LegInput{emptyLeg()}
}

// Reset restores the starting legs
func (b *Book) Reset() {
	b.legs = make([]models.LegInput, 0, initialLegs)
	for i := 0; i < initialLegs; i++ {
		b.legs = append(b.legs, emptyLeg())
	}
}

// Len returns the number of legs
func (b *Book) Len() int {
	return len(b.legs)
}

// Legs returns a copy of the legs in order
func (b *Book) Legs() []models.LegInput {
	out := make([]models.LegInput, len(b.legs))
	copy(out, b.legs)
	return out
}

// Snapshot builds an immutable request from the legs and the given settings
func (b *Book) Snapshot(settings models.EvaluateRequest) models.EvaluateRequest {
	req := settings
	req.Legs = b.Legs()
	return req
}

func (b *Book) index(id string) int {
	for i, leg := range b.legs {
		if leg.ID == id {
			return i
		}
	}
	return -1
}

func emptyLeg() models.LegInput {
	return models.LegInput{ID: newID()}
}

func newID() string {
	return uuid.New().String()
}

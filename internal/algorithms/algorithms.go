// Package algorithms holds the CFOP algorithm catalog, practice
// flashcards, and learning progress.
package algorithms

import (
	"errors"
	"fmt"
	"strings"

	"github.com/SeamusWaldron/cubetrainer"
)

// Step is a CFOP solving stage.
type Step string

const (
	StepCross Step = "cross"
	StepF2L   Step = "f2l"
	StepOLL   Step = "oll"
	StepPLL   Step = "pll"
)

// Steps lists the stages in solving order.
var Steps = []Step{StepCross, StepF2L, StepOLL, StepPLL}

// ErrUnknownStep is returned when a step name is not one of Steps.
var ErrUnknownStep = errors.New("algorithms: unknown step")

// ErrUnknownAlgorithm is returned when an algorithm ID is not in the catalog.
var ErrUnknownAlgorithm = errors.New("algorithms: unknown algorithm")

// ParseStep parses a step name case-insensitively.
func ParseStep(s string) (Step, error) {
	step := Step(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Steps {
		if step == known {
			return step, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStep, s)
}

// DisplayName returns the upper-case label used in headings.
func (s Step) DisplayName() string {
	return strings.ToUpper(string(s))
}

// Algorithm is one catalog entry. Notation is free-form: it may contain
// rotations and slice moves that scrambles never use.
type Algorithm struct {
	ID         string `json:"id"`
	Step       Step   `json:"step"`
	Name       string `json:"name"`
	Notation   string `json:"notation"`
	Difficulty int    `json:"difficulty"` // 1-5
	Level      string `json:"level"`
}

// Stars renders the difficulty as a row of stars.
func (a Algorithm) Stars() string {
	return strings.Repeat("★", a.Difficulty) + strings.Repeat("☆", max(0, 5-a.Difficulty))
}

// Setup returns the sequence that sets up the case from a solved cube: the
// algorithm inverted. The boolean is false when the notation uses moves
// other than outer face turns, such as rotations, slices or wide turns.
func (a Algorithm) Setup() (string, bool) {
	moves, err := cubetrainer.ParseMoves(a.Notation)
	if err != nil || len(moves) == 0 {
		return "", false
	}
	return cubetrainer.FormatMoves(cubetrainer.Invert(moves)), true
}

// Catalog is an ordered set of algorithms.
type Catalog struct {
	algs []Algorithm
	byID map[string]int
}

// NewCatalog builds a catalog. Later duplicates of an ID are dropped.
func NewCatalog(algs []Algorithm) *Catalog {
	c := &Catalog{byID: make(map[string]int, len(algs))}
	for _, a := range algs {
		if _, dup := c.byID[a.ID]; dup {
			continue
		}
		c.byID[a.ID] = len(c.algs)
		c.algs = append(c.algs, a)
	}
	return c
}

// All returns every algorithm in catalog order.
func (c *Catalog) All() []Algorithm {
	return append([]Algorithm(nil), c.algs...)
}

// ByStep returns the algorithms for one step in catalog order.
func (c *Catalog) ByStep(step Step) []Algorithm {
	var out []Algorithm
	for _, a := range c.algs {
		if a.Step == step {
			out = append(out, a)
		}
	}
	return out
}

// Get looks up an algorithm by ID.
func (c *Catalog) Get(id string) (Algorithm, error) {
	i, ok := c.byID[id]
	if !ok {
		return Algorithm{}, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, id)
	}
	return c.algs[i], nil
}

// Len returns the number of algorithms.
func (c *Catalog) Len() int {
	return len(c.algs)
}

package cubetrainer

import (
	"math/rand/v2"
	"time"
)

// DefaultScrambleLength is the WCA-style 3x3 scramble length.
const DefaultScrambleLength = 20

// Scramble is an ordered sequence of moves in which no two adjacent moves
// turn the same face.
type Scramble []Move

// String renders the scramble as space-joined tokens, e.g. "R2 F' U".
func (s Scramble) String() string {
	return FormatMoves(s)
}

// Len returns the number of moves in the scramble.
func (s Scramble) Len() int {
	return len(s)
}

// Valid reports whether no two adjacent moves share a face.
func (s Scramble) Valid() bool {
	for i := 1; i < len(s); i++ {
		if s[i].Face == s[i-1].Face {
			return false
		}
	}
	return true
}

// ParseScramble parses a scramble string. On top of ParseMoves it rejects
// adjacent repeats of a face.
func ParseScramble(text string) (Scramble, error) {
	moves, err := ParseMoves(text)
	if err != nil {
		return nil, err
	}
	s := Scramble(moves)
	if !s.Valid() {
		return nil, ErrInvalidScramble
	}
	return s, nil
}

// Generator produces random scrambles. A Generator is not safe for
// concurrent use.
type Generator struct {
	rng *rand.Rand
}

// NewGenerator creates a generator drawing from src. A nil src seeds from
// the current time.
func NewGenerator(src rand.Source) *Generator {
	if src == nil {
		now := uint64(time.Now().UnixNano())
		src = rand.NewPCG(now, now>>17|1)
	}
	return &Generator{rng: rand.New(src)}
}

// Generate returns a scramble of the given length. Faces are drawn
// uniformly and redrawn while equal to the previous face; modifiers are
// drawn independently. A non-positive length falls back to
// DefaultScrambleLength.
func (g *Generator) Generate(length int) Scramble {
	if length <= 0 {
		length = DefaultScrambleLength
	}

	s := make(Scramble, 0, length)
	for i := 0; i < length; i++ {
		face := Faces[g.rng.IntN(len(Faces))]
		for i > 0 && face == s[i-1].Face {
			face = Faces[g.rng.IntN(len(Faces))]
		}
		turn := Turns[g.rng.IntN(len(Turns))]
		s = append(s, Move{Face: face, Turn: turn})
	}
	return s
}

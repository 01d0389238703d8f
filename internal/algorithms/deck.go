package algorithms

// Deck is a set of flashcards for practicing one step. The notation of the
// current card stays hidden until Reveal is called.
type Deck struct {
	step     Step
	cards    []Algorithm
	pos      int
	revealed bool
}

// NewDeck creates a deck of the step's algorithms in catalog order.
func NewDeck(c *Catalog, step Step) *Deck {
	return &Deck{step: step, cards: c.ByStep(step)}
}

// Step returns the step this deck practices.
func (d *Deck) Step() Step {
	return d.step
}

// Len returns the number of cards.
func (d *Deck) Len() int {
	return len(d.cards)
}

// Position returns the zero-based index of the current card.
func (d *Deck) Position() int {
	return d.pos
}

// Current returns the current card. The boolean is false for an empty deck.
func (d *Deck) Current() (Algorithm, bool) {
	if len(d.cards) == 0 {
		return Algorithm{}, false
	}
	return d.cards[d.pos], true
}

// Reveal shows the notation of the current card.
func (d *Deck) Reveal() {
	d.revealed = true
}

// Revealed reports whether the current card's notation is shown.
func (d *Deck) Revealed() bool {
	return d.revealed
}

// Next advances to the next card, wrapping around, and hides it.
func (d *Deck) Next() {
	if len(d.cards) == 0 {
		return
	}
	d.pos = (d.pos + 1) % len(d.cards)
	d.revealed = false
}

// Prev moves to the previous card, wrapping around, and hides it.
func (d *Deck) Prev() {
	if len(d.cards) == 0 {
		return
	}
	d.pos = (d.pos - 1 + len(d.cards)) % len(d.cards)
	d.revealed = false
}

// Seek moves to the card with the given ID. It reports false if the deck
// has no such card.
func (d *Deck) Seek(id string) bool {
	for i, a := range d.cards {
		if a.ID == id {
			d.pos = i
			d.revealed = false
			return true
		}
	}
	return false
}

package blackjack

import "math/rand"

// DefaultDecks is the number of decks a new shoe shuffles together.
const DefaultDecks = 6

// reshuffleThreshold is the card count below which the shoe reshuffles
// before dealing another round.
const reshuffleThreshold = 52

// Shoe is a multi-deck dealing shoe. It is not safe for concurrent use;
// callers serialize access.
type Shoe struct {
	rng   *rand.Rand
	decks int
	cards []Card
}

// NewShoe builds a freshly shuffled shoe of the given deck count.
func NewShoe(decks int, rng *rand.Rand) *Shoe {
	if decks < 1 {
		decks = DefaultDecks
	}
	s := &Shoe{rng: rng, decks: decks}
	s.shuffle()
	return s
}

func (s *Shoe) shuffle() {
	s.cards = s.cards[:0]
	for d := 0; d < s.decks; d++ {
		for suit := SuitClubs; suit <= SuitSpades; suit++ {
			for rank := RankAce; rank <= RankKing; rank++ {
				s.cards = append(s.cards, Card{Rank: rank, Suit: suit})
			}
		}
	}
	s.rng.Shuffle(len(s.cards), func(i, j int) {
		s.cards[i], s.cards[j] = s.cards[j], s.cards[i]
	})
}

// Remaining reports how many cards are left before a reshuffle.
func (s *Shoe) Remaining() int {
	return len(s.cards)
}

// PrepareDeal reshuffles the whole shoe when too few cards remain to deal
// a round without running dry mid-hand.
func (s *Shoe) PrepareDeal() {
	if len(s.cards) < reshuffleThreshold {
		s.shuffle()
	}
}

// Draw deals the next card. An empty shoe reshuffles first, so Draw never
// fails.
func (s *Shoe) Draw() Card {
	if len(s.cards) == 0 {
		s.shuffle()
	}
	c := s.cards[len(s.cards)-1]
	s.cards = s.cards[:len(s.cards)-1]
	return c
}

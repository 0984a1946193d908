// Package blackjack implements the card-round engine: a multi-deck shoe,
// hand valuation with soft aces, player actions including splits, doubles,
// surrender and insurance, and dealer play to house rules. The engine
// moves no money; it reports per-hand results and callers settle them.
package blackjack

// Suit is one of the four card suits.
type Suit int

const (
	// SuitUnspecified represents an invalid suit value.
	SuitUnspecified Suit = iota
	// SuitClubs is ♣.
	SuitClubs
	// SuitDiamonds is ♦.
	SuitDiamonds
	// SuitHearts is ♥.
	SuitHearts
	// SuitSpades is ♠.
	SuitSpades
)

func (s Suit) String() string {
	switch s {
	case SuitClubs:
		return "♣"
	case SuitDiamonds:
		return "♦"
	case SuitHearts:
		return "♥"
	case SuitSpades:
		return "♠"
	default:
		return "?"
	}
}

// Rank is a card rank, ace through king.
type Rank int

const (
	// RankUnspecified represents an invalid rank value.
	RankUnspecified Rank = iota
	// RankAce counts as 11 until the hand would bust, then 1.
	RankAce
	RankTwo
	RankThree
	RankFour
	RankFive
	RankSix
	RankSeven
	RankEight
	RankNine
	RankTen
	RankJack
	RankQueen
	RankKing
)

var rankNames = [...]string{"?", "A", "2", "3", "4", "5", "6", "7", "8", "9", "10", "J", "Q", "K"}

func (r Rank) String() string {
	if r < RankAce || r > RankKing {
		return "?"
	}
	return rankNames[r]
}

// Value returns the rank's base count. Aces report 11; Hand valuation
// downgrades them to 1 as needed.
func (r Rank) Value() int {
	switch {
	case r == RankAce:
		return 11
	case r >= RankTen:
		return 10
	default:
		return int(r)
	}
}

// Card is one playing card.
type Card struct {
	Rank Rank
	Suit Suit
}

func (c Card) String() string {
	return c.Rank.String() + c.Suit.String()
}

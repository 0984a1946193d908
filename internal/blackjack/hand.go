package blackjack

import "github.com/louisbranch/antaria.games/internal/money"

// HandStatus tracks one hand through its turn.
type HandStatus int

const (
	// HandPlaying means the hand can still act.
	HandPlaying HandStatus = iota
	// HandStood means the hand finished at its current total.
	HandStood
	// HandBust means the hand went over 21.
	HandBust
	// HandSurrendered means the player gave up the hand for half the bet.
	HandSurrendered
)

func (s HandStatus) String() string {
	switch s {
	case HandPlaying:
		return "playing"
	case HandStood:
		return "stood"
	case HandBust:
		return "bust"
	case HandSurrendered:
		return "surrendered"
	default:
		return "unspecified"
	}
}

// Hand is one player hand with its own bet. A split produces two hands
// from one.
type Hand struct {
	Cards  []Card
	Bet    money.Amount
	Status HandStatus

	Doubled   bool
	FromSplit bool
}

// Value returns the best total and whether it is soft, meaning an ace
// still counts as 11.
func (h *Hand) Value() (total int, soft bool) {
	return handValue(h.Cards)
}

func handValue(cards []Card) (total int, soft bool) {
	aces := 0
	for _, c := range cards {
		v := c.Rank.Value()
		if c.Rank == RankAce {
			aces++
		}
		total += v
	}
	for total > 21 && aces > 0 {
		total -= 10
		aces--
	}
	return total, aces > 0
}

// IsBlackjack reports a natural: an ace and a ten-value card as the first
// two cards of an unsplit hand. Twenty-one after a split is not a natural.
func (h *Hand) IsBlackjack() bool {
	if h.FromSplit || len(h.Cards) != 2 {
		return false
	}
	total, _ := h.Value()
	return total == 21
}

// IsBust reports whether the hand total exceeds 21.
func (h *Hand) IsBust() bool {
	total, _ := h.Value()
	return total > 21
}

// CanSplit reports whether the hand is a splittable pair. Only cards of
// the same rank split, so a king and a ten do not.
func (h *Hand) CanSplit() bool {
	return len(h.Cards) == 2 && h.Cards[0].Rank == h.Cards[1].Rank
}

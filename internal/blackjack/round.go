package blackjack

import (
	"errors"

	"github.com/louisbranch/antaria.games/internal/money"
)

var (
	// ErrRoundFinished indicates an action on a settled round.
	ErrRoundFinished = errors.New("round already finished")
	// ErrInvalidAction indicates an action the current hand cannot take.
	ErrInvalidAction = errors.New("action not available")
)

// Rules holds the table rules a round plays under.
type Rules struct {
	// HitSoft17 makes the dealer draw on a soft seventeen.
	HitSoft17 bool
}

// DefaultRules is the house table configuration.
var DefaultRules = Rules{HitSoft17: true}

// Result is the settlement outcome of one hand.
type Result int

const (
	// ResultUnspecified represents an invalid result value.
	ResultUnspecified Result = iota
	// ResultWin pays even money on the bet.
	ResultWin
	// ResultBlackjack pays three to two on the bet.
	ResultBlackjack
	// ResultLose forfeits the bet.
	ResultLose
	// ResultPush returns the bet.
	ResultPush
	// ResultSurrender returns half the bet.
	ResultSurrender
)

func (r Result) String() string {
	switch r {
	case ResultWin:
		return "win"
	case ResultBlackjack:
		return "blackjack"
	case ResultLose:
		return "lose"
	case ResultPush:
		return "push"
	case ResultSurrender:
		return "surrender"
	default:
		return "unspecified"
	}
}

// HandResult is one hand's share of a settlement.
type HandResult struct {
	Bet    money.Amount
	Total  int
	Result Result
}

// Settlement is the final accounting of a round. Callers translate it
// into ledger movements.
type Settlement struct {
	Hands           []HandResult
	DealerTotal     int
	DealerBlackjack bool
	InsuranceBet    money.Amount
	InsuranceWon    bool
}

// Round is one blackjack round for a single player, possibly split into
// several hands. It is not safe for concurrent use.
type Round struct {
	ID     string
	Player string

	Hands     []*Hand
	Dealer    []Card
	Insurance money.Amount

	rules      Rules
	active     int
	acted      bool
	finished   bool
	settlement *Settlement
}

// NewRound deals a fresh round from the shoe. A natural blackjack ends
// the round immediately.
func NewRound(id, player string, bet money.Amount, shoe *Shoe, rules Rules) *Round {
	shoe.PrepareDeal()
	r := &Round{
		ID:     id,
		Player: player,
		rules:  rules,
	}
	hand := &Hand{Bet: bet}
	hand.Cards = append(hand.Cards, shoe.Draw())
	r.Dealer = append(r.Dealer, shoe.Draw())
	hand.Cards = append(hand.Cards, shoe.Draw())
	r.Dealer = append(r.Dealer, shoe.Draw())
	r.Hands = []*Hand{hand}

	if hand.IsBlackjack() {
		hand.Status = HandStood
		r.finish(shoe)
	}
	return r
}

// Finished reports whether the round has settled.
func (r *Round) Finished() bool {
	return r.finished
}

// Settlement returns the final accounting, or nil while play continues.
func (r *Round) Settlement() *Settlement {
	return r.settlement
}

// CurrentHand returns the hand whose turn it is and its index.
func (r *Round) CurrentHand() (*Hand, int) {
	if r.finished {
		return nil, -1
	}
	return r.Hands[r.active], r.active
}

// DealerUpcard is the dealer's visible card while the round is live.
func (r *Round) DealerUpcard() Card {
	return r.Dealer[0]
}

// Hit draws one card for the current hand. Going over 21 busts the hand,
// reaching exactly 21 stands it, and in both cases play advances.
func (r *Round) Hit(shoe *Shoe) error {
	if r.finished {
		return ErrRoundFinished
	}
	r.acted = true
	hand := r.Hands[r.active]
	hand.Cards = append(hand.Cards, shoe.Draw())
	if hand.IsBust() {
		hand.Status = HandBust
		r.advance(shoe)
		return nil
	}
	if total, _ := hand.Value(); total == 21 {
		hand.Status = HandStood
		r.advance(shoe)
	}
	return nil
}

// Stand ends the current hand at its total.
func (r *Round) Stand(shoe *Shoe) error {
	if r.finished {
		return ErrRoundFinished
	}
	r.acted = true
	r.Hands[r.active].Status = HandStood
	r.advance(shoe)
	return nil
}

// CanDouble reports whether the current hand may double down.
func (r *Round) CanDouble() bool {
	if r.finished {
		return false
	}
	hand := r.Hands[r.active]
	return len(hand.Cards) == 2 && !hand.Doubled
}

// DoubleDown doubles the current hand's bet, draws exactly one card and
// stands. The caller escrows the extra bet before calling.
func (r *Round) DoubleDown(shoe *Shoe) error {
	if r.finished {
		return ErrRoundFinished
	}
	if !r.CanDouble() {
		return ErrInvalidAction
	}
	r.acted = true
	hand := r.Hands[r.active]
	hand.Bet += hand.Bet
	hand.Doubled = true
	hand.Cards = append(hand.Cards, shoe.Draw())
	if hand.IsBust() {
		hand.Status = HandBust
	} else {
		hand.Status = HandStood
	}
	r.advance(shoe)
	return nil
}

// CanSplit reports whether the current hand may split. Only one split per
// round.
func (r *Round) CanSplit() bool {
	if r.finished || len(r.Hands) > 1 {
		return false
	}
	return r.Hands[r.active].CanSplit()
}

// Split turns a pair into two hands of equal bets and deals one card to
// each. Split aces take a single card apiece and stand. The caller
// escrows the second bet before calling.
func (r *Round) Split(shoe *Shoe) error {
	if r.finished {
		return ErrRoundFinished
	}
	if !r.CanSplit() {
		return ErrInvalidAction
	}
	r.acted = true
	first := r.Hands[r.active]
	aces := first.Cards[0].Rank == RankAce

	second := &Hand{
		Cards:     []Card{first.Cards[1]},
		Bet:       first.Bet,
		FromSplit: true,
	}
	first.Cards = first.Cards[:1]
	first.FromSplit = true
	first.Cards = append(first.Cards, shoe.Draw())
	second.Cards = append(second.Cards, shoe.Draw())
	r.Hands = append(r.Hands, second)

	if aces {
		first.Status = HandStood
		second.Status = HandStood
		r.advance(shoe)
	}
	return nil
}

// CanSurrender reports whether the player may still surrender: before any
// card action, on an unsplit two-card hand. Taking insurance is not a
// card action and leaves surrender available.
func (r *Round) CanSurrender() bool {
	if r.finished || r.acted || len(r.Hands) > 1 {
		return false
	}
	return len(r.Hands[0].Cards) == 2
}

// Surrender gives up the hand for half the bet. The dealer does not play.
func (r *Round) Surrender(shoe *Shoe) error {
	if r.finished {
		return ErrRoundFinished
	}
	if !r.CanSurrender() {
		return ErrInvalidAction
	}
	r.Hands[0].Status = HandSurrendered
	r.finish(shoe)
	return nil
}

// CanInsure reports whether insurance is still available: the dealer
// shows an ace, no card action has been taken and no insurance is placed.
func (r *Round) CanInsure() bool {
	if r.finished || r.acted || r.Insurance > 0 {
		return false
	}
	return r.Dealer[0].Rank == RankAce
}

// TakeInsurance places a side bet of half the base bet that the dealer
// has a natural. The caller escrows the side bet before calling.
func (r *Round) TakeInsurance() error {
	if r.finished {
		return ErrRoundFinished
	}
	if !r.CanInsure() {
		return ErrInvalidAction
	}
	r.Insurance = r.Hands[0].Bet.Half()
	return nil
}

// advance moves play to the next live hand, or ends the round when none
// remain.
func (r *Round) advance(shoe *Shoe) {
	for r.active < len(r.Hands) {
		if r.Hands[r.active].Status == HandPlaying {
			return
		}
		r.active++
	}
	r.finish(shoe)
}

// finish plays out the dealer and computes the settlement.
func (r *Round) finish(shoe *Shoe) {
	r.finished = true

	dealerTotal, _ := handValue(r.Dealer)
	dealerNatural := len(r.Dealer) == 2 && dealerTotal == 21

	if r.dealerMustPlay(dealerNatural) {
		for {
			total, soft := handValue(r.Dealer)
			if total > 17 || (total == 17 && (!soft || !r.rules.HitSoft17)) {
				break
			}
			r.Dealer = append(r.Dealer, shoe.Draw())
		}
		dealerTotal, _ = handValue(r.Dealer)
	}

	s := &Settlement{
		DealerTotal:     dealerTotal,
		DealerBlackjack: dealerNatural,
		InsuranceBet:    r.Insurance,
		InsuranceWon:    r.Insurance > 0 && dealerNatural,
	}
	for _, hand := range r.Hands {
		total, _ := hand.Value()
		hr := HandResult{Bet: hand.Bet, Total: total}
		switch {
		case hand.Status == HandSurrendered:
			hr.Result = ResultSurrender
		case hand.Status == HandBust:
			hr.Result = ResultLose
		case hand.IsBlackjack():
			if dealerNatural {
				hr.Result = ResultPush
			} else {
				hr.Result = ResultBlackjack
			}
		case dealerNatural:
			hr.Result = ResultLose
		case dealerTotal > 21:
			hr.Result = ResultWin
		case total > dealerTotal:
			hr.Result = ResultWin
		case total < dealerTotal:
			hr.Result = ResultLose
		default:
			hr.Result = ResultPush
		}
		s.Hands = append(s.Hands, hr)
	}
	r.settlement = s
}

// dealerMustPlay reports whether the dealer draws: only when some hand
// stands at a live total that is not a natural, and the dealer has no
// natural of their own.
func (r *Round) dealerMustPlay(dealerNatural bool) bool {
	if dealerNatural {
		return false
	}
	for _, hand := range r.Hands {
		if hand.Status == HandStood && !hand.IsBlackjack() {
			return true
		}
	}
	return false
}

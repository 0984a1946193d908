package casino

import (
	"context"
	stderrors "errors"
	"fmt"
	"log"
	"math/rand"
	"sync"

	"github.com/louisbranch/antaria.games/internal/blackjack"
	"github.com/louisbranch/antaria.games/internal/money"
	"github.com/louisbranch/antaria.games/internal/platform/errors"
)

// table is one live blackjack round with its own shoe and lock, so play
// on one round never serializes play on another.
type table struct {
	mu    sync.Mutex
	shoe  *blackjack.Shoe
	round *blackjack.Round // nil once settled
}

// newTable deals a table its own shoe, seeded from the shared RNG.
func (s *Service) newTable() *table {
	s.mu.Lock()
	seed := s.rng.Int63()
	s.mu.Unlock()
	return &table{shoe: blackjack.NewShoe(blackjack.DefaultDecks, rand.New(rand.NewSource(seed)))}
}

// Action is a blackjack player decision.
type Action int

const (
	// ActionUnspecified represents an invalid action value.
	ActionUnspecified Action = iota
	// ActionHit draws one card.
	ActionHit
	// ActionStand ends the hand.
	ActionStand
	// ActionDouble doubles the bet for exactly one more card.
	ActionDouble
	// ActionSplit turns a pair into two hands.
	ActionSplit
	// ActionSurrender gives up the hand for half the bet.
	ActionSurrender
	// ActionInsure places the insurance side bet.
	ActionInsure
)

func (a Action) String() string {
	switch a {
	case ActionHit:
		return "hit"
	case ActionStand:
		return "stand"
	case ActionDouble:
		return "double"
	case ActionSplit:
		return "split"
	case ActionSurrender:
		return "surrender"
	case ActionInsure:
		return "insure"
	default:
		return "unspecified"
	}
}

// ParseAction maps an action name to its Action value.
func ParseAction(name string) (Action, error) {
	switch name {
	case "hit":
		return ActionHit, nil
	case "stand":
		return ActionStand, nil
	case "double":
		return ActionDouble, nil
	case "split":
		return ActionSplit, nil
	case "surrender":
		return ActionSurrender, nil
	case "insure", "insurance":
		return ActionInsure, nil
	default:
		return ActionUnspecified, errors.New(errors.CodeInvalidAction, fmt.Sprintf("unknown action %q", name))
	}
}

// HandView is the caller-facing state of one hand.
type HandView struct {
	Cards  []string
	Total  int
	Soft   bool
	Bet    money.Amount
	Status string
	Result string // empty until the round settles
}

// RoundView is the caller-facing state of a round. The dealer's hole card
// stays hidden until the round settles.
type RoundView struct {
	ID          string
	Player      string
	Hands       []HandView
	ActiveHand  int // -1 once finished
	Dealer      []string
	DealerTotal int // zero while the hole card is hidden
	Insurance   money.Amount
	Finished    bool

	CanDouble    bool
	CanSplit     bool
	CanSurrender bool
	CanInsure    bool

	Net money.Amount // settlement net versus all bets placed, zero until finished
}

// StartRound escrows the bet and deals a blackjack round. A natural
// settles in the same call.
func (s *Service) StartRound(ctx context.Context, player string, bet money.Amount) (RoundView, error) {
	_, span := s.tracer.Start(ctx, "casino.StartRound")
	defer span.End()

	roundID, err := s.newID()
	if err != nil {
		return RoundView{}, errors.Wrap(errors.CodeUnknown, "generate round id", err)
	}
	if err := s.ledger.Reserve(player, bet, "blackjack bet"); err != nil {
		return RoundView{}, translateLedgerErr(err)
	}

	t := s.newTable()
	round := blackjack.NewRound(roundID, player, bet, t.shoe, s.rules)
	if round.Finished() {
		return s.settleRound(round), nil
	}
	t.round = round
	s.mu.Lock()
	s.tables[roundID] = t
	s.mu.Unlock()
	log.Printf("blackjack round started round=%s player=%s bet=%s", roundID, player, bet)
	return viewRound(round), nil
}

// ApplyAction plays one decision on a live round. Actions that raise the
// stake reserve the extra funds before the cards move, so an action never
// half-applies.
func (s *Service) ApplyAction(ctx context.Context, roundID, player string, action Action) (RoundView, error) {
	_, span := s.tracer.Start(ctx, "casino.ApplyAction")
	defer span.End()

	s.mu.Lock()
	t, ok := s.tables[roundID]
	s.mu.Unlock()
	if !ok {
		return RoundView{}, errors.New(errors.CodeRoundNotActive, fmt.Sprintf("round %s is not active", roundID))
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	round := t.round
	if round == nil {
		return RoundView{}, errors.New(errors.CodeRoundNotActive, fmt.Sprintf("round %s is not active", roundID))
	}
	if round.Player != player {
		return RoundView{}, errors.New(errors.CodeNotYourRound, "round belongs to another player")
	}

	var err error
	switch action {
	case ActionHit:
		err = round.Hit(t.shoe)
	case ActionStand:
		err = round.Stand(t.shoe)
	case ActionDouble:
		err = s.doubleDown(t, player)
	case ActionSplit:
		err = s.split(t, player)
	case ActionSurrender:
		err = round.Surrender(t.shoe)
	case ActionInsure:
		err = s.insure(t, player)
	default:
		return RoundView{}, errors.New(errors.CodeInvalidAction, fmt.Sprintf("unknown action %d", action))
	}
	if err != nil {
		return RoundView{}, translateRoundErr(err)
	}

	if round.Finished() {
		t.round = nil
		s.mu.Lock()
		delete(s.tables, roundID)
		s.mu.Unlock()
		return s.settleRound(round), nil
	}
	return viewRound(round), nil
}

// GetRound returns the live view of a player's round.
func (s *Service) GetRound(ctx context.Context, roundID, player string) (RoundView, error) {
	s.mu.Lock()
	t, ok := s.tables[roundID]
	s.mu.Unlock()
	if !ok {
		return RoundView{}, errors.New(errors.CodeRoundNotActive, fmt.Sprintf("round %s is not active", roundID))
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.round == nil {
		return RoundView{}, errors.New(errors.CodeRoundNotActive, fmt.Sprintf("round %s is not active", roundID))
	}
	if t.round.Player != player {
		return RoundView{}, errors.New(errors.CodeNotYourRound, "round belongs to another player")
	}
	return viewRound(t.round), nil
}

// doubleDown reserves the matching bet, then doubles. The legality check
// runs first so a reserve never needs unwinding. The table lock is held.
func (s *Service) doubleDown(t *table, player string) error {
	round := t.round
	if !round.CanDouble() {
		return blackjack.ErrInvalidAction
	}
	hand, _ := round.CurrentHand()
	if err := s.ledger.Reserve(player, hand.Bet, "double down"); err != nil {
		return err
	}
	return round.DoubleDown(t.shoe)
}

func (s *Service) split(t *table, player string) error {
	round := t.round
	if !round.CanSplit() {
		return blackjack.ErrInvalidAction
	}
	hand, _ := round.CurrentHand()
	if err := s.ledger.Reserve(player, hand.Bet, "split bet"); err != nil {
		return err
	}
	return round.Split(t.shoe)
}

func (s *Service) insure(t *table, player string) error {
	round := t.round
	if !round.CanInsure() {
		return blackjack.ErrInvalidAction
	}
	side := round.Hands[0].Bet.Half()
	if err := s.ledger.Reserve(player, side, "insurance"); err != nil {
		return err
	}
	return round.TakeInsurance()
}

func translateRoundErr(err error) error {
	switch {
	case stderrors.Is(err, blackjack.ErrRoundFinished):
		return errors.Wrap(errors.CodeRoundNotActive, "round already finished", err)
	case stderrors.Is(err, blackjack.ErrInvalidAction):
		return errors.Wrap(errors.CodeInvalidAction, "action not available", err)
	default:
		return translateLedgerErr(err)
	}
}

// settleRound turns the engine settlement into ledger movements, one per
// component, and returns the final view. The caller holds the round
// exclusively; it is already off the table map.
func (s *Service) settleRound(round *blackjack.Round) RoundView {
	settlement := round.Settlement()
	player := round.Player

	var net money.Amount
	for _, hr := range settlement.Hands {
		switch hr.Result {
		case blackjack.ResultWin:
			s.ledger.Refund(player, hr.Bet, "blackjack bet returned")
			s.ledger.PayFromHouse(player, hr.Bet, "blackjack win")
			net += hr.Bet
		case blackjack.ResultBlackjack:
			s.ledger.Refund(player, hr.Bet, "blackjack bet returned")
			s.ledger.PayFromHouse(player, hr.Bet.BlackjackBonus(), "blackjack natural")
			net += hr.Bet.BlackjackBonus()
		case blackjack.ResultPush:
			s.ledger.Refund(player, hr.Bet, "blackjack push")
		case blackjack.ResultSurrender:
			s.ledger.Refund(player, hr.Bet.Half(), "blackjack surrender")
			s.ledger.Forfeit(hr.Bet.Remainder(), fmt.Sprintf("round %s surrendered", round.ID))
			net -= hr.Bet.Remainder()
		case blackjack.ResultLose:
			s.ledger.Forfeit(hr.Bet, fmt.Sprintf("round %s lost", round.ID))
			net -= hr.Bet
		}
	}
	if settlement.InsuranceBet.IsPositive() {
		if settlement.InsuranceWon {
			s.ledger.Refund(player, settlement.InsuranceBet, "insurance returned")
			won := settlement.InsuranceBet + settlement.InsuranceBet
			s.ledger.PayFromHouse(player, won, "insurance paid")
			net += won
		} else {
			s.ledger.Forfeit(settlement.InsuranceBet, fmt.Sprintf("round %s insurance lost", round.ID))
			net -= settlement.InsuranceBet
		}
	}

	view := viewRound(round)
	view.Net = net
	log.Printf("blackjack round settled round=%s player=%s dealer=%d net=%s",
		round.ID, player, settlement.DealerTotal, net)
	return view
}

// viewRound renders the round. The dealer's hole card shows as "??"
// until the round settles.
func viewRound(round *blackjack.Round) RoundView {
	view := RoundView{
		ID:         round.ID,
		Player:     round.Player,
		ActiveHand: -1,
		Insurance:  round.Insurance,
		Finished:   round.Finished(),
	}
	settlement := round.Settlement()
	for i, hand := range round.Hands {
		total, soft := hand.Value()
		hv := HandView{
			Total:  total,
			Soft:   soft,
			Bet:    hand.Bet,
			Status: hand.Status.String(),
		}
		for _, c := range hand.Cards {
			hv.Cards = append(hv.Cards, c.String())
		}
		if settlement != nil {
			hv.Result = settlement.Hands[i].Result.String()
		}
		view.Hands = append(view.Hands, hv)
	}
	if view.Finished {
		for _, c := range round.Dealer {
			view.Dealer = append(view.Dealer, c.String())
		}
		view.DealerTotal = settlement.DealerTotal
	} else {
		view.Dealer = []string{round.DealerUpcard().String(), "??"}
		_, view.ActiveHand = round.CurrentHand()
		view.CanDouble = round.CanDouble()
		view.CanSplit = round.CanSplit()
		view.CanSurrender = round.CanSurrender()
		view.CanInsure = round.CanInsure()
	}
	return view
}

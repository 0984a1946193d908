package casino

import (
	"context"
	"fmt"
	"log"

	"github.com/louisbranch/antaria.games/internal/money"
	"github.com/louisbranch/antaria.games/internal/outcome"
)

// WagerReceipt reports one settled single-draw wager.
type WagerReceipt struct {
	Game       outcome.Game
	Prediction string
	Result     outcome.Result
	Won        bool
	Stake      money.Amount
	Payout     money.Amount // total returned on a win, zero on a loss
	Balance    money.Amount
}

// PlaceWager stakes an amount on a single-draw game prediction, draws the
// outcome and settles immediately. A win returns the stake plus house
// winnings per the game's multiplier; a loss forfeits the stake to the
// house.
func (s *Service) PlaceWager(ctx context.Context, account, gameName, prediction string, stake money.Amount) (WagerReceipt, error) {
	_, span := s.tracer.Start(ctx, "casino.PlaceWager")
	defer span.End()

	game, err := outcome.ParseGame(gameName)
	if err != nil {
		return WagerReceipt{}, translateOutcomeErr(err)
	}
	mult, err := outcome.PredictionMultiplier(game, prediction)
	if err != nil {
		return WagerReceipt{}, translateOutcomeErr(err)
	}

	if err := s.ledger.Reserve(account, stake, fmt.Sprintf("wager on %s", game)); err != nil {
		return WagerReceipt{}, translateLedgerErr(err)
	}

	s.mu.Lock()
	result, err := outcome.Draw(s.rng, game)
	s.mu.Unlock()
	if err != nil {
		// The game was already validated; refund rather than strand the
		// stake in escrow.
		s.ledger.Refund(account, stake, "wager aborted")
		return WagerReceipt{}, translateOutcomeErr(err)
	}

	won, _, err := outcome.Evaluate(game, prediction, result)
	if err != nil {
		s.ledger.Refund(account, stake, "wager aborted")
		return WagerReceipt{}, translateOutcomeErr(err)
	}

	receipt := WagerReceipt{
		Game:       game,
		Prediction: prediction,
		Result:     result,
		Won:        won,
		Stake:      stake,
	}
	if won {
		total := money.FromCents(stake.Cents() * mult.Num / mult.Den)
		s.ledger.Refund(account, stake, fmt.Sprintf("%s wager returned", game))
		if profit := total - stake; profit.IsPositive() {
			s.ledger.PayFromHouse(account, profit, fmt.Sprintf("%s wager winnings", game))
		}
		receipt.Payout = total
	} else {
		s.ledger.Forfeit(stake, fmt.Sprintf("%s wager by %s lost", game, account))
	}
	receipt.Balance = s.ledger.GetBalance(account)

	log.Printf("wager settled account=%s game=%s prediction=%s face=%s won=%t stake=%s payout=%s",
		account, game, prediction, result.Face, won, stake, receipt.Payout)
	return receipt, nil
}

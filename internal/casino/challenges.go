package casino

import (
	"context"
	"log"

	"github.com/louisbranch/antaria.games/internal/challenge"
	"github.com/louisbranch/antaria.games/internal/money"
)

// ChallengeParams describes a new challenge request.
type ChallengeParams struct {
	Challenger   string
	Kind         challenge.Kind
	Stake        money.Amount
	Scoring      challenge.Scoring
	MovesPerTurn int
	TargetRounds int
}

// CreateChallenge escrows the challenger's stake and opens a challenge.
func (s *Service) CreateChallenge(ctx context.Context, p ChallengeParams) (challenge.View, error) {
	_, span := s.tracer.Start(ctx, "casino.CreateChallenge")
	defer span.End()

	view, err := s.challenges.Create(challenge.CreateParams{
		Challenger:   p.Challenger,
		Kind:         p.Kind,
		Stake:        p.Stake,
		Scoring:      p.Scoring,
		MovesPerTurn: p.MovesPerTurn,
		TargetRounds: p.TargetRounds,
	})
	if err != nil {
		return challenge.View{}, translateChallengeErr(err)
	}
	log.Printf("challenge created challenge=%s kind=%s challenger=%s stake=%s",
		view.ID, view.Kind, view.Challenger, view.Stake)
	return view, nil
}

// AcceptChallenge joins an open challenge. Exactly one acceptor wins a
// race; losers keep their funds.
func (s *Service) AcceptChallenge(ctx context.Context, challengeID, acceptor string) (challenge.View, error) {
	_, span := s.tracer.Start(ctx, "casino.AcceptChallenge")
	defer span.End()

	view, err := s.challenges.Accept(challengeID, acceptor)
	if err != nil {
		return challenge.View{}, translateChallengeErr(err)
	}
	log.Printf("challenge accepted challenge=%s opponent=%s", view.ID, acceptor)
	return view, nil
}

// CancelChallenge withdraws an open challenge and refunds its stake.
func (s *Service) CancelChallenge(ctx context.Context, challengeID, requester string) (challenge.View, error) {
	_, span := s.tracer.Start(ctx, "casino.CancelChallenge")
	defer span.End()

	view, err := s.challenges.Cancel(challengeID, requester)
	if err != nil {
		return challenge.View{}, translateChallengeErr(err)
	}
	log.Printf("challenge canceled challenge=%s", view.ID)
	return view, nil
}

// SubmitChallengeMove rolls a die for the mover and applies it to the
// challenge. House turns are rolled and resolved in the same call.
func (s *Service) SubmitChallengeMove(ctx context.Context, challengeID, mover string) (challenge.View, int, error) {
	_, span := s.tracer.Start(ctx, "casino.SubmitChallengeMove")
	defer span.End()

	value := s.rollDie()
	view, err := s.challenges.SubmitMove(challengeID, mover, value)
	if err != nil {
		return challenge.View{}, 0, translateChallengeErr(err)
	}
	log.Printf("challenge move challenge=%s mover=%s value=%d status=%s",
		view.ID, mover, value, view.Status)
	return view, value, nil
}

// GetChallenge returns the live view of a challenge.
func (s *Service) GetChallenge(ctx context.Context, challengeID string) (challenge.View, error) {
	view, err := s.challenges.Get(challengeID)
	if err != nil {
		return challenge.View{}, translateChallengeErr(err)
	}
	return view, nil
}

// Package challenge models escrowed wagers between a challenger and an
// opponent, human or house. A challenge escrows stakes at creation and
// acceptance, accumulates per-turn moves, and settles exactly once through
// the ledger when it reaches a terminal status.
package challenge

import (
	"errors"
	"time"

	"github.com/louisbranch/antaria.games/internal/money"
)

// HouseOpponent is the opponent id used for vs-house challenge kinds.
const HouseOpponent = "house"

// Kind describes who the challenger plays and for how many rounds.
type Kind int

const (
	// KindUnspecified represents an invalid kind value.
	KindUnspecified Kind = iota
	// KindInstantHouse is a single round against the house.
	KindInstantHouse
	// KindDuel is a single round against another player.
	KindDuel
	// KindSeriesHouse is a best-of-N series against the house.
	KindSeriesHouse
	// KindSeriesDuel is a best-of-N series against another player.
	KindSeriesDuel
)

// VsHouse reports whether the opponent is the house.
func (k Kind) VsHouse() bool {
	return k == KindInstantHouse || k == KindSeriesHouse
}

// Series reports whether the challenge runs to a target round count.
func (k Kind) Series() bool {
	return k == KindSeriesHouse || k == KindSeriesDuel
}

func (k Kind) String() string {
	switch k {
	case KindInstantHouse:
		return "instant-vs-house"
	case KindDuel:
		return "duel-vs-player"
	case KindSeriesHouse:
		return "series-vs-house"
	case KindSeriesDuel:
		return "series-vs-player"
	default:
		return "unspecified"
	}
}

// Scoring decides which side's turn total wins a round.
type Scoring int

const (
	// ScoringUnspecified represents an invalid scoring value.
	ScoringUnspecified Scoring = iota
	// ScoringHigherWins awards the round to the higher turn total.
	ScoringHigherWins
	// ScoringLowerWins awards the round to the lower turn total.
	ScoringLowerWins
)

func (s Scoring) String() string {
	switch s {
	case ScoringHigherWins:
		return "higher-wins"
	case ScoringLowerWins:
		return "lower-wins"
	default:
		return "unspecified"
	}
}

// Status is the explicit challenge lifecycle state.
type Status int

const (
	// StatusUnspecified represents an invalid status value.
	StatusUnspecified Status = iota
	// StatusOpen means the challenge awaits an acceptor.
	StatusOpen
	// StatusAwaitingChallengerMove means the challenger must move next.
	StatusAwaitingChallengerMove
	// StatusAwaitingOpponentMove means the opponent must move next.
	StatusAwaitingOpponentMove
	// StatusCanceled is terminal: the challenger withdrew an open challenge.
	StatusCanceled
	// StatusExpiredRefunded is terminal: no one accepted in time.
	StatusExpiredRefunded
	// StatusExpiredForfeited is terminal: a side missed its move window.
	StatusExpiredForfeited
	// StatusResolved is terminal: the challenge settled on a game outcome.
	StatusResolved
)

// Terminal reports whether the status ends the challenge lifecycle.
func (s Status) Terminal() bool {
	switch s {
	case StatusCanceled, StatusExpiredRefunded, StatusExpiredForfeited, StatusResolved:
		return true
	default:
		return false
	}
}

func (s Status) String() string {
	switch s {
	case StatusOpen:
		return "open"
	case StatusAwaitingChallengerMove:
		return "awaiting-challenger-move"
	case StatusAwaitingOpponentMove:
		return "awaiting-opponent-move"
	case StatusCanceled:
		return "canceled"
	case StatusExpiredRefunded:
		return "expired-refunded"
	case StatusExpiredForfeited:
		return "expired-forfeited"
	case StatusResolved:
		return "resolved"
	default:
		return "unspecified"
	}
}

var (
	// ErrInvalidChallenge indicates malformed creation parameters.
	ErrInvalidChallenge = errors.New("invalid challenge parameters")
	// ErrAlreadyAccepted indicates the challenge already has an opponent.
	ErrAlreadyAccepted = errors.New("challenge already accepted")
	// ErrNotActive indicates the challenge is unknown or already terminal.
	ErrNotActive = errors.New("challenge is not active")
	// ErrNotYourTurn indicates a move from the wrong party or in the wrong
	// state.
	ErrNotYourTurn = errors.New("not your turn")
	// ErrSelfAccept indicates a challenger accepting their own challenge.
	ErrSelfAccept = errors.New("cannot accept your own challenge")
	// ErrNotChallenger indicates a cancel from someone other than the
	// challenger.
	ErrNotChallenger = errors.New("only the challenger may cancel")
)

// Challenge is the full mutable state of one escrowed wager. Registry owns
// all mutation; callers only ever see value copies.
type Challenge struct {
	ID           string
	Kind         Kind
	Stake        money.Amount
	Challenger   string
	Opponent     string // empty until accepted; HouseOpponent for vs-house
	Status       Status
	Scoring      Scoring
	MovesPerTurn int
	TargetRounds int

	ChallengerPoints int
	OpponentPoints   int
	ChallengerMoves  []int
	OpponentMoves    []int

	CreatedAt time.Time
	Deadline  time.Time // next acceptance or move deadline
}

// View is a read-only copy of a challenge handed to callers.
type View struct {
	ID           string
	Kind         Kind
	Stake        money.Amount
	Challenger   string
	Opponent     string
	Status       Status
	Scoring      Scoring
	MovesPerTurn int
	TargetRounds int

	ChallengerPoints int
	OpponentPoints   int
	ChallengerMoves  []int
	OpponentMoves    []int

	CreatedAt time.Time
	Deadline  time.Time
}

func (c *Challenge) view() View {
	v := View{
		ID:               c.ID,
		Kind:             c.Kind,
		Stake:            c.Stake,
		Challenger:       c.Challenger,
		Opponent:         c.Opponent,
		Status:           c.Status,
		Scoring:          c.Scoring,
		MovesPerTurn:     c.MovesPerTurn,
		TargetRounds:     c.TargetRounds,
		ChallengerPoints: c.ChallengerPoints,
		OpponentPoints:   c.OpponentPoints,
		CreatedAt:        c.CreatedAt,
		Deadline:         c.Deadline,
	}
	v.ChallengerMoves = append([]int(nil), c.ChallengerMoves...)
	v.OpponentMoves = append([]int(nil), c.OpponentMoves...)
	return v
}

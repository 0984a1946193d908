package challenge

import (
	"fmt"
	"sync"
	"time"

	"github.com/louisbranch/antaria.games/internal/money"
	"github.com/louisbranch/antaria.games/internal/platform/timeouts"
)

// Bank is the subset of ledger operations a challenge needs to escrow and
// settle stakes. Settlement helpers never fail: the funds were reserved
// when the challenge took them.
type Bank interface {
	Reserve(account string, amount money.Amount, memo string) error
	Payout(account string, amount money.Amount, memo string)
	Refund(account string, amount money.Amount, memo string)
	Forfeit(amount money.Amount, memo string)
	PayFromHouse(account string, amount money.Amount, memo string)
}

// Config carries Registry dependencies. Zero-value fields get production
// defaults from New.
type Config struct {
	Bank      Bank
	Now       func() time.Time
	NewID     func() (string, error)
	HouseRoll func() int // move generator for house turns

	AcceptWindow time.Duration
	MoveWindow   time.Duration
}

// Registry owns all live challenges. Every mutation happens under the
// per-challenge mutex; the registry mutex only guards the map. The map
// lock is never held while a challenge lock is held.
type Registry struct {
	bank      Bank
	now       func() time.Time
	newID     func() (string, error)
	houseRoll func() int

	acceptWindow time.Duration
	moveWindow   time.Duration

	mu      sync.RWMutex
	entries map[string]*entry
}

type entry struct {
	mu sync.Mutex
	c  *Challenge
}

// New builds a Registry from cfg. Bank, NewID and HouseRoll are required;
// Now and the windows default to time.Now and the standard timeouts.
func New(cfg Config) *Registry {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.AcceptWindow <= 0 {
		cfg.AcceptWindow = timeouts.AcceptWindow
	}
	if cfg.MoveWindow <= 0 {
		cfg.MoveWindow = timeouts.MoveWindow
	}
	return &Registry{
		bank:         cfg.Bank,
		now:          cfg.Now,
		newID:        cfg.NewID,
		houseRoll:    cfg.HouseRoll,
		acceptWindow: cfg.AcceptWindow,
		moveWindow:   cfg.MoveWindow,
		entries:      make(map[string]*entry),
	}
}

// CreateParams describes a new challenge.
type CreateParams struct {
	Challenger   string
	Kind         Kind
	Stake        money.Amount
	Scoring      Scoring
	MovesPerTurn int
	TargetRounds int
}

// Create escrows the challenger's stake and registers the challenge. A
// vs-house challenge needs no acceptor and immediately awaits the
// challenger's first move.
func (r *Registry) Create(p CreateParams) (View, error) {
	if p.Kind == KindUnspecified || p.Kind > KindSeriesDuel {
		return View{}, fmt.Errorf("kind %d: %w", p.Kind, ErrInvalidChallenge)
	}
	if p.MovesPerTurn == 0 {
		p.MovesPerTurn = 1
	}
	if p.MovesPerTurn < 0 {
		return View{}, fmt.Errorf("moves per turn %d: %w", p.MovesPerTurn, ErrInvalidChallenge)
	}
	if p.Scoring == ScoringUnspecified {
		p.Scoring = ScoringHigherWins
	}
	if p.Scoring > ScoringLowerWins {
		return View{}, fmt.Errorf("scoring %d: %w", p.Scoring, ErrInvalidChallenge)
	}
	if p.Kind.Series() {
		if p.TargetRounds < 1 {
			return View{}, fmt.Errorf("target rounds %d: %w", p.TargetRounds, ErrInvalidChallenge)
		}
	} else {
		p.TargetRounds = 1
	}

	id, err := r.newID()
	if err != nil {
		return View{}, fmt.Errorf("generate challenge id: %w", err)
	}
	if err := r.bank.Reserve(p.Challenger, p.Stake, "challenge stake"); err != nil {
		return View{}, err
	}

	now := r.now()
	c := &Challenge{
		ID:           id,
		Kind:         p.Kind,
		Stake:        p.Stake,
		Challenger:   p.Challenger,
		Status:       StatusOpen,
		Scoring:      p.Scoring,
		MovesPerTurn: p.MovesPerTurn,
		TargetRounds: p.TargetRounds,
		CreatedAt:    now,
		Deadline:     now.Add(r.acceptWindow),
	}
	if p.Kind.VsHouse() {
		c.Opponent = HouseOpponent
		c.Status = StatusAwaitingChallengerMove
		c.Deadline = now.Add(r.moveWindow)
	}

	r.mu.Lock()
	r.entries[id] = &entry{c: c}
	r.mu.Unlock()
	return c.view(), nil
}

// Accept joins an open challenge, escrowing the acceptor's stake. Under a
// race exactly one acceptor wins; the rest get ErrAlreadyAccepted and no
// funds move for them.
func (r *Registry) Accept(id, acceptor string) (View, error) {
	e, err := r.lookup(id)
	if err != nil {
		return View{}, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	c := e.c
	switch {
	case c.Status.Terminal():
		return View{}, fmt.Errorf("challenge %s: %w", id, ErrNotActive)
	case c.Status != StatusOpen:
		return View{}, fmt.Errorf("challenge %s: %w", id, ErrAlreadyAccepted)
	case acceptor == c.Challenger:
		return View{}, fmt.Errorf("challenge %s: %w", id, ErrSelfAccept)
	}
	if err := r.bank.Reserve(acceptor, c.Stake, "challenge stake"); err != nil {
		return View{}, err
	}
	c.Opponent = acceptor
	c.Status = StatusAwaitingChallengerMove
	c.Deadline = r.now().Add(r.moveWindow)
	return c.view(), nil
}

// Cancel withdraws an open challenge and refunds the challenger's stake.
func (r *Registry) Cancel(id, requester string) (View, error) {
	e, err := r.lookup(id)
	if err != nil {
		return View{}, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	c := e.c
	if c.Status != StatusOpen {
		return View{}, fmt.Errorf("challenge %s: %w", id, ErrNotActive)
	}
	if requester != c.Challenger {
		return View{}, fmt.Errorf("challenge %s: %w", id, ErrNotChallenger)
	}
	r.bank.Refund(c.Challenger, c.Stake, "challenge canceled")
	r.finish(c, StatusCanceled)
	return c.view(), nil
}

// SubmitMove records one move for the party whose turn it is. When a turn
// reaches the configured move count play advances; against the house the
// opponent turn is rolled immediately and the round resolves in the same
// call.
func (r *Registry) SubmitMove(id, submitter string, value int) (View, error) {
	e, err := r.lookup(id)
	if err != nil {
		return View{}, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	c := e.c
	if c.Status.Terminal() {
		return View{}, fmt.Errorf("challenge %s: %w", id, ErrNotActive)
	}
	switch c.Status {
	case StatusAwaitingChallengerMove:
		if submitter != c.Challenger {
			return View{}, fmt.Errorf("challenge %s: %w", id, ErrNotYourTurn)
		}
		c.ChallengerMoves = append(c.ChallengerMoves, value)
		if len(c.ChallengerMoves) < c.MovesPerTurn {
			return c.view(), nil
		}
		if c.Kind.VsHouse() {
			for len(c.OpponentMoves) < c.MovesPerTurn {
				c.OpponentMoves = append(c.OpponentMoves, r.houseRoll())
			}
			r.resolveRound(c)
			return c.view(), nil
		}
		c.Status = StatusAwaitingOpponentMove
		c.Deadline = r.now().Add(r.moveWindow)
	case StatusAwaitingOpponentMove:
		if submitter != c.Opponent {
			return View{}, fmt.Errorf("challenge %s: %w", id, ErrNotYourTurn)
		}
		c.OpponentMoves = append(c.OpponentMoves, value)
		if len(c.OpponentMoves) < c.MovesPerTurn {
			return c.view(), nil
		}
		r.resolveRound(c)
	default:
		return View{}, fmt.Errorf("challenge %s: %w", id, ErrNotYourTurn)
	}
	return c.view(), nil
}

// Get returns a read-only view of a live challenge.
func (r *Registry) Get(id string) (View, error) {
	e, err := r.lookup(id)
	if err != nil {
		return View{}, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.c.Status.Terminal() {
		return View{}, fmt.Errorf("challenge %s: %w", id, ErrNotActive)
	}
	return e.c.view(), nil
}

// Tick expires every challenge whose deadline has passed. Open challenges
// refund the challenger; a missed move forfeits the delinquent side's
// stake to the house and refunds the other side. It returns the views of
// the challenges it expired.
func (r *Registry) Tick(now time.Time) []View {
	r.mu.RLock()
	pending := make([]*entry, 0, len(r.entries))
	for _, e := range r.entries {
		pending = append(pending, e)
	}
	r.mu.RUnlock()

	var expired []View
	for _, e := range pending {
		e.mu.Lock()
		c := e.c
		if c.Status.Terminal() || !now.After(c.Deadline) {
			e.mu.Unlock()
			continue
		}
		switch c.Status {
		case StatusOpen:
			r.bank.Refund(c.Challenger, c.Stake, "challenge expired unaccepted")
			r.finish(c, StatusExpiredRefunded)
		case StatusAwaitingChallengerMove:
			r.bank.Forfeit(c.Stake, fmt.Sprintf("challenge %s move timeout", c.ID))
			if !c.Kind.VsHouse() {
				r.bank.Refund(c.Opponent, c.Stake, "opponent move timeout")
			}
			r.finish(c, StatusExpiredForfeited)
		case StatusAwaitingOpponentMove:
			r.bank.Forfeit(c.Stake, fmt.Sprintf("challenge %s move timeout", c.ID))
			r.bank.Refund(c.Challenger, c.Stake, "opponent move timeout")
			r.finish(c, StatusExpiredForfeited)
		}
		expired = append(expired, c.view())
		e.mu.Unlock()
	}
	return expired
}

// resolveRound scores one completed turn pair. The caller holds the
// challenge lock.
func (r *Registry) resolveRound(c *Challenge) {
	cSum, oSum := 0, 0
	for _, v := range c.ChallengerMoves {
		cSum += v
	}
	for _, v := range c.OpponentMoves {
		oSum += v
	}
	c.ChallengerMoves = nil
	c.OpponentMoves = nil

	challengerWins := cSum > oSum
	opponentWins := oSum > cSum
	if c.Scoring == ScoringLowerWins {
		challengerWins, opponentWins = opponentWins, challengerWins
	}

	if c.Kind.Series() {
		switch {
		case challengerWins:
			c.ChallengerPoints++
		case opponentWins:
			c.OpponentPoints++
		}
		if c.ChallengerPoints < c.TargetRounds && c.OpponentPoints < c.TargetRounds {
			// Ties and undecided series keep playing.
			c.Status = StatusAwaitingChallengerMove
			c.Deadline = r.now().Add(r.moveWindow)
			return
		}
		challengerWins = c.ChallengerPoints >= c.TargetRounds
		opponentWins = !challengerWins
	}

	switch {
	case challengerWins:
		r.settleWin(c, c.Challenger)
	case opponentWins:
		r.settleWin(c, c.Opponent)
	default:
		// Single-round tie pushes both stakes back.
		r.bank.Refund(c.Challenger, c.Stake, "challenge tied")
		if !c.Kind.VsHouse() {
			r.bank.Refund(c.Opponent, c.Stake, "challenge tied")
		}
	}
	r.finish(c, StatusResolved)
}

// settleWin pays the winner. A duel moves both escrowed stakes to the
// winner; against the house a win returns the stake plus an equal house
// payment, and a loss forfeits the escrow.
func (r *Registry) settleWin(c *Challenge, winner string) {
	if c.Kind.VsHouse() {
		if winner == c.Challenger {
			r.bank.Refund(c.Challenger, c.Stake, "challenge won vs house")
			r.bank.PayFromHouse(c.Challenger, c.Stake, fmt.Sprintf("challenge %s winnings", c.ID))
			return
		}
		r.bank.Forfeit(c.Stake, fmt.Sprintf("challenge %s lost vs house", c.ID))
		return
	}
	memo := fmt.Sprintf("challenge %s winnings", c.ID)
	r.bank.Payout(winner, c.Stake+c.Stake, memo)
}

// finish marks c terminal and drops it from the live map. Later lookups
// report ErrNotActive.
func (r *Registry) finish(c *Challenge, status Status) {
	c.Status = status
	r.mu.Lock()
	delete(r.entries, c.ID)
	r.mu.Unlock()
}

func (r *Registry) lookup(id string) (*entry, error) {
	r.mu.RLock()
	e, ok := r.entries[id]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("challenge %s: %w", id, ErrNotActive)
	}
	return e, nil
}

// States snapshots every live challenge for persistence.
func (r *Registry) States() []Challenge {
	r.mu.RLock()
	pending := make([]*entry, 0, len(r.entries))
	for _, e := range r.entries {
		pending = append(pending, e)
	}
	r.mu.RUnlock()

	out := make([]Challenge, 0, len(pending))
	for _, e := range pending {
		e.mu.Lock()
		c := *e.c
		c.ChallengerMoves = append([]int(nil), e.c.ChallengerMoves...)
		c.OpponentMoves = append([]int(nil), e.c.OpponentMoves...)
		e.mu.Unlock()
		out = append(out, c)
	}
	return out
}

// Restore replaces the live set with previously snapshotted challenges.
// Terminal entries are skipped.
func (r *Registry) Restore(states []Challenge) {
	entries := make(map[string]*entry, len(states))
	for _, s := range states {
		if s.Status.Terminal() {
			continue
		}
		c := s
		c.ChallengerMoves = append([]int(nil), s.ChallengerMoves...)
		c.OpponentMoves = append([]int(nil), s.OpponentMoves...)
		entries[c.ID] = &entry{c: &c}
	}
	r.mu.Lock()
	r.entries = entries
	r.mu.Unlock()
}

package casino

import (
	"time"

	"github.com/louisbranch/antaria.games/internal/blackjack"
	"github.com/louisbranch/antaria.games/internal/challenge"
	"github.com/louisbranch/antaria.games/internal/ledger"
)

// Snapshot is the full persistable state of the engine: balances, the
// transaction log, live challenges and unfinished blackjack rounds.
// Escrowed stakes live implicitly in the challenges and rounds, so a
// restored snapshot conserves the same total as when it was taken.
type Snapshot struct {
	TakenAt      time.Time
	Accounts     []ledger.Account
	Transactions []ledger.Transaction
	Challenges   []challenge.Challenge
	Rounds       []blackjack.RoundState
}

// Snapshot captures the engine state for persistence.
func (s *Service) Snapshot() Snapshot {
	snap := Snapshot{
		TakenAt:      s.now(),
		Accounts:     s.ledger.Accounts(),
		Transactions: s.ledger.Transactions(),
		Challenges:   s.challenges.States(),
	}
	s.mu.Lock()
	tables := make([]*table, 0, len(s.tables))
	for _, t := range s.tables {
		tables = append(tables, t)
	}
	s.mu.Unlock()
	for _, t := range tables {
		t.mu.Lock()
		if t.round != nil {
			snap.Rounds = append(snap.Rounds, t.round.State())
		}
		t.mu.Unlock()
	}
	return snap
}

// Restore replaces the engine state with a snapshot. The shoe is not
// persisted; restored rounds continue from a freshly shuffled shoe.
func (s *Service) Restore(snap Snapshot) {
	s.ledger.Restore(snap.Accounts, snap.Transactions)
	s.challenges.Restore(snap.Challenges)

	tables := make(map[string]*table, len(snap.Rounds))
	for _, st := range snap.Rounds {
		t := s.newTable()
		t.round = blackjack.RestoreRound(st, s.rules)
		tables[st.ID] = t
	}
	s.mu.Lock()
	s.tables = tables
	s.mu.Unlock()
}

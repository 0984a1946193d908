// Package casino composes the ledger, the challenge registry, the
// single-draw games and the blackjack tables behind one service facade.
// Every operation here moves money through the ledger exactly once per
// settlement component, so the total of balances and escrow is constant.
package casino

import (
	"math/rand"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/louisbranch/antaria.games/internal/blackjack"
	"github.com/louisbranch/antaria.games/internal/challenge"
	"github.com/louisbranch/antaria.games/internal/ledger"
	"github.com/louisbranch/antaria.games/internal/money"
	"github.com/louisbranch/antaria.games/internal/outcome"
	"github.com/louisbranch/antaria.games/internal/platform/id"
)

// Config carries Service dependencies. Zero-value fields get production
// defaults from New.
type Config struct {
	Ledger *ledger.Ledger
	Seed   int64
	Now    func() time.Time
	NewID  func() (string, error)
	Rules  blackjack.Rules

	AcceptWindow time.Duration
	MoveWindow   time.Duration
}

// Service is the wagering engine facade. All methods are safe for
// concurrent use.
type Service struct {
	ledger     *ledger.Ledger
	challenges *challenge.Registry
	tracer     trace.Tracer
	now        func() time.Time
	newID      func() (string, error)
	rules      blackjack.Rules

	// mu guards the RNG and the live table map. Each table carries its
	// own lock and shoe; mu is never held across engine or ledger calls.
	mu     sync.Mutex
	rng    *rand.Rand
	tables map[string]*table
}

// New builds a Service. Ledger is required; Seed should come from a
// crypto source in production.
func New(cfg Config) *Service {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.NewID == nil {
		cfg.NewID = id.NewID
	}
	if cfg.Rules == (blackjack.Rules{}) {
		cfg.Rules = blackjack.DefaultRules
	}
	s := &Service{
		ledger: cfg.Ledger,
		tracer: otel.Tracer("casino"),
		now:    cfg.Now,
		newID:  cfg.NewID,
		rules:  cfg.Rules,
		rng:    rand.New(rand.NewSource(cfg.Seed)),
		tables: make(map[string]*table),
	}
	s.challenges = challenge.New(challenge.Config{
		Bank:         cfg.Ledger,
		Now:          cfg.Now,
		NewID:        cfg.NewID,
		HouseRoll:    s.rollDie,
		AcceptWindow: cfg.AcceptWindow,
		MoveWindow:   cfg.MoveWindow,
	})
	return s
}

// rollDie draws a die value under the service lock so the shared RNG is
// never raced.
func (s *Service) rollDie() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return outcome.RollDie(s.rng)
}

// Balance returns an account's balance, creating the account with its
// starter grant on first sight.
func (s *Service) Balance(account string) money.Amount {
	return s.ledger.GetBalance(account)
}

// History returns an account's most recent transactions, newest first.
func (s *Service) History(account string, limit int) []ledger.Transaction {
	return s.ledger.History(account, limit)
}

// Tip moves funds between two player accounts.
func (s *Service) Tip(from, to string, amount money.Amount) error {
	if err := s.ledger.Transfer(from, to, amount, "tip"); err != nil {
		return translateLedgerErr(err)
	}
	return nil
}

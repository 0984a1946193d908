// Package ledger owns account balances and the append-only transaction log.
// Every other component settles exclusively through it: no balance changes
// outside Reserve, the Settle variants, and Transfer.
package ledger

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/louisbranch/antaria.games/internal/money"
)

// HouseAccountID identifies the house account. Forfeited stakes settle here
// and house-game winnings are funded from here.
const HouseAccountID = "house"

var (
	// ErrInsufficientFunds indicates a reservation or transfer was denied.
	// The ledger is unchanged; partial reservations never happen.
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrInvalidAmount indicates a non-positive amount where a positive one
	// is required.
	ErrInvalidAmount = errors.New("amount must be positive")
	// ErrSelfTransfer indicates a transfer with identical source and
	// destination accounts.
	ErrSelfTransfer = errors.New("cannot transfer to the same account")
)

// Account is a snapshot view of one ledger account.
type Account struct {
	ID        string
	Balance   money.Amount
	House     bool
	CreatedAt time.Time
}

type account struct {
	mu        sync.Mutex
	balance   money.Amount
	house     bool
	createdAt time.Time
}

// Production funding levels.
var (
	// DefaultStarterGrant funds every new account with $5.00.
	DefaultStarterGrant = money.FromDollars(5)
	// DefaultHouseFloat seeds the house with $6973.00.
	DefaultHouseFloat = money.FromCents(697300)
)

// Config controls ledger construction.
type Config struct {
	// StarterGrant is credited to every lazily created account.
	StarterGrant money.Amount
	// HouseFloat seeds the house account balance.
	HouseFloat money.Amount
	// Now supplies timestamps; defaults to time.Now.
	Now func() time.Time
}

// Ledger is the single source of truth for balances. Mutation serializes
// per account; unrelated accounts never contend on one lock.
type Ledger struct {
	now func() time.Time

	// mu guards the accounts map, the sequence counter, and log appends.
	// Lock order: an account mutex may be held when acquiring mu, never the
	// reverse.
	mu       sync.Mutex
	accounts map[string]*account
	seq      int64
	log      []Transaction
	grant    money.Amount
}

// New creates a ledger with the house account pre-funded.
func New(cfg Config) *Ledger {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	l := &Ledger{
		now:      now,
		accounts: make(map[string]*account),
		grant:    cfg.StarterGrant,
	}
	house := &account{house: true, createdAt: now().UTC()}
	l.accounts[HouseAccountID] = house
	if cfg.HouseFloat != 0 {
		house.balance = cfg.HouseFloat
		l.append(HouseAccountID, cfg.HouseFloat, KindAdjustment, "house float")
	}
	return l
}

// getOrCreate returns the account, creating it with the starter grant on
// first reference. Accounts are never deleted.
func (l *Ledger) getOrCreate(id string) *account {
	l.mu.Lock()
	acct, ok := l.accounts[id]
	if !ok {
		acct = &account{createdAt: l.now().UTC()}
		l.accounts[id] = acct
		if l.grant > 0 {
			acct.balance = l.grant
			l.appendLocked(id, l.grant, KindAdjustment, "starter grant")
		}
	}
	l.mu.Unlock()
	return acct
}

func (l *Ledger) append(id string, amount money.Amount, kind Kind, memo string) {
	l.mu.Lock()
	l.appendLocked(id, amount, kind, memo)
	l.mu.Unlock()
}

func (l *Ledger) appendLocked(id string, amount money.Amount, kind Kind, memo string) {
	l.seq++
	l.log = append(l.log, Transaction{
		Seq:     l.seq,
		Account: id,
		Amount:  amount,
		Kind:    kind,
		Memo:    memo,
		At:      l.now().UTC(),
	})
}

// GetBalance returns the account balance, creating the account if needed.
func (l *Ledger) GetBalance(id string) money.Amount {
	acct := l.getOrCreate(id)
	acct.mu.Lock()
	defer acct.mu.Unlock()
	return acct.balance
}

// Reserve atomically checks balance >= amount, debits it, and records a
// wager transaction. Concurrent reservations on one account serialize; two
// reservations never both succeed if their sum exceeds the balance.
func (l *Ledger) Reserve(id string, amount money.Amount, memo string) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}
	acct := l.getOrCreate(id)
	acct.mu.Lock()
	defer acct.mu.Unlock()
	if acct.balance < amount {
		return ErrInsufficientFunds
	}
	acct.balance -= amount
	l.append(id, -amount, KindWager, memo)
	return nil
}

// Payout credits winnings to an account.
func (l *Ledger) Payout(id string, amount money.Amount, memo string) {
	l.credit(id, amount, KindPayout, memo)
}

// Refund returns an escrowed stake to its account.
func (l *Ledger) Refund(id string, amount money.Amount, memo string) {
	l.credit(id, amount, KindRefund, memo)
}

// Forfeit settles an escrowed stake to the house.
func (l *Ledger) Forfeit(amount money.Amount, memo string) {
	l.credit(HouseAccountID, amount, KindForfeit, memo)
}

// PayFromHouse debits the house and credits the account in one logged pair.
// The house balance is the book and may go negative.
func (l *Ledger) PayFromHouse(id string, amount money.Amount, memo string) {
	if amount <= 0 {
		return
	}
	house := l.getOrCreate(HouseAccountID)
	house.mu.Lock()
	house.balance -= amount
	l.append(HouseAccountID, -amount, KindPayout, memo)
	house.mu.Unlock()
	l.credit(id, amount, KindPayout, memo)
}

func (l *Ledger) credit(id string, amount money.Amount, kind Kind, memo string) {
	if amount <= 0 {
		return
	}
	acct := l.getOrCreate(id)
	acct.mu.Lock()
	acct.balance += amount
	l.append(id, amount, kind, memo)
	acct.mu.Unlock()
}

// Transfer moves funds between two accounts outside the wager flow (tips,
// admin adjustments). Account locks are taken in ID order so concurrent
// opposing transfers cannot deadlock.
func (l *Ledger) Transfer(from, to string, amount money.Amount, memo string) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}
	if from == to {
		return ErrSelfTransfer
	}
	src := l.getOrCreate(from)
	dst := l.getOrCreate(to)

	first, second := src, dst
	if from > to {
		first, second = dst, src
	}
	first.mu.Lock()
	defer first.mu.Unlock()
	second.mu.Lock()
	defer second.mu.Unlock()

	if !src.house && src.balance < amount {
		return ErrInsufficientFunds
	}
	src.balance -= amount
	dst.balance += amount
	l.mu.Lock()
	l.appendLocked(from, -amount, KindAdjustment, memo)
	l.appendLocked(to, amount, KindAdjustment, memo)
	l.mu.Unlock()
	return nil
}

// History returns the account's most recent transactions, newest first.
func (l *Ledger) History(id string, limit int) []Transaction {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []Transaction
	for i := len(l.log) - 1; i >= 0 && (limit <= 0 || len(out) < limit); i-- {
		if l.log[i].Account == id {
			out = append(out, l.log[i])
		}
	}
	return out
}

// Accounts returns a snapshot of every account, sorted by ID.
func (l *Ledger) Accounts() []Account {
	l.mu.Lock()
	ids := make([]string, 0, len(l.accounts))
	handles := make([]*account, 0, len(l.accounts))
	for id, acct := range l.accounts {
		ids = append(ids, id)
		handles = append(handles, acct)
	}
	l.mu.Unlock()

	out := make([]Account, len(ids))
	for i, acct := range handles {
		acct.mu.Lock()
		out[i] = Account{ID: ids[i], Balance: acct.balance, House: acct.house, CreatedAt: acct.createdAt}
		acct.mu.Unlock()
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Transactions returns a copy of the full transaction log in sequence order.
func (l *Ledger) Transactions() []Transaction {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Transaction, len(l.log))
	copy(out, l.log)
	return out
}

// Restore replaces ledger state from a snapshot. It must only be called
// before the ledger is shared across goroutines.
func (l *Ledger) Restore(accounts []Account, transactions []Transaction) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.accounts = make(map[string]*account, len(accounts))
	for _, snap := range accounts {
		l.accounts[snap.ID] = &account{
			balance:   snap.Balance,
			house:     snap.House,
			createdAt: snap.CreatedAt,
		}
	}
	if _, ok := l.accounts[HouseAccountID]; !ok {
		l.accounts[HouseAccountID] = &account{house: true, createdAt: l.now().UTC()}
	}
	l.log = make([]Transaction, len(transactions))
	copy(l.log, transactions)
	l.seq = 0
	if n := len(l.log); n > 0 {
		l.seq = l.log[n-1].Seq
	}
}

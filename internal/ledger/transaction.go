package ledger

import (
	"time"

	"github.com/louisbranch/antaria.games/internal/money"
)

// Kind classifies a ledger transaction.
type Kind int

const (
	// KindUnspecified represents an invalid transaction kind.
	KindUnspecified Kind = iota
	// KindWager is a stake moving from an account into escrow.
	KindWager
	// KindPayout is winnings credited to an account.
	KindPayout
	// KindRefund is an escrowed stake returned to its account.
	KindRefund
	// KindForfeit is an escrowed stake absorbed by the house.
	KindForfeit
	// KindAdjustment covers transfers outside the wager flow: tips, grants,
	// admin corrections.
	KindAdjustment
)

func (k Kind) String() string {
	switch k {
	case KindWager:
		return "wager"
	case KindPayout:
		return "payout"
	case KindRefund:
		return "refund"
	case KindForfeit:
		return "forfeit"
	case KindAdjustment:
		return "adjustment"
	default:
		return "unspecified"
	}
}

// Transaction is an immutable, append-only ledger record. An account's
// balance is the running sum of its transactions.
type Transaction struct {
	Seq     int64
	Account string
	Amount  money.Amount // signed: debits negative, credits positive
	Kind    Kind
	Memo    string
	At      time.Time
}

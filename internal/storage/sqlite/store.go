// Package sqlite persists engine snapshots in SQLite. A snapshot replaces
// the previous one wholesale inside a single transaction, so the stored
// state is always internally consistent.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/louisbranch/antaria.games/internal/blackjack"
	"github.com/louisbranch/antaria.games/internal/casino"
	"github.com/louisbranch/antaria.games/internal/challenge"
	"github.com/louisbranch/antaria.games/internal/ledger"
	"github.com/louisbranch/antaria.games/internal/money"
	sqlitemigrate "github.com/louisbranch/antaria.games/internal/platform/storage/sqlitemigrate"
	"github.com/louisbranch/antaria.games/internal/storage/sqlite/migrations"
)

// Store persists engine snapshots in SQLite.
type Store struct {
	sqlDB *sql.DB
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens a SQLite snapshot store and applies embedded migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := sqlitemigrate.ApplyMigrations(sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// SaveSnapshot replaces the stored snapshot with snap in one transaction.
func (s *Store) SaveSnapshot(ctx context.Context, snap casino.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin snapshot transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, table := range []string{"accounts", "transactions", "challenges", "rounds", "snapshot_meta"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	for _, acct := range snap.Accounts {
		house := 0
		if acct.House {
			house = 1
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO accounts (id, balance, house, created_at_ms) VALUES (?, ?, ?, ?)`,
			acct.ID, acct.Balance.Cents(), house, toMillis(acct.CreatedAt),
		); err != nil {
			return fmt.Errorf("insert account %s: %w", acct.ID, err)
		}
	}
	for _, txn := range snap.Transactions {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO transactions (seq, account, amount, kind, memo, at_ms) VALUES (?, ?, ?, ?, ?, ?)`,
			txn.Seq, txn.Account, txn.Amount.Cents(), int(txn.Kind), txn.Memo, toMillis(txn.At),
		); err != nil {
			return fmt.Errorf("insert transaction %d: %w", txn.Seq, err)
		}
	}
	for _, ch := range snap.Challenges {
		state, err := json.Marshal(ch)
		if err != nil {
			return fmt.Errorf("marshal challenge %s: %w", ch.ID, err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO challenges (id, state) VALUES (?, ?)`, ch.ID, string(state),
		); err != nil {
			return fmt.Errorf("insert challenge %s: %w", ch.ID, err)
		}
	}
	for _, round := range snap.Rounds {
		state, err := json.Marshal(round)
		if err != nil {
			return fmt.Errorf("marshal round %s: %w", round.ID, err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO rounds (id, state) VALUES (?, ?)`, round.ID, string(state),
		); err != nil {
			return fmt.Errorf("insert round %s: %w", round.ID, err)
		}
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO snapshot_meta (id, taken_at_ms) VALUES (1, ?)`, toMillis(snap.TakenAt),
	); err != nil {
		return fmt.Errorf("insert snapshot meta: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit snapshot: %w", err)
	}
	return nil
}

// LoadSnapshot reads the stored snapshot. The boolean is false when no
// snapshot has ever been saved.
func (s *Store) LoadSnapshot(ctx context.Context) (casino.Snapshot, bool, error) {
	var snap casino.Snapshot
	if err := ctx.Err(); err != nil {
		return snap, false, err
	}
	if s == nil || s.sqlDB == nil {
		return snap, false, fmt.Errorf("storage is not configured")
	}

	var takenAt int64
	err := s.sqlDB.QueryRowContext(ctx, `SELECT taken_at_ms FROM snapshot_meta WHERE id = 1`).Scan(&takenAt)
	if err == sql.ErrNoRows {
		return snap, false, nil
	}
	if err != nil {
		return snap, false, fmt.Errorf("read snapshot meta: %w", err)
	}
	snap.TakenAt = fromMillis(takenAt)

	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT id, balance, house, created_at_ms FROM accounts ORDER BY id`)
	if err != nil {
		return snap, false, fmt.Errorf("read accounts: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var acct ledger.Account
		var balance, createdAt int64
		var house int
		if err := rows.Scan(&acct.ID, &balance, &house, &createdAt); err != nil {
			return snap, false, fmt.Errorf("scan account: %w", err)
		}
		acct.Balance = money.FromCents(balance)
		acct.House = house != 0
		acct.CreatedAt = fromMillis(createdAt)
		snap.Accounts = append(snap.Accounts, acct)
	}
	if err := rows.Err(); err != nil {
		return snap, false, fmt.Errorf("iterate accounts: %w", err)
	}

	txRows, err := s.sqlDB.QueryContext(ctx,
		`SELECT seq, account, amount, kind, memo, at_ms FROM transactions ORDER BY seq`)
	if err != nil {
		return snap, false, fmt.Errorf("read transactions: %w", err)
	}
	defer txRows.Close()
	for txRows.Next() {
		var txn ledger.Transaction
		var amount, at int64
		var kind int
		if err := txRows.Scan(&txn.Seq, &txn.Account, &amount, &kind, &txn.Memo, &at); err != nil {
			return snap, false, fmt.Errorf("scan transaction: %w", err)
		}
		txn.Amount = money.FromCents(amount)
		txn.Kind = ledger.Kind(kind)
		txn.At = fromMillis(at)
		snap.Transactions = append(snap.Transactions, txn)
	}
	if err := txRows.Err(); err != nil {
		return snap, false, fmt.Errorf("iterate transactions: %w", err)
	}

	chRows, err := s.sqlDB.QueryContext(ctx, `SELECT state FROM challenges ORDER BY id`)
	if err != nil {
		return snap, false, fmt.Errorf("read challenges: %w", err)
	}
	defer chRows.Close()
	for chRows.Next() {
		var state string
		if err := chRows.Scan(&state); err != nil {
			return snap, false, fmt.Errorf("scan challenge: %w", err)
		}
		var ch challenge.Challenge
		if err := json.Unmarshal([]byte(state), &ch); err != nil {
			return snap, false, fmt.Errorf("unmarshal challenge: %w", err)
		}
		snap.Challenges = append(snap.Challenges, ch)
	}
	if err := chRows.Err(); err != nil {
		return snap, false, fmt.Errorf("iterate challenges: %w", err)
	}

	roundRows, err := s.sqlDB.QueryContext(ctx, `SELECT state FROM rounds ORDER BY id`)
	if err != nil {
		return snap, false, fmt.Errorf("read rounds: %w", err)
	}
	defer roundRows.Close()
	for roundRows.Next() {
		var state string
		if err := roundRows.Scan(&state); err != nil {
			return snap, false, fmt.Errorf("scan round: %w", err)
		}
		var round blackjack.RoundState
		if err := json.Unmarshal([]byte(state), &round); err != nil {
			return snap, false, fmt.Errorf("unmarshal round: %w", err)
		}
		snap.Rounds = append(snap.Rounds, round)
	}
	if err := roundRows.Err(); err != nil {
		return snap, false, fmt.Errorf("iterate rounds: %w", err)
	}

	return snap, true, nil
}

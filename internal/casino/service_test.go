package casino

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/louisbranch/antaria.games/internal/challenge"
	"github.com/louisbranch/antaria.games/internal/ledger"
	"github.com/louisbranch/antaria.games/internal/money"
	"github.com/louisbranch/antaria.games/internal/platform/errors"
)

type fixture struct {
	svc *Service
	led *ledger.Ledger
	now time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{now: time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)}
	f.led = ledger.New(ledger.Config{
		StarterGrant: ledger.DefaultStarterGrant,
		HouseFloat:   ledger.DefaultHouseFloat,
		Now:          func() time.Time { return f.now },
	})
	var seq atomic.Int64
	f.svc = New(Config{
		Ledger: f.led,
		Seed:   42,
		Now:    func() time.Time { return f.now },
		NewID: func() (string, error) {
			return fmt.Sprintf("id-%04d", seq.Add(1)), nil
		},
	})
	return f
}

// totalFunds sums every account balance. Once every account exists and
// no escrow is outstanding, settlements must keep this constant.
func (f *fixture) totalFunds() money.Amount {
	var total money.Amount
	for _, acct := range f.led.Accounts() {
		total += acct.Balance
	}
	return total
}

func TestBalanceGrantsStarterFunds(t *testing.T) {
	f := newFixture(t)
	if got := f.svc.Balance("alice"); got != money.FromDollars(5) {
		t.Errorf("Balance() = %v, want %v", got, money.FromDollars(5))
	}
}

func TestTip(t *testing.T) {
	f := newFixture(t)
	f.svc.Balance("alice")
	f.svc.Balance("bob")

	if err := f.svc.Tip("alice", "bob", money.FromDollars(2)); err != nil {
		t.Fatalf("Tip() error = %v", err)
	}
	if got := f.svc.Balance("alice"); got != money.FromDollars(3) {
		t.Errorf("alice balance = %v, want $3.00", got)
	}
	if got := f.svc.Balance("bob"); got != money.FromDollars(7) {
		t.Errorf("bob balance = %v, want $7.00", got)
	}

	err := f.svc.Tip("alice", "alice", money.FromDollars(1))
	if errors.CodeOf(err) != errors.CodeSelfTransfer {
		t.Errorf("self tip code = %v, want %v", errors.CodeOf(err), errors.CodeSelfTransfer)
	}
}

func TestPlaceWagerSettlesConsistently(t *testing.T) {
	f := newFixture(t)
	f.svc.Balance("alice")
	start := f.svc.Balance("alice")
	stake := money.FromCents(100)
	before := f.totalFunds()

	receipt, err := f.svc.PlaceWager(context.Background(), "alice", "coin", "heads", stake)
	if err != nil {
		t.Fatalf("PlaceWager() error = %v", err)
	}
	if receipt.Won {
		if receipt.Payout != stake+stake {
			t.Errorf("payout = %v, want %v", receipt.Payout, stake+stake)
		}
		if got := f.svc.Balance("alice"); got != start+stake {
			t.Errorf("balance = %v, want %v", got, start+stake)
		}
	} else {
		if receipt.Payout != 0 {
			t.Errorf("payout = %v on a loss, want 0", receipt.Payout)
		}
		if got := f.svc.Balance("alice"); got != start-stake {
			t.Errorf("balance = %v, want %v", got, start-stake)
		}
	}
	if receipt.Balance != f.svc.Balance("alice") {
		t.Errorf("receipt balance = %v, want %v", receipt.Balance, f.svc.Balance("alice"))
	}
	if after := f.totalFunds(); after != before {
		t.Errorf("total funds changed: %v -> %v", before, after)
	}
}

func TestPlaceWagerFractionalMultiplier(t *testing.T) {
	f := newFixture(t)
	f.svc.Balance("alice")
	start := f.svc.Balance("alice")

	// Soccer "miss" pays 3/2 of the stake; an odd stake rounds down.
	for i := 0; i < 20; i++ {
		receipt, err := f.svc.PlaceWager(context.Background(), "alice", "soccer", "miss", money.FromCents(5))
		if err != nil {
			t.Fatalf("PlaceWager() error = %v", err)
		}
		want := start - 5
		if receipt.Won {
			if receipt.Payout != 7 {
				t.Fatalf("payout = %v, want 7 (3/2 of 5, rounded down)", receipt.Payout)
			}
			want = start + 2
		}
		if receipt.Balance != want {
			t.Fatalf("balance = %v, want %v", receipt.Balance, want)
		}
		start = receipt.Balance
	}
}

func TestPlaceWagerValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.PlaceWager(ctx, "alice", "roulette", "red", 100)
	if errors.CodeOf(err) != errors.CodeInvalidGame {
		t.Errorf("unknown game code = %v, want %v", errors.CodeOf(err), errors.CodeInvalidGame)
	}
	_, err = f.svc.PlaceWager(ctx, "alice", "coin", "edge", 100)
	if errors.CodeOf(err) != errors.CodeInvalidPrediction {
		t.Errorf("bad prediction code = %v, want %v", errors.CodeOf(err), errors.CodeInvalidPrediction)
	}
	_, err = f.svc.PlaceWager(ctx, "alice", "coin", "heads", money.FromDollars(1000))
	if errors.CodeOf(err) != errors.CodeInsufficientFunds {
		t.Errorf("oversized stake code = %v, want %v", errors.CodeOf(err), errors.CodeInsufficientFunds)
	}
	if got := f.svc.Balance("alice"); got != money.FromDollars(5) {
		t.Errorf("balance = %v after rejected wagers, want $5.00", got)
	}
}

// playOut stands every hand until the round settles.
func playOut(t *testing.T, f *fixture, view RoundView, player string) RoundView {
	t.Helper()
	for !view.Finished {
		next, err := f.svc.ApplyAction(context.Background(), view.ID, player, ActionStand)
		if err != nil {
			t.Fatalf("ApplyAction(stand) error = %v", err)
		}
		view = next
	}
	return view
}

func TestBlackjackRoundConservesFunds(t *testing.T) {
	f := newFixture(t)
	f.svc.Balance("alice")
	before := f.totalFunds()

	for i := 0; i < 10; i++ {
		view, err := f.svc.StartRound(context.Background(), "alice", money.FromCents(50))
		if err != nil {
			t.Fatalf("StartRound() error = %v", err)
		}
		view = playOut(t, f, view, "alice")
		if view.DealerTotal == 0 {
			t.Fatalf("finished round has no dealer total: %+v", view)
		}
		for _, hand := range view.Hands {
			if hand.Result == "" {
				t.Fatalf("finished round hand has no result: %+v", hand)
			}
		}
		if after := f.totalFunds(); after != before {
			t.Fatalf("round %d broke conservation: %v -> %v", i, before, after)
		}
		if got := f.svc.Balance("alice"); got-money.FromDollars(5) != view.Net {
			t.Fatalf("net = %v but balance moved %v", view.Net, got-money.FromDollars(5))
		}
		// Reset for the next iteration.
		if view.Net != 0 {
			resetLedger(t, f, "alice", view.Net)
		}
	}
}

// resetLedger undoes a round's net movement so each iteration starts
// from the same balance.
func resetLedger(t *testing.T, f *fixture, account string, net money.Amount) {
	t.Helper()
	var err error
	if net > 0 {
		err = f.led.Transfer(account, ledger.HouseAccountID, net, "test reset")
	} else {
		err = f.led.Transfer(ledger.HouseAccountID, account, -net, "test reset")
	}
	if err != nil {
		t.Fatalf("reset transfer error = %v", err)
	}
}

func TestConcurrentRoundsPlayIndependently(t *testing.T) {
	f := newFixture(t)
	players := []string{"alice", "bob", "carol", "dave"}
	for _, p := range players {
		f.svc.Balance(p)
	}
	before := f.totalFunds()

	var wg sync.WaitGroup
	for _, p := range players {
		wg.Add(1)
		go func(player string) {
			defer wg.Done()
			view, err := f.svc.StartRound(context.Background(), player, money.FromCents(25))
			if err != nil {
				t.Errorf("StartRound(%s) error = %v", player, err)
				return
			}
			for !view.Finished {
				next, err := f.svc.ApplyAction(context.Background(), view.ID, player, ActionStand)
				if err != nil {
					t.Errorf("ApplyAction(%s) error = %v", player, err)
					return
				}
				view = next
			}
		}(p)
	}
	wg.Wait()

	if after := f.totalFunds(); after != before {
		t.Errorf("concurrent rounds broke conservation: %v -> %v", before, after)
	}
}

func TestBlackjackRoundOwnership(t *testing.T) {
	f := newFixture(t)
	f.svc.Balance("alice")

	view, err := f.svc.StartRound(context.Background(), "alice", money.FromCents(50))
	if err != nil {
		t.Fatalf("StartRound() error = %v", err)
	}
	if view.Finished {
		t.Skip("dealt a natural; ownership checks need a live round")
	}

	_, err = f.svc.ApplyAction(context.Background(), view.ID, "bob", ActionHit)
	if errors.CodeOf(err) != errors.CodeNotYourRound {
		t.Errorf("foreign action code = %v, want %v", errors.CodeOf(err), errors.CodeNotYourRound)
	}
	_, err = f.svc.GetRound(context.Background(), "id-missing", "alice")
	if errors.CodeOf(err) != errors.CodeRoundNotActive {
		t.Errorf("missing round code = %v, want %v", errors.CodeOf(err), errors.CodeRoundNotActive)
	}

	view = playOut(t, f, view, "alice")
	_, err = f.svc.ApplyAction(context.Background(), view.ID, "alice", ActionStand)
	if errors.CodeOf(err) != errors.CodeRoundNotActive {
		t.Errorf("settled round code = %v, want %v", errors.CodeOf(err), errors.CodeRoundNotActive)
	}
}

func TestStartRoundRequiresFunds(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.StartRound(context.Background(), "alice", money.FromDollars(100))
	if errors.CodeOf(err) != errors.CodeInsufficientFunds {
		t.Fatalf("code = %v, want %v", errors.CodeOf(err), errors.CodeInsufficientFunds)
	}
	if got := f.svc.Balance("alice"); got != money.FromDollars(5) {
		t.Errorf("balance = %v after rejected round, want $5.00", got)
	}
}

func TestDuelChallengeConservesFunds(t *testing.T) {
	f := newFixture(t)
	f.svc.Balance("alice")
	f.svc.Balance("bob")
	before := f.totalFunds()
	ctx := context.Background()

	view, err := f.svc.CreateChallenge(ctx, ChallengeParams{
		Challenger: "alice",
		Kind:       challenge.KindDuel,
		Stake:      money.FromCents(200),
	})
	if err != nil {
		t.Fatalf("CreateChallenge() error = %v", err)
	}
	if _, err := f.svc.AcceptChallenge(ctx, view.ID, "bob"); err != nil {
		t.Fatalf("AcceptChallenge() error = %v", err)
	}

	cur, _, err := f.svc.SubmitChallengeMove(ctx, view.ID, "alice")
	if err != nil {
		t.Fatalf("alice move error = %v", err)
	}
	if cur.Status != challenge.StatusAwaitingOpponentMove {
		t.Fatalf("status = %v, want %v", cur.Status, challenge.StatusAwaitingOpponentMove)
	}
	cur, _, err = f.svc.SubmitChallengeMove(ctx, view.ID, "bob")
	if err != nil {
		t.Fatalf("bob move error = %v", err)
	}
	if cur.Status != challenge.StatusResolved {
		t.Fatalf("status = %v, want %v", cur.Status, challenge.StatusResolved)
	}
	if after := f.totalFunds(); after != before {
		t.Errorf("duel broke conservation: %v -> %v", before, after)
	}

	a, b := f.svc.Balance("alice"), f.svc.Balance("bob")
	base := money.FromDollars(5)
	validOutcomes := (a == base+200 && b == base-200) || // alice won
		(a == base-200 && b == base+200) || // bob won
		(a == base && b == base) // tie pushed
	if !validOutcomes {
		t.Errorf("balances = %v/%v, not a valid duel settlement", a, b)
	}
}

func TestHouseChallengeResolvesInOneMove(t *testing.T) {
	f := newFixture(t)
	f.svc.Balance("alice")
	before := f.totalFunds()
	ctx := context.Background()

	view, err := f.svc.CreateChallenge(ctx, ChallengeParams{
		Challenger: "alice",
		Kind:       challenge.KindInstantHouse,
		Stake:      money.FromCents(100),
	})
	if err != nil {
		t.Fatalf("CreateChallenge() error = %v", err)
	}
	cur, value, err := f.svc.SubmitChallengeMove(ctx, view.ID, "alice")
	if err != nil {
		t.Fatalf("SubmitChallengeMove() error = %v", err)
	}
	if value < 1 || value > 6 {
		t.Errorf("rolled value = %d, want 1..6", value)
	}
	if cur.Status != challenge.StatusResolved {
		t.Fatalf("status = %v, want %v", cur.Status, challenge.StatusResolved)
	}
	if after := f.totalFunds(); after != before {
		t.Errorf("house challenge broke conservation: %v -> %v", before, after)
	}
}

func TestSweepExpiresOpenChallenge(t *testing.T) {
	f := newFixture(t)
	f.svc.Balance("alice")
	ctx := context.Background()

	view, err := f.svc.CreateChallenge(ctx, ChallengeParams{
		Challenger: "alice",
		Kind:       challenge.KindDuel,
		Stake:      money.FromCents(500),
	})
	if err != nil {
		t.Fatalf("CreateChallenge() error = %v", err)
	}
	if got := f.svc.Balance("alice"); got != 0 {
		t.Fatalf("balance = %v with stake escrowed, want 0", got)
	}

	f.now = f.now.Add(31 * time.Second)
	if n := f.svc.Sweep(f.now); n != 1 {
		t.Fatalf("Sweep() = %d, want 1", n)
	}
	if got := f.svc.Balance("alice"); got != money.FromDollars(5) {
		t.Errorf("balance = %v after refund, want $5.00", got)
	}
	_, err = f.svc.GetChallenge(ctx, view.ID)
	if errors.CodeOf(err) != errors.CodeChallengeNotActive {
		t.Errorf("expired lookup code = %v, want %v", errors.CodeOf(err), errors.CodeChallengeNotActive)
	}
}

func TestSnapshotRestoreRoundTrip(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.svc.Balance("alice")
	f.svc.Balance("bob")
	if err := f.svc.Tip("alice", "bob", money.FromCents(150)); err != nil {
		t.Fatalf("Tip() error = %v", err)
	}
	cv, err := f.svc.CreateChallenge(ctx, ChallengeParams{
		Challenger: "bob",
		Kind:       challenge.KindDuel,
		Stake:      money.FromCents(100),
	})
	if err != nil {
		t.Fatalf("CreateChallenge() error = %v", err)
	}
	rv, err := f.svc.StartRound(ctx, "alice", money.FromCents(50))
	if err != nil {
		t.Fatalf("StartRound() error = %v", err)
	}

	snap := f.svc.Snapshot()
	if len(snap.Challenges) != 1 {
		t.Fatalf("snapshot challenges = %d, want 1", len(snap.Challenges))
	}

	f2 := newFixture(t)
	f2.svc.Restore(snap)

	if got := f2.svc.Balance("alice"); got != f.svc.Balance("alice") {
		t.Errorf("restored alice balance = %v, want %v", got, f.svc.Balance("alice"))
	}
	if got := f2.svc.Balance("bob"); got != f.svc.Balance("bob") {
		t.Errorf("restored bob balance = %v, want %v", got, f2.svc.Balance("bob"))
	}
	if _, err := f2.svc.GetChallenge(ctx, cv.ID); err != nil {
		t.Errorf("restored challenge lookup error = %v", err)
	}
	if !rv.Finished {
		restored, err := f2.svc.GetRound(ctx, rv.ID, "alice")
		if err != nil {
			t.Fatalf("restored round lookup error = %v", err)
		}
		if len(restored.Hands) != len(rv.Hands) {
			t.Errorf("restored hands = %d, want %d", len(restored.Hands), len(rv.Hands))
		}
		// The restored round must still be playable to settlement.
		playOut(t, f2, restored, "alice")
	}
}

func TestParseAction(t *testing.T) {
	for name, want := range map[string]Action{
		"hit": ActionHit, "stand": ActionStand, "double": ActionDouble,
		"split": ActionSplit, "surrender": ActionSurrender, "insure": ActionInsure,
	} {
		got, err := ParseAction(name)
		if err != nil || got != want {
			t.Errorf("ParseAction(%q) = %v, %v", name, got, err)
		}
	}
	if _, err := ParseAction("fold"); errors.CodeOf(err) != errors.CodeInvalidAction {
		t.Errorf("ParseAction(fold) code = %v, want %v", errors.CodeOf(err), errors.CodeInvalidAction)
	}
}

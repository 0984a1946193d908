package money

import "testing"

func TestHalfAndRemainderConserve(t *testing.T) {
	tests := []int64{0, 1, 2, 3, 99, 100, 101, 1050}
	for _, cents := range tests {
		a := FromCents(cents)
		if a.Half()+a.Remainder() != a {
			t.Fatalf("half %d + remainder %d != %d", a.Half(), a.Remainder(), a)
		}
	}
}

func TestBlackjackBonus(t *testing.T) {
	if got := FromDollars(10).BlackjackBonus(); got != FromCents(1500) {
		t.Fatalf("expected $15.00 bonus on $10 bet, got %s", got)
	}
	// An odd-cent bet rounds the half-bet portion down.
	if got := FromCents(101).BlackjackBonus(); got != FromCents(151) {
		t.Fatalf("expected 151 cents, got %d", got)
	}
}

func TestString(t *testing.T) {
	tests := []struct {
		amount Amount
		want   string
	}{
		{FromCents(1050), "$10.50"},
		{FromCents(-25), "-$0.25"},
		{FromCents(0), "$0.00"},
		{FromDollars(5), "$5.00"},
	}
	for _, tt := range tests {
		if got := tt.amount.String(); got != tt.want {
			t.Fatalf("expected %q, got %q", tt.want, got)
		}
	}
}

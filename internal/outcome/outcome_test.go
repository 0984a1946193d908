package outcome

import (
	"errors"
	"math/rand"
	"strconv"
	"testing"
)

func testRng(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

func TestDrawIsDeterministicForSeed(t *testing.T) {
	games := []Game{GameDie, GameCoin, GameWheel, GameSlots, GameDarts, GameBowling, GameBasketball, GameSoccer}
	for _, game := range games {
		first, err := Draw(testRng(42), game)
		if err != nil {
			t.Fatalf("draw %s: %v", game, err)
		}
		second, err := Draw(testRng(42), game)
		if err != nil {
			t.Fatalf("draw %s: %v", game, err)
		}
		if first.Face != second.Face {
			t.Fatalf("%s: expected identical faces for one seed, got %q and %q", game, first.Face, second.Face)
		}
	}
}

func TestDrawFacesStayInRange(t *testing.T) {
	rng := testRng(7)
	for i := 0; i < 500; i++ {
		result, err := Draw(rng, GameDie)
		if err != nil {
			t.Fatalf("draw: %v", err)
		}
		value := result.Values[0]
		if value < 1 || value > 6 {
			t.Fatalf("die value out of range: %d", value)
		}
		if result.Face != strconv.Itoa(value) {
			t.Fatalf("face %q does not match value %d", result.Face, value)
		}
	}
}

func TestWheelFaces(t *testing.T) {
	rng := testRng(3)
	seen := make(map[string]bool)
	for i := 0; i < 500; i++ {
		result, err := Draw(rng, GameWheel)
		if err != nil {
			t.Fatalf("draw: %v", err)
		}
		switch result.Face {
		case "zero", "red", "black":
			seen[result.Face] = true
		default:
			t.Fatalf("unexpected wheel face %q", result.Face)
		}
	}
	for _, face := range []string{"zero", "red", "black"} {
		if !seen[face] {
			t.Fatalf("expected to observe %s in 500 spins", face)
		}
	}
}

func TestDrawRejectsUnknownGame(t *testing.T) {
	if _, err := Draw(testRng(1), GameUnspecified); !errors.Is(err, ErrInvalidGame) {
		t.Fatalf("expected ErrInvalidGame, got %v", err)
	}
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name       string
		game       Game
		prediction string
		face       string
		won        bool
		num, den   int64
	}{
		{"die exact hit", GameDie, "4", "4", true, 6, 1},
		{"die exact miss", GameDie, "4", "2", false, 0, 0},
		{"coin hit", GameCoin, "heads", "heads", true, 2, 1},
		{"wheel color", GameWheel, "red", "red", true, 2, 1},
		{"wheel zero", GameWheel, "zero", "zero", true, 14, 1},
		{"basketball score", GameBasketball, "score", "score", true, 3, 1},
		{"soccer miss pays three halves", GameSoccer, "miss", "miss", true, 3, 2},
		{"slots jackpot", GameSlots, "jackpot", "jackpot", true, 12, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			won, mult, err := Evaluate(tt.game, tt.prediction, Result{Game: tt.game, Face: tt.face})
			if err != nil {
				t.Fatalf("evaluate: %v", err)
			}
			if won != tt.won {
				t.Fatalf("expected won=%v, got %v", tt.won, won)
			}
			if won && (mult.Num != tt.num || mult.Den != tt.den) {
				t.Fatalf("expected %d/%d, got %d/%d", tt.num, tt.den, mult.Num, mult.Den)
			}
		})
	}
}

func TestEvaluateRejectsBadPrediction(t *testing.T) {
	_, _, err := Evaluate(GameCoin, "edge", Result{Game: GameCoin, Face: "heads"})
	if !errors.Is(err, ErrInvalidPrediction) {
		t.Fatalf("expected ErrInvalidPrediction, got %v", err)
	}

	_, _, err = Evaluate(GameDie, "7", Result{Game: GameDie, Face: "1"})
	if !errors.Is(err, ErrInvalidPrediction) {
		t.Fatalf("expected ErrInvalidPrediction, got %v", err)
	}
}

func TestParseGame(t *testing.T) {
	if game, err := ParseGame("coinflip"); err != nil || game != GameCoin {
		t.Fatalf("expected GameCoin, got %v (%v)", game, err)
	}
	if _, err := ParseGame("poker"); !errors.Is(err, ErrInvalidGame) {
		t.Fatalf("expected ErrInvalidGame, got %v", err)
	}
}

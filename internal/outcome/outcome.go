// Package outcome produces single-draw game outcomes from a uniform source.
//
// The generator is stateless given the RNG: every Draw is deterministic with
// respect to the provided *rand.Rand, which keeps game results replayable
// from a recorded seed.
package outcome

import (
	"errors"
	"math/rand"
	"strconv"
)

// Game identifies a single-draw game.
type Game int

const (
	// GameUnspecified represents an invalid game value.
	GameUnspecified Game = iota
	// GameDie is a single six-sided die, highest prediction wins.
	GameDie
	// GameCoin is a heads-or-tails flip.
	GameCoin
	// GameWheel is a 15-pocket wheel: one zero, seven red, seven black.
	GameWheel
	// GameSlots is a three-reel slot spin.
	GameSlots
	// GameDarts is a six-zone dart throw.
	GameDarts
	// GameBowling is a six-outcome bowling roll.
	GameBowling
	// GameBasketball is a score-or-miss shot.
	GameBasketball
	// GameSoccer is a goal, bar, or miss kick.
	GameSoccer
)

func (g Game) String() string {
	switch g {
	case GameDie:
		return "die"
	case GameCoin:
		return "coin"
	case GameWheel:
		return "wheel"
	case GameSlots:
		return "slots"
	case GameDarts:
		return "darts"
	case GameBowling:
		return "bowling"
	case GameBasketball:
		return "basketball"
	case GameSoccer:
		return "soccer"
	default:
		return "unspecified"
	}
}

// ParseGame maps a game name to its Game value.
func ParseGame(name string) (Game, error) {
	switch name {
	case "die", "dice":
		return GameDie, nil
	case "coin", "coinflip", "flip":
		return GameCoin, nil
	case "wheel":
		return GameWheel, nil
	case "slots", "slot":
		return GameSlots, nil
	case "darts":
		return GameDarts, nil
	case "bowling":
		return GameBowling, nil
	case "basketball":
		return GameBasketball, nil
	case "soccer":
		return GameSoccer, nil
	default:
		return GameUnspecified, ErrInvalidGame
	}
}

// ErrInvalidGame indicates an unknown game kind.
var ErrInvalidGame = errors.New("unknown game")

// ErrInvalidPrediction indicates a prediction outside the game's faces.
var ErrInvalidPrediction = errors.New("prediction not valid for game")

// Result captures one draw.
type Result struct {
	Game   Game
	Values []int  // raw uniform draws
	Face   string // canonical face label, e.g. "4", "heads", "goal"
}

// Multiplier is a rational payout multiplier applied to the full stake.
// A winning stake returns stake*Num/Den; the profit is that minus the stake.
type Multiplier struct {
	Num int64
	Den int64
}

// Draw produces one outcome for the given game using the provided RNG.
func Draw(rng *rand.Rand, game Game) (Result, error) {
	switch game {
	case GameDie, GameDarts, GameBowling:
		value := rng.Intn(6) + 1
		return Result{Game: game, Values: []int{value}, Face: strconv.Itoa(value)}, nil
	case GameCoin:
		value := rng.Intn(2)
		face := "heads"
		if value == 1 {
			face = "tails"
		}
		return Result{Game: game, Values: []int{value}, Face: face}, nil
	case GameWheel:
		pocket := rng.Intn(15)
		return Result{Game: game, Values: []int{pocket}, Face: wheelFace(pocket)}, nil
	case GameSlots:
		reels := []int{rng.Intn(7) + 1, rng.Intn(7) + 1, rng.Intn(7) + 1}
		face := "miss"
		if reels[0] == reels[1] && reels[1] == reels[2] {
			face = "jackpot"
		}
		return Result{Game: game, Values: reels, Face: face}, nil
	case GameBasketball:
		value := rng.Intn(5) + 1
		face := "miss"
		if value == 3 || value == 5 {
			face = "score"
		}
		return Result{Game: game, Values: []int{value}, Face: face}, nil
	case GameSoccer:
		value := rng.Intn(6) + 1
		face := "miss"
		switch {
		case value == 4 || value == 5:
			face = "goal"
		case value == 6:
			face = "bar"
		}
		return Result{Game: game, Values: []int{value}, Face: face}, nil
	default:
		return Result{}, ErrInvalidGame
	}
}

func wheelFace(pocket int) string {
	switch {
	case pocket == 0:
		return "zero"
	case pocket%2 == 1:
		return "red"
	default:
		return "black"
	}
}

// Evaluate scores a prediction against a drawn result. The returned
// multiplier applies to the full stake on a win and is zero-valued on a
// loss. ErrInvalidPrediction is returned before any draw-dependent logic so
// callers can validate predictions up front with a zero Result.
func Evaluate(game Game, prediction string, result Result) (bool, Multiplier, error) {
	mult, err := PredictionMultiplier(game, prediction)
	if err != nil {
		return false, Multiplier{}, err
	}
	if result.Face != prediction {
		return false, Multiplier{}, nil
	}
	return true, mult, nil
}

// PredictionMultiplier returns the win multiplier for a prediction, or
// ErrInvalidPrediction when the prediction is not a face of the game.
func PredictionMultiplier(game Game, prediction string) (Multiplier, error) {
	switch game {
	case GameDie, GameDarts, GameBowling:
		for face := 1; face <= 6; face++ {
			if prediction == strconv.Itoa(face) {
				return Multiplier{Num: 6, Den: 1}, nil
			}
		}
	case GameCoin:
		if prediction == "heads" || prediction == "tails" {
			return Multiplier{Num: 2, Den: 1}, nil
		}
	case GameWheel:
		switch prediction {
		case "red", "black":
			return Multiplier{Num: 2, Den: 1}, nil
		case "zero":
			return Multiplier{Num: 14, Den: 1}, nil
		}
	case GameSlots:
		if prediction == "jackpot" {
			return Multiplier{Num: 12, Den: 1}, nil
		}
	case GameBasketball:
		switch prediction {
		case "score":
			return Multiplier{Num: 3, Den: 1}, nil
		case "miss":
			return Multiplier{Num: 2, Den: 1}, nil
		}
	case GameSoccer:
		switch prediction {
		case "goal":
			return Multiplier{Num: 3, Den: 1}, nil
		case "bar":
			return Multiplier{Num: 6, Den: 1}, nil
		case "miss":
			return Multiplier{Num: 3, Den: 2}, nil
		}
	default:
		return Multiplier{}, ErrInvalidGame
	}
	return Multiplier{}, ErrInvalidPrediction
}

// RollDie draws a plain 1-6 die value. Challenge turns use it for the
// house's auto-rolled moves.
func RollDie(rng *rand.Rand) int {
	return rng.Intn(6) + 1
}

package casino

import (
	stderrors "errors"

	"github.com/louisbranch/antaria.games/internal/challenge"
	"github.com/louisbranch/antaria.games/internal/ledger"
	"github.com/louisbranch/antaria.games/internal/outcome"
	"github.com/louisbranch/antaria.games/internal/platform/errors"
)

// translateLedgerErr maps ledger sentinels to domain error codes.
func translateLedgerErr(err error) error {
	switch {
	case stderrors.Is(err, ledger.ErrInsufficientFunds):
		return errors.Wrap(errors.CodeInsufficientFunds, "insufficient funds", err)
	case stderrors.Is(err, ledger.ErrInvalidAmount):
		return errors.Wrap(errors.CodeInvalidAmount, "amount must be positive", err)
	case stderrors.Is(err, ledger.ErrSelfTransfer):
		return errors.Wrap(errors.CodeSelfTransfer, "cannot transfer to yourself", err)
	default:
		return errors.Wrap(errors.CodeUnknown, "ledger operation failed", err)
	}
}

// translateChallengeErr maps challenge sentinels to domain error codes.
// Ledger errors pass through the challenge registry unwrapped.
func translateChallengeErr(err error) error {
	switch {
	case stderrors.Is(err, challenge.ErrAlreadyAccepted):
		return errors.Wrap(errors.CodeAlreadyAccepted, "challenge already has an opponent", err)
	case stderrors.Is(err, challenge.ErrNotActive):
		return errors.Wrap(errors.CodeChallengeNotActive, "challenge is not active", err)
	case stderrors.Is(err, challenge.ErrNotYourTurn):
		return errors.Wrap(errors.CodeNotYourTurn, "not your turn to move", err)
	case stderrors.Is(err, challenge.ErrSelfAccept):
		return errors.Wrap(errors.CodeSelfAccept, "cannot accept your own challenge", err)
	case stderrors.Is(err, challenge.ErrNotChallenger):
		return errors.Wrap(errors.CodeNotChallenger, "only the challenger may cancel", err)
	case stderrors.Is(err, challenge.ErrInvalidChallenge):
		return errors.Wrap(errors.CodeInvalidChallenge, "invalid challenge parameters", err)
	case stderrors.Is(err, ledger.ErrInsufficientFunds),
		stderrors.Is(err, ledger.ErrInvalidAmount):
		return translateLedgerErr(err)
	default:
		return errors.Wrap(errors.CodeUnknown, "challenge operation failed", err)
	}
}

// translateOutcomeErr maps game validation sentinels to domain error
// codes.
func translateOutcomeErr(err error) error {
	switch {
	case stderrors.Is(err, outcome.ErrInvalidGame):
		return errors.Wrap(errors.CodeInvalidGame, "unknown game", err)
	case stderrors.Is(err, outcome.ErrInvalidPrediction):
		return errors.Wrap(errors.CodeInvalidPrediction, "prediction not valid for game", err)
	default:
		return errors.Wrap(errors.CodeUnknown, "outcome operation failed", err)
	}
}

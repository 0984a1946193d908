// Package errors provides structured error handling for the wagering core.
package errors

import "google.golang.org/grpc/codes"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Ledger errors
	CodeInsufficientFunds Code = "INSUFFICIENT_FUNDS"
	CodeInvalidAmount     Code = "INVALID_AMOUNT"
	CodeAccountNotFound   Code = "ACCOUNT_NOT_FOUND"
	CodeSelfTransfer      Code = "SELF_TRANSFER"

	// Challenge errors
	CodeAlreadyAccepted    Code = "ALREADY_ACCEPTED"
	CodeChallengeNotActive Code = "CHALLENGE_NOT_ACTIVE"
	CodeNotYourTurn        Code = "NOT_YOUR_TURN"
	CodeSelfAccept         Code = "SELF_ACCEPT"
	CodeNotChallenger      Code = "NOT_CHALLENGER"
	CodeInvalidChallenge   Code = "INVALID_CHALLENGE"

	// Card round errors
	CodeRoundNotActive Code = "ROUND_NOT_ACTIVE"
	CodeInvalidAction  Code = "INVALID_ACTION"
	CodeNotYourRound   Code = "NOT_YOUR_ROUND"

	// Outcome errors
	CodeInvalidGame       Code = "INVALID_GAME"
	CodeInvalidPrediction Code = "INVALID_PREDICTION"

	// Storage errors
	CodeNotFound Code = "NOT_FOUND"
)

// GRPCCode maps domain codes to gRPC status codes.
func (c Code) GRPCCode() codes.Code {
	switch c {
	// InvalidArgument - validation failures, bad input
	case CodeInvalidAmount,
		CodeInvalidChallenge,
		CodeInvalidGame,
		CodeInvalidPrediction,
		CodeSelfTransfer,
		CodeSelfAccept:
		return codes.InvalidArgument

	// FailedPrecondition - state doesn't allow operation
	case CodeInsufficientFunds,
		CodeAlreadyAccepted,
		CodeChallengeNotActive,
		CodeRoundNotActive,
		CodeInvalidAction:
		return codes.FailedPrecondition

	// PermissionDenied - caller is not a party to the wager
	case CodeNotYourTurn,
		CodeNotChallenger,
		CodeNotYourRound:
		return codes.PermissionDenied

	// NotFound
	case CodeAccountNotFound,
		CodeNotFound:
		return codes.NotFound

	default:
		return codes.Unknown
	}
}

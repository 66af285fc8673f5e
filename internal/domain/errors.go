package domain

import (
	"errors"
	"fmt"
)

// Kind classifies a failure so callers can decide whether to retry, fix their
// input, or ask an administrator to intervene.
type Kind string

const (
	KindValidation    Kind = "validation"
	KindState         Kind = "state"
	KindOracle        Kind = "oracle"
	KindAuthorization Kind = "authorization"
	KindNotFound      Kind = "not_found"
	KindInternal      Kind = "internal"
)

// Error is a sentinel error tagged with its Kind
type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string {
	return e.Msg
}

func newError(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

// Sentinel errors for governance operations
var (
	// ErrNotFound is returned when a requested record doesn't exist
	ErrNotFound = newError(KindNotFound, "not found")

	// Validation errors, rejected before any state change
	ErrZeroAmount          = newError(KindValidation, "amount must be greater than zero")
	ErrInvalidProposalKind = newError(KindValidation, "invalid proposal kind")
	ErrUnknownAsset        = newError(KindValidation, "unknown asset")
	ErrAssetExists         = newError(KindValidation, "asset already registered")
	ErrInvalidAsset        = newError(KindValidation, "invalid asset")
	ErrInvalidAddress      = newError(KindValidation, "invalid address")
	ErrInvalidBasisPoints  = newError(KindValidation, "invalid basis points")
	ErrInvalidRewardConfig = newError(KindValidation, "invalid reward config")
	ErrInvalidFeed         = newError(KindValidation, "invalid feed registration")
	ErrInvalidPrice        = newError(KindValidation, "invalid price")
	ErrNoVotingPower       = newError(KindValidation, "no voting power")
	ErrNotParticipant      = newError(KindValidation, "principal did not participate in proposal")

	// State errors, wrong-state transition attempts
	ErrVotingClosed           = newError(KindState, "voting closed")
	ErrVotingOpen             = newError(KindState, "voting still open")
	ErrAlreadyVoted           = newError(KindState, "already voted")
	ErrAlreadyFinalized       = newError(KindState, "proposal already finalized")
	ErrNotPassed              = newError(KindState, "proposal has not passed")
	ErrAlreadyExecuted        = newError(KindState, "proposal already executed")
	ErrNotRewardEligible      = newError(KindState, "proposal not reward eligible")
	ErrAlreadyRewarded        = newError(KindState, "reward already distributed")
	ErrCooldownActive         = newError(KindState, "reward cooldown active")
	ErrReentrantCall          = newError(KindState, "reentrant call")
	ErrInsufficientRewardPool = newError(KindState, "insufficient reward pool balance")
	ErrInsufficientBalance    = newError(KindState, "insufficient balance")

	// Oracle errors, retry later or configure a fallback
	ErrNoFeedConfigured = newError(KindOracle, "no feed configured")
	ErrPriceUnavailable = newError(KindOracle, "price unavailable")

	// Authorization errors
	ErrUnauthorized = newError(KindAuthorization, "unauthorized")
)

// KindOf returns the Kind of the first tagged error in err's chain.
// Untagged errors are internal.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindInternal
}

// IsKind reports whether err carries the given kind
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// Unauthorized builds an authorization error naming the missing role
func Unauthorized(principal fmt.Stringer, role Role) error {
	return fmt.Errorf("%w: %s lacks role %q", ErrUnauthorized, principal, role)
}

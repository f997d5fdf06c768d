package domain

import "errors"

var (
	// ErrInternalServerError will throw if any the Internal Server Error happen
	ErrInternalServerError = errors.New("Internal Server Error")
	// ErrNotFound will throw if the requested item is not exists
	ErrNotFound = errors.New("Your requested Item is not found")
	// ErrBadParamInput will throw if the given request-body or params is not valid
	ErrBadParamInput       = errors.New("Given Param is not valid")
	ErrInvalidNumberFormat = errors.New("invalid number format")

	// request error
	ErrInvalidAddress   = errors.New("Invalid address")
	ErrInvalidSignature = errors.New("Invalid signature")
)

// error kinds surfaced by every marketplace operation
var (
	ErrUnauthorized          = errors.New("unauthorized")
	ErrNotWhitelisted        = errors.New("pay token not whitelisted")
	ErrInvalidParameters     = errors.New("invalid parameters")
	ErrEntityNotActive       = errors.New("entity not active")
	ErrOutsideTimeWindow     = errors.New("outside time window")
	ErrBidTooLow             = errors.New("bid too low")
	ErrReserveNotMet         = errors.New("reserve not met")
	ErrInsufficientFunds     = errors.New("insufficient funds")
	ErrInsufficientAllowance = errors.New("insufficient allowance")
	ErrTransferRejected      = errors.New("transfer rejected")
	ErrDependencyUnresolved  = errors.New("dependency unresolved")
)

type ErrorKind string

const (
	KindUnknown               ErrorKind = "Unknown"
	KindUnauthorized          ErrorKind = "Unauthorized"
	KindNotWhitelisted        ErrorKind = "NotWhitelisted"
	KindInvalidParameters     ErrorKind = "InvalidParameters"
	KindEntityNotActive       ErrorKind = "EntityNotActive"
	KindOutsideTimeWindow     ErrorKind = "OutsideTimeWindow"
	KindBidTooLow             ErrorKind = "BidTooLow"
	KindReserveNotMet         ErrorKind = "ReserveNotMet"
	KindInsufficientFunds     ErrorKind = "InsufficientFunds"
	KindInsufficientAllowance ErrorKind = "InsufficientAllowance"
	KindTransferRejected      ErrorKind = "TransferRejected"
	KindDependencyUnresolved  ErrorKind = "DependencyUnresolved"
	KindNotFound              ErrorKind = "NotFound"
)

var errorKinds = []struct {
	err  error
	kind ErrorKind
}{
	{ErrUnauthorized, KindUnauthorized},
	{ErrNotWhitelisted, KindNotWhitelisted},
	{ErrInvalidParameters, KindInvalidParameters},
	{ErrBadParamInput, KindInvalidParameters},
	{ErrInvalidNumberFormat, KindInvalidParameters},
	{ErrInvalidAddress, KindInvalidParameters},
	{ErrEntityNotActive, KindEntityNotActive},
	{ErrOutsideTimeWindow, KindOutsideTimeWindow},
	{ErrBidTooLow, KindBidTooLow},
	{ErrReserveNotMet, KindReserveNotMet},
	{ErrInsufficientFunds, KindInsufficientFunds},
	{ErrInsufficientAllowance, KindInsufficientAllowance},
	{ErrTransferRejected, KindTransferRejected},
	{ErrDependencyUnresolved, KindDependencyUnresolved},
	{ErrNotFound, KindNotFound},
}

// KindOf classifies err by the first sentinel it wraps.
func KindOf(err error) ErrorKind {
	for _, k := range errorKinds {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}
	return KindUnknown
}

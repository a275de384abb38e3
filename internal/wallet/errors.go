package wallet

import "errors"

var (
	ErrProviderUnavailable = errors.New("no wallet provider available")
	ErrUserRejected        = errors.New("request rejected by wallet user")
	ErrInsufficientFunds   = errors.New("insufficient funds for payment")
	ErrSubmission          = errors.New("transaction submission failed")
	ErrConfirmationTimeout = errors.New("timed out waiting for confirmation")
	ErrTransactionReverted = errors.New("transaction reverted on chain")
	ErrNotConnected        = errors.New("wallet session not connected")
)

package domain

import "errors"

// Error taxonomy shared by the wallet, contract, pinning and blog packages.
// Infrastructure wraps the underlying cause with %w so callers can match
// both the sentinel and the original error.
var (
	// ErrProviderUnavailable means no wallet provider is configured or reachable.
	ErrProviderUnavailable = errors.New("wallet provider unavailable")

	// ErrUserRejected means the user declined to grant access or sign.
	ErrUserRejected = errors.New("request rejected by user")

	// ErrTransaction covers every other failure while submitting a transaction.
	ErrTransaction = errors.New("transaction failed")

	// ErrRead means a read-only contract call failed.
	ErrRead = errors.New("ledger read failed")

	// ErrUpload means the pinning request failed.
	ErrUpload = errors.New("image upload failed")

	// ErrValidation means required input is missing or malformed.
	ErrValidation = errors.New("validation failed")

	// ErrNoTipTarget means a tip was confirmed without a selected post.
	ErrNoTipTarget = errors.New("no post selected for tipping")
)

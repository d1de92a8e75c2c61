package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrForbidden indicates the actor lacks the capability required for the operation.
var ErrForbidden = errors.New("forbidden")

// ErrConflict indicates the operation is not valid in the resource's current state.
var ErrConflict = errors.New("conflict with current state")

// ErrInternal indicates an unexpected internal failure.
var ErrInternal = errors.New("internal error")

// ErrInsufficientFunds indicates the account's available balance cannot cover the operation.
var ErrInsufficientFunds = errors.New("insufficient available funds")

// ErrCurrencyMismatch indicates a ledger entry or payout currency does not match its account.
var ErrCurrencyMismatch = errors.New("currency mismatch")

// ErrInvariantViolation indicates a ledger consistency rule would be broken.
// Fatal to the operation; the write is aborted with no partial effect.
var ErrInvariantViolation = errors.New("ledger invariant violation")

// ErrReconciliation indicates cached account balances diverge from the replayed ledger.
// Never auto-corrected; surfaced to operators for a manual adjustment entry.
var ErrReconciliation = errors.New("reconciliation mismatch")

// ErrProviderSettlement indicates the external funding rail failed during settlement.
var ErrProviderSettlement = errors.New("provider settlement failure")

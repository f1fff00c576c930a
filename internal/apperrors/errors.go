package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrNoFeeStructure indicates that no fee particulars are defined for the
// student/term being allocated. It is a business outcome, not a failure:
// no transactions are written and the caller moves on.
var ErrNoFeeStructure = errors.New("no fee structure defined")

// ErrArithmeticInconsistency indicates an allocation would exceed a balance
// or the supplied amount. It is fatal to the allocation job and must never
// be clamped or logged-and-ignored.
var ErrArithmeticInconsistency = errors.New("allocation arithmetic inconsistency")

// ErrConflict indicates a concurrent allocation attempt was detected (lock
// contention or an idempotency race). The dispatcher retries it with
// backoff; it is never surfaced to the end user.
var ErrConflict = errors.New("concurrent allocation conflict")

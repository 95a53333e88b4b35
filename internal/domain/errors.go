package domain

import "errors"

var (
	// ErrNotFound is returned when a referenced entity does not exist.
	ErrNotFound = errors.New("entity not found")

	// ErrInsufficientBalance rejects a debit that would push a user's
	// balance below zero.
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrInvalidTransition marks a status change that is not allowed from
	// the entity's current status. Coordinators treat it as an idempotent
	// no-op so duplicate admin actions never double-apply.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrTxConflict is surfaced after the coordinator's bounded retry of a
	// serialization or deadlock failure is exhausted.
	ErrTxConflict = errors.New("transaction conflict, retry later")

	// ErrPriceUnavailable is returned by the price client when the live
	// lookup fails. Never surfaced to callers: deposit creation falls back
	// to the static per-asset rate.
	ErrPriceUnavailable = errors.New("asset price unavailable")
)

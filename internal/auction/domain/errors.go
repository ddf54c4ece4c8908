package domain

import (
	"errors"
	"fmt"
)

var (
	ErrItemNotFound     = errors.New("item not found")
	ErrPurchaseNotFound = errors.New("purchase not found")
	ErrBidOnOwnItem     = errors.New("you cannot bid on your own item")
	ErrItemNotSellable  = errors.New("item is not sellable")
	ErrBidTooLow        = errors.New("your bid is too low")
	ErrInvalidAmount    = errors.New("bid amount must be greater than or equal to 1")
	ErrInvalidItem      = errors.New("invalid item")
	ErrNoSuchPage       = errors.New("there is no such page")

	// ErrStorageFailure marks persistence errors raised inside the
	// atomic write. Distinct from validation errors and retryable by
	// the caller; the attempt left no partial state behind.
	ErrStorageFailure = errors.New("storage failure")
)

func fieldError(field, msg string) error {
	return fmt.Errorf("%w: %s: %s", ErrInvalidItem, field, msg)
}

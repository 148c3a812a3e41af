package interfaces

import "errors"

var (
	// ErrNotFound is returned when a lookup matches no document.
	ErrNotFound = errors.New("document not found")

	// ErrCreditUnavailable is returned by MarkUsed when the credit is no
	// longer in the available state.
	ErrCreditUnavailable = errors.New("credit is not available")

	// ErrListingUnavailable is returned by MarkSold when the listing is no
	// longer active.
	ErrListingUnavailable = errors.New("listing is not active")

	// ErrDuplicateReference is returned when an order with the same
	// checkout reference already exists.
	ErrDuplicateReference = errors.New("order reference already exists")
)

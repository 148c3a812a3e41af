package validators

import (
	"ecocreds/internal/services"
)

// ValidateCommitRequest checks a checkout commit before any money moves.
// The reference format and points floor are enforced by the
// checkout_reference and minor_units tags.
func ValidateCommitRequest(request *services.CommitRequest) ValidationErrors {
	return ValidateStruct(request)
}

// ValidateIssueCreditRequest checks an admin credit issuance. The optional
// vanity code must match the credit_code format.
func ValidateIssueCreditRequest(request *services.IssueCreditRequest) ValidationErrors {
	return ValidateStruct(request)
}

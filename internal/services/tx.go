package services

import "context"

// TxRunner runs fn inside a database transaction. Repository calls made
// with the callback's context participate in it; any error aborts the whole
// transaction. The MongoDB wrapper satisfies it in production.
type TxRunner interface {
	RunTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

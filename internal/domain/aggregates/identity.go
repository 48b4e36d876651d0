package aggregates

import (
	"context"
	"time"
)

var IdentityAggregateContract = Contract{
	Name:             "Customers.IdentityAggregate",
	WriteTxOwnership: WriteTxOwnedByAggregate,
	ReadPolicy:       ReadPolicyInvariantScoped,
	Notes:            "Creates and removes legal identity + customer together; removal detaches the customer's orders.",
}

// IdentityAggregate owns the 1:1 customer / legal identity pair.
//
// Write method failures return *aggregates.Error with codes:
// CodeValidation, CodeNotFound, CodeConflict, CodeRetryable, CodeInternal.
type IdentityAggregate interface {
	Aggregate

	// Register inserts a legal identity and its customer atomically.
	Register(ctx context.Context, in RegisterIdentityInput) (RegisterIdentityResult, error)

	// Remove deletes the pair and clears the customer reference on its orders.
	Remove(ctx context.Context, in RemoveIdentityInput) (RemoveIdentityResult, error)
}

type RegisterIdentityInput struct {
	TaxID        string
	LegalAddress string
	Phone        string
	CustomerName string
	RegisteredAt time.Time
}

type RegisterIdentityResult struct {
	TaxID        string
	CustomerName string
	Email        string
	LegalAddress string
	Phone        string
	RegisteredAt time.Time
}

type RemoveIdentityInput struct {
	TaxID string
}

type RemoveIdentityResult struct {
	TaxID          string
	DetachedOrders int64
}

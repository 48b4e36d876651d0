// Package aggregates contains infrastructure implementations of domain aggregate contracts.
//
// Implementations compose table-level repos from internal/data/repos and own
// the transaction boundary of every invariant-critical write: order placement
// with its stock decrements, order status changes, and the paired creation or
// removal of a customer and its legal identity. Domain events for those writes
// are appended to the outbox inside the same transaction.
package aggregates

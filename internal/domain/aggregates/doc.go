// Package aggregates defines the write boundaries of the order desk.
//
// Each aggregate contract names one unit of work whose invariants must hold
// atomically: registering or removing a customer together with its legal
// identity, and placing or re-statusing an order together with the stock it
// consumes. Contracts carry no persistence details.
package aggregates

// Package payment holds the settlement ledger.
//
// Every processor interaction leaves an Entry behind: a CustomerDeduction when
// money is taken from a customer, a DriverTransfer when it is forwarded to the
// driver's connected account, and a Withdraw when the driver pays out. Entries
// are never edited except to resolve a PENDING outcome and to flip the
// transferred flag that guarantees a deduction funds at most one transfer.
package payment

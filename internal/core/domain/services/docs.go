// Package services provides domain services that span more than one aggregate
// or carry a pluggable business rule.
//
// The package includes:
//   - CommissionPolicy: how much of a customer deduction the platform keeps
//   - TransferPlanner: the driver share a completed deduction pays out
package services

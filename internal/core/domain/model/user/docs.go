// Package user models marketplace accounts: their role (customer or driver)
// and the payment-processor account they are linked to.
package user

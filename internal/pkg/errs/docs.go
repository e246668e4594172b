// Package errs provides the typed errors shared by the marketplace core and its adapters.
//
// Each error kind follows the same shape:
//   - a sentinel variable (ErrValueIsRequired, ErrIllegalTransition, ...)
//   - a pointer struct carrying the details
//   - constructors with and without a cause
//   - Error() for the message and Unwrap() returning the sentinel
//
// Callers classify errors with errors.Is against the sentinels. The HTTP adapter
// maps the validation family, ErrObjectNotFound, ErrNotAuthorized,
// ErrIllegalTransition and ErrPaymentFailed to distinct status codes.
package errs

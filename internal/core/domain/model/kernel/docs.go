// Package kernel holds the value objects shared by every marketplace aggregate:
// identifiers (UUID), amounts (Money), addresses (Location) and the
// DomainEvent contract used to publish state changes.
package kernel

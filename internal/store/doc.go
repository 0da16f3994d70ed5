// Package store defines the persistence interfaces and common errors
// used by the application. Concrete implementations live under
// internal/platform (e.g. the PostgreSQL task store). Every interface
// method that reads or writes owner-scoped data takes the verified owner
// identity as an explicit parameter; implementations must never return
// rows belonging to a different owner.
package store

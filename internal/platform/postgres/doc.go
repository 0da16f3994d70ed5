// Package postgres contains the PostgreSQL implementations of the store
// interfaces. All queries on owner-scoped tables filter on the verified
// owner identity inside the same predicate as the row lookup, so rows
// belonging to other owners are indistinguishable from absent rows.
package postgres

// Package store defines the persistence interfaces consumed by the service
// layer, together with the sentinel errors implementations must return.
// The interfaces are capability contracts: the pipeline is written against
// them and never against a concrete backend, so the same logic works over
// PostgreSQL in production and in-memory fakes in tests.
package store

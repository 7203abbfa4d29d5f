// Package postgres implements the store interfaces over PostgreSQL,
// accessed through database/sql with the pgx driver. Database errors are
// translated to the sentinel errors defined in the store package so callers
// never depend on driver error types.
package postgres

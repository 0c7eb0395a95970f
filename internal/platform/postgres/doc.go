// Package postgres provides PostgreSQL-specific implementations for the data
// storage interfaces (repositories) defined in the internal/store package.
// It handles query construction (via squirrel), row locking for the review
// transaction, error mapping from pgconn codes to store sentinels and the
// embedded goose schema migrations.
package postgres

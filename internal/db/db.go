// Package db is a hand-written, sqlc-shaped persistence layer over pgx/v5:
// a DBTX interface satisfied by both *pgxpool.Pool and pgx.Tx, a Queries
// struct holding one, and one typed method per query. Mirrors the teacher's
// db.Querier convention (libs/go/services/dunning_service.go) without the
// code generator — every query here is written by hand against the schema
// in schema.sql.
package db

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is satisfied by *pgxpool.Pool, pgx.Conn, and pgx.Tx, so Queries works
// unmodified inside a transaction opened by a caller.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

// Tx is the subset of pgxpool.Pool needed to open and manage transactions.
type Tx interface {
	DBTX
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Queries is the concrete implementation of Querier against a DBTX.
type Queries struct {
	db DBTX
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

// WithTx returns a Queries bound to an open transaction, for callers that
// need several statements (Payment insert + Subscription update + Activity
// insert) to commit atomically, per spec §5's one-transaction-per-event rule.
func (q *Queries) WithTx(tx pgx.Tx) *Queries {
	return &Queries{db: tx}
}

// GetDBTX exposes the underlying handle so callers can open transactions
// directly (q.GetDBTX().(Tx).Begin(ctx)).
func (q *Queries) GetDBTX() DBTX {
	return q.db
}

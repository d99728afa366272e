package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/TheRudas/Final-Project-Brasilia2-sub000/internal/repository"
)

type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

type txKey struct{}

func txFromContext(ctx context.Context) DB {
	if tx, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		return tx
	}
	return nil
}

type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{
		pool: pool,
	}
}

// RunTx runs fn inside a serializable read-write transaction. The
// transaction rides in the context, so repository calls made with the
// ctx fn receives join it. A nested RunTx joins the outer transaction.
func (s *Store) RunTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if txFromContext(ctx) != nil {
		return fn(ctx)
	}

	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{
		IsoLevel:   pgx.Serializable,
		AccessMode: pgx.ReadWrite,
	})
	if err != nil {
		return err
	}

	defer tx.Rollback(ctx)

	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	return nil
}

// runOwnTx is used by atomic repository operations called outside RunTx.
func (s *Store) runOwnTx(ctx context.Context, fn func(ctx context.Context, db DB) error) error {
	if tx := txFromContext(ctx); tx != nil {
		return fn(ctx, tx)
	}

	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{
		IsoLevel:   pgx.Serializable,
		AccessMode: pgx.ReadWrite,
	})
	if err != nil {
		return err
	}

	defer tx.Rollback(ctx)

	if err := fn(ctx, tx); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (s *Store) handle(ctx context.Context) DB {
	if tx := txFromContext(ctx); tx != nil {
		return tx
	}
	return s.pool
}

func (s *Store) Catalog() repository.Catalog    { return &CatalogRepo{s: s} }
func (s *Store) Admin() repository.CatalogAdmin { return &AdminRepo{s: s} }
func (s *Store) Tickets() repository.Tickets    { return &TicketRepo{s: s} }
func (s *Store) Holds() repository.Holds        { return &HoldRepo{s: s} }
func (s *Store) Fares() repository.FareRules    { return &FareRepo{s: s} }

var _ repository.Store = (*Store)(nil)

package database

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

// Transaction executes fn within a database transaction. The transaction
// commits when fn returns nil and rolls back otherwise.
func Transaction(ctx context.Context, db bun.IDB, fn func(ctx context.Context, tx bun.Tx) error) error {
	if db == nil {
		return fmt.Errorf("database instance not initialized")
	}

	return db.RunInTx(ctx, nil, fn)
}

// TransactionWithResult executes a function within a transaction and returns a result
func TransactionWithResult[T any](ctx context.Context, db bun.IDB, fn func(ctx context.Context, tx bun.Tx) (T, error)) (T, error) {
	var result T
	err := Transaction(ctx, db, func(ctx context.Context, tx bun.Tx) error {
		var err error
		result, err = fn(ctx, tx)
		return err
	})
	return result, err
}

// Pagination represents pagination parameters
type Pagination struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Total  int `json:"total"`
}

// PaginationResult wraps paginated data with metadata
type PaginationResult[T any] struct {
	Data       []T        `json:"data"`
	Pagination Pagination `json:"pagination"`
}

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Paginate applies limit/offset to a query builder and returns results with metadata
func Paginate[T any](ctx context.Context, q *QueryBuilder[T], limit, offset int) (*PaginationResult[T], error) {
	if limit < 1 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	if offset < 0 {
		offset = 0
	}

	total, err := q.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get total count: %w", err)
	}

	data, err := q.Limit(limit).Offset(offset).All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get paginated data: %w", err)
	}
	if data == nil {
		data = []T{}
	}

	return &PaginationResult[T]{
		Data: data,
		Pagination: Pagination{
			Limit:  limit,
			Offset: offset,
			Total:  total,
		},
	}, nil
}

// FindByID is a helper to find a record by ID
func FindByID[T any](ctx context.Context, db bun.IDB, id any) (*T, error) {
	return Query[T](db).Where("id", id).First(ctx)
}

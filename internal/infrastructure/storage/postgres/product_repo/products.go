// Package product_repo provides the PostgreSQL implementation of the
// product repository.
package product_repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"stokpanel/internal/core/apperror"
	"stokpanel/internal/core/id"
	"stokpanel/internal/domain/product"
	"stokpanel/internal/infrastructure/storage/postgres"
)

const tableName = "products"

// Repo implements product.Repository on PostgreSQL.
type Repo struct {
	tm         *postgres.TxManager
	selectCols []string
}

var _ product.Repository = (*Repo)(nil)

func New(tm *postgres.TxManager) *Repo {
	return &Repo{
		tm:         tm,
		selectCols: postgres.ExtractDBColumns[product.Product](),
	}
}

// Builder returns a new squirrel builder with PostgreSQL placeholder format.
func (r *Repo) Builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func (r *Repo) baseSelect() squirrel.SelectBuilder {
	return r.Builder().
		Select(r.selectCols...).
		From(tableName)
}

// ListPage returns one page ordered newest-first. Pagination is keyset
// on (created_at, id); the id tiebreaker keeps the cursor stable when
// rows share a timestamp.
func (r *Repo) ListPage(ctx context.Context, limit int, after *product.Cursor) ([]*product.Product, error) {
	sql, args, err := r.pageQuery(limit, after).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list page: %w", err)
	}

	var items []*product.Product
	querier := r.tm.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &items, sql, args...); err != nil {
		return nil, fmt.Errorf("list page: %w", err)
	}
	return items, nil
}

func (r *Repo) pageQuery(limit int, after *product.Cursor) squirrel.SelectBuilder {
	q := r.baseSelect().
		OrderBy("created_at DESC", "id DESC").
		Limit(uint64(limit))

	if after != nil {
		q = q.Where(squirrel.Expr("(created_at, id) < (?, ?)", after.CreatedAt, after.ID))
	}
	return q
}

// ListAll returns the whole catalogue newest-first.
func (r *Repo) ListAll(ctx context.Context) ([]*product.Product, error) {
	sql, args, err := r.baseSelect().
		OrderBy("created_at DESC", "id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list all: %w", err)
	}

	var items []*product.Product
	querier := r.tm.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &items, sql, args...); err != nil {
		return nil, fmt.Errorf("list all: %w", err)
	}
	return items, nil
}

func (r *Repo) GetByID(ctx context.Context, productID id.ID) (*product.Product, error) {
	sql, args, err := r.baseSelect().
		Where(squirrel.Eq{"id": productID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	item := &product.Product{}
	querier := r.tm.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, item, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound(tableName, productID.String())
		}
		return nil, fmt.Errorf("get by id: %w", err)
	}
	return item, nil
}

// Create inserts a new product using its "db" tags.
func (r *Repo) Create(ctx context.Context, item *product.Product) error {
	sql, args, err := r.insertQuery(item).ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.tm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperror.NewConflict("product already exists").
				WithDetail("id", item.ID.String()).
				WithCause(err)
		}
		return fmt.Errorf("insert %s: %w", tableName, err)
	}
	return nil
}

func (r *Repo) Update(ctx context.Context, item *product.Product) error {
	sql, args, err := r.updateQuery(item).ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.tm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update %s: %w", tableName, err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound(tableName, item.ID.String())
	}
	return nil
}

func (r *Repo) Delete(ctx context.Context, productID id.ID) error {
	sql, args, err := r.Builder().
		Delete(tableName).
		Where(squirrel.Eq{"id": productID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	result, err := r.tm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("execute delete %s: %w", tableName, err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound(tableName, productID.String())
	}
	return nil
}

// BatchWrite applies up to product.BatchLimit operations atomically.
// All statements go out in one pgx batch inside one transaction; a
// single failed statement rolls back the whole set.
func (r *Repo) BatchWrite(ctx context.Context, ops []product.BatchOp) error {
	if len(ops) == 0 {
		return nil
	}
	if len(ops) > product.BatchLimit {
		return product.ErrBatchTooLarge
	}

	return r.tm.RunInTransaction(ctx, func(ctx context.Context) error {
		batch := &pgx.Batch{}
		for _, op := range ops {
			var q squirrel.Sqlizer
			switch op.Kind {
			case product.BatchCreate:
				q = r.insertQuery(op.Item)
			case product.BatchUpdate:
				q = r.updateQuery(op.Item)
			default:
				return fmt.Errorf("unknown batch op kind: %d", op.Kind)
			}
			sql, args, err := q.ToSql()
			if err != nil {
				return fmt.Errorf("build batch statement: %w", err)
			}
			batch.Queue(sql, args...)
		}

		results := r.tm.GetQuerier(ctx).SendBatch(ctx, batch)
		defer results.Close()
		for i := range ops {
			if _, err := results.Exec(); err != nil {
				return fmt.Errorf("batch op %d: %w", i, err)
			}
		}
		return nil
	})
}

func (r *Repo) insertQuery(item *product.Product) squirrel.InsertBuilder {
	return r.Builder().
		Insert(tableName).
		SetMap(r.columnData(item, false))
}

func (r *Repo) updateQuery(item *product.Product) squirrel.UpdateBuilder {
	return r.Builder().
		Update(tableName).
		SetMap(r.columnData(item, true)).
		Where(squirrel.Eq{"id": item.ID})
}

// columnData maps the product onto known columns, dropping the id for
// updates since it is never rewritten.
func (r *Repo) columnData(item *product.Product, excludeID bool) map[string]any {
	data := postgres.StructToMap(item)
	filtered := make(map[string]any, len(r.selectCols))
	for _, col := range r.selectCols {
		if excludeID && col == "id" {
			continue
		}
		if val, ok := data[col]; ok {
			filtered[col] = val
		}
	}
	return filtered
}

// Copyright (c) 2026 Shiori Press. All rights reserved.
// Author: contact@shiori.press

package category

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shiori-press/shiori/internal/platform/apperr"
	"github.com/shiori-press/shiori/internal/platform/database/schema"
	"github.com/shiori-press/shiori/internal/platform/dberr"
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (repository *PostgresRepository) List(context context.Context) ([]*Category, error) {
	query := fmt.Sprintf(`SELECT %s, %s, %s, %s, %s, %s FROM %s ORDER BY %s ASC`,
		schema.StoreCategory.ID, schema.StoreCategory.Key, schema.StoreCategory.Name,
		schema.StoreCategory.NameI18n, schema.StoreCategory.CreatedAt, schema.StoreCategory.UpdatedAt,
		schema.StoreCategory.Table, schema.StoreCategory.Name)

	rows, err := repository.db.Query(context, query)
	if err != nil {
		return nil, dberr.Wrap(err, "list_categories")
	}
	defer rows.Close()

	categories := make([]*Category, 0)
	for rows.Next() {
		c := &Category{}
		if err := rows.Scan(&c.ID, &c.Key, &c.Name, &c.NameI18n, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, dberr.Wrap(err, "scan_category")
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (repository *PostgresRepository) FindByID(context context.Context, id string) (*Category, error) {
	return repository.findBy(context, schema.StoreCategory.ID, id)
}

func (repository *PostgresRepository) FindByKey(context context.Context, key string) (*Category, error) {
	return repository.findBy(context, schema.StoreCategory.Key, key)
}

func (repository *PostgresRepository) findBy(context context.Context, column, value string) (*Category, error) {
	query := fmt.Sprintf(`SELECT %s, %s, %s, %s, %s, %s FROM %s WHERE %s = $1`,
		schema.StoreCategory.ID, schema.StoreCategory.Key, schema.StoreCategory.Name,
		schema.StoreCategory.NameI18n, schema.StoreCategory.CreatedAt, schema.StoreCategory.UpdatedAt,
		schema.StoreCategory.Table, column)

	c := &Category{}
	err := repository.db.QueryRow(context, query, value).Scan(
		&c.ID, &c.Key, &c.Name, &c.NameI18n, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Category")
		}
		return nil, dberr.Wrap(err, "get_category")
	}
	return c, nil
}

func (repository *PostgresRepository) Create(context context.Context, category *Category) error {
	query := fmt.Sprintf(`INSERT INTO %s (%s, %s, %s, %s) VALUES ($1, $2, $3, $4)`,
		schema.StoreCategory.Table,
		schema.StoreCategory.ID, schema.StoreCategory.Key,
		schema.StoreCategory.Name, schema.StoreCategory.NameI18n)

	_, err := repository.db.Exec(context, query, category.ID, category.Key, category.Name, category.NameI18n)
	if err != nil {
		var pgError *pgconn.PgError
		if errors.As(err, &pgError) && pgError.Code == pgerrcode.UniqueViolation {
			return apperr.Conflict("A category with this name already exists")
		}
		return dberr.Wrap(err, "create_category")
	}
	return nil
}

func (repository *PostgresRepository) Update(context context.Context, category *Category) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $1, %s = $2, %s = NOW() WHERE %s = $3`,
		schema.StoreCategory.Table,
		schema.StoreCategory.Name, schema.StoreCategory.NameI18n,
		schema.StoreCategory.UpdatedAt, schema.StoreCategory.ID)

	tag, err := repository.db.Exec(context, query, category.Name, category.NameI18n, category.ID)
	if err != nil {
		return dberr.Wrap(err, "update_category")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Category")
	}
	return nil
}

func (repository *PostgresRepository) Delete(context context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`,
		schema.StoreCategory.Table, schema.StoreCategory.ID)

	tag, err := repository.db.Exec(context, query, id)
	if err != nil {
		var pgError *pgconn.PgError
		if errors.As(err, &pgError) && pgError.Code == pgerrcode.ForeignKeyViolation {
			return apperr.StateConflict("The category is still referenced by releases")
		}
		return dberr.Wrap(err, "delete_category")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Category")
	}
	return nil
}

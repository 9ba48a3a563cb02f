// Copyright (c) 2026 Shiori Press. All rights reserved.
// Author: contact@shiori.press

package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shiori-press/shiori/internal/platform/apperr"
	"github.com/shiori-press/shiori/internal/platform/database/schema"
	"github.com/shiori-press/shiori/internal/platform/dberr"
)

// PostgresUserRepository implements UserRepository against users.account.
type PostgresUserRepository struct {
	db *pgxpool.Pool
}

// NewPostgresUserRepository creates a new PostgreSQL-backed UserRepository.
func NewPostgresUserRepository(db *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

// accountColumns is the canonical SELECT column list for account scans.
func accountColumns() string {
	return fmt.Sprintf("%s, %s, %s, %s, %s, %s, %s, %s",
		schema.UsersAccount.ID, schema.UsersAccount.Username, schema.UsersAccount.Email,
		schema.UsersAccount.PasswordHash, schema.UsersAccount.DisplayName, schema.UsersAccount.Role,
		schema.UsersAccount.CreatedAt, schema.UsersAccount.UpdatedAt)
}

func (repository *PostgresUserRepository) FindByID(context context.Context, id string) (*User, error) {
	return repository.findBy(context, schema.UsersAccount.ID, id)
}

func (repository *PostgresUserRepository) FindByEmail(context context.Context, email string) (*User, error) {
	return repository.findBy(context, schema.UsersAccount.Email, email)
}

func (repository *PostgresUserRepository) FindByUsername(context context.Context, username string) (*User, error) {
	return repository.findBy(context, schema.UsersAccount.Username, username)
}

func (repository *PostgresUserRepository) findBy(context context.Context, column, value string) (*User, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		accountColumns(), schema.UsersAccount.Table, column)

	user := &User{}
	err := repository.db.QueryRow(context, query, value).Scan(
		&user.ID, &user.Username, &user.Email,
		&user.PasswordHash, &user.DisplayName, &user.Role,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Account")
		}
		return nil, dberr.Wrap(err, "find_account")
	}
	return user, nil
}

func (repository *PostgresUserRepository) Create(context context.Context, user *User) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		schema.UsersAccount.Table,
		schema.UsersAccount.ID, schema.UsersAccount.Username, schema.UsersAccount.Email,
		schema.UsersAccount.PasswordHash, schema.UsersAccount.DisplayName, schema.UsersAccount.Role,
	)

	_, err := repository.db.Exec(context, query,
		user.ID, user.Username, user.Email,
		user.PasswordHash, user.DisplayName, string(user.Role),
	)
	if err != nil {
		return dberr.Wrap(err, "create_account")
	}
	return nil
}

func (repository *PostgresUserRepository) UpdatePassword(context context.Context, userID, newHash string) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $1, %s = NOW() WHERE %s = $2`,
		schema.UsersAccount.Table,
		schema.UsersAccount.PasswordHash, schema.UsersAccount.UpdatedAt, schema.UsersAccount.ID)

	tag, err := repository.db.Exec(context, query, newHash, userID)
	if err != nil {
		return dberr.Wrap(err, "update_password")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Account")
	}
	return nil
}

// Copyright (c) 2026 Shiori Press. All rights reserved.
// Author: contact@shiori.press

package book

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shiori-press/shiori/internal/platform/apperr"
	"github.com/shiori-press/shiori/internal/platform/database/schema"
	"github.com/shiori-press/shiori/internal/platform/dberr"
)

// # PostgreSQL Asset Repository

// assetRepository implements the [AssetRepository] interface using pgx.
//
// Asset rows are never deleted here. A record that loses its last release
// reference becomes an orphan and is reaped by the offline reconciliation
// job together with its object storage payload.
type assetRepository struct {
	pool *pgxpool.Pool
}

// NewAssetRepository constructs a PostgreSQL backed asset store.
func NewAssetRepository(pool *pgxpool.Pool) AssetRepository {
	return &assetRepository{pool: pool}
}

var (
	coverColumns = strings.Join(schema.StoreCoverAsset.Columns(), ", ")
	fileColumns  = strings.Join(schema.StoreFileAsset.Columns(), ", ")
)

/*
FindCover returns the cover asset record with the given ID.

Parameters:
  - context: context.Context
  - id: string (UUID)

Returns:
  - *CoverAsset: The hydrated record
  - error: apperr.NotFound if missing
*/
func (repository *assetRepository) FindCover(context context.Context, id string) (*CoverAsset, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		coverColumns, schema.StoreCoverAsset.Table, schema.StoreCoverAsset.ID)

	cover := &CoverAsset{}
	err := repository.pool.QueryRow(context, query, id).Scan(
		&cover.ID, &cover.ObjectKey, &cover.ContentType,
		&cover.Blurhash, &cover.AspectRatio, &cover.CreatedAt, &cover.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Cover asset")
		}
		return nil, fmt.Errorf("postgres: failed to find cover asset: %w", err)
	}
	return cover, nil
}

/*
CreateCover persists a new cover asset record.

Parameters:
  - context: context.Context
  - cover: *CoverAsset

Returns:
  - error: dberr-mapped constraint failures
*/
func (repository *assetRepository) CreateCover(context context.Context, cover *CoverAsset) error {
	query := fmt.Sprintf(`INSERT INTO %s (%s, %s, %s, %s, %s) VALUES ($1, $2, $3, $4, $5)`,
		schema.StoreCoverAsset.Table,
		schema.StoreCoverAsset.ID, schema.StoreCoverAsset.ObjectKey,
		schema.StoreCoverAsset.ContentType, schema.StoreCoverAsset.Blurhash,
		schema.StoreCoverAsset.AspectRatio)

	_, err := repository.pool.Exec(context, query,
		cover.ID, cover.ObjectKey, cover.ContentType, cover.Blurhash, cover.AspectRatio)
	return dberr.Wrap(err, "create_cover_asset")
}

/*
UpdateCover overwrites the metadata of an existing cover asset.

Parameters:
  - context: context.Context
  - cover: *CoverAsset (Target ID and new metadata)

Returns:
  - error: apperr.NotFound if missing
*/
func (repository *assetRepository) UpdateCover(context context.Context, cover *CoverAsset) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $1, %s = $2, %s = $3, %s = NOW()
		WHERE %s = $4
	`, schema.StoreCoverAsset.Table,
		schema.StoreCoverAsset.ContentType, schema.StoreCoverAsset.Blurhash,
		schema.StoreCoverAsset.AspectRatio, schema.StoreCoverAsset.UpdatedAt,
		schema.StoreCoverAsset.ID)

	result, err := repository.pool.Exec(context, query,
		cover.ContentType, cover.Blurhash, cover.AspectRatio, cover.ID)
	if err != nil {
		return fmt.Errorf("postgres: failed to update cover asset: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound("Cover asset")
	}
	return nil
}

/*
AttachCover repoints an unpublished release at a cover asset.

Description: The status predicate guards immutability. Published releases
never change their asset reference through this path.

Parameters:
  - context: context.Context
  - releaseID: string (UUID)
  - coverID: string (UUID)

Returns:
  - error: apperr.StateConflict if the release is not a draft
*/
func (repository *assetRepository) AttachCover(context context.Context, releaseID, coverID string) error {
	return repository.attach(context, schema.StoreRelease.CoverAssetID, releaseID, coverID, "attach_cover")
}

/*
FindFile returns the file asset record with the given ID.

Parameters:
  - context: context.Context
  - id: string (UUID)

Returns:
  - *FileAsset: The hydrated record
  - error: apperr.NotFound if missing
*/
func (repository *assetRepository) FindFile(context context.Context, id string) (*FileAsset, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		fileColumns, schema.StoreFileAsset.Table, schema.StoreFileAsset.ID)

	file := &FileAsset{}
	err := repository.pool.QueryRow(context, query, id).Scan(
		&file.ID, &file.ObjectKey, &file.ContentType,
		&file.FileName, &file.CreatedAt, &file.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("File asset")
		}
		return nil, fmt.Errorf("postgres: failed to find file asset: %w", err)
	}
	return file, nil
}

/*
CreateFile persists a new file asset record.

Parameters:
  - context: context.Context
  - file: *FileAsset

Returns:
  - error: dberr-mapped constraint failures
*/
func (repository *assetRepository) CreateFile(context context.Context, file *FileAsset) error {
	query := fmt.Sprintf(`INSERT INTO %s (%s, %s, %s, %s) VALUES ($1, $2, $3, $4)`,
		schema.StoreFileAsset.Table,
		schema.StoreFileAsset.ID, schema.StoreFileAsset.ObjectKey,
		schema.StoreFileAsset.ContentType, schema.StoreFileAsset.FileName)

	_, err := repository.pool.Exec(context, query,
		file.ID, file.ObjectKey, file.ContentType, file.FileName)
	return dberr.Wrap(err, "create_file_asset")
}

/*
UpdateFile overwrites the metadata of an existing file asset.

Parameters:
  - context: context.Context
  - file: *FileAsset (Target ID and new metadata)

Returns:
  - error: apperr.NotFound if missing
*/
func (repository *assetRepository) UpdateFile(context context.Context, file *FileAsset) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $1, %s = $2, %s = NOW()
		WHERE %s = $3
	`, schema.StoreFileAsset.Table,
		schema.StoreFileAsset.ContentType, schema.StoreFileAsset.FileName,
		schema.StoreFileAsset.UpdatedAt, schema.StoreFileAsset.ID)

	result, err := repository.pool.Exec(context, query,
		file.ContentType, file.FileName, file.ID)
	if err != nil {
		return fmt.Errorf("postgres: failed to update file asset: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound("File asset")
	}
	return nil
}

/*
AttachFile repoints an unpublished release at a file asset.

Parameters:
  - context: context.Context
  - releaseID: string (UUID)
  - fileID: string (UUID)

Returns:
  - error: apperr.StateConflict if the release is not a draft
*/
func (repository *assetRepository) AttachFile(context context.Context, releaseID, fileID string) error {
	return repository.attach(context, schema.StoreRelease.FileAssetID, releaseID, fileID, "attach_file")
}

// attach repoints one asset reference column of a draft release. The status
// predicate guards immutability for both asset kinds.
func (repository *assetRepository) attach(context context.Context, column, releaseID, assetID, action string) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $1, %s = NOW()
		WHERE %s = $2 AND %s = 'unpublished'
	`, schema.StoreRelease.Table, column, schema.StoreRelease.UpdatedAt,
		schema.StoreRelease.ID, schema.StoreRelease.Status)

	result, err := repository.pool.Exec(context, query, assetID, releaseID)
	if err != nil {
		return dberr.Wrap(err, action)
	}
	if result.RowsAffected() == 0 {
		return apperr.StateConflict("The release is no longer editable")
	}
	return nil
}

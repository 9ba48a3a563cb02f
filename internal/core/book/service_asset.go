// Copyright (c) 2026 Shiori Press. All rights reserved.
// Author: contact@shiori.press

package book

import (
	"context"
	"mime"
	"net/url"
	"path"

	"github.com/shiori-press/shiori/internal/platform/apperr"
	"github.com/shiori-press/shiori/internal/platform/ctxutil"
	"github.com/shiori-press/shiori/pkg/imagemeta"
	"github.com/shiori-press/shiori/pkg/pointer"
	"github.com/shiori-press/shiori/pkg/uuid"
)

// # Upload Rules

// allowedCoverTypes is the closed set of MIME types a cover upload may carry.
var allowedCoverTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// allowedFileTypes maps accepted ebook MIME types to fallback extensions.
var allowedFileTypes = map[string]string{
	"application/epub+zip": ".epub",
	"application/pdf":      ".pdf",
}

// # Asset Attachment

/*
UploadCover stores a new cover image binary and attaches it to the book's
draft, applying the structural sharing rules.

Description: Covers are shared across releases until an edit diverges them.
If the draft still points at the asset of the last published release (or at
nothing), a brand-new asset record is created so published history keeps its
own binary untouched. If the draft already owns a diverged asset, the record
and its binary are overwritten in place. When the active release is itself
published, the upload clones it into a fresh draft first, exactly like a
metadata edit.

The binary reaches object storage before any metadata commits; a failed
metadata write can at worst orphan an unreferenced object.

Parameters:
  - context: context.Context
  - principal: Principal (Owner or admin)
  - bookID: string (UUID)
  - payload: []byte (Raw image body)
  - contentType: string (Declared MIME type)

Returns:
  - *CoverInfo: Asset ID, presigned URL, blurhash, and aspect ratio
  - error: Validation, authorization, or storage failures
*/
func (service *Service) UploadCover(context context.Context, principal Principal, bookID string, payload []byte, contentType string) (*CoverInfo, error) {
	if _, ok := allowedCoverTypes[contentType]; !ok {
		return nil, apperr.ValidationError("Unsupported cover image type", apperr.FieldError{
			Field:   FieldCover,
			Message: "Content type must be image/jpeg, image/png, or image/webp",
		})
	}
	if len(payload) == 0 {
		return nil, apperr.ValidationError("Empty upload body", apperr.FieldError{
			Field:   FieldCover,
			Message: "The request body must contain the image binary",
		})
	}

	// Decode before touching any state; also yields the display metadata
	meta, err := imagemeta.FromBytes(payload)
	if err != nil {
		return nil, apperr.ValidationError("Cover image could not be decoded", apperr.FieldError{
			Field:   FieldCover,
			Message: "The payload is not a valid image of the declared type",
		})
	}

	service.locks.Lock(bookID)
	defer service.locks.Unlock(bookID)

	book, err := service.loadOwned(context, principal, bookID)
	if err != nil {
		return nil, err
	}

	active := book.ActiveRelease()

	// In-place path: the draft already owns an asset no published release shares
	if active.Status == ReleaseUnpublished && !service.coverShared(book, active) {
		cover, err := service.assetRepo.FindCover(context, *active.CoverAssetID)
		if err != nil {
			return nil, err
		}
		cover.ContentType = contentType
		cover.Blurhash = meta.Blurhash
		cover.AspectRatio = meta.AspectRatio

		if err := service.storage.Upload(context, cover.ObjectKey, contentType, payload); err != nil {
			return nil, apperr.Internal(err)
		}
		if err := service.assetRepo.UpdateCover(context, cover); err != nil {
			return nil, err
		}
		return service.coverInfo(context, cover), nil
	}

	// Divergence path: mint a new asset so shared history keeps its binary
	cover := &CoverAsset{
		ID:          uuid.New(),
		ContentType: contentType,
		Blurhash:    meta.Blurhash,
		AspectRatio: meta.AspectRatio,
	}
	cover.ObjectKey = "covers/" + cover.ID

	if err := service.storage.Upload(context, cover.ObjectKey, contentType, payload); err != nil {
		return nil, apperr.Internal(err)
	}
	if err := service.assetRepo.CreateCover(context, cover); err != nil {
		return nil, err
	}

	if active.Status == ReleasePublished {
		// Copy-on-write: the upload is an edit against a published release
		clone := active.Clone(uuid.New(), len(book.Releases))
		clone.CoverAssetID = &cover.ID
		if err := service.bookRepo.AppendRelease(context, bookID, book.Version, clone); err != nil {
			return nil, err
		}
	} else {
		if err := service.assetRepo.AttachCover(context, active.ID, cover.ID); err != nil {
			return nil, err
		}
	}

	return service.coverInfo(context, cover), nil
}

/*
UploadFile stores a new ebook binary and attaches it to the book's draft.

Description: Follows the same structural sharing and copy-on-write rules as
[Service.UploadCover]. The original filename is read from the
Content-Disposition header when present and falls back to a name derived
from the content type.

Parameters:
  - context: context.Context
  - principal: Principal (Owner or admin)
  - bookID: string (UUID)
  - payload: []byte (Raw file body)
  - contentType: string (Declared MIME type)
  - contentDisposition: string (Optional header carrying the filename)

Returns:
  - *FileInfo: Asset ID, filename, and presigned URL
  - error: Validation, authorization, or storage failures
*/
func (service *Service) UploadFile(context context.Context, principal Principal, bookID string, payload []byte, contentType, contentDisposition string) (*FileInfo, error) {
	extension, ok := allowedFileTypes[contentType]
	if !ok {
		return nil, apperr.ValidationError("Unsupported book file type", apperr.FieldError{
			Field:   FieldFile,
			Message: "Content type must be application/epub+zip or application/pdf",
		})
	}
	if len(payload) == 0 {
		return nil, apperr.ValidationError("Empty upload body", apperr.FieldError{
			Field:   FieldFile,
			Message: "The request body must contain the file binary",
		})
	}

	fileName := fileNameFromDisposition(contentDisposition, extension)

	service.locks.Lock(bookID)
	defer service.locks.Unlock(bookID)

	book, err := service.loadOwned(context, principal, bookID)
	if err != nil {
		return nil, err
	}

	active := book.ActiveRelease()

	if active.Status == ReleaseUnpublished && !service.fileShared(book, active) {
		file, err := service.assetRepo.FindFile(context, *active.FileAssetID)
		if err != nil {
			return nil, err
		}
		file.ContentType = contentType
		file.FileName = fileName

		if err := service.storage.Upload(context, file.ObjectKey, contentType, payload); err != nil {
			return nil, apperr.Internal(err)
		}
		if err := service.assetRepo.UpdateFile(context, file); err != nil {
			return nil, err
		}
		return service.fileInfo(context, file), nil
	}

	file := &FileAsset{
		ID:          uuid.New(),
		ContentType: contentType,
		FileName:    fileName,
	}
	file.ObjectKey = "files/" + file.ID

	if err := service.storage.Upload(context, file.ObjectKey, contentType, payload); err != nil {
		return nil, apperr.Internal(err)
	}
	if err := service.assetRepo.CreateFile(context, file); err != nil {
		return nil, err
	}

	if active.Status == ReleasePublished {
		clone := active.Clone(uuid.New(), len(book.Releases))
		clone.FileAssetID = &file.ID
		if err := service.bookRepo.AppendRelease(context, bookID, book.Version, clone); err != nil {
			return nil, err
		}
	} else {
		if err := service.assetRepo.AttachFile(context, active.ID, file.ID); err != nil {
			return nil, err
		}
	}

	return service.fileInfo(context, file), nil
}

// # Sharing Detection

// coverShared reports whether the draft's cover is still structurally shared:
// no asset attached yet, or the same asset the latest published release uses.
func (service *Service) coverShared(book *Book, draft *Release) bool {
	if draft.CoverAssetID == nil {
		return true
	}
	published := book.LatestPublishedRelease()
	return published != nil && pointer.Equal(draft.CoverAssetID, published.CoverAssetID)
}

// fileShared mirrors [Service.coverShared] for the ebook file reference.
func (service *Service) fileShared(book *Book, draft *Release) bool {
	if draft.FileAssetID == nil {
		return true
	}
	published := book.LatestPublishedRelease()
	return published != nil && pointer.Equal(draft.FileAssetID, published.FileAssetID)
}

// # Helpers

// coverInfo projects an asset record into its client-facing shape with a
// best-effort presigned URL.
func (service *Service) coverInfo(context context.Context, cover *CoverAsset) *CoverInfo {
	info := &CoverInfo{
		ID:          cover.ID,
		Blurhash:    cover.Blurhash,
		AspectRatio: cover.AspectRatio,
	}
	url, err := service.storage.DownloadURL(context, cover.ObjectKey)
	if err != nil {
		ctxutil.GetLogger(context).Warn("failed to presign cover url", "asset_id", cover.ID, "error", err)
		return info
	}
	info.URL = url
	return info
}

// fileInfo projects a file asset record into its client-facing shape.
func (service *Service) fileInfo(context context.Context, file *FileAsset) *FileInfo {
	info := &FileInfo{
		ID:       file.ID,
		FileName: file.FileName,
	}
	url, err := service.storage.DownloadURL(context, file.ObjectKey)
	if err != nil {
		ctxutil.GetLogger(context).Warn("failed to presign file url", "asset_id", file.ID, "error", err)
		return info
	}
	info.URL = url
	return info
}

// fileNameFromDisposition extracts the client filename from a
// Content-Disposition header, stripping any path component and decoding
// percent-escapes. When the header is absent or unparsable it falls back to
// a generic name with the extension matching the content type.
func fileNameFromDisposition(header, fallbackExtension string) string {
	if header != "" {
		if _, params, err := mime.ParseMediaType(header); err == nil {
			name := params["filename"]
			if decoded, err := url.PathUnescape(name); err == nil {
				name = decoded
			}
			name = path.Base(name)
			if name != "" && name != "." && name != "/" {
				return name
			}
		}
	}
	return "book" + fallbackExtension
}

// Copyright (c) 2026 Shiori Press. All rights reserved.
// Author: contact@shiori.press

package book

import (
	"io"
	"net/http"

	"github.com/shiori-press/shiori/internal/platform/apperr"
	"github.com/shiori-press/shiori/internal/platform/constants"
	requestutil "github.com/shiori-press/shiori/internal/platform/request"
	"github.com/shiori-press/shiori/internal/platform/respond"
)

// # Publication Endpoint

// publishReleaseRequest defines the inbound JSON schema for a publication.
type publishReleaseRequest struct {
	ReleaseName  string `json:"release_name"`
	ReleaseNotes string `json:"release_notes"`
}

/*
POST /api/v1/books/{id}/publish.

Description: Freezes the active draft into a new published release. For a
book that is already live this pushes the new version to readers; for a book
that is not yet live it performs the full go-live and is therefore limited
to admins by the state machine.

Request:
  - id: string (UUID)
  - body: { release_name: string, release_notes: string }

Response:
  - 200: Release: The freshly published release
  - 400: Validation: Missing release name or incomplete book content
  - 401: ErrUnauthorized: Missing or invalid token
  - 403: NOT_ALLOWED: Caller's role cannot take the book live
  - 404: ErrNotFound: Book not found
  - 409: STATE_CONFLICT: Active release already published
*/
func (handler *Handler) publishRelease(writer http.ResponseWriter, request *http.Request) {
	bookID := requestutil.ID(request, "id")

	var input publishReleaseRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	release, err := handler.service.PublishRelease(request.Context(), principalFrom(request), bookID, input.ReleaseName, input.ReleaseNotes)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, release)
}

// # Upload Endpoints

/*
PUT /api/v1/books/{id}/cover.

Description: Uploads a cover image as the raw request body. The declared
Content-Type selects the format; the response carries the derived blurhash
and aspect ratio alongside a short-lived download URL.

Request:
  - id: string (UUID)
  - Content-Type: image/jpeg | image/png | image/webp
  - body: Raw image binary (max 10 MiB)

Response:
  - 200: CoverInfo: The stored asset
  - 400: Validation: Unsupported type, empty or undecodable payload
  - 401: ErrUnauthorized: Missing or invalid token
  - 403: ErrForbidden: Caller does not own the book
  - 404: ErrNotFound: Book not found
*/
func (handler *Handler) uploadCover(writer http.ResponseWriter, request *http.Request) {
	bookID := requestutil.ID(request, "id")

	payload, err := readUploadBody(writer, request, constants.MaxCoverUploadBytes)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	info, err := handler.service.UploadCover(
		request.Context(),
		principalFrom(request),
		bookID,
		payload,
		request.Header.Get(constants.HeaderContentType),
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, info)
}

/*
PUT /api/v1/books/{id}/file.

Description: Uploads the ebook binary as the raw request body. The original
filename is carried in the Content-Disposition header.

Request:
  - id: string (UUID)
  - Content-Type: application/epub+zip | application/pdf
  - Content-Disposition: attachment; filename="..." (optional)
  - body: Raw file binary (max 100 MiB)

Response:
  - 200: FileInfo: The stored asset
  - 400: Validation: Unsupported type or empty payload
  - 401: ErrUnauthorized: Missing or invalid token
  - 403: ErrForbidden: Caller does not own the book
  - 404: ErrNotFound: Book not found
*/
func (handler *Handler) uploadFile(writer http.ResponseWriter, request *http.Request) {
	bookID := requestutil.ID(request, "id")

	payload, err := readUploadBody(writer, request, constants.MaxFileUploadBytes)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	info, err := handler.service.UploadFile(
		request.Context(),
		principalFrom(request),
		bookID,
		payload,
		request.Header.Get(constants.HeaderContentType),
		request.Header.Get(constants.HeaderContentDisposition),
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, info)
}

// readUploadBody drains the raw request body under a hard size cap.
// Exceeding the cap aborts the read mid-stream and maps to a 400.
func readUploadBody(writer http.ResponseWriter, request *http.Request, maxBytes int64) ([]byte, error) {
	request.Body = http.MaxBytesReader(writer, request.Body, maxBytes)
	payload, err := io.ReadAll(request.Body)
	if err != nil {
		return nil, apperr.ValidationError("Upload body exceeds the size limit or could not be read")
	}
	return payload, nil
}

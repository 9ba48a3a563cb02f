// Copyright (c) 2026 Shiori Press. All rights reserved.
// Author: contact@shiori.press

/*
Package book provides the HTTP interface for the storefront's book shelf.

It exposes endpoints for creating books, editing their versioned content,
walking release history, publishing, and uploading binary assets.

# Routing Strategy

  - Public (v1): GET endpoints serve the published storefront view to visitors.
  - Authenticated (v1): Mutative endpoints require an author or admin principal;
    ownership checks happen in the [Service], not in the router.

The handler translates between the web/JSON layer and the internal domain [Service].
*/
package book

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/shiori-press/shiori/internal/platform/middleware"
	requestutil "github.com/shiori-press/shiori/internal/platform/request"
	"github.com/shiori-press/shiori/internal/platform/respond"
	"github.com/shiori-press/shiori/pkg/pagination"
)

// # Handler Implementation

// Handler implements the HTTP layer for book management.
// It translates web requests into domain service calls.
type Handler struct {
	service *Service
}

// NewHandler constructs a new book [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns a [chi.Router] configured with the book domain's endpoints.
//
// # Routing Strategy
//
//   - Browsing (Public): The storefront view; anonymous callers see published books.
//   - Authoring (Authenticated): Creation, editing, publication, and uploads.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// ## Browsing Endpoints
	router.Get("/", handler.listBooks)
	router.Get("/{id}", handler.getBook)

	// ## Authoring Endpoints
	router.Group(func(authenticated chi.Router) {
		authenticated.Use(middleware.RequireAuth)

		authenticated.Post("/", handler.createBook)
		authenticated.Patch("/{id}", handler.updateBook)
		authenticated.Get("/{id}/releases", handler.listReleases)
		authenticated.Post("/{id}/publish", handler.publishRelease)

		// Binary uploads take the raw request body, not multipart forms
		authenticated.Put("/{id}/cover", handler.uploadCover)
		authenticated.Put("/{id}/file", handler.uploadFile)
	})

	return router
}

// principalFrom builds the domain principal from the request's auth claims.
// An anonymous request yields a zero-value principal.
func principalFrom(request *http.Request) Principal {
	claims := requestutil.Claims(request)
	if claims == nil {
		return Principal{}
	}
	return Principal{UserID: claims.UserID, Role: claims.Role}
}

// # Book Endpoints

/*
GET /api/v1/books.

Description: Lists books. Authenticated authors see their own shelf, drafts
included; admins may inspect another author's shelf via the owner parameter.
Anonymous visitors get the published storefront listing.

Request:
  - owner: string (UUID, admin only)
  - limit: int
  - page: int

Response:
  - 200: []View: Paginated list of book projections
*/
func (handler *Handler) listBooks(writer http.ResponseWriter, request *http.Request) {
	paginationParams := pagination.FromRequest(request)
	principal := principalFrom(request)

	var views []*View
	var total int
	var err error

	if principal.UserID == "" {
		views, total, err = handler.service.ListPublishedBooks(request.Context(), paginationParams.Limit, paginationParams.Offset())
	} else {
		ownerID := request.URL.Query().Get("owner")
		views, total, err = handler.service.ListBooks(request.Context(), principal, ownerID, paginationParams.Limit, paginationParams.Offset())
	}
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, views, pagination.NewMeta(paginationParams.Page, paginationParams.Limit, total))
}

/*
GET /api/v1/books/{id}.

Description: Retrieves a single book projected for the caller. Owners and
admins see the active release; the public sees the latest published one.

Request:
  - id: string (UUID)

Response:
  - 200: View: Success
  - 404: ErrNotFound: Book missing or not visible to the caller
*/
func (handler *Handler) getBook(writer http.ResponseWriter, request *http.Request) {
	bookID := requestutil.ID(request, "id")

	view, err := handler.service.GetBook(request.Context(), principalFrom(request), bookID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, view)
}

/*
POST /api/v1/books.

Description: Creates a new book with an empty draft release. The book starts
unpublished and invisible to the storefront.

Request (Body):
  - CreateBookInput: JSON object

Response:
  - 201: View: The created book
  - 400: ErrInvalidJSON/Validation: Invalid input data
  - 401: ErrUnauthorized: Missing or invalid token
  - 403: ErrForbidden: Caller is not an author
*/
func (handler *Handler) createBook(writer http.ResponseWriter, request *http.Request) {
	var input CreateBookInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	view, err := handler.service.CreateBook(request.Context(), principalFrom(request), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, view)
}

/*
PATCH /api/v1/books/{id}.

Description: Applies a partial edit. Content fields ride the copy-on-write
versioning engine; a status field rides the publication state machine.
Clients should only send the fields they want changed.

Request:
  - id: string (UUID)
  - body: UpdateBookInput (Partial JSON)

Response:
  - 200: View: The book after the edit
  - 400: ErrInvalidJSON/Validation: Invalid input data
  - 401: ErrUnauthorized: Missing or invalid token
  - 403: NOT_ALLOWED: Illegal status transition for the caller's role
  - 404: ErrNotFound: Book not found
  - 409: STATE_CONFLICT: Frozen field or concurrent modification
*/
func (handler *Handler) updateBook(writer http.ResponseWriter, request *http.Request) {
	bookID := requestutil.ID(request, "id")

	var input UpdateBookInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	view, err := handler.service.UpdateBook(request.Context(), principalFrom(request), bookID, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, view)
}

/*
GET /api/v1/books/{id}/releases.

Description: Returns the full ordered release history of a book, including
the publication metadata of every frozen release and the trailing draft.

Request:
  - id: string (UUID)

Response:
  - 200: []Release: Oldest first
  - 401: ErrUnauthorized: Missing or invalid token
  - 403: ErrForbidden: Caller does not own the book
  - 404: ErrNotFound: Book not found
*/
func (handler *Handler) listReleases(writer http.ResponseWriter, request *http.Request) {
	bookID := requestutil.ID(request, "id")

	releases, err := handler.service.ListReleases(request.Context(), principalFrom(request), bookID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, releases)
}

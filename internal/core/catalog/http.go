// Copyright (c) 2026 Shiori Press. All rights reserved.
// Author: contact@shiori.press

package catalog

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/shiori-press/shiori/internal/platform/respond"
	"github.com/shiori-press/shiori/pkg/pagination"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Get("/latest", handler.latest)
	return router
}

/*
GET /api/v1/catalog/latest.

Description: The public discovery feed of recently published books,
newest first.

Request:
  - limit: int
  - page: int

Response:
  - 200: []book.View: Paginated public projections
*/
func (handler *Handler) latest(writer http.ResponseWriter, request *http.Request) {
	paginationParams := pagination.FromRequest(request)

	views, total, err := handler.service.Latest(request.Context(), paginationParams.Limit, paginationParams.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, views, pagination.NewMeta(paginationParams.Page, paginationParams.Limit, total))
}

// Copyright (c) 2026 Shiori Press. All rights reserved.
// Author: contact@shiori.press

package category

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/shiori-press/shiori/internal/platform/middleware"
	requestutil "github.com/shiori-press/shiori/internal/platform/request"
	"github.com/shiori-press/shiori/internal/platform/respond"
	"github.com/shiori-press/shiori/internal/platform/sec"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes exposes the taxonomy read endpoints publicly and gates the
// management endpoints behind the admin role.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.listCategories)
	router.Get("/{id}", handler.getCategory)
	router.Get("/by-key/{key}", handler.getCategoryByKey)

	router.Group(func(router chi.Router) {
		router.Use(middleware.RequireAuth)
		router.Use(middleware.RequireRole(sec.RoleAdmin))

		router.Post("/", handler.createCategory)
		router.Patch("/{id}", handler.updateCategory)
		router.Delete("/{id}", handler.deleteCategory)
	})

	return router
}

func (handler *Handler) listCategories(writer http.ResponseWriter, request *http.Request) {
	categories, err := handler.service.ListCategories(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, categories)
}

func (handler *Handler) getCategory(writer http.ResponseWriter, request *http.Request) {
	category, err := handler.service.GetCategory(request.Context(), requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, category)
}

func (handler *Handler) getCategoryByKey(writer http.ResponseWriter, request *http.Request) {
	category, err := handler.service.GetCategoryByKey(request.Context(), chi.URLParam(request, "key"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, category)
}

func (handler *Handler) createCategory(writer http.ResponseWriter, request *http.Request) {
	var input CreateInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	category, err := handler.service.CreateCategory(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, category)
}

func (handler *Handler) updateCategory(writer http.ResponseWriter, request *http.Request) {
	var input CreateInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	category, err := handler.service.UpdateCategory(request.Context(), requestutil.ID(request, "id"), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, category)
}

func (handler *Handler) deleteCategory(writer http.ResponseWriter, request *http.Request) {
	if err := handler.service.DeleteCategory(request.Context(), requestutil.ID(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

// Copyright (c) 2026 Shiori Press. All rights reserved.
// Author: contact@shiori.press

package category

import (
	"context"

	"github.com/shiori-press/shiori/internal/platform/constants"
	"github.com/shiori-press/shiori/internal/platform/validate"
	"github.com/shiori-press/shiori/pkg/slug"
	"github.com/shiori-press/shiori/pkg/uuid"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// CreateInput carries the fields of a new or updated category.
type CreateInput struct {
	Name     string            `json:"name"`
	NameI18n map[string]string `json:"name_i18n,omitempty"`
}

func (service *Service) ListCategories(context context.Context) ([]*Category, error) {
	return service.repo.List(context)
}

func (service *Service) GetCategory(context context.Context, id string) (*Category, error) {
	return service.repo.FindByID(context, id)
}

func (service *Service) GetCategoryByKey(context context.Context, key string) (*Category, error) {
	return service.repo.FindByKey(context, key)
}

// CreateCategory adds a taxonomy entry. The key is derived from the default
// name and must be unique; a collision surfaces as a 409 Conflict.
func (service *Service) CreateCategory(context context.Context, input CreateInput) (*Category, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	category := &Category{
		ID:       uuid.New(),
		Key:      slug.From(input.Name),
		Name:     input.Name,
		NameI18n: input.NameI18n,
	}
	if err := service.repo.Create(context, category); err != nil {
		return nil, err
	}
	return category, nil
}

// UpdateCategory replaces the display names of an existing category.
// The key is stable and never regenerated, so links keep working.
func (service *Service) UpdateCategory(context context.Context, id string, input CreateInput) (*Category, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	category, err := service.repo.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	category.Name = input.Name
	category.NameI18n = input.NameI18n
	if err := service.repo.Update(context, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (service *Service) DeleteCategory(context context.Context, id string) error {
	return service.repo.Delete(context, id)
}

func validateInput(input CreateInput) error {
	validator := &validate.Validator{}
	validator.Required("name", input.Name).MaxLen("name", input.Name, 100)
	for code, name := range input.NameI18n {
		if !constants.IsSupportedLanguage(code) {
			validator.Custom("name_i18n", true, "Unknown language code: "+code)
			continue
		}
		validator.Required("name_i18n."+code, name).MaxLen("name_i18n."+code, name, 100)
	}
	return validator.Err()
}

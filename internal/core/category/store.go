// Copyright (c) 2026 Shiori Press. All rights reserved.
// Author: contact@shiori.press

package category

import "context"

type Repository interface {
	List(context context.Context) ([]*Category, error)
	FindByID(context context.Context, id string) (*Category, error)
	FindByKey(context context.Context, key string) (*Category, error)
	Create(context context.Context, category *Category) error
	Update(context context.Context, category *Category) error
	Delete(context context.Context, id string) error
}

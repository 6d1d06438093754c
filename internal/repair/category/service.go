// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package category

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/taibuivan/repairment/internal/platform/validate"
)

const (
	FieldDescription      = "categoryDescription"
	FieldParentCategoryID = "parentCategoryId"

	maxDescriptionLength = 128
)

type Service struct {
	repo   Repository
	cache  Cache
	logger *slog.Logger
}

func NewService(repo Repository, cache Cache, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		cache:  cache,
		logger: logger,
	}
}

// ListRoots serves the root categories from the cache when it can. Cache
// failures are logged and the database answers instead.
func (service *Service) ListRoots(context context.Context) ([]Category, error) {
	categories, found, err := service.cache.Get(context)
	if err != nil {
		service.logger.WarnContext(context, "category_cache_read_failed", slog.Any("error", err))
	}
	if found {
		return categories, nil
	}

	categories, err = service.repo.ListRoots(context)
	if err != nil {
		return nil, fmt.Errorf("category_service_list_roots_failed: %w", err)
	}

	if err := service.cache.Set(context, categories); err != nil {
		service.logger.WarnContext(context, "category_cache_write_failed", slog.Any("error", err))
	}
	return categories, nil
}

// Create stores a category and drops the cached root list.
func (service *Service) Create(context context.Context, input NewCategory) (*Category, error) {
	input.Description = norm.NFC.String(strings.TrimSpace(input.Description))

	validator := &validate.Validator{}
	validator.Required(FieldDescription, input.Description).
		MaxLen(FieldDescription, input.Description, maxDescriptionLength).
		Custom(FieldParentCategoryID, input.ParentID < RootParentID, "Must not be negative")

	if err := validator.Err(); err != nil {
		return nil, err
	}

	created, err := service.repo.Create(context, input)
	if err != nil {
		if errors.Is(err, ErrParentNotFound) {
			return nil, validate.RequiredError(FieldParentCategoryID, "Unknown parent category")
		}
		return nil, fmt.Errorf("category_service_create_failed: %w", err)
	}

	if err := service.cache.Invalidate(context); err != nil {
		service.logger.WarnContext(context, "category_cache_invalidate_failed", slog.Any("error", err))
	}
	return created, nil
}

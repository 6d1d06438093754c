// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package category

import "context"

// Repository defines the data access contract.
type Repository interface {
	ListRoots(context context.Context) ([]Category, error)
	Create(context context.Context, category NewCategory) (*Category, error)
}

// Cache holds the root category list between database reads.
//
// Get reports a miss with found == false and a nil error.
type Cache interface {
	Get(context context.Context) (categories []Category, found bool, err error)
	Set(context context.Context, categories []Category) error
	Invalidate(context context.Context) error
}

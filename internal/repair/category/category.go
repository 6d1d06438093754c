// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package category serves the repair categories customers file tickets under.
package category

import "errors"

// RootParentID is the parent of top-level categories.
const RootParentID = 0

// ErrParentNotFound is returned when a new category names an unknown parent.
var ErrParentNotFound = errors.New("category: parent not found")

// Category is one entry of the category tree.
type Category struct {
	RelationID  int64  `json:"categoryRelationId"`
	ID          int64  `json:"categoryId"`
	Description string `json:"categoryDescription"`
	ParentID    int64  `json:"parentCategoryId"`
}

// NewCategory is what an administrator submits.
type NewCategory struct {
	Description string
	ParentID    int64
}

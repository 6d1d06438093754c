// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package category

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/repairment/internal/platform/middleware"
	requestutil "github.com/taibuivan/repairment/internal/platform/request"
	"github.com/taibuivan/repairment/internal/platform/respond"
	"github.com/taibuivan/repairment/internal/platform/sec"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns a [chi.Router] configured with category routes.
//
// # Endpoints
//   - GET  / : Root categories (any signed-in member).
//   - POST / : Create a category (administrators).
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.With(middleware.RequireGate(sec.GateMember)).Get("/", handler.listRoots)
	router.With(middleware.RequireGate(sec.GateAdministrator)).Post("/", handler.create)
	return router
}

type createRequest struct {
	Description string `json:"categoryDescription"`
	ParentID    int64  `json:"parentCategoryId"`
}

func (handler *Handler) listRoots(writer http.ResponseWriter, request *http.Request) {
	categories, err := handler.service.ListRoots(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, categories)
}

func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	var input createRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	created, err := handler.service.Create(request.Context(), NewCategory{
		Description: input.Description,
		ParentID:    input.ParentID,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, created)
}

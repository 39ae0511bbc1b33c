// Copyright (c) 2026 Critiq. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package review

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/taibuivan/critiq/internal/platform/request"
	"github.com/taibuivan/critiq/internal/platform/respond"
	"github.com/taibuivan/critiq/pkg/pagination"
)

// Handler implements the review HTTP endpoints.
//
// Routes are mounted under /titles/{titleID}/reviews by the server
// composition root; every handler reads the parent title from the URL.
type Handler struct {
	reviewService *Service
}

// NewHandler constructs a new review [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{reviewService: service}
}

// Routes returns a [chi.Router] for the nested reviews resource.
//
// # Endpoints
//   - GET    /           : Lists a title's reviews (public).
//   - POST   /           : Creates a review (authenticated).
//   - GET    /{reviewID} : Fetches a single review (public).
//   - PATCH  /{reviewID} : Updates a review (author/moderator).
//   - DELETE /{reviewID} : Removes a review (author/moderator).
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.list)
	router.Post("/", handler.create)
	router.Get("/{reviewID}", handler.get)
	router.Patch("/{reviewID}", handler.update)
	router.Delete("/{reviewID}", handler.delete)

	return router
}

// parentTitle extracts and validates the {titleID} URL parameter.
func parentTitle(req *http.Request) (string, error) {
	return requestutil.UUIDParam(req, "titleID", "Title")
}

// reviewID extracts and validates the {reviewID} URL parameter.
func reviewID(req *http.Request) (string, error) {
	return requestutil.UUIDParam(req, "reviewID", "Review")
}

// list handles GET /api/v1/titles/{titleID}/reviews requests.
func (handler *Handler) list(writer http.ResponseWriter, req *http.Request) {
	titleID, err := parentTitle(req)
	if err != nil {
		respond.Error(writer, req, err)
		return
	}

	params := pagination.FromRequest(req)

	reviews, total, err := handler.reviewService.ListByTitle(req.Context(), titleID, params.Limit, params.Offset())
	if err != nil {
		respond.Error(writer, req, err)
		return
	}

	respond.Paginated(writer, reviews, pagination.NewMeta(params.Page, params.Limit, total))
}

// get handles GET /api/v1/titles/{titleID}/reviews/{reviewID} requests.
func (handler *Handler) get(writer http.ResponseWriter, req *http.Request) {
	titleID, err := parentTitle(req)
	if err != nil {
		respond.Error(writer, req, err)
		return
	}
	id, err := reviewID(req)
	if err != nil {
		respond.Error(writer, req, err)
		return
	}

	review, err := handler.reviewService.Get(req.Context(), titleID, id)
	if err != nil {
		respond.Error(writer, req, err)
		return
	}

	respond.OK(writer, review)
}

// reviewRequest is the JSON payload for review creation.
type reviewRequest struct {
	Text  string `json:"text"`
	Score int    `json:"score"`
}

// create handles POST /api/v1/titles/{titleID}/reviews requests.
//
// # Returns
//   - Writes HTTP 201 Created on success with the new review.
//   - Writes HTTP 409 Conflict if the caller already reviewed this title.
func (handler *Handler) create(writer http.ResponseWriter, req *http.Request) {
	titleID, err := parentTitle(req)
	if err != nil {
		respond.Error(writer, req, err)
		return
	}

	var input reviewRequest
	if err := requestutil.DecodeJSON(req, &input); err != nil {
		respond.Error(writer, req, err)
		return
	}

	review, err := handler.reviewService.Create(
		req.Context(),
		requestutil.Principal(req),
		titleID,
		Input{Text: input.Text, Score: input.Score},
	)
	if err != nil {
		respond.Error(writer, req, err)
		return
	}

	respond.Created(writer, review)
}

// updateReviewRequest is the JSON payload for partial review updates.
type updateReviewRequest struct {
	Text  *string `json:"text"`
	Score *int    `json:"score"`
}

// update handles PATCH /api/v1/titles/{titleID}/reviews/{reviewID} requests.
func (handler *Handler) update(writer http.ResponseWriter, req *http.Request) {
	titleID, err := parentTitle(req)
	if err != nil {
		respond.Error(writer, req, err)
		return
	}
	id, err := reviewID(req)
	if err != nil {
		respond.Error(writer, req, err)
		return
	}

	var input updateReviewRequest
	if err := requestutil.DecodeJSON(req, &input); err != nil {
		respond.Error(writer, req, err)
		return
	}

	review, err := handler.reviewService.Update(
		req.Context(),
		requestutil.Principal(req),
		titleID,
		id,
		UpdateInput{Text: input.Text, Score: input.Score},
	)
	if err != nil {
		respond.Error(writer, req, err)
		return
	}

	respond.OK(writer, review)
}

// delete handles DELETE /api/v1/titles/{titleID}/reviews/{reviewID} requests.
func (handler *Handler) delete(writer http.ResponseWriter, req *http.Request) {
	titleID, err := parentTitle(req)
	if err != nil {
		respond.Error(writer, req, err)
		return
	}
	id, err := reviewID(req)
	if err != nil {
		respond.Error(writer, req, err)
		return
	}

	err = handler.reviewService.Delete(req.Context(), requestutil.Principal(req), titleID, id)
	if err != nil {
		respond.Error(writer, req, err)
		return
	}

	respond.NoContent(writer)
}

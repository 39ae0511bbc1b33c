// Copyright (c) 2026 Critiq. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/taibuivan/critiq/internal/platform/request"
	"github.com/taibuivan/critiq/internal/platform/respond"
	"github.com/taibuivan/critiq/pkg/convert"
	"github.com/taibuivan/critiq/pkg/pagination"
)

// Handler implements the catalog HTTP endpoints.
//
// # Scope
//
// Routes cover the three catalog resources. Reads are public; all writes go
// through the service's authorization checks.
type Handler struct {
	catalogService *Service
}

// NewHandler constructs a new catalog [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{catalogService: service}
}

// CategoryRoutes returns a [chi.Router] for the /categories resource.
//
// # Endpoints
//   - GET    /       : Lists categories (public).
//   - POST   /       : Creates a category (admin).
//   - DELETE /{slug} : Removes a category (admin).
func (handler *Handler) CategoryRoutes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.listCategories)
	router.Post("/", handler.createCategory)
	router.Delete("/{slug}", handler.deleteCategory)

	return router
}

// GenreRoutes returns a [chi.Router] for the /genres resource.
//
// # Endpoints
//   - GET    /       : Lists genres (public).
//   - POST   /       : Creates a genre (admin).
//   - DELETE /{slug} : Removes a genre (admin).
func (handler *Handler) GenreRoutes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.listGenres)
	router.Post("/", handler.createGenre)
	router.Delete("/{slug}", handler.deleteGenre)

	return router
}

// TitleRoutes returns a [chi.Router] for the /titles resource.
//
// Review and comment sub-routes are mounted under /{titleID} by the server
// composition root, not here, to keep package dependencies one-directional.
//
// # Endpoints
//   - GET    /          : Lists titles with filters (public).
//   - POST   /          : Creates a title (admin).
//   - GET    /{titleID} : Fetches a single title (public).
//   - PATCH  /{titleID} : Partially updates a title (admin).
//   - DELETE /{titleID} : Removes a title (admin).
func (handler *Handler) TitleRoutes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.listTitles)
	router.Post("/", handler.createTitle)
	router.Get("/{titleID}", handler.getTitle)
	router.Patch("/{titleID}", handler.updateTitle)
	router.Delete("/{titleID}", handler.deleteTitle)

	return router
}

// # Category Handlers

// listCategories handles GET /api/v1/categories requests.
func (handler *Handler) listCategories(writer http.ResponseWriter, req *http.Request) {
	params := pagination.FromRequest(req)

	categories, total, err := handler.catalogService.ListCategories(req.Context(), params.Limit, params.Offset())
	if err != nil {
		respond.Error(writer, req, err)
		return
	}

	respond.Paginated(writer, categories, pagination.NewMeta(params.Page, params.Limit, total))
}

// taxonomyRequest is the JSON payload for category and genre creation.
type taxonomyRequest struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// createCategory handles POST /api/v1/categories requests.
func (handler *Handler) createCategory(writer http.ResponseWriter, req *http.Request) {
	var input taxonomyRequest
	if err := requestutil.DecodeJSON(req, &input); err != nil {
		respond.Error(writer, req, err)
		return
	}

	category, err := handler.catalogService.CreateCategory(req.Context(), requestutil.Principal(req), TaxonomyInput{
		Name: input.Name,
		Slug: input.Slug,
	})
	if err != nil {
		respond.Error(writer, req, err)
		return
	}

	respond.Created(writer, category)
}

// deleteCategory handles DELETE /api/v1/categories/{slug} requests.
func (handler *Handler) deleteCategory(writer http.ResponseWriter, req *http.Request) {
	err := handler.catalogService.DeleteCategory(req.Context(), requestutil.Principal(req), requestutil.Param(req, "slug"))
	if err != nil {
		respond.Error(writer, req, err)
		return
	}

	respond.NoContent(writer)
}

// # Genre Handlers

// listGenres handles GET /api/v1/genres requests.
func (handler *Handler) listGenres(writer http.ResponseWriter, req *http.Request) {
	params := pagination.FromRequest(req)

	genres, total, err := handler.catalogService.ListGenres(req.Context(), params.Limit, params.Offset())
	if err != nil {
		respond.Error(writer, req, err)
		return
	}

	respond.Paginated(writer, genres, pagination.NewMeta(params.Page, params.Limit, total))
}

// createGenre handles POST /api/v1/genres requests.
func (handler *Handler) createGenre(writer http.ResponseWriter, req *http.Request) {
	var input taxonomyRequest
	if err := requestutil.DecodeJSON(req, &input); err != nil {
		respond.Error(writer, req, err)
		return
	}

	genre, err := handler.catalogService.CreateGenre(req.Context(), requestutil.Principal(req), TaxonomyInput{
		Name: input.Name,
		Slug: input.Slug,
	})
	if err != nil {
		respond.Error(writer, req, err)
		return
	}

	respond.Created(writer, genre)
}

// deleteGenre handles DELETE /api/v1/genres/{slug} requests.
func (handler *Handler) deleteGenre(writer http.ResponseWriter, req *http.Request) {
	err := handler.catalogService.DeleteGenre(req.Context(), requestutil.Principal(req), requestutil.Param(req, "slug"))
	if err != nil {
		respond.Error(writer, req, err)
		return
	}

	respond.NoContent(writer)
}

// # Title Handlers

// listTitles handles GET /api/v1/titles requests.
//
// # Query Parameters
//   - category: Category slug filter.
//   - genre: Genre slug filter.
//   - name: Case-insensitive name search.
//   - year: Exact release year.
func (handler *Handler) listTitles(writer http.ResponseWriter, req *http.Request) {
	params := pagination.FromRequest(req)
	query := req.URL.Query()

	filter := TitleFilter{
		CategorySlug: query.Get("category"),
		GenreSlug:    query.Get("genre"),
		Name:         query.Get("name"),
	}
	if rawYear := query.Get("year"); rawYear != "" {
		year := convert.ToInt(rawYear)
		filter.Year = &year
	}

	titles, total, err := handler.catalogService.ListTitles(req.Context(), filter, params.Limit, params.Offset())
	if err != nil {
		respond.Error(writer, req, err)
		return
	}

	respond.Paginated(writer, titles, pagination.NewMeta(params.Page, params.Limit, total))
}

// getTitle handles GET /api/v1/titles/{titleID} requests.
func (handler *Handler) getTitle(writer http.ResponseWriter, req *http.Request) {
	titleID, err := requestutil.UUIDParam(req, "titleID", "Title")
	if err != nil {
		respond.Error(writer, req, err)
		return
	}

	title, err := handler.catalogService.GetTitle(req.Context(), titleID)
	if err != nil {
		respond.Error(writer, req, err)
		return
	}

	respond.OK(writer, title)
}

// titleRequest is the JSON payload for title creation.
type titleRequest struct {
	Name        string   `json:"name"`
	Year        int      `json:"year"`
	Description *string  `json:"description"`
	Category    string   `json:"category"`
	Genres      []string `json:"genres"`
}

// createTitle handles POST /api/v1/titles requests.
func (handler *Handler) createTitle(writer http.ResponseWriter, req *http.Request) {
	var input titleRequest
	if err := requestutil.DecodeJSON(req, &input); err != nil {
		respond.Error(writer, req, err)
		return
	}

	title, err := handler.catalogService.CreateTitle(req.Context(), requestutil.Principal(req), TitleInput{
		Name:         input.Name,
		Year:         input.Year,
		Description:  input.Description,
		CategorySlug: input.Category,
		GenreSlugs:   input.Genres,
	})
	if err != nil {
		respond.Error(writer, req, err)
		return
	}

	respond.Created(writer, title)
}

// updateTitleRequest is the JSON payload for partial title updates.
// Absent fields are left unchanged.
type updateTitleRequest struct {
	Name        *string   `json:"name"`
	Year        *int      `json:"year"`
	Description *string   `json:"description"`
	Category    *string   `json:"category"`
	Genres      *[]string `json:"genres"`
}

// updateTitle handles PATCH /api/v1/titles/{titleID} requests.
func (handler *Handler) updateTitle(writer http.ResponseWriter, req *http.Request) {
	titleID, err := requestutil.UUIDParam(req, "titleID", "Title")
	if err != nil {
		respond.Error(writer, req, err)
		return
	}

	var input updateTitleRequest
	if err := requestutil.DecodeJSON(req, &input); err != nil {
		respond.Error(writer, req, err)
		return
	}

	title, err := handler.catalogService.UpdateTitle(req.Context(), requestutil.Principal(req), titleID, UpdateTitleInput{
		Name:         input.Name,
		Year:         input.Year,
		Description:  input.Description,
		CategorySlug: input.Category,
		GenreSlugs:   input.Genres,
	})
	if err != nil {
		respond.Error(writer, req, err)
		return
	}

	respond.OK(writer, title)
}

// deleteTitle handles DELETE /api/v1/titles/{titleID} requests.
func (handler *Handler) deleteTitle(writer http.ResponseWriter, req *http.Request) {
	titleID, err := requestutil.UUIDParam(req, "titleID", "Title")
	if err != nil {
		respond.Error(writer, req, err)
		return
	}

	err = handler.catalogService.DeleteTitle(req.Context(), requestutil.Principal(req), titleID)
	if err != nil {
		respond.Error(writer, req, err)
		return
	}

	respond.NoContent(writer)
}
